// Package settings holds the named string settings handed to the process at
// startup.
//
// A Registry is replaced wholesale with Set and validated lazily: a missing
// name only fails when it is looked up. The first successful lookup of each
// name is logged at info level; every failed lookup is logged at fatal level
// with the text of the returned error.
//
//	reg := settings.New(logger.Get("settings"))
//	reg.Set(map[string]string{"storage.path": "/var/lib/app"})
//	path, err := reg.Get("storage.path")
package settings
