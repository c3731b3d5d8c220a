// Package version reports the build of the initkit binary.
//
// The variables are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/initkit/version.Version=1.0.0"
//
// Anything left empty is filled from the module build info.
package version
