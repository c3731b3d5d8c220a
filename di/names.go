package di

// Names lists the component keys registered by bootstrap.
type Names struct {
	Config      string
	Logger      string
	Settings    string
	Initializer string
	Plugins     string
	Metrics     string
}

// Keys contains the component keys registered by bootstrap.
var Keys = Names{
	Config:      "config",
	Logger:      "logger",
	Settings:    "settings",
	Initializer: "initializer",
	Plugins:     "plugins",
	Metrics:     "metrics",
}
