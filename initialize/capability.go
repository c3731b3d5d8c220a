package initialize

// Orderable is implemented by candidates that rank themselves. Higher wins.
type Orderable interface {
	SelectOrder() int
}

// Typed is implemented by candidates registered under a type key.
type Typed interface {
	SelectType() string
}

// Mode names a selection mode in logs, spans and metrics.
type Mode string

const (
	ModeSelectOrder Mode = "select_order"
	ModeOnlyOne     Mode = "only_one"
	ModeSelectType  Mode = "select_type"
)
