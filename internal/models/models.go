package models

// Hit kinds accepted by the collector.
const (
	KindPageview = "pageview"
	KindEvent    = "event"
)

type Hit struct {
	TSUTC    int64   `json:"ts_utc"`
	TSISO    string  `json:"ts_iso"`
	Account  string  `json:"account"`
	Session  string  `json:"session"`
	Kind     string  `json:"kind"` // pageview|event
	Path     string  `json:"path"` // pageview path, may be a synthetic error page path
	Category string  `json:"category"`
	Action   string  `json:"action"`
	Label    *string `json:"label"` // nullable
	Value    *int64  `json:"value"` // nullable
}

type Batch struct {
	Hits []Hit `json:"hits"`
}
