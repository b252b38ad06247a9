package track

// Location is a fixed Page snapshot for callers that know their page
// context up front. Its load signal fires immediately.
type Location struct {
	IsSecure  bool
	Host      string
	PagePath  string
	PageQuery string // raw query including leading "?", or ""
	From      string // referrer
}

func (l Location) Secure() bool     { return l.IsSecure }
func (l Location) Hostname() string { return l.Host }
func (l Location) Path() string     { return l.PagePath }
func (l Location) Query() string    { return l.PageQuery }
func (l Location) Referrer() string { return l.From }

// OnLoad invokes fn immediately; a static location is always loaded.
func (l Location) OnLoad(fn func()) { fn() }
