package track

// DefaultSettings is the package-wide settings object for element tracking.
// Embedding code may mutate Defaults to override behavior globally, most
// commonly to flip Debug on.
type DefaultSettings struct {
	Action       string
	EventName    string
	SkipInternal bool
	Debug        bool
}

var Defaults = DefaultSettings{
	Action:       "click",
	EventName:    "click",
	SkipInternal: true,
}

// Setting is a tracking option that is either a literal string or a
// callback evaluated against the target element at attach time. The zero
// value is unset, which selects the per-field default.
type Setting struct {
	text string
	fn   func(Element) string
	set  bool
}

// Text returns a literal Setting.
func Text(s string) Setting {
	return Setting{text: s, set: true}
}

// Func returns a Setting computed from the element at attach time.
func Func(fn func(Element) string) Setting {
	return Setting{fn: fn, set: true}
}

func (s Setting) resolve(el Element) string {
	if s.fn != nil {
		return s.fn(el)
	}
	return s.text
}

// NumberSetting is the numeric counterpart of Setting. The zero value is
// unset, meaning no value is sent with the event.
type NumberSetting struct {
	n  *int64
	fn func(Element) *int64
}

// Number returns a literal NumberSetting.
func Number(n int64) NumberSetting {
	return NumberSetting{n: &n}
}

// NumberFunc returns a NumberSetting computed from the element at attach time.
func NumberFunc(fn func(Element) *int64) NumberSetting {
	return NumberSetting{fn: fn}
}

func (s NumberSetting) resolve(el Element) *int64 {
	if s.fn != nil {
		return s.fn(el)
	}
	return s.n
}

// PageSettings configures InitPage. The zero value means defaults:
// initialization deferred to page load, status 200.
type PageSettings struct {
	// OnLoad defers initialization until the page load signal. nil means true.
	OnLoad *bool
	// StatusCode is the HTTP status to report. 0 or 200 records a normal
	// pageview, anything else an error pageview.
	StatusCode int
}

type pageSettings struct {
	onLoad     bool
	statusCode int
}

func (s *PageSettings) withDefaults() pageSettings {
	merged := pageSettings{onLoad: true, statusCode: 200}
	if s == nil {
		return merged
	}
	if s.OnLoad != nil {
		merged.onLoad = *s.OnLoad
	}
	if s.StatusCode != 0 {
		merged.statusCode = s.StatusCode
	}
	return merged
}

// AttachSettings configures Attach. Unset fields fall back to Defaults and
// to element-derived values (category from link host, label from the link
// target).
type AttachSettings struct {
	Category  Setting
	Action    Setting
	Label     Setting
	Value     NumberSetting
	EventName string
	// SkipInternal suppresses events for same-host links. nil means
	// Defaults.SkipInternal.
	SkipInternal *bool
	// Debug enables the diagnostic log for this attachment. nil means
	// Defaults.Debug.
	Debug *bool
}

// resolved holds attach settings after merging and callback evaluation.
// All callbacks have already run; nothing here is re-evaluated at fire time.
type resolved struct {
	category     string
	action       string
	label        string
	value        *int64
	eventName    string
	skipInternal bool
	debug        bool
}

func (s *AttachSettings) resolve(el Element, page Page) resolved {
	merged := AttachSettings{}
	if s != nil {
		merged = *s
	}

	r := resolved{
		eventName:    Defaults.EventName,
		skipInternal: Defaults.SkipInternal,
		debug:        Defaults.Debug,
	}
	if merged.EventName != "" {
		r.eventName = merged.EventName
	}
	if merged.SkipInternal != nil {
		r.skipInternal = *merged.SkipInternal
	}
	if merged.Debug != nil {
		r.debug = *merged.Debug
	}

	if merged.Category.set {
		r.category = merged.Category.resolve(el)
	} else if linkHost(el, page) == page.Hostname() {
		r.category = "internal"
	} else {
		r.category = "external"
	}

	if merged.Action.set {
		r.action = merged.Action.resolve(el)
	} else {
		r.action = Defaults.Action
	}

	if merged.Label.set {
		r.label = merged.Label.resolve(el)
	} else {
		r.label = el.Attr("href")
	}

	r.value = merged.Value.resolve(el)
	return r
}
