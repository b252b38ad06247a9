package track

import "net/url"

// Namespace qualifies every handler this package binds, so embedding code
// can unbind them without disturbing unrelated handlers on the same event.
const Namespace = "track"

// trackedFlag marks elements that already carry a tracking handler.
const trackedFlag = Namespace + ".attached"

// Element is the capability surface the tracker needs from a page element.
// Implementations wrap whatever element representation the host has.
type Element interface {
	// Attr returns the named attribute, "" when absent. The link target is
	// read from "href".
	Attr(name string) string
	// On binds handler to event under the given namespace. The handler's
	// return value is the continuation flag handed back to the host.
	On(event, namespace string, handler func() bool)
	HasFlag(name string) bool
	SetFlag(name string)
}

// Attach binds a tracking handler to each element exactly once and returns
// elements for chaining. Elements already carrying a handler are skipped,
// so repeated calls never double-fire. Settings callbacks are evaluated
// here, at attach time, not when the event fires.
func (t *Tracker) Attach(elements []Element, s *AttachSettings) []Element {
	for _, el := range elements {
		t.attachOne(el, s)
	}
	return elements
}

func (t *Tracker) attachOne(el Element, s *AttachSettings) {
	if el.HasFlag(trackedFlag) {
		return
	}
	el.SetFlag(trackedFlag)

	r := s.resolve(el, t.page)

	el.On(r.eventName, Namespace, func() bool {
		// Internal-host check runs per fire; everything else was resolved
		// at attach time.
		if r.skipInternal && linkHost(el, t.page) == t.page.Hostname() {
			t.debugf(r.debug, "internal link, event skipped", "label", r.label)
			return true
		}
		t.TrackEvent(r.category, r.action, r.label, r.value)
		t.debugf(r.debug, "event tracked",
			"category", r.category, "action", r.action, "label", r.label)
		return true
	})
}

// linkHost resolves the element's link target host. Relative and
// unparseable targets resolve to the page host, matching how a browser
// resolves an anchor's hostname.
func linkHost(el Element, page Page) string {
	u, err := url.Parse(el.Attr("href"))
	if err != nil || u.Host == "" {
		return page.Hostname()
	}
	return u.Hostname()
}
