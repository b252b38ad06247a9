// Package track wraps an analytics collector's tracking calls and attaches
// click-tracking handlers to page elements. A Tracker is initialized once
// per page load and shared by everything that records events on that page.
package track

import (
	"errors"
	"fmt"
	"log/slog"
)

// Collector endpoints used by InitPage. Override before InitPage for
// self-hosted collectors.
var (
	SecureEndpoint   = "https://127.0.0.1:8123"
	InsecureEndpoint = "http://127.0.0.1:8123"
)

// ErrLibraryUnavailable is reported when the tracking library could not be
// loaded at initialization time, typically a blocked or unreachable
// collector. There is no retry.
var ErrLibraryUnavailable = errors.New("tracking library failed to load")

// Handle is an initialized analytics session. Implementations are supplied
// by the loaded tracking library.
type Handle interface {
	RecordPageview(path string) error
	RecordEvent(category, action, label string, value *int64) error
}

// HandleFactory produces a Handle for an account once the tracking library
// has loaded.
type HandleFactory func(accountID string) (Handle, error)

// Loader fetches the remote tracking library and hands back its handle
// factory. done receives nil when the library could not be loaded. done is
// invoked exactly once, before Load returns.
type Loader interface {
	Load(endpoint string, done func(HandleFactory))
}

// Page is the capability surface the tracker needs from the current page.
type Page interface {
	Secure() bool
	Hostname() string
	Path() string
	// Query returns the raw query string including the leading "?", or "".
	Query() string
	Referrer() string
	// OnLoad invokes fn once the page has finished loading. An already
	// loaded page invokes fn immediately.
	OnLoad(fn func())
}

// Tracker records pageviews and events for one page load. It is written
// once by InitPage and read by event handlers afterwards; callers drive it
// from a single goroutine, mirroring the UI event loop it models.
type Tracker struct {
	page   Page
	loader Loader
	logger *slog.Logger

	// OnError is invoked for initialization failures. Optional.
	OnError func(error)

	handle Handle
}

// New returns a Tracker for the given page. logger may be nil, which
// silences diagnostics entirely.
func New(page Page, loader Loader, logger *slog.Logger) *Tracker {
	return &Tracker{page: page, loader: loader, logger: logger}
}

// InitPage loads the tracking library, acquires a handle for accountID and
// records the initial pageview. With the OnLoad default the whole sequence
// is deferred until the page load signal fires.
func (t *Tracker) InitPage(accountID string, s *PageSettings) {
	merged := s.withDefaults()

	endpoint := InsecureEndpoint
	if t.page.Secure() {
		endpoint = SecureEndpoint
	}

	load := func() {
		t.loader.Load(endpoint, func(factory HandleFactory) {
			t.finishInit(accountID, merged, factory)
		})
	}
	if merged.onLoad {
		t.page.OnLoad(load)
	} else {
		load()
	}
}

func (t *Tracker) finishInit(accountID string, s pageSettings, factory HandleFactory) {
	if factory == nil {
		// The original behavior here was an uncatchable throw from inside
		// the load callback. Report instead; later events degrade to the
		// documented no-op.
		t.fail(ErrLibraryUnavailable)
		return
	}
	handle, err := factory(accountID)
	if err != nil {
		t.fail(fmt.Errorf("failed to initialize tracker for %s: %w", accountID, err))
		return
	}
	t.handle = handle

	path := t.page.Path() + t.page.Query()
	if s.statusCode != 200 {
		path = errorPath(s.statusCode, t.page)
	}
	if err := handle.RecordPageview(path); err != nil {
		t.debugf(Defaults.Debug, "pageview dropped", "path", path, "error", err)
	}
}

// errorPath builds the synthetic pageview path for error pages. Fields are
// forwarded verbatim; the collector owns encoding.
func errorPath(statusCode int, p Page) string {
	return fmt.Sprintf("/%d.html?page=%s%s&from=%s", statusCode, p.Path(), p.Query(), p.Referrer())
}

// TrackEvent forwards an event to the tracker handle. Without an
// initialized handle the event is dropped with a diagnostic; that is the
// expected shape of blocked tracking, not an error.
func (t *Tracker) TrackEvent(category, action, label string, value *int64) {
	if t.handle == nil {
		t.debugf(Defaults.Debug, "no tracker handle, event dropped",
			"category", category, "action", action, "label", label)
		return
	}
	if err := t.handle.RecordEvent(category, action, label, value); err != nil {
		t.debugf(Defaults.Debug, "event dropped",
			"category", category, "action", action, "label", label, "error", err)
	}
}

func (t *Tracker) fail(err error) {
	if t.logger != nil {
		t.logger.Error("tracking initialization failed", "error", err)
	}
	if t.OnError != nil {
		t.OnError(err)
	}
}

// debugf is the diagnostic log gate: output requires both the debug flag
// and a logger. Never required for correctness.
func (t *Tracker) debugf(enabled bool, msg string, args ...any) {
	if !enabled || t.logger == nil {
		return
	}
	t.logger.Debug(msg, args...)
}
