package track

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pagetally/pagetally/internal/models"
)

// HTTPLoader loads the tracking library from a pagetally collector. It
// probes the collector's health endpoint and, when reachable, yields a
// factory producing handles bound to that collector. Every page load gets
// a fresh session ID.
type HTTPLoader struct {
	// Client used for the probe and for delivering hits. nil means
	// http.DefaultClient.
	Client *http.Client
}

func (l *HTTPLoader) Load(endpoint string, done func(HandleFactory)) {
	client := l.client()

	resp, err := client.Get(endpoint + "/healthz")
	if err != nil {
		done(nil)
		return
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		done(nil)
		return
	}

	session := uuid.NewString()
	done(func(accountID string) (Handle, error) {
		if accountID == "" {
			return nil, fmt.Errorf("account id cannot be empty")
		}
		return &httpHandle{
			endpoint: endpoint,
			account:  accountID,
			session:  session,
			client:   client,
		}, nil
	})
}

func (l *HTTPLoader) client() *http.Client {
	if l.Client != nil {
		return l.Client
	}
	return http.DefaultClient
}

// httpHandle delivers hits to a collector's /events endpoint, one hit per
// batch. Delivery failures surface as errors and the hit is lost; the
// caller tolerates that.
type httpHandle struct {
	endpoint string
	account  string
	session  string
	client   *http.Client
}

func (h *httpHandle) RecordPageview(path string) error {
	return h.post(models.Hit{
		Kind: models.KindPageview,
		Path: path,
	})
}

func (h *httpHandle) RecordEvent(category, action, label string, value *int64) error {
	hit := models.Hit{
		Kind:     models.KindEvent,
		Category: category,
		Action:   action,
		Value:    value,
	}
	if label != "" {
		hit.Label = &label
	}
	return h.post(hit)
}

func (h *httpHandle) post(hit models.Hit) error {
	now := time.Now().UTC()
	hit.TSUTC = now.Unix()
	hit.TSISO = now.Format(time.RFC3339)
	hit.Account = h.account
	hit.Session = h.session

	body, err := json.Marshal(models.Batch{Hits: []models.Hit{hit}})
	if err != nil {
		return fmt.Errorf("failed to marshal hit: %w", err)
	}
	resp, err := h.client.Post(h.endpoint+"/events", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to deliver hit: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("collector rejected hit: %s", resp.Status)
	}
	return nil
}
