package webhook

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"issuerelay/internal/config"
	"issuerelay/internal/dispatch"
	"issuerelay/internal/github"
	"issuerelay/internal/ledger"
	"issuerelay/internal/storage"
)

const testSecret = "test-webhook-secret"

type recordingChannel struct {
	mu      sync.Mutex
	sent    []string
	sendErr error
}

func (c *recordingChannel) Send(ctx context.Context, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, message)
	return nil
}

func (c *recordingChannel) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

type testRig struct {
	server  *Server
	channel *recordingChannel
	ledger  *ledger.Ledger
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()

	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "issues.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	led := ledger.New(db)
	channel := &recordingChannel{}
	allow := config.NewAllowlist([]string{"kubernetes/website"})
	d := dispatch.New(testSecret, allow, led, channel)

	return &testRig{
		server:  New("127.0.0.1:0", d),
		channel: channel,
		ledger:  led,
	}
}

func (rig *testRig) post(t *testing.T, event string, body []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader(body))
	req.Header.Set(github.EventHeader, event)
	req.Header.Set(github.SignatureHeader, signature)
	req.Header.Set(github.DeliveryHeader, "72d3162e-cc78-11e3-81ab-4c9367dc0958")
	rec := httptest.NewRecorder()
	rig.server.Routes().ServeHTTP(rec, req)
	return rec
}

const openedPayload = `{
  "action": "opened",
  "issue": {
    "id": 3052745893,
    "number": 512,
    "title": "Typo in getting-started guide",
    "html_url": "https://github.com/kubernetes/website/issues/512",
    "created_at": "2026-08-30T09:58:11Z",
    "user": {"login": "octocat"},
    "labels": [{"name": "kind/bug"}]
  },
  "repository": {"full_name": "kubernetes/website"}
}`

func TestWebhookEndToEnd(t *testing.T) {
	rig := newTestRig(t)
	body := []byte(openedPayload)
	sig := dispatch.SignBody(body, testSecret)

	rec := rig.post(t, "issues", body, sig)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if rig.channel.count() != 1 {
		t.Fatalf("sends = %d, want 1", rig.channel.count())
	}

	tracked, err := rig.ledger.Contains(context.Background(), 3052745893, "kubernetes/website")
	if err != nil {
		t.Fatalf("ledger.Contains: %v", err)
	}
	if !tracked {
		t.Fatal("issue not recorded in ledger")
	}

	// Replaying the identical delivery: 200, no extra send, no extra row.
	rec = rig.post(t, "issues", body, sig)
	if rec.Code != http.StatusOK {
		t.Fatalf("replay status = %d, want 200", rec.Code)
	}
	if rig.channel.count() != 1 {
		t.Errorf("sends after replay = %d, want 1", rig.channel.count())
	}
}

func TestWebhookPing(t *testing.T) {
	rig := newTestRig(t)
	body := []byte(`{"zen":"Design for failure.","hook_id":12345}`)

	rec := rig.post(t, "ping", body, dispatch.SignBody(body, testSecret))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Pong") {
		t.Errorf("body = %q, want pong confirmation", rec.Body.String())
	}
	if rig.channel.count() != 0 {
		t.Errorf("ping must not send notifications, got %d", rig.channel.count())
	}
}

func TestWebhookBadSignature(t *testing.T) {
	rig := newTestRig(t)
	body := []byte(openedPayload)

	rec := rig.post(t, "issues", body, "sha256=0000000000000000000000000000000000000000000000000000000000000000")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if rig.channel.count() != 0 {
		t.Errorf("unauthenticated request must not notify, got %d", rig.channel.count())
	}
}

func TestWebhookMalformedJSON(t *testing.T) {
	rig := newTestRig(t)
	body := []byte(`{"action": "opened"`)

	rec := rig.post(t, "issues", body, dispatch.SignBody(body, testSecret))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestWebhookOutOfScopeRepository(t *testing.T) {
	rig := newTestRig(t)
	body := []byte(strings.Replace(openedPayload, "kubernetes/website", "someone/else", -1))

	rec := rig.post(t, "issues", body, dispatch.SignBody(body, testSecret))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rig.channel.count() != 0 {
		t.Errorf("out-of-scope repository must not notify, got %d", rig.channel.count())
	}
	tracked, err := rig.ledger.Contains(context.Background(), 3052745893, "someone/else")
	if err != nil {
		t.Fatalf("ledger.Contains: %v", err)
	}
	if tracked {
		t.Error("out-of-scope repository must not appear in ledger")
	}
}

func TestWebhookDeliveryFailureStillAccepted(t *testing.T) {
	rig := newTestRig(t)
	rig.channel.sendErr = errors.New("telegram timeout")
	body := []byte(openedPayload)
	sig := dispatch.SignBody(body, testSecret)

	rec := rig.post(t, "issues", body, sig)

	// The sender still gets 200; retrying would only re-derive the outcome.
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	tracked, err := rig.ledger.Contains(context.Background(), 3052745893, "kubernetes/website")
	if err != nil {
		t.Fatalf("ledger.Contains: %v", err)
	}
	if tracked {
		t.Error("failed delivery must not be recorded")
	}

	// Manual replay after the channel recovers succeeds.
	rig.channel.sendErr = nil
	rec = rig.post(t, "issues", body, sig)
	if rec.Code != http.StatusOK {
		t.Fatalf("replay status = %d, want 200", rec.Code)
	}
	if rig.channel.count() != 1 {
		t.Errorf("sends = %d, want 1", rig.channel.count())
	}
}

func TestHealthEndpoints(t *testing.T) {
	rig := newTestRig(t)

	for _, path := range []string{"/health", "/"} {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		rig.server.Routes().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "OK") {
			t.Errorf("GET %s body = %q", path, rec.Body.String())
		}
	}
}

func TestWebhookPayloadTooLarge(t *testing.T) {
	rig := newTestRig(t)
	body := bytes.Repeat([]byte("x"), maxBodySize+1)

	rec := rig.post(t, "issues", body, "")

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}
