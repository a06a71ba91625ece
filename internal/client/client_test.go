package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"anbargar/internal/model"
)

func TestClient_BearerHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]model.CanonicalItem{})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok-123")
	if _, err := c.ListItems(context.Background()); err != nil {
		t.Fatalf("list items: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("want bearer header, got %q", gotAuth)
	}
}

func TestClient_SessionTokenBootstrap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/session-token/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "fresh"})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	tok, err := c.SessionToken(context.Background())
	if err != nil {
		t.Fatalf("session token: %v", err)
	}
	if tok != "fresh" {
		t.Fatalf("want fresh, got %q", tok)
	}
}

func TestClient_APIErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "quantity must be positive"})
	}))
	defer srv.Close()

	c := New(srv.URL, "t")
	_, err := c.SubmitEvent(context.Background(), &model.MovementEvent{Type: model.EventSell})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Error() != "quantity must be positive" {
		t.Fatalf("detail lost: %+v", apiErr)
	}
}

func TestClient_APIErrorWithoutDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "t")
	_, err := c.ListEvents(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want APIError, got %v", err)
	}
	if apiErr.Error() != "server returned status 500" {
		t.Fatalf("fallback message: %q", apiErr.Error())
	}
}

func TestClient_GetEventNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "not found"})
	}))
	defer srv.Close()

	c := New(srv.URL, "t")
	if _, err := c.GetEvent(context.Background(), "e404"); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("want ErrEventNotFound, got %v", err)
	}
}

func TestClient_EventWithDetailFallsBackToSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "t")
	summary := &model.MovementEvent{ID: "e1", Type: model.EventSell}
	got := c.EventWithDetail(context.Background(), summary)
	if got != summary {
		t.Fatalf("want summary fallback, got %+v", got)
	}
}

func TestClient_EventWithDetailFetchesLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/events/e1/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(model.MovementEvent{
			ID:    "e1",
			Type:  model.EventSell,
			Lines: []model.ReconciledLine{{ItemRef: "i1", Name: "Bolt"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "t")
	summary := &model.MovementEvent{ID: "e1", Type: model.EventSell}
	got := c.EventWithDetail(context.Background(), summary)
	if !got.HasLineDetail() || len(got.Lines) != 1 {
		t.Fatalf("detail not fetched: %+v", got)
	}
}

func TestClient_Snapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/items/":
			_ = json.NewEncoder(w).Encode([]model.CanonicalItem{{ID: "i1", Name: "Bolt"}})
		case "/api/folders/":
			_ = json.NewEncoder(w).Encode([]model.Folder{{ID: "f1", Name: "Main"}})
		case "/api/customers/":
			_ = json.NewEncoder(w).Encode([]model.Customer{{ID: "c1", FirstName: "Sara"}})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "t")
	snap, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Items) != 1 || len(snap.Folders) != 1 || len(snap.Customers) != 1 {
		t.Fatalf("incomplete snapshot: %+v", snap)
	}
}

func TestClient_SubmitEventReturnsCreated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/events/" {
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var in model.MovementEvent
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("decode: %v", err)
		}
		in.ID = "e99"
		_ = json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	c := New(srv.URL, "t")
	created, err := c.SubmitEvent(context.Background(), &model.MovementEvent{
		Type:     model.EventBuy,
		FolderID: "f1",
		Lines:    []model.ReconciledLine{{ItemRef: "i1", Name: "Bolt"}},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if created.ID != "e99" || created.FolderID != "f1" {
		t.Fatalf("created mismatch: %+v", created)
	}
}
