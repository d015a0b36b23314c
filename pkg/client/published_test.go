package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// publishedServer serves a fixed challenge list and records deletes
type publishedServer struct {
	mu         sync.Mutex
	deleted    []string
	failDelete bool
}

func (s *publishedServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/challenges", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"id": "ch-1", "title": "Two Sum", "status": "published"},
				{"id": "ch-2", "title": "WIP Challenge", "status": "draft"},
				{"id": "ch-3", "title": "Graph Paths", "status": "published"},
			},
			"total_count": 3,
		})
	})
	mux.HandleFunc("DELETE /api/admin/challenges/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.failDelete {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"delete failed"}`))
			return
		}
		s.deleted = append(s.deleted, r.PathValue("id"))
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	})
	return mux
}

func TestPublishedChallengesFiltersDrafts(t *testing.T) {
	backend := &publishedServer{}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	list := NewClient(srv.URL).PublishedChallenges()
	if err := list.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch failed: %v", err)
	}

	items := list.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 published items, got %d", len(items))
	}
	for _, ch := range items {
		if ch.Status != "published" {
			t.Errorf("draft leaked into the list: %s", ch.ID)
		}
	}
}

func TestPublishedChallengesOptimisticDelete(t *testing.T) {
	backend := &publishedServer{}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	list := NewClient(srv.URL).PublishedChallenges()
	if err := list.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch failed: %v", err)
	}

	if !list.Delete(context.Background(), "ch-1") {
		t.Fatalf("delete failed: %s", list.Err())
	}

	// Removed locally without a refetch
	items := list.Items()
	if len(items) != 1 || items[0].ID != "ch-3" {
		t.Errorf("items after delete = %v", items)
	}
	if len(backend.deleted) != 1 || backend.deleted[0] != "ch-1" {
		t.Errorf("server saw deletes %v", backend.deleted)
	}
	if list.Err() != "" {
		t.Errorf("unexpected error: %s", list.Err())
	}
	if list.Deleting("ch-1") {
		t.Error("delete still marked in flight")
	}
}

func TestPublishedChallengesDeleteFailure(t *testing.T) {
	backend := &publishedServer{failDelete: true}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	list := NewClient(srv.URL).PublishedChallenges(WithErrorClearAfter(50 * time.Millisecond))
	if err := list.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch failed: %v", err)
	}

	if list.Delete(context.Background(), "ch-1") {
		t.Fatal("expected delete to fail")
	}

	// The list is untouched and the failure is surfaced
	if len(list.Items()) != 2 {
		t.Errorf("failed delete changed the list: %v", list.Items())
	}
	want := "Failed to delete challenge: delete failed"
	if list.Err() != want {
		t.Errorf("Err() = %q, want %q", list.Err(), want)
	}

	// The message clears itself
	deadline := time.After(2 * time.Second)
	for list.Err() != "" {
		select {
		case <-deadline:
			t.Fatal("error message never cleared")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestPublishedChallengesRefetchClearsError(t *testing.T) {
	backend := &publishedServer{failDelete: true}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	list := NewClient(srv.URL).PublishedChallenges(WithErrorClearAfter(time.Hour))
	if err := list.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch failed: %v", err)
	}

	list.Delete(context.Background(), "ch-1")
	if list.Err() == "" {
		t.Fatal("expected an error after the failed delete")
	}

	if err := list.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch failed: %v", err)
	}
	if list.Err() != "" {
		t.Errorf("refetch must clear the error, got %q", list.Err())
	}
}
