package acceptance_tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/l-mendez/listita/internal/app"
	"github.com/l-mendez/listita/internal/config"
)

// --- Fake backend ---

// fakeServer is a minimal in-memory rendition of the shopping-list backend:
// one user, one list, its items, and the purchase endpoint.
type fakeServer struct {
	mu            sync.Mutex
	items         []map[string]any
	purchaseCalls int
	listPurchased bool
}

func envelope(data []map[string]any) map[string]any {
	return map[string]any{
		"data": data,
		"pagination": map[string]any{
			"total": len(data), "page": 1, "perPage": 25, "totalPages": 1,
			"hasNext": false, "hasPrev": false,
		},
	}
}

func (f *fakeServer) list() map[string]any {
	return map[string]any{
		"id":        "l-1",
		"name":      "Groceries",
		"recurring": false,
		"owner":     map[string]any{"id": "u-1", "email": "a@b.c"},
	}
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1",
			"user":  map[string]any{"id": "u-1", "email": "a@b.c"},
		})
	})
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "u-1", "email": "a@b.c"})
	})
	mux.HandleFunc("GET /shopping-lists", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.listPurchased {
			json.NewEncoder(w).Encode(envelope(nil))
			return
		}
		json.NewEncoder(w).Encode(envelope([]map[string]any{f.list()}))
	})
	mux.HandleFunc("GET /shopping-lists/l-1", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(f.list())
	})
	mux.HandleFunc("GET /shopping-lists/l-1/items", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(envelope(f.items))
	})
	mux.HandleFunc("PATCH /shopping-lists/l-1/items/{itemID}", func(w http.ResponseWriter, r *http.Request) {
		var patch struct {
			Purchased *bool `json:"purchased"`
		}
		json.NewDecoder(r.Body).Decode(&patch)

		f.mu.Lock()
		defer f.mu.Unlock()
		for _, it := range f.items {
			if it["id"] == r.PathValue("itemID") {
				if patch.Purchased != nil {
					it["purchased"] = *patch.Purchased
				}
				json.NewEncoder(w).Encode(it)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("POST /shopping-lists/l-1/purchase", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.purchaseCalls++
		f.listPurchased = true
		json.NewEncoder(w).Encode(map[string]any{"id": "pur-1", "items": f.items})
	})
	for _, path := range []string{"GET /categories", "GET /products", "GET /purchases"} {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(envelope(nil))
		})
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" && r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

type noopNavigator struct{}

func (noopNavigator) NavigateBack() {}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

// --- Acceptance test ---

func TestFullWorkflow(t *testing.T) {
	ctx := context.Background()

	server := &fakeServer{
		items: []map[string]any{
			{"id": "i-1", "quantity": 1.0, "purchased": true,
				"product": map[string]any{"id": "p-1", "name": "Milk"}},
			{"id": "i-2", "quantity": 2.0, "purchased": false,
				"product": map[string]any{"id": "p-2", "name": "Bread"}},
		},
	}
	ts := httptest.NewServer(server.handler())
	defer ts.Close()

	t.Setenv("LISTITA_API_URL", ts.URL)
	t.Setenv("LISTITA_DATA_PATH", t.TempDir())

	cfg, err := config.NewFromEnv()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	application, err := app.New(ctx, cfg, noopNavigator{})
	if err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}
	defer application.Close()

	// 1. Fresh start: logged out, nothing loaded.
	if application.Session.Authenticated() {
		t.Fatal("Expected a fresh install to be logged out")
	}

	// 2. Login: the auth binder reloads every store in the background.
	if err := application.Login(ctx, "a@b.c", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	waitFor(t, "lists to load after login", func() bool {
		return len(application.Lists.Snapshot().Items) == 1
	})
	waitFor(t, "profile to load after login", func() bool {
		_, ok := application.Profile.User()
		return ok
	})

	// 3. Open the list: items arrive, metadata arrives.
	application.Detail.Open("l-1")
	snap := application.Detail.Snapshot()
	if snap.Error != "" {
		t.Fatalf("Opening the list failed: %s", snap.Error)
	}
	if len(snap.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(snap.Items))
	}

	// 4. Toggle the last open item: the list completes, a purchase is
	// recorded, and the collection refreshes without the purchased list.
	application.Checkout.ToggleItem("i-2")
	waitFor(t, "the completion transaction", func() bool {
		server.mu.Lock()
		defer server.mu.Unlock()
		return server.purchaseCalls == 1
	})
	waitFor(t, "the collection to refresh", func() bool {
		snap := application.Lists.Snapshot()
		return len(snap.Items) == 0 && snap.SuccessMessage == `"Groceries" completed`
	})
	if application.Detail.List() != nil {
		t.Error("Expected the detail store cleared after completion")
	}

	// 5. Logout: every store resets synchronously.
	application.Logout(ctx)
	if len(application.Lists.Snapshot().Items) != 0 {
		t.Error("Expected the collection cleared on logout")
	}
	if _, ok := application.Profile.User(); ok {
		t.Error("Expected the profile cleared on logout")
	}
	if application.Session.Authenticated() {
		t.Error("Expected logged out")
	}
}

func TestStoredSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()

	server := &fakeServer{}
	ts := httptest.NewServer(server.handler())
	defer ts.Close()

	dataDir := t.TempDir()
	t.Setenv("LISTITA_API_URL", ts.URL)
	t.Setenv("LISTITA_DATA_PATH", dataDir)

	cfg, err := config.NewFromEnv()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	first, err := app.New(ctx, cfg, noopNavigator{})
	if err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}
	if err := first.Login(ctx, "a@b.c", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Same data directory: the persisted token logs the second run in.
	second, err := app.New(ctx, cfg, noopNavigator{})
	if err != nil {
		t.Fatalf("Failed to initialize second run: %v", err)
	}
	defer second.Close()

	if !second.Session.Authenticated() {
		t.Error("Expected the stored session to survive a restart")
	}
}
