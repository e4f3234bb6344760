package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"finbook/internal/restapi"
)

// fakeStore emulates the generic JSON store: flat collections of records
// addressed by /collection and /collection/{id}, filterable by query params.
type fakeStore struct {
	mu          sync.Mutex
	collections map[string][]map[string]any
}

func newFakeStore() *fakeStore {
	return &fakeStore{collections: make(map[string][]map[string]any)}
}

func (f *fakeStore) add(collection string, record map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections[collection] = append(f.collections[collection], record)
}

func (f *fakeStore) get(collection, id string) (map[string]any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.collections[collection] {
		if rec["id"] == id {
			return rec, true
		}
	}
	return nil, false
}

func (f *fakeStore) count(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.collections[collection])
}

func (f *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	collection := parts[0]
	var id string
	if len(parts) > 1 {
		id = parts[1]
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && id == "":
		out := make([]map[string]any, 0)
		for _, rec := range f.collections[collection] {
			if matchesQuery(rec, r.URL.Query()) {
				out = append(out, rec)
			}
		}
		json.NewEncoder(w).Encode(out)

	case r.Method == http.MethodGet:
		for _, rec := range f.collections[collection] {
			if rec["id"] == id {
				json.NewEncoder(w).Encode(rec)
				return
			}
		}
		http.Error(w, "not found", http.StatusNotFound)

	case r.Method == http.MethodPost:
		var rec map[string]any
		json.NewDecoder(r.Body).Decode(&rec)
		f.collections[collection] = append(f.collections[collection], rec)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(rec)

	case r.Method == http.MethodPatch:
		for _, rec := range f.collections[collection] {
			if rec["id"] == id {
				var patch map[string]any
				json.NewDecoder(r.Body).Decode(&patch)
				for k, v := range patch {
					rec[k] = v
				}
				json.NewEncoder(w).Encode(rec)
				return
			}
		}
		http.Error(w, "not found", http.StatusNotFound)

	case r.Method == http.MethodPut:
		for i, rec := range f.collections[collection] {
			if rec["id"] == id {
				var replacement map[string]any
				json.NewDecoder(r.Body).Decode(&replacement)
				f.collections[collection][i] = replacement
				json.NewEncoder(w).Encode(replacement)
				return
			}
		}
		http.Error(w, "not found", http.StatusNotFound)

	case r.Method == http.MethodDelete:
		recs := f.collections[collection]
		for i, rec := range recs {
			if rec["id"] == id {
				f.collections[collection] = append(recs[:i], recs[i+1:]...)
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("{}"))
				return
			}
		}
		http.Error(w, "not found", http.StatusNotFound)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func matchesQuery(rec map[string]any, q map[string][]string) bool {
	for key, vals := range q {
		if len(vals) == 0 {
			continue
		}
		if got, ok := rec[key].(string); !ok || got != vals[0] {
			return false
		}
	}
	return true
}

func newStoreClient(t *testing.T) (*fakeStore, *restapi.Client) {
	t.Helper()
	store := newFakeStore()
	srv := httptest.NewServer(store)
	t.Cleanup(srv.Close)
	client, err := restapi.New(srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("restapi.New: %v", err)
	}
	return store, client
}
