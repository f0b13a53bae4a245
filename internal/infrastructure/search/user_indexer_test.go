package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/queue"
)

type recorded struct {
	method, path, body string
}

func newFakeES(t *testing.T, status int, respBody string) (*elasticsearch.Client, *[]recorded) {
	t.Helper()
	var mu sync.Mutex
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, recorded{r.Method, r.URL.Path, string(b)})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	if err != nil {
		t.Fatal(err)
	}
	return es, &calls
}

func TestApply_IndexesWithoutCredential(t *testing.T) {
	es, calls := newFakeES(t, http.StatusOK, `{"result":"created"}`)
	x := NewUserIndexer(es, "users", nil)

	err := x.Apply(context.Background(), queue.Message{
		Command: queue.OpCreate,
		Data:    map[string]any{"id": "US-1", "email": "a@x.com", "is_logged_in": true, "password": "leak"},
	})
	if err != nil {
		t.Fatal(err)
	}
	c := (*calls)[len(*calls)-1]
	if c.method != http.MethodPut || c.path != "/users/_doc/US-1" {
		t.Errorf("request = %s %s", c.method, c.path)
	}
	var doc map[string]any
	_ = json.Unmarshal([]byte(c.body), &doc)
	if doc["email"] != "a@x.com" {
		t.Errorf("doc = %v", doc)
	}
	if _, ok := doc["password"]; ok {
		t.Error("credential indexed")
	}
}

func TestApply_DeleteMissingIsFine(t *testing.T) {
	es, calls := newFakeES(t, http.StatusNotFound, `{"result":"not_found"}`)
	x := NewUserIndexer(es, "users", nil)

	if err := x.Apply(context.Background(), queue.Message{Command: queue.OpDelete, Data: map[string]any{"id": "US-1"}}); err != nil {
		t.Fatal(err)
	}
	if c := (*calls)[len(*calls)-1]; c.method != http.MethodDelete {
		t.Errorf("method = %s", c.method)
	}
}

func TestApply_RejectsMessageWithoutID(t *testing.T) {
	x := NewUserIndexer(nil, "users", nil)
	if err := x.Apply(context.Background(), queue.Message{Command: queue.OpCreate}); err == nil {
		t.Fatal("expected error")
	}
}

func TestSearch_ReturnsSources(t *testing.T) {
	es, calls := newFakeES(t, http.StatusOK, `{"hits":{"hits":[{"_id":"US-1","_source":{"id":"US-1","name":"Ann"}}]}}`)
	x := NewUserIndexer(es, "users", nil)

	out, err := x.Search(context.Background(), "ann", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0]["name"] != "Ann" {
		t.Errorf("out = %v", out)
	}
	if c := (*calls)[len(*calls)-1]; !strings.Contains(c.body, `"multi_match"`) {
		t.Errorf("query body = %s", c.body)
	}
}

func TestEnsureIndex(t *testing.T) {
	tests := []struct {
		name      string
		exists    int
		wantCalls int
	}{
		{"already there", http.StatusOK, 1},
		{"created", http.StatusNotFound, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var methods []string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				methods = append(methods, r.Method)
				w.Header().Set("X-Elastic-Product", "Elasticsearch")
				if r.Method == http.MethodHead {
					w.WriteHeader(tt.exists)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, `{"acknowledged":true}`)
			}))
			defer srv.Close()
			es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
			if err != nil {
				t.Fatal(err)
			}

			if err := NewUserIndexer(es, "users", nil).EnsureIndex(context.Background()); err != nil {
				t.Fatal(err)
			}
			if len(methods) != tt.wantCalls {
				t.Fatalf("calls = %v", methods)
			}
			if tt.wantCalls == 2 && methods[1] != http.MethodPut {
				t.Errorf("create method = %s", methods[1])
			}
		})
	}
}
