// Package search keeps an Elasticsearch projection of users, fed from the
// downstream change queue.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/queue"
)

const requestTimeout = 3 * time.Second

type UserIndexer struct {
	es     *elasticsearch.Client
	index  string
	logger *logrus.Logger
}

func NewUserIndexer(es *elasticsearch.Client, index string, logger *logrus.Logger) *UserIndexer {
	return &UserIndexer{es: es, index: index, logger: logger}
}

// Apply mirrors one change message into the index. Deleting a document that
// is already gone is not an error.
func (x *UserIndexer) Apply(ctx context.Context, m queue.Message) error {
	id, _ := m.Data["id"].(string)
	if id == "" {
		return fmt.Errorf("search: message %s without id", m.Command)
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var req esapi.Request
	switch m.Command {
	case queue.OpCreate, queue.OpUpdate:
		body, err := json.Marshal(Document(m.Data))
		if err != nil {
			return err
		}
		req = esapi.IndexRequest{Index: x.index, DocumentID: id, Body: bytes.NewReader(body), Refresh: "false"}
	case queue.OpDelete:
		req = esapi.DeleteRequest{Index: x.index, DocumentID: id}
	default:
		return fmt.Errorf("search: unknown command %q", m.Command)
	}

	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && !(m.Command == queue.OpDelete && res.StatusCode == http.StatusNotFound) {
		return fmt.Errorf("search: %s %s: %s", m.Command, id, res.Status())
	}
	if x.logger != nil {
		x.logger.WithFields(logrus.Fields{"command": m.Command, "user_id": id}).Debug("projection updated")
	}
	return nil
}

const userMapping = `{"mappings":{"properties":{
"id":{"type":"keyword"},
"name":{"type":"text"},
"email":{"type":"text","fields":{"raw":{"type":"keyword"}}},
"is_active":{"type":"boolean"},
"created_at":{"type":"date"},
"updated_at":{"type":"date"}}}}`

// EnsureIndex creates the users index with its mapping when it is missing.
func (x *UserIndexer) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := esapi.IndicesExistsRequest{Index: []string{x.index}}.Do(c, x.es)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("search: index check %s: %s", x.index, res.Status())
	}

	res, err = esapi.IndicesCreateRequest{Index: x.index, Body: strings.NewReader(userMapping)}.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("search: create index %s: %s", x.index, res.Status())
	}
	if x.logger != nil {
		x.logger.WithField("index", x.index).Info("search index created")
	}
	return nil
}

// Document keeps the searchable subset of a user snapshot.
func Document(data map[string]any) map[string]any {
	doc := make(map[string]any, 6)
	for _, k := range []string{"id", "name", "email", "is_active", "created_at", "updated_at"} {
		if v, ok := data[k]; ok {
			doc[k] = v
		}
	}
	return doc
}

// Search performs a simple multi_match search on email and name.
func (x *UserIndexer) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(x.es.Search.WithContext(c), x.es.Search.WithIndex(x.index), x.es.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
