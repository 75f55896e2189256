package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const usersMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "keyword"},
      "full_name":  {"type": "text"},
      "email":      {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "role":       {"type": "keyword"},
      "department": {"type": "text"},
      "position":   {"type": "text"},
      "created_at": {"type": "date"}
    }
  }
}`

// EnsureIndex creates the users index with its mapping when it is missing.
func (d *UserDirectory) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := d.es.Indices.Exists([]string{d.index}, d.es.Indices.Exists.WithContext(c))
	if err != nil {
		return fmt.Errorf("es index exists: %w", err)
	}
	_ = res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("es index exists: %s", res.Status())
	}

	res, err = d.es.Indices.Create(d.index,
		d.es.Indices.Create.WithContext(c),
		d.es.Indices.Create.WithBody(strings.NewReader(usersMapping)),
	)
	if err != nil {
		return fmt.Errorf("es create index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es create index: %s", res.Status())
	}
	return nil
}
