package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/learnpath-auth/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// userDoc is the indexed form of a profile. It never carries the hash.
type userDoc struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// UserDirectory indexes and searches user profiles in Elasticsearch.
type UserDirectory struct {
	es    *elasticsearch.Client
	index string
}

func NewUserDirectory(es *elasticsearch.Client, index string) *UserDirectory {
	return &UserDirectory{es: es, index: index}
}

func (d *UserDirectory) IndexUser(ctx context.Context, p entity.Profile) error {
	b, err := json.Marshal(userDoc{
		ID:         p.ID,
		FullName:   p.FullName,
		Email:      p.Email,
		Role:       string(p.Role),
		Department: p.Department,
		Position:   p.Position,
		CreatedAt:  p.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.IndexRequest{Index: d.index, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, d.es)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func (d *UserDirectory) Search(ctx context.Context, query string, size int) ([]entity.Profile, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": []string{"email^2", "full_name"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := d.es.Search(
		d.es.Search.WithContext(c),
		d.es.Search.WithIndex(d.index),
		d.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source userDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode es response: %w", err)
	}

	out := make([]entity.Profile, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		doc := h.Source
		created, _ := time.Parse(time.RFC3339Nano, doc.CreatedAt)
		out = append(out, entity.Profile{
			ID:         doc.ID,
			FullName:   doc.FullName,
			Email:      doc.Email,
			Role:       entity.Role(doc.Role),
			Department: doc.Department,
			Position:   doc.Position,
			CreatedAt:  created,
		})
	}
	return out, nil
}
