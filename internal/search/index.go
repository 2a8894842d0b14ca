package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
	"github.com/google/uuid"

	"github.com/Skotchmaster/bookly/internal/models"
)

// Indexer keeps a full-text copy of the book catalogue.
type Indexer interface {
	IndexBook(ctx context.Context, book *models.Book) error
	DeleteBook(ctx context.Context, id uuid.UUID) error
	SearchBooks(ctx context.Context, q string, from, size int) (int64, []models.Book, error)
}

type bookDoc struct {
	UID           string   `json:"uid"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	PageCount     int      `json:"page_count,omitempty"`
	Language      string   `json:"language,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

func toDoc(b *models.Book) bookDoc {
	doc := bookDoc{
		UID:           b.UID.String(),
		Title:         b.Title,
		Author:        b.Author,
		Publisher:     b.Publisher,
		PublishedDate: b.PublishedDate,
		PageCount:     b.PageCount,
		Language:      b.Language,
	}
	for _, t := range b.Tags {
		doc.Tags = append(doc.Tags, t.Name)
	}
	return doc
}

func (d bookDoc) book() models.Book {
	id, _ := uuid.Parse(d.UID)
	return models.Book{
		UID:           id,
		Title:         d.Title,
		Author:        d.Author,
		Publisher:     d.Publisher,
		PublishedDate: d.PublishedDate,
		PageCount:     d.PageCount,
		Language:      d.Language,
	}
}

type ESIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func (x *ESIndex) IndexBook(ctx context.Context, book *models.Book) error {
	body, err := json.Marshal(toDoc(book))
	if err != nil {
		return fmt.Errorf("search: encode book: %w", err)
	}
	res, err := x.ES.Index(
		x.Index,
		bytes.NewReader(body),
		x.ES.Index.WithDocumentID(book.UID.String()),
		x.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: index: %w", err)
	}
	return checkResponse(res, "index")
}

func (x *ESIndex) DeleteBook(ctx context.Context, id uuid.UUID) error {
	res, err := x.ES.Delete(x.Index, id.String(), x.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search: delete: %w", err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return checkResponse(res, "delete")
}

func (x *ESIndex) SearchBooks(ctx context.Context, q string, from, size int) (int64, []models.Book, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"title^2", "author", "tags"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := x.ES.Search(
		x.ES.Search.WithContext(ctx),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: query: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return 0, nil, fmt.Errorf("search: query: %s: %s", res.Status(), msg)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source bookDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode: %w", err)
	}

	books := make([]models.Book, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		books[i] = hit.Source.book()
	}
	return r.Hits.Total.Value, books, nil
}

func checkResponse(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return fmt.Errorf("search: %s: %s: %s", op, res.Status(), msg)
	}
	return nil
}
