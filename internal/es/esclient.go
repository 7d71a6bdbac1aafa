package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/craftsphere/marketplace/internal/models"
)

const ProductIndex = "products"

// NewClient connects to the search cluster. An empty url disables
// search; callers get a nil client, which the index helpers treat as a
// no-op.
func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	if url == "" {
		return nil, nil
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error: %s: %s", res.Status(), body)
	}

	return client, nil
}

// IndexProduct writes a product document so search finds it; a nil
// client means search is not configured and indexing is skipped.
func IndexProduct(ctx context.Context, client *elasticsearch.Client, product *models.Product) error {
	if client == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(product); err != nil {
		return fmt.Errorf("encode product doc: %w", err)
	}

	res, err := client.Index(
		ProductIndex,
		&buf,
		client.Index.WithContext(ctx),
		client.Index.WithDocumentID(product.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index product: %s", res.Status())
	}
	return nil
}

func DeleteProduct(ctx context.Context, client *elasticsearch.Client, id uuid.UUID) error {
	if client == nil {
		return nil
	}

	res, err := client.Delete(
		ProductIndex,
		id.String(),
		client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("deindex product: %w", err)
	}
	defer res.Body.Close()
	// a 404 just means the product never made it into the index
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("deindex product: %s", res.Status())
	}
	return nil
}
