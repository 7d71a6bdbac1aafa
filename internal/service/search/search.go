package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/craftsphere/marketplace/internal/es"
	"github.com/craftsphere/marketplace/internal/models"
)

type hit struct {
	Source models.Product `json:"_source"`
}

type searchResponse struct {
	Hits struct {
		Hits []hit `json:"hits"`
	} `json:"hits"`
}

// Search runs a fuzzy multi_match over the product index, name weighted
// above description.
func Search(ctx context.Context, client *elasticsearch.Client, query string, from, size int) ([]models.Product, error) {
	if client == nil {
		return nil, fmt.Errorf("search is not configured")
	}

	body := map[string]any{
		"from": from,
		"size": size,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	res, err := client.Search(
		client.Search.WithContext(ctx),
		client.Search.WithIndex(es.ProductIndex),
		client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search products: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	products := make([]models.Product, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		products = append(products, h.Source)
	}
	return products, nil
}
