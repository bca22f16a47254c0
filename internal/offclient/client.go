// Package offclient wraps the OpenFoodFacts HTTP API behind the two
// capabilities the tracker needs: free-text search and barcode lookup.
package offclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/model"
)

const (
	userAgent = "OpenFoodFactsMCP/1.0 (https://github.com/openfoodfacts-mcp)"

	// productFields trims API payloads to the fields we normalize.
	productFields = "code,product_name,product_name_pl,brands,nutrition_grades," +
		"nutriments,nova_groups,image_url,serving_size"
)

// Client calls the OpenFoodFacts API. Safe for concurrent use.
type Client struct {
	http   *resty.Client
	locale string
	log    zerolog.Logger
}

// New creates a Client against baseURL with the given locale and request
// timeout. Timeout bounds every outbound lookup; an expired deadline surfaces
// as model.ErrLookupFailed, never as a not-found.
func New(baseURL, locale string, timeout time.Duration, log zerolog.Logger) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", userAgent).
		SetTimeout(timeout)

	return &Client{http: c, locale: locale, log: log}
}

// Search queries products by name. Individual result items that fail to
// normalize are skipped so one malformed record cannot hide the rest.
func (c *Client) Search(ctx context.Context, query string, page, pageSize int) ([]*model.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	reqID := uuid.New().String()
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", reqID).
		SetQueryParams(map[string]string{
			"search_terms":  query,
			"search_simple": "1",
			"action":        "process",
			"json":          "1",
			"lc":            c.locale,
			"page":          strconv.Itoa(page),
			"page_size":     strconv.Itoa(pageSize),
			"fields":        productFields,
		}).
		Get("/cgi/search.pl")
	if err != nil {
		return nil, fmt.Errorf("search %q: %w: %v", query, model.ErrLookupFailed, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("search %q: %w: status %d", query, model.ErrLookupFailed, resp.StatusCode())
	}

	products, skipped, err := decodeSearchBody(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("search %q: %w: %v", query, model.ErrLookupFailed, err)
	}
	c.log.Debug().
		Str("request_id", reqID).
		Str("query", query).
		Int("results", len(products)).
		Int("skipped", skipped).
		Dur("elapsed", time.Since(start)).
		Msg("search completed")
	return products, nil
}

// GetByBarcode fetches one product by barcode. A missing product returns
// model.ErrNotFound; transport failures and unexpected statuses return
// model.ErrLookupFailed.
func (c *Client) GetByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	reqID := uuid.New().String()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", reqID).
		SetQueryParams(map[string]string{
			"lc":     c.locale,
			"fields": productFields,
		}).
		Get("/api/v2/product/" + barcode)
	if err != nil {
		return nil, fmt.Errorf("get %q: %w: %v", barcode, model.ErrLookupFailed, err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("barcode %q: %w", barcode, model.ErrNotFound)
	case resp.StatusCode() != http.StatusOK:
		return nil, fmt.Errorf("get %q: %w: status %d", barcode, model.ErrLookupFailed, resp.StatusCode())
	}

	product, err := decodeProductBody(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("get %q: %w: %v", barcode, model.ErrLookupFailed, err)
	}
	if product == nil {
		return nil, fmt.Errorf("barcode %q: %w", barcode, model.ErrNotFound)
	}
	c.log.Debug().Str("request_id", reqID).Str("barcode", barcode).Msg("product fetched")
	return product, nil
}
