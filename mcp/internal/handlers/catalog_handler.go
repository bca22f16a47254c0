package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/model"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/services"
)

// CatalogHandler exposes the remote-catalog tools: search_products,
// get_product and compare_products.
type CatalogHandler struct {
	products *services.ProductService
	log      zerolog.Logger
}

func NewCatalogHandler(p *services.ProductService, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{products: p, log: log}
}

// RegisterTools registers the catalog tools.
func (h *CatalogHandler) RegisterTools(s *server.MCPServer) error {
	search := mcp.NewTool("search_products",
		mcp.WithDescription("Search food products by name in the OpenFoodFacts database."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Product name to search for (e.g. \"milk\", \"rye bread\")")),
		mcp.WithNumber("page", mcp.Description("Result page number (default 1)")),
		mcp.WithNumber("page_size", mcp.Description("Results per page (default 10, max 50)")),
	)
	s.AddTool(search, h.handleSearch)

	get := mcp.NewTool("get_product",
		mcp.WithDescription("Product details and per-100g nutrition by barcode."),
		mcp.WithString("barcode", mcp.Required(), mcp.Description("Product barcode (EAN-13)")),
	)
	s.AddTool(get, h.handleGet)

	compare := mcp.NewTool("compare_products",
		mcp.WithDescription("Compare per-100g nutrition of several products side by side."),
		mcp.WithArray("barcodes", mcp.Required(), mcp.Description("Barcodes to compare (2-5 products)")),
	)
	s.AddTool(compare, h.handleCompare)

	return nil
}

func (h *CatalogHandler) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page := intArg(req, "page", 1)
	pageSize := intArg(req, "page_size", 10)

	start := time.Now()
	results, err := h.products.Search(ctx, query, page, pageSize)
	if err != nil {
		h.log.Error().Err(err).Str("query", query).Msg("search_products failed")
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	h.log.Debug().Str("query", query).Int("results", len(results)).
		Dur("elapsed", time.Since(start)).Msg("search_products completed")

	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No products found for: %q", query)), nil
	}
	return mcp.NewToolResultText(formatSearchResults(query, page, results)), nil
}

func (h *CatalogHandler) handleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	barcode, err := req.RequireString("barcode")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	product, err := h.products.GetByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return mcp.NewToolResultText(fmt.Sprintf("No product with barcode: %s", barcode)), nil
		}
		h.log.Error().Err(err).Str("barcode", barcode).Msg("get_product failed")
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	return mcp.NewToolResultText(formatProduct(product)), nil
}

func (h *CatalogHandler) handleCompare(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var barcodes []string
	for _, v := range req.GetStringSlice("barcodes", nil) {
		if v != "" {
			barcodes = append(barcodes, v)
		}
	}
	if len(barcodes) < 2 {
		return mcp.NewToolResultError("provide at least 2 barcodes to compare"), nil
	}
	if len(barcodes) > 5 {
		barcodes = barcodes[:5]
	}

	var found []*model.Product
	for _, bc := range barcodes {
		p, err := h.products.GetByBarcode(ctx, bc)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				continue
			}
			h.log.Error().Err(err).Str("barcode", bc).Msg("compare_products lookup failed")
			return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
		}
		found = append(found, p)
	}
	if len(found) < 2 {
		return mcp.NewToolResultText("Could not find enough products to compare."), nil
	}
	return mcp.NewToolResultText(formatComparison(found)), nil
}

// intArg reads an optional numeric argument; JSON numbers decode as float64.
func intArg(req mcp.CallToolRequest, key string, def int) int {
	if v, ok := req.GetArguments()[key].(float64); ok && v >= 1 {
		return int(v)
	}
	return def
}
