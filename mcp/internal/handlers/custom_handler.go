package handlers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/model"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/services"
)

// CustomProductHandler exposes CRUD over the local custom-product catalog.
type CustomProductHandler struct {
	products *services.ProductService
	log      zerolog.Logger
}

func NewCustomProductHandler(p *services.ProductService, log zerolog.Logger) *CustomProductHandler {
	return &CustomProductHandler{products: p, log: log}
}

// RegisterTools registers the custom-product tools.
func (h *CustomProductHandler) RegisterTools(s *server.MCPServer) error {
	add := mcp.NewTool("add_custom_product",
		mcp.WithDescription("Add your own product to the local catalog (e.g. a restaurant dish). "+
			"Give nutrient values per 100g; if you only know per-serving values, convert: per_100g = per_serving / serving_grams * 100."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Product name (e.g. \"Urban Mix Salad\")")),
		mcp.WithNumber("calories_kcal_100g", mcp.Required(), mcp.Description("Calories per 100g")),
		mcp.WithNumber("proteins_g_100g", mcp.Description("Protein per 100g")),
		mcp.WithNumber("fats_g_100g", mcp.Description("Fat per 100g")),
		mcp.WithNumber("carbs_g_100g", mcp.Description("Carbohydrates per 100g")),
		mcp.WithString("brand", mcp.Description("Brand or restaurant name")),
		mcp.WithNumber("serving_g", mcp.Description("Typical serving in grams (optional)")),
		mcp.WithNumber("sugars_g_100g", mcp.Description("Sugars per 100g (optional)")),
		mcp.WithNumber("fiber_g_100g", mcp.Description("Fiber per 100g (optional)")),
	)
	s.AddTool(add, h.handleAdd)

	list := mcp.NewTool("list_custom_products",
		mcp.WithDescription("List all products in the local custom catalog."),
	)
	s.AddTool(list, h.handleList)

	del := mcp.NewTool("delete_custom_product",
		mcp.WithDescription("Delete a product from the local custom catalog."),
		mcp.WithNumber("product_id", mcp.Required(), mcp.Description("Product id (shown in list_custom_products)")),
	)
	s.AddTool(del, h.handleDelete)

	return nil
}

func (h *CustomProductHandler) handleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	calories, err := req.RequireFloat("calories_kcal_100g")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	product := &model.CustomProduct{
		Name:             name,
		Brand:            req.GetString("brand", ""),
		ServingG:         req.GetFloat("serving_g", 0),
		CaloriesKcal100g: calories,
		ProteinsG100g:    req.GetFloat("proteins_g_100g", 0),
		FatsG100g:        req.GetFloat("fats_g_100g", 0),
		CarbsG100g:       req.GetFloat("carbs_g_100g", 0),
		SugarsG100g:      req.GetFloat("sugars_g_100g", 0),
		FiberG100g:       req.GetFloat("fiber_g_100g", 0),
	}

	id, err := h.products.AddCustomProduct(ctx, product)
	if err != nil {
		h.log.Error().Err(err).Str("name", name).Msg("add_custom_product failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to add product: %v", err)), nil
	}
	return mcp.NewToolResultText(formatCustomProductAdded(id, product)), nil
}

func (h *CustomProductHandler) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	products, err := h.products.ListCustomProducts(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("list_custom_products failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to list products: %v", err)), nil
	}
	if len(products) == 0 {
		return mcp.NewToolResultText("No custom products yet. Add one with add_custom_product."), nil
	}
	return mcp.NewToolResultText(formatCustomProducts(products)), nil
}

func (h *CustomProductHandler) handleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("product_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	deleted, err := h.products.DeleteCustomProduct(ctx, int64(id))
	if err != nil {
		h.log.Error().Err(err).Int("product_id", id).Msg("delete_custom_product failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete product: %v", err)), nil
	}
	if !deleted {
		return mcp.NewToolResultText(fmt.Sprintf("Product #%d not found.", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted product #%d.", id)), nil
}
