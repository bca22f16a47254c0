package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/model"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/resolver"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/store"
)

// maxPageSize caps remote search pages requested through the tool surface.
const maxPageSize = 50

// ProductService exposes the remote catalog plus CRUD over the local
// custom-product catalog.
type ProductService struct {
	remote resolver.RemoteCatalog
	store  store.Store
	log    zerolog.Logger
}

func NewProductService(remote resolver.RemoteCatalog, s store.Store, log zerolog.Logger) *ProductService {
	return &ProductService{remote: remote, store: s, log: log}
}

// Search queries the remote catalog by name, clamping the page size.
func (s *ProductService) Search(ctx context.Context, query string, page, pageSize int) ([]*model.Product, error) {
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return s.remote.Search(ctx, query, page, pageSize)
}

// GetByBarcode fetches product details from the remote catalog.
func (s *ProductService) GetByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	return s.remote.GetByBarcode(ctx, barcode)
}

// AddCustomProduct stores a user-defined product and returns its id.
func (s *ProductService) AddCustomProduct(ctx context.Context, p *model.CustomProduct) (int64, error) {
	id, err := s.store.CustomProducts().Create(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Str("name", p.Name).Msg("custom product create failed")
		return 0, err
	}
	p.ID = id
	s.log.Info().Int64("product_id", id).Str("name", p.Name).Msg("custom product added")
	return id, nil
}

// ListCustomProducts returns all user-defined products.
func (s *ProductService) ListCustomProducts(ctx context.Context) ([]*model.CustomProduct, error) {
	return s.store.CustomProducts().List(ctx)
}

// DeleteCustomProduct removes a user-defined product. Missing id => false.
func (s *ProductService) DeleteCustomProduct(ctx context.Context, id int64) (bool, error) {
	return s.store.CustomProducts().DeleteByID(ctx, id)
}
