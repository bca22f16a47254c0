// Package resolver picks one authoritative product for a user-supplied
// identifier (barcode or free-text name) from the local and remote catalogs.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/model"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/store"
)

// RemoteCatalog is the slice of the OpenFoodFacts client the resolver needs.
type RemoteCatalog interface {
	Search(ctx context.Context, query string, page, pageSize int) ([]*model.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*model.Product, error)
}

// Source resolves an identifier against one catalog. A miss is reported as
// model.ErrNotFound so the chain can move on; any other error aborts
// resolution immediately.
type Source interface {
	Name() string
	Resolve(ctx context.Context, identifier string) (*model.Product, error)
}

// Resolver tries its sources in order and stops at the first hit. The order
// codifies the authority cascade: the local custom catalog wins over a remote
// barcode lookup, which wins over remote free-text search.
type Resolver struct {
	sources []Source
	log     zerolog.Logger
}

// New builds the standard local -> barcode -> search cascade.
func New(custom store.CustomProducts, remote RemoteCatalog, log zerolog.Logger) *Resolver {
	return &Resolver{
		sources: []Source{
			&localSource{catalog: custom},
			&barcodeSource{remote: remote},
			&searchSource{remote: remote},
		},
		log: log,
	}
}

// NewWithSources builds a resolver over an explicit source chain.
func NewWithSources(log zerolog.Logger, sources ...Source) *Resolver {
	return &Resolver{sources: sources, log: log}
}

// Resolve returns the first product any source yields. When every source
// misses, the error wraps model.ErrNotFound together with the identifier.
// Transport failures propagate untouched and are never treated as a miss.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (*model.Product, error) {
	for _, src := range r.sources {
		p, err := src.Resolve(ctx, identifier)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				continue
			}
			return nil, err
		}
		r.log.Debug().Str("source", src.Name()).Str("identifier", identifier).Msg("product resolved")
		return p, nil
	}
	return nil, fmt.Errorf("%q: %w", identifier, model.ErrNotFound)
}

// --- Sources ---

type localSource struct {
	catalog store.CustomProducts
}

func (s *localSource) Name() string { return "local" }

func (s *localSource) Resolve(ctx context.Context, identifier string) (*model.Product, error) {
	custom, err := s.catalog.FindByNameOrID(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("local catalog lookup: %w", err)
	}
	if custom == nil {
		return nil, model.ErrNotFound
	}
	return custom.ToProduct(), nil
}

type barcodeSource struct {
	remote RemoteCatalog
}

func (s *barcodeSource) Name() string { return "barcode" }

func (s *barcodeSource) Resolve(ctx context.Context, identifier string) (*model.Product, error) {
	if !LooksLikeBarcode(identifier) {
		return nil, model.ErrNotFound
	}
	return s.remote.GetByBarcode(ctx, identifier)
}

type searchSource struct {
	remote RemoteCatalog
}

func (s *searchSource) Name() string { return "search" }

func (s *searchSource) Resolve(ctx context.Context, identifier string) (*model.Product, error) {
	// The remote ranking is trusted as-is; the first hit wins.
	results, err := s.remote.Search(ctx, identifier, 1, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, model.ErrNotFound
	}
	return results[0], nil
}

// LooksLikeBarcode reports whether the identifier is plausibly an EAN-style
// barcode: all digits and at least 8 of them. Shorter all-digit strings
// (including ones with leading zeros) go through free-text search instead.
func LooksLikeBarcode(identifier string) bool {
	if len(identifier) < 8 {
		return false
	}
	for _, r := range identifier {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
