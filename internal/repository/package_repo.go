package repository

import (
	"context"
	"encoding/json"
	"errors"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"
)

type PackageRepository struct {
	store ledger.Store
}

func NewPackageRepository(store ledger.Store) *PackageRepository {
	return &PackageRepository{store: store}
}

// GetByID retrieves a catalog package. Returns nil if it does not exist.
func (r *PackageRepository) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	data, err := r.store.Get(ctx, ledger.CollectionPackages, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var p domain.Package
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns the whole package catalog.
func (r *PackageRepository) List(ctx context.Context) ([]domain.Package, error) {
	docs, err := r.store.List(ctx, ledger.CollectionPackages)
	if err != nil {
		return nil, err
	}
	packages := make([]domain.Package, 0, len(docs))
	for _, d := range docs {
		var p domain.Package
		if err := json.Unmarshal(d.Data, &p); err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}
	return packages, nil
}

// Save creates or replaces a package document.
func (r *PackageRepository) Save(ctx context.Context, p *domain.Package) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, ledger.CollectionPackages, p.ID, data)
}

// Delete removes a package from the catalog.
func (r *PackageRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, ledger.CollectionPackages, id)
}
