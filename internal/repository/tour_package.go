package repository

import (
	"context"

	"tourapi/internal/model"
)

// TourPackageRepository defines persistence for tour package documents.
// No business logic here, strictly document store operations. Callers
// treat the stored package as a single document owned by this layer once
// created; the service only holds a transient in-memory handle.
type TourPackageRepository interface {
	// Create inserts a new tour package document. The caller provides the
	// ID and timestamps. Returns the stored package.
	Create(ctx context.Context, tp *model.TourPackage) (*model.TourPackage, error)

	// FindByID returns a tour package by its ID. Missing rows surface as
	// sql.ErrNoRows for the service layer to translate.
	FindByID(ctx context.Context, id string) (*model.TourPackage, error)

	// List returns a paginated list of tour packages with a total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.TourPackage], error)

	// Update replaces the stored document for the given ID.
	Update(ctx context.Context, id string, tp *model.TourPackage) (*model.TourPackage, error)

	// Delete removes a tour package by ID. It returns nil if the row was
	// deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
