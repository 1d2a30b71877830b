package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"tourapi/internal/model"
	"tourapi/internal/repository"
)

// TourPackagePostgres is a PostgreSQL implementation of
// repository.TourPackageRepository. The full aggregate lives in a JSONB
// column; seller, status and timestamps are extracted for indexing.
type TourPackagePostgres struct {
	db *sql.DB
}

// NewTourPackagePostgres creates a new TourPackagePostgres repository.
func NewTourPackagePostgres(db *sql.DB) *TourPackagePostgres {
	return &TourPackagePostgres{db: db}
}

var _ repository.TourPackageRepository = (*TourPackagePostgres)(nil)

// IsNoRowsError reports whether err indicates a missing row.
func IsNoRowsError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// Create inserts a new tour package document and returns the stored record.
func (r *TourPackagePostgres) Create(ctx context.Context, tp *model.TourPackage) (*model.TourPackage, error) {
	doc, err := json.Marshal(tp)
	if err != nil {
		return nil, fmt.Errorf("marshal tour package: %w", err)
	}

	const q = `
		INSERT INTO tour_packages (id, seller_id, status, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING doc
	`
	row := r.db.QueryRowContext(ctx, q,
		tp.ID,
		tp.SellerID,
		tp.Status,
		doc,
		tp.CreatedAt,
		tp.UpdatedAt,
	)
	return scanDoc(row)
}

// FindByID fetches a single tour package by its ID.
func (r *TourPackagePostgres) FindByID(ctx context.Context, id string) (*model.TourPackage, error) {
	const q = `SELECT doc FROM tour_packages WHERE id = $1`
	return scanDoc(r.db.QueryRowContext(ctx, q, id))
}

// List returns tour packages using LIMIT/OFFSET pagination and a total count.
func (r *TourPackagePostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.TourPackage], error) {
	const qCount = `SELECT COUNT(*) FROM tour_packages`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT doc
		FROM tour_packages
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.TourPackage, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var tp model.TourPackage
		if err := json.Unmarshal(raw, &tp); err != nil {
			return nil, fmt.Errorf("unmarshal tour package: %w", err)
		}
		items = append(items, tp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.TourPackage]{
		Items: items,
		Total: total,
	}, nil
}

// Update replaces the stored document and refreshes the extracted columns.
func (r *TourPackagePostgres) Update(ctx context.Context, id string, tp *model.TourPackage) (*model.TourPackage, error) {
	doc, err := json.Marshal(tp)
	if err != nil {
		return nil, fmt.Errorf("marshal tour package: %w", err)
	}

	const q = `
		UPDATE tour_packages
		SET seller_id = $2, status = $3, doc = $4, updated_at = $5
		WHERE id = $1
		RETURNING doc
	`
	row := r.db.QueryRowContext(ctx, q, id, tp.SellerID, tp.Status, doc, tp.UpdatedAt)
	return scanDoc(row)
}

// Delete removes a tour package by ID. It does not return an error if the row does not exist.
func (r *TourPackagePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM tour_packages WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

func scanDoc(row *sql.Row) (*model.TourPackage, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return nil, err
	}
	var tp model.TourPackage
	if err := json.Unmarshal(raw, &tp); err != nil {
		return nil, fmt.Errorf("unmarshal tour package: %w", err)
	}
	return &tp, nil
}
