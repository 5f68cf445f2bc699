package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/QmazProject/Asset-Management-System/internal/model"
)

// AssetServiceRepo encapsulates database queries for services assigned
// to assets.
type AssetServiceRepo struct {
	db *sql.DB
}

func NewAssetServiceRepo(db *sql.DB) *AssetServiceRepo { return &AssetServiceRepo{db: db} }

const serviceColumns = `id, asset_id, service_name, category, status, scheduled_date,
	completion_date, provider, cost, currency, service_result, notes, created_at`

func scanService(sc interface{ Scan(...any) error }) (*model.AssetService, error) {
	var (
		s          model.AssetService
		completion sql.NullString
		cost       sql.NullFloat64
	)
	err := sc.Scan(&s.ID, &s.AssetID, &s.ServiceName, &s.Category, &s.Status,
		&s.ScheduledDate, &completion, &s.Provider, &cost, &s.Currency,
		&s.ServiceResult, &s.Notes, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if completion.Valid {
		v := completion.String
		s.CompletionDate = &v
	}
	if cost.Valid {
		v := cost.Float64
		s.Cost = &v
	}
	return &s, nil
}

// Create inserts an assigned service row.
func (r *AssetServiceRepo) Create(ctx context.Context, s *model.AssetService) error {
	const q = `INSERT INTO asset_services
		(asset_id, service_name, category, status, scheduled_date, completion_date,
		 provider, cost, currency, service_result, notes)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		s.AssetID, s.ServiceName, s.Category, s.Status, s.ScheduledDate,
		s.CompletionDate, s.Provider, s.Cost, s.Currency, s.ServiceResult, s.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at FROM asset_services WHERE id = ?", s.ID).Scan(&s.CreatedAt)
}

// GetByID fetches one assigned service. Returns ErrNotFound when missing.
func (r *AssetServiceRepo) GetByID(ctx context.Context, id uint64) (*model.AssetService, error) {
	s, err := scanService(r.db.QueryRowContext(ctx,
		"SELECT "+serviceColumns+" FROM asset_services WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// ListByAsset returns an asset's services, optionally restricted to one
// category, most recently scheduled first.
func (r *AssetServiceRepo) ListByAsset(ctx context.Context, assetID uint64, category string) ([]*model.AssetService, error) {
	q := "SELECT " + serviceColumns + " FROM asset_services WHERE asset_id = ?"
	args := []any{assetID}
	if category != "" {
		q += " AND category = ?"
		args = append(args, category)
	}
	q += " ORDER BY scheduled_date DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.AssetService
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ServiceCounts returns the asset's upcoming/historic counters for the
// details panel: duplicate rows per status are collapsed first, then
// Completed rows count as historic and everything else as upcoming.
func (r *AssetServiceRepo) ServiceCounts(ctx context.Context, assetID uint64) (upcoming, historic int, err error) {
	services, err := r.ListByAsset(ctx, assetID, "")
	if err != nil {
		return 0, 0, err
	}
	flat := make([]model.AssetService, len(services))
	for i, s := range services {
		flat[i] = *s
	}
	upcoming, historic = model.CountServiceCategories(flat)
	return upcoming, historic, nil
}

// Complete moves an Upcoming service into the Historic category with a
// completion date and result. The transition is explicit; scheduled
// dates passing does nothing on their own.
func (r *AssetServiceRepo) Complete(ctx context.Context, id uint64, completionDate, result string, cost *float64, notes string) error {
	const q = `UPDATE asset_services
		SET category=?, status=?, completion_date=?, service_result=?,
		    cost=COALESCE(?, cost), notes=IF(?='', notes, ?)
		WHERE id=? AND category=?`
	res, err := r.db.ExecContext(ctx, q,
		model.CategoryHistoric, model.StatusCompleted, completionDate, result,
		cost, notes, notes, id, model.CategoryUpcoming)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an assigned service row.
func (r *AssetServiceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM asset_services WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
