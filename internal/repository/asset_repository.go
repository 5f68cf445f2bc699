// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for assets: creation with duplicate
// identifier detection, filtered listing, updates and the main-image pointer.
// Date fields are stored as YYYY-MM-DD strings; money fields are nullable.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/QmazProject/Asset-Management-System/internal/model"
)

// AssetFilter narrows List results. Zero values mean "no constraint".
type AssetFilter struct {
	Group        string // exact asset_group match
	Condition    string // exact condition match
	Availability string // exact availability match
	Search       string // substring over name/scan code/inventory number
}

// AssetRepo encapsulates all database queries related to assets.
type AssetRepo struct {
	db *sql.DB
}

// NewAssetRepo constructs an AssetRepo with the provided DB handle.
func NewAssetRepo(db *sql.DB) *AssetRepo {
	return &AssetRepo{db: db}
}

const assetColumns = `id, scan_code, inventory_number, serial_number, cs_number, plate_number,
	engine_number, manufacturer, model, asset_name, label, asset_group, description, notes,
	` + "`condition`" + `, availability, current_location_type, current_location,
	responsible_employee, owner, ownership_type, vendor, purchase_date, purchase_price,
	purchase_currency, purchase_order_number, cost_code, replacement_cost,
	warranty_expiration_date, image_url, created_at, updated_at`

func scanAsset(sc interface{ Scan(...any) error }) (*model.Asset, error) {
	var (
		a                  model.Asset
		purchasePrice      sql.NullFloat64
		replacementCost    sql.NullFloat64
		purchaseDate       sql.NullString
		warrantyExpiration sql.NullString
		imageURL           sql.NullString
	)
	err := sc.Scan(&a.ID, &a.ScanCode, &a.InventoryNumber, &a.SerialNumber, &a.CSNumber,
		&a.PlateNumber, &a.EngineNumber, &a.Manufacturer, &a.Model, &a.AssetName, &a.Label,
		&a.AssetGroup, &a.Description, &a.Notes, &a.Condition, &a.Availability,
		&a.CurrentLocationType, &a.CurrentLocation, &a.ResponsibleEmployee, &a.Owner,
		&a.OwnershipType, &a.Vendor, &purchaseDate, &purchasePrice, &a.PurchaseCurrency,
		&a.PurchaseOrderNumber, &a.CostCode, &replacementCost, &warrantyExpiration,
		&imageURL, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if purchasePrice.Valid {
		v := purchasePrice.Float64
		a.PurchasePrice = &v
	}
	if replacementCost.Valid {
		v := replacementCost.Float64
		a.ReplacementCost = &v
	}
	a.PurchaseDate = purchaseDate.String
	a.WarrantyExpirationDate = warrantyExpiration.String
	a.ImageURL = imageURL.String
	return &a, nil
}

// CheckIdentifiers looks up whether the scan code or the inventory
// number is already taken by a different asset. excludeID skips the
// asset itself on edits (zero for creates). The lookup exists to give
// the wizard field-level errors before the insert; the unique indexes
// remain the real guarantee.
func (r *AssetRepo) CheckIdentifiers(ctx context.Context, scanCode, inventoryNumber string, excludeID uint64) error {
	var id uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM assets WHERE scan_code = ? AND id <> ? LIMIT 1",
		strings.TrimSpace(scanCode), excludeID).Scan(&id)
	if err == nil {
		return ErrDuplicateScanCode
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	err = r.db.QueryRowContext(ctx,
		"SELECT id FROM assets WHERE inventory_number = ? AND id <> ? LIMIT 1",
		strings.TrimSpace(inventoryNumber), excludeID).Scan(&id)
	if err == nil {
		return ErrDuplicateInventoryNumber
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

// Create inserts a new asset. On success the ID, CreatedAt and
// UpdatedAt fields are populated from the stored row. Unique index
// violations are mapped to the same sentinels the pre-check uses, so a
// race between two concurrent submissions still ends in one winner.
func (r *AssetRepo) Create(ctx context.Context, a *model.Asset) error {
	const q = `INSERT INTO assets (scan_code, inventory_number, serial_number, cs_number,
		plate_number, engine_number, manufacturer, model, asset_name, label, asset_group,
		description, notes, ` + "`condition`" + `, availability, current_location_type,
		current_location, responsible_employee, owner, ownership_type, vendor, purchase_date,
		purchase_price, purchase_currency, purchase_order_number, cost_code, replacement_cost,
		warranty_expiration_date)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		strings.TrimSpace(a.ScanCode), strings.TrimSpace(a.InventoryNumber), a.SerialNumber,
		a.CSNumber, a.PlateNumber, a.EngineNumber, a.Manufacturer, a.Model, a.AssetName,
		a.Label, a.AssetGroup, a.Description, a.Notes, a.Condition, a.Availability,
		a.CurrentLocationType, a.CurrentLocation, a.ResponsibleEmployee, a.Owner,
		a.OwnershipType, a.Vendor, nullStr(a.PurchaseDate), a.PurchasePrice,
		a.PurchaseCurrency, a.PurchaseOrderNumber, a.CostCode, a.ReplacementCost,
		nullStr(a.WarrantyExpirationDate))
	if err != nil {
		if isDuplicateKey(err) {
			if strings.Contains(err.Error(), "inventory") {
				return ErrDuplicateInventoryNumber
			}
			return ErrDuplicateScanCode
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)

	// Follow-up SELECT to populate default timestamp fields.
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM assets WHERE id = ?", a.ID).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

// GetByID fetches one asset. Returns ErrNotFound when no row exists.
func (r *AssetRepo) GetByID(ctx context.Context, id uint64) (*model.Asset, error) {
	a, err := scanAsset(r.db.QueryRowContext(ctx,
		"SELECT "+assetColumns+" FROM assets WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// List returns assets newest first, optionally filtered.
func (r *AssetRepo) List(ctx context.Context, f AssetFilter) ([]*model.Asset, error) {
	q := "SELECT " + assetColumns + " FROM assets WHERE 1=1"
	var args []any
	if f.Group != "" {
		q += " AND asset_group = ?"
		args = append(args, f.Group)
	}
	if f.Condition != "" {
		q += " AND `condition` = ?"
		args = append(args, f.Condition)
	}
	if f.Availability != "" {
		q += " AND availability = ?"
		args = append(args, f.Availability)
	}
	if f.Search != "" {
		q += " AND (asset_name LIKE ? OR scan_code LIKE ? OR inventory_number LIKE ?)"
		like := "%" + f.Search + "%"
		args = append(args, like, like, like)
	}
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites every editable column of an asset. Returns
// ErrNotFound when no row was matched.
func (r *AssetRepo) Update(ctx context.Context, a *model.Asset) error {
	const q = `UPDATE assets SET scan_code=?, inventory_number=?, serial_number=?, cs_number=?,
		plate_number=?, engine_number=?, manufacturer=?, model=?, asset_name=?, label=?,
		asset_group=?, description=?, notes=?, ` + "`condition`" + `=?, availability=?,
		current_location_type=?, current_location=?, responsible_employee=?, owner=?,
		ownership_type=?, vendor=?, purchase_date=?, purchase_price=?, purchase_currency=?,
		purchase_order_number=?, cost_code=?, replacement_cost=?, warranty_expiration_date=?,
		updated_at=CURRENT_TIMESTAMP
		WHERE id=?`
	res, err := r.db.ExecContext(ctx, q,
		strings.TrimSpace(a.ScanCode), strings.TrimSpace(a.InventoryNumber), a.SerialNumber,
		a.CSNumber, a.PlateNumber, a.EngineNumber, a.Manufacturer, a.Model, a.AssetName,
		a.Label, a.AssetGroup, a.Description, a.Notes, a.Condition, a.Availability,
		a.CurrentLocationType, a.CurrentLocation, a.ResponsibleEmployee, a.Owner,
		a.OwnershipType, a.Vendor, nullStr(a.PurchaseDate), a.PurchasePrice,
		a.PurchaseCurrency, a.PurchaseOrderNumber, a.CostCode, a.ReplacementCost,
		nullStr(a.WarrantyExpirationDate), a.ID)
	if err != nil {
		if isDuplicateKey(err) {
			if strings.Contains(err.Error(), "inventory") {
				return ErrDuplicateInventoryNumber
			}
			return ErrDuplicateScanCode
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is also zero for no-op updates; confirm existence.
		var id uint64
		if err := r.db.QueryRowContext(ctx, "SELECT id FROM assets WHERE id=?", a.ID).Scan(&id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}

// SetMainImage stores (or clears, with "") the asset's main image URL.
func (r *AssetRepo) SetMainImage(ctx context.Context, id uint64, url string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE assets SET image_url=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		nullStr(url), id)
	return err
}

// nullStr maps "" to NULL so optional columns stay NULL instead of
// accumulating empty strings.
func nullStr(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
