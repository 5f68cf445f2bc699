package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/QmazProject/Asset-Management-System/internal/model"
)

// TemplateRepo encapsulates database queries for service templates.
// Template names are unique; duplicates are caught both by a pre-check
// and by the unique index behind it.
type TemplateRepo struct {
	db *sql.DB
}

func NewTemplateRepo(db *sql.DB) *TemplateRepo { return &TemplateRepo{db: db} }

const templateColumns = `id, name, description, is_critical, service_type, based_on,
	unit_of_measurement, frequency_number, notification_mode, notification_number,
	notification_unit, created_at, updated_at`

func scanTemplate(sc interface{ Scan(...any) error }) (*model.ServiceTemplate, error) {
	var (
		t    model.ServiceTemplate
		unit sql.NullString
		freq sql.NullInt64
	)
	err := sc.Scan(&t.ID, &t.Name, &t.Description, &t.IsCritical, &t.ServiceType,
		&t.BasedOn, &unit, &freq, &t.NotificationMode, &t.NotificationNumber,
		&t.NotificationUnit, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if unit.Valid {
		v := unit.String
		t.UnitOfMeasurement = &v
	}
	if freq.Valid {
		v := int(freq.Int64)
		t.FrequencyNumber = &v
	}
	return &t, nil
}

// NameExists reports whether a template name (case-insensitive, after
// trimming) is already taken by a different template. excludeID skips
// the template itself on renames.
func (r *TemplateRepo) NameExists(ctx context.Context, name string, excludeID uint64) (bool, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM service_templates WHERE LOWER(name) = LOWER(?) AND id <> ? LIMIT 1",
		strings.TrimSpace(name), excludeID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a template. Name collisions map to
// ErrTemplateNameExists whether they are caught by the pre-check in the
// handler or by the unique index here.
func (r *TemplateRepo) Create(ctx context.Context, t *model.ServiceTemplate) error {
	const q = `INSERT INTO service_templates
		(name, description, is_critical, service_type, based_on, unit_of_measurement,
		 frequency_number, notification_mode, notification_number, notification_unit)
		VALUES (?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		strings.TrimSpace(t.Name), t.Description, t.IsCritical, t.ServiceType, t.BasedOn,
		t.UnitOfMeasurement, t.FrequencyNumber, t.NotificationMode, t.NotificationNumber,
		t.NotificationUnit)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrTemplateNameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM service_templates WHERE id = ?", t.ID).
		Scan(&t.CreatedAt, &t.UpdatedAt)
}

// GetByID fetches one template. Returns ErrNotFound when missing.
func (r *TemplateRepo) GetByID(ctx context.Context, id uint64) (*model.ServiceTemplate, error) {
	t, err := scanTemplate(r.db.QueryRowContext(ctx,
		"SELECT "+templateColumns+" FROM service_templates WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// GetByName fetches the newest template carrying the given name.
// Services reference templates by name, so lookups tolerate legacy
// duplicate rows by preferring the most recent one.
func (r *TemplateRepo) GetByName(ctx context.Context, name string) (*model.ServiceTemplate, error) {
	t, err := scanTemplate(r.db.QueryRowContext(ctx,
		"SELECT "+templateColumns+" FROM service_templates WHERE name = ? ORDER BY created_at DESC, id DESC LIMIT 1",
		strings.TrimSpace(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// List returns all templates newest first, keeping only the newest row
// per name. The unique index makes duplicates impossible going forward;
// the dedup guards against rows that predate it.
func (r *TemplateRepo) List(ctx context.Context) ([]*model.ServiceTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+templateColumns+" FROM service_templates ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[string]bool)
	var out []*model.ServiceTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites every editable column of a template.
func (r *TemplateRepo) Update(ctx context.Context, t *model.ServiceTemplate) error {
	const q = `UPDATE service_templates SET name=?, description=?, is_critical=?,
		service_type=?, based_on=?, unit_of_measurement=?, frequency_number=?,
		notification_mode=?, notification_number=?, notification_unit=?,
		updated_at=CURRENT_TIMESTAMP
		WHERE id=?`
	res, err := r.db.ExecContext(ctx, q,
		strings.TrimSpace(t.Name), t.Description, t.IsCritical, t.ServiceType, t.BasedOn,
		t.UnitOfMeasurement, t.FrequencyNumber, t.NotificationMode, t.NotificationNumber,
		t.NotificationUnit, t.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrTemplateNameExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var id uint64
		if err := r.db.QueryRowContext(ctx,
			"SELECT id FROM service_templates WHERE id=?", t.ID).Scan(&id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a template and its attachments. Services assigned from
// the template keep their copied name; deleting a template never
// touches asset_services rows.
func (r *TemplateRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM service_template_attachments WHERE template_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM service_templates WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// UsageCount returns how many distinct assets carry a service with the
// template's name. An asset with several assignments of the same
// service still counts once in the administration list.
func (r *TemplateRepo) UsageCount(ctx context.Context, name string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT asset_id) FROM asset_services WHERE service_name = ?",
		strings.TrimSpace(name)).Scan(&n)
	return n, err
}
