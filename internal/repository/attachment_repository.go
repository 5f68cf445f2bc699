package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/QmazProject/Asset-Management-System/internal/model"
)

// AttachmentRepo handles one attachment table. Assets and service
// templates store files in separate tables with the same shape; the
// table and owning-column names are fixed at construction so both reuse
// the same queries.
type AttachmentRepo struct {
	db       *sql.DB
	table    string
	ownerCol string
}

// NewAssetAttachmentRepo builds the repo over asset_attachments.
func NewAssetAttachmentRepo(db *sql.DB) *AttachmentRepo {
	return &AttachmentRepo{db: db, table: "asset_attachments", ownerCol: "asset_id"}
}

// NewTemplateAttachmentRepo builds the repo over service_template_attachments.
func NewTemplateAttachmentRepo(db *sql.DB) *AttachmentRepo {
	return &AttachmentRepo{db: db, table: "service_template_attachments", ownerCol: "template_id"}
}

// Create inserts an attachment row for the owning asset or template.
func (r *AttachmentRepo) Create(ctx context.Context, a *model.Attachment) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO "+r.table+" ("+r.ownerCol+", file_name, file_path, file_type, file_size) VALUES (?,?,?,?,?)",
		a.OwnerID, a.FileName, a.FilePath, a.FileType, a.FileSize)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at FROM "+r.table+" WHERE id = ?", a.ID).Scan(&a.CreatedAt)
}

// GetByID fetches one attachment. Returns ErrNotFound when missing.
func (r *AttachmentRepo) GetByID(ctx context.Context, id uint64) (*model.Attachment, error) {
	var a model.Attachment
	err := r.db.QueryRowContext(ctx,
		"SELECT id, "+r.ownerCol+", file_name, file_path, file_type, file_size, created_at FROM "+r.table+" WHERE id = ?",
		id).Scan(&a.ID, &a.OwnerID, &a.FileName, &a.FilePath, &a.FileType, &a.FileSize, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByOwner returns an owner's attachments oldest first, so the first
// uploaded image stays first in galleries.
func (r *AttachmentRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Attachment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, "+r.ownerCol+", file_name, file_path, file_type, file_size, created_at FROM "+r.table+" WHERE "+r.ownerCol+" = ? ORDER BY created_at ASC, id ASC",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Attachment
	for rows.Next() {
		var a model.Attachment
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.FileName, &a.FilePath, &a.FileType,
			&a.FileSize, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByKind returns how many image and document attachments an owner
// currently has. Upload handlers enforce the per-kind caps against
// these totals before storing anything.
func (r *AttachmentRepo) CountByKind(ctx context.Context, ownerID uint64) (images, documents int, err error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT file_type, COUNT(*) FROM "+r.table+" WHERE "+r.ownerCol+" = ? GROUP BY file_type",
		ownerID)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			fileType string
			n        int
		)
		if err := rows.Scan(&fileType, &n); err != nil {
			return 0, 0, err
		}
		if (model.Attachment{FileType: fileType}).IsImage() {
			images += n
		} else {
			documents += n
		}
	}
	return images, documents, rows.Err()
}

// CountByOwner returns an owner's total attachment count across both
// kinds. Template listings show this next to each template.
func (r *AttachmentRepo) CountByOwner(ctx context.Context, ownerID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+r.table+" WHERE "+r.ownerCol+" = ?", ownerID).Scan(&n)
	return n, err
}

// Delete removes one attachment, scoped to its owner so a stale ID
// can't cross into another asset's files.
func (r *AttachmentRepo) Delete(ctx context.Context, ownerID, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM "+r.table+" WHERE id = ? AND "+r.ownerCol+" = ?", id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllForOwner removes every attachment of an owner. Used when the
// owning asset or template is deleted.
func (r *AttachmentRepo) DeleteAllForOwner(ctx context.Context, ownerID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM "+r.table+" WHERE "+r.ownerCol+" = ?", ownerID)
	return err
}
