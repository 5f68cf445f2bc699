package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/QmazProject/Asset-Management-System/internal/config"
	"github.com/QmazProject/Asset-Management-System/internal/model"
	"github.com/QmazProject/Asset-Management-System/internal/repository"
	"github.com/QmazProject/Asset-Management-System/internal/storage"
)

// AttachmentHandler serves file uploads for assets and service
// templates. Files land in object storage; the database keeps one row
// per stored file with its public URL.
type AttachmentHandler struct {
	Cfg                 config.Config
	Assets              *repository.AssetRepo
	Templates           *repository.TemplateRepo
	AssetAttachments    *repository.AttachmentRepo
	TemplateAttachments *repository.AttachmentRepo
	Store               *storage.Client
}

func NewAttachmentHandler(cfg config.Config, assets *repository.AssetRepo, templates *repository.TemplateRepo,
	assetAtt, templateAtt *repository.AttachmentRepo, store *storage.Client) *AttachmentHandler {
	return &AttachmentHandler{
		Cfg:                 cfg,
		Assets:              assets,
		Templates:           templates,
		AssetAttachments:    assetAtt,
		TemplateAttachments: templateAtt,
		Store:               store,
	}
}

type attachmentResp struct {
	ID       uint64    `json:"id"`
	FileName string    `json:"file_name"`
	FilePath string    `json:"file_path"`
	FileType string    `json:"file_type"`
	FileSize int64     `json:"file_size"`
	IsImage  bool      `json:"is_image"`
	Uploaded time.Time `json:"uploaded_at"`
}

type uploadFailure struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

func toAttachmentResp(a *model.Attachment) attachmentResp {
	return attachmentResp{
		ID:       a.ID,
		FileName: a.FileName,
		FilePath: a.FilePath,
		FileType: a.FileType,
		FileSize: a.FileSize,
		IsImage:  a.IsImage(),
		Uploaded: a.CreatedAt,
	}
}

// UploadAssetFiles accepts a multipart batch under the "files" field
// and stores each file that passes validation. A failing file never
// aborts the batch: the response lists stored attachments and failures
// side by side. The first stored image of an asset with no main image
// becomes the main image.
func (h *AttachmentHandler) UploadAssetFiles(c echo.Context) error {
	assetID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid asset id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	asset, err := h.Assets.GetByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "multipart form required"})
	}
	files := form.File["files"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no files submitted"})
	}

	images, documents, err := h.AssetAttachments.CountByKind(ctx, assetID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var (
		stored   []attachmentResp
		failures []uploadFailure
	)
	for _, fh := range files {
		att, reason := h.storeOne(ctx, h.AssetAttachments, h.Cfg.AssetBucket, assetID, fh, func(isImage bool) string {
			// Per-kind caps checked against the running totals so a
			// single batch can't blow past the limits.
			if isImage && images >= model.MaxImagesPerAsset {
				return "image limit reached (5 per asset)"
			}
			if !isImage && documents >= model.MaxDocumentsPerAsset {
				return "document limit reached (5 per asset)"
			}
			return ""
		})
		if reason != "" {
			failures = append(failures, uploadFailure{FileName: fh.Filename, Reason: reason})
			continue
		}
		if att.IsImage() {
			images++
			if asset.ImageURL == "" {
				if err := h.Assets.SetMainImage(ctx, assetID, att.FilePath); err == nil {
					asset.ImageURL = att.FilePath
				}
			}
		} else {
			documents++
		}
		stored = append(stored, toAttachmentResp(att))
	}

	status := http.StatusCreated
	if len(stored) == 0 {
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, echo.Map{"stored": stored, "failed": failures})
}

// ListAssetFiles returns an asset's attachments split into images and
// documents.
func (h *AttachmentHandler) ListAssetFiles(c echo.Context) error {
	assetID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid asset id"})
	}
	return h.listFiles(c, h.AssetAttachments, assetID)
}

// DeleteAssetFile removes one attachment row and its stored object. If
// the deleted file was the main image, the pointer moves to the oldest
// remaining image, or clears.
func (h *AttachmentHandler) DeleteAssetFile(c echo.Context) error {
	assetID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid asset id"})
	}
	attID, err := pathID(c, "attachmentID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid attachment id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	asset, err := h.Assets.GetByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	att, err := h.AssetAttachments.GetByID(ctx, attID)
	if err != nil || att.OwnerID != assetID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "attachment not found"})
	}
	if err := h.AssetAttachments.Delete(ctx, assetID, attID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attachment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	// Storage cleanup is best effort; the row is already gone.
	_ = h.Store.Delete(ctx, h.Cfg.AssetBucket, objectKeyFromURL(att.FilePath))

	if asset.ImageURL == att.FilePath {
		next := ""
		if remaining, err := h.AssetAttachments.ListByOwner(ctx, assetID); err == nil {
			for _, r := range remaining {
				if r.IsImage() {
					next = r.FilePath
					break
				}
			}
		}
		_ = h.Assets.SetMainImage(ctx, assetID, next)
	}
	return c.NoContent(http.StatusNoContent)
}

// BulkDeleteAssetFiles removes several attachments in one call, the
// way the gallery's multi-select works. Like uploads, the batch is
// partial-failure tolerant: unknown ids are reported, not fatal.
func (h *AttachmentHandler) BulkDeleteAssetFiles(c echo.Context) error {
	assetID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid asset id"})
	}
	var req struct {
		IDs []uint64 `json:"ids"`
	}
	if err := c.Bind(&req); err != nil || len(req.IDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ids required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	asset, err := h.Assets.GetByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var (
		deleted     []uint64
		failed      []uploadFailure
		mainDeleted bool
	)
	for _, id := range req.IDs {
		att, err := h.AssetAttachments.GetByID(ctx, id)
		if err != nil || att.OwnerID != assetID {
			failed = append(failed, uploadFailure{FileName: strconv.FormatUint(id, 10), Reason: "attachment not found"})
			continue
		}
		if err := h.AssetAttachments.Delete(ctx, assetID, id); err != nil {
			failed = append(failed, uploadFailure{FileName: att.FileName, Reason: "delete failed"})
			continue
		}
		_ = h.Store.Delete(ctx, h.Cfg.AssetBucket, objectKeyFromURL(att.FilePath))
		if asset.ImageURL == att.FilePath {
			mainDeleted = true
		}
		deleted = append(deleted, id)
	}

	if mainDeleted {
		next := ""
		if remaining, err := h.AssetAttachments.ListByOwner(ctx, assetID); err == nil {
			for _, r := range remaining {
				if r.IsImage() {
					next = r.FilePath
					break
				}
			}
		}
		_ = h.Assets.SetMainImage(ctx, assetID, next)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": deleted, "failed": failed})
}

// UploadTemplateFiles stores reference documents on a service template,
// with the same per-file rules as asset uploads.
func (h *AttachmentHandler) UploadTemplateFiles(c echo.Context) error {
	templateID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	if _, err := h.Templates.GetByID(ctx, templateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "template not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "multipart form required"})
	}
	files := form.File["files"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no files submitted"})
	}

	var (
		stored   []attachmentResp
		failures []uploadFailure
	)
	for _, fh := range files {
		att, reason := h.storeOne(ctx, h.TemplateAttachments, h.Cfg.TemplateBucket, templateID, fh, nil)
		if reason != "" {
			failures = append(failures, uploadFailure{FileName: fh.Filename, Reason: reason})
			continue
		}
		stored = append(stored, toAttachmentResp(att))
	}

	status := http.StatusCreated
	if len(stored) == 0 {
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, echo.Map{"stored": stored, "failed": failures})
}

// ListTemplateFiles returns a template's attachments.
func (h *AttachmentHandler) ListTemplateFiles(c echo.Context) error {
	templateID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}
	return h.listFiles(c, h.TemplateAttachments, templateID)
}

// DeleteTemplateFile removes one template attachment.
func (h *AttachmentHandler) DeleteTemplateFile(c echo.Context) error {
	templateID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}
	attID, err := pathID(c, "attachmentID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid attachment id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	att, err := h.TemplateAttachments.GetByID(ctx, attID)
	if err != nil || att.OwnerID != templateID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "attachment not found"})
	}
	if err := h.TemplateAttachments.Delete(ctx, templateID, attID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attachment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	_ = h.Store.Delete(ctx, h.Cfg.TemplateBucket, objectKeyFromURL(att.FilePath))
	return c.NoContent(http.StatusNoContent)
}

// storeOne validates, uploads and records a single multipart file.
// capCheck (optional) runs after the file kind is known and returns a
// rejection reason when a per-kind cap is hit.
func (h *AttachmentHandler) storeOne(ctx context.Context, repo *repository.AttachmentRepo, bucket string,
	ownerID uint64, fh *multipart.FileHeader, capCheck func(isImage bool) string) (*model.Attachment, string) {

	if !model.AllowedAttachmentName(fh.Filename) {
		return nil, "file type not allowed"
	}
	if fh.Size > model.MaxAttachmentBytes {
		return nil, "file exceeds the 20MB limit"
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	isImage := (model.Attachment{FileType: contentType}).IsImage()
	if capCheck != nil {
		if reason := capCheck(isImage); reason != "" {
			return nil, reason
		}
	}

	src, err := fh.Open()
	if err != nil {
		return nil, "could not read file"
	}
	defer src.Close()

	key := storage.ObjectKey("attachments", fh.Filename)
	if err := h.Store.Upload(ctx, bucket, key, src, fh.Size, contentType); err != nil {
		return nil, "upload failed"
	}

	att := &model.Attachment{
		OwnerID:  ownerID,
		FileName: fh.Filename,
		FilePath: h.Store.PublicURL(bucket, key),
		FileType: contentType,
		FileSize: fh.Size,
	}
	if err := repo.Create(ctx, att); err != nil {
		// Orphaned object cleanup is best effort.
		_ = h.Store.Delete(ctx, bucket, key)
		return nil, "save failed"
	}
	return att, ""
}

func (h *AttachmentHandler) listFiles(c echo.Context, repo *repository.AttachmentRepo, ownerID uint64) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	atts, err := repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	images := make([]attachmentResp, 0)
	documents := make([]attachmentResp, 0)
	for _, a := range atts {
		if a.IsImage() {
			images = append(images, toAttachmentResp(a))
		} else {
			documents = append(documents, toAttachmentResp(a))
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"images": images, "documents": documents})
}

// objectKeyFromURL strips the endpoint and bucket from a stored public
// URL, leaving the object key.
func objectKeyFromURL(u string) string {
	// URLs are scheme://host/bucket/prefix/uuid-name; the key is
	// everything after the bucket segment.
	idx := -1
	slashes := 0
	for i := 0; i < len(u); i++ {
		if u[i] == '/' {
			slashes++
			// scheme "//" host "/" bucket "/" -> key starts after 4th slash
			if slashes == 4 {
				idx = i + 1
				break
			}
		}
	}
	if idx < 0 || idx >= len(u) {
		return u
	}
	return u[idx:]
}
