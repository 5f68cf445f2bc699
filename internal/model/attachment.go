package model

import (
	"path/filepath"
	"strings"
	"time"
)

// Attachment limits. An asset carries at most five images in total
// (the main image plus gallery) and at most five document files.
const (
	MaxImagesPerAsset    = 5
	MaxDocumentsPerAsset = 5
	MaxAttachmentBytes   = 20 << 20 // 20MB per file
)

// allowedExtensions mirrors the upload form's accept list.
var allowedExtensions = map[string]bool{
	".pdf": true, ".docx": true, ".rtf": true, ".odt": true, ".xlsx": true,
	".txt": true, ".png": true, ".jpg": true, ".jpeg": true, ".bmp": true,
}

// Attachment is a stored file linked to an asset or a service template.
// Rows live in `asset_attachments` or `service_template_attachments`;
// both tables share this shape apart from the owning foreign key.
type Attachment struct {
	ID       uint64 // attachment id
	OwnerID  uint64 // asset_id or template_id
	FileName string // original file name
	FilePath string // public URL of the stored object
	FileType string // MIME type
	FileSize int64  // size in bytes
	CreatedAt time.Time
}

// IsImage reports whether the attachment is an image by MIME type.
func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.FileType, "image/")
}

// AllowedAttachmentName reports whether the file name carries one of
// the accepted extensions.
func AllowedAttachmentName(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}
