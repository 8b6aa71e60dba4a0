package domain

import (
	"time"

	"github.com/google/uuid"
)

// FileType represents the role of an uploaded file within a project
type FileType string

const (
	FileTypeInstruction  FileType = "instruction"
	FileTypePartsList    FileType = "parts-list"
	FileTypeThumbnail    FileType = "thumbnail"
	FileTypeGalleryImage FileType = "gallery-image"
)

// IsImage reports whether the file type carries image content.
func (t FileType) IsImage() bool {
	return t == FileTypeThumbnail || t == FileTypeGalleryImage
}

// ProjectFile represents an uploaded file belonging to a project. Files are
// immutable during finalize except for the single thumbnail re-tag.
type ProjectFile struct {
	ID               uuid.UUID
	ProjectID        uuid.UUID
	FileType         FileType
	FileURL          string
	OriginalFilename string
	MimeType         string
	CreatedAt        time.Time
	DeletedAt        *time.Time
}

// ExpectedMimeType resolves the MIME type magic-byte validation should check
// against: the declared type when the upload carried one, otherwise a
// fallback inferred from the file's role.
func (f *ProjectFile) ExpectedMimeType() string {
	if f.MimeType != "" {
		return f.MimeType
	}
	switch f.FileType {
	case FileTypeInstruction:
		return "application/pdf"
	case FileTypeThumbnail, FileTypeGalleryImage:
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
