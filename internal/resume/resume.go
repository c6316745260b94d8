// Package resume stores uploaded resume files on disk or in S3.
package resume

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// MaxSize is the largest accepted upload.
const MaxSize = 5 << 20 // 5 MiB

// Errors returned when validating uploads.
var (
	ErrBadExtension = errors.New("resume must be a .pdf, .doc, or .docx file")
	ErrNotFound     = errors.New("resume not found")
)

// Storage persists resume files under opaque keys.
type Storage interface {
	// Save stores the file under key, replacing any existing object.
	Save(ctx context.Context, key string, r io.Reader) error
	// Open returns the stored file. Returns ErrNotFound for unknown keys.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the stored file. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

var allowedExtensions = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Key builds the storage key for an upload, keeping the original extension
// and making collisions between re-uploads impossible via the timestamp.
func Key(jobID, userID, filename string, now time.Time) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrBadExtension
	}
	return fmt.Sprintf("resumes/resume_job_%s_user_%s_%d%s", jobID, userID, now.Unix(), ext), nil
}

// ContentType returns the MIME type for a stored key, or a generic fallback.
func ContentType(key string) string {
	if ct, ok := allowedExtensions[strings.ToLower(path.Ext(key))]; ok {
		return ct
	}
	return "application/octet-stream"
}
