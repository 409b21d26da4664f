package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"paywave/internal/core/ports"
	"paywave/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// allowedExtensions mirrors the upload contract: images plus PDF.
var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".pdf":  {},
}

// ProofStore implements ports.ProofStore on the local filesystem. Files
// are stored flat under the configured directory with generated names,
// never under user-controlled paths.
type ProofStore struct {
	dir          string
	maxSizeBytes int64
	log          zerolog.Logger
}

// NewProofStore creates the upload directory if needed and returns the store.
func NewProofStore(dir string, maxSizeBytes int64, log zerolog.Logger) (*ProofStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &ProofStore{dir: dir, maxSizeBytes: maxSizeBytes, log: log}, nil
}

// Save validates and writes an uploaded proof file, returning the
// generated name to record on the trade row.
func (s *ProofStore) Save(userID uuid.UUID, upload ports.ProofUpload) (string, error) {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", apperror.ErrInvalidFile("unsupported file type")
	}
	if upload.Size > s.maxSizeBytes {
		return "", apperror.ErrInvalidFile("file too large")
	}

	name := fmt.Sprintf("%s_%d%s", userID, time.Now().UnixNano(), ext)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("creating proof file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	// Enforce the size limit on the actual bytes, not just the declared
	// size: multipart headers can lie.
	written, err := io.Copy(f, io.LimitReader(upload.Content, s.maxSizeBytes+1))
	if err != nil {
		os.Remove(path) //nolint:errcheck
		return "", fmt.Errorf("writing proof file: %w", err)
	}
	if written > s.maxSizeBytes {
		os.Remove(path) //nolint:errcheck
		return "", apperror.ErrInvalidFile("file too large")
	}

	s.log.Debug().
		Str("user_id", userID.String()).
		Str("file", name).
		Int64("bytes", written).
		Msg("proof file stored")

	return name, nil
}

// Open returns a reader for a stored proof file. Names containing path
// separators are rejected so a caller can never escape the upload dir.
func (s *ProofStore) Open(name string) (io.ReadCloser, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, apperror.ErrNotFound("Proof file")
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperror.ErrNotFound("Proof file")
		}
		return nil, fmt.Errorf("opening proof file: %w", err)
	}
	return f, nil
}
