package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clearops/ticketlens/pkg/models/domain"
)

// Store persists uploaded CSVs and generated HTML reports on disk. Files are
// named by a generated UUID so user-supplied names can never escape the
// storage directories.
type Store struct {
	uploadDir string
	reportDir string
}

func NewStore(uploadDir, reportDir string) (*Store, error) {
	for _, dir := range []string{uploadDir, reportDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}
	return &Store{uploadDir: uploadDir, reportDir: reportDir}, nil
}

// SaveUpload streams an uploaded CSV to disk under a fresh ID.
func (s *Store) SaveUpload(filename string, r io.Reader) (domain.Upload, error) {
	id := uuid.NewString()
	name := sanitizeFilename(filename)
	path := filepath.Join(s.uploadDir, id+".csv")

	f, err := os.Create(path)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("create upload file: %w", err)
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return domain.Upload{}, fmt.Errorf("write upload file: %w", err)
	}

	return domain.Upload{
		ID:        id,
		Filename:  name,
		Path:      path,
		Size:      size,
		CreatedAt: time.Now(),
	}, nil
}

// OpenUpload opens a stored upload by ID. The ID must be a valid UUID, which
// doubles as the path traversal guard.
func (s *Store) OpenUpload(id string) (io.ReadCloser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid upload id %q", id)
	}
	f, err := os.Open(filepath.Join(s.uploadDir, id+".csv"))
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", id, err)
	}
	return f, nil
}

func (s *Store) DeleteUpload(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid upload id %q", id)
	}
	return os.Remove(filepath.Join(s.uploadDir, id+".csv"))
}

// SaveReport writes a rendered HTML document and returns its path.
func (s *Store) SaveReport(id string, html []byte) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("invalid report id %q", id)
	}
	path := filepath.Join(s.reportDir, id+".html")
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return "", fmt.Errorf("write report file: %w", err)
	}
	return path, nil
}

func (s *Store) OpenReport(id string) (io.ReadCloser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid report id %q", id)
	}
	f, err := os.Open(filepath.Join(s.reportDir, id+".html"))
	if err != nil {
		return nil, fmt.Errorf("open report %s: %w", id, err)
	}
	return f, nil
}

func (s *Store) DeleteReport(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid report id %q", id)
	}
	return os.Remove(filepath.Join(s.reportDir, id+".html"))
}

// Sweep removes stored files older than the retention window from both
// directories and reports how many were deleted.
func (s *Store) Sweep(olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, dir := range []string{s.uploadDir, s.reportDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return removed, fmt.Errorf("list storage dir %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			if info.ModTime().Before(cutoff) {
				if err := os.Remove(filepath.Join(dir, e.Name())); err == nil {
					removed++
				}
			}
		}
	}
	return removed, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "upload.csv"
	}
	return name
}
