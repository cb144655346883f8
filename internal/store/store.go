package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"image-service/internal/apperr"
	"image-service/internal/logging"
	"image-service/internal/metrics"
)

// Folder names the artifact classes the store manages.
type Folder string

const (
	FolderOriginals  Folder = "originals"
	FolderThumbnails Folder = "thumbnails"
	FolderPresets    Folder = "presets"
)

// ValidFolder maps a request path segment onto a managed folder.
func ValidFolder(name string) (Folder, bool) {
	switch Folder(name) {
	case FolderOriginals, FolderThumbnails, FolderPresets:
		return Folder(name), true
	}
	return "", false
}

// Store reads and writes artifacts under a fixed root directory.
type Store struct {
	root    string
	tempDir string
}

// New opens a store rooted at root, creating the managed folders and
// the temp staging area as needed.
func New(root string) (*Store, error) {
	s := &Store{root: root, tempDir: filepath.Join(root, "temp")}
	dirs := []string{
		filepath.Join(root, string(FolderOriginals)),
		filepath.Join(root, string(FolderThumbnails)),
		filepath.Join(root, string(FolderPresets)),
		s.tempDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("error creating store directory %s: %w", dir, err)
		}
	}
	return s, nil
}

// Path resolves a folder/filename pair to an absolute path. Filenames
// carrying separators or dot segments are rejected.
func (s *Store) Path(folder Folder, filename string) (string, error) {
	if err := checkFilename(filename); err != nil {
		return "", err
	}
	return filepath.Join(s.root, string(folder), filename), nil
}

func checkFilename(filename string) error {
	if filename == "" || filename == "." || filename == ".." {
		return apperr.NotFound()
	}
	if strings.ContainsAny(filename, `/\`) || filepath.Base(filename) != filename {
		logging.Warn("Store: rejected traversal attempt %q", filename)
		return apperr.NotFound()
	}
	return nil
}

// Save streams r into folder/filename through a temp file and an atomic
// rename, returning the number of bytes written.
func (s *Store) Save(folder Folder, filename string, r io.Reader) (int64, error) {
	dst, err := s.Path(folder, filename)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".artifact-*")
	if err != nil {
		return 0, fmt.Errorf("error staging %s: %w", filename, err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("error writing %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("error closing %s: %w", filename, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("error committing %s: %w", filename, err)
	}

	metrics.StoreArtifactsTotal.WithLabelValues(string(folder)).Inc()
	metrics.StoreBytesWritten.WithLabelValues(string(folder)).Add(float64(n))
	return n, nil
}

// Promote moves an already-written file at srcPath into folder/filename.
// The rename is atomic when srcPath lives on the same filesystem, which
// holds for the store's own temp area.
func (s *Store) Promote(srcPath string, folder Folder, filename string) error {
	dst, err := s.Path(folder, filename)
	if err != nil {
		return err
	}

	info, err := os.Stat(srcPath)
	if err != nil {
		return fmt.Errorf("error inspecting staged file %s: %w", srcPath, err)
	}
	if err := os.Rename(srcPath, dst); err != nil {
		return fmt.Errorf("error promoting %s: %w", srcPath, err)
	}

	metrics.StoreArtifactsTotal.WithLabelValues(string(folder)).Inc()
	metrics.StoreBytesWritten.WithLabelValues(string(folder)).Add(float64(info.Size()))
	return nil
}

// Open returns a reader over a stored artifact plus its file info.
// Missing artifacts yield a not-found error, counted as a serve miss.
func (s *Store) Open(folder Folder, filename string) (*os.File, os.FileInfo, error) {
	path, err := s.Path(folder, filename)
	if err != nil {
		metrics.StoreServeTotal.WithLabelValues("miss").Inc()
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		metrics.StoreServeTotal.WithLabelValues("miss").Inc()
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, apperr.NotFound()
		}
		return nil, nil, fmt.Errorf("error opening artifact %s: %w", filename, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		metrics.StoreServeTotal.WithLabelValues("miss").Inc()
		return nil, nil, fmt.Errorf("error inspecting artifact %s: %w", filename, err)
	}

	metrics.StoreServeTotal.WithLabelValues("hit").Inc()
	return f, info, nil
}

// Remove deletes a stored artifact. Removing an absent artifact is not
// an error.
func (s *Store) Remove(folder Folder, filename string) error {
	path, err := s.Path(folder, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error removing artifact %s: %w", filename, err)
	}
	return nil
}

// StageTemp writes r to a fresh file in the temp staging area and
// returns its path. Callers own the file and must remove it on every
// handled exit path.
func (s *Store) StageTemp(pattern string, r io.Reader) (string, error) {
	tmp, err := os.CreateTemp(s.tempDir, pattern)
	if err != nil {
		return "", fmt.Errorf("error creating temp file: %w", err)
	}
	name := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(name)
		return "", fmt.Errorf("error buffering upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("error closing temp file: %w", err)
	}
	return name, nil
}

// TempPath returns a path inside the temp staging area for filename.
func (s *Store) TempPath(filename string) string {
	return filepath.Join(s.tempDir, filename)
}
