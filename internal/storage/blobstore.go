// Package storage provides the local-disk blob store for uploaded PDFs and
// their derived text. Blobs are addressed by server-generated keys, never by
// client-supplied filenames.
package storage

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const textCompressExt = ".gz"

// FileStore writes PDFs and extracted text under two separate directories.
// Text blobs are gzip-compressed at rest; callers only ever see plain text.
type FileStore struct {
	bookDir string
	textDir string
}

// BlobInfo describes a stored blob for maintenance scans.
type BlobInfo struct {
	Key     string
	ModTime time.Time
}

func NewFileStore(bookDir, textDir string) (*FileStore, error) {
	for _, dir := range []string{bookDir, textDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}
	return &FileStore{bookDir: bookDir, textDir: textDir}, nil
}

// WritePDF stores the PDF bytes under key and returns the number of bytes
// actually persisted, which is the trusted size for the metadata record.
func (s *FileStore) WritePDF(key string, r io.Reader) (int64, error) {
	path, err := s.pdfPath(key)
	if err != nil {
		return 0, err
	}

	dst, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, r)
	if err != nil {
		os.Remove(path) // Clean up on error
		return 0, fmt.Errorf("failed to save file: %w", err)
	}
	return written, nil
}

// PDFPath returns the on-disk path for serving the stored PDF.
func (s *FileStore) PDFPath(key string) (string, error) {
	path, err := s.pdfPath(key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("pdf blob %s: %w", key, err)
	}
	return path, nil
}

// ReadPDF loads the stored PDF bytes.
func (s *FileStore) ReadPDF(key string) ([]byte, error) {
	path, err := s.pdfPath(key)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// RemovePDF deletes the PDF blob. Missing blobs are not an error, so that
// compensating cleanup is safe to run on any failure edge.
func (s *FileStore) RemovePDF(key string) error {
	path, err := s.pdfPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// WriteText stores the extracted text under key, gzip-compressed.
func (s *FileStore) WriteText(key, text string) error {
	path, err := s.textPath(key)
	if err != nil {
		return err
	}

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	zw := gzip.NewWriter(dst)
	if _, err := zw.Write([]byte(text)); err != nil {
		zw.Close()
		dst.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write text blob: %w", err)
	}
	if err := zw.Close(); err != nil {
		dst.Close()
		os.Remove(path)
		return fmt.Errorf("failed to flush text blob: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close text blob: %w", err)
	}
	return nil
}

// ReadText loads and decompresses the extracted text.
func (s *FileStore) ReadText(key string) (string, error) {
	path, err := s.textPath(key)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("text blob %s: %w", key, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("text blob %s: corrupt: %w", key, err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return "", fmt.Errorf("text blob %s: read: %w", key, err)
	}
	return string(data), nil
}

// RemoveText deletes the text blob; missing blobs are ignored.
func (s *FileStore) RemoveText(key string) error {
	path, err := s.textPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ListPDFs enumerates stored PDF blobs for maintenance scans.
func (s *FileStore) ListPDFs() ([]BlobInfo, error) {
	return listDir(s.bookDir, "")
}

// ListTexts enumerates stored text blobs. Keys are reported without the
// compression suffix.
func (s *FileStore) ListTexts() ([]BlobInfo, error) {
	return listDir(s.textDir, textCompressExt)
}

func listDir(dir, trimExt string) ([]BlobInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	blobs := make([]BlobInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		key := entry.Name()
		if trimExt != "" {
			if !strings.HasSuffix(key, trimExt) {
				continue
			}
			key = strings.TrimSuffix(key, trimExt)
		}
		blobs = append(blobs, BlobInfo{Key: key, ModTime: info.ModTime()})
	}
	return blobs, nil
}

func (s *FileStore) pdfPath(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.bookDir, key), nil
}

func (s *FileStore) textPath(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.textDir, key+textCompressExt), nil
}

// validateKey rejects anything that could escape the storage directory. Keys
// are server-generated, so a violation here means a bug, not user input.
func validateKey(key string) error {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("invalid blob key %q", key)
	}
	return nil
}
