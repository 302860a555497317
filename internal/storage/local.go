package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
)

// Subdirectories used by the application
const (
	DirBukti   = "bukti"   // payment proof uploads (bukti transfer)
	DirLaporan = "laporan" // archived report exports
)

// LocalStorage keeps uploaded files on the local filesystem, organized by
// subdirectory and year/month.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// SaveUpload stores a multipart upload (payment proof) and returns its
// relative path for the tagihan record.
func (s *LocalStorage) SaveUpload(file multipart.File, header *multipart.FileHeader, subDir string) (string, error) {
	dir := filepath.Join(s.basePath, subDir, time.Now().Format("2006/01"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	ext := filepath.Ext(header.Filename)
	filename := generateID() + ext
	filePath := filepath.Join(dir, filename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	relPath, _ := filepath.Rel(s.basePath, filePath)
	return relPath, nil
}

// SaveBytes stores generated content (an exported report) and returns its
// relative path.
func (s *LocalStorage) SaveBytes(data []byte, filename string, subDir string) (string, error) {
	dir := filepath.Join(s.basePath, subDir, time.Now().Format("2006/01"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	ext := filepath.Ext(filename)
	filePath := filepath.Join(dir, generateID()+ext)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	relPath, _ := filepath.Rel(s.basePath, filePath)
	return relPath, nil
}

// Open returns a stored file for reading
func (s *LocalStorage) Open(relativePath string) (*os.File, error) {
	return os.Open(filepath.Join(s.basePath, relativePath))
}

// Delete removes a stored file
func (s *LocalStorage) Delete(relativePath string) error {
	return os.Remove(filepath.Join(s.basePath, relativePath))
}

// Exists reports whether a stored file exists
func (s *LocalStorage) Exists(relativePath string) bool {
	_, err := os.Stat(filepath.Join(s.basePath, relativePath))
	return err == nil
}

// FullPath returns the absolute path for serving files
func (s *LocalStorage) FullPath(relativePath string) string {
	return filepath.Join(s.basePath, relativePath)
}

func generateID() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// IsValidContentType reports whether an upload content type is accepted for
// payment proofs.
func IsValidContentType(contentType string) bool {
	switch contentType {
	case "application/pdf", "image/jpeg", "image/jpg", "image/png":
		return true
	}
	return false
}

// MaxFileSize is the upload size limit in bytes (5MB)
const MaxFileSize = 5 * 1024 * 1024
