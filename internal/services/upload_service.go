package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/parasports/idcard/internal/models"
)

var (
	ErrUploadNotFound = errors.New("upload not found")
	ErrInvalidImage   = errors.New("invalid image file")
)

// UploadService stores profile photos for later embedding on ID cards.
// Files are decoded before being accepted so the card renderer never meets
// a photo it cannot draw.
type UploadService struct {
	mu        sync.RWMutex
	uploadDir string
	uploads   map[string]*uploadRecord // uploadID -> info
}

type uploadRecord struct {
	ID       string
	Filename string
	Path     string
	UserID   string
}

func NewUploadService(uploadDir string) (*UploadService, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, err
	}
	return &UploadService{
		uploadDir: uploadDir,
		uploads:   make(map[string]*uploadRecord),
	}, nil
}

func (s *UploadService) Upload(userID string, filename string, file io.Reader) (*models.UploadResponse, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	// Reject anything the renderer could not decode later.
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return nil, ErrInvalidImage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	uploadID := uuid.New().String()

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}

	newFilename := uploadID + ext
	filePath := filepath.Join(s.uploadDir, newFilename)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	s.uploads[uploadID] = &uploadRecord{
		ID:       uploadID,
		Filename: newFilename,
		Path:     filePath,
		UserID:   userID,
	}

	return &models.UploadResponse{
		ID:       uploadID,
		URL:      "/uploads/" + newFilename,
		Filename: newFilename,
	}, nil
}

func (s *UploadService) Delete(userID, uploadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.uploads[uploadID]
	if !exists {
		return ErrUploadNotFound
	}

	// Only allow the owner to delete.
	if record.UserID != userID {
		return ErrUnauthorized
	}

	if err := os.Remove(record.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	delete(s.uploads, uploadID)
	return nil
}
