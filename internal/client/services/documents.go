package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/dmitrijs2005/hkjobs/internal/client/client"
	"github.com/dmitrijs2005/hkjobs/internal/client/models"
	"github.com/dmitrijs2005/hkjobs/internal/filex"
)

// MaxDocumentSize is the largest file the backend accepts.
const MaxDocumentSize = 10 << 20

var allowedExtensions = []string{"pdf", "doc", "docx", "txt"}

type DocumentService interface {
	List(ctx context.Context) ([]models.Document, error)
	Upload(ctx context.Context, path string, kind models.DocumentKind) (*models.Document, error)
	Delete(ctx context.Context, id string) error
}

type documentService struct {
	client client.Client
}

func NewDocumentService(client client.Client) DocumentService {
	return &documentService{client: client}
}

func (s *documentService) List(ctx context.Context) ([]models.Document, error) {
	return s.client.ListDocuments(ctx)
}

// Upload sends the file at path. An empty kind means resume.
func (s *documentService) Upload(ctx context.Context, path string, kind models.DocumentKind) (*models.Document, error) {
	if kind == "" {
		kind = models.KindResume
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown document kind %q", ErrInvalidInput, kind)
	}
	if ext := filex.Extension(path); !slices.Contains(allowedExtensions, ext) {
		return nil, fmt.Errorf("%w: %q (allowed: %v)", ErrUnsupportedFileType, filepath.Base(path), allowedExtensions)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read file error: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidInput, path)
	}
	if info.Size() > MaxDocumentSize {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ErrFileTooLarge, info.Size(), MaxDocumentSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file error: %w", err)
	}
	defer f.Close()

	doc, err := s.client.UploadDocument(ctx, filepath.Base(path), kind, f)
	if err != nil {
		return nil, fmt.Errorf("upload error: %w", err)
	}
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	id, err := requireID("document", id)
	if err != nil {
		return err
	}
	if err := s.client.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document error: %w", err)
	}
	return nil
}
