package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opencampus/records-api/internal/models"
	appErrors "github.com/opencampus/records-api/pkg/errors"
	"github.com/opencampus/records-api/pkg/storage"
)

type documentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	List(ctx context.Context) ([]models.Document, error)
}

// DocumentConfig bounds registrar uploads.
type DocumentConfig struct {
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// DocumentService stores registrar-uploaded files on disk and their metadata
// in the database.
type DocumentService struct {
	docs    documentRepository
	storage *storage.LocalStorage
	logger  *zap.Logger
	config  DocumentConfig
}

func NewDocumentService(docs documentRepository, store *storage.LocalStorage, logger *zap.Logger, config DocumentConfig) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{docs: docs, storage: store, logger: logger, config: config}
}

func (s *DocumentService) allowedMIME(mime string) bool {
	if len(s.config.AllowedMIMEs) == 0 {
		return true
	}
	for _, allowed := range s.config.AllowedMIMEs {
		if allowed == mime {
			return true
		}
	}
	return false
}

// Upload validates and stores a file, recording its metadata. The stored
// name is a fresh uuid so uploads can never collide or traverse paths.
func (s *DocumentService) Upload(ctx context.Context, uploadedBy, title, fileName, mimeType string, size int64, r io.Reader) (*models.Document, error) {
	if title == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title is required")
	}
	if s.config.MaxFileSizeBytes > 0 && size > s.config.MaxFileSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds %d bytes", s.config.MaxFileSizeBytes))
	}
	if !s.allowedMIME(mimeType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file type %s is not accepted", mimeType))
	}

	storedName := uuid.NewString() + filepath.Ext(fileName)
	path, err := s.storage.SaveStream(storedName, r)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file")
	}

	doc := &models.Document{
		Title:       title,
		FileName:    fileName,
		StoragePath: path,
		MIMEType:    mimeType,
		SizeBytes:   size,
		UploadedBy:  uploadedBy,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		if removeErr := s.storage.Delete(storedName); removeErr != nil {
			s.logger.Warn("failed to remove orphaned upload", zap.String("file", storedName), zap.Error(removeErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record document")
	}

	s.logger.Info("document uploaded",
		zap.String("document_id", doc.ID),
		zap.String("file", fileName),
		zap.Int64("size", size))
	return doc, nil
}

// Documents lists uploaded document metadata.
func (s *DocumentService) Documents(ctx context.Context) ([]models.Document, error) {
	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list documents")
	}
	return docs, nil
}
