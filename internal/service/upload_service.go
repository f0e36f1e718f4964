package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"linkbio/internal/imaging"
)

// ErrStorageUnavailable means object storage was not configured at startup.
var ErrStorageUnavailable = errors.New("object storage unavailable")

// ObjectStorage is the upload target.
type ObjectStorage interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// UploadService re-encodes images and pushes them to object storage.
type UploadService struct {
	processor *imaging.Processor
	storage   ObjectStorage
	logger    *zap.Logger
	now       func() time.Time
}

func NewUploadService(processor *imaging.Processor, storage ObjectStorage, logger *zap.Logger) *UploadService {
	return &UploadService{
		processor: processor,
		storage:   storage,
		logger:    logger,
		now:       time.Now,
	}
}

// Upload processes the image and stores it under a date-partitioned,
// content-addressed key. Returns the object's public URL.
func (s *UploadService) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if s.storage == nil {
		return "", ErrStorageUnavailable
	}

	result, err := s.processor.Process(data)
	if err != nil {
		return "", err
	}

	url, err := s.storage.PutObject(ctx, s.objectKey(filename, result), result.Data, result.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	s.logger.Info("Image uploaded",
		zap.String("filename", filename),
		zap.Int("size", len(result.Data)))

	return url, nil
}

// objectKey builds "YYYY/MM/DD/<sha256[:16]>-<base><ext>".
func (s *UploadService) objectKey(filename string, result *imaging.Result) string {
	sum := sha256.Sum256(result.Data)
	hash := hex.EncodeToString(sum[:])[:16]

	now := s.now().UTC()
	return fmt.Sprintf("%04d/%02d/%02d/%s-%s%s",
		now.Year(), int(now.Month()), now.Day(), hash, baseName(filename), result.Ext)
}

var unsafeBaseChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// baseName sanitizes the uploaded filename down to a safe stem: spaces to
// dashes, unsafe characters stripped, extension dropped, tail-limited.
func baseName(filename string) string {
	base := strings.ReplaceAll(filename, " ", "-")
	base = unsafeBaseChars.ReplaceAllString(base, "")
	if len(base) > 40 {
		base = base[len(base)-40:]
	}
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	if base == "" {
		base = "upload"
	}
	return base
}
