package application

import (
	"context"
	"fmt"
	"regexp"

	"github.com/tashivar/backoffice/internal/domain"
	apperrors "github.com/tashivar/backoffice/pkg/errors"
	"github.com/tashivar/backoffice/pkg/logging"
)

// Keys are client-chosen; the back-office UI namespaces its own snapshots
// under tashivar_*.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,128}$`)

const maxBlobSize = 1 << 20 // 1 MiB

// KVService is a keyed blob store for opaque client-side state snapshots.
// Values are stored and returned verbatim; the server never interprets
// them.
type KVService struct {
	repo   domain.KVRepository
	logger *logging.Logger
}

// NewKVService creates a new KVService
func NewKVService(repo domain.KVRepository, logger *logging.Logger) *KVService {
	return &KVService{repo: repo, logger: logger}
}

// Get returns the blob stored under a key
func (s *KVService) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	value, err := s.repo.Get(ctx, key)
	if err != nil {
		s.logger.WithError(err).Error("Failed to read key", "key", key)
		return nil, fmt.Errorf("failed to read key: %w", err)
	}
	if value == nil {
		return nil, apperrors.ErrNotFoundWithID("key", key)
	}
	return value, nil
}

// Set stores a blob under a key, replacing any previous value
func (s *KVService) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if len(value) == 0 {
		return apperrors.ErrValidation("value is required")
	}
	if len(value) > maxBlobSize {
		return apperrors.ErrValidation("value exceeds the 1 MiB limit")
	}

	if err := s.repo.Set(ctx, key, value); err != nil {
		s.logger.WithError(err).Error("Failed to write key", "key", key)
		return fmt.Errorf("failed to write key: %w", err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *KVService) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, key); err != nil {
		s.logger.WithError(err).Error("Failed to delete key", "key", key)
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// Keys lists stored keys, optionally narrowed to a prefix
func (s *KVService) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.repo.Keys(ctx, prefix)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list keys", "prefix", prefix)
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return apperrors.ErrValidation("invalid key: up to 128 characters of letters, digits, '_', '.', ':' or '-'")
	}
	return nil
}
