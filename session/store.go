// Package session keeps browser sessions server side. The browser only holds
// an opaque id; the bearer credential stays sealed in the database.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kycpay-web/models"
	"kycpay-web/utils"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

// Session is an opened session with its credential unsealed.
type Session struct {
	ID           string
	Email        string
	Credential string
	ExpiresAt  time.Time
}

type Store struct {
	db     *gorm.DB
	sealer *utils.Sealer
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewStore(db *gorm.DB, sealer *utils.Sealer, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		sealer: sealer,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Create stores the access token from a login. The session lives until the
// token's exp claim, or for the store ttl when the token has none. The backend
// offers no refresh endpoint, so the refresh token is not kept.
func (s *Store) Create(ctx context.Context, email string, tokens models.TokenPair, ipAddress, userAgent string) (*Session, error) {
	expiresAt := s.now().Add(s.ttl)
	if exp, ok, err := utils.TokenExpiry(tokens.Access); err != nil {
		s.logger.Debug("access token is not a jwt, using session ttl", zap.Error(err))
	} else if ok {
		expiresAt = exp
	}

	sealedAccess, err := s.sealer.Seal(tokens.Access)
	if err != nil {
		return nil, fmt.Errorf("failed to seal access token: %w", err)
	}

	row := models.Session{
		ID:           uuid.NewString(),
		SealedAccess: sealedAccess,
		Email:        email,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
		ExpiresAt:    expiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &Session{
		ID:         row.ID,
		Email:      email,
		Credential: tokens.Access,
		ExpiresAt:  expiresAt,
	}, nil
}

// Get opens a live session. Expired sessions are deleted and reported as ErrExpired.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	var row models.Session
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if !row.ExpiresAt.After(s.now()) {
		if err := s.Delete(ctx, id); err != nil {
			s.logger.Warn("failed to delete expired session", zap.Error(err))
		}
		return nil, ErrExpired
	}

	credential, err := s.sealer.Open(row.SealedAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to open session credential: %w", err)
	}

	return &Session{
		ID:         row.ID,
		Email:      row.Email,
		Credential: credential,
		ExpiresAt:  row.ExpiresAt,
	}, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Purge removes every expired session and returns how many were removed.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// RunPurge purges expired sessions every interval until ctx is done.
func (s *Store) RunPurge(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Purge(ctx)
			if err != nil {
				s.logger.Error("session purge failed", zap.Error(err))
				continue
			}
			if n > 0 {
				s.logger.Info("purged expired sessions", zap.Int64("count", n))
			}
		}
	}
}
