package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wanderlust-tours/wanderlust/internal/models"
)

// LoadSecret returns the stored signing secret. ok is false when setup has
// not happened yet.
func LoadSecret(ctx context.Context, db *gorm.DB) (secret string, ok bool, err error) {
	var setting models.Setting
	if err := db.WithContext(ctx).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to load settings: %w", err)
	}
	return setting.JWTSecret, true, nil
}

// LoadOrCreateSecret returns the stored signing secret, generating and
// saving one on first use
func LoadOrCreateSecret(ctx context.Context, db *gorm.DB) (string, error) {
	secret, ok, err := LoadSecret(ctx, db)
	if err != nil || ok {
		return secret, err
	}

	secret, err = GenerateSecret()
	if err != nil {
		return "", err
	}
	if err := db.WithContext(ctx).Create(&models.Setting{JWTSecret: secret}).Error; err != nil {
		return "", fmt.Errorf("failed to save settings: %w", err)
	}
	return secret, nil
}
