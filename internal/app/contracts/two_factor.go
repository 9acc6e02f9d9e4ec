package contracts

import (
	"context"
	"time"

	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/dto/requests"
	"dococlock-service/internal/pkg/dto/responses"
)

type TwoFactorRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.TwoFactorCredential, error)
	Upsert(ctx context.Context, credential *models.TwoFactorCredential) error
	Enable(ctx context.Context, userID string, enabledAt time.Time) error
	// ConsumeBackupCode removes codeHash from the user's codes and reports whether it was
	// still there, so a code can only win once.
	ConsumeBackupCode(ctx context.Context, userID, codeHash string, usedAt time.Time) (bool, error)
	TouchLastUsed(ctx context.Context, userID string, usedAt time.Time) error
	Delete(ctx context.Context, userID string) error
}

type TwoFactorUsecase interface {
	Setup(ctx context.Context, userID string) (*responses.TwoFactorSetup, error)
	VerifySetup(ctx context.Context, request *requests.TwoFactorCode) error
	Verify(ctx context.Context, request *requests.TwoFactorCode) (*responses.TwoFactorVerify, error)
	Disable(ctx context.Context, request *requests.TwoFactorCode) error
	IsEnabled(ctx context.Context, userID string) (bool, error)
}
