package twofactor

import (
	"context"
	"time"

	"dococlock-service/internal/app/config"
	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/dto/requests"
	"dococlock-service/internal/pkg/dto/responses"
	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
)

const (
	totpPeriod = 30
	totpSkew   = 1

	MethodTOTP       = "totp"
	MethodBackupCode = "backup_code"
)

type twoFactorUsecase struct {
	TwoFactorRepository contracts.TwoFactorRepository
	AttemptLimiter      contracts.AttemptLimiter
	InternalConfig      *config.InternalConfig
	Log                 *zap.Logger
	now                 func() time.Time
}

func NewTwoFactorUsecase(
	twoFactorRepository contracts.TwoFactorRepository,
	attemptLimiter contracts.AttemptLimiter,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.TwoFactorUsecase {
	return &twoFactorUsecase{
		TwoFactorRepository: twoFactorRepository,
		AttemptLimiter:      attemptLimiter,
		InternalConfig:      internalConfig,
		Log:                 logger,
		now:                 time.Now,
	}
}

// Setup issues a fresh secret and backup codes. The credential stays disabled until
// VerifySetup sees a valid code, and the plaintext codes are only returned here.
func (uc *twoFactorUsecase) Setup(ctx context.Context, userID string) (*responses.TwoFactorSetup, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("twoFactorUsecase.Setup called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, userID),
	)

	existing, err := uc.TwoFactorRepository.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Enabled {
		return nil, exceptions.ErrTwoFactorAlreadyEnabled(userID)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      uc.issuer(),
		AccountName: userID,
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, exceptions.ErrTwoFactorGenerate(err)
	}

	codes, err := utils.GenerateBackupCodes(uc.backupCodeCount(), constvars.BackupCodeLength)
	if err != nil {
		return nil, exceptions.ErrTwoFactorGenerate(err)
	}
	hashes := make([]string, 0, len(codes))
	for _, code := range codes {
		hash, err := utils.HashPassword(code)
		if err != nil {
			return nil, exceptions.ErrHashPassword(err)
		}
		hashes = append(hashes, hash)
	}

	now := uc.now().UTC()
	credential := &models.TwoFactorCredential{
		UserID:           userID,
		Secret:           key.Secret(),
		BackupCodeHashes: hashes,
		Enabled:          false,
		TimeModel:        models.TimeModel{CreatedAt: now, UpdatedAt: now},
	}
	err = utils.RetryWithBackoff(ctx, utils.DefaultRetryAttempts, utils.DefaultRetryBaseDelay, func() error {
		return uc.TwoFactorRepository.Upsert(ctx, credential)
	})
	if err != nil {
		uc.Log.Error("twoFactorUsecase.Setup error storing credential",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("twoFactorUsecase.Setup succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, userID),
	)
	return &responses.TwoFactorSetup{
		Secret:      key.Secret(),
		OTPAuthURL:  key.URL(),
		BackupCodes: codes,
	}, nil
}

func (uc *twoFactorUsecase) VerifySetup(ctx context.Context, request *requests.TwoFactorCode) error {
	requestID := utils.GetRequestID(ctx)
	if err := uc.guardAttempts(ctx, request.UserID); err != nil {
		return err
	}

	credential, err := uc.TwoFactorRepository.FindByUserID(ctx, request.UserID)
	if err != nil {
		return err
	}
	if credential == nil {
		return exceptions.ErrTwoFactorNotConfigured(request.UserID)
	}
	if credential.Enabled {
		return exceptions.ErrTwoFactorAlreadyEnabled(request.UserID)
	}
	if !uc.validTOTP(request.Code, credential.Secret) {
		utils.LogSecurityEvent(uc.Log, "two_factor_setup_rejected", requestID, "low",
			zap.String(constvars.LoggingUserIDKey, request.UserID),
		)
		return exceptions.ErrTwoFactorInvalidCode(request.UserID)
	}

	err = uc.TwoFactorRepository.Enable(ctx, request.UserID, uc.now().UTC())
	if err != nil {
		return err
	}
	utils.LogBusinessEvent(uc.Log, "two_factor_enabled", requestID,
		zap.String(constvars.LoggingUserIDKey, request.UserID),
	)
	return nil
}

// Verify accepts a TOTP code or an unused backup code. A backup code is gone after this
// call succeeds.
func (uc *twoFactorUsecase) Verify(ctx context.Context, request *requests.TwoFactorCode) (*responses.TwoFactorVerify, error) {
	requestID := utils.GetRequestID(ctx)
	if err := uc.guardAttempts(ctx, request.UserID); err != nil {
		return nil, err
	}

	credential, err := uc.TwoFactorRepository.FindByUserID(ctx, request.UserID)
	if err != nil {
		return nil, err
	}
	if credential == nil || !credential.Enabled {
		return nil, exceptions.ErrTwoFactorNotConfigured(request.UserID)
	}

	method, remaining, err := uc.check(ctx, credential, request.Code)
	if err != nil {
		utils.LogSecurityEvent(uc.Log, "two_factor_verify_rejected", requestID, "medium",
			zap.String(constvars.LoggingUserIDKey, request.UserID),
		)
		return nil, err
	}

	uc.Log.Info("twoFactorUsecase.Verify succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, request.UserID),
		zap.String("method", method),
	)
	return &responses.TwoFactorVerify{Method: method, RemainingBackupCodes: remaining}, nil
}

func (uc *twoFactorUsecase) Disable(ctx context.Context, request *requests.TwoFactorCode) error {
	requestID := utils.GetRequestID(ctx)
	if err := uc.guardAttempts(ctx, request.UserID); err != nil {
		return err
	}

	credential, err := uc.TwoFactorRepository.FindByUserID(ctx, request.UserID)
	if err != nil {
		return err
	}
	if credential == nil {
		return exceptions.ErrTwoFactorNotConfigured(request.UserID)
	}
	if _, _, err := uc.check(ctx, credential, request.Code); err != nil {
		return err
	}

	err = uc.TwoFactorRepository.Delete(ctx, request.UserID)
	if err != nil {
		return err
	}
	utils.LogBusinessEvent(uc.Log, "two_factor_disabled", requestID,
		zap.String(constvars.LoggingUserIDKey, request.UserID),
	)
	return nil
}

// guardAttempts counts one code check for userID. A limiter outage lets the check through.
func (uc *twoFactorUsecase) guardAttempts(ctx context.Context, userID string) error {
	if uc.AttemptLimiter == nil {
		return nil
	}
	decision, err := uc.AttemptLimiter.Hit(ctx, constvars.LimiterGroupTwoFactor, userID)
	if err != nil {
		uc.Log.Warn("twoFactorUsecase.guardAttempts limiter unavailable",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Error(err),
		)
		return nil
	}
	if !decision.Allowed {
		utils.LogSecurityEvent(uc.Log, "two_factor_attempts_exceeded", utils.GetRequestID(ctx), "high",
			zap.String(constvars.LoggingUserIDKey, userID),
			zap.Int("retry_after_secs", decision.RetryAfterSecs),
		)
		return exceptions.ErrTooManyAttempts(constvars.LimiterGroupTwoFactor, userID, decision.RetryAfterSecs)
	}
	return nil
}

func (uc *twoFactorUsecase) IsEnabled(ctx context.Context, userID string) (bool, error) {
	credential, err := uc.TwoFactorRepository.FindByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return credential != nil && credential.Enabled, nil
}

// check tries the code as TOTP first and then against the backup codes. It returns the
// method that matched and how many backup codes are left.
func (uc *twoFactorUsecase) check(ctx context.Context, credential *models.TwoFactorCredential, code string) (string, int, error) {
	now := uc.now().UTC()
	remaining := len(credential.BackupCodeHashes)

	if uc.validTOTP(code, credential.Secret) {
		if err := uc.TwoFactorRepository.TouchLastUsed(ctx, credential.UserID, now); err != nil {
			return "", 0, err
		}
		return MethodTOTP, remaining, nil
	}

	normalized := utils.NormalizeBackupCode(code)
	for _, hash := range credential.BackupCodeHashes {
		if !utils.CheckPasswordHash(normalized, hash) {
			continue
		}
		consumed, err := uc.TwoFactorRepository.ConsumeBackupCode(ctx, credential.UserID, hash, now)
		if err != nil {
			return "", 0, err
		}
		if !consumed {
			break
		}
		return MethodBackupCode, remaining - 1, nil
	}
	return "", 0, exceptions.ErrTwoFactorInvalidCode(credential.UserID)
}

func (uc *twoFactorUsecase) validTOTP(code, secret string) bool {
	valid, err := totp.ValidateCustom(code, secret, uc.now().UTC(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && valid
}

func (uc *twoFactorUsecase) issuer() string {
	if uc.InternalConfig != nil && uc.InternalConfig.TwoFactor.Issuer != "" {
		return uc.InternalConfig.TwoFactor.Issuer
	}
	return constvars.TOTPIssuer
}

func (uc *twoFactorUsecase) backupCodeCount() int {
	if uc.InternalConfig != nil && uc.InternalConfig.TwoFactor.BackupCodeCount > 0 {
		return uc.InternalConfig.TwoFactor.BackupCodeCount
	}
	return constvars.DefaultBackupCodes
}
