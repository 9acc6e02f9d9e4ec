package auth

import (
	"context"
	"strings"
	"time"

	"dococlock-service/internal/app/config"
	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/dto/requests"
	"dococlock-service/internal/pkg/dto/responses"
	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type authUsecase struct {
	UserRepository     contracts.UserRepository
	UserRoleRepository contracts.UserRoleRepository
	TwoFactorUsecase   contracts.TwoFactorUsecase
	InternalConfig     *config.InternalConfig
	Log                *zap.Logger
}

func NewAuthUsecase(
	userRepository contracts.UserRepository,
	userRoleRepository contracts.UserRoleRepository,
	twoFactorUsecase contracts.TwoFactorUsecase,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AuthUsecase {
	return &authUsecase{
		UserRepository:     userRepository,
		UserRoleRepository: userRoleRepository,
		TwoFactorUsecase:   twoFactorUsecase,
		InternalConfig:     internalConfig,
		Log:                logger,
	}
}

func (uc *authUsecase) CreateUser(ctx context.Context, email, password, phoneNumber string) (*models.User, error) {
	requestID := utils.GetRequestID(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := uc.UserRepository.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, exceptions.ErrEmailAlreadyExist(email)
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, exceptions.ErrHashPassword(err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:          uuid.NewString(),
		Email:       email,
		Password:    hashedPassword,
		PhoneNumber: phoneNumber,
		TimeModel:   models.TimeModel{CreatedAt: now, UpdatedAt: now},
	}
	err = uc.UserRepository.Insert(ctx, user)
	if err != nil {
		uc.Log.Error("authUsecase.CreateUser error inserting user",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("authUsecase.CreateUser succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, user.ID),
	)
	return user, nil
}

func (uc *authUsecase) DeleteUser(ctx context.Context, userID string) error {
	return uc.UserRepository.DeleteByID(ctx, userID)
}

// SignIn checks the password and issues a session token. It does not look at two-factor;
// Login does.
func (uc *authUsecase) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	user, err := uc.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return uc.issueSession(ctx, user.ID)
}

func (uc *authUsecase) Login(ctx context.Context, request *requests.Login) (*responses.Login, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("authUsecase.Login called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	user, err := uc.authenticate(ctx, request.Email, request.Password)
	if err != nil {
		return nil, err
	}

	enabled, err := uc.TwoFactorUsecase.IsEnabled(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if enabled {
		if request.Code == "" {
			return nil, exceptions.ErrTwoFactorInvalidCode(user.ID)
		}
		_, err = uc.TwoFactorUsecase.Verify(ctx, &requests.TwoFactorCode{UserID: user.ID, Code: request.Code})
		if err != nil {
			return nil, err
		}
	}

	session, err := uc.issueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "user_logged_in", requestID,
		zap.String(constvars.LoggingUserIDKey, user.ID),
		zap.Bool("two_factor", enabled),
	)
	return &responses.Login{
		UserID:    session.UserID,
		Roles:     session.Roles,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (uc *authUsecase) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := uc.UserRepository.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPasswordHash(password, user.Password) {
		utils.LogSecurityEvent(uc.Log, "invalid_credentials", utils.GetRequestID(ctx), "low")
		return nil, exceptions.ErrInvalidCredentials(email)
	}
	return user, nil
}

func (uc *authUsecase) issueSession(ctx context.Context, userID string) (*models.Session, error) {
	roles, err := uc.UserRoleRepository.FindRolesByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := utils.GenerateSessionJWT(userID, roles, uc.InternalConfig.JWT.Secret, uc.InternalConfig.JWT.ExpTimeInHour)
	if err != nil {
		return nil, exceptions.ErrTokenGenerate(err)
	}

	return &models.Session{
		UserID:    userID,
		Roles:     roles,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
