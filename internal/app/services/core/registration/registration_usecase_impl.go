package registration

import (
	"context"
	"time"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/dto/requests"
	"dococlock-service/internal/pkg/dto/responses"
	"dococlock-service/internal/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	StepCreateUser        = "create_user"
	StepCreateProfile     = "create_provider_profile"
	StepAssignRole        = "assign_provider_role"
	StepSubmitApplication = "submit_institution_application"
	StepSignIn            = "sign_in"
)

type registrationUsecase struct {
	AuthUsecase                      contracts.AuthUsecase
	ProviderProfileRepository        contracts.ProviderProfileRepository
	UserRoleRepository               contracts.UserRoleRepository
	InstitutionApplicationRepository contracts.InstitutionApplicationRepository
	Log                              *zap.Logger
}

func NewRegistrationUsecase(
	authUsecase contracts.AuthUsecase,
	providerProfileRepository contracts.ProviderProfileRepository,
	userRoleRepository contracts.UserRoleRepository,
	institutionApplicationRepository contracts.InstitutionApplicationRepository,
	logger *zap.Logger,
) contracts.RegistrationUsecase {
	return &registrationUsecase{
		AuthUsecase:                      authUsecase,
		ProviderProfileRepository:        providerProfileRepository,
		UserRoleRepository:               userRoleRepository,
		InstitutionApplicationRepository: institutionApplicationRepository,
		Log:                              logger,
	}
}

func (uc *registrationUsecase) RegisterProvider(ctx context.Context, request *requests.RegisterProvider) (*responses.ProviderRegistration, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("registrationUsecase.RegisterProvider called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	phoneNumber, err := utils.NormalizeZambianPhone(request.PhoneNumber)
	if err != nil {
		phoneNumber = request.PhoneNumber
	}

	saga := NewSaga("provider_registration", uc.Log)
	now := time.Now().UTC()

	var user *models.User
	err = saga.Execute(ctx, StepCreateUser,
		func(ctx context.Context) error {
			var err error
			user, err = uc.AuthUsecase.CreateUser(ctx, request.Email, request.Password, phoneNumber)
			return err
		},
		func(ctx context.Context) error {
			return uc.AuthUsecase.DeleteUser(ctx, user.ID)
		},
	)
	if err != nil {
		return nil, err
	}

	profile := &models.ProviderProfile{
		ID:            uuid.NewString(),
		FullName:      request.FullName,
		PhoneNumber:   phoneNumber,
		Specialty:     request.Specialty,
		LicenseNumber: request.LicenseNumber,
		TimeModel:     models.TimeModel{CreatedAt: now, UpdatedAt: now},
	}
	err = saga.Execute(ctx, StepCreateProfile,
		func(ctx context.Context) error {
			profile.UserID = user.ID
			return uc.ProviderProfileRepository.Insert(ctx, profile)
		},
		func(ctx context.Context) error {
			return uc.ProviderProfileRepository.DeleteByID(ctx, profile.ID)
		},
	)
	if err != nil {
		return nil, err
	}

	role := &models.UserRole{
		ID:        uuid.NewString(),
		Role:      constvars.DocOClockRoleProvider,
		CreatedAt: now,
	}
	err = saga.Execute(ctx, StepAssignRole,
		func(ctx context.Context) error {
			role.UserID = user.ID
			return uc.UserRoleRepository.Insert(ctx, role)
		},
		func(ctx context.Context) error {
			return uc.UserRoleRepository.DeleteByID(ctx, role.ID)
		},
	)
	if err != nil {
		return nil, err
	}

	application := &models.InstitutionApplication{
		ID:              uuid.NewString(),
		ProfileID:       profile.ID,
		InstitutionName: request.InstitutionName,
		LicenseNumber:   request.LicenseNumber,
		Status:          constvars.ApplicationStatusPending,
		TimeModel:       models.TimeModel{CreatedAt: now, UpdatedAt: now},
	}
	err = saga.Execute(ctx, StepSubmitApplication,
		func(ctx context.Context) error {
			application.UserID = user.ID
			return uc.InstitutionApplicationRepository.Insert(ctx, application)
		},
		func(ctx context.Context) error {
			return uc.InstitutionApplicationRepository.DeleteByID(ctx, application.ID)
		},
	)
	if err != nil {
		return nil, err
	}

	var session *models.Session
	err = saga.Execute(ctx, StepSignIn,
		func(ctx context.Context) error {
			var err error
			session, err = uc.AuthUsecase.SignIn(ctx, request.Email, request.Password)
			return err
		},
		nil,
	)
	if err != nil {
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "provider_registered", requestID,
		zap.String(constvars.LoggingUserIDKey, user.ID),
		zap.Strings("saga_steps", saga.Completed),
	)
	return &responses.ProviderRegistration{
		UserID:        user.ID,
		ProfileID:     profile.ID,
		ApplicationID: application.ID,
		Token:         session.Token,
		ExpiresAt:     session.ExpiresAt,
	}, nil
}
