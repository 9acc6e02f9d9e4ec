package contracts

import (
	"context"

	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/dto/requests"
	"dococlock-service/internal/pkg/dto/responses"
)

type ProviderProfileRepository interface {
	Insert(ctx context.Context, profile *models.ProviderProfile) error
	DeleteByID(ctx context.Context, profileID string) error
}

type InstitutionApplicationRepository interface {
	Insert(ctx context.Context, application *models.InstitutionApplication) error
	DeleteByID(ctx context.Context, applicationID string) error
}

type RegistrationUsecase interface {
	RegisterProvider(ctx context.Context, request *requests.RegisterProvider) (*responses.ProviderRegistration, error)
}
