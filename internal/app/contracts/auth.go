package contracts

import (
	"context"

	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/dto/requests"
	"dococlock-service/internal/pkg/dto/responses"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	DeleteByID(ctx context.Context, userID string) error
}

type UserRoleRepository interface {
	Insert(ctx context.Context, role *models.UserRole) error
	FindRolesByUserID(ctx context.Context, userID string) ([]string, error)
	DeleteByID(ctx context.Context, roleID string) error
}

type AuthUsecase interface {
	CreateUser(ctx context.Context, email, password, phoneNumber string) (*models.User, error)
	DeleteUser(ctx context.Context, userID string) error
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	Login(ctx context.Context, request *requests.Login) (*responses.Login, error)
}
