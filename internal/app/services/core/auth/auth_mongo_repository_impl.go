package auth

import (
	"context"
	"errors"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserMongoRepository struct {
	Collection *mongo.Collection
}

func NewUserMongoRepository(db *mongo.Client, dbName string) contracts.UserRepository {
	return &UserMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionUsers),
	}
}

func (r *UserMongoRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.Collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &user, nil
}

func (r *UserMongoRepository) Insert(ctx context.Context, user *models.User) error {
	_, err := r.Collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return exceptions.ErrEmailAlreadyExist(user.Email)
		}
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (r *UserMongoRepository) DeleteByID(ctx context.Context, userID string) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	return nil
}

type UserRoleMongoRepository struct {
	Collection *mongo.Collection
}

func NewUserRoleMongoRepository(db *mongo.Client, dbName string) contracts.UserRoleRepository {
	return &UserRoleMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionUserRoles),
	}
}

func (r *UserRoleMongoRepository) Insert(ctx context.Context, role *models.UserRole) error {
	_, err := r.Collection.InsertOne(ctx, role)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (r *UserRoleMongoRepository) FindRolesByUserID(ctx context.Context, userID string) ([]string, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var userRoles []models.UserRole
	if err := cursor.All(ctx, &userRoles); err != nil {
		return nil, exceptions.ErrMongoDBDecodeDocument(err)
	}

	roles := make([]string, 0, len(userRoles))
	for _, userRole := range userRoles {
		roles = append(roles, userRole.Role)
	}
	return roles, nil
}

func (r *UserRoleMongoRepository) DeleteByID(ctx context.Context, roleID string) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": roleID})
	if err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	return nil
}
