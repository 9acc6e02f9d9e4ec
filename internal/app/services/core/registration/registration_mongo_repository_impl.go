package registration

import (
	"context"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProviderProfileMongoRepository struct {
	Collection *mongo.Collection
}

func NewProviderProfileMongoRepository(db *mongo.Client, dbName string) contracts.ProviderProfileRepository {
	return &ProviderProfileMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionProviderProfiles),
	}
}

func (r *ProviderProfileMongoRepository) Insert(ctx context.Context, profile *models.ProviderProfile) error {
	_, err := r.Collection.InsertOne(ctx, profile)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (r *ProviderProfileMongoRepository) DeleteByID(ctx context.Context, profileID string) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": profileID})
	if err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	return nil
}

type InstitutionApplicationMongoRepository struct {
	Collection *mongo.Collection
}

func NewInstitutionApplicationMongoRepository(db *mongo.Client, dbName string) contracts.InstitutionApplicationRepository {
	return &InstitutionApplicationMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionInstitutionApplications),
	}
}

func (r *InstitutionApplicationMongoRepository) Insert(ctx context.Context, application *models.InstitutionApplication) error {
	_, err := r.Collection.InsertOne(ctx, application)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (r *InstitutionApplicationMongoRepository) DeleteByID(ctx context.Context, applicationID string) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": applicationID})
	if err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	return nil
}
