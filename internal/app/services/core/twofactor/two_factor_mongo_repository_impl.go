package twofactor

import (
	"context"
	"errors"
	"time"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TwoFactorMongoRepository struct {
	Collection *mongo.Collection
}

func NewTwoFactorMongoRepository(db *mongo.Client, dbName string) contracts.TwoFactorRepository {
	return &TwoFactorMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionTwoFactor),
	}
}

func (r *TwoFactorMongoRepository) FindByUserID(ctx context.Context, userID string) (*models.TwoFactorCredential, error) {
	var credential models.TwoFactorCredential
	err := r.Collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&credential)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &credential, nil
}

func (r *TwoFactorMongoRepository) Upsert(ctx context.Context, credential *models.TwoFactorCredential) error {
	_, err := r.Collection.ReplaceOne(ctx,
		bson.M{"_id": credential.UserID},
		credential,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *TwoFactorMongoRepository) Enable(ctx context.Context, userID string, enabledAt time.Time) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"enabled": true, "updatedAt": enabledAt}},
	)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

// ConsumeBackupCode only matches while codeHash is still in the array, so of two
// concurrent uses of the same code exactly one wins.
func (r *TwoFactorMongoRepository) ConsumeBackupCode(ctx context.Context, userID, codeHash string, usedAt time.Time) (bool, error) {
	result, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": userID, "backupCodeHashes": codeHash},
		bson.M{
			"$pull": bson.M{"backupCodeHashes": codeHash},
			"$set":  bson.M{"lastUsedAt": usedAt, "updatedAt": usedAt},
		},
	)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *TwoFactorMongoRepository) TouchLastUsed(ctx context.Context, userID string, usedAt time.Time) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"lastUsedAt": usedAt, "updatedAt": usedAt}},
	)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *TwoFactorMongoRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	return nil
}
