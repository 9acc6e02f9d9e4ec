package main

import (
	"context"
	"time"

	"dococlock-service/internal/app/config"
	"dococlock-service/internal/app/drivers/database"
	"dococlock-service/internal/app/drivers/logger"
	"dococlock-service/internal/pkg/constvars"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type collectionIndexes struct {
	collection string
	indexes    []mongo.IndexModel
}

var indexPlan = []collectionIndexes{
	{
		collection: constvars.MongoCollectionPayments,
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "external_payment_id", Value: 1}}, Options: options.Index().SetSparse(true)},
			{Keys: bson.D{{Key: "patient_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
	},
	{
		collection: constvars.MongoCollectionUsers,
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	},
	{
		collection: constvars.MongoCollectionUserRoles,
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "role", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	},
	{
		collection: constvars.MongoCollectionProviderProfiles,
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	},
	{
		collection: constvars.MongoCollectionInstitutionApplications,
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
	},
}

func main() {
	_ = godotenv.Load()

	driverConfig := config.NewDriverConfig()
	internalConfig, err := config.NewInternalConfig()
	if err != nil {
		logrus.Fatalf("Error loading internal config: %v", err)
	}
	log := logger.NewLogrusLogger(internalConfig.App.Env, driverConfig.Logger)

	client := database.NewMongoDB(driverConfig)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	defer client.Disconnect(ctx)

	n, err := Run(ctx, client.Database(internalConfig.MongoDB.DBName), log)
	if err != nil {
		log.Fatalf("Error executing migration: %v", err)
	}

	log.Infof("Applied %d indexes!", n)
}

// Run creates every index in indexPlan. CreateMany is a no-op for indexes that already exist
// with the same options, so Run is safe to repeat.
func Run(ctx context.Context, db *mongo.Database, log *logrus.Logger) (int, error) {
	applied := 0
	for _, plan := range indexPlan {
		names, err := db.Collection(plan.collection).Indexes().CreateMany(ctx, plan.indexes)
		if err != nil {
			return applied, err
		}
		log.WithFields(logrus.Fields{
			"collection": plan.collection,
			"indexes":    names,
		}).Info("Indexes ensured")
		applied += len(names)
	}
	return applied, nil
}
