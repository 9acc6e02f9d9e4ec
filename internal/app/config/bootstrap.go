package config

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Bootstrap struct {
	Router         *chi.Mux
	MongoDB        *mongo.Client
	Redis          *redis.Client
	Logger         *zap.Logger
	RabbitMQ       *amqp091.Connection
	Minio          *minio.Client
	InternalConfig *InternalConfig
	DriverConfig   *DriverConfig
	// ProberStop if set will be called during Shutdown to stop the network prober
	ProberStop func()
	// SweeperStop if set will be called during Shutdown to stop the background sweep
	SweeperStop func()
	// SyncWait if set blocks until an in-flight offline sync pass has finished
	SyncWait func()
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	if b.ProberStop != nil {
		b.ProberStop()
		log.Println("Successfully stopped network prober")
	}

	if b.SweeperStop != nil {
		b.SweeperStop()
		log.Println("Successfully stopped background sweeper")
	}

	if b.SyncWait != nil {
		b.SyncWait()
		log.Println("Successfully waited for offline sync")
	}

	err := b.Redis.Close()
	if err != nil {
		return err
	}
	log.Println("Successfully closing Redis")

	err = b.RabbitMQ.Close()
	if err != nil {
		return err
	}
	log.Println("Successfully closing RabbitMQ")

	err = b.MongoDB.Disconnect(ctx)
	if err != nil {
		return err
	}
	log.Println("Successfully closing MongoDB")

	err = b.Logger.Sync()
	if err != nil {
		return err
	}
	log.Println("Successfully closing Logger")

	return nil
}
