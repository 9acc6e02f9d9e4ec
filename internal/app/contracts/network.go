package contracts

import (
	"context"

	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/dto/requests"
	"dococlock-service/internal/pkg/dto/responses"
)

type NetworkMonitor interface {
	Observe(ctx context.Context, sample models.NetworkSample) models.NetworkState
	State() models.NetworkState
	Subscribe(listener func(models.NetworkEvent)) (unsubscribe func())
	// OnReconnect registers a hook run each time connectivity flips from offline to online.
	OnReconnect(hook func(ctx context.Context))
}

type NetworkUsecase interface {
	GetStatus(ctx context.Context) *responses.NetworkStatus
	RecordSample(ctx context.Context, request *requests.NetworkSample) *responses.NetworkStatus
}
