package offlinesync

import (
	"context"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/dto/requests"
	"dococlock-service/internal/pkg/dto/responses"
)

type networkUsecase struct {
	Monitor contracts.NetworkMonitor
}

func NewNetworkUsecase(monitor contracts.NetworkMonitor) contracts.NetworkUsecase {
	return &networkUsecase{Monitor: monitor}
}

func (uc *networkUsecase) GetStatus(ctx context.Context) *responses.NetworkStatus {
	return toNetworkStatusResponse(uc.Monitor.State())
}

// RecordSample feeds a client-reported reading into the monitor.
func (uc *networkUsecase) RecordSample(ctx context.Context, request *requests.NetworkSample) *responses.NetworkStatus {
	state := uc.Monitor.Observe(ctx, models.NetworkSample{
		IsOnline:      request.IsOnline != nil && *request.IsOnline,
		EffectiveType: models.EffectiveType(request.EffectiveType),
		Downlink:      request.Downlink,
		RTT:           request.RTT,
	})
	return toNetworkStatusResponse(state)
}

func toNetworkStatusResponse(state models.NetworkState) *responses.NetworkStatus {
	return &responses.NetworkStatus{
		IsOnline:          state.IsOnline,
		EffectiveType:     string(state.EffectiveType),
		Downlink:          state.Downlink,
		RTT:               state.RTT,
		ConnectionQuality: string(state.ConnectionQuality),
		UpdatedAt:         state.UpdatedAt,
	}
}
