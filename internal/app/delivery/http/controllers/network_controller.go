package controllers

import (
	"net/http"
	"sync"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/dto/requests"
	"dococlock-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type NetworkController struct {
	Log            *zap.Logger
	NetworkUsecase contracts.NetworkUsecase
}

var (
	networkControllerInstance *NetworkController
	onceNetworkController     sync.Once
)

func NewNetworkController(logger *zap.Logger, networkUsecase contracts.NetworkUsecase) *NetworkController {
	onceNetworkController.Do(func() {
		instance := &NetworkController{
			Log:            logger,
			NetworkUsecase: networkUsecase,
		}
		networkControllerInstance = instance
	})
	return networkControllerInstance
}

func (ctrl *NetworkController) GetStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRequestID(ctrl.Log, w, r); !ok {
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetNetworkStatusSuccessMessage, ctrl.NetworkUsecase.GetStatus(r.Context()))
}

// RecordSample accepts a connectivity reading pushed by a client. Reconnect hooks run before
// the response is written.
func (ctrl *NetworkController) RecordSample(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	request := new(requests.NetworkSample)
	if !decodeAndValidate(ctrl.Log, w, r, requestID, request) {
		return
	}

	response := ctrl.NetworkUsecase.RecordSample(r.Context(), request)

	ctrl.Log.Debug("NetworkController.RecordSample succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Bool(constvars.LoggingIsOnlineKey, response.IsOnline),
		zap.String(constvars.LoggingQualityKey, response.ConnectionQuality),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ObserveNetworkSuccessMessage, response)
}
