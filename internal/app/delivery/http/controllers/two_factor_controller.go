package controllers

import (
	"context"
	"net/http"
	"sync"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/dto/requests"
	"dococlock-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type TwoFactorController struct {
	Log              *zap.Logger
	TwoFactorUsecase contracts.TwoFactorUsecase
}

var (
	twoFactorControllerInstance *TwoFactorController
	onceTwoFactorController     sync.Once
)

func NewTwoFactorController(logger *zap.Logger, twoFactorUsecase contracts.TwoFactorUsecase) *TwoFactorController {
	onceTwoFactorController.Do(func() {
		instance := &TwoFactorController{
			Log:              logger,
			TwoFactorUsecase: twoFactorUsecase,
		}
		twoFactorControllerInstance = instance
	})
	return twoFactorControllerInstance
}

func (ctrl *TwoFactorController) Setup(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	userID := utils.GetUserID(r.Context())
	response, err := ctrl.TwoFactorUsecase.Setup(ctx, userID)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, requestID, "TwoFactorSetup", err)
		return
	}

	utils.LogSecurityEvent(ctrl.Log, "two_factor_setup_started", requestID, "info",
		zap.String(constvars.LoggingUserIDKey, userID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.TwoFactorSetupSuccessMessage, response)
}

func (ctrl *TwoFactorController) VerifySetup(w http.ResponseWriter, r *http.Request) {
	requestID, request, ok := ctrl.codeRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	if err := ctrl.TwoFactorUsecase.VerifySetup(ctx, request); err != nil {
		writeUsecaseError(ctrl.Log, w, requestID, "TwoFactorVerifySetup", err)
		return
	}

	utils.LogSecurityEvent(ctrl.Log, "two_factor_enabled", requestID, "info",
		zap.String(constvars.LoggingUserIDKey, request.UserID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.TwoFactorEnabledSuccessMessage, nil)
}

func (ctrl *TwoFactorController) Verify(w http.ResponseWriter, r *http.Request) {
	requestID, request, ok := ctrl.codeRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	response, err := ctrl.TwoFactorUsecase.Verify(ctx, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, requestID, "TwoFactorVerify", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.TwoFactorVerifiedSuccessMessage, response)
}

func (ctrl *TwoFactorController) Disable(w http.ResponseWriter, r *http.Request) {
	requestID, request, ok := ctrl.codeRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	if err := ctrl.TwoFactorUsecase.Disable(ctx, request); err != nil {
		writeUsecaseError(ctrl.Log, w, requestID, "TwoFactorDisable", err)
		return
	}

	utils.LogSecurityEvent(ctrl.Log, "two_factor_disabled", requestID, "medium",
		zap.String(constvars.LoggingUserIDKey, request.UserID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.TwoFactorDisabledSuccessMessage, nil)
}

func (ctrl *TwoFactorController) codeRequest(w http.ResponseWriter, r *http.Request) (string, *requests.TwoFactorCode, bool) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return "", nil, false
	}
	request := new(requests.TwoFactorCode)
	if !decodeAndValidate(ctrl.Log, w, r, requestID, request) {
		return "", nil, false
	}
	request.UserID = utils.GetUserID(r.Context())
	return requestID, request, true
}
