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

type AuthController struct {
	Log                 *zap.Logger
	AuthUsecase         contracts.AuthUsecase
	RegistrationUsecase contracts.RegistrationUsecase
}

var (
	authControllerInstance *AuthController
	onceAuthController     sync.Once
)

func NewAuthController(logger *zap.Logger, authUsecase contracts.AuthUsecase, registrationUsecase contracts.RegistrationUsecase) *AuthController {
	onceAuthController.Do(func() {
		instance := &AuthController{
			Log:                 logger,
			AuthUsecase:         authUsecase,
			RegistrationUsecase: registrationUsecase,
		}
		authControllerInstance = instance
	})
	return authControllerInstance
}

func (ctrl *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	request := new(requests.Login)
	if !decodeAndValidate(ctrl.Log, w, r, requestID, request) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	response, err := ctrl.AuthUsecase.Login(ctx, request)
	if err != nil {
		utils.LogSecurityEvent(ctrl.Log, "login_rejected", requestID, "medium",
			zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
		)
		writeUsecaseError(ctrl.Log, w, requestID, "Login", err)
		return
	}

	utils.LogSecurityEvent(ctrl.Log, "login_succeeded", requestID, "info",
		zap.String(constvars.LoggingUserIDKey, response.UserID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LoginSuccessMessage, response)
}

func (ctrl *AuthController) RegisterProvider(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	request := new(requests.RegisterProvider)
	if !decodeAndValidate(ctrl.Log, w, r, requestID, request) {
		return
	}

	// the saga may need to compensate several steps after a late failure
	ctx, cancel := context.WithTimeout(r.Context(), 3*usecaseTimeout)
	defer cancel()

	response, err := ctrl.RegistrationUsecase.RegisterProvider(ctx, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, requestID, "RegisterProvider", err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "provider_registered", requestID,
		zap.String(constvars.LoggingUserIDKey, response.UserID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.RegisterProviderSuccessMessage, response)
}
