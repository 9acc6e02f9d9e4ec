package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/dto/requests"
	"dococlock-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentController struct {
	Log            *zap.Logger
	PaymentUsecase contracts.PaymentUsecase
}

var (
	paymentControllerInstance *PaymentController
	oncePaymentController     sync.Once
)

func NewPaymentController(logger *zap.Logger, paymentUsecase contracts.PaymentUsecase) *PaymentController {
	oncePaymentController.Do(func() {
		instance := &PaymentController{
			Log:            logger,
			PaymentUsecase: paymentUsecase,
		}
		paymentControllerInstance = instance
	})
	return paymentControllerInstance
}

func (ctrl *PaymentController) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	request := new(requests.InitiatePayment)
	if !decodeAndValidate(ctrl.Log, w, r, requestID, request) {
		return
	}
	request.PatientID = utils.GetUserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	response, err := ctrl.PaymentUsecase.InitiatePayment(ctx, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, requestID, "InitiatePayment", err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "payment_initiated", requestID,
		zap.String(constvars.LoggingPaymentIDKey, response.Payment.ID),
		zap.String(constvars.LoggingPaymentMethodKey, request.PaymentMethod),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.InitiatePaymentSuccessMessage, response)
}

func (ctrl *PaymentController) GetPayment(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	response, err := ctrl.PaymentUsecase.GetPayment(ctx, chi.URLParam(r, constvars.URLParamPaymentID))
	if err != nil {
		writeUsecaseError(ctrl.Log, w, requestID, "GetPayment", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetPaymentSuccessMessage, response)
}

func (ctrl *PaymentController) CapturePayment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	// the body is optional, gateways that keep their own reference need nothing from the client
	request := new(requests.CapturePayment)
	if r.ContentLength != 0 && !decodeAndValidate(ctrl.Log, w, r, requestID, request) {
		return
	}
	request.PaymentID = chi.URLParam(r, constvars.URLParamPaymentID)

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	response, err := ctrl.PaymentUsecase.CapturePayment(ctx, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, requestID, "CapturePayment", err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "payment_capture_requested", requestID,
		zap.String(constvars.LoggingPaymentIDKey, response.ID),
		zap.String(constvars.LoggingPaymentStatusKey, response.Status),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CapturePaymentSuccessMessage, response)
}

func (ctrl *PaymentController) RefundPayment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	request := new(requests.RefundPayment)
	if !decodeAndValidate(ctrl.Log, w, r, requestID, request) {
		return
	}
	request.PaymentID = chi.URLParam(r, constvars.URLParamPaymentID)

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	response, err := ctrl.PaymentUsecase.RefundPayment(ctx, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, requestID, "RefundPayment", err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "payment_refunded", requestID,
		zap.String(constvars.LoggingPaymentIDKey, response.ID),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RefundPaymentSuccessMessage, response)
}

func (ctrl *PaymentController) GetPaymentReceipt(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	response, err := ctrl.PaymentUsecase.GetPaymentReceipt(ctx, chi.URLParam(r, constvars.URLParamPaymentID))
	if err != nil {
		writeUsecaseError(ctrl.Log, w, requestID, "GetPaymentReceipt", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetReceiptSuccessMessage, response)
}

func (ctrl *PaymentController) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	utils.LogSecurityEvent(ctrl.Log, "payment_callback_received", requestID, "info",
		zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
		zap.String(constvars.LoggingUserAgentKey, r.UserAgent()),
	)

	request := new(requests.PaymentCallback)
	if !decodeAndValidate(ctrl.Log, w, r, requestID, request) {
		return
	}
	request.PaymentMethod = chi.URLParam(r, constvars.URLParamPaymentMethod)

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	response, err := ctrl.PaymentUsecase.HandleCallback(ctx, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, requestID, "HandleCallback", err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "payment_callback_processed", requestID,
		zap.String(constvars.LoggingPaymentIDKey, response.ID),
		zap.String(constvars.LoggingPaymentStatusKey, response.Status),
		zap.String(constvars.LoggingPaymentMethodKey, request.PaymentMethod),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PaymentCallbackSuccessMessage, response)
}
