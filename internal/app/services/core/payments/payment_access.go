package payments

import (
	"context"

	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type paymentAccess string

const (
	accessView    paymentAccess = "view"
	accessCapture paymentAccess = "capture"
	accessRefund  paymentAccess = "refund"
)

// mayAccess: the patient views and captures, the payee views and refunds, admins do
// anything.
func mayAccess(ctx context.Context, payment *models.Payment, access paymentAccess) bool {
	if utils.HasRole(ctx, constvars.DocOClockRoleAdmin) {
		return true
	}

	userID := utils.GetUserID(ctx)
	if userID == "" {
		return false
	}
	switch access {
	case accessView:
		return userID == payment.PatientID || userID == payment.PayeeID
	case accessCapture:
		return userID == payment.PatientID
	case accessRefund:
		return userID == payment.PayeeID
	default:
		return false
	}
}

// authorize answers not found for a payment the caller has no part in, so ids cannot be
// enumerated.
func (uc *paymentUsecase) authorize(ctx context.Context, payment *models.Payment, access paymentAccess) error {
	if mayAccess(ctx, payment, access) {
		return nil
	}

	utils.LogSecurityEvent(uc.Log, "payment_access_denied", utils.GetRequestID(ctx), "medium",
		zap.String(constvars.LoggingUserIDKey, utils.GetUserID(ctx)),
		zap.Strings("roles", utils.GetUserRoles(ctx)),
		zap.String(constvars.LoggingPaymentIDKey, payment.ID),
		zap.String("access", string(access)),
	)
	return exceptions.ErrPaymentNotFound(nil, payment.ID)
}
