package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

type receiptStorage struct {
	MinioClient   *minio.Client
	BucketName    string
	PresignExpiry time.Duration
	Log           *zap.Logger
}

// receiptDocument is the JSON snapshot archived for a settled payment.
type receiptDocument struct {
	PaymentID         string                      `json:"payment_id"`
	PatientID         string                      `json:"patient_id"`
	PayeeID           string                      `json:"payee_id"`
	Amount            string                      `json:"amount"`
	Currency          string                      `json:"currency"`
	Status            models.PaymentStatus        `json:"status"`
	PaymentMethod     models.PaymentMethod        `json:"payment_method"`
	Purpose           models.PaymentPurpose       `json:"purpose"`
	ExternalPaymentID string                      `json:"external_payment_id,omitempty"`
	RefundAmount      string                      `json:"refund_amount,omitempty"`
	RefundReason      string                      `json:"refund_reason,omitempty"`
	StatusHistory     []models.StatusHistoryEntry `json:"status_history"`
	IssuedAt          time.Time                   `json:"issued_at"`
}

func NewReceiptStorage(minioClient *minio.Client, bucketName string, presignExpiry time.Duration, logger *zap.Logger) contracts.ReceiptStorage {
	return &receiptStorage{
		MinioClient:   minioClient,
		BucketName:    bucketName,
		PresignExpiry: presignExpiry,
		Log:           logger,
	}
}

// StoreReceipt overwrites the receipt of payment, so a refund replaces the completion
// receipt with one that carries the refund.
func (m *receiptStorage) StoreReceipt(ctx context.Context, payment *models.Payment) (string, error) {
	requestID := utils.GetRequestID(ctx)
	objectName := fmt.Sprintf(constvars.MinioReceiptObjectNameFormat, payment.ID)
	m.Log.Info("receiptStorage.StoreReceipt called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, payment.ID),
		zap.String(constvars.LoggingObjectNameKey, objectName),
	)

	receipt := receiptDocument{
		PaymentID:         payment.ID,
		PatientID:         payment.PatientID,
		PayeeID:           payment.PayeeID,
		Amount:            payment.Amount.StringFixed(2),
		Currency:          payment.Currency,
		Status:            payment.Status,
		PaymentMethod:     payment.PaymentMethod,
		Purpose:           payment.Purpose,
		ExternalPaymentID: payment.ExternalPaymentID,
		RefundReason:      payment.RefundReason,
		StatusHistory:     payment.StatusHistory,
		IssuedAt:          time.Now().UTC(),
	}
	if payment.RefundAmount != nil {
		receipt.RefundAmount = payment.RefundAmount.StringFixed(2)
	}

	body, err := json.Marshal(receipt)
	if err != nil {
		return "", exceptions.ErrCannotMarshalJSON(err)
	}

	_, err = m.MinioClient.PutObject(ctx, m.BucketName, objectName, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: constvars.MIMEApplicationJSON,
		UserMetadata: map[string]string{
			"payment-status": string(payment.Status),
		},
	})
	if err != nil {
		m.Log.Error("receiptStorage.StoreReceipt error calling MinioClient.PutObject",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBucketNameKey, m.BucketName),
			zap.Error(err),
		)
		return "", exceptions.ErrMinioCreateObject(err, m.BucketName)
	}

	m.Log.Info("receiptStorage.StoreReceipt succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingObjectNameKey, objectName),
	)
	return objectName, nil
}

func (m *receiptStorage) GetReceiptURL(ctx context.Context, paymentID string) (string, time.Time, error) {
	requestID := utils.GetRequestID(ctx)
	objectName := fmt.Sprintf(constvars.MinioReceiptObjectNameFormat, paymentID)
	m.Log.Info("receiptStorage.GetReceiptURL called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingObjectNameKey, objectName),
	)

	_, err := m.MinioClient.StatObject(ctx, m.BucketName, objectName, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", time.Time{}, exceptions.ErrReceiptNotFound(err, paymentID)
		}
		return "", time.Time{}, exceptions.ErrMinioPresignedURL(err, m.BucketName)
	}

	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=\"receipt-%s.json\"", paymentID))
	presignedURL, err := m.MinioClient.PresignedGetObject(ctx, m.BucketName, objectName, m.PresignExpiry, params)
	if err != nil {
		m.Log.Error("receiptStorage.GetReceiptURL error calling MinioClient.PresignedGetObject",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", time.Time{}, exceptions.ErrMinioPresignedURL(err, m.BucketName)
	}

	return presignedURL.String(), time.Now().Add(m.PresignExpiry), nil
}
