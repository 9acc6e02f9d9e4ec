package wallet

import (
	"context"
	"fmt"
	"time"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	creditDedupTTL   = 7 * 24 * time.Hour
	maxRetryPerSweep = 100
)

type walletService struct {
	publisher contracts.MessagePublisher
	redisRepo contracts.RedisRepository
	queueName string
	Log       *zap.Logger
}

// NewWalletService hands wallet credits to the wallet ledger through queueName. A credit
// is published at most once per reference id; credits that fail to publish are parked in
// Redis until RetryFailed picks them up.
func NewWalletService(publisher contracts.MessagePublisher, redisRepo contracts.RedisRepository, queueName string, logger *zap.Logger) contracts.WalletService {
	return &walletService{
		publisher: publisher,
		redisRepo: redisRepo,
		queueName: queueName,
		Log:       logger,
	}
}

func (s *walletService) CreditWallet(ctx context.Context, credit *models.WalletCredit) error {
	requestID := utils.GetRequestID(ctx)
	s.Log.Info("walletService.CreditWallet called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, credit.ReferenceID),
		zap.String(constvars.LoggingUserIDKey, credit.UserID),
	)

	dedupKey := fmt.Sprintf(constvars.RedisKeyWalletCreditDedup, credit.ReferenceID)
	acquired, err := s.redisRepo.TrySetNX(ctx, dedupKey, credit.CreatedAt, creditDedupTTL)
	if err != nil {
		s.Log.Error("walletService.CreditWallet error calling redisRepo.TrySetNX",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}
	if !acquired {
		s.Log.Info("walletService.CreditWallet credit already issued",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, credit.ReferenceID),
		)
		return nil
	}

	err = s.publisher.Publish(ctx, s.queueName, credit)
	if err != nil {
		s.Log.Error("walletService.CreditWallet publish failed, parking credit",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, credit.ReferenceID),
			zap.Error(err),
		)
		if parkErr := s.park(ctx, credit); parkErr != nil {
			s.Log.Error("walletService.CreditWallet error parking credit",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(parkErr),
			)
			// nothing will replay it, so let a later attempt try again
			if delErr := s.redisRepo.Delete(ctx, dedupKey); delErr != nil {
				s.Log.Error("walletService.CreditWallet error calling redisRepo.Delete, credit is neither parked nor retryable",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.String(constvars.LoggingPaymentIDKey, credit.ReferenceID),
					zap.String(constvars.LoggingUserIDKey, credit.UserID),
					zap.String("dedup_key", dedupKey),
					zap.Error(delErr),
				)
			}
		}
		return err
	}

	s.Log.Info("walletService.CreditWallet succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, credit.ReferenceID),
	)
	return nil
}

// RetryFailed drains the parked credits. It stops at the first publish failure and puts
// that credit back.
func (s *walletService) RetryFailed(ctx context.Context) (int, error) {
	requestID := utils.GetRequestID(ctx)
	s.Log.Info("walletService.RetryFailed called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	published := 0
	for published < maxRetryPerSweep {
		raw, err := s.redisRepo.PopFromList(ctx, constvars.RedisKeyWalletCreditFailed)
		if err != nil {
			s.Log.Error("walletService.RetryFailed error calling redisRepo.PopFromList",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return published, err
		}
		if raw == "" {
			break
		}

		credit := new(models.WalletCredit)
		if err := json.Unmarshal([]byte(raw), credit); err != nil {
			s.Log.Error("walletService.RetryFailed dropping unreadable credit",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingDataKey, raw),
				zap.Error(err),
			)
			continue
		}

		if err := s.publisher.Publish(ctx, s.queueName, credit); err != nil {
			s.Log.Error("walletService.RetryFailed publish failed again",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPaymentIDKey, credit.ReferenceID),
				zap.Error(err),
			)
			if parkErr := s.park(ctx, credit); parkErr != nil {
				return published, parkErr
			}
			return published, err
		}
		published++
	}

	s.Log.Info("walletService.RetryFailed succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("published", published),
	)
	return published, nil
}

func (s *walletService) park(ctx context.Context, credit *models.WalletCredit) error {
	body, err := json.Marshal(credit)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	return s.redisRepo.PushToList(ctx, constvars.RedisKeyWalletCreditFailed, string(body))
}
