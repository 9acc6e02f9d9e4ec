package payments

import (
	"context"
	"errors"
	"time"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PaymentMongoRepository struct {
	Collection *mongo.Collection
}

func NewPaymentMongoRepository(db *mongo.Client, dbName string) contracts.PaymentRepository {
	return &PaymentMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionPayments),
	}
}

type statusHistoryDocument struct {
	Status    string    `bson:"status"`
	Timestamp time.Time `bson:"timestamp"`
	Reason    string    `bson:"reason,omitempty"`
	UpdatedBy string    `bson:"updated_by,omitempty"`
}

type paymentDocument struct {
	ID                  string                  `bson:"_id"`
	PatientID           string                  `bson:"patient_id"`
	PayeeID             string                  `bson:"payee_id"`
	Amount              primitive.Decimal128    `bson:"amount"`
	Currency            string                  `bson:"currency"`
	Status              string                  `bson:"status"`
	PaymentMethod       string                  `bson:"payment_method"`
	Purpose             string                  `bson:"purpose"`
	Description         string                  `bson:"description,omitempty"`
	ExternalPaymentID   string                  `bson:"external_payment_id,omitempty"`
	PhoneNumber         string                  `bson:"phone_number,omitempty"`
	MobileMoneyProvider string                  `bson:"mobile_money_provider,omitempty"`
	StatusHistory       []statusHistoryDocument `bson:"status_history"`
	RefundAmount        *primitive.Decimal128   `bson:"refund_amount,omitempty"`
	RefundReason        string                  `bson:"refund_reason,omitempty"`
	WalletCredited      bool                    `bson:"wallet_credited"`
	CreatedAt           time.Time               `bson:"created_at"`
	UpdatedAt           time.Time               `bson:"updated_at"`
}

func (r *PaymentMongoRepository) Insert(ctx context.Context, payment *models.Payment) error {
	document, err := toPaymentDocument(payment)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	_, err = r.Collection.InsertOne(ctx, document)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (r *PaymentMongoRepository) FindByID(ctx context.Context, paymentID string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"_id": paymentID})
}

func (r *PaymentMongoRepository) FindByExternalID(ctx context.Context, externalPaymentID string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"external_payment_id": externalPaymentID})
}

func (r *PaymentMongoRepository) findOne(ctx context.Context, filter bson.M) (*models.Payment, error) {
	var document paymentDocument
	err := r.Collection.FindOne(ctx, filter).Decode(&document)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}

	payment, err := document.toModel()
	if err != nil {
		return nil, exceptions.ErrMongoDBDecodeDocument(err)
	}
	return payment, nil
}

// ApplyTransition matches on the observed status and history length so two writers that
// read the same version cannot both append.
func (r *PaymentMongoRepository) ApplyTransition(ctx context.Context, update *models.PaymentUpdate) (bool, error) {
	filter := bson.M{
		"_id":            update.PaymentID,
		"status":         string(update.ExpectedStatus),
		"status_history": bson.M{"$size": update.ExpectedHistoryLength},
	}

	set := bson.M{
		"status":     string(update.Status),
		"updated_at": update.UpdatedAt,
	}
	if update.RefundAmount != nil {
		refundAmount, err := primitive.ParseDecimal128(update.RefundAmount.String())
		if err != nil {
			return false, exceptions.ErrMongoDBUpdateDocument(err)
		}
		set["refund_amount"] = refundAmount
		set["refund_reason"] = update.RefundReason
	}

	result, err := r.Collection.UpdateOne(ctx, filter, bson.M{
		"$set":  set,
		"$push": bson.M{"status_history": toStatusHistoryDocument(update.Entry)},
	})
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount == 1, nil
}

func (r *PaymentMongoRepository) SetExternalPaymentID(ctx context.Context, paymentID, externalPaymentID string) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": paymentID},
		bson.M{"$set": bson.M{"external_payment_id": externalPaymentID}},
	)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *PaymentMongoRepository) MarkWalletCredited(ctx context.Context, paymentID string) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": paymentID},
		bson.M{"$set": bson.M{"wallet_credited": true}},
	)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

// FindUncreditedTopUps also matches documents written before wallet_credited existed.
func (r *PaymentMongoRepository) FindUncreditedTopUps(ctx context.Context, limit int) ([]*models.Payment, error) {
	filter := bson.M{
		"purpose":         string(models.PaymentPurposeWalletTopUp),
		"status":          string(models.PaymentStatusCompleted),
		"wallet_credited": bson.M{"$ne": true},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "updated_at", Value: 1}}).SetLimit(int64(limit))

	cursor, err := r.Collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var documents []paymentDocument
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, exceptions.ErrMongoDBDecodeDocument(err)
	}

	payments := make([]*models.Payment, 0, len(documents))
	for i := range documents {
		payment, err := documents[i].toModel()
		if err != nil {
			return nil, exceptions.ErrMongoDBDecodeDocument(err)
		}
		payments = append(payments, payment)
	}
	return payments, nil
}

func toStatusHistoryDocument(entry models.StatusHistoryEntry) statusHistoryDocument {
	return statusHistoryDocument{
		Status:    string(entry.Status),
		Timestamp: entry.Timestamp,
		Reason:    entry.Reason,
		UpdatedBy: entry.UpdatedBy,
	}
}

func toPaymentDocument(payment *models.Payment) (*paymentDocument, error) {
	amount, err := primitive.ParseDecimal128(payment.Amount.String())
	if err != nil {
		return nil, err
	}

	document := &paymentDocument{
		ID:                  payment.ID,
		PatientID:           payment.PatientID,
		PayeeID:             payment.PayeeID,
		Amount:              amount,
		Currency:            payment.Currency,
		Status:              string(payment.Status),
		PaymentMethod:       string(payment.PaymentMethod),
		Purpose:             string(payment.Purpose),
		Description:         payment.Description,
		ExternalPaymentID:   payment.ExternalPaymentID,
		PhoneNumber:         payment.PhoneNumber,
		MobileMoneyProvider: string(payment.MobileMoneyProvider),
		RefundReason:        payment.RefundReason,
		WalletCredited:      payment.WalletCredited,
		CreatedAt:           payment.CreatedAt,
		UpdatedAt:           payment.UpdatedAt,
	}
	for _, entry := range payment.StatusHistory {
		document.StatusHistory = append(document.StatusHistory, toStatusHistoryDocument(entry))
	}
	if payment.RefundAmount != nil {
		refundAmount, err := primitive.ParseDecimal128(payment.RefundAmount.String())
		if err != nil {
			return nil, err
		}
		document.RefundAmount = &refundAmount
	}
	return document, nil
}

func (d *paymentDocument) toModel() (*models.Payment, error) {
	amount, err := decimal.NewFromString(d.Amount.String())
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:                  d.ID,
		PatientID:           d.PatientID,
		PayeeID:             d.PayeeID,
		Amount:              amount,
		Currency:            d.Currency,
		Status:              models.PaymentStatus(d.Status),
		PaymentMethod:       models.PaymentMethod(d.PaymentMethod),
		Purpose:             models.PaymentPurpose(d.Purpose),
		Description:         d.Description,
		ExternalPaymentID:   d.ExternalPaymentID,
		PhoneNumber:         d.PhoneNumber,
		MobileMoneyProvider: models.MobileMoneyProvider(d.MobileMoneyProvider),
		RefundReason:        d.RefundReason,
		WalletCredited:      d.WalletCredited,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
	for _, entry := range d.StatusHistory {
		payment.StatusHistory = append(payment.StatusHistory, models.StatusHistoryEntry{
			Status:    models.PaymentStatus(entry.Status),
			Timestamp: entry.Timestamp,
			Reason:    entry.Reason,
			UpdatedBy: entry.UpdatedBy,
		})
	}
	if d.RefundAmount != nil {
		refundAmount, err := decimal.NewFromString(d.RefundAmount.String())
		if err != nil {
			return nil, err
		}
		payment.RefundAmount = &refundAmount
	}
	return payment, nil
}
