package offlinesync

import (
	"context"
	"fmt"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoActionHandlers replays offline actions against the clinical collections. Status
// updates only apply when they are newer than what is stored and messages are keyed by
// action id, so replaying a pass is harmless. Every write is limited to records the
// action's owner takes part in.
type MongoActionHandlers struct {
	Prescriptions *mongo.Collection
	Appointments  *mongo.Collection
	Messages      *mongo.Collection
	Log           *zap.Logger
}

func NewMongoActionHandlers(db *mongo.Client, dbName string, logger *zap.Logger) *MongoActionHandlers {
	database := db.Database(dbName)
	return &MongoActionHandlers{
		Prescriptions: database.Collection(constvars.MongoCollectionPrescriptions),
		Appointments:  database.Collection(constvars.MongoCollectionAppointments),
		Messages:      database.Collection(constvars.MongoCollectionMessages),
		Log:           logger,
	}
}

// RegisterAll binds every built-in action type on the coordinator.
func (h *MongoActionHandlers) RegisterAll(coordinator *SyncCoordinator) {
	coordinator.Register(models.ActionTypeUpdatePrescriptionStatus, contracts.ActionHandlerFunc(h.UpdatePrescriptionStatus))
	coordinator.Register(models.ActionTypeUpdateAppointmentStatus, contracts.ActionHandlerFunc(h.UpdateAppointmentStatus))
	coordinator.Register(models.ActionTypeSendMessage, contracts.ActionHandlerFunc(h.SendMessage))
}

func (h *MongoActionHandlers) UpdatePrescriptionStatus(ctx context.Context, action models.OfflineAction) error {
	payload, err := decode[models.PrescriptionStatusUpdate](action)
	if err != nil {
		return err
	}

	set := bson.M{
		"status":     payload.Status,
		"updated_at": action.Timestamp,
		"updated_by": action.OwnerID,
	}
	return h.applyIfNewer(ctx, h.Prescriptions, ownedUpdateFilter(payload.PrescriptionID, action, "patient_id", "prescriber_id"), action, set)
}

func (h *MongoActionHandlers) UpdateAppointmentStatus(ctx context.Context, action models.OfflineAction) error {
	payload, err := decode[models.AppointmentStatusUpdate](action)
	if err != nil {
		return err
	}

	set := bson.M{
		"status":     payload.Status,
		"updated_at": action.Timestamp,
		"updated_by": action.OwnerID,
	}
	if payload.Notes != "" {
		set["notes"] = payload.Notes
	}
	return h.applyIfNewer(ctx, h.Appointments, ownedUpdateFilter(payload.AppointmentID, action, "patient_id", "provider_id"), action, set)
}

func (h *MongoActionHandlers) SendMessage(ctx context.Context, action models.OfflineAction) error {
	payload, err := decode[models.MessageDraft](action)
	if err != nil {
		return err
	}
	if err := checkSender(action, payload); err != nil {
		return err
	}

	_, err = h.Messages.UpdateOne(ctx,
		bson.M{"_id": action.ID},
		bson.M{"$setOnInsert": bson.M{
			"conversation_id": payload.ConversationID,
			"sender_id":       payload.SenderID,
			"recipient_id":    payload.RecipientID,
			"content":         payload.Content,
			"sent_at":         payload.SentAt,
			"created_at":      action.Timestamp,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}

	h.Log.Info("mongoActionHandlers.SendMessage succeeded",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingActionIDKey, action.ID),
	)
	return nil
}

// checkSender refuses a message drafted on behalf of someone other than the owner.
func checkSender(action models.OfflineAction, payload models.MessageDraft) error {
	if payload.SenderID != action.OwnerID {
		return exceptions.ErrOfflineActionNotOwned(action.ID, payload.SenderID, action.OwnerID)
	}
	return nil
}

// ownedUpdateFilter matches record id when it was last touched no later than the action
// was captured and the owner is named in one of ownerFields.
func ownedUpdateFilter(id string, action models.OfflineAction, ownerFields ...string) bson.M {
	owners := make([]bson.M, 0, len(ownerFields))
	for _, field := range ownerFields {
		owners = append(owners, bson.M{field: action.OwnerID})
	}
	return bson.M{
		"_id": id,
		"$and": []bson.M{
			{"$or": []bson.M{
				{"updated_at": bson.M{"$exists": false}},
				{"updated_at": bson.M{"$lte": action.Timestamp}},
			}},
			{"$or": owners},
		},
	}
}

// applyIfNewer writes set only where filter matches. A missing, newer or foreign record is
// left alone and counts as done.
func (h *MongoActionHandlers) applyIfNewer(ctx context.Context, collection *mongo.Collection, filter bson.M, action models.OfflineAction, set bson.M) error {
	result, err := collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}

	if result.MatchedCount == 0 {
		h.Log.Warn("mongoActionHandlers.applyIfNewer skipped stale, missing or foreign record",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingActionIDKey, action.ID),
			zap.String(constvars.LoggingActionTypeKey, action.Type),
			zap.String(constvars.LoggingUserIDKey, action.OwnerID),
			zap.String("collection", collection.Name()),
		)
		return nil
	}

	h.Log.Info("mongoActionHandlers.applyIfNewer succeeded",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingActionIDKey, action.ID),
		zap.String(constvars.LoggingActionTypeKey, action.Type),
	)
	return nil
}

func decode[T models.ActionPayload](action models.OfflineAction) (T, error) {
	var zero T
	payload, err := models.DecodePayload(action)
	if err != nil {
		return zero, exceptions.ErrOfflineActionPayload(err, action.ID)
	}
	typed, ok := payload.(T)
	if !ok {
		return zero, exceptions.ErrOfflineActionPayload(fmt.Errorf("unexpected payload %T", payload), action.ID)
	}
	return typed, nil
}
