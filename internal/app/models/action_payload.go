package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

const (
	ActionTypeUpdatePrescriptionStatus = "UPDATE_PRESCRIPTION_STATUS"
	ActionTypeUpdateAppointmentStatus  = "UPDATE_APPOINTMENT_STATUS"
	ActionTypeSendMessage              = "SEND_MESSAGE"
)

// ActionPayload is the closed set of offline payload shapes. Anything the service does not
// know how to read decodes to OpaquePayload.
type ActionPayload interface {
	actionPayload()
}

type PrescriptionStatusUpdate struct {
	PrescriptionID string `json:"prescription_id"`
	Status         string `json:"status"`
}

type AppointmentStatusUpdate struct {
	AppointmentID string `json:"appointment_id"`
	Status        string `json:"status"`
	Notes         string `json:"notes,omitempty"`
}

type MessageDraft struct {
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	RecipientID    string    `json:"recipient_id"`
	Content        string    `json:"content"`
	SentAt         time.Time `json:"sent_at,omitempty"`
}

type OpaquePayload struct {
	Raw json.RawMessage
}

func (PrescriptionStatusUpdate) actionPayload() {}
func (AppointmentStatusUpdate) actionPayload()  {}
func (MessageDraft) actionPayload()             {}
func (OpaquePayload) actionPayload()            {}

var errMissingPayloadField = errors.New("missing required payload field")

// DecodePayload reads the action data into the variant that matches its type. The target
// id stands in for the record id when the payload leaves it out, and the owner stands in
// for a missing sender.
func DecodePayload(action OfflineAction) (ActionPayload, error) {
	switch action.Type {
	case ActionTypeUpdatePrescriptionStatus:
		var payload PrescriptionStatusUpdate
		if err := decodeData(action.Data, &payload); err != nil {
			return nil, err
		}
		if payload.PrescriptionID == "" {
			payload.PrescriptionID = action.TargetID
		}
		if payload.PrescriptionID == "" || payload.Status == "" {
			return nil, fmt.Errorf("%s: %w", action.Type, errMissingPayloadField)
		}
		return payload, nil
	case ActionTypeUpdateAppointmentStatus:
		var payload AppointmentStatusUpdate
		if err := decodeData(action.Data, &payload); err != nil {
			return nil, err
		}
		if payload.AppointmentID == "" {
			payload.AppointmentID = action.TargetID
		}
		if payload.AppointmentID == "" || payload.Status == "" {
			return nil, fmt.Errorf("%s: %w", action.Type, errMissingPayloadField)
		}
		return payload, nil
	case ActionTypeSendMessage:
		var payload MessageDraft
		if err := decodeData(action.Data, &payload); err != nil {
			return nil, err
		}
		if payload.SenderID == "" {
			payload.SenderID = action.OwnerID
		}
		if payload.SenderID == "" || payload.Content == "" {
			return nil, fmt.Errorf("%s: %w", action.Type, errMissingPayloadField)
		}
		if payload.SentAt.IsZero() {
			payload.SentAt = action.Timestamp
		}
		return payload, nil
	default:
		return OpaquePayload{Raw: action.Data}, nil
	}
}

func decodeData(data json.RawMessage, target interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}
