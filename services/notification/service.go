package notification

import (
	"context"
	"errors"
	"fmt"

	"salonbook/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// Sender is the FCM client surface used here. *messaging.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type OwnerLookup interface {
	GetByID(ctx context.Context, id string) (*models.SalonOwner, error)
}

// NotificationService pushes booking messages to customers and salon owners.
type NotificationService interface {
	Notify(ctx context.Context, recipientID, title, body string, data map[string]string) error
}

type DefaultNotificationService struct {
	Users  UserLookup
	Owners OwnerLookup
	Sender Sender
	Logger *zap.Logger
}

func NewNotificationService(users UserLookup, owners OwnerLookup, sender Sender, logger *zap.Logger) *DefaultNotificationService {
	return &DefaultNotificationService{Users: users, Owners: owners, Sender: sender, Logger: logger}
}

// Notify resolves the recipient among customers first, then salon owners, and sends a
// push to its device token. Recipients without a token are skipped.
func (s *DefaultNotificationService) Notify(ctx context.Context, recipientID, title, body string, data map[string]string) error {
	token, role, err := s.resolve(ctx, recipientID)
	if err != nil {
		return err
	}
	if token == "" {
		s.Logger.Debug("push skipped, no device token", zap.String("recipientID", recipientID))
		return nil
	}
	if s.Sender == nil {
		s.Logger.Debug("push skipped, messaging disabled", zap.String("recipientID", recipientID), zap.String("title", title))
		return nil
	}

	payload := make(map[string]string, len(data)+1)
	for k, v := range data {
		payload[k] = v
	}
	if _, ok := payload["role"]; !ok {
		payload["role"] = role.String()
	}

	msg := &messaging.Message{
		Token:        token,
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         payload,
		Android: &messaging.AndroidConfig{
			Priority:     "high",
			Notification: &messaging.AndroidNotification{ChannelID: "bookings", Sound: "default"},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{"apns-priority": "10", "apns-push-type": "alert"},
			Payload: &messaging.APNSPayload{Aps: &messaging.Aps{Sound: "default"}},
		},
	}
	id, err := s.Sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send FCM message to %s: %w", recipientID, err)
	}
	s.Logger.Debug("push sent", zap.String("recipientID", recipientID), zap.String("messageID", id))
	return nil
}

func (s *DefaultNotificationService) resolve(ctx context.Context, recipientID string) (string, models.Role, error) {
	u, err := s.Users.GetByID(ctx, recipientID)
	if err == nil {
		return u.FCMToken, u.Role, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return "", "", fmt.Errorf("could not load recipient %s: %w", recipientID, err)
	}
	o, err := s.Owners.GetByID(ctx, recipientID)
	if err != nil {
		return "", "", fmt.Errorf("could not find recipient %s: %w", recipientID, err)
	}
	return o.FCMToken, models.RoleSalonOwner, nil
}
