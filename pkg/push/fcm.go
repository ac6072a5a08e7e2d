package push

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMTransport sends push messages through Firebase Cloud Messaging.
type FCMTransport struct {
	messagingClient *messaging.Client
}

// NewFCMTransport creates an FCM transport using the provided credentials file.
func NewFCMTransport(credentialsFile string) (*FCMTransport, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log.Println("[Push] FCM transport initialized successfully")
	return &FCMTransport{messagingClient: messagingClient}, nil
}

// Send delivers one message to one device token. FCM acknowledges accepted
// messages with a message id; any error is logged and reported as false.
func (t *FCMTransport) Send(ctx context.Context, token string, notification NotificationData) bool {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: notification.Data,
	}

	response, err := t.messagingClient.Send(ctx, message)
	if err != nil {
		log.Printf("[Push] Failed to send FCM message: %v", err)
		return false
	}

	log.Printf("[Push] FCM message sent: %s", response)
	return true
}
