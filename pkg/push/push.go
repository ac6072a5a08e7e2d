package push

import (
	"context"
	"fmt"
)

// NotificationData contains the content of a single push message.
type NotificationData struct {
	Title string
	Body  string
	Data  map[string]string // Custom data payload
}

// Transport delivers one push message to one device token. Implementations
// report delivery as a boolean and must not propagate transport errors:
// every failure is logged and converted to false.
type Transport interface {
	Send(ctx context.Context, token string, notification NotificationData) bool
}

// NewTransport selects a push transport implementation by provider name.
func NewTransport(provider, expoPushURL, firebaseCredentials string) (Transport, error) {
	switch provider {
	case "expo":
		return NewExpoTransport(expoPushURL), nil
	case "fcm":
		return NewFCMTransport(firebaseCredentials)
	default:
		return nil, fmt.Errorf("unsupported push provider: %s", provider)
	}
}
