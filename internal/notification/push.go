package notification

import (
	"context"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"door-monitor-backend/internal/store"
)

// PushSender defines the interface for sending a single web push message.
type PushSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of PushSender using the webpush
// library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// PushBroadcaster delivers an alert message to registered browsers.
type PushBroadcaster interface {
	Broadcast(ctx context.Context, message string)
}

// WebPushBroadcaster sends each alert to every stored push subscription.
// Delivery is best-effort: failures are logged, and subscriptions reported
// gone by the push service are pruned.
type WebPushBroadcaster struct {
	store   store.Store
	options *webpush.Options
	sender  PushSender
}

// NewWebPushBroadcaster creates a broadcaster for the given VAPID options.
func NewWebPushBroadcaster(s store.Store, options *webpush.Options) *WebPushBroadcaster {
	return &WebPushBroadcaster{
		store:   s,
		options: options,
		sender:  &WebPushSender{},
	}
}

// Broadcast sends the message to all push subscriptions.
func (b *WebPushBroadcaster) Broadcast(ctx context.Context, message string) {
	subscriptions, err := b.store.ListPushSubscriptions(ctx)
	if err != nil {
		log.Printf("Error fetching push subscriptions: %v", err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Broadcasting alert to %d push subscriptions", len(subscriptions))
	for _, sub := range subscriptions {
		b.send(ctx, sub.Endpoint, sub.P256DH, sub.Auth, []byte(message))
	}
}

func (b *WebPushBroadcaster) send(ctx context.Context, endpoint, p256dh, auth string, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: endpoint,
		Keys: webpush.Keys{
			P256dh: p256dh,
			Auth:   auth,
		},
	}

	resp, err := b.sender.Send(payload, wpSub, b.options)
	if err != nil {
		log.Printf("Error sending push notification to %s: %v", endpoint, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		log.Printf("Push subscription for endpoint %s is expired. Deleting.", endpoint)
		if err := b.store.DeletePushSubscription(ctx, endpoint); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", endpoint, err)
		}
	}
}
