package notification

import (
	"context"
	"errors"
	"fmt"
	"log"

	"door-monitor-backend/config"
	"door-monitor-backend/internal/store"
)

// ErrProviderNotConfigured is returned by Notify when the SMS provider
// credentials are absent. It is the only hard-error path: partial delivery
// failure is always reported through the Result instead.
var ErrProviderNotConfigured = errors.New("sms provider credentials are not configured")

// Alert is a notification job produced by the ingestion path.
type Alert struct {
	Message   string
	EventType string
	Location  string
	BoardName string
}

// ContactResult is the outcome of one delivery attempt. Status is "sent",
// "failed" (provider rejected) or "error" (no provider response obtained).
type ContactResult struct {
	Contact      string `json:"contact"`
	Phone        string `json:"phone"`
	Status       string `json:"status"`
	SID          string `json:"sid,omitempty"`
	Error        string `json:"error,omitempty"`
	Code         int    `json:"code,omitempty"`
	IsUnverified bool   `json:"is_unverified,omitempty"`
}

// Result aggregates a full dispatch round over the active contact list.
type Result struct {
	SentTo          int             `json:"sent_to"`
	TotalContacts   int             `json:"total_contacts"`
	UnverifiedCount int             `json:"unverified_count"`
	Results         []ContactResult `json:"results"`
}

// Dispatcher fans alert messages out to the active contacts over SMS and to
// registered browsers over web push. A pool of workers drains the job
// channel so event ingestion never waits on provider calls.
type Dispatcher struct {
	store  store.Store
	sender SMSSender
	twilio config.TwilioConfig

	push PushBroadcaster
	size int
	jobs chan Alert
}

// NewDispatcher creates a dispatcher with the given worker pool size. The
// push broadcaster may be nil when the push channel is disabled.
func NewDispatcher(cfg *config.Config, s store.Store, push PushBroadcaster) *Dispatcher {
	return &Dispatcher{
		store:  s,
		sender: NewTwilioSender(cfg.Twilio),
		twilio: cfg.Twilio,
		push:   push,
		size:   cfg.WorkerPool.Size,
		jobs:   make(chan Alert, cfg.WorkerPool.Size),
	}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.size; i++ {
		go d.worker(ctx, i)
	}
}

// Dispatch queues an alert for asynchronous delivery. The job is handed to a
// running worker, never silently dropped.
func (d *Dispatcher) Dispatch(alert Alert) {
	d.jobs <- alert
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	log.Printf("Alert worker %d started", id)
	for {
		select {
		case alert := <-d.jobs:
			d.process(ctx, alert)
		case <-ctx.Done():
			log.Printf("Alert worker %d shutting down", id)
			return
		}
	}
}

// process runs one queued alert to completion. Failures of any kind are
// logged and swallowed: notification outcome never reaches the ingestion
// path that queued the job.
func (d *Dispatcher) process(ctx context.Context, alert Alert) {
	result, err := d.Notify(ctx, alert.Message)
	if err != nil {
		log.Printf("Alert delivery skipped for %q (%s en %s): %v",
			alert.EventType, alert.BoardName, alert.Location, err)
	} else {
		log.Printf("Alert %q delivered to %d/%d contacts (%d unverified)",
			alert.EventType, result.SentTo, result.TotalContacts, result.UnverifiedCount)
	}

	if d.push != nil {
		d.push.Broadcast(ctx, alert.Message)
	}
}

// Notify sends the message to every currently active contact, one at a time.
// Each attempt is isolated; one contact's failure never stops the loop. The
// active set is read fresh on every call so deactivated contacts stop
// receiving alerts immediately.
func (d *Dispatcher) Notify(ctx context.Context, message string) (*Result, error) {
	if !d.twilio.Configured() {
		return nil, ErrProviderNotConfigured
	}

	contacts, err := d.store.ListActiveContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alert contacts: %w", err)
	}

	result := &Result{
		TotalContacts: len(contacts),
		Results:       make([]ContactResult, 0, len(contacts)),
	}
	if len(contacts) == 0 {
		return result, nil
	}

	for _, contact := range contacts {
		attempt := ContactResult{Contact: contact.Name, Phone: contact.PhoneNumber}

		resp, err := d.sender.Send(ctx, contact.PhoneNumber, d.twilio.FromNumber, message)
		switch {
		case err != nil:
			attempt.Status = "error"
			attempt.Error = err.Error()
			log.Printf("SMS transport error for %s: %v", contact.Name, err)
		case resp.Accepted:
			attempt.Status = "sent"
			attempt.SID = resp.SID
			result.SentTo++
		default:
			attempt.Status = "failed"
			attempt.Error = resp.ErrorMessage
			attempt.Code = resp.ErrorCode
			attempt.IsUnverified = resp.ErrorCode == CodeUnverifiedRecipient
			if attempt.IsUnverified {
				result.UnverifiedCount++
			}
			log.Printf("SMS rejected for %s (code %d): %s", contact.Name, resp.ErrorCode, resp.ErrorMessage)
		}

		result.Results = append(result.Results, attempt)
	}

	return result, nil
}
