package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"door-monitor-backend/config"
)

const twilioMessagesURL = "https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json"

// CodeUnverifiedRecipient is the provider error returned for recipients that
// are not on the allow-list of a trial account.
const CodeUnverifiedRecipient = 21608

// SendResponse is the provider's answer to a single send attempt. Accepted
// means the provider took the message; otherwise ErrorCode and ErrorMessage
// carry the rejection.
type SendResponse struct {
	Accepted     bool
	SID          string
	ErrorCode    int
	ErrorMessage string
}

// SMSSender defines the interface for delivering one SMS message. An error
// return means the attempt failed before a provider response was obtained.
type SMSSender interface {
	Send(ctx context.Context, to, from, body string) (*SendResponse, error)
}

// TwilioSender is a real implementation of SMSSender using Twilio's REST API.
type TwilioSender struct {
	accountSID string
	authToken  string
	client     *http.Client
}

// NewTwilioSender creates a sender with a bounded per-request timeout so a
// slow provider cannot stall the per-contact loop.
func NewTwilioSender(cfg config.TwilioConfig) *TwilioSender {
	return &TwilioSender{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		client:     &http.Client{Timeout: cfg.Timeout()},
	}
}

// Send posts a single message to the provider.
func (t *TwilioSender) Send(ctx context.Context, to, from, body string) (*SendResponse, error) {
	form := url.Values{
		"To":   {to},
		"From": {from},
		"Body": {body},
	}

	endpoint := fmt.Sprintf(twilioMessagesURL, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		SID     string `json:"sid"`
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		// A malformed body on an accepted request is still a success; on a
		// rejection we lose the provider detail but keep the classification.
		payload.Message = "unparseable provider response"
	}

	accepted := resp.StatusCode >= 200 && resp.StatusCode < 300
	return &SendResponse{
		Accepted:     accepted,
		SID:          payload.SID,
		ErrorCode:    payload.Code,
		ErrorMessage: payload.Message,
	}, nil
}
