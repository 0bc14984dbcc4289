// Package notify delivers trade alerts. Delivery is best-effort and
// fire-and-forget: a failed alert is the operator's problem to notice in
// the logs, never the trading loop's.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TwilioNotifier sends WhatsApp messages through the Twilio REST API.
type TwilioNotifier struct {
	accountSID string
	authToken  string
	from       string
	to         string
	baseURL    string
	http       *http.Client
}

type TwilioParams struct {
	AccountSID string
	AuthToken  string
	From       string // phone number, whatsapp: prefix added here
	To         string
	BaseURL    string
}

func NewTwilio(p TwilioParams) *TwilioNotifier {
	if p.BaseURL == "" {
		p.BaseURL = "https://api.twilio.com"
	}
	return &TwilioNotifier{
		accountSID: p.AccountSID,
		authToken:  p.AuthToken,
		from:       p.From,
		to:         p.To,
		baseURL:    p.BaseURL,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *TwilioNotifier) Notify(ctx context.Context, message string) error {
	form := url.Values{}
	form.Set("From", "whatsapp:"+t.from)
	form.Set("To", "whatsapp:"+t.to)
	form.Set("Body", message)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("twilio: creating request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("twilio: sending message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("twilio: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Noop discards every alert. Used when Twilio credentials are absent.
type Noop struct{}

func (Noop) Notify(ctx context.Context, message string) error { return nil }
