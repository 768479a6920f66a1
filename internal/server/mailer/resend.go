package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"
)

const resendBaseURL = "https://api.resend.com"

type ResendMailer struct {
	apiKey  string
	from    string
	client  *http.Client
	baseURL string
}

func NewResendMailer(apiKey, from string) (*ResendMailer, error) {
	if apiKey == "" {
		return nil, errors.New("resend api key not set")
	}

	return &ResendMailer{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: resendBaseURL,
	}, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

var resetTemplate = template.Must(template.New("reset").Parse(`
<p>Someone asked to reset the password of your Growth Pods account.</p>
<p><a href="{{.}}">Choose a new password</a></p>
<p>If this was not you, ignore this email. The link expires soon.</p>
`))

func (m *ResendMailer) SendPasswordReset(ctx context.Context, toEmail, resetURL string) error {
	var html strings.Builder
	if err := resetTemplate.Execute(&html, resetURL); err != nil {
		return err
	}

	b, err := json.Marshal(sendRequest{
		From:    m.from,
		To:      []string{toEmail},
		Subject: "Reset your password",
		HTML:    html.String(),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("failed to send reset email: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return nil
}
