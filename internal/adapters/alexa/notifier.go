// Package alexa adapts the skill to the Alexa platform: the request and
// response envelopes of the custom skill interface, and proactive messages
// pushed through the notifications API.
package alexa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/highvoltag3/BamVoo/internal/domain"
	"github.com/highvoltag3/BamVoo/internal/ports"
)

const (
	DefaultBaseURL        = "https://api.amazonalexa.com"
	notificationPath      = "/v1/users/~current/sessions/active"
	defaultRequestTimeout = 10 * time.Second
	maxResponseBytes      = 1 << 20

	notificationTitle  = "BamVoo Printer Update"
	notificationSender = "BamVoo"
)

var _ ports.Notifier = Notifier{}

type Notifier struct {
	BaseURL        string
	SkillID        string
	AccessToken    string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

type notificationPayload struct {
	Type             string              `json:"type"`
	Skill            skillRef            `json:"skill"`
	PushNotification pushNotification    `json:"pushNotification"`
	User             notificationUser    `json:"user"`
	MessageGroup     messageGroup        `json:"messageGroup"`
	Message          notificationMessage `json:"message"`
}

type skillRef struct {
	SkillID string `json:"skillId"`
}

type pushNotification struct {
	Status string `json:"status"`
}

type notificationUser struct {
	UserID domain.UserID `json:"userId"`
}

type messageGroup struct {
	Creator messageCreator `json:"creator"`
	Count   int            `json:"count"`
}

type messageCreator struct {
	Name string `json:"name"`
}

type notificationMessage struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (n Notifier) Notify(ctx context.Context, userID domain.UserID, message string) error {
	if strings.TrimSpace(string(userID)) == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrNotificationFailed)
	}

	endpoint, err := buildAPIURL(n.baseURL(), notificationPath)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNotificationFailed, err)
	}

	payload, err := json.Marshal(notificationPayload{
		Type:             "Messaging.Message",
		Skill:            skillRef{SkillID: n.SkillID},
		PushNotification: pushNotification{Status: "ENABLED"},
		User:             notificationUser{UserID: userID},
		MessageGroup:     messageGroup{Creator: messageCreator{Name: notificationSender}, Count: 1},
		Message:          notificationMessage{Title: notificationTitle, Body: message},
	})
	if err != nil {
		return fmt.Errorf("%w: encode payload: %w", domain.ErrNotificationFailed, err)
	}

	requestCtx, cancel := n.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: create request: %w", domain.ErrNotificationFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+n.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("%w: send notification: %w", domain.ErrNotificationFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return fmt.Errorf("%w: status %d: %s", domain.ErrNotificationFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	return nil
}

func (n Notifier) baseURL() string {
	if n.BaseURL != "" {
		return n.BaseURL
	}
	return DefaultBaseURL
}

func (n Notifier) httpClient() *http.Client {
	if n.HTTPClient != nil {
		return n.HTTPClient
	}
	return http.DefaultClient
}

func (n Notifier) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := n.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	return strings.TrimRight(parsed.String(), "/") + path, nil
}
