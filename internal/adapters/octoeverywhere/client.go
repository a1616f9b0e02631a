// Package octoeverywhere reads printer state from the OctoEverywhere
// app-connection API.
package octoeverywhere

import (
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
	"github.com/highvoltag3/BamVoo/internal/metrics"
	"github.com/highvoltag3/BamVoo/internal/ports"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL        = "https://octoeverywhere.com/api/appconnection/v1"
	defaultRequestTimeout = 10 * time.Second
	maxResponseBytes      = 1 << 20
)

var _ ports.PrinterAPI = Client{}

type Client struct {
	BaseURL        string
	AppToken       string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

type stateResponse struct {
	Printer domain.PrinterState `json:"printer"`
}

// NewHTTPClient returns a client whose transport emits OpenTelemetry spans
// for each outbound call.
func NewHTTPClient() *http.Client {
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
}

func (c Client) ListPrinters(ctx context.Context) ([]domain.Printer, error) {
	var printers []domain.Printer
	if err := c.get(ctx, "list_printers", "printer", &printers); err != nil {
		return nil, err
	}
	if printers == nil {
		printers = []domain.Printer{}
	}
	return printers, nil
}

func (c Client) GetPrinterState(ctx context.Context, id domain.PrinterID) (domain.PrinterState, error) {
	var payload stateResponse
	if err := c.get(ctx, "get_printer_state", printerPath(id, "state"), &payload); err != nil {
		return domain.PrinterState{}, err
	}
	return payload.Printer, nil
}

func (c Client) GetWebcamSnapshot(ctx context.Context, id domain.PrinterID) (domain.WebcamSnapshot, error) {
	var snapshot domain.WebcamSnapshot
	if err := c.get(ctx, "get_webcam_snapshot", printerPath(id, "webcam"), &snapshot); err != nil {
		return domain.WebcamSnapshot{}, err
	}
	return snapshot, nil
}

func (c Client) get(ctx context.Context, operation string, path string, out any) (err error) {
	started := time.Now()
	defer func() {
		metrics.RecordUpstreamCall(operation, time.Since(started).Seconds(), err)
	}()

	endpoint, err := buildAPIURL(c.baseURL(), path)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %w", domain.ErrFetchFailed, err)
	}
	req.Header.Set("AppToken", c.AppToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrFetchFailed, operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", domain.ErrFetchFailed, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %s: status %d: %s", domain.ErrFetchFailed, operation, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", domain.ErrFetchFailed, operation, err)
	}
	return nil
}

func (c Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func printerPath(id domain.PrinterID, resource string) string {
	return "printer/" + url.PathEscape(string(id)) + "/" + resource
}

// buildAPIURL resolves path relative to baseURL, keeping any path prefix the
// base URL already carries.
func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
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
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	endpoint, err := parsed.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	return endpoint.String(), nil
}
