// Package backend relays requests to the payments and KYC backend over HTTP.
// Every authorised call takes the bearer credential explicitly.
package backend

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

	"github.com/hashicorp/go-cleanhttp"
	"go.uber.org/zap"

	"kycpay-web/forms"
	"kycpay-web/models"
)

const (
	pathRegister  = "users/register/"
	pathLogin     = "users/login/"
	pathKyc       = "users/kyc/"
	pathPayment   = "payments/process/"
	pathDashboard = "payments/dashboard/"
	pathReport    = "payments/report/"
)

// maxErrorBody bounds how much of an error response is read for its message.
const maxErrorBody = 64 << 10

type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend url scheme %q", u.Scheme)
	}

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = timeout

	return &Client{
		baseURL: u,
		http:    httpClient,
		logger:  logger,
	}, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, pathRegister, "", req, nil)
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error) {
	var tokens models.TokenPair
	if err := c.do(ctx, http.MethodPost, pathLogin, "", req, &tokens); err != nil {
		return nil, err
	}
	if tokens.Access == "" {
		return nil, &RemoteError{Status: http.StatusOK, Message: "login response carried no access token"}
	}
	return &tokens, nil
}

// FetchKyc returns nil and no error when the user has no KYC record.
func (c *Client) FetchKyc(ctx context.Context, credential string) (*forms.KycPayload, error) {
	var payload forms.KycPayload
	err := c.do(ctx, http.MethodGet, pathKyc, credential, nil, &payload)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &payload, nil
}

func (c *Client) CreateKyc(ctx context.Context, credential string, payload forms.KycPayload) error {
	return c.do(ctx, http.MethodPost, pathKyc, credential, payload, nil)
}

func (c *Client) UpdateKyc(ctx context.Context, credential string, payload forms.KycPayload) error {
	return c.do(ctx, http.MethodPatch, pathKyc, credential, payload, nil)
}

func (c *Client) SubmitPayment(ctx context.Context, credential string, payload forms.PaymentPayload) error {
	return c.do(ctx, http.MethodPost, pathPayment, credential, payload, nil)
}

func (c *Client) Dashboard(ctx context.Context, credential string) ([]models.Transaction, error) {
	var resp models.DashboardResponse
	if err := c.do(ctx, http.MethodGet, pathDashboard, credential, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

// DownloadReport streams the PDF report to w and returns the bytes copied.
func (c *Client) DownloadReport(ctx context.Context, credential string, w io.Writer) (int64, error) {
	resp, err := c.send(ctx, http.MethodGet, pathReport, credential, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to stream report: %w", err)
	}
	return n, nil
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote) && remote.Status == http.StatusNotFound
}

func (c *Client) do(ctx context.Context, method, path, credential string, body, out interface{}) error {
	resp, err := c.send(ctx, method, path, credential, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// send returns the response only for 2xx statuses; the caller closes the body.
func (c *Client) send(ctx context.Context, method, path, credential string, body interface{}) (*http.Response, error) {
	endpoint := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend unreachable",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	c.logger.Debug("backend call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RemoteError{Status: resp.StatusCode, Message: remoteMessage(raw)}
	}
	return resp, nil
}
