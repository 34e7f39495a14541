package client

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pkl-club-api/internal/config"
	"pkl-club-api/internal/model"
)

// signatureTolerance bounds how old a webhook timestamp may be before
// the delivery is rejected as a possible replay.
const signatureTolerance = 5 * time.Minute

type CheckoutMode string

const (
	ModePayment      CheckoutMode = "payment"
	ModeSubscription CheckoutMode = "subscription"
)

type CheckoutSessionParams struct {
	CustomerID string
	PriceID    string
	Mode       CheckoutMode
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type CreateSessionResponse struct {
	SessionID string
	URL       string
}

type StripeClient interface {
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	CreateCheckoutSession(ctx context.Context, params *CheckoutSessionParams) (*CreateSessionResponse, error)
	ConstructWebhookEvent(payload []byte, sigHeader string) (*model.StripeEvent, error)
}

type stripeClientImpl struct {
	httpClient    *http.Client
	baseApiURL    string
	secretKey     string
	webhookSecret string
}

func NewStripeClient(stripeCfg *config.Stripe) StripeClient {
	return &stripeClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:    stripeCfg.BaseApiURL,
		secretKey:     stripeCfg.SecretKey,
		webhookSecret: stripeCfg.WebhookSecret,
	}
}

// postForm sends a form-encoded request the way Stripe's REST API expects
// and decodes the JSON response into out.
func (c *stripeClientImpl) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "POST",
		c.baseApiURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("stripe error %d: %s", resp.StatusCode, string(b))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode stripe response: %w", err)
	}

	return nil
}

func (c *stripeClientImpl) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("name", name)
	form.Set("metadata[source]", "pkl-club")

	var result struct {
		ID string `json:"id"`
	}
	if err := c.postForm(ctx, "/v1/customers", form, &result); err != nil {
		return "", fmt.Errorf("stripe create customer: %w", err)
	}

	return result.ID, nil
}

func (c *stripeClientImpl) CreateCheckoutSession(ctx context.Context, params *CheckoutSessionParams) (*CreateSessionResponse, error) {
	form := url.Values{}
	form.Set("customer", params.CustomerID)
	form.Set("mode", string(params.Mode))
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price]", params.PriceID)
	form.Set("line_items[0][quantity]", "1")
	for k, v := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var result struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := c.postForm(ctx, "/v1/checkout/sessions", form, &result); err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}

	return &CreateSessionResponse{
		SessionID: result.ID,
		URL:       result.URL,
	}, nil
}

// ConstructWebhookEvent verifies the Stripe-Signature header against the
// webhook secret and, only then, decodes the event envelope. Any failure
// here must leave state untouched, so the caller rejects the delivery.
func (c *stripeClientImpl) ConstructWebhookEvent(payload []byte, sigHeader string) (*model.StripeEvent, error) {
	if err := verifySignature(c.webhookSecret, payload, sigHeader, time.Now()); err != nil {
		return nil, fmt.Errorf("verify webhook signature: %w", err)
	}

	var event model.StripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}

	return &event, nil
}

// verifySignature checks the v1 scheme: HMAC-SHA256 over "<t>.<payload>".
// The header carries "t=<unix>,v1=<hex>[,v1=<hex>...]"; any matching v1
// within the tolerance window passes.
func verifySignature(secret string, payload []byte, sigHeader string, now time.Time) error {
	var timestamp int64
	var signatures [][]byte

	for _, part := range strings.Split(sigHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return fmt.Errorf("malformed timestamp: %w", err)
			}
			timestamp = ts
		case "v1":
			sig, err := hex.DecodeString(kv[1])
			if err != nil {
				continue
			}
			signatures = append(signatures, sig)
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return fmt.Errorf("missing t or v1 in signature header")
	}

	if now.Sub(time.Unix(timestamp, 0)) > signatureTolerance {
		return fmt.Errorf("timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, sig := range signatures {
		if hmac.Equal(expected, sig) {
			return nil
		}
	}

	return fmt.Errorf("no matching v1 signature")
}
