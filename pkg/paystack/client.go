// Package paystack adapts the Paystack REST API to the gateway contract.
// Paystack settles the local African currencies (NGN, GHS, ZAR, KES).
package paystack

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

	"github.com/adaezeobi/wasoko-backend/pkg/config"
	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	pkgerrors "github.com/adaezeobi/wasoko-backend/pkg/errors"
	"github.com/adaezeobi/wasoko-backend/pkg/gateway"
	"github.com/adaezeobi/wasoko-backend/pkg/logger"
	"github.com/adaezeobi/wasoko-backend/pkg/types"
)

const (
	statusSuccess = "success"

	recipientType  = "nuban"
	transferSource = "balance"

	responseBodyLimit int64 = 2048

	defaultTimeout = 15 * time.Second
)

var (
	errSecretKeyRequired = errors.New("paystack secret key is required")
	errLoggerRequired    = errors.New("paystack logger is required")
)

// capabilities is static: Paystack verifies charges with a GET on the
// reference, never a POST.
var capabilities = gateway.Capabilities{VerifyMethod: http.MethodGet}

// Client wraps the Paystack API with centralized auth, logging, and error
// mapping.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
	logger     *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient validates credentials and builds the Paystack wrapper.
func NewClient(cfg config.PaystackConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	secret := strings.TrimSpace(cfg.SecretKey)
	if secret == "" {
		return nil, errSecretKeyRequired
	}
	if logg == nil {
		return nil, errLoggerRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		secretKey:  secret,
		logger:     logg,
	}
	if client.baseURL == "" {
		client.baseURL = "https://api.paystack.co"
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Gateway identifies this client to callers that fan out across processors.
func (c *Client) Gateway() enums.Gateway {
	return enums.GatewayPaystack
}

// Capabilities reports Paystack's fixed protocol details.
func (c *Client) Capabilities() gateway.Capabilities {
	return capabilities
}

// envelope is the outer shape of every Paystack response.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal paystack request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build paystack request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGatewayUnavailable, err, "execute paystack request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
		c.logger.Warn(c.logger.WithFields(ctx, map[string]any{
			"gateway": enums.GatewayPaystack.String(),
			"path":    path,
			"status":  resp.StatusCode,
		}), "paystack request rejected")

		cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		switch {
		case resp.StatusCode == http.StatusNotFound:
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, cause, "paystack resource not found")
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
			return pkgerrors.Wrap(pkgerrors.CodeGatewayUnavailable, cause, "paystack unavailable")
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "paystack request failed")
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInvalidResponse, err, "decode paystack response")
	}
	if !env.Status {
		return pkgerrors.New(pkgerrors.CodeDependency, "paystack rejected request: "+env.Message)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInvalidResponse, err, "decode paystack payload")
		}
	}
	return nil
}

// InitializeCharge starts a hosted checkout session and returns its
// authorization URL.
func (c *Client) InitializeCharge(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeSession, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paystack client not configured")
	}

	payload := map[string]any{
		"email":        req.Email,
		"amount":       req.AmountMinor,
		"currency":     req.Currency.String(),
		"reference":    req.Reference,
		"callback_url": req.CallbackURL,
		"metadata":     req.Metadata,
	}

	var data struct {
		AuthorizationURL string `json:"authorization_url"`
		Reference        string `json:"reference"`
	}
	if err := c.call(ctx, http.MethodPost, "/transaction/initialize", nil, payload, &data); err != nil {
		return nil, err
	}
	if data.AuthorizationURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidResponse, "paystack returned no authorization url")
	}

	reference := data.Reference
	if reference == "" {
		reference = req.Reference
	}
	return &gateway.ChargeSession{Reference: reference, AuthorizationURL: data.AuthorizationURL}, nil
}

// verifyData mirrors the subset of the Paystack verification payload the
// settlement flow consumes.
type verifyData struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	PaidAt    string `json:"paid_at"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
	Metadata gateway.ChargeMetadata `json:"metadata"`
}

// VerifyCharge looks up a charge by reference and normalizes the result.
func (c *Client) VerifyCharge(ctx context.Context, reference string) (*gateway.VerificationResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paystack client not configured")
	}
	trimmed := strings.TrimSpace(reference)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment reference is required")
	}

	var data verifyData
	path := "/transaction/verify/" + url.PathEscape(trimmed)
	if err := c.call(ctx, capabilities.VerifyMethod, path, nil, nil, &data); err != nil {
		return nil, err
	}
	if data.Reference == "" || data.Currency == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidResponse, "paystack verification payload incomplete")
	}

	var paidAt *time.Time
	if data.PaidAt != "" {
		if ts, err := time.Parse(time.RFC3339, data.PaidAt); err == nil {
			paidAt = &ts
		}
	}

	raw := types.JSONMap{
		"status":    data.Status,
		"reference": data.Reference,
		"amount":    data.Amount,
		"currency":  data.Currency,
		"paid_at":   data.PaidAt,
	}

	return &gateway.VerificationResult{
		Reference:     data.Reference,
		Success:       data.Status == statusSuccess,
		RawStatus:     data.Status,
		AmountMinor:   data.Amount,
		Currency:      enums.NormalizeCurrency(data.Currency),
		CustomerEmail: data.Customer.Email,
		Metadata:      data.Metadata,
		PaidAt:        paidAt,
		Raw:           raw,
	}, nil
}

// ListBanks fetches the bank directory for a country.
func (c *Client) ListBanks(ctx context.Context, country string) ([]gateway.Bank, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paystack client not configured")
	}

	query := url.Values{}
	if trimmed := strings.TrimSpace(country); trimmed != "" {
		query.Set("country", strings.ToLower(trimmed))
	}

	var data []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := c.call(ctx, http.MethodGet, "/bank", query, nil, &data); err != nil {
		return nil, err
	}

	banks := make([]gateway.Bank, 0, len(data))
	for _, b := range data {
		banks = append(banks, gateway.Bank{ID: b.ID, Name: b.Name, Code: b.Code})
	}
	return banks, nil
}

// ResolveAccount confirms the holder name behind an account number.
func (c *Client) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*gateway.ResolvedAccount, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paystack client not configured")
	}
	if strings.TrimSpace(accountNumber) == "" || strings.TrimSpace(bankCode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account number and bank code are required")
	}

	query := url.Values{}
	query.Set("account_number", accountNumber)
	query.Set("bank_code", bankCode)

	var data struct {
		AccountNumber string `json:"account_number"`
		AccountName   string `json:"account_name"`
	}
	if err := c.call(ctx, http.MethodGet, "/bank/resolve", query, nil, &data); err != nil {
		return nil, err
	}
	if data.AccountName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidResponse, "paystack returned no account name")
	}
	return &gateway.ResolvedAccount{AccountNumber: data.AccountNumber, AccountName: data.AccountName}, nil
}

// CreateTransferRecipient registers a bank account for payouts.
func (c *Client) CreateTransferRecipient(ctx context.Context, req gateway.RecipientRequest) (*gateway.Recipient, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paystack client not configured")
	}

	payload := map[string]any{
		"type":           recipientType,
		"name":           req.Name,
		"account_number": req.AccountNumber,
		"bank_code":      req.BankCode,
		"currency":       req.Currency.String(),
	}

	var data struct {
		RecipientCode string `json:"recipient_code"`
	}
	if err := c.call(ctx, http.MethodPost, "/transferrecipient", nil, payload, &data); err != nil {
		return nil, err
	}
	if data.RecipientCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidResponse, "paystack returned no recipient code")
	}
	return &gateway.Recipient{Code: data.RecipientCode}, nil
}

// InitiateTransfer moves settled funds from the platform balance to a
// registered recipient.
func (c *Client) InitiateTransfer(ctx context.Context, req gateway.TransferRequest) (*gateway.Transfer, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paystack client not configured")
	}

	payload := map[string]any{
		"source":    transferSource,
		"amount":    req.AmountMinor,
		"currency":  req.Currency.String(),
		"recipient": req.RecipientCode,
		"reason":    req.Reason,
		"reference": req.Reference,
	}

	var data struct {
		TransferCode string `json:"transfer_code"`
		Reference    string `json:"reference"`
		Status       string `json:"status"`
	}
	if err := c.call(ctx, http.MethodPost, "/transfer", nil, payload, &data); err != nil {
		return nil, err
	}

	reference := data.Reference
	if reference == "" {
		reference = req.Reference
	}
	return &gateway.Transfer{Reference: reference, Status: data.Status, Code: data.TransferCode}, nil
}
