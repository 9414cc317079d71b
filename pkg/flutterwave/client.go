// Package flutterwave adapts the Flutterwave v3 REST API to the gateway
// contract. Flutterwave settles international card currencies and any
// currency the local processor does not cover.
//
// Flutterwave's envelope differs from the local processor's in two ways this
// package hides: the outer status is the string "success" rather than a
// boolean, and a settled charge reports the word "successful".
package flutterwave

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
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
	envelopeSuccess = "success"
	chargeSettled   = "successful"

	responseBodyLimit int64 = 2048

	defaultTimeout = 15 * time.Second
)

var (
	errSecretKeyRequired = errors.New("flutterwave secret key is required")
	errLoggerRequired    = errors.New("flutterwave logger is required")
)

var capabilities = gateway.Capabilities{VerifyMethod: http.MethodGet}

// Client wraps the Flutterwave API with centralized auth, logging, and error
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

// NewClient validates credentials and builds the Flutterwave wrapper.
func NewClient(cfg config.FlutterwaveConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
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
		client.baseURL = "https://api.flutterwave.com/v3"
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
	return enums.GatewayFlutterwave
}

// Capabilities reports Flutterwave's fixed protocol details.
func (c *Client) Capabilities() gateway.Capabilities {
	return capabilities
}

type envelope struct {
	Status  string          `json:"status"`
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
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal flutterwave request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build flutterwave request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGatewayUnavailable, err, "execute flutterwave request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
		c.logger.Warn(c.logger.WithFields(ctx, map[string]any{
			"gateway": enums.GatewayFlutterwave.String(),
			"path":    path,
			"status":  resp.StatusCode,
		}), "flutterwave request rejected")

		cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		switch {
		case resp.StatusCode == http.StatusNotFound:
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, cause, "flutterwave resource not found")
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
			return pkgerrors.Wrap(pkgerrors.CodeGatewayUnavailable, cause, "flutterwave unavailable")
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "flutterwave request failed")
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInvalidResponse, err, "decode flutterwave response")
	}
	if env.Status != envelopeSuccess {
		return pkgerrors.New(pkgerrors.CodeDependency, "flutterwave rejected request: "+env.Message)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInvalidResponse, err, "decode flutterwave payload")
		}
	}
	return nil
}

// InitializeCharge starts a hosted payment page session.
func (c *Client) InitializeCharge(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeSession, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "flutterwave client not configured")
	}

	payload := map[string]any{
		"tx_ref":       req.Reference,
		"amount":       req.AmountMinor,
		"currency":     req.Currency.String(),
		"redirect_url": req.CallbackURL,
		"customer": map[string]any{
			"email": req.Email,
		},
		"meta": req.Metadata,
	}

	var data struct {
		Link string `json:"link"`
	}
	if err := c.call(ctx, http.MethodPost, "/payments", nil, payload, &data); err != nil {
		return nil, err
	}
	if data.Link == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidResponse, "flutterwave returned no payment link")
	}

	return &gateway.ChargeSession{Reference: req.Reference, AuthorizationURL: data.Link}, nil
}

type verifyData struct {
	Status    string `json:"status"`
	TxRef     string `json:"tx_ref"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	CreatedAt string `json:"created_at"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
	Meta gateway.ChargeMetadata `json:"meta"`
}

// VerifyCharge looks up a charge by merchant reference and normalizes the
// result.
func (c *Client) VerifyCharge(ctx context.Context, reference string) (*gateway.VerificationResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "flutterwave client not configured")
	}
	trimmed := strings.TrimSpace(reference)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment reference is required")
	}

	query := url.Values{}
	query.Set("tx_ref", trimmed)

	var data verifyData
	if err := c.call(ctx, capabilities.VerifyMethod, "/transactions/verify_by_reference", query, nil, &data); err != nil {
		return nil, err
	}
	if data.TxRef == "" || data.Currency == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidResponse, "flutterwave verification payload incomplete")
	}

	var paidAt *time.Time
	if data.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, data.CreatedAt); err == nil {
			paidAt = &ts
		}
	}

	raw := types.JSONMap{
		"status":     data.Status,
		"tx_ref":     data.TxRef,
		"amount":     data.Amount,
		"currency":   data.Currency,
		"created_at": data.CreatedAt,
	}

	return &gateway.VerificationResult{
		Reference:     data.TxRef,
		Success:       data.Status == chargeSettled,
		RawStatus:     data.Status,
		AmountMinor:   data.Amount,
		Currency:      enums.NormalizeCurrency(data.Currency),
		CustomerEmail: data.Customer.Email,
		Metadata:      data.Meta,
		PaidAt:        paidAt,
		Raw:           raw,
	}, nil
}

// ListBanks fetches the bank directory for a two-letter country code.
func (c *Client) ListBanks(ctx context.Context, country string) ([]gateway.Bank, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "flutterwave client not configured")
	}
	trimmed := strings.ToUpper(strings.TrimSpace(country))
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "country code is required")
	}

	var data []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := c.call(ctx, http.MethodGet, "/banks/"+url.PathEscape(trimmed), nil, nil, &data); err != nil {
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
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "flutterwave client not configured")
	}
	if strings.TrimSpace(accountNumber) == "" || strings.TrimSpace(bankCode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account number and bank code are required")
	}

	payload := map[string]any{
		"account_number": accountNumber,
		"account_bank":   bankCode,
	}

	var data struct {
		AccountNumber string `json:"account_number"`
		AccountName   string `json:"account_name"`
	}
	if err := c.call(ctx, http.MethodPost, "/accounts/resolve", nil, payload, &data); err != nil {
		return nil, err
	}
	if data.AccountName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidResponse, "flutterwave returned no account name")
	}
	return &gateway.ResolvedAccount{AccountNumber: data.AccountNumber, AccountName: data.AccountName}, nil
}

// CreateTransferRecipient registers a beneficiary for payouts.
func (c *Client) CreateTransferRecipient(ctx context.Context, req gateway.RecipientRequest) (*gateway.Recipient, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "flutterwave client not configured")
	}

	payload := map[string]any{
		"account_number":   req.AccountNumber,
		"account_bank":     req.BankCode,
		"beneficiary_name": req.Name,
		"currency":         req.Currency.String(),
	}

	var data struct {
		ID int64 `json:"id"`
	}
	if err := c.call(ctx, http.MethodPost, "/beneficiaries", nil, payload, &data); err != nil {
		return nil, err
	}
	if data.ID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidResponse, "flutterwave returned no beneficiary id")
	}
	return &gateway.Recipient{Code: strconv.FormatInt(data.ID, 10)}, nil
}

// InitiateTransfer moves settled funds to a registered beneficiary.
func (c *Client) InitiateTransfer(ctx context.Context, req gateway.TransferRequest) (*gateway.Transfer, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "flutterwave client not configured")
	}

	beneficiary, err := strconv.ParseInt(req.RecipientCode, 10, 64)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "flutterwave recipient code must be a beneficiary id")
	}

	payload := map[string]any{
		"beneficiary": beneficiary,
		"amount":      req.AmountMinor,
		"currency":    req.Currency.String(),
		"reference":   req.Reference,
		"narration":   req.Reason,
	}

	var data struct {
		ID        int64  `json:"id"`
		Reference string `json:"reference"`
		Status    string `json:"status"`
	}
	if err := c.call(ctx, http.MethodPost, "/transfers", nil, payload, &data); err != nil {
		return nil, err
	}

	reference := data.Reference
	if reference == "" {
		reference = req.Reference
	}
	return &gateway.Transfer{
		Reference: reference,
		Status:    data.Status,
		Code:      strconv.FormatInt(data.ID, 10),
	}, nil
}
