// Package gateway defines the contract both payment processors are adapted
// to. Amounts crossing this boundary are integers in the currency's minor
// unit (kobo, pesewas, cents); callers convert to and from decimal major
// units exactly once per direction.
package gateway

import (
	"context"
	"time"

	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	"github.com/adaezeobi/wasoko-backend/pkg/types"
)

// ChargeMetadata rides along with a charge at initialization and is echoed
// back by the processor at verification time. It carries everything needed to
// materialize an order without a second catalog lookup.
type ChargeMetadata struct {
	BuyerID         string         `json:"buyer_id"`
	SellerID        string         `json:"seller_id"`
	ProductID       string         `json:"product_id"`
	Quantity        int            `json:"quantity"`
	UnitPriceMinor  int64          `json:"unit_price_minor"`
	ShippingAddress *types.Address `json:"shipping_address,omitempty"`
}

// ChargeRequest starts a hosted checkout session.
type ChargeRequest struct {
	Reference   string
	AmountMinor int64
	Currency    enums.Currency
	Email       string
	CallbackURL string
	Metadata    ChargeMetadata
}

// ChargeSession is the processor's handle for a started checkout.
type ChargeSession struct {
	Reference        string
	AuthorizationURL string
}

// VerificationResult is the normalized outcome of a charge lookup. Success
// reflects the processor's settled/successful state; RawStatus preserves the
// processor's own status word for the transaction record.
type VerificationResult struct {
	Reference     string
	Success       bool
	RawStatus     string
	AmountMinor   int64
	Currency      enums.Currency
	CustomerEmail string
	Metadata      ChargeMetadata
	PaidAt        *time.Time
	Raw           types.JSONMap
}

// Bank is one entry in a processor's bank directory.
type Bank struct {
	ID   int64
	Name string
	Code string
}

// ResolvedAccount is the holder name a processor reports for an account
// number at a given bank.
type ResolvedAccount struct {
	AccountNumber string
	AccountName   string
}

// RecipientRequest registers a seller's bank account for transfers.
type RecipientRequest struct {
	Name          string
	AccountNumber string
	BankCode      string
	Currency      enums.Currency
}

// Recipient is the processor-side handle for a registered payout target.
type Recipient struct {
	Code string
}

// TransferRequest moves settled funds to a recipient.
type TransferRequest struct {
	Reference     string
	AmountMinor   int64
	Currency      enums.Currency
	RecipientCode string
	Reason        string
}

// Transfer is the processor's record of an initiated payout.
type Transfer struct {
	Reference string
	Status    string
	Code      string
}

// Capabilities pins down per-processor protocol details so callers never
// discover them at runtime.
type Capabilities struct {
	// VerifyMethod is the HTTP verb the processor's charge-verification
	// endpoint accepts.
	VerifyMethod string
}

// Client is the adapter surface a payment processor must provide.
type Client interface {
	Gateway() enums.Gateway
	Capabilities() Capabilities
	InitializeCharge(ctx context.Context, req ChargeRequest) (*ChargeSession, error)
	VerifyCharge(ctx context.Context, reference string) (*VerificationResult, error)
	ListBanks(ctx context.Context, country string) ([]Bank, error)
	ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*ResolvedAccount, error)
	CreateTransferRecipient(ctx context.Context, req RecipientRequest) (*Recipient, error)
	InitiateTransfer(ctx context.Context, req TransferRequest) (*Transfer, error)
}
