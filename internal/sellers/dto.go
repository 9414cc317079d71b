package sellers

import "github.com/google/uuid"

// RegisterBankAccountInput carries a seller's settlement destination.
type RegisterBankAccountInput struct {
	SellerID      uuid.UUID
	BankCode      string
	BankName      string
	AccountNumber string
	AccountName   string
	Currency      string
}
