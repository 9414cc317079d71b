package controllers

import (
	"net/http"
	"strings"

	"github.com/adaezeobi/wasoko-backend/api/responses"
	"github.com/adaezeobi/wasoko-backend/api/validators"
	"github.com/adaezeobi/wasoko-backend/internal/sellers"
	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	"github.com/adaezeobi/wasoko-backend/pkg/logger"
)

type registerBankAccountRequest struct {
	BankCode      string `json:"bank_code" validate:"required"`
	BankName      string `json:"bank_name" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
	AccountName   string `json:"account_name" validate:"required"`
	Currency      string `json:"currency" validate:"required"`
}

// RegisterBankAccount saves the caller's settlement destination and
// registers it with the payment gateway for transfers.
func RegisterBankAccount(svc sellers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerBankAccountRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sellerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.RegisterBankAccount(r.Context(), sellers.RegisterBankAccountInput{
			SellerID:      sellerID,
			BankCode:      req.BankCode,
			BankName:      req.BankName,
			AccountNumber: req.AccountNumber,
			AccountName:   req.AccountName,
			Currency:      req.Currency,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toBankAccountResponse(account))
	}
}

// BankAccount returns the caller's registered settlement destination.
func BankAccount(svc sellers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.GetBankAccount(r.Context(), sellerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toBankAccountResponse(account))
	}
}

type bankEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// ListBanks returns the combined bank directory for a country. The listing
// is best effort, a gateway outage shrinks the result instead of failing it.
func ListBanks(svc sellers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		country := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("country")))
		if country == "" {
			country = "NG"
		}

		banks := svc.ListBanks(r.Context(), country)
		entries := make([]bankEntry, 0, len(banks))
		for _, bank := range banks {
			entries = append(entries, bankEntry{ID: bank.ID, Name: bank.Name, Code: bank.Code})
		}
		responses.WriteSuccess(w, map[string]any{"country": country, "banks": entries})
	}
}

type resolveBankAccountRequest struct {
	AccountNumber string `json:"account_number" validate:"required"`
	BankCode      string `json:"bank_code" validate:"required"`
	Currency      string `json:"currency" validate:"required"`
}

type resolveBankAccountResponse struct {
	Resolved    bool   `json:"resolved"`
	AccountName string `json:"account_name,omitempty"`
}

// ResolveBankAccount looks up the holder name for an account before the
// seller commits to it. Best effort, an unavailable directory resolves to
// nothing rather than an error.
func ResolveBankAccount(svc sellers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resolveBankAccountRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		currency := enums.NormalizeCurrency(strings.TrimSpace(req.Currency))
		resolved := svc.ResolveAccount(r.Context(), currency, strings.TrimSpace(req.AccountNumber), strings.TrimSpace(req.BankCode))
		if resolved == nil || resolved.AccountName == "" {
			responses.WriteSuccess(w, resolveBankAccountResponse{Resolved: false})
			return
		}
		responses.WriteSuccess(w, resolveBankAccountResponse{Resolved: true, AccountName: resolved.AccountName})
	}
}
