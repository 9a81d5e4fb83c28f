package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"tokend/internal/token"
	"tokend/pkg/logger"
	"tokend/pkg/validator"
)

// TokenHandler manages the balance, payment, trust line, trade, swap-path,
// and issuance endpoints.
type TokenHandler struct {
	service   *token.Service
	validator *validator.Validator
	logger    logger.Logger
}

// NewTokenHandler creates a TokenHandler.
func NewTokenHandler(service *token.Service, val *validator.Validator, log logger.Logger) *TokenHandler {
	return &TokenHandler{
		service:   service,
		validator: val,
		logger:    log,
	}
}

// GetBalance returns an account's native XRP balance in whole units.
func (h *TokenHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		respondError(w, http.StatusBadRequest, "Account query parameter is required.")
		return
	}

	balance, err := h.service.XRPBalance(r.Context(), account)
	if err != nil {
		h.fail(w, "fetch XRP balance", err)
		return
	}
	respondJSON(w, http.StatusOK, balance)
}

// GetTokenBalance returns the configured token's balance on an account.
func (h *TokenHandler) GetTokenBalance(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		respondError(w, http.StatusBadRequest, "Account query parameter is required.")
		return
	}

	balance, err := h.service.TokenBalance(r.Context(), account)
	if err != nil {
		h.fail(w, "fetch token balance", err)
		return
	}
	respondJSON(w, http.StatusOK, balance)
}

// Amounts decode as decimal.Decimal so callers may send them quoted or
// bare; validation maps them through the registered decimal type func.
type sendRequest struct {
	Sender      string          `json:"sender" validate:"required"`
	Destination string          `json:"destination" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required,gt=0"`
}

// Send builds a native payment payload and returns its signing handle.
func (h *TokenHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Sender, destination, and amount are required.")
		return
	}

	intent, err := h.service.SendXRP(r.Context(), req.Sender, req.Destination, req.Amount.String())
	if err != nil {
		h.fail(w, "send XRP", err)
		return
	}
	respondJSON(w, http.StatusOK, intent)
}

// SendToken builds an issued-currency payment payload and returns its
// signing handle.
func (h *TokenHandler) SendToken(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Sender, destination, and amount are required.")
		return
	}

	intent, err := h.service.SendTokens(r.Context(), req.Sender, req.Destination, req.Amount.String())
	if err != nil {
		h.fail(w, "send tokens", err)
		return
	}
	respondJSON(w, http.StatusOK, intent)
}

type trustLineRequest struct {
	UserAccount   string           `json:"userAccount" validate:"required"`
	IssuerAddress string           `json:"issuerAddress" validate:"required,xrpl_address"`
	CurrencyCode  string           `json:"currencyCode" validate:"required"`
	Value         *decimal.Decimal `json:"value"`
}

// CreateTrustLine builds a TrustSet payload and returns its signing handle.
func (h *TokenHandler) CreateTrustLine(w http.ResponseWriter, r *http.Request) {
	var req trustLineRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		respondError(w, http.StatusBadRequest, "userAccount, issuerAddress, and currencyCode are required.")
		return
	}

	value := ""
	if req.Value != nil {
		value = req.Value.String()
	}
	result, err := h.service.CreateTrustLine(r.Context(), req.UserAccount, req.IssuerAddress, req.CurrencyCode, value)
	if err != nil {
		h.fail(w, "create trust line", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type tradeRequest struct {
	Account string          `json:"account" validate:"required"`
	Action  string          `json:"action" validate:"required,oneof=buy sell"`
	Amount  decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Price   decimal.Decimal `json:"price" validate:"required,gt=0"`
}

// Trade builds an OfferCreate payload and returns its signing handle.
func (h *TokenHandler) Trade(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Account, action (buy/sell), amount, and price are required.")
		return
	}

	intent, err := h.service.Trade(r.Context(), req.Account, req.Action, req.Amount.String(), req.Price.String())
	if err != nil {
		h.fail(w, "trade token", err)
		return
	}
	respondJSON(w, http.StatusOK, intent)
}

type swapPathRequest struct {
	SourceAccount      string          `json:"source_account" validate:"required"`
	DestinationAccount string          `json:"destination_account" validate:"required"`
	Value              decimal.Decimal `json:"value" validate:"required,gt=0"`
}

type swapPathResponse struct {
	SourceAccount      string           `json:"source_account"`
	DestinationAccount string           `json:"destination_account"`
	Paths              []token.SwapPath `json:"paths"`
}

// SwapPath returns the payment paths the ledger can compute between two
// accounts for a target delivered amount.
func (h *TokenHandler) SwapPath(w http.ResponseWriter, r *http.Request) {
	var req swapPathRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		respondError(w, http.StatusBadRequest, "All parameters (source_account, destination_account, value) are required.")
		return
	}

	paths, err := h.service.SwapPaths(r.Context(), req.SourceAccount, req.DestinationAccount, req.Value.String())
	if err != nil {
		h.fail(w, "find swap paths", err)
		return
	}
	respondJSON(w, http.StatusOK, swapPathResponse{
		SourceAccount:      req.SourceAccount,
		DestinationAccount: req.DestinationAccount,
		Paths:              paths,
	})
}

type issueTokenRequest struct {
	CurrencyCode string          `json:"currency_code" validate:"required"`
	TokenSupply  decimal.Decimal `json:"token_supply" validate:"required,gt=0"`
	Domain       string          `json:"domain" validate:"required"`
}

// IssueToken runs the administrative server-signed issuance flow.
func (h *TokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		respondError(w, http.StatusBadRequest, "currency_code, token_supply, and domain are required.")
		return
	}

	result, err := h.service.IssueToken(r.Context(), req.CurrencyCode, req.TokenSupply.String(), req.Domain)
	if err != nil {
		h.fail(w, "issue token", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *TokenHandler) fail(w http.ResponseWriter, op string, err error) {
	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("token operation failed", map[string]interface{}{
			"op":    op,
			"error": err.Error(),
		})
	}
	respondError(w, status, err.Error())
}
