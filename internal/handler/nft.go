package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"tokend/internal/nft"
	"tokend/pkg/logger"
	"tokend/pkg/validator"
)

// NFTHandler manages the NFT mint endpoint.
type NFTHandler struct {
	service   *nft.Service
	validator *validator.Validator
	logger    logger.Logger
}

// NewNFTHandler creates an NFTHandler.
func NewNFTHandler(service *nft.Service, val *validator.Validator, log logger.Logger) *NFTHandler {
	return &NFTHandler{
		service:   service,
		validator: val,
		logger:    log,
	}
}

type mintRequest struct {
	Account      string          `json:"account" validate:"required,xrpl_address"`
	AmountBurned decimal.Decimal `json:"amountBurned" validate:"required,gt=0"`
}

// MintNFT builds a burn-receipt NFT mint payload and returns its signing
// handle.
func (h *NFTHandler) MintNFT(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Account and amountBurned are required.")
		return
	}

	intent, err := h.service.Mint(r.Context(), req.Account, req.AmountBurned.String())
	if err != nil {
		status := statusFromError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("NFT mint failed", map[string]interface{}{
				"account": req.Account,
				"error":   err.Error(),
			})
		}
		respondError(w, status, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, intent)
}
