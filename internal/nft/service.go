// Package nft implements the burn-receipt NFT mint: a small metadata blob
// hex-encoded into the mint transaction's URI field, handed off for user
// signing.
package nft

import (
	"context"
	"encoding/json"
	"time"

	"tokend/internal/token"
	"tokend/internal/xrpl"
	"tokend/pkg/errors"
	"tokend/pkg/logger"
)

// metadata is the JSON blob embedded in the NFT's URI.
type metadata struct {
	AmountBurned string `json:"amountBurned"`
	Date         string `json:"date"`
	Image        string `json:"image"`
}

// Service builds NFT mint payloads.
type Service struct {
	signer   token.Signer
	imageURL string
	logger   logger.Logger
	now      func() time.Time
}

// NewService creates a Service. imageURL is the fixed image reference
// embedded in every minted NFT's metadata.
func NewService(signer token.Signer, imageURL string, log logger.Logger) *Service {
	return &Service{
		signer:   signer,
		imageURL: imageURL,
		logger:   log,
		now:      time.Now,
	}
}

// Mint builds an NFTokenMint whose URI carries the burn metadata and hands
// it off for signing.
func (s *Service) Mint(ctx context.Context, account, amountBurned string) (*token.SignIntent, error) {
	if _, err := xrpl.ParseAmount(amountBurned); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAmount, "amountBurned must be a positive number")
	}
	if s.imageURL == "" {
		return nil, errors.Wrap(errors.ErrMissingField, "IMAGE_URL is not configured")
	}

	blob, err := json.Marshal(metadata{
		AmountBurned: amountBurned,
		Date:         s.now().UTC().Format(time.RFC3339),
		Image:        s.imageURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode NFT metadata")
	}

	tx, err := xrpl.NFTokenMint(account, blob)
	if err != nil {
		return nil, err
	}

	signed, err := s.signer.CreatePayload(ctx, tx, "")
	if err != nil {
		return nil, err
	}

	s.logger.Info("NFT mint payload created", map[string]interface{}{
		"account": account,
		"uuid":    signed.UUID,
	})
	return &token.SignIntent{UUID: signed.UUID, NextURL: signed.NextURL}, nil
}
