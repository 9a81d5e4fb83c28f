package token

import (
	"context"
	"strings"

	"tokend/internal/xrpl"
	"tokend/pkg/errors"
)

// IssueToken runs the administrative one-time issuance flow: configure the
// issuer account, open the hot wallet's trust line, then move the supply
// from issuer to hot wallet. Every step is signed server-side through the
// node's sign-and-submit mode and must come back tesSUCCESS before the next
// one runs. This is the only path where the facade submits directly; user
// transactions always go through the signing service.
func (s *Service) IssueToken(ctx context.Context, currencyCode, tokenSupply, domain string) (*IssuanceResult, error) {
	if strings.TrimSpace(currencyCode) == "" || strings.TrimSpace(tokenSupply) == "" || strings.TrimSpace(domain) == "" {
		return nil, errors.Wrap(errors.ErrMissingField, "currency_code, token_supply, and domain are required")
	}

	settings, err := xrpl.IssuerSettings(s.issuer.ColdAddress, domain)
	if err != nil {
		return nil, err
	}
	s.logger.Info("configuring issuer account", map[string]interface{}{
		"issuer": s.issuer.ColdAddress,
	})
	if _, err := s.ledger.Submit(ctx, settings, s.issuer.ColdSecret); err != nil {
		return nil, errors.Wrap(err, "configure issuer account")
	}

	trustLine, err := xrpl.TrustSet(s.issuer.HotAddress, s.issuer.ColdAddress, currencyCode, xrpl.IssuanceTrustLimit)
	if err != nil {
		return nil, err
	}
	s.logger.Info("creating hot wallet trust line", map[string]interface{}{
		"hot":      s.issuer.HotAddress,
		"currency": currencyCode,
	})
	if _, err := s.ledger.Submit(ctx, trustLine, s.issuer.HotSecret); err != nil {
		return nil, errors.Wrap(err, "create trust line")
	}

	issue, err := xrpl.IssuancePayment(s.issuer.ColdAddress, s.issuer.HotAddress, currencyCode, tokenSupply)
	if err != nil {
		return nil, err
	}
	s.logger.Info("issuing token supply", map[string]interface{}{
		"currency": currencyCode,
		"supply":   tokenSupply,
	})
	result, err := s.ledger.Submit(ctx, issue, s.issuer.ColdSecret)
	if err != nil {
		return nil, errors.Wrap(err, "issue tokens")
	}

	return &IssuanceResult{Success: true, TxHash: result.TxJSON.Hash}, nil
}
