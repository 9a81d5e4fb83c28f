// Package token implements the facade's token operations: balance lookups,
// native and issued-currency sends, trust lines, trades, swap-path
// discovery, and the administrative issuance flow.
package token

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"tokend/internal/ledger"
	"tokend/internal/xrpl"
	"tokend/internal/xumm"
	"tokend/pkg/config"
	"tokend/pkg/errors"
	"tokend/pkg/logger"
)

// Ledger is the query contract against the XRPL node.
type Ledger interface {
	AccountInfo(ctx context.Context, account string) (*ledger.AccountData, error)
	AccountLines(ctx context.Context, account string) ([]ledger.TrustLine, error)
	PathFind(ctx context.Context, source, destination string, destAmount xrpl.IssuedAmount) ([]ledger.PathAlternative, error)
	Submit(ctx context.Context, tx xrpl.Payload, secret string) (*ledger.SubmitResult, error)
}

// Signer hands a built payload to the external signing service.
type Signer interface {
	CreatePayload(ctx context.Context, tx xrpl.Payload, instruction string) (*xumm.SignedPayload, error)
}

// SignIntent is the caller-facing handle for a payload awaiting signature.
type SignIntent struct {
	UUID    string `json:"uuid"`
	NextURL string `json:"nextUrl"`
}

// Balance is a native-currency balance in whole XRP units.
type Balance struct {
	Account string      `json:"account"`
	Balance json.Number `json:"balance"`
}

// TokenBalance is the configured token's balance on an account.
type TokenBalance struct {
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
	Issuer   string `json:"issuer"`
}

// SwapPath is one discovered payment path, pass-through from the node.
type SwapPath struct {
	PathsComputed json.RawMessage `json:"paths_computed"`
	SourceAmount  json.RawMessage `json:"source_amount"`
}

// IssuanceResult reports a completed server-signed token issuance.
type IssuanceResult struct {
	Success bool   `json:"success"`
	TxHash  string `json:"tx_hash"`
}

// Service wires the ledger client and signing delegate together with the
// issuer configuration.
type Service struct {
	ledger Ledger
	signer Signer
	issuer config.IssuerConfig
	logger logger.Logger
}

// NewService creates a Service.
func NewService(lq Ledger, signer Signer, issuer config.IssuerConfig, log logger.Logger) *Service {
	return &Service{
		ledger: lq,
		signer: signer,
		issuer: issuer,
		logger: log,
	}
}

// XRPBalance fetches an account's native balance, converted from drops to
// whole units.
func (s *Service) XRPBalance(ctx context.Context, account string) (*Balance, error) {
	if account == "" {
		return nil, errors.Wrap(errors.ErrMissingField, "account is required")
	}

	data, err := s.ledger.AccountInfo(ctx, account)
	if err != nil {
		return nil, err
	}

	xrp, err := xrpl.DropsToXRP(data.Balance)
	if err != nil {
		return nil, err
	}

	return &Balance{
		Account: data.Account,
		Balance: json.Number(xrp.String()),
	}, nil
}

// TokenBalance fetches the configured token's balance on an account from its
// trust lines. An account without a matching trust line holds none of the
// token, so it reports a zero balance rather than an error.
func (s *Service) TokenBalance(ctx context.Context, account string) (*TokenBalance, error) {
	if account == "" {
		return nil, errors.Wrap(errors.ErrMissingField, "account is required")
	}

	lines, err := s.ledger.AccountLines(ctx, account)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		if line.Account == s.issuer.ColdAddress && line.Currency == s.issuer.CurrencyCode {
			return &TokenBalance{
				Balance:  line.Balance,
				Currency: line.Currency,
				Issuer:   line.Account,
			}, nil
		}
	}

	return &TokenBalance{
		Balance:  "0",
		Currency: s.issuer.CurrencyCode,
		Issuer:   s.issuer.ColdAddress,
	}, nil
}

// SendXRP builds a native payment and hands it off for signing. The sender's
// balance must cover the amount before any payload is created.
func (s *Service) SendXRP(ctx context.Context, sender, destination, amount string) (*SignIntent, error) {
	value, err := xrpl.ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	if !xrpl.IsValidClassicAddress(sender) || !xrpl.IsValidClassicAddress(destination) {
		return nil, errors.ErrInvalidAddress
	}

	current, err := s.XRPBalance(ctx, sender)
	if err != nil {
		return nil, err
	}
	held, err := decimal.NewFromString(current.Balance.String())
	if err != nil {
		return nil, errors.Wrap(err, "sender balance")
	}
	if held.LessThan(value) {
		return nil, errors.ErrInsufficientBalance
	}

	tx, err := xrpl.NativePayment(sender, destination, value)
	if err != nil {
		return nil, err
	}
	return s.sign(ctx, tx, "")
}

// SendTokens builds an issued-currency payment for the configured token and
// hands it off for signing.
func (s *Service) SendTokens(ctx context.Context, sender, destination, amount string) (*SignIntent, error) {
	value, err := xrpl.ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	tx, err := xrpl.IssuedPayment(sender, destination, value, s.issuer.CurrencyCode, s.issuer.ColdAddress)
	if err != nil {
		return nil, err
	}
	return s.sign(ctx, tx, "")
}

// TrustLineResult carries the signing handle plus a user-facing message.
type TrustLineResult struct {
	UUID    string `json:"uuid"`
	NextURL string `json:"nextUrl"`
	Message string `json:"message"`
}

// CreateTrustLine builds a TrustSet authorizing the user to hold the given
// issuer's currency and hands it off for signing.
func (s *Service) CreateTrustLine(ctx context.Context, userAccount, issuerAddress, currencyCode, value string) (*TrustLineResult, error) {
	tx, err := xrpl.TrustSet(userAccount, issuerAddress, currencyCode, value)
	if err != nil {
		return nil, err
	}

	instruction := fmt.Sprintf("Please sign to create a trust line for %s with issuer %s", currencyCode, issuerAddress)
	intent, err := s.sign(ctx, tx, instruction)
	if err != nil {
		return nil, err
	}

	return &TrustLineResult{
		UUID:    intent.UUID,
		NextURL: intent.NextURL,
		Message: "Trust line transaction created successfully. Use the provided URL to sign.",
	}, nil
}

// Trade builds an OfferCreate buying or selling the configured token against
// native XRP. An unknown action is rejected before any external call.
func (s *Service) Trade(ctx context.Context, account, action, amount, price string) (*SignIntent, error) {
	if action != "buy" && action != "sell" {
		return nil, errors.ErrInvalidAction
	}

	amt, err := xrpl.ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	prc, err := xrpl.ParseAmount(price)
	if err != nil {
		return nil, err
	}

	tx, err := xrpl.Offer(account, action, amt, prc, s.issuer.CurrencyCode, s.issuer.ColdAddress)
	if err != nil {
		return nil, err
	}
	return s.sign(ctx, tx, "")
}

// SwapPaths asks the node for payment paths delivering value of the
// configured token between two accounts.
func (s *Service) SwapPaths(ctx context.Context, source, destination, value string) ([]SwapPath, error) {
	amount, err := xrpl.ParseAmount(value)
	if err != nil {
		return nil, err
	}
	if !xrpl.IsValidClassicAddress(source) || !xrpl.IsValidClassicAddress(destination) {
		return nil, errors.ErrInvalidAddress
	}

	alternatives, err := s.ledger.PathFind(ctx, source, destination, xrpl.IssuedAmount{
		Currency: s.issuer.CurrencyCode,
		Issuer:   s.issuer.ColdAddress,
		Value:    amount.String(),
	})
	if err != nil {
		return nil, err
	}

	paths := make([]SwapPath, 0, len(alternatives))
	for _, alt := range alternatives {
		paths = append(paths, SwapPath{
			PathsComputed: alt.PathsComputed,
			SourceAmount:  alt.SourceAmount,
		})
	}
	return paths, nil
}

func (s *Service) sign(ctx context.Context, tx xrpl.Payload, instruction string) (*SignIntent, error) {
	signed, err := s.signer.CreatePayload(ctx, tx, instruction)
	if err != nil {
		return nil, err
	}
	return &SignIntent{UUID: signed.UUID, NextURL: signed.NextURL}, nil
}
