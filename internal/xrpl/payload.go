package xrpl

import (
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"

	"tokend/pkg/errors"
)

// Payload is an unsigned transaction in the ledger's JSON submission shape.
// Built fresh per request and never persisted.
type Payload map[string]interface{}

// Transaction flag and setting constants, as defined by the ledger protocol.
const (
	tfSetNoRipple    = 0x00020000
	tfTransferable   = 8
	asfDefaultRipple = 8

	// issuerTransferRate encodes a 0.1% transfer fee (1.001 * 1e9).
	issuerTransferRate = 1001000000
)

// DefaultTrustLimit is the trust line ceiling used when the caller supplies
// no explicit limit.
const DefaultTrustLimit = "10000000"

// IssuanceTrustLimit is the hot wallet's trust line ceiling in the
// administrative issuance flow.
const IssuanceTrustLimit = "10000000000"

// NativePayment builds a Payment moving native XRP between two accounts.
func NativePayment(sender, destination string, amount decimal.Decimal) (Payload, error) {
	if !IsValidClassicAddress(sender) || !IsValidClassicAddress(destination) {
		return nil, errors.ErrInvalidAddress
	}
	if amount.Sign() <= 0 {
		return nil, errors.ErrInvalidAmount
	}
	drops, err := XRPToDrops(amount)
	if err != nil {
		return nil, err
	}

	return Payload{
		"TransactionType": "Payment",
		"Account":         sender,
		"Destination":     destination,
		"Amount":          drops,
	}, nil
}

// IssuedPayment builds a Payment delivering an issued currency. SendMax is
// inflated by the fixed 0.1% premium to cover path slippage; the delivered
// Amount stays exactly what the caller asked for.
func IssuedPayment(sender, destination string, amount decimal.Decimal, currency, issuer string) (Payload, error) {
	if !IsValidClassicAddress(sender) || !IsValidClassicAddress(destination) {
		return nil, errors.ErrInvalidAddress
	}
	if amount.Sign() <= 0 {
		return nil, errors.ErrInvalidAmount
	}

	return Payload{
		"TransactionType": "Payment",
		"Account":         sender,
		"Destination":     destination,
		"Amount": IssuedAmount{
			Currency: currency,
			Issuer:   issuer,
			Value:    amount.String(),
		},
		"SendMax": IssuedAmount{
			Currency: currency,
			Issuer:   issuer,
			Value:    WithSendMaxPremium(amount),
		},
	}, nil
}

// TrustSet builds a trust line authorization towards issuer for currency.
// An empty value falls back to DefaultTrustLimit. The no-rippling flag is
// always set.
func TrustSet(account, issuer, currency, value string) (Payload, error) {
	if !IsValidClassicAddress(account) {
		return nil, errors.ErrInvalidAddress
	}
	if !IsValidClassicAddress(issuer) {
		return nil, errors.ErrInvalidAddress
	}
	if strings.TrimSpace(currency) == "" {
		return nil, errors.Wrap(errors.ErrMissingField, "currency code is required")
	}

	if value == "" {
		value = DefaultTrustLimit
	}
	limit, err := decimal.NewFromString(value)
	if err != nil || limit.Sign() <= 0 {
		return nil, errors.ErrInvalidTrustValue
	}

	return Payload{
		"TransactionType": "TrustSet",
		"Account":         account,
		"LimitAmount": IssuedAmount{
			Currency: currency,
			Issuer:   issuer,
			Value:    limit.String(),
		},
		"Flags": tfSetNoRipple,
	}, nil
}

// Offer builds an OfferCreate for a buy or sell of an issued currency
// against native XRP at the given unit price. The action decides which side
// of the order carries the issued triple: a buy pays XRP to take the token,
// a sell offers the token to take XRP.
func Offer(account, action string, amount, price decimal.Decimal, currency, issuer string) (Payload, error) {
	if !IsValidClassicAddress(account) {
		return nil, errors.ErrInvalidAddress
	}
	if amount.Sign() <= 0 || price.Sign() <= 0 {
		return nil, errors.ErrInvalidAmount
	}

	token := IssuedAmount{
		Currency: currency,
		Issuer:   issuer,
		Value:    amount.String(),
	}
	total, err := XRPToDrops(amount.Mul(price))
	if err != nil {
		return nil, err
	}

	p := Payload{
		"TransactionType": "OfferCreate",
		"Account":         account,
	}
	switch action {
	case "buy":
		p["TakerPays"] = token
		p["TakerGets"] = total
	case "sell":
		p["TakerPays"] = total
		p["TakerGets"] = token
	default:
		return nil, errors.ErrInvalidAction
	}
	return p, nil
}

// IssuerSettings builds the AccountSet configuring the issuer account:
// default rippling enabled, a 0.1% transfer fee, and the hex-encoded domain.
func IssuerSettings(account, domain string) (Payload, error) {
	if !IsValidClassicAddress(account) {
		return nil, errors.ErrInvalidAddress
	}
	if strings.TrimSpace(domain) == "" {
		return nil, errors.Wrap(errors.ErrMissingField, "domain is required")
	}

	return Payload{
		"TransactionType": "AccountSet",
		"Account":         account,
		"TransferRate":    issuerTransferRate,
		"SetFlag":         asfDefaultRipple,
		"Domain":          hex.EncodeToString([]byte(domain)),
	}, nil
}

// IssuancePayment builds the Payment that moves the newly issued supply from
// the issuer to the hot wallet.
func IssuancePayment(issuer, hot, currency, supply string) (Payload, error) {
	if !IsValidClassicAddress(issuer) || !IsValidClassicAddress(hot) {
		return nil, errors.ErrInvalidAddress
	}
	amount, err := decimal.NewFromString(supply)
	if err != nil || amount.Sign() <= 0 {
		return nil, errors.ErrInvalidAmount
	}

	return Payload{
		"TransactionType": "Payment",
		"Account":         issuer,
		"Destination":     hot,
		"Amount": IssuedAmount{
			Currency: currency,
			Issuer:   issuer,
			Value:    amount.String(),
		},
	}, nil
}

// NFTokenMint builds a transferable NFT mint whose URI carries the given
// metadata, hex-encoded uppercase as the ledger expects.
func NFTokenMint(account string, metadata []byte) (Payload, error) {
	if !IsValidClassicAddress(account) {
		return nil, errors.ErrInvalidAddress
	}

	return Payload{
		"TransactionType": "NFTokenMint",
		"Account":         account,
		"URI":             strings.ToUpper(hex.EncodeToString(metadata)),
		"Flags":           tfTransferable,
		"NFTokenTaxon":    0,
	}, nil
}
