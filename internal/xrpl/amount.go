package xrpl

import (
	"github.com/shopspring/decimal"

	"tokend/pkg/errors"
)

// dropsPerXRP is the ledger's minor-unit ratio: 1 XRP = 1,000,000 drops.
var dropsPerXRP = decimal.NewFromInt(1_000_000)

// sendMaxPremium is the fixed 0.1% fee premium applied to SendMax on
// issued-currency payments to absorb path slippage.
var sendMaxPremium = decimal.RequireFromString("1.001")

// IssuedAmount is the {currency, issuer, value} triple used for
// issued-currency fields. Value is always a positive decimal string.
type IssuedAmount struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer"`
	Value    string `json:"value"`
}

// ParseAmount parses a caller-supplied amount and requires it to be a
// strictly positive decimal.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errors.ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return decimal.Decimal{}, errors.ErrInvalidAmount
	}
	return d, nil
}

// XRPToDrops converts a whole-unit XRP amount into an integer drops string.
// Amounts with sub-drop precision (more than six decimal places) are
// rejected rather than silently truncated.
func XRPToDrops(xrp decimal.Decimal) (string, error) {
	drops := xrp.Mul(dropsPerXRP)
	if !drops.IsInteger() {
		return "", errors.ErrInvalidAmount
	}
	return drops.String(), nil
}

// DropsToXRP converts an integer drops string into whole XRP units.
func DropsToXRP(drops string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(drops)
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "malformed drops value")
	}
	return d.Div(dropsPerXRP), nil
}

// WithSendMaxPremium inflates amount by the fixed fee premium, rendered with
// eight decimal places the way the ledger accepts it.
func WithSendMaxPremium(amount decimal.Decimal) string {
	return amount.Mul(sendMaxPremium).StringFixed(8)
}
