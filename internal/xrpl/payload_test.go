package xrpl

import (
	"encoding/hex"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokend/pkg/errors"
)

const (
	sender      = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	destination = "rN7n7otQDd6FczFgLdSqtcsAUxDkw6fzRH"
	issuer      = "rrrrrrrrrrrrrrrrrrrrrhoLvTp"
)

func TestNativePayment(t *testing.T) {
	p, err := NativePayment(sender, destination, decimal.RequireFromString("2.5"))
	require.NoError(t, err)

	assert.Equal(t, "Payment", p["TransactionType"])
	assert.Equal(t, sender, p["Account"])
	assert.Equal(t, destination, p["Destination"])
	assert.Equal(t, "2500000", p["Amount"])
}

func TestNativePaymentRejectsBadInput(t *testing.T) {
	_, err := NativePayment("not-an-address", destination, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, errors.ErrInvalidAddress)

	_, err = NativePayment(sender, "also-bad", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, errors.ErrInvalidAddress)

	_, err = NativePayment(sender, destination, decimal.Zero)
	assert.ErrorIs(t, err, errors.ErrInvalidAmount)

	_, err = NativePayment(sender, destination, decimal.NewFromInt(-3))
	assert.ErrorIs(t, err, errors.ErrInvalidAmount)
}

func TestIssuedPaymentSendMaxPremium(t *testing.T) {
	p, err := IssuedPayment(sender, destination, decimal.RequireFromString("100"), "KYD", issuer)
	require.NoError(t, err)

	amount := p["Amount"].(IssuedAmount)
	assert.Equal(t, "KYD", amount.Currency)
	assert.Equal(t, issuer, amount.Issuer)
	assert.Equal(t, "100", amount.Value)

	// SendMax carries exactly the 0.1% premium; Amount stays unmodified.
	sendMax := p["SendMax"].(IssuedAmount)
	assert.Equal(t, "100.10000000", sendMax.Value)
	assert.Equal(t, "KYD", sendMax.Currency)
	assert.Equal(t, issuer, sendMax.Issuer)
}

func TestTrustSet(t *testing.T) {
	p, err := TrustSet(sender, issuer, "KYD", "5000")
	require.NoError(t, err)

	assert.Equal(t, "TrustSet", p["TransactionType"])
	assert.Equal(t, sender, p["Account"])
	assert.Equal(t, 0x00020000, p["Flags"])

	limit := p["LimitAmount"].(IssuedAmount)
	assert.Equal(t, "5000", limit.Value)
	assert.Equal(t, "KYD", limit.Currency)
	assert.Equal(t, issuer, limit.Issuer)
}

func TestTrustSetDefaultsLimit(t *testing.T) {
	p, err := TrustSet(sender, issuer, "KYD", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultTrustLimit, p["LimitAmount"].(IssuedAmount).Value)
}

func TestTrustSetRejectsBadValues(t *testing.T) {
	for _, v := range []string{"0", "-1", "abc", "1.2.3"} {
		_, err := TrustSet(sender, issuer, "KYD", v)
		assert.ErrorIs(t, err, errors.ErrInvalidTrustValue, v)
	}

	_, err := TrustSet(sender, issuer, "", "100")
	assert.ErrorIs(t, err, errors.ErrMissingField)
}

func TestOfferSides(t *testing.T) {
	amount := decimal.RequireFromString("10")
	price := decimal.RequireFromString("0.5")

	buy, err := Offer(sender, "buy", amount, price, "KYD", issuer)
	require.NoError(t, err)
	assert.Equal(t, "OfferCreate", buy["TransactionType"])
	// Buying: the issued triple is what the taker pays us.
	assert.Equal(t, IssuedAmount{Currency: "KYD", Issuer: issuer, Value: "10"}, buy["TakerPays"])
	assert.Equal(t, "5000000", buy["TakerGets"])

	sell, err := Offer(sender, "sell", amount, price, "KYD", issuer)
	require.NoError(t, err)
	assert.Equal(t, IssuedAmount{Currency: "KYD", Issuer: issuer, Value: "10"}, sell["TakerGets"])
	assert.Equal(t, "5000000", sell["TakerPays"])
}

func TestOfferRejectsUnknownAction(t *testing.T) {
	_, err := Offer(sender, "hold", decimal.NewFromInt(1), decimal.NewFromInt(1), "KYD", issuer)
	assert.ErrorIs(t, err, errors.ErrInvalidAction)
}

func TestIssuerSettings(t *testing.T) {
	p, err := IssuerSettings(issuer, "example.com")
	require.NoError(t, err)

	assert.Equal(t, "AccountSet", p["TransactionType"])
	assert.Equal(t, issuer, p["Account"])
	assert.Equal(t, 1001000000, p["TransferRate"])
	assert.Equal(t, asfDefaultRipple, p["SetFlag"])
	assert.Equal(t, hex.EncodeToString([]byte("example.com")), p["Domain"])
}

func TestNFTokenMintURI(t *testing.T) {
	meta := []byte(`{"amountBurned":"5"}`)
	p, err := NFTokenMint(sender, meta)
	require.NoError(t, err)

	assert.Equal(t, "NFTokenMint", p["TransactionType"])
	assert.Equal(t, tfTransferable, p["Flags"])
	assert.Equal(t, 0, p["NFTokenTaxon"])

	decoded, decodeErr := hex.DecodeString(p["URI"].(string))
	require.NoError(t, decodeErr)
	assert.Equal(t, meta, decoded)
}

func TestDropsConversion(t *testing.T) {
	drops, err := XRPToDrops(decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Equal(t, "1000000", drops)

	drops, err = XRPToDrops(decimal.RequireFromString("0.000001"))
	require.NoError(t, err)
	assert.Equal(t, "1", drops)

	xrp, err := DropsToXRP("2500000")
	require.NoError(t, err)
	assert.Equal(t, "2.5", xrp.String())
}

func TestXRPToDropsRejectsSubDropPrecision(t *testing.T) {
	for _, v := range []string{"0.0000001", "0.5000001", "1.23456789"} {
		_, err := XRPToDrops(decimal.RequireFromString(v))
		assert.ErrorIs(t, err, errors.ErrInvalidAmount, v)
	}
}

func TestNativePaymentRejectsSubDropAmount(t *testing.T) {
	_, err := NativePayment(sender, destination, decimal.RequireFromString("0.0000001"))
	assert.ErrorIs(t, err, errors.ErrInvalidAmount)

	_, err = NativePayment(sender, destination, decimal.RequireFromString("0.5000001"))
	assert.ErrorIs(t, err, errors.ErrInvalidAmount)
}

func TestOfferRejectsSubDropTotal(t *testing.T) {
	_, err := Offer(sender, "buy", decimal.RequireFromString("1"), decimal.RequireFromString("0.0000005"), "KYD", issuer)
	assert.ErrorIs(t, err, errors.ErrInvalidAmount)
}
