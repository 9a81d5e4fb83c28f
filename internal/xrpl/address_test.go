package xrpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidClassicAddress(t *testing.T) {
	valid := []string{
		"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", // genesis account
		"rN7n7otQDd6FczFgLdSqtcsAUxDkw6fzRH",
		"rrrrrrrrrrrrrrrrrrrrrhoLvTp", // ACCOUNT_ZERO
		"rrrrrrrrrrrrrrrrrrrrBZbvji",  // ACCOUNT_ONE
	}
	for _, addr := range valid {
		assert.True(t, IsValidClassicAddress(addr), addr)
	}

	invalid := []string{
		"",
		"r",
		"xrp",
		"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTi",  // checksum broken
		"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",  // wrong alphabet start
		"rHb9CJAWyB4rj91VRWn96DkukG4bwdty0h",  // '0' not in alphabet
		"sHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh",  // wrong leading character
		"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyThrHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh",
	}
	for _, addr := range invalid {
		assert.False(t, IsValidClassicAddress(addr), addr)
	}
}
