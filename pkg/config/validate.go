// Package config loads and validates service configuration.
package config

import (
	"fmt"
	"strings"
)

// ValidateCore ensures critical configuration is present.
func (c *Config) ValidateCore() error {
	var missing []string

	if strings.TrimSpace(c.Server.Port) == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if strings.TrimSpace(c.XRPL.NodeURL) == "" {
		missing = append(missing, "XRP_NODE_URL")
	}
	if strings.TrimSpace(c.Xumm.APIKey) == "" {
		missing = append(missing, "XUMM_API_KEY")
	}
	if strings.TrimSpace(c.Xumm.APISecret) == "" {
		missing = append(missing, "XUMM_API_SECRET")
	}
	if strings.TrimSpace(c.Issuer.ColdAddress) == "" {
		missing = append(missing, "COLD_ADDRESS")
	}
	if strings.TrimSpace(c.Issuer.CurrencyCode) == "" {
		missing = append(missing, "CURRENCY_CODE")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}

// ValidateIssuance checks the extra secrets needed by the server-signed
// token-issuance flow. Kept separate so read-only deployments can run
// without wallet secrets in the environment.
func (c *Config) ValidateIssuance() error {
	var missing []string

	if strings.TrimSpace(c.Issuer.ColdSecret) == "" {
		missing = append(missing, "COLD_SECRET")
	}
	if strings.TrimSpace(c.Issuer.HotAddress) == "" {
		missing = append(missing, "HOT_ADDRESS")
	}
	if strings.TrimSpace(c.Issuer.HotSecret) == "" {
		missing = append(missing, "HOT_SECRET")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing issuance configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}
