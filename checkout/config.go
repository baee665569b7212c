package checkout

import (
    "os"
    "strings"
)

// Config is the process-wide configuration for the checkout application.
// It is loaded once at startup and never mutated afterwards, so concurrent
// reads need no synchronization.
type Config struct {
    HTTPAddr string

    // Gateway connection.
    GatewayBaseURL string
    APIVersion     string
    // APIUsername overrides the default "merchant.{merchantId}" Basic auth
    // user when set.
    APIUsername string
    APIPassword string

    // MerchantID is the default merchant identity.
    MerchantID string
    // MerchantIDByCurrency maps a currency code to a dedicated merchant
    // identity; currencies without an entry settle under MerchantID.
    MerchantIDByCurrency map[string]string

    // MerchantName is displayed on the hosted payment page.
    MerchantName string
    // ReturnURL is where the gateway sends the customer after the 3DS step.
    ReturnURL string
}

func DefaultConfig() *Config {
    return &Config{
        HTTPAddr:   "localhost:8080",
        APIVersion: "63",
    }
}

// ConfigFromEnv builds a Config from the environment, falling back to
// defaults for anything unset.
func ConfigFromEnv() *Config {
    cfg := DefaultConfig()
    cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
    cfg.GatewayBaseURL = getenv("MPGS_BASE_URL", "")
    cfg.APIVersion = getenv("MPGS_API_VERSION", cfg.APIVersion)
    cfg.APIUsername = getenv("MPGS_API_USERNAME", "")
    cfg.APIPassword = getenv("MPGS_API_PASSWORD", "")
    cfg.MerchantID = getenv("MPGS_MERCHANT_ID", "")
    cfg.MerchantName = getenv("MPGS_MERCHANT_NAME", "")
    cfg.ReturnURL = getenv("MPGS_RETURN_URL", "")

    for _, cur := range []string{"KWD", "USD", "EUR"} {
        if id := os.Getenv("MPGS_MERCHANT_ID_" + cur); id != "" {
            if cfg.MerchantIDByCurrency == nil {
                cfg.MerchantIDByCurrency = map[string]string{}
            }
            cfg.MerchantIDByCurrency[cur] = id
        }
    }

    return cfg
}

// MerchantFor resolves the merchant identity for a currency: the
// currency-specific identity when one is configured and non-empty, the
// default identity otherwise. Resolution never fails; an unknown or empty
// currency simply lands on the default.
func (c *Config) MerchantFor(currencyCode string) string {
    if id, ok := c.MerchantIDByCurrency[strings.ToUpper(currencyCode)]; ok && id != "" {
        return id
    }
    return c.MerchantID
}

func getenv(k, def string) string {
    if v := os.Getenv(k); v != "" {
        return v
    }
    return def
}
