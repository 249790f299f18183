package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AleeCode25/panel-billeteras/service/ledger"
)

// WalletConfig is the static configuration for one monitored wallet.
type WalletConfig struct {
	ID          string
	Name        string
	AccessToken string
	OwnerID     int64
	Shifts      []ledger.Shift
}

// Config holds all application configuration loaded from environment variables.
// All required fields are validated at startup to ensure fail-fast behavior.
type Config struct {
	// Server configuration
	ServerAddr string
	LogLevel   string

	// Session gate credentials
	PanelUsername string
	PanelPassword string

	// MercadoPago configuration
	MercadoPagoBaseURL string

	// Timezone the shift windows are anchored to (fixed UTC offset)
	UTCOffset string
	Location  *time.Location

	// Monitored wallets
	Wallets []WalletConfig
}

// Load reads configuration from environment variables and validates all
// required fields. Returns an error if any required configuration is
// missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{}
	var errs []error

	// Server configuration
	cfg.ServerAddr = getEnvOrDefault("SERVER_ADDR", ":8080")
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	// Session gate credentials
	cfg.PanelUsername = os.Getenv("PANEL_USERNAME")
	if cfg.PanelUsername == "" {
		errs = append(errs, fmt.Errorf("PANEL_USERNAME is required"))
	}
	cfg.PanelPassword = os.Getenv("PANEL_PASSWORD")
	if cfg.PanelPassword == "" {
		errs = append(errs, fmt.Errorf("PANEL_PASSWORD is required"))
	}

	// MercadoPago configuration
	cfg.MercadoPagoBaseURL = getEnvOrDefault("MP_BASE_URL", "https://api.mercadopago.com")

	// Timezone: the accounts run on Argentina time
	cfg.UTCOffset = getEnvOrDefault("UTC_OFFSET", "-03:00")
	loc, err := parseUTCOffset(cfg.UTCOffset)
	if err != nil {
		errs = append(errs, fmt.Errorf("UTC_OFFSET: %w", err))
	} else {
		cfg.Location = loc
	}

	// Wallet registry: WALLETS is a comma-separated list of wallet ids;
	// each id has MP_TOKEN_<ID>, MP_CLIENT_ID_<ID>, MP_NAME_<ID> and
	// MP_SHIFTS_<ID> variables, with the id uppercased in the suffix.
	walletIDs := os.Getenv("WALLETS")
	if walletIDs == "" {
		errs = append(errs, fmt.Errorf("WALLETS is required"))
	} else {
		for _, id := range strings.Split(walletIDs, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			wc, werrs := loadWallet(id)
			errs = append(errs, werrs...)
			cfg.Wallets = append(cfg.Wallets, wc)
		}
		if len(cfg.Wallets) == 0 {
			errs = append(errs, fmt.Errorf("WALLETS must name at least one wallet"))
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %v", errs)
	}

	return cfg, nil
}

// MustLoad is like Load but panics if configuration is invalid.
// Useful for server initialization where misconfiguration should halt startup.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// loadWallet reads the per-wallet environment variables for one id.
func loadWallet(id string) (WalletConfig, []error) {
	var errs []error
	suffix := strings.ToUpper(id)

	wc := WalletConfig{
		ID:   id,
		Name: getEnvOrDefault("MP_NAME_"+suffix, id),
	}

	wc.AccessToken = os.Getenv("MP_TOKEN_" + suffix)
	if wc.AccessToken == "" {
		errs = append(errs, fmt.Errorf("MP_TOKEN_%s is required", suffix))
	}

	// A missing owner id is tolerated here; operations that need it
	// reject the call at request time instead.
	if raw := os.Getenv("MP_CLIENT_ID_" + suffix); raw != "" {
		ownerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("MP_CLIENT_ID_%s: invalid integer %q: %w", suffix, raw, err))
		} else {
			wc.OwnerID = ownerID
		}
	}

	if raw := os.Getenv("MP_SHIFTS_" + suffix); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			wc.Shifts = append(wc.Shifts, ledger.ParseShift(s))
		}
	}

	return wc, errs
}

// Validate checks if the configuration is valid.
// This is useful for testing configuration without loading from env.
func (c *Config) Validate() error {
	var errs []error

	if c.PanelUsername == "" {
		errs = append(errs, fmt.Errorf("PanelUsername is required"))
	}
	if c.PanelPassword == "" {
		errs = append(errs, fmt.Errorf("PanelPassword is required"))
	}
	if c.Location == nil {
		errs = append(errs, fmt.Errorf("Location is required"))
	}
	if len(c.Wallets) == 0 {
		errs = append(errs, fmt.Errorf("at least one wallet is required"))
	}
	for _, w := range c.Wallets {
		if w.ID == "" {
			errs = append(errs, fmt.Errorf("wallet id is required"))
		}
		if w.AccessToken == "" {
			errs = append(errs, fmt.Errorf("wallet %s: access token is required", w.ID))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errs)
	}
	return nil
}

// parseUTCOffset parses a fixed offset of the form "-03:00" or "+05:30"
// into a time.Location. There is no DST handling; the provider accounts
// live on a fixed offset.
func parseUTCOffset(offset string) (*time.Location, error) {
	if len(offset) != 6 || (offset[0] != '+' && offset[0] != '-') || offset[3] != ':' {
		return nil, fmt.Errorf("invalid offset %q: expected format ±HH:MM", offset)
	}

	hours, err := strconv.Atoi(offset[1:3])
	if err != nil {
		return nil, fmt.Errorf("invalid offset hours in %q: %w", offset, err)
	}
	minutes, err := strconv.Atoi(offset[4:6])
	if err != nil {
		return nil, fmt.Errorf("invalid offset minutes in %q: %w", offset, err)
	}
	if hours > 14 || minutes > 59 {
		return nil, fmt.Errorf("offset %q out of range", offset)
	}

	seconds := hours*3600 + minutes*60
	if offset[0] == '-' {
		seconds = -seconds
	}
	return time.FixedZone("UTC"+offset, seconds), nil
}

// getEnvOrDefault returns the environment variable value or a default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
