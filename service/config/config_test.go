package config

import (
	"testing"
	"time"

	"github.com/AleeCode25/panel-billeteras/service/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("PANEL_USERNAME", "admin")
	t.Setenv("PANEL_PASSWORD", "secret")
	t.Setenv("WALLETS", "cuenta_a")
	t.Setenv("MP_TOKEN_CUENTA_A", "APP_USR-token-a")
}

func TestLoad(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MP_CLIENT_ID_CUENTA_A", "123456789")
	t.Setenv("MP_NAME_CUENTA_A", "Cuenta A")
	t.Setenv("MP_SHIFTS_CUENTA_A", "morning,night")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "admin", cfg.PanelUsername)
	assert.Equal(t, "https://api.mercadopago.com", cfg.MercadoPagoBaseURL)
	assert.Equal(t, "-03:00", cfg.UTCOffset)
	require.NotNil(t, cfg.Location)

	require.Len(t, cfg.Wallets, 1)
	w := cfg.Wallets[0]
	assert.Equal(t, "cuenta_a", w.ID)
	assert.Equal(t, "Cuenta A", w.Name)
	assert.Equal(t, "APP_USR-token-a", w.AccessToken)
	assert.Equal(t, int64(123456789), w.OwnerID)
	assert.Equal(t, []ledger.Shift{ledger.ShiftMorning, ledger.ShiftNight}, w.Shifts)

	// The configured offset anchors day windows
	midnight := time.Date(2024, 5, 1, 0, 0, 0, 0, cfg.Location)
	assert.Equal(t, "2024-05-01T03:00:00Z", midnight.UTC().Format(time.RFC3339))
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	w := cfg.Wallets[0]
	assert.Equal(t, "cuenta_a", w.Name, "name defaults to the wallet id")
	assert.Zero(t, w.OwnerID, "owner id is optional")
	assert.Empty(t, w.Shifts, "shifts are optional")
}

func TestLoad_MultipleWallets(t *testing.T) {
	t.Setenv("PANEL_USERNAME", "admin")
	t.Setenv("PANEL_PASSWORD", "secret")
	t.Setenv("WALLETS", "cuenta_a, cuenta_b")
	t.Setenv("MP_TOKEN_CUENTA_A", "token-a")
	t.Setenv("MP_TOKEN_CUENTA_B", "token-b")

	cfg, err := Load()
	require.NoError(t, err)

	require.Len(t, cfg.Wallets, 2)
	assert.Equal(t, "cuenta_a", cfg.Wallets[0].ID)
	assert.Equal(t, "cuenta_b", cfg.Wallets[1].ID)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name        string
		unset       string
		errContains string
	}{
		{name: "panel username", unset: "PANEL_USERNAME", errContains: "PANEL_USERNAME is required"},
		{name: "panel password", unset: "PANEL_PASSWORD", errContains: "PANEL_PASSWORD is required"},
		{name: "wallets", unset: "WALLETS", errContains: "WALLETS is required"},
		{name: "wallet token", unset: "MP_TOKEN_CUENTA_A", errContains: "MP_TOKEN_CUENTA_A is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoad_InvalidOwnerID(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MP_CLIENT_ID_CUENTA_A", "not-a-number")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MP_CLIENT_ID_CUENTA_A")
}

func TestLoad_InvalidOffset(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("UTC_OFFSET", "-3")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UTC_OFFSET")
}

func TestParseUTCOffset(t *testing.T) {
	tests := []struct {
		offset      string
		wantSeconds int
		wantErr     bool
	}{
		{offset: "-03:00", wantSeconds: -3 * 3600},
		{offset: "+05:30", wantSeconds: 5*3600 + 30*60},
		{offset: "+00:00", wantSeconds: 0},
		{offset: "-03", wantErr: true},
		{offset: "03:00", wantErr: true},
		{offset: "-3:00", wantErr: true},
		{offset: "-03.00", wantErr: true},
		{offset: "-15:00", wantErr: true},
		{offset: "-03:75", wantErr: true},
		{offset: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.offset, func(t *testing.T) {
			loc, err := parseUTCOffset(tt.offset)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
			assert.Equal(t, tt.wantSeconds, offset)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		PanelUsername: "admin",
		PanelPassword: "secret",
		Location:      time.FixedZone("UTC-03:00", -3*60*60),
		Wallets: []WalletConfig{
			{ID: "cuenta_a", AccessToken: "token"},
		},
	}
	assert.NoError(t, valid.Validate())

	missingToken := *valid
	missingToken.Wallets = []WalletConfig{{ID: "cuenta_a"}}
	err := missingToken.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access token is required")

	noWallets := *valid
	noWallets.Wallets = nil
	assert.Error(t, noWallets.Validate())

	noLocation := *valid
	noLocation.Location = nil
	assert.Error(t, noLocation.Validate())
}
