package wallet

import (
	"testing"

	"github.com/AleeCode25/panel-billeteras/service/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetAndList(t *testing.T) {
	wallets := []*Wallet{
		{ID: "cuenta_a", Name: "Cuenta A"},
		{ID: "cuenta_b", Name: "Cuenta B"},
	}
	registry := NewRegistry(wallets)

	got, err := registry.Get("cuenta_b")
	require.NoError(t, err)
	assert.Equal(t, "Cuenta B", got.Name)

	list := registry.List()
	require.Len(t, list, 2)
	// Configuration order preserved
	assert.Equal(t, "cuenta_a", list[0].ID)
	assert.Equal(t, "cuenta_b", list[1].ID)
}

func TestRegistry_NotFound(t *testing.T) {
	registry := NewRegistry(nil)

	_, err := registry.Get("missing")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestWallet_ServesShift(t *testing.T) {
	w := &Wallet{ID: "w", Shifts: []ledger.Shift{ledger.ShiftMorning, ledger.ShiftNight}}

	assert.True(t, w.ServesShift(ledger.ShiftAll), "every wallet serves the full-day view")
	assert.True(t, w.ServesShift(ledger.ShiftMorning))
	assert.True(t, w.ServesShift(ledger.ShiftNight))
	assert.False(t, w.ServesShift(ledger.ShiftAfternoon))
}
