package wallet

import (
	"errors"
	"slices"

	"github.com/AleeCode25/panel-billeteras/service/ledger"
)

// ErrWalletNotFound is returned when a wallet id is not registered.
var ErrWalletNotFound = errors.New("wallet not found")

// Wallet is one MercadoPago merchant identity the panel watches.
// AccessToken and OwnerID are read-only configuration; they are never
// mutated after the registry is built.
type Wallet struct {
	ID          string
	Name        string
	AccessToken string
	OwnerID     int64
	Shifts      []ledger.Shift
}

// ServesShift reports whether the wallet participates in the given
// shift. Every wallet serves the full-day view.
func (w *Wallet) ServesShift(shift ledger.Shift) bool {
	if shift == ledger.ShiftAll {
		return true
	}
	return slices.Contains(w.Shifts, shift)
}

// Registry holds the static set of configured wallets, in the order
// they were configured.
type Registry struct {
	wallets []*Wallet
	byID    map[string]*Wallet
}

// NewRegistry builds a registry from the configured wallet set.
func NewRegistry(wallets []*Wallet) *Registry {
	byID := make(map[string]*Wallet, len(wallets))
	for _, w := range wallets {
		byID[w.ID] = w
	}
	return &Registry{wallets: wallets, byID: byID}
}

// Get returns the wallet with the given id, or ErrWalletNotFound.
func (r *Registry) Get(id string) (*Wallet, error) {
	w, ok := r.byID[id]
	if !ok {
		return nil, ErrWalletNotFound
	}
	return w, nil
}

// List returns all registered wallets in configuration order.
func (r *Registry) List() []*Wallet {
	return r.wallets
}
