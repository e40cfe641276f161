// Package equipment is the single entry point for equipment transitions. It
// wraps the inventory store, gates purchases on an economy, and notifies
// observers with a snapshot of the equipped slots after every change.
package equipment

//go:generate mockgen -destination=mock/mock_economy.go -package=equipmentmock github.com/cory-johannsen/skirmish/internal/game/equipment Economy

import (
	"errors"
	"math"

	"github.com/cory-johannsen/skirmish/internal/game/inventory"
)

// ErrInsufficientFunds means the economy refused a purchase.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Economy is the balance check and deduction used by Buy.
type Economy interface {
	// CanAfford reports whether item's value is covered by the balance.
	CanAfford(item *inventory.Item) bool
	// Deduct removes amount from the balance.
	Deduct(amount float64)
}

// Wallet is an in-memory Economy holding a single balance.
//
// Invariant: Balance() >= 0.
type Wallet struct {
	balance float64
}

// NewWallet returns a Wallet holding balance; negative balances start at 0.
func NewWallet(balance float64) *Wallet {
	return &Wallet{balance: math.Max(0, balance)}
}

// Balance returns the current balance.
func (w *Wallet) Balance() float64 { return w.balance }

// CanAfford reports whether the balance covers item.Value.
func (w *Wallet) CanAfford(item *inventory.Item) bool {
	return item != nil && w.balance >= item.Value
}

// Deduct removes amount from the balance, never going below zero.
func (w *Wallet) Deduct(amount float64) {
	w.balance = math.Max(0, w.balance-amount)
}

// Credit adds amount to the balance. Non-positive amounts are ignored.
func (w *Wallet) Credit(amount float64) {
	if amount > 0 {
		w.balance += amount
	}
}
