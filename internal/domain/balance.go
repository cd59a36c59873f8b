package domain

import (
	"encoding/json"
	"fmt"
)

// Balance is a wallet balance in integer cents. The OWNER root account has an
// unlimited balance; that state is carried in the type rather than as a magic
// amount, so arithmetic on an unlimited balance can never leak into the
// ledger.
type Balance struct {
	unlimited bool
	cents     int64
}

func NewBalance(cents int64) Balance {
	return Balance{cents: cents}
}

func UnlimitedBalance() Balance {
	return Balance{unlimited: true}
}

func (b Balance) Unlimited() bool { return b.unlimited }

// Cents returns the concrete amount. It is only meaningful when the balance
// is not unlimited.
func (b Balance) Cents() int64 { return b.cents }

// Add applies a signed delta and returns the new balance. Debits that would
// take a tracked balance below zero fail with ErrInsufficientFunds. Deltas
// against an unlimited balance are absorbed without change.
func (b Balance) Add(delta int64) (Balance, error) {
	if b.unlimited {
		return b, nil
	}
	next := b.cents + delta
	if next < 0 {
		return b, ErrInsufficientFunds
	}
	return Balance{cents: next}, nil
}

// Covers reports whether the balance can pay the given amount.
func (b Balance) Covers(amount int64) bool {
	return b.unlimited || b.cents >= amount
}

// MarshalJSON renders an unlimited balance as the string "UNLIMITED" and a
// tracked balance as its cent amount.
func (b Balance) MarshalJSON() ([]byte, error) {
	if b.unlimited {
		return json.Marshal("UNLIMITED")
	}
	return json.Marshal(b.cents)
}

func (b *Balance) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "UNLIMITED" {
			return fmt.Errorf("invalid balance %q", s)
		}
		*b = UnlimitedBalance()
		return nil
	}
	var cents int64
	if err := json.Unmarshal(data, &cents); err != nil {
		return err
	}
	*b = NewBalance(cents)
	return nil
}

func (b Balance) String() string {
	if b.unlimited {
		return "UNLIMITED"
	}
	return fmt.Sprintf("%d", b.cents)
}
