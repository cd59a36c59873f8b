package domain

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleOwner      Role = "OWNER"
	RoleManager    Role = "MANAGER"
	RoleSuperagent Role = "SUPERAGENT"
	RoleJester     Role = "JESTER"
)

// creatableBy maps an actor role to the roles it may create. Accounts are
// always created with the actor as superior.
var creatableBy = map[Role][]Role{
	RoleOwner:      {RoleManager, RoleSuperagent, RoleJester},
	RoleManager:    {RoleSuperagent, RoleJester},
	RoleSuperagent: {RoleJester},
	RoleJester:     {},
}

// CanCreate reports whether an account with role r may create an account
// with role target.
func (r Role) CanCreate(target Role) bool {
	for _, allowed := range creatableBy[r] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ParseRole resolves a raw role string once, at the boundary. "USER" is a
// legacy alias for JESTER kept for older clients.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if r == "USER" {
		r = RoleJester
	}
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidRequest, s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleSuperagent, RoleJester:
		return true
	}
	return false
}

type Account struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     string  `json:"phone"`
	Email     string  `json:"email,omitempty"`
	Password  string  `json:"-"`
	City      string  `json:"city,omitempty"`
	Region    string  `json:"region,omitempty"`
	Role      Role    `json:"role"`
	Balance   Balance `json:"balance"`

	// OpeningBalanceCents is the balance granted at creation. The ledger
	// replay audit uses it as the baseline for recomputing balances.
	OpeningBalanceCents int64 `json:"-"`

	// SuperiorID points at the account that created and manages this one.
	// It is nil only for the OWNER root.
	SuperiorID *int64    `json:"superior_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Name returns the display name used on transaction records.
func (a *Account) Name() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}
