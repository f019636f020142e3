// Package session owns per-session state: account balances, the at-most-one
// pending transfer, and lightweight conversation memory.
package session

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Account is one of the two named accounts a session holds.
type Account string

const (
	Checking Account = "checking"
	Savings  Account = "savings"
)

// ParseAccount maps free-form text to a known account name.
func ParseAccount(raw string) (Account, bool) {
	switch Account(strings.ToLower(strings.TrimSpace(raw))) {
	case Checking:
		return Checking, true
	case Savings:
		return Savings, true
	}
	return "", false
}

// Title returns the account name capitalized for display.
func (a Account) Title() string {
	if a == "" {
		return ""
	}
	return strings.ToUpper(string(a[:1])) + string(a[1:])
}

// Other returns the counterpart account.
func (a Account) Other() Account {
	if a == Checking {
		return Savings
	}
	return Checking
}

// Stage is the slot-filling stage of a pending transfer.
type Stage int

const (
	StageAwaitingDirection Stage = iota + 1
	StageAwaitingAmount
	StageAwaitingConfirm
)

func (s Stage) String() string {
	switch s {
	case StageAwaitingDirection:
		return "awaiting_direction"
	case StageAwaitingAmount:
		return "awaiting_amount"
	case StageAwaitingConfirm:
		return "awaiting_confirm"
	}
	return "unknown"
}

// PendingTransfer is the in-progress, not-yet-executed transfer attached to a
// session. At most one exists per session; starting a new transfer overwrites
// it.
type PendingTransfer struct {
	// ID correlates confirmation tokens with this exact pending transfer.
	ID    string
	Stage Stage

	// From and To are empty until the direction is known.
	From Account
	To   Account

	// Amount is nil until the amount slot is filled.
	Amount *decimal.Decimal
	// AmountHint is captured when an amount arrives before the direction,
	// and pre-fills the amount prompt later.
	AmountHint *decimal.Decimal
}

// Session is the mutable per-session state. It must only be touched through
// Store.Update so that all read-modify-write access is serialized.
type Session struct {
	ID       string
	Balances map[Account]decimal.Decimal
	Pending  *PendingTransfer

	// LastIntent and Notes form the "memory-lite" used by the agent
	// handoff packet.
	LastIntent string
	Notes      []string
}

// AddNote appends a handoff note, keeping only the most recent few.
func (s *Session) AddNote(note string) {
	const keep = 6
	s.Notes = append(s.Notes, note)
	if len(s.Notes) > keep {
		s.Notes = s.Notes[len(s.Notes)-keep:]
	}
}

// Snapshot is a read-only copy of session state handed to content providers.
// Mutating it has no effect on the session.
type Snapshot struct {
	ID         string
	Balances   map[Account]decimal.Decimal
	LastIntent string
	Notes      []string
}

// Snapshot deep-copies the session's provider-visible state.
func (s *Session) Snapshot() Snapshot {
	balances := make(map[Account]decimal.Decimal, len(s.Balances))
	for account, amount := range s.Balances {
		balances[account] = amount
	}
	notes := make([]string, len(s.Notes))
	copy(notes, s.Notes)
	return Snapshot{
		ID:         s.ID,
		Balances:   balances,
		LastIntent: s.LastIntent,
		Notes:      notes,
	}
}
