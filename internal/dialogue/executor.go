package dialogue

import (
	"errors"

	"github.com/compass-cx/orchestrator/internal/crypto"
	"github.com/compass-cx/orchestrator/internal/logger"
	"github.com/compass-cx/orchestrator/internal/session"
	"github.com/compass-cx/orchestrator/pkg/types"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoPendingConfirmation is returned when a confirm arrives with no
	// matching pending transfer in the confirmation stage.
	ErrNoPendingConfirmation = errors.New("no pending transfer to confirm")
	// ErrInsufficientFunds is returned when the source balance no longer
	// covers the amount at execution time.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Executor applies confirmed transfers to session balances exactly once.
type Executor struct {
	store  *session.Store
	tokens *crypto.TokenManager
}

// NewExecutor creates a transfer executor.
func NewExecutor(store *session.Store, tokens *crypto.TokenManager) *Executor {
	return &Executor{store: store, tokens: tokens}
}

// Confirm validates the confirmation token against the session's pending
// transfer and executes it.
//
// Funds are re-validated against the current balances, not the balances at
// the time the confirmation was offered. The debit and credit are applied
// inside a single Store.Update, so a partial transfer is never observable
// and a double-tapped confirm finds the pending transfer already cleared.
func (e *Executor) Confirm(sessionID, token string) (Result, error) {
	var (
		res     Result
		execErr error
	)
	storeErr := e.store.Update(sessionID, func(s *session.Session) error {
		claims, err := e.tokens.Verify(token)
		if err != nil || claims.SessionID != s.ID {
			res, execErr = rejectedResult(), ErrNoPendingConfirmation
			return nil
		}

		pending := s.Pending
		if pending == nil || pending.Stage != session.StageAwaitingConfirm || pending.ID != claims.PendingID {
			res, execErr = rejectedResult(), ErrNoPendingConfirmation
			return nil
		}

		amount := *pending.Amount
		available := s.Balances[pending.From]
		if amount.GreaterThan(available) {
			// The session must not be left confirmable-but-invalid.
			s.Pending = nil
			reason := "Insufficient funds in " + pending.From.Title() + ". Available: " + money(available)
			res = Result{
				Outcome:  OutcomeBlocked,
				Messages: []types.Message{types.Assistant(reason)},
				Card:     types.NewCard("Action blocked", "Insufficient funds", pending.From.Title()+" available: "+money(available)),
			}
			execErr = ErrInsufficientFunds
			return nil
		}

		s.Balances[pending.From] = available.Sub(amount)
		s.Balances[pending.To] = s.Balances[pending.To].Add(amount)
		s.Pending = nil

		balances := make(map[session.Account]decimal.Decimal, len(s.Balances))
		for account, value := range s.Balances {
			balances[account] = value
		}

		logger.Infof("[executor] session %s moved %s from %s to %s",
			s.ID, money(amount), pending.From, pending.To)
		res = Result{
			Outcome: OutcomeExecuted,
			Messages: []types.Message{types.Assistant(
				"Transfer complete. Moved " + money(amount) + " from " + pending.From.Title() + " to " + pending.To.Title() + ".")},
			Card:     types.NewCard("Transfer Complete", "Updated balances", balancesBody(balances)),
			Balances: balances,
		}
		return nil
	})
	if storeErr != nil {
		return Result{}, storeErr
	}
	return res, execErr
}

// Cancel clears any pending transfer. It is a safety valve: it succeeds
// regardless of stage and does not check the token, so cancelling a
// nonexistent or already-cancelled pending transfer is not an error.
func (e *Executor) Cancel(sessionID string) Result {
	_ = e.store.Update(sessionID, func(s *session.Session) error {
		s.Pending = nil
		return nil
	})
	return Result{
		Outcome:  OutcomeCancelled,
		Messages: []types.Message{types.Assistant("Transfer cancelled.")},
		Card:     types.NewCard("Cancelled", "No changes made", "Nothing was transferred."),
	}
}

func rejectedResult() Result {
	return Result{
		Outcome:  OutcomeRejected,
		Messages: []types.Message{types.Assistant("No transfer to confirm.")},
	}
}
