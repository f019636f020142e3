// Package dialogue drives the multi-turn transfer conversation: slot
// filling, the confirmation offer, and idempotent execution.
package dialogue

import (
	"github.com/compass-cx/orchestrator/internal/policy"
	"github.com/compass-cx/orchestrator/internal/session"
	"github.com/compass-cx/orchestrator/pkg/types"
	"github.com/shopspring/decimal"
)

// Outcome classifies how a dialogue step resolved.
type Outcome int

const (
	// OutcomeClarify means the dialogue still needs a slot and answered
	// with a prompt.
	OutcomeClarify Outcome = iota
	// OutcomeConfirm means a confirmation was offered.
	OutcomeConfirm
	// OutcomeBlocked means the policy gate refused the transfer.
	OutcomeBlocked
	// OutcomeExecuted means the transfer was applied to the balances.
	OutcomeExecuted
	// OutcomeCancelled means the pending transfer was cleared on request.
	OutcomeCancelled
	// OutcomeRejected means a confirm arrived with nothing valid to
	// confirm; session state is unchanged.
	OutcomeRejected
)

// Result is the output of one dialogue step.
type Result struct {
	Outcome  Outcome
	Messages []types.Message
	Card     *types.Card
	// Decision is set whenever the policy gate was consulted.
	Decision *policy.Decision
	// Balances is a copy of the session balances after a successful
	// execution.
	Balances map[session.Account]decimal.Decimal
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func balancesBody(balances map[session.Account]decimal.Decimal) string {
	return "Checking: " + money(balances[session.Checking]) +
		"\nSavings: " + money(balances[session.Savings])
}

func directionCard() *types.Card {
	card := types.NewCard("Transfer Money", "Choose a direction", "Select which way the money should move.")
	card.Actions = []types.CardAction{
		{
			Label:      "Checking → Savings",
			ActionName: ActionSetDirection,
			Params:     map[string]any{"fromAccount": string(session.Checking), "toAccount": string(session.Savings)},
		},
		{
			Label:      "Savings → Checking",
			ActionName: ActionSetDirection,
			Params:     map[string]any{"fromAccount": string(session.Savings), "toAccount": string(session.Checking)},
		},
	}
	return card
}

func amountCard(from, to session.Account, hint *decimal.Decimal) *types.Card {
	body := "Example: \"transfer $25 from " + string(from) + " to " + string(to) + "\" — or just the amount."
	if hint != nil {
		body = "Suggested: " + money(*hint) + "\n\n" + body
	}
	return types.NewCard("Transfer Money", "Amount needed", body)
}

func confirmCard(pending *session.PendingTransfer, token string) *types.Card {
	body := "Please confirm:\n" +
		"- Amount: " + money(*pending.Amount) + "\n" +
		"- From: " + pending.From.Title() + "\n" +
		"- To: " + pending.To.Title()
	card := types.NewCard("Transfer Funds", "Confirmation required", body)
	card.Actions = []types.CardAction{
		{
			Label:      "Confirm transfer",
			ActionName: ActionConfirmTransfer,
			Params:     map[string]any{"actionId": token},
		},
		{
			Label:      "Cancel",
			ActionName: ActionCancelTransfer,
			Params:     map[string]any{"actionId": token},
		},
	}
	return card
}

func blockedCard(reason string) *types.Card {
	return types.NewCard("Action blocked", "Policy check", reason)
}
