// Package policy is the risk gate consulted before any transfer is offered
// for confirmation. It is pure: a decision is a function of the intent, the
// extracted entities, and the current balances.
package policy

import (
	"fmt"

	"github.com/compass-cx/orchestrator/internal/nlu"
	"github.com/compass-cx/orchestrator/internal/session"
	"github.com/shopspring/decimal"
)

// Risk grades a decision.
type Risk int

const (
	RiskLow Risk = iota
	RiskMedium
	RiskHigh
)

func (r Risk) String() string {
	switch r {
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	}
	return "low"
}

// Decision is the outcome of a policy evaluation. It is never persisted.
type Decision struct {
	Allow  bool
	Risk   Risk
	Reason string
}

// stepUpThreshold is the fixed amount at which a transfer requires
// additional verification.
var stepUpThreshold = decimal.NewFromInt(5000)

// Evaluate applies the risk rules in order; the first matching rule wins.
//
// A missing amount on a transfer is a clarification need, not a policy
// violation, so it stays allowed. The step-up and insufficient-funds checks
// both run here, before any confirmation is ever shown: the dialogue must
// not promise an action it cannot perform.
func Evaluate(intent nlu.Intent, entities nlu.Entities, balances map[session.Account]decimal.Decimal) Decision {
	if intent == nlu.IntentUnknown {
		return Decision{Allow: false, Risk: RiskLow, Reason: "I didn't understand that request."}
	}
	if intent != nlu.IntentTransfer {
		// No policy restrictions are defined for read-only intents.
		return Decision{Allow: true, Risk: RiskLow, Reason: "Allowed"}
	}

	if entities.Amount == nil {
		return Decision{Allow: true, Risk: RiskLow, Reason: "Amount required"}
	}
	amount := *entities.Amount

	if amount.Sign() <= 0 {
		return Decision{Allow: false, Risk: RiskLow, Reason: "Transfer amount must be greater than $0."}
	}

	if amount.GreaterThanOrEqual(stepUpThreshold) {
		return Decision{
			Allow:  false,
			Risk:   RiskHigh,
			Reason: "Transfers of $5,000 or more require additional verification.",
		}
	}

	if entities.From != "" {
		available := balances[entities.From]
		if amount.GreaterThan(available) {
			return Decision{
				Allow: false,
				Risk:  RiskLow,
				Reason: fmt.Sprintf("Insufficient funds in %s. Available: $%s",
					entities.From.Title(), available.StringFixed(2)),
			}
		}
	}

	return Decision{Allow: true, Risk: RiskMedium, Reason: "Requires confirmation"}
}
