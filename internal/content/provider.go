// Package content renders read-only display cards for every non-transfer
// intent. Providers are pure functions of the intent, the extracted
// entities, and a session snapshot; they cannot touch dialogue state.
package content

import (
	"github.com/compass-cx/orchestrator/internal/nlu"
	"github.com/compass-cx/orchestrator/internal/session"
	"github.com/compass-cx/orchestrator/pkg/types"
	"github.com/shopspring/decimal"
)

// Reply is what a content provider returns for one turn.
type Reply struct {
	Messages []types.Message
	Card     *types.Card
}

// Provider renders a display card for one intent.
type Provider func(intent nlu.Intent, entities nlu.Entities, snap session.Snapshot) Reply

// Registry dispatches non-transfer intents to their providers.
type Registry struct {
	providers map[nlu.Intent]Provider
}

// NewRegistry creates a registry with all built-in providers registered.
func NewRegistry() *Registry {
	r := &Registry{providers: make(map[nlu.Intent]Provider)}

	r.register(insightsFeed, nlu.IntentInsights)
	r.register(accountSummary, nlu.IntentAccountSummary)
	r.register(recurringCharges, nlu.IntentRecurringCharges)
	r.register(spendAnalysis, nlu.IntentSpendAnalysis)
	r.register(spendDrilldown, nlu.IntentSpendDrilldown)
	r.register(creditUtilization, nlu.IntentCreditUtilization)
	r.register(billScheduler, nlu.IntentBillScheduler)
	r.register(autoSweep, nlu.IntentAutoSweep)
	r.register(travelUpcoming, nlu.IntentTravelUpcoming)
	r.register(travelPoints, nlu.IntentTravelPoints)
	r.register(pointsToCash, nlu.IntentPointsToCash)
	r.register(cdMaturity, nlu.IntentCDMaturity)
	r.register(cdsOverview, nlu.IntentCDsOverview)
	r.register(cdsVsSavings, nlu.IntentCDsVsSavings)
	r.register(cdInterestMovement, nlu.IntentCDInterestMovement)
	r.register(agentHandoff, nlu.IntentAgentHandoff)

	return r
}

func (r *Registry) register(p Provider, intents ...nlu.Intent) {
	for _, intent := range intents {
		r.providers[intent] = p
	}
}

// Handle dispatches an intent. It reports false when no provider covers it.
func (r *Registry) Handle(intent nlu.Intent, entities nlu.Entities, snap session.Snapshot) (Reply, bool) {
	p, ok := r.providers[intent]
	if !ok {
		return Reply{}, false
	}
	return p(intent, entities, snap), true
}

// Fallback is the reply for input nothing could match.
func Fallback() Reply {
	return Reply{
		Messages: []types.Message{types.Assistant(
			"I didn't catch that. Try: insights, spend analysis, recurring charges, account summary, transfer $25, or talk to an agent.")},
		Card: types.NewCard(
			"Try something else",
			"Examples",
			"• insights\n• spend analysis\n• recurring charges\n• account summary\n• transfer $25 from savings to checking\n• talk to an agent",
		),
	}
}

// HandoffNote returns the memory note recorded after serving an intent, or
// "" when the turn is not worth remembering. The notes feed the agent
// handoff packet.
func HandoffNote(intent nlu.Intent) string {
	switch intent {
	case nlu.IntentInsights:
		return "User viewed the insights feed."
	case nlu.IntentAccountSummary:
		return "User requested a balances overview."
	case nlu.IntentRecurringCharges:
		return "User asked about recurring charges/subscriptions."
	case nlu.IntentSpendAnalysis:
		return "User asked for spend analysis."
	case nlu.IntentSpendDrilldown:
		return "User drilled into a spend category."
	case nlu.IntentCreditUtilization:
		return "User asked about credit utilization."
	case nlu.IntentBillScheduler:
		return "User asked about bills/autopay."
	case nlu.IntentAutoSweep:
		return "User asked about auto-sweep rules."
	case nlu.IntentTransfer:
		return "User started a funds transfer."
	}
	return ""
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
