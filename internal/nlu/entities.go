// Package nlu turns raw user text into a symbolic intent and typed slot
// candidates. Everything here is pure and deterministic so it can be swapped
// for a learned model without touching the dialogue state machine.
package nlu

import (
	"github.com/compass-cx/orchestrator/internal/session"
	"github.com/shopspring/decimal"
)

// Entities are the per-turn slot candidates pulled from raw text. They are
// never persisted beyond the turn except as copied into a pending transfer.
type Entities struct {
	// Amount is nil when no parseable amount token exists.
	Amount *decimal.Decimal

	// From and To are empty when no transfer direction was resolved.
	From session.Account
	To   session.Account

	// Category is the spend-drilldown category, when present.
	Category string

	// LowThreshold and HighThreshold back the auto-sweep rule proposal.
	LowThreshold  *decimal.Decimal
	HighThreshold *decimal.Decimal
}

// DebugMap renders the entities for the debug payload.
func (e Entities) DebugMap() map[string]any {
	out := map[string]any{}
	if e.Amount != nil {
		out["amount"] = e.Amount.String()
	}
	if e.From != "" {
		out["fromAccount"] = string(e.From)
	}
	if e.To != "" {
		out["toAccount"] = string(e.To)
	}
	if e.Category != "" {
		out["category"] = e.Category
	}
	if e.LowThreshold != nil {
		out["lowThreshold"] = e.LowThreshold.String()
	}
	if e.HighThreshold != nil {
		out["highThreshold"] = e.HighThreshold.String()
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Extract pulls the slots relevant to the routed intent from text.
func Extract(intent Intent, text string) Entities {
	var ent Entities
	switch intent {
	case IntentTransfer:
		if amount, ok := ExtractAmount(text); ok {
			ent.Amount = &amount
		}
		if from, to, ok := ExtractDirection(text); ok {
			ent.From, ent.To = from, to
		}
	case IntentSpendDrilldown:
		if category, ok := ExtractCategory(text); ok {
			ent.Category = category
		}
	case IntentAutoSweep:
		ent.LowThreshold, ent.HighThreshold = ExtractThresholds(text)
	}
	return ent
}
