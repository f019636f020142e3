package nlu

import (
	"regexp"
	"strings"
)

// Intent is the closed set of symbolic intents the router can produce.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentTransfer
	IntentAccountSummary
	IntentRecurringCharges
	IntentSpendAnalysis
	IntentSpendDrilldown
	IntentInsights
	IntentCreditUtilization
	IntentBillScheduler
	IntentAutoSweep
	IntentCDMaturity
	IntentCDsOverview
	IntentCDsVsSavings
	IntentCDInterestMovement
	IntentTravelUpcoming
	IntentTravelPoints
	IntentPointsToCash
	IntentAgentHandoff
)

var intentNames = map[Intent]string{
	IntentUnknown:            "unknown",
	IntentTransfer:           "bank_transfer",
	IntentAccountSummary:     "bank_account_summary",
	IntentRecurringCharges:   "bank_recurring_charges",
	IntentSpendAnalysis:      "bank_spend_analysis",
	IntentSpendDrilldown:     "bank_spend_drilldown",
	IntentInsights:           "home_insights",
	IntentCreditUtilization:  "bank_credit_utilization",
	IntentBillScheduler:      "bank_bill_scheduler",
	IntentAutoSweep:          "bank_auto_sweep",
	IntentCDMaturity:         "assets_cd_maturity",
	IntentCDsOverview:        "assets_cds_overview",
	IntentCDsVsSavings:       "assets_cds_vs_savings",
	IntentCDInterestMovement: "assets_cd_interest_movement",
	IntentTravelUpcoming:     "travel_upcoming",
	IntentTravelPoints:       "travel_points",
	IntentPointsToCash:       "travel_points_to_cash",
	IntentAgentHandoff:       "handoff_agent",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "unknown"
}

var insightsPhrases = map[string]bool{
	"":              true,
	"home":          true,
	"insight":       true,
	"insights":      true,
	"show insights": true,
	"my insights":   true,
}

// cdWordPattern matches "cd"/"cds" as whole words so that, say, "decide"
// does not route to the assets domain.
var cdWordPattern = regexp.MustCompile(`\bcds?\b`)

// Route maps raw text to an intent. It is total: unmatched input yields
// IntentUnknown. Checks run in a fixed priority order so that more specific
// phrases win over broader ones (for example "cd maturity" is resolved
// before the generic transfer keywords).
func Route(text string) Intent {
	t := strings.ToLower(strings.TrimSpace(text))

	if insightsPhrases[t] {
		return IntentInsights
	}
	if strings.HasPrefix(t, "spend insight") {
		return IntentSpendDrilldown
	}
	if containsAny(t, "spend", "spending", "trend", "budget", "analysis") {
		return IntentSpendAnalysis
	}
	if containsAny(t, "recurring", "subscription") {
		return IntentRecurringCharges
	}
	if strings.Contains(t, "account") && containsAny(t, "summary", "balance", "balances") {
		return IntentAccountSummary
	}
	if containsAny(t, "credit utilization", "credit usage", "utilization", "credit card") {
		return IntentCreditUtilization
	}
	if containsAny(t, "bill", "autopay", "pay bill") {
		return IntentBillScheduler
	}
	if containsAny(t, "auto sweep", "autosweep", "move money automatically") {
		return IntentAutoSweep
	}
	if containsAny(t, "maturity", "matures", "maturing") {
		return IntentCDMaturity
	}
	if containsAny(t, "cd interest", "move interest", "interest movement") {
		return IntentCDInterestMovement
	}
	if cdWordPattern.MatchString(t) || strings.Contains(t, "certificate of deposit") {
		if containsAny(t, "vs", "compare") {
			return IntentCDsVsSavings
		}
		return IntentCDsOverview
	}
	if containsAny(t, "points to cash", "convert points", "cash out points") {
		return IntentPointsToCash
	}
	if containsAny(t, "travel points", "points available", "rewards points") {
		return IntentTravelPoints
	}
	if containsAny(t, "travel", "upcoming trip", "my trip", "next trip", "vacation") {
		return IntentTravelUpcoming
	}
	if containsAny(t, "transfer", "send", "zelle", "move money") {
		return IntentTransfer
	}
	if containsAny(t, "agent", "representative", "specialist", "talk to a", "handoff", "human") {
		return IntentAgentHandoff
	}
	return IntentUnknown
}

func containsAny(t string, words ...string) bool {
	for _, word := range words {
		if strings.Contains(t, word) {
			return true
		}
	}
	return false
}
