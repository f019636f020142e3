package content

import (
	"fmt"

	"github.com/compass-cx/orchestrator/internal/nlu"
	"github.com/compass-cx/orchestrator/internal/session"
	"github.com/compass-cx/orchestrator/pkg/types"
	"github.com/shopspring/decimal"
)

func insightsFeed(_ nlu.Intent, _ nlu.Entities, _ session.Snapshot) Reply {
	card := types.NewCard(
		"Insights",
		"Tap a card to view details",
		"• Duplicate Charges — you may have been charged more than once\n"+
			"• Spend Path — see your monthly spending trend\n"+
			"• Subscriptions — upcoming recurring charges\n"+
			"• Quick Transfer — send money with confirmation",
	)
	card.Actions = []types.CardAction{
		{Label: "Spend Path", ActionName: "open_insight", Params: map[string]any{"kind": "spend_path"}},
		{Label: "Subscriptions", ActionName: "open_insight", Params: map[string]any{"kind": "subscriptions"}},
		{Label: "Quick Transfer", ActionName: "open_insight", Params: map[string]any{"kind": "quick_transfer"}},
	}
	return Reply{
		Messages: []types.Message{types.Assistant("Good morning — I have new insights ready for you.")},
		Card:     card,
	}
}

func accountSummary(_ nlu.Intent, _ nlu.Entities, snap session.Snapshot) Reply {
	body := "Checking: " + money(snap.Balances[session.Checking]) +
		"\nSavings: " + money(snap.Balances[session.Savings])
	return Reply{
		Messages: []types.Message{types.Assistant("Here's your balances overview.")},
		Card:     types.NewCard("Account Summary", "Balances overview", body),
	}
}

func recurringCharges(_ nlu.Intent, _ nlu.Entities, _ session.Snapshot) Reply {
	return Reply{
		Messages: []types.Message{types.Assistant("Here are your upcoming subscriptions.")},
		Card: types.NewCard(
			"Subscriptions & Recurring Charges",
			"Upcoming charges",
			"Spotify — $11.99 • due in 3 days\nNetflix — $15.49 • due in 5 days\niCloud — $2.99 • due in 6 days",
		),
	}
}

type spendCategory struct {
	name   string
	amount int
}

var spendByCategory = []spendCategory{
	{"Groceries", 620},
	{"Dining", 310},
	{"Gas", 180},
	{"Shopping", 540},
	{"Bills", 890},
}

func spendAnalysis(_ nlu.Intent, _ nlu.Entities, _ session.Snapshot) Reply {
	total := 0
	body := "Top categories this month:\n"
	for _, c := range spendByCategory {
		total += c.amount
		body += fmt.Sprintf("- %s: $%d\n", c.name, c.amount)
	}
	body += fmt.Sprintf("\nMonth-to-date total: $%d\nShopping and Dining are trending higher than last month.", total)

	card := types.NewCard("Spend Analysis", "Month-to-date overview", body)
	card.Actions = []types.CardAction{
		{Label: "Drill into Shopping", ActionName: "spend_drilldown", Params: map[string]any{"category": "Shopping"}},
		{Label: "View Subscriptions", ActionName: "open_insight", Params: map[string]any{"kind": "subscriptions"}},
	}
	return Reply{
		Messages: []types.Message{types.Assistant("Here's your spending view for the month.")},
		Card:     card,
	}
}

func spendDrilldown(_ nlu.Intent, entities nlu.Entities, _ session.Snapshot) Reply {
	category := entities.Category
	if category == "" {
		category = "Shopping"
	}
	body := category + " is up ~22% vs last month.\n\n" +
		"Top merchants:\n• Merchant A — $120\n• Merchant B — $85\n• Merchant C — $60\n\n" +
		"Suggestion: set a soft weekly cap for " + category + "."
	card := types.NewCard(category+" Insights", "Category drilldown", body)
	card.Actions = []types.CardAction{
		{Label: "Back to Spend Analysis", ActionName: "open_insight", Params: map[string]any{"kind": "spend_path"}},
	}
	return Reply{
		Messages: []types.Message{types.Assistant("Here's a quick breakdown for " + category + ".")},
		Card:     card,
	}
}

func creditUtilization(_ nlu.Intent, _ nlu.Entities, _ session.Snapshot) Reply {
	const (
		limit   = 8000
		balance = 2450
	)
	utilization := balance * 100 / limit
	body := fmt.Sprintf("Card limit: $%d\nCurrent balance: $%d\nUtilization: %d%%\n\n"+
		"Keeping utilization under ~30%% can help reduce score-impact risk.", limit, balance, utilization)
	return Reply{
		Messages: []types.Message{types.Assistant("Here's your credit usage snapshot.")},
		Card:     types.NewCard("Credit Usage", "Utilization", body),
	}
}

func billScheduler(_ nlu.Intent, _ nlu.Entities, _ session.Snapshot) Reply {
	return Reply{
		Messages: []types.Message{types.Assistant("I can help schedule bills to reduce manual payments.")},
		Card: types.NewCard(
			"Bill Scheduler",
			"Suggested automation",
			"I noticed a bill that looks manually paid each month.\n\n"+
				"Suggestion: schedule it to reduce late-fee risk.\n"+
				"Example: Electric bill — due around the 15th.",
		),
	}
}

func autoSweep(_ nlu.Intent, entities nlu.Entities, _ session.Snapshot) Reply {
	low := decimal.NewFromInt(500)
	if entities.LowThreshold != nil {
		low = *entities.LowThreshold
	}
	high := decimal.NewFromInt(3000)
	if entities.HighThreshold != nil {
		high = *entities.HighThreshold
	}
	body := "Rule A: If Checking < " + money(low) + ", move money from Savings to Checking.\n" +
		"Rule B: If Checking > " + money(high) + ", move extra money to Savings."
	return Reply{
		Messages: []types.Message{types.Assistant("Here's a simple auto-sweep rule setup.")},
		Card:     types.NewCard("Auto-Sweep Rules", "Automate money movement", body),
	}
}
