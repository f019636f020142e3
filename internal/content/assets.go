package content

import (
	"fmt"

	"github.com/compass-cx/orchestrator/internal/nlu"
	"github.com/compass-cx/orchestrator/internal/session"
	"github.com/compass-cx/orchestrator/pkg/types"
	"github.com/shopspring/decimal"
)

type certificateOfDeposit struct {
	name          string
	apr           string
	balance       decimal.Decimal
	maturesInDays int
}

var cds = []certificateOfDeposit{
	{"12-mo CD", "5.10", decimal.NewFromInt(10000), 112},
	{"6-mo CD", "4.60", decimal.NewFromInt(5000), 29},
}

func cdsOverview(_ nlu.Intent, _ nlu.Entities, _ session.Snapshot) Reply {
	body := ""
	total := decimal.Zero
	for _, cd := range cds {
		total = total.Add(cd.balance)
		body += fmt.Sprintf("%s — %s @ %s%% • matures in %d days\n",
			cd.name, money(cd.balance), cd.apr, cd.maturesInDays)
	}
	body += "\nTotal in CDs: " + money(total)

	card := types.NewCard("Certificates of Deposit", "CDs overview", body)
	card.Actions = []types.CardAction{
		{Label: "Maturity alerts", ActionName: "open_insight", Params: map[string]any{"kind": "cd_maturity"}},
	}
	return Reply{
		Messages: []types.Message{types.Assistant("Here's your CD overview.")},
		Card:     card,
	}
}

func cdMaturity(_ nlu.Intent, _ nlu.Entities, _ session.Snapshot) Reply {
	body := ""
	for _, cd := range cds {
		if cd.maturesInDays > 30 {
			continue
		}
		body += fmt.Sprintf("%s matures in %d days — %s\n", cd.name, cd.maturesInDays, money(cd.balance))
	}
	if body == "" {
		body = "No CDs maturing within 30 days.\n"
	}
	body += "\nSuggestion: decide whether to renew, ladder, or move to savings."
	return Reply{
		Messages: []types.Message{types.Assistant("Here are your CD maturity alerts.")},
		Card:     types.NewCard("CD Maturity Alerts", "Maturing soon", body),
	}
}

func cdsVsSavings(_ nlu.Intent, _ nlu.Entities, _ session.Snapshot) Reply {
	return Reply{
		Messages: []types.Message{types.Assistant("Here's a quick CD vs Savings view.")},
		Card: types.NewCard(
			"CDs vs Savings",
			"At-a-glance",
			"CDs: higher rate, less flexible until maturity.\n"+
				"Savings: lower rate, high flexibility.\n\n"+
				"If you won't need the money soon, CDs may be better.\n"+
				"If you need liquidity, keep it in Savings.",
		),
	}
}

func cdInterestMovement(_ nlu.Intent, _ nlu.Entities, _ session.Snapshot) Reply {
	return Reply{
		Messages: []types.Message{types.Assistant("I can help route CD interest when it posts.")},
		Card: types.NewCard(
			"CD Interest Movement",
			"Setup",
			"To set this up we'd need:\n• Which CD?\n• Move interest to Savings or Checking?\n• One-time or recurring?",
		),
	}
}
