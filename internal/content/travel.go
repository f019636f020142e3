package content

import (
	"fmt"

	"github.com/compass-cx/orchestrator/internal/nlu"
	"github.com/compass-cx/orchestrator/internal/session"
	"github.com/compass-cx/orchestrator/pkg/types"
	"github.com/shopspring/decimal"
)

const travelPointsAvailable = 48250

// pointsCashRate is the estimated cash value per point.
var pointsCashRate = decimal.RequireFromString("0.0125")

func pointsCashValue() decimal.Decimal {
	return decimal.NewFromInt(travelPointsAvailable).Mul(pointsCashRate).Round(2)
}

func travelUpcoming(_ nlu.Intent, _ nlu.Entities, _ session.Snapshot) Reply {
	card := types.NewCard(
		"Upcoming Trip",
		"Vacation preview",
		"Destination: Orlando\nDates: Mar 12–Mar 17\n\nWant me to estimate how many points you could apply?",
	)
	card.Actions = []types.CardAction{
		{Label: "View travel points", ActionName: "open_insight", Params: map[string]any{"kind": "travel_points"}},
		{Label: "Points → cash (estimate)", ActionName: "open_insight", Params: map[string]any{"kind": "points_to_cash"}},
	}
	return Reply{
		Messages: []types.Message{types.Assistant("Here's your upcoming travel.")},
		Card:     card,
	}
}

func travelPoints(_ nlu.Intent, _ nlu.Entities, _ session.Snapshot) Reply {
	body := fmt.Sprintf("Available points: %d\nEstimated cash value: %s",
		travelPointsAvailable, money(pointsCashValue()))
	card := types.NewCard("Travel Rewards", "Points available", body)
	card.Actions = []types.CardAction{
		{Label: "Points → cash (estimate)", ActionName: "open_insight", Params: map[string]any{"kind": "points_to_cash"}},
	}
	return Reply{
		Messages: []types.Message{types.Assistant("Here are your travel points.")},
		Card:     card,
	}
}

func pointsToCash(_ nlu.Intent, _ nlu.Entities, _ session.Snapshot) Reply {
	body := fmt.Sprintf("%d points ≈ %s\n\nRates vary by program; this is an estimate.",
		travelPointsAvailable, money(pointsCashValue()))
	return Reply{
		Messages: []types.Message{types.Assistant("Here's an estimate of your points converted to cash.")},
		Card:     types.NewCard("Points → Cash", "Conversion estimate", body),
	}
}
