package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/compass-cx/orchestrator/internal/content"
	"github.com/compass-cx/orchestrator/internal/dialogue"
	"github.com/compass-cx/orchestrator/internal/nlu"
	"github.com/compass-cx/orchestrator/internal/session"
	"github.com/compass-cx/orchestrator/pkg/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// insightIntents maps open_insight kinds back into the intent space.
var insightIntents = map[string]nlu.Intent{
	"duplicate_charges": nlu.IntentInsights,
	"spend_path":        nlu.IntentSpendAnalysis,
	"subscriptions":     nlu.IntentRecurringCharges,
	"travel_points":     nlu.IntentTravelPoints,
	"points_to_cash":    nlu.IntentPointsToCash,
	"cd_maturity":       nlu.IntentCDMaturity,
}

// ActionHandler executes button-driven actions: direction choices,
// confirmations, cancellations, and insight card taps.
type ActionHandler struct {
	store    *session.Store
	machine  *dialogue.Machine
	executor *dialogue.Executor
	registry *content.Registry
}

// NewActionHandler creates the action endpoint handler.
func NewActionHandler(store *session.Store, machine *dialogue.Machine, executor *dialogue.Executor, registry *content.Registry) *ActionHandler {
	return &ActionHandler{store: store, machine: machine, executor: executor, registry: registry}
}

// Post handles POST /v1/action.
func (h *ActionHandler) Post(c *gin.Context) {
	var req types.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	debug := types.Debug{Action: req.ActionName, TS: time.Now().Unix()}

	switch req.ActionName {
	case dialogue.ActionSetDirection:
		from, fromOK := session.ParseAccount(paramString(req.Params, "fromAccount"))
		to, toOK := session.ParseAccount(paramString(req.Params, "toAccount"))
		if !fromOK || !toOK {
			respondAction(c, false, []types.Message{types.Assistant("Please choose between checking and savings.")}, nil, nil, debug)
			return
		}
		res, err := h.machine.SetDirection(req.SessionID, from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "failed to set transfer direction"})
			return
		}
		respondAction(c, res.Outcome != dialogue.OutcomeRejected, res.Messages, res.Card, nil, debug)

	case dialogue.ActionConfirmTransfer:
		res, err := h.executor.Confirm(req.SessionID, paramString(req.Params, "actionId"))
		if err != nil && !errors.Is(err, dialogue.ErrNoPendingConfirmation) && !errors.Is(err, dialogue.ErrInsufficientFunds) {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "failed to execute transfer"})
			return
		}
		var balances map[string]string
		if res.Outcome == dialogue.OutcomeExecuted {
			balances = renderBalances(res.Balances)
		}
		respondAction(c, err == nil, res.Messages, res.Card, balances, debug)

	case dialogue.ActionCancelTransfer:
		res := h.executor.Cancel(req.SessionID)
		respondAction(c, true, res.Messages, res.Card, nil, debug)

	case "open_insight":
		h.openInsight(c, req, debug)

	case "spend_drilldown":
		entities := nlu.Entities{Category: paramString(req.Params, "category")}
		reply, _ := h.registry.Handle(nlu.IntentSpendDrilldown, entities, h.store.Snapshot(req.SessionID))
		respondAction(c, true, reply.Messages, reply.Card, nil, debug)

	default:
		respondAction(c, false, []types.Message{types.Assistant("Unknown action.")}, nil, nil, debug)
	}
}

// openInsight re-enters the content registry (or starts a quick transfer)
// from an insight card tap.
func (h *ActionHandler) openInsight(c *gin.Context, req types.ActionRequest, debug types.Debug) {
	kind := paramString(req.Params, "kind")

	if kind == "quick_transfer" {
		res, err := h.machine.Start(req.SessionID, nlu.Entities{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "failed to start transfer"})
			return
		}
		respondAction(c, true, res.Messages, res.Card, nil, debug)
		return
	}

	intent, ok := insightIntents[kind]
	if !ok {
		respondAction(c, false, []types.Message{types.Assistant("Unknown insight.")}, nil, nil, debug)
		return
	}
	reply, _ := h.registry.Handle(intent, nlu.Entities{}, h.store.Snapshot(req.SessionID))
	respondAction(c, true, reply.Messages, reply.Card, nil, debug)
}

func paramString(params map[string]any, key string) string {
	if params == nil {
		return ""
	}
	s, _ := params[key].(string)
	return s
}

func renderBalances(balances map[session.Account]decimal.Decimal) map[string]string {
	out := make(map[string]string, len(balances))
	for account, amount := range balances {
		out[string(account)] = amount.StringFixed(2)
	}
	return out
}

func respondAction(c *gin.Context, ok bool, messages []types.Message, card *types.Card, balances map[string]string, debug types.Debug) {
	if messages == nil {
		messages = []types.Message{}
	}
	c.JSON(http.StatusOK, types.ActionResponse{
		OK:       ok,
		Messages: messages,
		Card:     card,
		Balances: balances,
		Debug:    debug,
	})
}
