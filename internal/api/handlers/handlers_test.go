package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/compass-cx/orchestrator/internal/content"
	"github.com/compass-cx/orchestrator/internal/crypto"
	"github.com/compass-cx/orchestrator/internal/dialogue"
	"github.com/compass-cx/orchestrator/internal/session"
	"github.com/compass-cx/orchestrator/pkg/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := crypto.NewTokenManager("test-secret", 0)
	require.NoError(t, err)

	store := session.NewStore()
	machine := dialogue.NewMachine(store, tokens)
	executor := dialogue.NewExecutor(store, tokens)
	registry := content.NewRegistry()

	router := gin.New()
	v1 := router.Group("/v1")
	v1.POST("/orchestrate", NewOrchestrateHandler(store, machine, registry).Post)
	v1.POST("/action", NewActionHandler(store, machine, executor, registry).Post)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func orchestrate(t *testing.T, router *gin.Engine, sessionID, text string) types.OrchestrateResponse {
	t.Helper()
	rec := postJSON(t, router, "/v1/orchestrate", types.OrchestrateRequest{
		SessionID: sessionID, UserID: "u1", Text: text,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res types.OrchestrateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func action(t *testing.T, router *gin.Engine, sessionID, name string, params map[string]any) types.ActionResponse {
	t.Helper()
	rec := postJSON(t, router, "/v1/action", types.ActionRequest{
		SessionID: sessionID, UserID: "u1", ActionName: name, Params: params,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res types.ActionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func cardAction(t *testing.T, card *types.Card, name string) types.CardAction {
	t.Helper()
	require.NotNil(t, card)
	for _, a := range card.Actions {
		if a.ActionName == name {
			return a
		}
	}
	t.Fatalf("card %q has no action %q", card.Title, name)
	return types.CardAction{}
}

func TestOrchestrate_RejectsMissingSessionID(t *testing.T) {
	router := newTestRouter(t)
	rec := postJSON(t, router, "/v1/orchestrate", map[string]any{"userId": "u1", "text": "hi"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrchestrate_UnknownTextGetsFallback(t *testing.T) {
	router := newTestRouter(t)
	res := orchestrate(t, router, "s1", "please frobnicate my quarterly synergy")
	require.Equal(t, "s1", res.SessionID)
	require.Equal(t, "unknown", res.Debug.Intent)
	require.NotNil(t, res.Card)
	require.NotEmpty(t, res.Messages)

	// The gate's grade is echoed even though the reply is the fallback,
	// not a block.
	require.NotNil(t, res.Debug.Policy)
	require.False(t, res.Debug.Policy.Allow)
}

func TestOrchestrate_BalanceQuery(t *testing.T) {
	router := newTestRouter(t)
	res := orchestrate(t, router, "s1", "what's my account balance?")
	require.Equal(t, "bank_account_summary", res.Debug.Intent)
	require.NotNil(t, res.Debug.Policy)
	require.True(t, res.Debug.Policy.Allow)
	require.NotNil(t, res.Card)
	require.Contains(t, res.Card.Body, "2450.12")
}

func TestTransferFlow_SlotFillingThroughConfirm(t *testing.T) {
	router := newTestRouter(t)

	// Turn 1: no slots, so the dialogue asks for a direction. Every turn
	// carries a policy grade; with no amount yet this is the
	// clarification allow.
	res := orchestrate(t, router, "s1", "I want to transfer money")
	require.Equal(t, "bank_transfer", res.Debug.Intent)
	require.NotNil(t, res.Debug.Policy)
	require.True(t, res.Debug.Policy.Allow)
	require.Equal(t, "low", res.Debug.Policy.Risk)
	choose := cardAction(t, res.Card, dialogue.ActionSetDirection)

	// Turn 2: tap the direction button, verbatim params.
	act := action(t, router, "s1", dialogue.ActionSetDirection, choose.Params)
	require.True(t, act.OK)
	require.Contains(t, act.Messages[0].Content, "How much")

	// Turn 3: a bare amount resumes the dialogue even though the text
	// routes to no intent on its own.
	res = orchestrate(t, router, "s1", "$25")
	require.Equal(t, "unknown", res.Debug.Intent)
	confirm := cardAction(t, res.Card, dialogue.ActionConfirmTransfer)
	require.NotEmpty(t, confirm.Params["actionId"])

	// Turn 4: confirm using the token the card handed out.
	act = action(t, router, "s1", dialogue.ActionConfirmTransfer, confirm.Params)
	require.True(t, act.OK)
	require.Equal(t, "8925.00", act.Balances["savings"])
	require.Contains(t, act.Messages[0].Content, "Transfer complete")
}

func TestTransferFlow_OneShotConfirmAndDoubleTap(t *testing.T) {
	router := newTestRouter(t)

	res := orchestrate(t, router, "s1", "transfer $25 from checking to savings")
	require.NotNil(t, res.Debug.Policy)
	require.Equal(t, "medium", res.Debug.Policy.Risk)
	confirm := cardAction(t, res.Card, dialogue.ActionConfirmTransfer)

	act := action(t, router, "s1", dialogue.ActionConfirmTransfer, confirm.Params)
	require.True(t, act.OK)
	require.Equal(t, "2425.12", act.Balances["checking"])

	// A double-tapped confirm must not move money again.
	act = action(t, router, "s1", dialogue.ActionConfirmTransfer, confirm.Params)
	require.False(t, act.OK)
	require.Empty(t, act.Balances)
}

func TestTransferFlow_StepUpBlocked(t *testing.T) {
	router := newTestRouter(t)

	res := orchestrate(t, router, "s1", "transfer $6000 from checking to savings")
	require.NotNil(t, res.Debug.Policy)
	require.False(t, res.Debug.Policy.Allow)
	require.Equal(t, "high", res.Debug.Policy.Risk)
	require.Contains(t, res.Messages[0].Content, "additional verification")
}

func TestTransferFlow_CancelIsAlwaysOK(t *testing.T) {
	router := newTestRouter(t)

	orchestrate(t, router, "s1", "transfer $25 from checking to savings")
	act := action(t, router, "s1", dialogue.ActionCancelTransfer, nil)
	require.True(t, act.OK)

	// Nothing pending anymore, still fine.
	act = action(t, router, "s1", dialogue.ActionCancelTransfer, nil)
	require.True(t, act.OK)
}

func TestTransferFlow_ConfirmTokenFromOtherSessionRejected(t *testing.T) {
	router := newTestRouter(t)

	resA := orchestrate(t, router, "a", "transfer $25 from checking to savings")
	confirmA := cardAction(t, resA.Card, dialogue.ActionConfirmTransfer)
	orchestrate(t, router, "b", "transfer $25 from checking to savings")

	act := action(t, router, "b", dialogue.ActionConfirmTransfer, confirmA.Params)
	require.False(t, act.OK)

	// Session b's own transfer is still confirmable afterwards.
	resB := orchestrate(t, router, "b", "transfer $25 from checking to savings")
	confirmB := cardAction(t, resB.Card, dialogue.ActionConfirmTransfer)
	act = action(t, router, "b", dialogue.ActionConfirmTransfer, confirmB.Params)
	require.True(t, act.OK)
}

func TestAction_SetDirectionRejectsBadAccounts(t *testing.T) {
	router := newTestRouter(t)
	orchestrate(t, router, "s1", "I want to transfer money")

	act := action(t, router, "s1", dialogue.ActionSetDirection, map[string]any{
		"fromAccount": "brokerage", "toAccount": "savings",
	})
	require.False(t, act.OK)
	require.Contains(t, act.Messages[0].Content, "checking and savings")
}

func TestAction_UnknownActionName(t *testing.T) {
	router := newTestRouter(t)
	act := action(t, router, "s1", "do_something_weird", nil)
	require.False(t, act.OK)
	require.Equal(t, "Unknown action.", act.Messages[0].Content)
}

func TestAction_OpenInsight(t *testing.T) {
	router := newTestRouter(t)

	act := action(t, router, "s1", "open_insight", map[string]any{"kind": "subscriptions"})
	require.True(t, act.OK)
	require.NotNil(t, act.Card)

	act = action(t, router, "s1", "open_insight", map[string]any{"kind": "nonsense"})
	require.False(t, act.OK)
}

func TestAction_SpendDrilldownFromAnalysisCard(t *testing.T) {
	router := newTestRouter(t)

	// The drilldown button on the Spend Analysis card must round-trip
	// through /v1/action with its category param.
	res := orchestrate(t, router, "s1", "spend analysis")
	drill := cardAction(t, res.Card, "spend_drilldown")
	require.Equal(t, "Shopping", drill.Params["category"])

	act := action(t, router, "s1", "spend_drilldown", drill.Params)
	require.True(t, act.OK)
	require.Equal(t, "Shopping Insights", act.Card.Title)
}

func TestAction_OpenInsightQuickTransfer(t *testing.T) {
	router := newTestRouter(t)
	act := action(t, router, "s1", "open_insight", map[string]any{"kind": "quick_transfer"})
	require.True(t, act.OK)
	cardAction(t, act.Card, dialogue.ActionSetDirection)
}

func TestOrchestrate_HandoffPacketReflectsHistory(t *testing.T) {
	router := newTestRouter(t)

	orchestrate(t, router, "s1", "show my recurring charges")
	orchestrate(t, router, "s1", "how are my travel points?")

	res := orchestrate(t, router, "s1", "I want to talk to an agent")
	require.Equal(t, "handoff_agent", res.Debug.Intent)
	require.NotNil(t, res.Card)
	require.Contains(t, res.Card.Body, "Last intent: travel_points")
	require.Contains(t, res.Card.Body, "recurring charges")
}
