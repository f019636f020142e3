package dialogue

import (
	"testing"

	"github.com/compass-cx/orchestrator/internal/crypto"
	"github.com/compass-cx/orchestrator/internal/nlu"
	"github.com/compass-cx/orchestrator/internal/session"
	"github.com/compass-cx/orchestrator/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestMachine(t *testing.T) (*Machine, *session.Store) {
	t.Helper()
	tokens, err := crypto.NewTokenManager("test-secret", 0)
	require.NoError(t, err)
	store := session.NewStore()
	return NewMachine(store, tokens), store
}

func transferEntities(text string) nlu.Entities {
	return nlu.Extract(nlu.IntentTransfer, text)
}

func pendingOf(store *session.Store, sessionID string) *session.PendingTransfer {
	var pending *session.PendingTransfer
	store.View(sessionID, func(s *session.Session) {
		pending = s.Pending
	})
	return pending
}

func findAction(t *testing.T, card *types.Card, name string) types.CardAction {
	t.Helper()
	require.NotNil(t, card)
	for _, action := range card.Actions {
		if action.ActionName == name {
			return action
		}
	}
	t.Fatalf("card %q has no action %q", card.Title, name)
	return types.CardAction{}
}

func TestStart_NoSlots_AsksDirection(t *testing.T) {
	machine, store := newTestMachine(t)

	res, err := machine.Start("s1", transferEntities("transfer money"))
	require.NoError(t, err)
	require.Equal(t, OutcomeClarify, res.Outcome)

	pending := pendingOf(store, "s1")
	require.NotNil(t, pending)
	require.Equal(t, session.StageAwaitingDirection, pending.Stage)
	require.Nil(t, pending.AmountHint)

	// The card must offer both directions as buttons.
	require.Len(t, res.Card.Actions, 2)
	first := findAction(t, res.Card, ActionSetDirection)
	require.Equal(t, "checking", first.Params["fromAccount"])
	require.Equal(t, "savings", first.Params["toAccount"])
}

func TestStart_AmountOnly_KeepsHint(t *testing.T) {
	machine, store := newTestMachine(t)

	res, err := machine.Start("s1", transferEntities("transfer $25"))
	require.NoError(t, err)
	require.Equal(t, OutcomeClarify, res.Outcome)
	require.Contains(t, res.Messages[0].Content, "$25.00")

	pending := pendingOf(store, "s1")
	require.Equal(t, session.StageAwaitingDirection, pending.Stage)
	require.NotNil(t, pending.AmountHint)
	require.True(t, pending.AmountHint.Equal(decimal.NewFromInt(25)))
}

func TestStart_DirectionOnly_AsksAmount(t *testing.T) {
	machine, store := newTestMachine(t)

	res, err := machine.Start("s1", transferEntities("transfer from checking to savings"))
	require.NoError(t, err)
	require.Equal(t, OutcomeClarify, res.Outcome)
	require.Contains(t, res.Messages[0].Content, "Checking")
	require.Contains(t, res.Messages[0].Content, "Savings")

	pending := pendingOf(store, "s1")
	require.Equal(t, session.StageAwaitingAmount, pending.Stage)
	require.Equal(t, session.Checking, pending.From)
	require.Equal(t, session.Savings, pending.To)
}

func TestStart_BothSlots_OffersConfirmation(t *testing.T) {
	machine, store := newTestMachine(t)

	res, err := machine.Start("s1", transferEntities("transfer $25 from checking to savings"))
	require.NoError(t, err)
	require.Equal(t, OutcomeConfirm, res.Outcome)
	require.NotNil(t, res.Decision)
	require.True(t, res.Decision.Allow)
	require.Contains(t, res.Card.Body, "$25.00")

	pending := pendingOf(store, "s1")
	require.Equal(t, session.StageAwaitingConfirm, pending.Stage)
	require.NotNil(t, pending.Amount)

	confirm := findAction(t, res.Card, ActionConfirmTransfer)
	require.NotEmpty(t, confirm.Params["actionId"])
	cancel := findAction(t, res.Card, ActionCancelTransfer)
	require.Equal(t, confirm.Params["actionId"], cancel.Params["actionId"])
}

func TestClarifyResultsCarryPolicyGrade(t *testing.T) {
	machine, _ := newTestMachine(t)

	for _, text := range []string{"transfer money", "transfer $25", "transfer from checking to savings"} {
		res, err := machine.Start("s1", transferEntities(text))
		require.NoError(t, err)
		require.Equal(t, OutcomeClarify, res.Outcome, "text=%q", text)
		require.NotNil(t, res.Decision, "text=%q", text)
		require.True(t, res.Decision.Allow, "text=%q", text)
		require.Equal(t, "Amount required", res.Decision.Reason, "text=%q", text)
	}
}

func TestStart_StepUpAmount_BlocksWithoutPending(t *testing.T) {
	machine, store := newTestMachine(t)

	res, err := machine.Start("s1", transferEntities("transfer $6000 from checking to savings"))
	require.NoError(t, err)
	require.Equal(t, OutcomeBlocked, res.Outcome)
	require.NotNil(t, res.Decision)
	require.Equal(t, "high", res.Decision.Risk.String())
	require.Contains(t, res.Messages[0].Content, "additional verification")

	// A blocked transfer must not leave a confirmable pending state.
	require.Nil(t, pendingOf(store, "s1"))
}

func TestStart_InsufficientFunds_BlockedBeforeConfirmation(t *testing.T) {
	machine, store := newTestMachine(t)
	require.NoError(t, store.Update("s1", func(s *session.Session) error {
		s.Balances[session.Checking] = decimal.NewFromInt(100)
		return nil
	}))

	res, err := machine.Start("s1", transferEntities("transfer $500 from checking to savings"))
	require.NoError(t, err)
	require.Equal(t, OutcomeBlocked, res.Outcome)
	require.Contains(t, res.Messages[0].Content, "Insufficient funds in Checking")
	require.Contains(t, res.Messages[0].Content, "$100.00")
	require.Nil(t, pendingOf(store, "s1"))
}

func TestStart_OverwritesExistingPending(t *testing.T) {
	machine, store := newTestMachine(t)

	_, err := machine.Start("s1", transferEntities("transfer $25 from checking to savings"))
	require.NoError(t, err)
	first := pendingOf(store, "s1")

	_, err = machine.Start("s1", transferEntities("transfer $40 from savings to checking"))
	require.NoError(t, err)
	second := pendingOf(store, "s1")

	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, session.Savings, second.From)
	require.True(t, second.Amount.Equal(decimal.NewFromInt(40)))
}

func TestResume_FillsAmountSlot(t *testing.T) {
	machine, store := newTestMachine(t)

	_, err := machine.Start("s1", transferEntities("transfer from checking to savings"))
	require.NoError(t, err)

	res, handled, err := machine.Resume("s1", transferEntities("$25"))
	require.NoError(t, err)
	require.True(t, handled)
	require.Equal(t, OutcomeConfirm, res.Outcome)
	require.Contains(t, res.Card.Body, "$25.00")
	require.Equal(t, session.StageAwaitingConfirm, pendingOf(store, "s1").Stage)
}

func TestResume_UnparseableAmount_RePrompts(t *testing.T) {
	machine, store := newTestMachine(t)

	_, err := machine.Start("s1", transferEntities("transfer from checking to savings"))
	require.NoError(t, err)

	res, handled, err := machine.Resume("s1", transferEntities("all of it"))
	require.NoError(t, err)
	require.True(t, handled)
	require.Equal(t, OutcomeClarify, res.Outcome)
	require.Equal(t, session.StageAwaitingAmount, pendingOf(store, "s1").Stage)
}

func TestResume_DirectionByText(t *testing.T) {
	machine, store := newTestMachine(t)

	_, err := machine.Start("s1", transferEntities("transfer money"))
	require.NoError(t, err)

	res, handled, err := machine.Resume("s1", transferEntities("from savings to checking"))
	require.NoError(t, err)
	require.True(t, handled)
	require.Equal(t, OutcomeClarify, res.Outcome)

	pending := pendingOf(store, "s1")
	require.Equal(t, session.StageAwaitingAmount, pending.Stage)
	require.Equal(t, session.Savings, pending.From)
}

func TestResume_NothingToResume(t *testing.T) {
	machine, _ := newTestMachine(t)

	_, handled, err := machine.Resume("s1", transferEntities("$25"))
	require.NoError(t, err)
	require.False(t, handled)
}

func TestResume_DoesNotConsumeConfirmStage(t *testing.T) {
	machine, store := newTestMachine(t)

	_, err := machine.Start("s1", transferEntities("transfer $25 from checking to savings"))
	require.NoError(t, err)

	_, handled, err := machine.Resume("s1", transferEntities("hello"))
	require.NoError(t, err)
	require.False(t, handled)
	require.Equal(t, session.StageAwaitingConfirm, pendingOf(store, "s1").Stage)
}

func TestSetDirection_HintStaysASuggestion(t *testing.T) {
	machine, store := newTestMachine(t)

	// Amount arrives before direction. Choosing the direction must still
	// land on the amount turn with the earlier amount offered as a
	// suggestion, never as a committed value.
	_, err := machine.Start("s1", transferEntities("transfer $25"))
	require.NoError(t, err)

	res, err := machine.SetDirection("s1", session.Checking, session.Savings)
	require.NoError(t, err)
	require.Equal(t, OutcomeClarify, res.Outcome)
	require.Contains(t, res.Messages[0].Content, "You mentioned $25.00 earlier")
	require.Contains(t, res.Card.Body, "Suggested: $25.00")

	pending := pendingOf(store, "s1")
	require.Equal(t, session.StageAwaitingAmount, pending.Stage)
	require.Nil(t, pending.Amount)

	// The user overrides the suggestion.
	confirmed, handled, err := machine.Resume("s1", transferEntities("$40"))
	require.NoError(t, err)
	require.True(t, handled)
	require.Equal(t, OutcomeConfirm, confirmed.Outcome)
	require.True(t, pendingOf(store, "s1").Amount.Equal(decimal.NewFromInt(40)))
}

func TestSetDirection_WithoutHintAsksAmount(t *testing.T) {
	machine, store := newTestMachine(t)

	_, err := machine.Start("s1", transferEntities("transfer money"))
	require.NoError(t, err)

	res, err := machine.SetDirection("s1", session.Savings, session.Checking)
	require.NoError(t, err)
	require.Equal(t, OutcomeClarify, res.Outcome)

	pending := pendingOf(store, "s1")
	require.Equal(t, session.StageAwaitingAmount, pending.Stage)
	require.Equal(t, session.Savings, pending.From)
	require.Equal(t, session.Checking, pending.To)
}

func TestSetDirection_RejectsSameAccount(t *testing.T) {
	machine, _ := newTestMachine(t)

	_, err := machine.Start("s1", transferEntities("transfer money"))
	require.NoError(t, err)

	res, err := machine.SetDirection("s1", session.Checking, session.Checking)
	require.NoError(t, err)
	require.Equal(t, OutcomeRejected, res.Outcome)
}

func TestSetDirection_NoPending(t *testing.T) {
	machine, _ := newTestMachine(t)

	res, err := machine.SetDirection("s1", session.Checking, session.Savings)
	require.NoError(t, err)
	require.Equal(t, OutcomeRejected, res.Outcome)
}
