package dialogue

import (
	"github.com/compass-cx/orchestrator/internal/crypto"
	"github.com/compass-cx/orchestrator/internal/logger"
	"github.com/compass-cx/orchestrator/internal/nlu"
	"github.com/compass-cx/orchestrator/internal/policy"
	"github.com/compass-cx/orchestrator/internal/session"
	"github.com/compass-cx/orchestrator/pkg/types"
	"github.com/google/uuid"
)

// Action names the client may send back from card buttons.
const (
	ActionSetDirection    = "transfer_set_direction"
	ActionConfirmTransfer = "confirm_transfer"
	ActionCancelTransfer  = "cancel_transfer"
)

// Machine advances the transfer dialogue one turn at a time. All state
// transitions happen inside a single Store.Update, so concurrent requests on
// one session cannot observe a half-applied transition.
type Machine struct {
	store  *session.Store
	tokens *crypto.TokenManager
}

// NewMachine creates a transfer dialogue machine.
func NewMachine(store *session.Store, tokens *crypto.TokenManager) *Machine {
	return &Machine{store: store, tokens: tokens}
}

// Start begins (or restarts) the transfer dialogue from a transfer-intent
// turn. Any pending transfer already on the session is overwritten; there is
// no queueing.
func (m *Machine) Start(sessionID string, entities nlu.Entities) (Result, error) {
	var res Result
	err := m.store.Update(sessionID, func(s *session.Session) error {
		hasDirection := entities.From != "" && entities.To != ""

		switch {
		case hasDirection && entities.Amount != nil:
			return m.offerOrBlock(s, entities, &res)

		case entities.Amount != nil:
			amount := *entities.Amount
			s.Pending = &session.PendingTransfer{
				ID:         uuid.NewString(),
				Stage:      session.StageAwaitingDirection,
				AmountHint: &amount,
			}
			res = Result{
				Outcome:  OutcomeClarify,
				Messages: []types.Message{types.Assistant("Got it — " + money(amount) + ". Which direction should the transfer go?")},
				Card:     directionCard(),
				Decision: clarifyDecision(s, "", ""),
			}

		case hasDirection:
			s.Pending = &session.PendingTransfer{
				ID:    uuid.NewString(),
				Stage: session.StageAwaitingAmount,
				From:  entities.From,
				To:    entities.To,
			}
			res = Result{
				Outcome:  OutcomeClarify,
				Messages: []types.Message{types.Assistant("How much would you like to transfer from " + entities.From.Title() + " to " + entities.To.Title() + "?")},
				Card:     amountCard(entities.From, entities.To, nil),
				Decision: clarifyDecision(s, entities.From, entities.To),
			}

		default:
			s.Pending = &session.PendingTransfer{
				ID:    uuid.NewString(),
				Stage: session.StageAwaitingDirection,
			}
			res = Result{
				Outcome:  OutcomeClarify,
				Messages: []types.Message{types.Assistant("Sure — which direction would you like to transfer?")},
				Card:     directionCard(),
				Decision: clarifyDecision(s, "", ""),
			}
		}
		return nil
	})
	return res, err
}

// Resume consumes a turn of free text while a transfer dialogue is mid-slot
// (awaiting direction or amount). It reports false when there is nothing to
// resume, in which case the caller should treat the turn as unrelated to the
// transfer flow.
func (m *Machine) Resume(sessionID string, entities nlu.Entities) (Result, bool, error) {
	var (
		res     Result
		handled bool
	)
	err := m.store.Update(sessionID, func(s *session.Session) error {
		pending := s.Pending
		if pending == nil || pending.Stage == session.StageAwaitingConfirm {
			return nil
		}
		handled = true

		switch pending.Stage {
		case session.StageAwaitingDirection:
			if entities.From != "" && entities.To != "" {
				pending.From, pending.To = entities.From, entities.To
				if entities.Amount != nil {
					return m.offerOrBlock(s, nlu.Entities{
						Amount: entities.Amount,
						From:   entities.From,
						To:     entities.To,
					}, &res)
				}
				pending.Stage = session.StageAwaitingAmount
				res = Result{
					Outcome:  OutcomeClarify,
					Messages: []types.Message{types.Assistant(amountPrompt(pending))},
					Card:     amountCard(pending.From, pending.To, pending.AmountHint),
					Decision: clarifyDecision(s, pending.From, pending.To),
				}
				return nil
			}
			// An amount answered out of order becomes the hint.
			if entities.Amount != nil {
				amount := *entities.Amount
				pending.AmountHint = &amount
			}
			res = Result{
				Outcome:  OutcomeClarify,
				Messages: []types.Message{types.Assistant("Which direction should the transfer go?")},
				Card:     directionCard(),
				Decision: clarifyDecision(s, "", ""),
			}

		case session.StageAwaitingAmount:
			if entities.Amount == nil {
				res = Result{
					Outcome:  OutcomeClarify,
					Messages: []types.Message{types.Assistant("I couldn't read that as an amount. " + amountPrompt(pending))},
					Card:     amountCard(pending.From, pending.To, pending.AmountHint),
					Decision: clarifyDecision(s, pending.From, pending.To),
				}
				return nil
			}
			return m.offerOrBlock(s, nlu.Entities{
				Amount: entities.Amount,
				From:   pending.From,
				To:     pending.To,
			}, &res)
		}
		return nil
	})
	return res, handled, err
}

// SetDirection handles the explicit direction choice from a card button.
func (m *Machine) SetDirection(sessionID string, from, to session.Account) (Result, error) {
	var res Result
	err := m.store.Update(sessionID, func(s *session.Session) error {
		if from == to {
			res = Result{
				Outcome:  OutcomeRejected,
				Messages: []types.Message{types.Assistant("Please choose two different accounts.")},
				Card:     directionCard(),
			}
			return nil
		}
		pending := s.Pending
		if pending == nil || pending.Stage != session.StageAwaitingDirection {
			res = Result{
				Outcome:  OutcomeRejected,
				Messages: []types.Message{types.Assistant("There's no transfer waiting for a direction. Say \"transfer money\" to start one.")},
			}
			return nil
		}

		// An amount that arrived before the direction is carried forward
		// as a suggestion only; the user still gets the amount turn to
		// accept or override it.
		pending.From, pending.To = from, to
		pending.Stage = session.StageAwaitingAmount
		res = Result{
			Outcome:  OutcomeClarify,
			Messages: []types.Message{types.Assistant(amountPrompt(pending))},
			Card:     amountCard(from, to, pending.AmountHint),
			Decision: clarifyDecision(s, from, to),
		}
		return nil
	})
	return res, err
}

// offerOrBlock runs the policy gate on a fully slotted transfer and either
// moves the session to the confirmation stage or clears the pending state
// with the block reason. Called with the session lock held.
func (m *Machine) offerOrBlock(s *session.Session, entities nlu.Entities, res *Result) error {
	decision := policy.Evaluate(nlu.IntentTransfer, entities, s.Balances)
	if !decision.Allow {
		s.Pending = nil
		logger.Debugf("[dialogue] session %s transfer blocked: %s", s.ID, decision.Reason)
		*res = Result{
			Outcome:  OutcomeBlocked,
			Messages: []types.Message{types.Assistant(decision.Reason)},
			Card:     blockedCard(decision.Reason),
			Decision: &decision,
		}
		return nil
	}

	amount := *entities.Amount
	pending := &session.PendingTransfer{
		ID:     uuid.NewString(),
		Stage:  session.StageAwaitingConfirm,
		From:   entities.From,
		To:     entities.To,
		Amount: &amount,
	}
	token, err := m.tokens.Mint(s.ID, pending.ID)
	if err != nil {
		return err
	}
	s.Pending = pending

	logger.Debugf("[dialogue] session %s awaiting confirm: %s %s -> %s",
		s.ID, money(amount), pending.From, pending.To)
	*res = Result{
		Outcome:  OutcomeConfirm,
		Messages: []types.Message{types.Assistant("For your safety, please confirm this transfer.")},
		Card:     confirmCard(pending, token),
		Decision: &decision,
	}
	return nil
}

// clarifyDecision grades a mid-dialogue turn for the debug payload. The gate
// sees the slots collected so far with no amount, which is its
// clarification-needed allow; the real amount is graded once the slots are
// complete.
func clarifyDecision(s *session.Session, from, to session.Account) *policy.Decision {
	decision := policy.Evaluate(nlu.IntentTransfer, nlu.Entities{From: from, To: to}, s.Balances)
	return &decision
}

func amountPrompt(pending *session.PendingTransfer) string {
	prompt := "How much would you like to transfer from " + pending.From.Title() + " to " + pending.To.Title() + "?"
	if pending.AmountHint != nil {
		prompt += " You mentioned " + money(*pending.AmountHint) + " earlier."
	}
	return prompt
}
