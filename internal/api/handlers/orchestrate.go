package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/compass-cx/orchestrator/internal/content"
	"github.com/compass-cx/orchestrator/internal/dialogue"
	"github.com/compass-cx/orchestrator/internal/logger"
	"github.com/compass-cx/orchestrator/internal/nlu"
	"github.com/compass-cx/orchestrator/internal/policy"
	"github.com/compass-cx/orchestrator/internal/session"
	"github.com/compass-cx/orchestrator/pkg/types"
	"github.com/gin-gonic/gin"
)

// OrchestrateHandler resolves free-form text to an intent and dispatches it
// to either the transfer dialogue or a content provider.
type OrchestrateHandler struct {
	store    *session.Store
	machine  *dialogue.Machine
	registry *content.Registry
}

// NewOrchestrateHandler creates the orchestrate endpoint handler.
func NewOrchestrateHandler(store *session.Store, machine *dialogue.Machine, registry *content.Registry) *OrchestrateHandler {
	return &OrchestrateHandler{store: store, machine: machine, registry: registry}
}

// Post handles POST /v1/orchestrate.
func (h *OrchestrateHandler) Post(c *gin.Context) {
	var req types.OrchestrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	text := strings.TrimSpace(req.Text)
	intent := nlu.Route(text)
	entities := nlu.Extract(intent, text)
	logger.Debugf("[orchestrate] session %s intent=%s", req.SessionID, intent)

	debug := types.Debug{
		Intent:   intent.String(),
		Entities: entities.DebugMap(),
		TS:       time.Now().Unix(),
	}

	// A transfer intent always goes to the state machine and overwrites
	// any transfer already in flight.
	if intent == nlu.IntentTransfer {
		res, err := h.machine.Start(req.SessionID, entities)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "failed to advance transfer dialogue"})
			return
		}
		h.rememberTurn(req.SessionID, intent)
		respondOrchestrate(c, req.SessionID, res.Messages, res.Card, withDecision(debug, res.Decision))
		return
	}

	// Unrecognized text may still be an answer to an open slot prompt
	// ("$25" while the dialogue awaits an amount). Clarification answers
	// bypass the policy gate; the gate runs once the slots are complete.
	if intent == nlu.IntentUnknown {
		res, handled, err := h.machine.Resume(req.SessionID, nlu.Extract(nlu.IntentTransfer, text))
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "failed to advance transfer dialogue"})
			return
		}
		if handled {
			respondOrchestrate(c, req.SessionID, res.Messages, res.Card, withDecision(debug, res.Decision))
			return
		}

		// Nothing matched and no dialogue to resume: answer with the
		// helpful fallback rather than a policy block, but still echo
		// the gate's grade in the debug payload.
		decision := policy.Evaluate(intent, entities, h.store.Snapshot(req.SessionID).Balances)
		reply := content.Fallback()
		respondOrchestrate(c, req.SessionID, reply.Messages, reply.Card, withDecision(debug, &decision))
		return
	}

	snap := h.store.Snapshot(req.SessionID)
	decision := policy.Evaluate(intent, entities, snap.Balances)
	debug = withDecision(debug, &decision)

	if !decision.Allow {
		respondOrchestrate(c, req.SessionID,
			[]types.Message{types.Assistant(decision.Reason)},
			types.NewCard("Action blocked", "Policy check", decision.Reason),
			debug)
		return
	}

	reply, ok := h.registry.Handle(intent, entities, snap)
	if !ok {
		reply = content.Fallback()
	} else {
		h.rememberTurn(req.SessionID, intent)
	}
	respondOrchestrate(c, req.SessionID, reply.Messages, reply.Card, debug)
}

// rememberTurn records the memory-lite used by the agent handoff packet.
// Providers themselves are pure, so the orchestrator writes the note.
func (h *OrchestrateHandler) rememberTurn(sessionID string, intent nlu.Intent) {
	_ = h.store.Update(sessionID, func(s *session.Session) error {
		s.LastIntent = intent.String()
		if note := content.HandoffNote(intent); note != "" {
			s.AddNote(note)
		}
		return nil
	})
}

func withDecision(debug types.Debug, decision *policy.Decision) types.Debug {
	if decision != nil {
		debug.Policy = &types.PolicyDebug{
			Allow:  decision.Allow,
			Risk:   decision.Risk.String(),
			Reason: decision.Reason,
		}
	}
	return debug
}

func respondOrchestrate(c *gin.Context, sessionID string, messages []types.Message, card *types.Card, debug types.Debug) {
	if messages == nil {
		messages = []types.Message{}
	}
	c.JSON(http.StatusOK, types.OrchestrateResponse{
		SessionID: sessionID,
		Messages:  messages,
		Card:      card,
		Debug:     debug,
	})
}
