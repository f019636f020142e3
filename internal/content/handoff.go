package content

import (
	"github.com/compass-cx/orchestrator/internal/nlu"
	"github.com/compass-cx/orchestrator/internal/session"
	"github.com/compass-cx/orchestrator/pkg/types"
)

// agentHandoff builds the handoff packet from the session's memory so the
// user does not have to repeat themselves to a human agent.
func agentHandoff(_ nlu.Intent, _ nlu.Entities, snap session.Snapshot) Reply {
	notes := "- (no notes yet)"
	if len(snap.Notes) > 0 {
		notes = ""
		for i, note := range snap.Notes {
			if i > 0 {
				notes += "\n"
			}
			notes += "- " + note
		}
	}

	lastIntent := snap.LastIntent
	if lastIntent == "" {
		lastIntent = "(none)"
	}

	body := "What I'll send to the agent:\n" +
		"- Last intent: " + lastIntent + "\n" +
		notes + "\n" +
		"- Balances snapshot: Checking " + money(snap.Balances[session.Checking]) +
		", Savings " + money(snap.Balances[session.Savings]) + "\n\n" +
		"The agent keeps your context; you won't be asked to repeat details."

	return Reply{
		Messages: []types.Message{types.Assistant("Connecting you to a specialist. I'll share context so you don't repeat yourself.")},
		Card:     types.NewCard("Agent Handoff", "Connecting", body),
	}
}
