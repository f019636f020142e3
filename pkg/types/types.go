package types

// Message is a single chat message in a response.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Assistant builds an assistant-role message.
func Assistant(content string) Message {
	return Message{Role: "assistant", Content: content}
}

// CardAction is a tappable button on a card. ActionName and Params round-trip
// verbatim into a subsequent /v1/action call.
type CardAction struct {
	Label      string         `json:"label"`
	ActionName string         `json:"actionName"`
	Params     map[string]any `json:"params"`
}

// Card is a structured display unit rendered by the client alongside the
// chat messages.
type Card struct {
	Title    string       `json:"title"`
	Subtitle string       `json:"subtitle"`
	Body     string       `json:"body"`
	Actions  []CardAction `json:"actions"`
}

// NewCard builds a card with no actions.
func NewCard(title, subtitle, body string) *Card {
	return &Card{Title: title, Subtitle: subtitle, Body: body, Actions: []CardAction{}}
}

// PolicyDebug is the machine-readable policy decision echoed in debug
// payloads.
type PolicyDebug struct {
	Allow  bool   `json:"allow"`
	Risk   string `json:"risk"`
	Reason string `json:"reason"`
}

// Debug carries per-turn diagnostics for the client and for tests.
type Debug struct {
	Intent   string         `json:"intent,omitempty"`
	Entities map[string]any `json:"entities,omitempty"`
	Policy   *PolicyDebug   `json:"policy,omitempty"`
	Action   string         `json:"action,omitempty"`
	TS       int64          `json:"ts"`
}

// OrchestrateRequest is the body of POST /v1/orchestrate.
type OrchestrateRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
	Text      string `json:"text"`
}

// OrchestrateResponse is the body of a successful orchestrate call.
type OrchestrateResponse struct {
	SessionID string    `json:"sessionId"`
	Messages  []Message `json:"messages"`
	Card      *Card     `json:"card,omitempty"`
	Debug     Debug     `json:"debug"`
}

// ActionRequest is the body of POST /v1/action (button clicks).
type ActionRequest struct {
	SessionID  string         `json:"sessionId" binding:"required"`
	UserID     string         `json:"userId" binding:"required"`
	ActionName string         `json:"actionName" binding:"required"`
	Params     map[string]any `json:"params"`
}

// ActionResponse is the body of an action call. Balances are present only
// after a successful transfer execution, rendered as fixed two-decimal
// strings keyed by account name.
type ActionResponse struct {
	OK       bool              `json:"ok"`
	Messages []Message         `json:"messages"`
	Card     *Card             `json:"card,omitempty"`
	Balances map[string]string `json:"balances,omitempty"`
	Debug    Debug             `json:"debug"`
}

// ErrorResponse is the generic transport-level error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
