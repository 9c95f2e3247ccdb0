package petals

import "encoding/json"

// Status classifies the outcome of one tool execution.
type Status string

const (
	StatusSuccess        Status = "success"
	StatusFailure        Status = "failure"
	StatusPartialSuccess Status = "partialSuccess"
	StatusPartialFailure Status = "partialFailure"
	StatusNeedMoreInfo   Status = "needMoreInfo"
)

// SuggestedAction is an optional follow-up the conversation layer may offer
// after a result, e.g. a button that sends Prompt as the next user message.
type SuggestedAction struct {
	Label  string `json:"label"`
	Prompt string `json:"prompt"`
}

// Result is the structured outcome of one dispatched tool call. Payload is
// tool-defined serializable data; the dispatcher imposes no shared schema on
// it. Err carries the taxonomy error when Status is StatusFailure.
type Result struct {
	CallID           string
	Tool             ToolID
	Status           Status
	Payload          json.RawMessage
	Message          string
	Err              error
	SuggestedActions []SuggestedAction
}

// Success builds a success result carrying payload. A payload that cannot be
// marshaled is an executor bug and comes back as a failure instead.
func Success(payload any) Result {
	data, err := json.Marshal(payload)
	if err != nil {
		return Failure(&ExecutionError{Err: err})
	}
	return Result{Status: StatusSuccess, Payload: data}
}

// Failure builds a failure result from a taxonomy error.
func Failure(err error) Result {
	return Result{Status: StatusFailure, Err: err}
}

// NeedMoreInfo builds a result asking the user for missing input, with
// optional follow-up actions.
func NeedMoreInfo(message string, actions ...SuggestedAction) Result {
	return Result{Status: StatusNeedMoreInfo, Message: message, SuggestedActions: actions}
}

// PartialSuccess builds a result for work that mostly succeeded; message
// explains what was skipped or failed.
func PartialSuccess(payload any, message string) Result {
	res := Success(payload)
	if res.Status != StatusSuccess {
		return res
	}
	res.Status = StatusPartialSuccess
	res.Message = message
	return res
}

// emptyPayload reports whether a payload carries no renderable data.
func emptyPayload(p json.RawMessage) bool {
	switch string(p) {
	case "", "null", "[]", "{}", `""`:
		return true
	}
	return false
}
