package cleaner

import "errors"

// ErrorEnvelope is the wire shape of a failed operation.
type ErrorEnvelope struct {
	Error string `json:"error"`
	Kind  Kind   `json:"kind,omitempty"`
}

// Envelope returns result when err is nil, otherwise an ErrorEnvelope
// carrying the error's display message and kind.
func Envelope(result any, err error) any {
	if err == nil {
		return result
	}
	env := ErrorEnvelope{Error: err.Error()}
	var ce *Error
	if errors.As(err, &ce) {
		env.Error = ce.Message
		env.Kind = ce.Kind
	}
	return env
}
