package errx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

const (
	// GenericFailureMessage is the user-facing fallback when nothing better is known.
	GenericFailureMessage = "Something went wrong. Please try again."
	// TransportFailureMessage is shown when no response reached the client.
	TransportFailureMessage = "Could not reach the server"
	// ProtocolFailureMessage prefixes a success response that was not JSON.
	ProtocolFailureMessage = "Unexpected response from server"
	// NoSessionMessage is shown when an authenticated action runs without a token.
	NoSessionMessage = "Please log in to continue"

	// PreviewLimit bounds how much of a response body ends up in a message.
	PreviewLimit = 100
)

// ErrNoSession marks failures caused by a missing session token.
var ErrNoSession = errors.New("no session token")

// Kind classifies a Failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindTransport means no response was received at all.
	KindTransport
	// KindProtocol means a success status carried a body that was not usable JSON.
	KindProtocol
	// KindApplication means the server answered with a non-success status.
	KindApplication
	// KindValidation means the operation was rejected before any request was sent.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindApplication:
		return "application"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Failure wraps an underlying error with its kind, the HTTP status when one
// was received, and a display-ready message.
type Failure struct {
	Kind    Kind
	Status  int
	Body    string // bounded preview of the response body
	Op      string // what the user was doing, e.g. "failed to add product"
	Message string
	Err     error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	msg := f.Display()
	if f.Err == nil {
		return msg
	}
	return fmt.Sprintf("%s: %v", msg, f.Err)
}

// Display is the text the presentation layer shows for this failure.
func (f *Failure) Display() string {
	msg := f.Message
	if msg == "" {
		msg = GenericFailureMessage
	}
	if f.Op == "" {
		return msg
	}
	return f.Op + ": " + msg
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Is reports whether the target matches the underlying error.
func (f *Failure) Is(target error) bool {
	return errors.Is(f.Err, target)
}

// As allows casting to Failure or the wrapped error in a chain.
func (f *Failure) As(target any) bool {
	if t, ok := target.(**Failure); ok {
		*t = f
		return true
	}
	return errors.As(f.Err, target)
}

// Transport reports that the request never produced a response.
func Transport(err error) *Failure {
	return &Failure{
		Kind:    KindTransport,
		Message: TransportFailureMessage,
		Err:     err,
	}
}

// Protocol reports a success status whose body could not be used as JSON.
func Protocol(status int, body string, err error) *Failure {
	preview := Preview(body)
	msg := ProtocolFailureMessage
	if preview != "" {
		msg += ": " + preview
	}
	return &Failure{
		Kind:    KindProtocol,
		Status:  status,
		Body:    preview,
		Message: msg,
		Err:     err,
	}
}

// Application reports a non-success status. The message is the server's own
// text when it sent any.
func Application(status int, body string) *Failure {
	preview := Preview(body)
	msg := ServerMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d %s", status, http.StatusText(status))
	}
	return &Failure{
		Kind:    KindApplication,
		Status:  status,
		Body:    preview,
		Message: msg,
	}
}

// Validation reports input rejected before reaching the network.
func Validation(message string) *Failure {
	return &Failure{
		Kind:    KindValidation,
		Message: message,
	}
}

// NoSession reports an authenticated operation attempted without a token.
func NoSession() *Failure {
	return &Failure{
		Kind:    KindValidation,
		Message: NoSessionMessage,
		Err:     ErrNoSession,
	}
}

// Annotate prefixes the display message of a Failure with op. Errors that are
// not Failures are wrapped as unknown failures so they never reach the user raw.
func Annotate(err error, op string) error {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		cp := *f
		cp.Op = op
		return &cp
	}
	return &Failure{Kind: KindUnknown, Op: op, Err: err}
}

// KindOf returns the kind of the first Failure in err's chain.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnknown
}

// Message turns any error into display-ready text. Only Failures carry text
// meant for users; everything else gets the generic fallback.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Display()
	}
	return GenericFailureMessage
}

// ServerMessage extracts the human readable part of a response body: the
// msg, message or error field of a JSON object, else the trimmed body preview.
func ServerMessage(body string) string {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "{") {
		var doc map[string]any
		if err := json.Unmarshal([]byte(trimmed), &doc); err == nil {
			if msg := MessageField(doc); msg != "" {
				return msg
			}
		}
	}
	return Preview(trimmed)
}

// MessageField returns the first non-empty string among the fields a backend
// uses to explain a failure, bounded like Preview.
func MessageField(doc map[string]any) string {
	for _, key := range []string{"msg", "message", "error"} {
		if s, ok := doc[key].(string); ok && strings.TrimSpace(s) != "" {
			return Preview(s)
		}
	}
	return ""
}

// Preview bounds s to PreviewLimit runes, marking the cut with an ellipsis.
func Preview(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= PreviewLimit {
		return s
	}
	runes := []rune(s)
	return string(runes[:PreviewLimit]) + "…"
}
