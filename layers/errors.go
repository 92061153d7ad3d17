package layers

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind via errors.As rather than matching error
// strings; messages are for humans and may evolve.
type Kind string

const (
	// KindSerialize: a typed value could not be rendered into a tree.
	KindSerialize Kind = "Serialize"
	// KindDeserialize: a matched template's embedded arguments or a
	// solution could not be decoded.
	KindDeserialize Kind = "Deserialize"
	// KindInvalidStruct: a template matched but its committed identity
	// constants are wrong. This is never downgraded to non-recognition;
	// a wrong-but-structurally-similar puzzle is indistinguishable from a
	// forgery unless explicitly rejected.
	KindInvalidStruct Kind = "InvalidStruct"
	// KindMissingData: a construct step was invoked without data it needs,
	// such as an opaque layer with no program.
	KindMissingData Kind = "MissingData"
)

// Error is the package's structured error type.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func wrapError(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func isKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsInvalidStruct reports whether err is a committed-constant violation.
func IsInvalidStruct(err error) bool { return isKind(err, KindInvalidStruct) }

// IsMissingData reports whether err is a missing-construction-input error.
func IsMissingData(err error) bool { return isKind(err, KindMissingData) }
