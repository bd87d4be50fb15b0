package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error so handlers can map it to a response
// without string matching.
type Kind string

const (
	KindValidation           Kind = "validation"
	KindInvalidState         Kind = "invalid_state"
	KindTemplateValidation   Kind = "template_validation"
	KindMissingPartyField    Kind = "missing_party_field"
	KindUnresolvedVariable   Kind = "unresolved_variable"
	KindExternalCollaborator Kind = "external_collaborator"
	KindNotFound             Kind = "not_found"
)

// Error carries enough detail to act on a failure: which record,
// which token, which field.
type Error struct {
	Kind        Kind
	Msg         string
	CandidateID string
	ClauseID    string
	Field       string
	Token       string
	Tokens      []string
	cause       error
}

func (e *Error) Error() string {
	parts := []string{string(e.Kind) + ": " + e.Msg}
	if e.CandidateID != "" {
		parts = append(parts, "candidate="+e.CandidateID)
	}
	if e.ClauseID != "" {
		parts = append(parts, "clause="+e.ClauseID)
	}
	if e.Field != "" {
		parts = append(parts, "field="+e.Field)
	}
	if e.Token != "" {
		parts = append(parts, "token="+e.Token)
	}
	if len(e.Tokens) > 0 {
		parts = append(parts, "tokens="+strings.Join(e.Tokens, ","))
	}
	if e.cause != nil {
		parts = append(parts, "cause="+e.cause.Error())
	}
	return strings.Join(parts, " ")
}

func (e *Error) Unwrap() error { return e.cause }

// Validation reports malformed input to ingestion or template operations.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// InvalidState reports an illegal candidate state transition.
func InvalidState(candidateID, msg string) *Error {
	return &Error{Kind: KindInvalidState, Msg: msg, CandidateID: candidateID}
}

// TemplateValidation reports placeholder tokens missing from a template's
// declared variables.
func TemplateValidation(tokens []string) *Error {
	return &Error{
		Kind:   KindTemplateValidation,
		Msg:    "content contains undeclared placeholders",
		Tokens: tokens,
	}
}

// MissingPartyField reports a required party or project field that was absent.
func MissingPartyField(field string) *Error {
	return &Error{Kind: KindMissingPartyField, Msg: "required field is missing", Field: field}
}

// UnresolvedVariable reports a composition-time placeholder with no entry in
// the variable table.
func UnresolvedVariable(token, clauseID string) *Error {
	return &Error{
		Kind:     KindUnresolvedVariable,
		Msg:      "no value for placeholder",
		Token:    token,
		ClauseID: clauseID,
	}
}

// External wraps a failed or unparseable AI collaborator call.
func External(msg string, cause error) *Error {
	return &Error{Kind: KindExternalCollaborator, Msg: msg, cause: cause}
}

// NotFound reports a missing record.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// KindOf returns the Kind of err, or "" for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
