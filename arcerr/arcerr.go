// Package arcerr defines the tagged error taxonomy shared by cache, plugin,
// resolve, logic, pyemit, and pyparse. Every failure in this module is an
// *Error carrying a Kind a caller can branch on, plus enough context to
// locate the offending entity.
package arcerr

import (
	"errors"
	"fmt"
)

// Kind tags the category of failure, per the taxonomy every component of
// this module reports against.
type Kind string

// Structural kinds: violations of a Cache's id/name/parent invariants.
const (
	DuplicateId       Kind = "duplicate_id"
	DuplicateName     Kind = "duplicate_name"
	NotFound          Kind = "not_found"
	InvalidIdentifier Kind = "invalid_identifier"
	InvalidParent     Kind = "invalid_parent"
	ParentLoop        Kind = "parent_loop"
)

// Reference kinds: violations discovered resolving an ActionParameter.
const (
	DanglingLink                 Kind = "dangling_link"
	DanglingProjectParameter     Kind = "dangling_project_parameter"
	LinkTypeMismatch             Kind = "link_type_mismatch"
	ProjectParameterTypeMismatch Kind = "project_parameter_type_mismatch"
	UnknownPlugin                Kind = "unknown_plugin"
)

// Logic kinds: violations discovered validating a logic graph.
const (
	UnfinishedLogic          Kind = "unfinished_logic"
	LoopDetected             Kind = "loop_detected"
	DuplicateStart           Kind = "duplicate_start"
	ConflictingEdges         Kind = "conflicting_edges"
	UnsupportedConditionType Kind = "unsupported_condition_type"
	InvalidConditionValue    Kind = "invalid_condition_value"
)

// Syntactic kinds: PyParse-only, reported when the input source deviates
// from the template PyEmit produces.
const (
	PyShape Kind = "py_shape"
)

// Range kinds: plugin value-bound violations.
const (
	ValueOutOfRange Kind = "value_out_of_range"
	WrongValueShape Kind = "wrong_value_shape"
)

// Error is the single error type every package in this module returns. It
// always names the offending entity and the rule that was violated.
type Error struct {
	// Kind is the tag callers branch on.
	Kind Kind
	// Entity is the id (or, for PyShape, the source location) of the
	// offending value.
	Entity string
	// Rule is a short, stable name for the violated invariant.
	Rule string
	// Message is the full human-readable description.
	Message string
}

func (e *Error) Error() string {
	if e.Entity == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Entity, e.Message)
}

// New builds an Error. msg is formatted with fmt.Sprintf when args are
// given.
func New(kind Kind, entity, rule, msg string, args ...any) *Error {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &Error{Kind: kind, Entity: entity, Rule: rule, Message: msg}
}

// Is reports whether err is an *Error of the given kind, unwrapping as
// needed. It lets callers write `arcerr.Is(err, arcerr.NotFound)`.
func Is(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// List aggregates every violation found by a diagnostic pass (SceneProblems,
// ProjectProblems) instead of stopping at the first, the way
// goa.design/goa/v3/eval.ValidationErrors aggregates DSL evaluation errors —
// reimplemented locally since nothing here evaluates a DSL.
type List []*Error

// Add appends a new Error built from the given kind/entity/rule/message.
func (l *List) Add(kind Kind, entity, rule, msg string, args ...any) {
	*l = append(*l, New(kind, entity, rule, msg, args...))
}

// Error joins every message, one per line. Satisfies the error interface so
// a non-empty List can be returned directly where a single error is
// expected.
func (l List) Error() string {
	s := ""
	for i, e := range l {
		if i > 0 {
			s += "\n"
		}
		s += e.Error()
	}
	return s
}

// OrNil returns nil if l is empty, else l itself as an error.
func (l List) OrNil() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
