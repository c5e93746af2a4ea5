package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Sentinel endpoints of a logic graph.
const (
	Start = "START"
	End   = "END"
)

// OutputRef names the k-th output of one flow of one action: the shape of
// both a LogicItem condition's "what" and a LINK action-parameter's value.
type OutputRef struct {
	ActionID    string
	Flow        FlowKind
	OutputIndex int
}

// String renders r as "<action_id>/<flow>/<output_index>".
func (r OutputRef) String() string {
	return fmt.Sprintf("%s/%s/%d", r.ActionID, r.Flow, r.OutputIndex)
}

// ParseOutputRef parses the three-segment "<action_id>/<flow>/<output_index>"
// form. The two-segment form without an output index (seen in some inputs,
// per the source's mixed condition-representation note) is normalized to
// output index 0.
func ParseOutputRef(s string) (OutputRef, error) {
	parts := strings.Split(s, "/")
	switch len(parts) {
	case 3:
		idx, err := strconv.Atoi(parts[2])
		if err != nil {
			return OutputRef{}, fmt.Errorf("invalid link value %q: output index must be an integer", s)
		}
		return OutputRef{ActionID: parts[0], Flow: FlowKind(parts[1]), OutputIndex: idx}, nil
	case 2:
		return OutputRef{ActionID: parts[0], Flow: FlowKind(parts[1]), OutputIndex: 0}, nil
	default:
		return OutputRef{}, fmt.Errorf("invalid link value %q", s)
	}
}

// ParsedStart is the decoded form of a LogicItem.Start that names an action.
type ParsedStart struct {
	ActionID string
	Flow     FlowKind
}

// ParseStart decodes a LogicItem.Start of the form "<action_id>" or
// "<action_id>/<flow>" (default flow implied). Callers must check for the
// Start sentinel separately.
func ParseStart(s string) ParsedStart {
	id, flow, ok := splitOnce(s, '/')
	if !ok {
		return ParsedStart{ActionID: s, Flow: FlowKindDefault}
	}
	return ParsedStart{ActionID: id, Flow: FlowKind(flow)}
}

// splitOnce splits s on the first occurrence of sep, reporting ok=false if
// sep does not occur exactly once.
func splitOnce(s string, sep byte) (before, after string, ok bool) {
	i := strings.IndexByte(s, sep)
	if i < 0 || strings.IndexByte(s[i+1:], sep) >= 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}
