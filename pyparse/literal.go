package pyparse

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/robofit/arcor2-core/plugin"
)

// literalExpr is a decoded Python literal: the runtime kind used to pick a
// plugin by plugin.Registry.ByRuntimeType, and the JSON encoding PyEmit
// itself writes into ActionParameter.Value / ProjectParameter.Value.
type literalExpr struct {
	runtime   plugin.RuntimeType
	jsonValue string
}

// parseLiteral decodes the handful of Python literal forms PyEmit ever
// writes: True/False, an int, a float, or a single- or double-quoted string.
func parseLiteral(raw string) (literalExpr, error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "True":
		return literalExpr{runtime: plugin.RuntimeBool, jsonValue: "true"}, nil
	case "False":
		return literalExpr{runtime: plugin.RuntimeBool, jsonValue: "false"}, nil
	}
	if len(raw) >= 2 && raw[0] == '\'' && raw[len(raw)-1] == '\'' {
		s := raw[1 : len(raw)-1]
		b, err := json.Marshal(s)
		if err != nil {
			return literalExpr{}, fmt.Errorf("pyparse: invalid string literal %q", raw)
		}
		return literalExpr{runtime: plugin.RuntimeString, jsonValue: string(b)}, nil
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		s := raw[1 : len(raw)-1]
		b, err := json.Marshal(s)
		if err != nil {
			return literalExpr{}, fmt.Errorf("pyparse: invalid string literal %q", raw)
		}
		return literalExpr{runtime: plugin.RuntimeString, jsonValue: string(b)}, nil
	}
	if strings.ContainsAny(raw, ".eE") {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return literalExpr{}, fmt.Errorf("pyparse: invalid numeric literal %q", raw)
		}
		return literalExpr{runtime: plugin.RuntimeFloat, jsonValue: strconv.FormatFloat(f, 'g', -1, 64)}, nil
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return literalExpr{runtime: plugin.RuntimeInt, jsonValue: strconv.FormatInt(i, 10)}, nil
	}
	return literalExpr{}, fmt.Errorf("pyparse: unrecognized literal %q", raw)
}
