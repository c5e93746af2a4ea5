package pyparse

import (
	"github.com/robofit/arcor2-core/arcerr"
)

// stmt is one statement inside the while-loop body: a method call, a bare
// continue, or an if/elif chain. The tree mirrors exactly the three shapes
// PyEmit ever produces; anything else fails to parse.
type stmt interface{ isStmt() }

type callStmt struct {
	assign []string // assignment targets, in order; empty if the result is not bound
	objVar string
	method string
	args   []string // raw, comma-split argument text
	anName string
}

func (callStmt) isStmt() {}

type continueStmt struct{}

func (continueStmt) isStmt() {}

type ifBranch struct {
	condName  string
	condValue string
	body      []stmt
}

type ifStmt struct {
	branches []ifBranch
}

func (ifStmt) isStmt() {}

// parseBlock groups a flat, already block-scoped list of rawLines (all at or
// below a single top indent, as sliced by the caller) into a statement
// tree: lines at the block's own indent become top-level statements: an
// if/elif header line consumes every immediately-following deeper-indented
// run as that branch's nested body.
func parseBlock(lines []rawLine) ([]stmt, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	topIndent := lines[0].indent
	var out []stmt
	i := 0
	for i < len(lines) {
		l := lines[i]
		if l.indent != topIndent {
			return nil, arcerr.New(arcerr.PyShape, "", "pyparse.block", "unexpected indentation on %q", l.text)
		}
		switch {
		case continueLine.MatchString(l.text):
			out = append(out, continueStmt{})
			i++

		case ifLine.MatchString(l.text):
			var branches []ifBranch
			for i < len(lines) && lines[i].indent == topIndent && ifLine.MatchString(lines[i].text) {
				m := ifLine.FindStringSubmatch(lines[i].text)
				kind, name, value := m[1], m[2], m[3]
				if len(branches) == 0 && kind != "if" {
					return nil, arcerr.New(arcerr.PyShape, "", "pyparse.block", "elif without a preceding if: %q", lines[i].text)
				}
				if len(branches) > 0 && kind != "elif" {
					break
				}
				i++
				bodyIndent := -1
				var bodyLines []rawLine
				for i < len(lines) {
					if bodyIndent == -1 {
						if lines[i].indent <= topIndent {
							break
						}
						bodyIndent = lines[i].indent
					}
					if lines[i].indent < bodyIndent {
						break
					}
					bodyLines = append(bodyLines, lines[i])
					i++
				}
				sub, err := parseBlock(bodyLines)
				if err != nil {
					return nil, err
				}
				branches = append(branches, ifBranch{condName: name, condValue: value, body: sub})
			}
			out = append(out, ifStmt{branches: branches})

		case callLine.MatchString(l.text):
			m := callLine.FindStringSubmatch(l.text)
			var assign []string
			if m[1] != "" {
				for _, n := range splitTop(m[1], ',') {
					assign = append(assign, trimSpace(n))
				}
			}
			rawArgs := splitTop(m[4], ',')
			var args []string
			var anName string
			for _, a := range rawArgs {
				a = trimSpace(a)
				if a == "" {
					continue
				}
				if name, ok := stripAnKeyword(a); ok {
					anName = name
					continue
				}
				args = append(args, a)
			}
			if anName == "" {
				return nil, arcerr.New(arcerr.PyShape, "", "pyparse.block", "call %q is missing an an= keyword", l.text)
			}
			out = append(out, callStmt{assign: assign, objVar: m[2], method: m[3], args: args, anName: anName})
			i++

		default:
			return nil, arcerr.New(arcerr.PyShape, "", "pyparse.block", "unrecognized statement %q", l.text)
		}
	}
	return out, nil
}

// splitTop splits s on sep, ignoring separators nested inside (), [], or
// quotes, so argument lists with nested calls or list literals split
// correctly.
func splitTop(s string, sep byte) []string {
	var out []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote && (i == 0 || s[i-1] != '\\') {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == sep && depth == 0:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
}

// stripAnKeyword recognizes an `an='<name>'` argument and returns its value.
func stripAnKeyword(arg string) (string, bool) {
	const prefix = "an="
	if len(arg) <= len(prefix) || arg[:len(prefix)] != prefix {
		return "", false
	}
	rest := arg[len(prefix):]
	if len(rest) >= 2 && (rest[0] == '\'' || rest[0] == '"') && rest[len(rest)-1] == rest[0] {
		return rest[1 : len(rest)-1], true
	}
	return "", false
}
