package vdiff

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ErrUnbalanced is returned when #if/#endif directives do not nest on one
// side of the diff.
var ErrUnbalanced = errors.New("unbalanced preprocessor directives")

// Options controls diff construction.
type Options struct {
	// Annotations enables parsing of C preprocessor conditionals. When false
	// every line becomes an artifact directly below the root.
	Annotations bool
	// Language is recorded on the diff for reporting.
	Language string
}

type directive int

const (
	dirNone directive = iota
	dirIf
	dirElif
	dirElse
	dirEndif
)

type builder struct {
	diff        *Diff
	stacks      [2][]*Node // indexed by Time
	lines       [2]int
	annotations bool
	// chains remembers, per annotation node, the conditions of the branches
	// seen so far in its #if chain.
	chains map[*Node][]string
}

// Build computes the variation diff of a file between two revisions. Either
// side may be nil for added or deleted files.
func Build(path string, oldContent, newContent []byte, opts Options) (*Diff, error) {
	root := &Node{ID: 0, DiffType: Non, NodeType: Root}

	b := &builder{
		diff:        &Diff{Path: path, Language: opts.Language, root: root, count: 1},
		annotations: opts.Annotations,
		chains:      map[*Node][]string{},
	}
	b.stacks[Before] = []*Node{root}
	b.stacks[After] = []*Node{root}

	for _, ln := range diffLines(string(oldContent), string(newContent)) {
		err := b.line(ln.diffType, ln.text)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if len(b.stacks[Before]) > 1 || len(b.stacks[After]) > 1 {
		return nil, fmt.Errorf("%s: %w: missing #endif", path, ErrUnbalanced)
	}

	return b.diff, nil
}

type diffLine struct {
	diffType DiffType
	text     string
}

// diffLines runs a line-mode diff and flattens it into one entry per line.
func diffLines(oldText, newText string) []diffLine {
	dmp := diffmatchpatch.New()
	a, b, table := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), table)

	var out []diffLine

	for _, d := range diffs {
		var dt DiffType

		switch d.Type {
		case diffmatchpatch.DiffInsert:
			dt = Add
		case diffmatchpatch.DiffDelete:
			dt = Rem
		case diffmatchpatch.DiffEqual:
			dt = Non
		}

		for _, text := range strings.SplitAfter(d.Text, "\n") {
			if text == "" {
				continue
			}

			out = append(out, diffLine{diffType: dt, text: strings.TrimRight(text, "\r\n")})
		}
	}

	return out
}

func (b *builder) line(dt DiffType, text string) error {
	for _, t := range []Time{Before, After} {
		if dt.ExistsAt(t) {
			b.lines[t]++
		}
	}

	kind, cond := dirNone, ""
	if b.annotations {
		kind, cond = parseDirective(text)
	}

	switch kind {
	case dirIf:
		n := b.attach(&Node{NodeType: If, Label: text, conjuncts: []string{cond}}, dt)
		b.chains[n] = []string{cond}
		b.push(n, dt)
	case dirElif, dirElse:
		closed, err := b.pop(dt, text)
		if err != nil {
			return err
		}

		if dt == Non && closed[Before] != closed[After] {
			// The branches closed on each side differ, so each side gets its
			// own directive node with its own chain.
			b.branch(kind, cond, text, Rem, closed[Before])
			b.branch(kind, cond, text, Add, closed[After])

			return nil
		}

		prev := closed[After]
		if prev == nil {
			prev = closed[Before]
		}

		b.branch(kind, cond, text, dt, prev)
	case dirEndif:
		_, err := b.pop(dt, text)
		if err != nil {
			return err
		}
	default:
		b.attach(&Node{NodeType: Artifact, Label: text}, dt)
	}

	return nil
}

// branch opens an #elif or #else continuing the chain of prev.
func (b *builder) branch(kind directive, cond, text string, dt DiffType, prev *Node) {
	chain := b.chains[prev]
	conjuncts := make([]string, 0, len(chain)+1)

	for _, c := range chain {
		conjuncts = append(conjuncts, negate(c))
	}

	nt := Else
	next := chain

	if kind == dirElif {
		nt = Elif
		conjuncts = append(conjuncts, cond)
		next = append(append([]string{}, chain...), cond)
	}

	n := b.attach(&Node{NodeType: nt, Label: text, conjuncts: conjuncts}, dt)
	b.chains[n] = next
	b.push(n, dt)
}

// attach wires n below the current top annotations of the sides it exists on.
func (b *builder) attach(n *Node, dt DiffType) *Node {
	n.ID = b.diff.count
	n.DiffType = dt
	b.diff.count++

	if dt.ExistsAt(Before) {
		n.parentBefore = b.top(Before)
		n.FromLine = b.lines[Before]
	}

	if dt.ExistsAt(After) {
		n.parentAfter = b.top(After)
		n.ToLine = b.lines[After]
	}

	owner := n.parentAfter
	if owner == nil {
		owner = n.parentBefore
	}

	owner.children = append(owner.children, n)

	return n
}

func (b *builder) top(t Time) *Node {
	s := b.stacks[t]

	return s[len(s)-1]
}

func (b *builder) push(n *Node, dt DiffType) {
	for _, t := range []Time{Before, After} {
		if dt.ExistsAt(t) {
			b.stacks[t] = append(b.stacks[t], n)
		}
	}
}

// pop closes the innermost branch on every side the directive exists on and
// returns the closed branch per side.
func (b *builder) pop(dt DiffType, text string) ([2]*Node, error) {
	var closed [2]*Node

	for _, t := range []Time{Before, After} {
		if !dt.ExistsAt(t) {
			continue
		}

		s := b.stacks[t]
		if len(s) == 1 {
			return closed, fmt.Errorf("%w: %q without #if at line %d", ErrUnbalanced, strings.TrimSpace(text), b.lines[t])
		}

		closed[t] = s[len(s)-1]
		b.stacks[t] = s[:len(s)-1]
	}

	return closed, nil
}

// parseDirective recognises conditional preprocessor lines and returns the
// normalised condition for #if-like and #elif-like directives.
func parseDirective(line string) (directive, string) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return dirNone, ""
	}

	rest := strings.TrimSpace(trimmed[1:])
	keyword := rest

	if i := strings.IndexFunc(rest, func(r rune) bool { return !isIdentRune(r) }); i >= 0 {
		keyword = rest[:i]
	}

	arg := normalizeCondition(rest[len(keyword):])

	switch keyword {
	case "if":
		return dirIf, arg
	case "ifdef":
		return dirIf, "defined(" + arg + ")"
	case "ifndef":
		return dirIf, "!defined(" + arg + ")"
	case "elif":
		return dirElif, arg
	case "elifdef":
		return dirElif, "defined(" + arg + ")"
	case "elifndef":
		return dirElif, "!defined(" + arg + ")"
	case "else":
		return dirElse, ""
	case "endif":
		return dirEndif, ""
	default:
		return dirNone, ""
	}
}

func isIdentRune(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

// normalizeCondition strips comments and collapses whitespace.
func normalizeCondition(s string) string {
	if i := strings.Index(s, "//"); i >= 0 {
		s = s[:i]
	}

	for {
		start := strings.Index(s, "/*")
		if start < 0 {
			break
		}

		end := strings.Index(s[start+2:], "*/")
		if end < 0 {
			s = s[:start]

			break
		}

		s = s[:start] + " " + s[start+2+end+2:]
	}

	return strings.Join(strings.Fields(s), " ")
}

// negate returns the textual negation of a condition, removing a leading
// negation of a single atom instead of doubling it.
func negate(cond string) string {
	if strings.HasPrefix(cond, "!") && isAtom(cond[1:]) {
		return cond[1:]
	}

	if isAtom(cond) {
		return "!" + cond
	}

	return "!(" + cond + ")"
}

// isAtom reports whether s is an identifier, a call like defined(X), or a
// fully parenthesised expression.
func isAtom(s string) bool {
	if s == "" || strings.ContainsAny(s, " &|<>=!+-*/?:") && !wrapped(s) {
		return false
	}

	return true
}

func wrapped(s string) bool {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return false
	}

	for _, r := range s[:open] {
		if !isIdentRune(r) {
			return false
		}
	}

	depth := 0

	for i, r := range s[open:] {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && open+i != len(s)-1 {
				return false
			}
		}
	}

	return depth == 0
}
