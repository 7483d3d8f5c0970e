package filter

import (
	"regexp"
	"strings"
)

// Reserved literals substituted for parenthesised groups once they have been evaluated.
const (
	literalTrue  = ":TRUE"
	literalFalse = ":FALSE"
)

var (
	// innermostGroup finds "(nested)" in "left and (nested) or right", where nested contains no parentheses.
	innermostGroup = regexp.MustCompile(`\([^()]+\)`)

	commaSeparator = regexp.MustCompile(`\s*,\s*`)
	orSeparator    = regexp.MustCompile(`(?i)\s+or\s+`)
	andSeparator   = regexp.MustCompile(`(?i)\s+and\s+`)

	// requiredNegation matches atoms like "@!foo" or "@ not foo" as a whole,
	// requiredNegationPrefix is the part being stripped from them.
	requiredNegation       = regexp.MustCompile(`(?i)^@\s*(?:!|not ).+$`)
	requiredNegationPrefix = regexp.MustCompile(`(?i)^@\s*(?:!|not )`)
)

// Matches reports whether the given items satisfy the boolean expression.
//
// Supported syntax, lowest to highest precedence:
//   - "or" and "," - disjunction
//   - "and" - conjunction
//   - "!" and "not " - negation of the following atom
//   - "@" - marks the atom as required, see below
//   - "(...)" - grouping
//
// Keywords and item comparison are case-insensitive, a leading "@" of an item is ignored.
// An atom without the required marker is satisfied by an empty set of items, so "foo"
// matches an empty set, but "@foo" doesn't.
//
// Ill-formed operator chains are not an error: they are compared as a single atom and thus
// usually don't match. The only error returned is a *SyntaxError for unbalanced or empty parentheses.
func Matches(expression string, items Items) (bool, error) {
	expr := strings.TrimSpace(expression)
	if matched, ok := parseLiteral(expr); ok {
		return matched, nil
	}

	for strings.Contains(expr, "(") {
		loc := innermostGroup.FindStringIndex(expr)
		if loc == nil {
			return false, &SyntaxError{Expression: expr}
		}

		matched, err := Matches(expr[loc[0]+1:loc[1]-1], items)
		if err != nil {
			return false, err
		}

		expr = expr[:loc[0]] + " " + formatLiteral(matched) + " " + expr[loc[1]:]
	}

	expr = commaSeparator.ReplaceAllString(expr, " or ")

	if parts := split(orSeparator, expr); len(parts) > 1 {
		for _, part := range parts {
			matched, err := Matches(part, items)
			if err != nil {
				return false, err
			}

			if matched {
				return true, nil
			}
		}

		return false, nil
	}

	if parts := split(andSeparator, expr); len(parts) > 1 {
		for _, part := range parts {
			matched, err := Matches(part, items)
			if err != nil {
				return false, err
			}

			if !matched {
				return false, nil
			}
		}

		return true, nil
	}

	return matchAtom(expr, items), nil
}

// MatchesAny is a shorthand for Matches(expression, NewItems(items...)).
func MatchesAny(expression string, items ...string) (bool, error) {
	return Matches(expression, NewItems(items...))
}

// matchAtom evaluates a single, possibly prefixed atom against the items.
func matchAtom(atom string, items Items) bool {
	atom = strings.TrimSpace(atom)

	negate := false
	if strings.HasPrefix(atom, "!") {
		// "!!foo" is the same as "foo".
		for strings.HasPrefix(atom, "!") {
			negate = !negate
			atom = strings.TrimSpace(atom[1:])
		}
	} else if hasPrefixFold(atom, "not ") {
		negate = true
		atom = strings.TrimSpace(atom[len("not "):])
	} else if requiredNegation.MatchString(atom) {
		// The whole "@!" prefix is consumed, so the atom ends up not being required.
		negate = true
		atom = strings.TrimSpace(requiredNegationPrefix.ReplaceAllString(atom, ""))
	}

	required := false
	if strings.HasPrefix(atom, "@") {
		required = true
		atom = strings.TrimSpace(atom[1:])
	}

	if !required && len(items) == 0 {
		return true
	}

	if matched, ok := parseLiteral(atom); ok {
		return matched != negate
	}

	for _, item := range items {
		if equalItem(item, atom) {
			return !negate
		}
	}

	return negate
}

// split behaves like the regexp.Regexp.Split with an unlimited count but drops trailing empty parts.
func split(sep *regexp.Regexp, expr string) []string {
	parts := sep.Split(expr, -1)
	for len(parts) > 1 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	return parts
}

// parseLiteral returns the value of a reserved :TRUE or :FALSE literal.
// The second return value is false if s isn't one of them.
func parseLiteral(s string) (value bool, ok bool) {
	switch {
	case strings.EqualFold(s, literalTrue):
		return true, true
	case strings.EqualFold(s, literalFalse):
		return false, true
	default:
		return false, false
	}
}

func formatLiteral(value bool) string {
	if value {
		return literalTrue
	}

	return literalFalse
}

// equalItem compares an item to an atom case-insensitively, ignoring a leading "@" of the item.
func equalItem(item, atom string) bool {
	if strings.HasPrefix(item, "@") {
		item = strings.TrimSpace(item[1:])
	}

	return strings.EqualFold(item, atom)
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// Validate checks the expression for syntax errors without evaluating it against any items.
func Validate(expression string) error {
	_, err := Matches(expression, nil)
	return err
}
