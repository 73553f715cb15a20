package emission

import "regexp"

// rewriteTemplates converts the SQL-ish operators rsql.Format renders into expr-lang/expr
// syntax: LIKE patterns become contains/startsWith/endsWith/like_match calls, and IS [NOT]
// NULL becomes a nil comparison. expr-lang has no native LIKE or IS NULL operator, so every
// occurrence must be rewritten before the expression reaches expr.Compile.
func rewriteTemplates(expression string) string {
	expression = rewriteLike(expression)
	expression = rewriteIsNull(expression)
	return expression
}

var likePattern = regexp.MustCompile(`(\w+(?:\.\w+)*)\s+LIKE\s+'([^']*)'`)

func rewriteLike(expression string) string {
	return likePattern.ReplaceAllStringFunc(expression, func(match string) string {
		m := likePattern.FindStringSubmatch(match)
		if len(m) != 3 {
			return match
		}
		return likeToExprLang(m[1], m[2])
	})
}

// likeToExprLang picks the cheapest expr-lang equivalent for a LIKE pattern: an exact match, a
// contains/startsWith/endsWith operator for a single run of leading/trailing '%', or a
// like_match(...) call for anything with interior wildcards or '_' placeholders.
func likeToExprLang(field, pattern string) string {
	switch {
	case pattern == "":
		return field + " == ''"
	case pattern == "%":
		return "true"
	case len(pattern) > 1 && pattern[0] == '%' && pattern[len(pattern)-1] == '%' && !containsWildcard(pattern[1:len(pattern)-1]):
		return field + " contains '" + pattern[1:len(pattern)-1] + "'"
	case len(pattern) > 1 && pattern[0] == '%' && !containsWildcard(pattern[1:]):
		return field + " endsWith '" + pattern[1:] + "'"
	case len(pattern) > 1 && pattern[len(pattern)-1] == '%' && !containsWildcard(pattern[:len(pattern)-1]):
		return field + " startsWith '" + pattern[:len(pattern)-1] + "'"
	case containsWildcard(pattern):
		return "like_match(" + field + ", '" + pattern + "')"
	default:
		return field + " == '" + pattern + "'"
	}
}

func containsWildcard(s string) bool {
	for _, r := range s {
		if r == '%' || r == '_' {
			return true
		}
	}
	return false
}

var (
	isNotNullPattern = regexp.MustCompile(`(\w+(?:\.\w+)*)\s+IS\s+NOT\s+NULL`)
	isNullPattern    = regexp.MustCompile(`(\w+(?:\.\w+)*)\s+IS\s+NULL`)
)

func rewriteIsNull(expression string) string {
	expression = isNotNullPattern.ReplaceAllString(expression, "$1 != nil")
	expression = isNullPattern.ReplaceAllString(expression, "$1 == nil")
	return expression
}

// likeMatch implements SQL LIKE matching for patterns rewriteTemplates can't reduce to a single
// expr-lang operator (interior '%' runs, or '_' single-character wildcards). Registered into
// every compiled expression's environment as the like_match function.
func likeMatch(text, pattern string) bool {
	return likeMatchAt(text, pattern, 0, 0)
}

func likeMatchAt(text, pattern string, ti, pi int) bool {
	if pi >= len(pattern) {
		return ti >= len(text)
	}
	if ti >= len(text) {
		for i := pi; i < len(pattern); i++ {
			if pattern[i] != '%' {
				return false
			}
		}
		return true
	}
	switch pattern[pi] {
	case '%':
		if likeMatchAt(text, pattern, ti, pi+1) {
			return true
		}
		for i := ti; i < len(text); i++ {
			if likeMatchAt(text, pattern, i+1, pi+1) {
				return true
			}
		}
		return false
	case '_':
		return likeMatchAt(text, pattern, ti+1, pi+1)
	default:
		return text[ti] == pattern[pi] && likeMatchAt(text, pattern, ti+1, pi+1)
	}
}
