package hooks

import "regexp"

// Matches reports whether candidate satisfies this predicate.
func (m Matcher) Matches(candidate string) bool {
	switch m.Type {
	case MatcherExact:
		return m.Value == candidate
	case MatcherGlob:
		return globMatch(m.Value, candidate)
	case MatcherRegex:
		re, err := regexp.Compile(m.Value)
		if err != nil {
			return false
		}
		return re.MatchString(candidate)
	default:
		return false
	}
}

// matchesAny reports true when rules is empty (matches everything) or any
// rule matches candidate.
func matchesAny(rules []Matcher, candidate string) bool {
	if len(rules) == 0 {
		return true
	}
	for _, rule := range rules {
		if rule.Matches(candidate) {
			return true
		}
	}
	return false
}

// MatchesPayload reports whether this hook's matchers admit the given
// tool name, source, and path. Tags are matched by the caller, since tag
// semantics are event-specific.
func (d Definition) MatchesPayload(toolName, source, path string) bool {
	return matchesAny(d.Matchers.ToolNames, toolName) &&
		matchesAny(d.Matchers.Sources, source) &&
		matchesAny(d.Matchers.Paths, path)
}
