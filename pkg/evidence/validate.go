package evidence

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/contracts"
)

// validate applies the contract's validation_rules against the
// assembled evidence. Supported rule grammars:
// "non_empty" and "min_count:<n>", both evaluated against the node
// named by the rule's Field (a Field of "elements_found" with no graph
// node of that name falls back to ElementsFound length). Unrecognized
// rule strings are reported as a failure at the rule's own severity
// rather than silently ignored.
func validate(rules []contracts.ValidationRule, g Graph, assembled Assembled) []ValidationFailure {
	nodeByID := make(map[string]Node, len(g.Nodes))
	for _, n := range g.Nodes {
		nodeByID[n.ID] = n
	}

	var failures []ValidationFailure
	for _, rule := range rules {
		ok, recognized := evalRule(rule, nodeByID, assembled)
		if !recognized {
			failures = append(failures, ValidationFailure{
				Field: rule.Field, Rule: rule.Rule, Severity: rule.Severity,
				Message: fmt.Sprintf("unrecognized validation rule %q", rule.Rule),
			})
			continue
		}
		if !ok {
			failures = append(failures, ValidationFailure{
				Field: rule.Field, Rule: rule.Rule, Severity: rule.Severity,
				Message: fmt.Sprintf("field %q failed rule %q", rule.Field, rule.Rule),
			})
		}
	}
	return failures
}

func evalRule(rule contracts.ValidationRule, nodeByID map[string]Node, assembled Assembled) (ok bool, recognized bool) {
	switch {
	case rule.Rule == "non_empty":
		return fieldNonEmpty(rule.Field, nodeByID, assembled), true
	case strings.HasPrefix(rule.Rule, "min_count:"):
		n, err := strconv.Atoi(strings.TrimPrefix(rule.Rule, "min_count:"))
		if err != nil {
			return false, false
		}
		return fieldCount(rule.Field, nodeByID, assembled) >= n, true
	default:
		return false, false
	}
}

func fieldNonEmpty(field string, nodeByID map[string]Node, assembled Assembled) bool {
	if n, ok := nodeByID[field]; ok {
		switch v := n.Value.(type) {
		case nil:
			return false
		case string:
			return v != ""
		case []any:
			return len(v) > 0
		default:
			return true
		}
	}
	if field == "elements_found" {
		return len(assembled.ElementsFound) > 0
	}
	return false
}

func fieldCount(field string, nodeByID map[string]Node, assembled Assembled) int {
	if n, ok := nodeByID[field]; ok {
		if v, ok := n.Value.([]any); ok {
			return len(v)
		}
		return 1
	}
	if field == "elements_found" {
		return len(assembled.ElementsFound)
	}
	return 0
}

// hasCriticalAbort reports whether any CRITICAL failure carries
// na_policy=abort_on_critical.
func hasCriticalAbort(rules []contracts.ValidationRule, failures []ValidationFailure) (bool, string) {
	policyByField := make(map[string]string, len(rules))
	for _, r := range rules {
		if r.NAPolicy != "" {
			policyByField[r.Field+"|"+r.Rule] = r.NAPolicy
		}
	}
	for _, f := range failures {
		if f.Severity != contracts.SeverityCritical {
			continue
		}
		if policyByField[f.Field+"|"+f.Rule] == "abort_on_critical" {
			return true, f.Message
		}
	}
	return false, ""
}
