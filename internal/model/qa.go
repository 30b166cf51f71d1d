package model

import "fmt"

// QAChecks maps a checklist key to whether it passed.
type QAChecks map[string]bool

// QAKeys is the fixed checklist reviewed before a task can ship.
var QAKeys = []string{
	"feature_works",
	"no_console_errors",
	"mobile_responsive",
	"loading_states",
	"error_states",
	"no_hardcoded_data",
	"env_vars_correct",
	"rls_checked",
	"api_status_codes",
	"no_any_types",
	"eslint_passes",
	"tested_production",
}

var qaKeySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(QAKeys))
	for _, k := range QAKeys {
		m[k] = struct{}{}
	}
	return m
}()

// Validate rejects keys outside the checklist.
func (q QAChecks) Validate() error {
	for k := range q {
		if _, ok := qaKeySet[k]; !ok {
			return Invalid("qa_checks", fmt.Sprintf("unknown check %q", k))
		}
	}
	return nil
}

// FullyPassed reports whether every recorded check is true. An empty map never passes.
func (q QAChecks) FullyPassed() bool {
	if len(q) == 0 {
		return false
	}
	for _, v := range q {
		if !v {
			return false
		}
	}
	return true
}
