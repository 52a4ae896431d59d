package models

// Verdict aggregates all check outcomes
type Verdict struct {
	// Breaking is true iff at least one outcome is CHANGED
	Breaking bool `json:"breaking"`
	// Inconclusive is true when at least one check errored
	Inconclusive bool           `json:"inconclusive"`
	Outcomes     []CheckOutcome `json:"outcomes"`
}

// ChangedChecks returns the outcomes that reported a breaking change
func (v Verdict) ChangedChecks() []CheckOutcome {
	var out []CheckOutcome
	for _, o := range v.Outcomes {
		if o.Changed() {
			out = append(out, o)
		}
	}
	return out
}

// ErroredChecks returns the outcomes that failed to run
func (v Verdict) ErroredChecks() []CheckOutcome {
	var out []CheckOutcome
	for _, o := range v.Outcomes {
		if o.Errored() {
			out = append(out, o)
		}
	}
	return out
}

// Outcome returns the outcome with the given name
func (v Verdict) Outcome(name string) (CheckOutcome, bool) {
	for _, o := range v.Outcomes {
		if o.Name == name {
			return o, true
		}
	}
	return CheckOutcome{}, false
}

// ExitCode maps the verdict to the process exit code:
// 0 no breaking change, 1 breaking change, 2 inconclusive.
func (v Verdict) ExitCode() int {
	switch {
	case v.Breaking:
		return 1
	case v.Inconclusive:
		return 2
	default:
		return 0
	}
}
