package checks

import "github.com/gh-nvat/semver-gate/src/pkg/models"

// Aggregate ORs the outcomes into a verdict. Errored checks never count as
// breaking; they only mark the verdict inconclusive.
func Aggregate(outcomes []models.CheckOutcome) models.Verdict {
	v := models.Verdict{Outcomes: outcomes}
	for _, o := range outcomes {
		switch {
		case o.Changed():
			v.Breaking = true
		case o.Errored():
			v.Inconclusive = true
		}
	}
	return v
}
