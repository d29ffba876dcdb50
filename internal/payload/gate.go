package payload

import (
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/report"
)

type Blocker struct {
	ID      string             `json:"id"`
	Type    string             `json:"type"`
	Label   string             `json:"label"`
	Section report.SectionName `json:"section"`
}

// GateStatus tells whether the compliance monitoring report node will be
// sent, and which mandatory sections hold it back.
type GateStatus struct {
	Ready    bool      `json:"ready"`
	Blockers []Blocker `json:"blockers"`
}

var sectionLabels = map[report.SectionName]string{
	report.SectionProjectLocation:  "Compliance to project location and coverage limits",
	report.SectionImpactManagement: "Compliance to impact management commitments",
	report.SectionAirQuality:       "Air quality impact assessment",
	report.SectionWaterQuality:     "Water quality impact assessment",
}

// Gate checks the mandatory compliance monitoring sections. Optional
// sections never open the gate.
func Gate(sections report.Sections) GateStatus {
	sections = sections.Normalize()
	blockers := make([]Blocker, 0)
	for _, name := range report.MandatoryCMRSections {
		if sections.Has(name) {
			continue
		}
		blockers = append(blockers, Blocker{
			ID:      "section:" + string(name),
			Type:    "section",
			Label:   sectionLabels[name] + " is not filled in",
			Section: name,
		})
	}
	return GateStatus{Ready: len(blockers) == 0, Blockers: blockers}
}
