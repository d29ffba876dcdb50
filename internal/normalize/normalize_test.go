package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/remote"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/report"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"6.0 - 9.0 mg/L", 6.0},
		{"50 mg/L", 50},
		{"-12.5", -12.5},
		{"+3", 3},
		{"pH .5", 0.5},
		{"approx. 1,200 tons", 1},
		{"N/A", 0},
		{"", 0},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := ParseNumber(tc.input); got != tc.expected {
				t.Errorf("ParseNumber(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestParseYesNo(t *testing.T) {
	tests := []struct {
		input string
		value bool
		ok    bool
	}{
		{"Yes", true, true},
		{" y ", true, true},
		{"TRUE", true, true},
		{"no", false, true},
		{"N/A", false, true},
		{"", false, true},
		{"partially", false, false},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			value, ok := ParseYesNo(tc.input)
			assert.Equal(t, tc.value, value)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestParseComplied(t *testing.T) {
	tests := []struct {
		input       string
		complied    bool
		notComplied bool
		ok          bool
	}{
		{"Complied", true, false, true},
		{"not complied", false, true, true},
		{"Not-Complied", false, true, true},
		{"non-compliant", false, true, true},
		{"", false, false, true},
		{"pending review", false, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			complied, notComplied, ok := ParseComplied(tc.input)
			assert.Equal(t, tc.complied, complied)
			assert.Equal(t, tc.notComplied, notComplied)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestSplitMembers(t *testing.T) {
	assert.Equal(t, []string{"Ana Cruz", "Ben Reyes", "Carla"}, SplitMembers("Ana Cruz, Ben Reyes\n\nCarla,"))
	assert.Empty(t, SplitMembers("  "))
}

func TestLocation(t *testing.T) {
	got := Location(report.Location{Region: "Region VII", Province: " ", Municipality: "Toledo"})
	assert.Equal(t, "Region VII, Toledo", got)
	assert.Equal(t, "", Location(report.Location{}))
}

func TestECC(t *testing.T) {
	primary := report.ECCEntry{PermitHolder: "Acme Mining", ECCNumber: "ECC-1", DateOfIssuance: "2025-01-01"}

	t.Run("applicable primary", func(t *testing.T) {
		got := ECC(&report.ECCSection{ECCEntry: primary})
		assert.Equal(t, []remote.ECCDto{{PermitHolder: "Acme Mining", ECCNumber: "ECC-1", DateOfIssuance: "2025-01-01"}}, got)
	})

	t.Run("not applicable drops primary", func(t *testing.T) {
		got := ECC(&report.ECCSection{IsNotApplicable: true, ECCEntry: primary})
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("empty primary dropped", func(t *testing.T) {
		got := ECC(&report.ECCSection{ECCEntry: report.ECCEntry{PermitHolder: "  "}})
		assert.Empty(t, got)
	})

	t.Run("additional forms always kept", func(t *testing.T) {
		got := ECC(&report.ECCSection{
			IsNotApplicable: true,
			ECCEntry:        primary,
			AdditionalForms: []report.ECCEntry{{}, {PermitHolder: "Beta"}},
		})
		require.Len(t, got, 2)
		assert.Equal(t, remote.ECCDto{}, got[0])
		assert.Equal(t, "Beta", got[1].PermitHolder)
	})

	t.Run("absent", func(t *testing.T) {
		assert.Nil(t, ECC(nil))
	})
}

func TestPermitSectionsShareExpansion(t *testing.T) {
	assert.Len(t, ISAG(&report.ISAGSection{
		ISAGEntry:       report.ISAGEntry{ISAGPermitNumber: "MPP-9"},
		AdditionalForms: []report.ISAGEntry{{}},
	}), 2)
	assert.Empty(t, EPEP(&report.EPEPSection{IsNotApplicable: true}))

	funds := Fund(&report.FundSection{FundEntry: report.FundEntry{PermitHolder: "Acme", AmountDeposited: "PHP 1500000.50"}})
	require.Len(t, funds, 1)
	assert.Equal(t, 1500000.50, funds[0].AmountDeposited)
}

func TestExecutiveSummaryDiagnostics(t *testing.T) {
	diags := &Diagnostics{}
	got := ExecutiveSummary(&report.ExecutiveSummary{
		ECCCompliance:  report.ComplianceItem{Status: "Complied", Remarks: " ok "},
		SDMPCompliance: report.ComplianceItem{Status: "mostly"},
		EPEPCompliance: report.EPEPCommitments{Safety: "yes", Social: "No", Rehabilitation: "soon"},
		ComplaintsManagement: report.ComplaintsManagementChecklist{
			NAForAll:          true,
			CaseInvestigation: "whatever",
		},
	}, diags)

	require.NotNil(t, got)
	assert.Equal(t, remote.ComplianceStatusDto{Complied: true, Remarks: "ok"}, got.ECCCompliance)
	assert.Equal(t, remote.ComplianceStatusDto{}, got.SDMPCompliance)
	assert.True(t, got.ComplianceWithEPEPCommitments.Safety)
	assert.False(t, got.ComplianceWithEPEPCommitments.Rehabilitation)
	assert.True(t, got.ComplaintsManagement.NAForAll)
	assert.False(t, got.ComplaintsManagement.CaseInvestigation)

	items := diags.Items()
	require.Len(t, items, 2)
	assert.Equal(t, Diagnostic{Section: report.SectionExecutiveSummary, Field: "epepCompliance.rehabilitation", Value: "soon"}, items[0])
	assert.Equal(t, Diagnostic{Section: report.SectionExecutiveSummary, Field: "sdmpCompliance.status", Value: "mostly"}, items[1])
}

func TestNilDiagnosticsDiscard(t *testing.T) {
	var diags *Diagnostics
	diags.Add(report.SectionMMT, "field", "value")
	assert.Zero(t, diags.Len())
	assert.Nil(t, diags.Items())
}

func TestProcessDocumentation(t *testing.T) {
	got := ProcessDocumentation(&report.ProcessDocumentation{
		DateConducted:            "2025-02-10",
		SameDateForAllActivities: true,
		Activities: report.Activities{
			WaterQuality: report.Activity{MMTMembersInvolved: "A, B", DateConducted: "2025-01-01"},
		},
	})
	require.NotNil(t, got)
	assert.Equal(t, []string{"A", "B"}, got.Activities.WaterQuality.MMTMembersInvolved)
	assert.Equal(t, "2025-02-10", got.Activities.WaterQuality.DateConducted)
	assert.Equal(t, "2025-02-10", got.Activities.AirQuality.DateConducted)
	assert.NotNil(t, got.Activities.AirQuality.MMTMembersInvolved)
}

func TestQualityAssessment(t *testing.T) {
	diags := &Diagnostics{}
	got := QualityAssessment(report.SectionWaterQuality, &report.QualityAssessment{
		SamplingDate: "2025-03-01",
		Parameters: []report.QualityParameter{
			{},
			{Name: "pH", SMRCurrent: "7.2", ConfirmatoryCurrent: "7.4 units", Limit: "6.0 - 9.0 mg/L", RedFlag: "maybe"},
		},
	}, diags)

	require.NotNil(t, got)
	require.Len(t, got.Parameters, 1)
	p := got.Parameters[0]
	assert.Equal(t, 7.2, p.SMR.Current)
	assert.Equal(t, 7.4, p.MMT.Current)
	assert.Equal(t, 6.0, p.Limit)
	assert.False(t, p.RedFlag)
	assert.Equal(t, []Diagnostic{{Section: report.SectionWaterQuality, Field: "parameters[1].redFlag", Value: "maybe"}}, diags.Items())

	assert.Nil(t, QualityAssessment(report.SectionAirQuality, nil, diags))
}

func TestChemicalSafetyNotApplicable(t *testing.T) {
	diags := &Diagnostics{}
	got := ChemicalSafety(&report.ChemicalSafety{IsNotApplicable: true, Training: "garbage", Remarks: "none stored"}, diags)
	require.NotNil(t, got)
	assert.True(t, got.IsNotApplicable)
	assert.False(t, got.Training)
	assert.Equal(t, "none stored", got.Remarks)
	assert.Zero(t, diags.Len())
}

func TestComplaintsDropsBlankRows(t *testing.T) {
	list := []report.Complaint{{}, {NatureOfComplaint: "dust"}, {IsNotApplicable: true}}
	got := Complaints(&list)
	require.Len(t, got, 2)
	assert.Equal(t, "dust", got[0].NatureOfComplaint)
	assert.True(t, got[1].IsNotApplicable)
	assert.Nil(t, Complaints(nil))
}

func TestRecommendation(t *testing.T) {
	info := &report.GeneralInfo{Quarter: "2nd", Year: "2025"}

	t.Run("empty set omitted", func(t *testing.T) {
		set := report.RecommendationSet{Plant: []report.RecommendationItem{{}}}
		assert.Nil(t, Recommendation(set, info))
	})

	t.Run("items fold general info period", func(t *testing.T) {
		set := report.RecommendationSet{Quarry: []report.RecommendationItem{{Recommendation: "Water the haul roads"}}}
		got := Recommendation(set, info)
		require.NotNil(t, got)
		assert.Equal(t, "2nd", got.Quarter)
		assert.Equal(t, 2025, got.Year)
		require.Len(t, got.Quarry, 1)
		assert.NotNil(t, got.Plant)
	})

	t.Run("own period wins", func(t *testing.T) {
		got := Recommendation(report.RecommendationSet{Quarter: "1st", Year: "2024"}, info)
		require.NotNil(t, got)
		assert.Equal(t, "1st", got.Quarter)
		assert.Equal(t, 2024, got.Year)
	})

	t.Run("partial period folds the rest", func(t *testing.T) {
		got := Recommendation(report.RecommendationSet{Quarter: "3rd"}, info)
		require.NotNil(t, got)
		assert.Equal(t, 2025, got.Year)
	})
}
