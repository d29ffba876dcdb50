package normalize

import (
	"strconv"
	"strings"

	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/remote"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/report"
)

// FromRecord maps a stored submission body back onto editable sections.
// Building a payload from the result yields dto again: answers come back as
// "Yes"/"No" or "Complied"/"Not Complied", numbers in plain decimal, and the
// first permit record of each list fills the primary slot.
func FromRecord(dto remote.CreateCMVRDto) report.Sections {
	info := report.GeneralInfo{
		CompanyName:                             report.Text(dto.CompanyName),
		Location:                                splitLocation(dto.Location),
		Quarter:                                 report.Text(dto.Quarter),
		Year:                                    intText(dto.Year),
		DateOfComplianceMonitoringAndValidation: report.Text(dto.DateOfComplianceMonitoringAndValidation),
		MonitoringPeriodCovered:                 report.Text(dto.MonitoringPeriodCovered),
		DateOfCMRSubmission:                     report.Text(dto.DateOfCMRSubmission),
		Proponent:                               contactBlock(dto.Proponent),
	}
	mmt := contactBlock(dto.MMT)

	out := report.Sections{
		GeneralInfo: &info,
		MMT:         &mmt,
		ECC:         eccSection(dto.ECC),
		ISAG:        isagSection(dto.IsagMpp),
		EPEP:        epepSection(dto.EPEP),
		RCF:         fundSection(dto.RehabilitationCashFund),
		MTF:         fundSection(dto.MonitoringTrustFund),
		FMRDF:       fundSection(dto.FinalMineRehabAndDecommissioningFund),

		ExecutiveSummary:     executiveSummary(dto.ExecutiveSummaryOfCompliance),
		ProcessDocumentation: processDocumentation(dto.ProcessDocumentationOfActivitiesUndertaken),
	}
	if holder := strings.TrimSpace(dto.PermitHolderType); holder != "" {
		t := report.Text(holder)
		out.PermitHolderType = &t
	}
	if cmr := dto.ComplianceMonitoringReport; cmr != nil {
		out.ProjectLocation = projectLocation(cmr.ComplianceToProjectLocationAndCoverageLimits)
		out.ImpactManagement = impactManagement(cmr.ComplianceToImpactManagementCommitments)
		out.AirQuality = qualityAssessment(cmr.AirQualityImpactAssessment)
		out.WaterQuality = qualityAssessment(cmr.WaterQualityImpactAssessment)
		out.NoiseQuality = qualityAssessment(cmr.NoiseQualityImpactAssessment)
		out.WasteManagement = wasteManagement(cmr.ComplianceWithGoodPracticeInSolidAndHazardousWasteManagement)
		out.ChemicalSafety = chemicalSafety(cmr.ComplianceWithGoodPracticeInChemicalSafetyManagement)
		if cmr.ComplaintsVerificationAndManagement != nil {
			complaints := make([]report.Complaint, 0, len(cmr.ComplaintsVerificationAndManagement))
			for _, c := range cmr.ComplaintsVerificationAndManagement {
				complaints = append(complaints, report.Complaint{
					IsNotApplicable:   report.Flag(c.IsNotApplicable),
					DateFiled:         report.Text(c.DateFiled),
					FiledLocation:     report.Text(c.FiledLocation),
					OthersSpecify:     report.Text(c.OthersSpecify),
					NatureOfComplaint: report.Text(c.NatureOfComplaint),
					Resolutions:       report.Text(c.Resolutions),
				})
			}
			out.Complaints = &complaints
		}
		if cmr.RecommendationFromPrevQuarter != nil || cmr.RecommendationForNextQuarter != nil {
			out.Recommendations = &report.Recommendations{
				Previous: recommendationSet(cmr.RecommendationFromPrevQuarter),
				Next:     recommendationSet(cmr.RecommendationForNextQuarter),
			}
		}
	}
	return out
}

// splitLocation undoes Location. Parts beyond the third stay together in
// the municipality so the joined string is unchanged.
func splitLocation(joined string) report.Location {
	parts := strings.Split(joined, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	var l report.Location
	switch {
	case strings.TrimSpace(joined) == "":
	case len(parts) == 1:
		l.Region = report.Text(parts[0])
	case len(parts) == 2:
		l.Region, l.Province = report.Text(parts[0]), report.Text(parts[1])
	default:
		l.Region, l.Province = report.Text(parts[0]), report.Text(parts[1])
		l.Municipality = report.Text(strings.Join(parts[2:], ", "))
	}
	return l
}

func contactBlock(c remote.ContactDto) report.ContactBlock {
	return report.ContactBlock{
		ContactPersonAndPosition: report.Text(c.ContactPersonAndPosition),
		MailingAddress:           report.Text(c.MailingAddress),
		TelephoneFax:             report.Text(c.TelephoneFax),
		EmailAddress:             report.Text(c.EmailAddress),
	}
}

func intText(n int) report.Text {
	if n == 0 {
		return ""
	}
	return report.Text(strconv.Itoa(n))
}

func numberText(n float64) report.Text {
	return report.Text(strconv.FormatFloat(n, 'f', -1, 64))
}

func yesNoText(b bool) report.Text {
	if b {
		return "Yes"
	}
	return "No"
}

func compliedText(s remote.ComplianceStatusDto) report.Text {
	switch {
	case s.Complied:
		return "Complied"
	case s.NotComplied:
		return "Not Complied"
	default:
		return ""
	}
}

// collapse splits a permit list into the primary slot and the additional
// records. A first record with nothing in it goes to the additional list,
// since an empty primary is never sent.
func collapse[E entry](entries []E) (E, []E) {
	var primary E
	if len(entries) == 0 || entries[0].IsEmpty() {
		return primary, entries
	}
	return entries[0], entries[1:]
}

func eccSection(list []remote.ECCDto) *report.ECCSection {
	if len(list) == 0 {
		return nil
	}
	entries := make([]report.ECCEntry, 0, len(list))
	for _, d := range list {
		entries = append(entries, report.ECCEntry{
			PermitHolder:   report.Text(d.PermitHolder),
			ECCNumber:      report.Text(d.ECCNumber),
			DateOfIssuance: report.Text(d.DateOfIssuance),
		})
	}
	primary, additional := collapse(entries)
	return &report.ECCSection{ECCEntry: primary, AdditionalForms: additional}
}

func isagSection(list []remote.ISAGDto) *report.ISAGSection {
	if len(list) == 0 {
		return nil
	}
	entries := make([]report.ISAGEntry, 0, len(list))
	for _, d := range list {
		entries = append(entries, report.ISAGEntry{
			PermitHolder:     report.Text(d.PermitHolder),
			ISAGPermitNumber: report.Text(d.ISAGPermitNumber),
			DateOfIssuance:   report.Text(d.DateOfIssuance),
		})
	}
	primary, additional := collapse(entries)
	return &report.ISAGSection{ISAGEntry: primary, AdditionalForms: additional}
}

func epepSection(list []remote.EPEPDto) *report.EPEPSection {
	if len(list) == 0 {
		return nil
	}
	entries := make([]report.EPEPEntry, 0, len(list))
	for _, d := range list {
		entries = append(entries, report.EPEPEntry{
			PermitHolder:   report.Text(d.PermitHolder),
			EPEPNumber:     report.Text(d.EPEPNumber),
			DateOfApproval: report.Text(d.DateOfApproval),
		})
	}
	primary, additional := collapse(entries)
	return &report.EPEPSection{EPEPEntry: primary, AdditionalForms: additional}
}

func fundSection(list []remote.FundDto) *report.FundSection {
	if len(list) == 0 {
		return nil
	}
	entries := make([]report.FundEntry, 0, len(list))
	for _, d := range list {
		entries = append(entries, report.FundEntry{
			PermitHolder:         report.Text(d.PermitHolder),
			SavingsAccountNumber: report.Text(d.SavingsAccountNumber),
			AmountDeposited:      numberText(d.AmountDeposited),
			DateUpdated:          report.Text(d.DateUpdated),
		})
	}
	primary, additional := collapse(entries)
	return &report.FundSection{FundEntry: primary, AdditionalForms: additional}
}

func executiveSummary(d *remote.ExecutiveSummaryDto) *report.ExecutiveSummary {
	if d == nil {
		return nil
	}
	item := func(s remote.ComplianceStatusDto) report.ComplianceItem {
		return report.ComplianceItem{Status: compliedText(s), Remarks: report.Text(s.Remarks)}
	}
	cm := d.ComplaintsManagement
	return &report.ExecutiveSummary{
		ECCCompliance: item(d.ECCCompliance),
		EPEPCompliance: report.EPEPCommitments{
			Safety:         yesNoText(d.ComplianceWithEPEPCommitments.Safety),
			Social:         yesNoText(d.ComplianceWithEPEPCommitments.Social),
			Rehabilitation: yesNoText(d.ComplianceWithEPEPCommitments.Rehabilitation),
			Remarks:        report.Text(d.ComplianceWithEPEPCommitments.Remarks),
		},
		SDMPCompliance: item(d.SDMPCompliance),
		ComplaintsManagement: report.ComplaintsManagementChecklist{
			NAForAll:                             report.Flag(cm.NAForAll),
			ComplaintReceivingSetup:              yesNoText(cm.ComplaintReceivingSetup),
			CaseInvestigation:                    yesNoText(cm.CaseInvestigation),
			ImplementationOfControl:              yesNoText(cm.ImplementationOfControl),
			CommunicationWithComplainantOrPublic: yesNoText(cm.CommunicationWithComplainantOrPublic),
			ComplaintDocumentation:               yesNoText(cm.ComplaintDocumentation),
			Remarks:                              report.Text(cm.Remarks),
		},
		Accountability: item(d.Accountability),
		Others:         report.OthersItem{Specify: report.Text(d.Others.Specify), NA: report.Flag(d.Others.NA)},
	}
}

func processDocumentation(d *remote.ProcessDocumentationDto) *report.ProcessDocumentation {
	if d == nil {
		return nil
	}
	activity := func(a remote.ActivityDto) report.Activity {
		return report.Activity{
			MMTMembersInvolved: report.Text(strings.Join(a.MMTMembersInvolved, ", ")),
			MethodologyUsed:    report.Text(a.MethodologyUsed),
			DateConducted:      report.Text(a.DateConducted),
			Remarks:            report.Text(a.Remarks),
		}
	}
	acts := d.Activities
	return &report.ProcessDocumentation{
		DateConducted:                   report.Text(d.DateConducted),
		SameDateForAllActivities:        report.Flag(d.SameDateForAllActivities),
		MergedMethodologyOrOtherRemarks: report.Text(d.MergedMethodologyOrOtherRemarks),
		Activities: report.Activities{
			ECCConditions:          activity(acts.ComplianceWithECCConditions),
			EPEPCommitments:        activity(acts.ComplianceWithEPEPCommitments),
			WaterQuality:           activity(acts.WaterQuality),
			AirQuality:             activity(acts.AirQuality),
			NoiseQuality:           activity(acts.NoiseQuality),
			SolidAndHazardousWaste: activity(acts.SolidAndHazardousWaste),
		},
	}
}

func projectLocation(d *remote.ProjectLocationDto) *report.ProjectLocationCompliance {
	if d == nil {
		return nil
	}
	rows := func(list []remote.LocationParameterDto) []report.LocationParameter {
		out := make([]report.LocationParameter, 0, len(list))
		for _, p := range list {
			out = append(out, report.LocationParameter{
				Name:          report.Text(p.Name),
				Specification: report.Text(p.Specification),
				WithinSpecs:   yesNoText(p.WithinSpecs),
				Remarks:       report.Text(p.Remarks),
			})
		}
		return out
	}
	return &report.ProjectLocationCompliance{
		Parameters:      rows(d.Parameters),
		OtherComponents: rows(d.OtherComponents),
	}
}

func impactManagement(d *remote.ImpactManagementDto) *report.ImpactManagementCompliance {
	if d == nil {
		return nil
	}
	rows := func(list []remote.ImpactCommitmentDto) []report.ImpactCommitment {
		out := make([]report.ImpactCommitment, 0, len(list))
		for _, c := range list {
			out = append(out, report.ImpactCommitment{
				Component:       report.Text(c.Component),
				PotentialImpact: report.Text(c.PotentialImpact),
				Mitigation:      report.Text(c.MitigationMeasures),
				Effective:       yesNoText(c.IsEffective),
				Remarks:         report.Text(c.Remarks),
			})
		}
		return out
	}
	return &report.ImpactManagementCompliance{
		ConstructionInfo:                  rows(d.ConstructionInfo),
		ImplementationOfControlStrategies: rows(d.ImplementationOfEnvironmentalImpactControlStrategies),
		OverallComplianceAssessment:       report.Text(d.OverallComplianceAssessment),
	}
}

func qualityAssessment(d *remote.QualityAssessmentDto) *report.QualityAssessment {
	if d == nil {
		return nil
	}
	params := make([]report.QualityParameter, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		params = append(params, report.QualityParameter{
			Name:                 report.Text(p.Name),
			Station:              report.Text(p.Station),
			SMRCurrent:           numberText(p.SMR.Current),
			SMRPrevious:          numberText(p.SMR.Previous),
			ConfirmatoryCurrent:  numberText(p.MMT.Current),
			ConfirmatoryPrevious: numberText(p.MMT.Previous),
			RedFlag:              yesNoText(p.RedFlag),
			Action:               report.Text(p.Action),
			Limit:                numberText(p.Limit),
			Remarks:              report.Text(p.Remarks),
		})
	}
	return &report.QualityAssessment{
		ECCConditionReference:              report.Text(d.ECCConditionReference),
		SamplingDate:                       report.Text(d.SamplingDate),
		WeatherAndWindDirection:            report.Text(d.WeatherAndWindDirection),
		Parameters:                         params,
		ExplanationForConfirmatorySampling: report.Text(d.ExplanationForConfirmatorySampling),
		OverallAssessment:                  report.Text(d.OverallAssessment),
	}
}

func wasteManagement(d *remote.WasteManagementDto) *report.WasteManagement {
	if d == nil {
		return nil
	}
	rows := func(list []remote.WasteItemDto) []report.WasteItem {
		out := make([]report.WasteItem, 0, len(list))
		for _, w := range list {
			out = append(out, report.WasteItem{
				TypeOfWaste:    report.Text(w.TypeOfWaste),
				Handling:       report.Text(w.Handling),
				Storage:        report.Text(w.Storage),
				Disposal:       report.Text(w.Disposal),
				Adequate:       yesNoText(w.Adequate),
				PreviousRecord: report.Text(w.PreviousRecord),
				Generated:      numberText(w.Generated),
				Remarks:        report.Text(w.Remarks),
			})
		}
		return out
	}
	return &report.WasteManagement{Quarry: rows(d.Quarry), Plant: rows(d.Plant), Port: rows(d.Port)}
}

func chemicalSafety(d *remote.ChemicalSafetyDto) *report.ChemicalSafety {
	if d == nil {
		return nil
	}
	return &report.ChemicalSafety{
		IsNotApplicable:       report.Flag(d.IsNotApplicable),
		RiskManagement:        yesNoText(d.RiskManagement),
		Training:              yesNoText(d.Training),
		Handling:              yesNoText(d.Handling),
		EmergencyPreparedness: yesNoText(d.EmergencyPreparedness),
		ChemicalCategory:      report.Text(d.ChemicalCategory),
		OthersSpecify:         report.Text(d.OthersSpecify),
		Remarks:               report.Text(d.Remarks),
		HealthSafetyChecked:   report.Flag(d.HealthSafetyChecked),
		SocialDevPlanChecked:  report.Flag(d.SocialDevPlanChecked),
	}
}

func recommendationSet(d *remote.RecommendationDto) report.RecommendationSet {
	if d == nil {
		return report.RecommendationSet{}
	}
	items := func(list []remote.RecommendationItemDto) []report.RecommendationItem {
		out := make([]report.RecommendationItem, 0, len(list))
		for _, item := range list {
			out = append(out, report.RecommendationItem{
				Recommendation: report.Text(item.Recommendation),
				Commitment:     report.Text(item.Commitment),
				Status:         report.Text(item.Status),
			})
		}
		return out
	}
	return report.RecommendationSet{
		Quarter: report.Text(d.Quarter),
		Year:    intText(d.Year),
		Plant:   items(d.Plant),
		Quarry:  items(d.Quarry),
		Port:    items(d.Port),
	}
}
