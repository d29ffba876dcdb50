package normalize

import (
	"fmt"
	"strings"

	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/remote"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/report"
)

func Contact(c report.ContactBlock) remote.ContactDto {
	return remote.ContactDto{
		ContactPersonAndPosition: c.ContactPersonAndPosition.Trim(),
		MailingAddress:           c.MailingAddress.Trim(),
		TelephoneFax:             c.TelephoneFax.Trim(),
		EmailAddress:             c.EmailAddress.Trim(),
	}
}

// Location joins region, province and municipality with ", ", skipping blanks.
func Location(l report.Location) string {
	parts := make([]string, 0, 3)
	for _, p := range []report.Text{l.Region, l.Province, l.Municipality} {
		if !p.IsBlank() {
			parts = append(parts, p.Trim())
		}
	}
	return strings.Join(parts, ", ")
}

type entry interface {
	IsEmpty() bool
}

// expand flattens a permit-style section. The primary record is kept only
// when the section is applicable and the record has content; additional
// records are always kept.
func expand[E entry, D any](na bool, primary E, additional []E, convert func(E) D) []D {
	out := make([]D, 0, len(additional)+1)
	if !na && !primary.IsEmpty() {
		out = append(out, convert(primary))
	}
	for _, e := range additional {
		out = append(out, convert(e))
	}
	return out
}

func ECC(s *report.ECCSection) []remote.ECCDto {
	if s == nil {
		return nil
	}
	na, primary, additional := s.Parts()
	return expand(na, primary, additional, func(e report.ECCEntry) remote.ECCDto {
		return remote.ECCDto{
			PermitHolder:   e.PermitHolder.Trim(),
			ECCNumber:      e.ECCNumber.Trim(),
			DateOfIssuance: e.DateOfIssuance.Trim(),
		}
	})
}

func ISAG(s *report.ISAGSection) []remote.ISAGDto {
	if s == nil {
		return nil
	}
	na, primary, additional := s.Parts()
	return expand(na, primary, additional, func(e report.ISAGEntry) remote.ISAGDto {
		return remote.ISAGDto{
			PermitHolder:     e.PermitHolder.Trim(),
			ISAGPermitNumber: e.ISAGPermitNumber.Trim(),
			DateOfIssuance:   e.DateOfIssuance.Trim(),
		}
	})
}

func EPEP(s *report.EPEPSection) []remote.EPEPDto {
	if s == nil {
		return nil
	}
	na, primary, additional := s.Parts()
	return expand(na, primary, additional, func(e report.EPEPEntry) remote.EPEPDto {
		return remote.EPEPDto{
			PermitHolder:   e.PermitHolder.Trim(),
			EPEPNumber:     e.EPEPNumber.Trim(),
			DateOfApproval: e.DateOfApproval.Trim(),
		}
	})
}

// Fund covers the three fund sections, which share one shape.
func Fund(s *report.FundSection) []remote.FundDto {
	if s == nil {
		return nil
	}
	na, primary, additional := s.Parts()
	return expand(na, primary, additional, func(e report.FundEntry) remote.FundDto {
		return remote.FundDto{
			PermitHolder:         e.PermitHolder.Trim(),
			SavingsAccountNumber: e.SavingsAccountNumber.Trim(),
			AmountDeposited:      ParseNumber(e.AmountDeposited.String()),
			DateUpdated:          e.DateUpdated.Trim(),
		}
	})
}

func ExecutiveSummary(s *report.ExecutiveSummary, diags *Diagnostics) *remote.ExecutiveSummaryDto {
	if s == nil {
		return nil
	}
	r := reader{diags: diags, section: report.SectionExecutiveSummary}

	status := func(field string, item report.ComplianceItem) remote.ComplianceStatusDto {
		complied, notComplied := r.complied(field+".status", item.Status)
		return remote.ComplianceStatusDto{Complied: complied, NotComplied: notComplied, Remarks: item.Remarks.Trim()}
	}

	cm := s.ComplaintsManagement
	complaints := remote.ComplaintsManagementDto{NAForAll: cm.NAForAll.Bool(), Remarks: cm.Remarks.Trim()}
	if !complaints.NAForAll {
		complaints.ComplaintReceivingSetup = r.yesNo("complaintsManagement.complaintReceivingSetup", cm.ComplaintReceivingSetup)
		complaints.CaseInvestigation = r.yesNo("complaintsManagement.caseInvestigation", cm.CaseInvestigation)
		complaints.ImplementationOfControl = r.yesNo("complaintsManagement.implementationOfControl", cm.ImplementationOfControl)
		complaints.CommunicationWithComplainantOrPublic = r.yesNo("complaintsManagement.communicationWithComplainantOrPublic",
			cm.CommunicationWithComplainantOrPublic)
		complaints.ComplaintDocumentation = r.yesNo("complaintsManagement.complaintDocumentation", cm.ComplaintDocumentation)
	}

	return &remote.ExecutiveSummaryDto{
		ComplianceWithEPEPCommitments: remote.EPEPComplianceDto{
			Safety:         r.yesNo("epepCompliance.safety", s.EPEPCompliance.Safety),
			Social:         r.yesNo("epepCompliance.social", s.EPEPCompliance.Social),
			Rehabilitation: r.yesNo("epepCompliance.rehabilitation", s.EPEPCompliance.Rehabilitation),
			Remarks:        s.EPEPCompliance.Remarks.Trim(),
		},
		ECCCompliance:        status("eccCompliance", s.ECCCompliance),
		SDMPCompliance:       status("sdmpCompliance", s.SDMPCompliance),
		ComplaintsManagement: complaints,
		Accountability:       status("accountability", s.Accountability),
		Others:               remote.OthersDto{Specify: s.Others.Specify.Trim(), NA: s.Others.NA.Bool()},
	}
}

func ProcessDocumentation(s *report.ProcessDocumentation) *remote.ProcessDocumentationDto {
	if s == nil {
		return nil
	}
	shared := s.DateConducted.Trim()
	activity := func(a report.Activity) remote.ActivityDto {
		date := a.DateConducted.Trim()
		if s.SameDateForAllActivities.Bool() || date == "" {
			date = shared
		}
		return remote.ActivityDto{
			MMTMembersInvolved: SplitMembers(a.MMTMembersInvolved.String()),
			MethodologyUsed:    a.MethodologyUsed.Trim(),
			DateConducted:      date,
			Remarks:            a.Remarks.Trim(),
		}
	}
	acts := s.Activities
	return &remote.ProcessDocumentationDto{
		DateConducted:                   shared,
		SameDateForAllActivities:        s.SameDateForAllActivities.Bool(),
		MergedMethodologyOrOtherRemarks: s.MergedMethodologyOrOtherRemarks.Trim(),
		Activities: remote.ActivitiesDto{
			ComplianceWithECCConditions:   activity(acts.ECCConditions),
			ComplianceWithEPEPCommitments: activity(acts.EPEPCommitments),
			WaterQuality:                  activity(acts.WaterQuality),
			AirQuality:                    activity(acts.AirQuality),
			NoiseQuality:                  activity(acts.NoiseQuality),
			SolidAndHazardousWaste:        activity(acts.SolidAndHazardousWaste),
		},
	}
}

func ProjectLocation(s *report.ProjectLocationCompliance, diags *Diagnostics) *remote.ProjectLocationDto {
	if s == nil {
		return nil
	}
	r := reader{diags: diags, section: report.SectionProjectLocation}
	rows := func(group string, params []report.LocationParameter) []remote.LocationParameterDto {
		out := make([]remote.LocationParameterDto, 0, len(params))
		for i, p := range params {
			if p.IsEmpty() {
				continue
			}
			out = append(out, remote.LocationParameterDto{
				Name:          p.Name.Trim(),
				Specification: p.Specification.Trim(),
				WithinSpecs:   r.yesNo(fmt.Sprintf("%s[%d].withinSpecs", group, i), p.WithinSpecs),
				Remarks:       p.Remarks.Trim(),
			})
		}
		return out
	}
	return &remote.ProjectLocationDto{
		Parameters:      rows("parameters", s.Parameters),
		OtherComponents: rows("otherComponents", s.OtherComponents),
	}
}

func ImpactManagement(s *report.ImpactManagementCompliance, diags *Diagnostics) *remote.ImpactManagementDto {
	if s == nil {
		return nil
	}
	r := reader{diags: diags, section: report.SectionImpactManagement}
	rows := func(group string, items []report.ImpactCommitment) []remote.ImpactCommitmentDto {
		out := make([]remote.ImpactCommitmentDto, 0, len(items))
		for i, c := range items {
			if c.IsEmpty() {
				continue
			}
			out = append(out, remote.ImpactCommitmentDto{
				Component:          c.Component.Trim(),
				PotentialImpact:    c.PotentialImpact.Trim(),
				MitigationMeasures: c.Mitigation.Trim(),
				IsEffective:        r.yesNo(fmt.Sprintf("%s[%d].isEffective", group, i), c.Effective),
				Remarks:            c.Remarks.Trim(),
			})
		}
		return out
	}
	return &remote.ImpactManagementDto{
		ConstructionInfo: rows("constructionInfo", s.ConstructionInfo),
		ImplementationOfEnvironmentalImpactControlStrategies: rows("implementationOfEnvironmentalImpactControlStrategies",
			s.ImplementationOfControlStrategies),
		OverallComplianceAssessment: s.OverallComplianceAssessment.Trim(),
	}
}

// QualityAssessment serves the air, water and noise sections; section names
// which one for diagnostics.
func QualityAssessment(section report.SectionName, s *report.QualityAssessment, diags *Diagnostics) *remote.QualityAssessmentDto {
	if s == nil {
		return nil
	}
	r := reader{diags: diags, section: section}
	params := make([]remote.QualityParameterDto, 0, len(s.Parameters))
	for i, p := range s.Parameters {
		if p.IsEmpty() {
			continue
		}
		params = append(params, remote.QualityParameterDto{
			Name:    p.Name.Trim(),
			Station: p.Station.Trim(),
			SMR: remote.ReadingDto{
				Current:  ParseNumber(p.SMRCurrent.String()),
				Previous: ParseNumber(p.SMRPrevious.String()),
			},
			MMT: remote.ReadingDto{
				Current:  ParseNumber(p.ConfirmatoryCurrent.String()),
				Previous: ParseNumber(p.ConfirmatoryPrevious.String()),
			},
			RedFlag: r.yesNo(fmt.Sprintf("parameters[%d].redFlag", i), p.RedFlag),
			Action:  p.Action.Trim(),
			Limit:   ParseNumber(p.Limit.String()),
			Remarks: p.Remarks.Trim(),
		})
	}
	return &remote.QualityAssessmentDto{
		ECCConditionReference:              s.ECCConditionReference.Trim(),
		SamplingDate:                       s.SamplingDate.Trim(),
		WeatherAndWindDirection:            s.WeatherAndWindDirection.Trim(),
		Parameters:                         params,
		ExplanationForConfirmatorySampling: s.ExplanationForConfirmatorySampling.Trim(),
		OverallAssessment:                  s.OverallAssessment.Trim(),
	}
}

func WasteManagement(s *report.WasteManagement, diags *Diagnostics) *remote.WasteManagementDto {
	if s == nil {
		return nil
	}
	r := reader{diags: diags, section: report.SectionWasteManagement}
	rows := func(group string, items []report.WasteItem) []remote.WasteItemDto {
		out := make([]remote.WasteItemDto, 0, len(items))
		for i, w := range items {
			if w.IsEmpty() {
				continue
			}
			out = append(out, remote.WasteItemDto{
				TypeOfWaste:    w.TypeOfWaste.Trim(),
				Handling:       w.Handling.Trim(),
				Storage:        w.Storage.Trim(),
				Disposal:       w.Disposal.Trim(),
				Adequate:       r.yesNo(fmt.Sprintf("%s[%d].adequate", group, i), w.Adequate),
				PreviousRecord: w.PreviousRecord.Trim(),
				Generated:      ParseNumber(w.Generated.String()),
				Remarks:        w.Remarks.Trim(),
			})
		}
		return out
	}
	return &remote.WasteManagementDto{
		Quarry: rows("quarry", s.Quarry),
		Plant:  rows("plant", s.Plant),
		Port:   rows("port", s.Port),
	}
}

// ChemicalSafety keeps the free-text fields of a not-applicable section but
// sends every answer as false.
func ChemicalSafety(s *report.ChemicalSafety, diags *Diagnostics) *remote.ChemicalSafetyDto {
	if s == nil {
		return nil
	}
	out := &remote.ChemicalSafetyDto{
		IsNotApplicable:      s.IsNotApplicable.Bool(),
		ChemicalCategory:     s.ChemicalCategory.Trim(),
		OthersSpecify:        s.OthersSpecify.Trim(),
		Remarks:              s.Remarks.Trim(),
		HealthSafetyChecked:  s.HealthSafetyChecked.Bool(),
		SocialDevPlanChecked: s.SocialDevPlanChecked.Bool(),
	}
	if out.IsNotApplicable {
		return out
	}
	r := reader{diags: diags, section: report.SectionChemicalSafety}
	out.RiskManagement = r.yesNo("riskManagement", s.RiskManagement)
	out.Training = r.yesNo("training", s.Training)
	out.Handling = r.yesNo("handling", s.Handling)
	out.EmergencyPreparedness = r.yesNo("emergencyPreparedness", s.EmergencyPreparedness)
	return out
}

// Complaints drops rows with nothing filled in.
func Complaints(list *[]report.Complaint) []remote.ComplaintDto {
	if list == nil {
		return nil
	}
	out := make([]remote.ComplaintDto, 0, len(*list))
	for _, c := range *list {
		if c.IsEmpty() {
			continue
		}
		out = append(out, remote.ComplaintDto{
			IsNotApplicable:   c.IsNotApplicable.Bool(),
			DateFiled:         c.DateFiled.Trim(),
			FiledLocation:     c.FiledLocation.Trim(),
			OthersSpecify:     c.OthersSpecify.Trim(),
			NatureOfComplaint: c.NatureOfComplaint.Trim(),
			Resolutions:       c.Resolutions.Trim(),
		})
	}
	return out
}

// Recommendation normalizes one quarter's recommendations. A set with no
// quarter, no year and no items is dropped; otherwise blank quarter or year
// is taken from the report's general info.
func Recommendation(set report.RecommendationSet, info *report.GeneralInfo) *remote.RecommendationDto {
	items := func(list []report.RecommendationItem) []remote.RecommendationItemDto {
		out := make([]remote.RecommendationItemDto, 0, len(list))
		for _, item := range list {
			if item.IsEmpty() {
				continue
			}
			out = append(out, remote.RecommendationItemDto{
				Recommendation: item.Recommendation.Trim(),
				Commitment:     item.Commitment.Trim(),
				Status:         item.Status.Trim(),
			})
		}
		return out
	}
	out := &remote.RecommendationDto{
		Quarter: set.Quarter.Trim(),
		Year:    int(ParseNumber(set.Year.String())),
		Plant:   items(set.Plant),
		Quarry:  items(set.Quarry),
		Port:    items(set.Port),
	}
	hasItems := len(out.Plant)+len(out.Quarry)+len(out.Port) > 0
	if out.Quarter == "" && set.Year.IsBlank() && !hasItems {
		return nil
	}
	if info != nil {
		if out.Quarter == "" {
			out.Quarter = info.Quarter.Trim()
		}
		if set.Year.IsBlank() {
			out.Year = int(ParseNumber(info.Year.String()))
		}
	}
	return out
}
