// Package payload assembles the submission body from a report snapshot.
package payload

import (
	"errors"
	"strings"

	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/normalize"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/remote"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/report"
)

var ErrNoReport = errors.New("no report to build a payload from")

// Extra is the caller-supplied context injected into the payload.
type Extra struct {
	UserID   string
	FileName string
}

type Result struct {
	Payload     remote.CreateCMVRDto   `json:"payload"`
	Diagnostics []normalize.Diagnostic `json:"diagnostics"`
}

// Build assembles the submission payload. It fails only when there is no
// snapshot; malformed section data always has a fallback.
func Build(snapshot *report.Snapshot, extra Extra) (Result, error) {
	if snapshot == nil {
		return Result{}, ErrNoReport
	}
	sections := snapshot.Sections.Normalize()
	diags := &normalize.Diagnostics{}

	var info report.GeneralInfo
	if sections.GeneralInfo != nil {
		info = *sections.GeneralInfo
	}
	var mmt report.ContactBlock
	if sections.MMT != nil {
		mmt = *sections.MMT
	}

	fileName := strings.TrimSpace(extra.FileName)
	if fileName == "" {
		fileName = strings.TrimSpace(snapshot.FileName)
	}

	dto := remote.CreateCMVRDto{
		CreatedByID:                             strings.TrimSpace(extra.UserID),
		FileName:                                fileName,
		CompanyName:                             info.CompanyName.Trim(),
		Location:                                normalize.Location(info.Location),
		Quarter:                                 info.Quarter.Trim(),
		Year:                                    int(normalize.ParseNumber(info.Year.String())),
		DateOfComplianceMonitoringAndValidation: info.DateOfComplianceMonitoringAndValidation.Trim(),
		MonitoringPeriodCovered:                 info.MonitoringPeriodCovered.Trim(),
		DateOfCMRSubmission:                     info.DateOfCMRSubmission.Trim(),
		Proponent:                               normalize.Contact(info.Proponent),
		MMT:                                     normalize.Contact(mmt),

		ECC:                                  nonNil(normalize.ECC(sections.ECC)),
		IsagMpp:                              nonNil(normalize.ISAG(sections.ISAG)),
		EPEP:                                 nonNil(normalize.EPEP(sections.EPEP)),
		RehabilitationCashFund:               nonNil(normalize.Fund(sections.RCF)),
		MonitoringTrustFund:                  nonNil(normalize.Fund(sections.MTF)),
		FinalMineRehabAndDecommissioningFund: nonNil(normalize.Fund(sections.FMRDF)),

		ProjectID: strings.TrimSpace(snapshot.ProjectID),

		ExecutiveSummaryOfCompliance:               normalize.ExecutiveSummary(sections.ExecutiveSummary, diags),
		ProcessDocumentationOfActivitiesUndertaken: normalize.ProcessDocumentation(sections.ProcessDocumentation),
	}
	if sections.PermitHolderType != nil {
		dto.PermitHolderType = sections.PermitHolderType.Trim()
	}

	if Gate(sections).Ready {
		dto.ComplianceMonitoringReport = complianceMonitoringReport(sections, diags)
	}

	return Result{Payload: dto, Diagnostics: diags.Items()}, nil
}

func complianceMonitoringReport(s report.Sections, diags *normalize.Diagnostics) *remote.ComplianceMonitoringReportDto {
	cmr := &remote.ComplianceMonitoringReportDto{
		ComplianceToProjectLocationAndCoverageLimits: normalize.ProjectLocation(s.ProjectLocation, diags),
		ComplianceToImpactManagementCommitments:      normalize.ImpactManagement(s.ImpactManagement, diags),
		AirQualityImpactAssessment:                   normalize.QualityAssessment(report.SectionAirQuality, s.AirQuality, diags),
		WaterQualityImpactAssessment:                 normalize.QualityAssessment(report.SectionWaterQuality, s.WaterQuality, diags),
		NoiseQualityImpactAssessment:                 normalize.QualityAssessment(report.SectionNoiseQuality, s.NoiseQuality, diags),
		ComplianceWithGoodPracticeInSolidAndHazardousWasteManagement: normalize.WasteManagement(s.WasteManagement, diags),
		ComplianceWithGoodPracticeInChemicalSafetyManagement:        normalize.ChemicalSafety(s.ChemicalSafety, diags),
		ComplaintsVerificationAndManagement:                         normalize.Complaints(s.Complaints),
	}
	if s.Recommendations != nil {
		cmr.RecommendationFromPrevQuarter = normalize.Recommendation(s.Recommendations.Previous, s.GeneralInfo)
		cmr.RecommendationForNextQuarter = normalize.Recommendation(s.Recommendations.Next, s.GeneralInfo)
	}
	return cmr
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
