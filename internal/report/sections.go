package report

// SectionName is the key of one independently editable slice of a report.
type SectionName string

const (
	SectionGeneralInfo          SectionName = "generalInfo"
	SectionPermitHolderType     SectionName = "permitHolderType"
	SectionECC                  SectionName = "eccInfo"
	SectionISAG                 SectionName = "isagInfo"
	SectionEPEP                 SectionName = "epepInfo"
	SectionRCF                  SectionName = "rcfInfo"
	SectionMTF                  SectionName = "mtfInfo"
	SectionFMRDF                SectionName = "fmrdfInfo"
	SectionMMT                  SectionName = "mmtInfo"
	SectionExecutiveSummary     SectionName = "executiveSummaryOfCompliance"
	SectionProcessDocumentation SectionName = "processDocumentationOfActivitiesUndertaken"
	SectionProjectLocation      SectionName = "complianceToProjectLocationAndCoverageLimits"
	SectionImpactManagement     SectionName = "complianceToImpactManagementCommitments"
	SectionAirQuality           SectionName = "airQualityImpactAssessment"
	SectionWaterQuality         SectionName = "waterQualityImpactAssessment"
	SectionNoiseQuality         SectionName = "noiseQualityImpactAssessment"
	SectionWasteManagement      SectionName = "complianceWithGoodPracticeInSolidAndHazardousWasteManagement"
	SectionChemicalSafety       SectionName = "complianceWithGoodPracticeInChemicalSafetyManagement"
	SectionComplaints           SectionName = "complaintsVerificationAndManagement"
	SectionRecommendations      SectionName = "recommendationsData"
)

// MandatoryCMRSections are the children the backend requires before it
// accepts a compliance monitoring report node.
var MandatoryCMRSections = []SectionName{
	SectionProjectLocation,
	SectionImpactManagement,
	SectionAirQuality,
	SectionWaterQuality,
}

const (
	PermitHolderSingle   = "single"
	PermitHolderMultiple = "multiple"
)

type Location struct {
	Region       Text `json:"region"`
	Province     Text `json:"province"`
	Municipality Text `json:"municipality"`
}

type ContactBlock struct {
	ContactPersonAndPosition Text `json:"contactPersonAndPosition"`
	MailingAddress           Text `json:"mailingAddress"`
	TelephoneFax             Text `json:"telephoneFax"`
	EmailAddress             Text `json:"emailAddress"`
}

type GeneralInfo struct {
	CompanyName                             Text         `json:"companyName"`
	ProjectName                             Text         `json:"projectName"`
	Location                                Location     `json:"location"`
	Quarter                                 Text         `json:"quarter"`
	Year                                    Text         `json:"year"`
	DateOfComplianceMonitoringAndValidation Text         `json:"dateOfComplianceMonitoringAndValidation"`
	MonitoringPeriodCovered                 Text         `json:"monitoringPeriodCovered"`
	DateOfCMRSubmission                     Text         `json:"dateOfCmrSubmission"`
	Proponent                               ContactBlock `json:"proponent"`
}

// Permit-style sections: a not-applicable flag, a primary holder record
// inlined beside it, and additional holder records of the same shape.

type ECCEntry struct {
	PermitHolder   Text `json:"permitHolder"`
	ECCNumber      Text `json:"eccNumber"`
	DateOfIssuance Text `json:"dateOfIssuance"`
}

func (e ECCEntry) IsEmpty() bool {
	return e.PermitHolder.IsBlank() && e.ECCNumber.IsBlank() && e.DateOfIssuance.IsBlank()
}

type ECCSection struct {
	IsNotApplicable Flag `json:"isNotApplicable"`
	ECCEntry
	AdditionalForms []ECCEntry `json:"additionalForms"`
}

func (s ECCSection) Parts() (bool, ECCEntry, []ECCEntry) {
	return s.IsNotApplicable.Bool(), s.ECCEntry, s.AdditionalForms
}

type ISAGEntry struct {
	PermitHolder     Text `json:"permitHolder"`
	ISAGPermitNumber Text `json:"isagPermitNumber"`
	DateOfIssuance   Text `json:"dateOfIssuance"`
}

func (e ISAGEntry) IsEmpty() bool {
	return e.PermitHolder.IsBlank() && e.ISAGPermitNumber.IsBlank() && e.DateOfIssuance.IsBlank()
}

type ISAGSection struct {
	IsNotApplicable Flag `json:"isNotApplicable"`
	ISAGEntry
	AdditionalForms []ISAGEntry `json:"additionalForms"`
}

func (s ISAGSection) Parts() (bool, ISAGEntry, []ISAGEntry) {
	return s.IsNotApplicable.Bool(), s.ISAGEntry, s.AdditionalForms
}

type EPEPEntry struct {
	PermitHolder   Text `json:"permitHolder"`
	EPEPNumber     Text `json:"epepNumber"`
	DateOfApproval Text `json:"dateOfApproval"`
}

func (e EPEPEntry) IsEmpty() bool {
	return e.PermitHolder.IsBlank() && e.EPEPNumber.IsBlank() && e.DateOfApproval.IsBlank()
}

type EPEPSection struct {
	IsNotApplicable Flag `json:"isNotApplicable"`
	EPEPEntry
	AdditionalForms []EPEPEntry `json:"additionalForms"`
}

func (s EPEPSection) Parts() (bool, EPEPEntry, []EPEPEntry) {
	return s.IsNotApplicable.Bool(), s.EPEPEntry, s.AdditionalForms
}

// FundEntry is shared by the rehabilitation cash fund, the monitoring trust
// fund and the final mine rehabilitation and decommissioning fund.
type FundEntry struct {
	PermitHolder         Text `json:"permitHolder"`
	SavingsAccountNumber Text `json:"savingsAccountNumber"`
	AmountDeposited      Text `json:"amountDeposited"`
	DateUpdated          Text `json:"dateUpdated"`
}

func (e FundEntry) IsEmpty() bool {
	return e.PermitHolder.IsBlank() && e.SavingsAccountNumber.IsBlank() &&
		e.AmountDeposited.IsBlank() && e.DateUpdated.IsBlank()
}

type FundSection struct {
	IsNotApplicable Flag `json:"isNotApplicable"`
	FundEntry
	AdditionalForms []FundEntry `json:"additionalForms"`
}

func (s FundSection) Parts() (bool, FundEntry, []FundEntry) {
	return s.IsNotApplicable.Bool(), s.FundEntry, s.AdditionalForms
}

// ComplianceItem holds a free-text "Complied" / "Not Complied" status.
type ComplianceItem struct {
	Status  Text `json:"status"`
	Remarks Text `json:"remarks"`
}

type EPEPCommitments struct {
	Safety         Text `json:"safety"`
	Social         Text `json:"social"`
	Rehabilitation Text `json:"rehabilitation"`
	Remarks        Text `json:"remarks"`
}

type ComplaintsManagementChecklist struct {
	NAForAll                             Flag `json:"naForAll"`
	ComplaintReceivingSetup              Text `json:"complaintReceivingSetup"`
	CaseInvestigation                    Text `json:"caseInvestigation"`
	ImplementationOfControl              Text `json:"implementationOfControl"`
	CommunicationWithComplainantOrPublic Text `json:"communicationWithComplainantOrPublic"`
	ComplaintDocumentation               Text `json:"complaintDocumentation"`
	Remarks                              Text `json:"remarks"`
}

type OthersItem struct {
	Specify Text `json:"specify"`
	NA      Flag `json:"na"`
}

type ExecutiveSummary struct {
	ECCCompliance        ComplianceItem                `json:"eccCompliance"`
	EPEPCompliance       EPEPCommitments               `json:"epepCompliance"`
	SDMPCompliance       ComplianceItem                `json:"sdmpCompliance"`
	ComplaintsManagement ComplaintsManagementChecklist `json:"complaintsManagement"`
	Accountability       ComplianceItem                `json:"accountability"`
	Others               OthersItem                    `json:"others"`
}

// Activity is one monitored activity. MMTMembersInvolved is the comma or
// newline separated list typed by the inspector.
type Activity struct {
	MMTMembersInvolved Text `json:"mmtMembersInvolved"`
	MethodologyUsed    Text `json:"methodologyUsed"`
	DateConducted      Text `json:"dateConducted"`
	Remarks            Text `json:"remarks"`
}

type Activities struct {
	ECCConditions          Activity `json:"complianceWithEccConditions"`
	EPEPCommitments        Activity `json:"complianceWithEpepCommitments"`
	WaterQuality           Activity `json:"waterQuality"`
	AirQuality             Activity `json:"airQuality"`
	NoiseQuality           Activity `json:"noiseQuality"`
	SolidAndHazardousWaste Activity `json:"solidAndHazardousWaste"`
}

type ProcessDocumentation struct {
	DateConducted                   Text       `json:"dateConducted"`
	SameDateForAllActivities        Flag       `json:"sameDateForAllActivities"`
	MergedMethodologyOrOtherRemarks Text       `json:"mergedMethodologyOrOtherRemarks"`
	Activities                      Activities `json:"activities"`
}

type LocationParameter struct {
	Name          Text `json:"name"`
	Specification Text `json:"specification"`
	WithinSpecs   Text `json:"withinSpecs"`
	Remarks       Text `json:"remarks"`
}

func (p LocationParameter) IsEmpty() bool {
	return p.Name.IsBlank() && p.Specification.IsBlank() && p.WithinSpecs.IsBlank() && p.Remarks.IsBlank()
}

type ProjectLocationCompliance struct {
	Parameters      []LocationParameter `json:"parameters"`
	OtherComponents []LocationParameter `json:"otherComponents"`
}

type ImpactCommitment struct {
	Component       Text `json:"component"`
	PotentialImpact Text `json:"potentialImpact"`
	Mitigation      Text `json:"mitigationMeasures"`
	Effective       Text `json:"isEffective"`
	Remarks         Text `json:"remarks"`
}

func (c ImpactCommitment) IsEmpty() bool {
	return c.Component.IsBlank() && c.PotentialImpact.IsBlank() && c.Mitigation.IsBlank() &&
		c.Effective.IsBlank() && c.Remarks.IsBlank()
}

type ImpactManagementCompliance struct {
	ConstructionInfo                  []ImpactCommitment `json:"constructionInfo"`
	ImplementationOfControlStrategies []ImpactCommitment `json:"implementationOfEnvironmentalImpactControlStrategies"`
	OverallComplianceAssessment       Text               `json:"overallComplianceAssessment"`
}

// QualityParameter is one sampled parameter row shared by the air, water and
// noise assessments. Readings and limits are free text such as "50 mg/L".
type QualityParameter struct {
	Name                 Text `json:"name"`
	Station              Text `json:"station"`
	SMRCurrent           Text `json:"smrCurrent"`
	SMRPrevious          Text `json:"smrPrevious"`
	ConfirmatoryCurrent  Text `json:"mmtCurrent"`
	ConfirmatoryPrevious Text `json:"mmtPrevious"`
	RedFlag              Text `json:"redFlag"`
	Action               Text `json:"action"`
	Limit                Text `json:"limit"`
	Remarks              Text `json:"remarks"`
}

func (p QualityParameter) IsEmpty() bool {
	return p.Name.IsBlank() && p.Station.IsBlank() && p.SMRCurrent.IsBlank() && p.SMRPrevious.IsBlank() &&
		p.ConfirmatoryCurrent.IsBlank() && p.ConfirmatoryPrevious.IsBlank() && p.RedFlag.IsBlank() &&
		p.Action.IsBlank() && p.Limit.IsBlank() && p.Remarks.IsBlank()
}

type QualityAssessment struct {
	ECCConditionReference              Text               `json:"eccConditionReference"`
	SamplingDate                       Text               `json:"samplingDate"`
	WeatherAndWindDirection            Text               `json:"weatherAndWindDirection"`
	Parameters                         []QualityParameter `json:"parameters"`
	ExplanationForConfirmatorySampling Text               `json:"explanationForConfirmatorySampling"`
	OverallAssessment                  Text               `json:"overallAssessment"`
}

type WasteItem struct {
	TypeOfWaste    Text `json:"typeOfWaste"`
	Handling       Text `json:"handling"`
	Storage        Text `json:"storage"`
	Disposal       Text `json:"disposal"`
	Adequate       Text `json:"adequate"`
	PreviousRecord Text `json:"previousRecord"`
	Generated      Text `json:"generated"`
	Remarks        Text `json:"remarks"`
}

func (w WasteItem) IsEmpty() bool {
	return w.TypeOfWaste.IsBlank() && w.Handling.IsBlank() && w.Storage.IsBlank() && w.Disposal.IsBlank() &&
		w.Adequate.IsBlank() && w.PreviousRecord.IsBlank() && w.Generated.IsBlank() && w.Remarks.IsBlank()
}

type WasteManagement struct {
	Quarry []WasteItem `json:"quarry"`
	Plant  []WasteItem `json:"plant"`
	Port   []WasteItem `json:"port"`
}

type ChemicalSafety struct {
	IsNotApplicable       Flag `json:"isNotApplicable"`
	RiskManagement        Text `json:"riskManagement"`
	Training              Text `json:"training"`
	Handling              Text `json:"handling"`
	EmergencyPreparedness Text `json:"emergencyPreparedness"`
	ChemicalCategory      Text `json:"chemicalCategory"`
	OthersSpecify         Text `json:"othersSpecify"`
	Remarks               Text `json:"remarks"`
	HealthSafetyChecked   Flag `json:"healthSafetyChecked"`
	SocialDevPlanChecked  Flag `json:"socialDevPlanChecked"`
}

type Complaint struct {
	IsNotApplicable   Flag `json:"isNotApplicable"`
	DateFiled         Text `json:"dateFiled"`
	FiledLocation     Text `json:"filedLocation"`
	OthersSpecify     Text `json:"othersSpecify"`
	NatureOfComplaint Text `json:"natureOfComplaint"`
	Resolutions       Text `json:"resolutions"`
}

func (c Complaint) IsEmpty() bool {
	return !c.IsNotApplicable.Bool() && c.DateFiled.IsBlank() && c.FiledLocation.IsBlank() &&
		c.OthersSpecify.IsBlank() && c.NatureOfComplaint.IsBlank() && c.Resolutions.IsBlank()
}

type RecommendationItem struct {
	Recommendation Text `json:"recommendation"`
	Commitment     Text `json:"commitment"`
	Status         Text `json:"status"`
}

func (r RecommendationItem) IsEmpty() bool {
	return r.Recommendation.IsBlank() && r.Commitment.IsBlank() && r.Status.IsBlank()
}

type RecommendationSet struct {
	Quarter Text                 `json:"quarter"`
	Year    Text                 `json:"year"`
	Plant   []RecommendationItem `json:"plant"`
	Quarry  []RecommendationItem `json:"quarry"`
	Port    []RecommendationItem `json:"port"`
}

type Recommendations struct {
	Previous RecommendationSet `json:"previousRecommendations"`
	Next     RecommendationSet `json:"nextRecommendations"`
}
