package remote

// Request shapes accepted by POST /cmvr and PATCH /cmvr/:id. Field names are
// fixed by the backend.

type CreateCMVRDto struct {
	CreatedByID                             string     `json:"createdById,omitempty"`
	FileName                                string     `json:"fileName,omitempty"`
	CompanyName                             string     `json:"companyName"`
	Location                                string     `json:"location"`
	Quarter                                 string     `json:"quarter"`
	Year                                    int        `json:"year"`
	DateOfComplianceMonitoringAndValidation string     `json:"dateOfComplianceMonitoringAndValidation"`
	MonitoringPeriodCovered                 string     `json:"monitoringPeriodCovered"`
	DateOfCMRSubmission                     string     `json:"dateOfCmrSubmission"`
	Proponent                               ContactDto `json:"proponent"`
	MMT                                     ContactDto `json:"mmt"`

	ECC                                  []ECCDto  `json:"ecc"`
	IsagMpp                              []ISAGDto `json:"isagMpp"`
	EPEP                                 []EPEPDto `json:"epep"`
	RehabilitationCashFund               []FundDto `json:"rehabilitationCashFund"`
	MonitoringTrustFund                  []FundDto `json:"monitoringTrustFund"`
	FinalMineRehabAndDecommissioningFund []FundDto `json:"finalMineRehabAndDecommissioningFund"`

	PermitHolderType string `json:"permitHolderType,omitempty"`
	ProjectID        string `json:"projectId,omitempty"`

	ExecutiveSummaryOfCompliance               *ExecutiveSummaryDto           `json:"executiveSummaryOfCompliance,omitempty"`
	ProcessDocumentationOfActivitiesUndertaken *ProcessDocumentationDto       `json:"processDocumentationOfActivitiesUndertaken,omitempty"`
	ComplianceMonitoringReport                 *ComplianceMonitoringReportDto `json:"complianceMonitoringReport,omitempty"`
}

type ContactDto struct {
	ContactPersonAndPosition string `json:"contactPersonAndPosition"`
	MailingAddress           string `json:"mailingAddress"`
	TelephoneFax             string `json:"telephoneFax"`
	EmailAddress             string `json:"emailAddress"`
}

type ECCDto struct {
	PermitHolder   string `json:"permitHolder"`
	ECCNumber      string `json:"eccNumber"`
	DateOfIssuance string `json:"dateOfIssuance"`
}

type ISAGDto struct {
	PermitHolder     string `json:"permitHolder"`
	ISAGPermitNumber string `json:"isagPermitNumber"`
	DateOfIssuance   string `json:"dateOfIssuance"`
}

type EPEPDto struct {
	PermitHolder   string `json:"permitHolder"`
	EPEPNumber     string `json:"epepNumber"`
	DateOfApproval string `json:"dateOfApproval"`
}

type FundDto struct {
	PermitHolder         string  `json:"permitHolder"`
	SavingsAccountNumber string  `json:"savingsAccountNumber"`
	AmountDeposited      float64 `json:"amountDeposited"`
	DateUpdated          string  `json:"dateUpdated"`
}

type ComplianceStatusDto struct {
	Complied    bool   `json:"complied"`
	NotComplied bool   `json:"notComplied"`
	Remarks     string `json:"remarks"`
}

type EPEPComplianceDto struct {
	Safety         bool   `json:"safety"`
	Social         bool   `json:"social"`
	Rehabilitation bool   `json:"rehabilitation"`
	Remarks        string `json:"remarks"`
}

type ComplaintsManagementDto struct {
	NAForAll                             bool   `json:"naForAll"`
	ComplaintReceivingSetup              bool   `json:"complaintReceivingSetup"`
	CaseInvestigation                    bool   `json:"caseInvestigation"`
	ImplementationOfControl              bool   `json:"implementationOfControl"`
	CommunicationWithComplainantOrPublic bool   `json:"communicationWithComplainantOrPublic"`
	ComplaintDocumentation               bool   `json:"complaintDocumentation"`
	Remarks                              string `json:"remarks"`
}

type OthersDto struct {
	Specify string `json:"specify"`
	NA      bool   `json:"na"`
}

type ExecutiveSummaryDto struct {
	ComplianceWithEPEPCommitments EPEPComplianceDto       `json:"complianceWithEpepCommitments"`
	ECCCompliance                 ComplianceStatusDto     `json:"eccCompliance"`
	SDMPCompliance                ComplianceStatusDto     `json:"sdmpCompliance"`
	ComplaintsManagement          ComplaintsManagementDto `json:"complaintsManagement"`
	Accountability                ComplianceStatusDto     `json:"accountability"`
	Others                        OthersDto               `json:"others"`
}

type ActivityDto struct {
	MMTMembersInvolved []string `json:"mmtMembersInvolved"`
	MethodologyUsed    string   `json:"methodologyUsed"`
	DateConducted      string   `json:"dateConducted"`
	Remarks            string   `json:"remarks"`
}

type ActivitiesDto struct {
	ComplianceWithECCConditions   ActivityDto `json:"complianceWithEccConditions"`
	ComplianceWithEPEPCommitments ActivityDto `json:"complianceWithEpepCommitments"`
	WaterQuality                  ActivityDto `json:"waterQuality"`
	AirQuality                    ActivityDto `json:"airQuality"`
	NoiseQuality                  ActivityDto `json:"noiseQuality"`
	SolidAndHazardousWaste        ActivityDto `json:"solidAndHazardousWaste"`
}

type ProcessDocumentationDto struct {
	DateConducted                   string        `json:"dateConducted"`
	SameDateForAllActivities        bool          `json:"sameDateForAllActivities"`
	MergedMethodologyOrOtherRemarks string        `json:"mergedMethodologyOrOtherRemarks"`
	Activities                      ActivitiesDto `json:"activities"`
}

// ComplianceMonitoringReportDto is only sent once its four mandatory
// children are all filled. The rest ride along when present.
type ComplianceMonitoringReportDto struct {
	ComplianceToProjectLocationAndCoverageLimits                *ProjectLocationDto   `json:"complianceToProjectLocationAndCoverageLimits"`
	ComplianceToImpactManagementCommitments                     *ImpactManagementDto  `json:"complianceToImpactManagementCommitments"`
	AirQualityImpactAssessment                                  *QualityAssessmentDto `json:"airQualityImpactAssessment"`
	WaterQualityImpactAssessment                                *QualityAssessmentDto `json:"waterQualityImpactAssessment"`
	NoiseQualityImpactAssessment                                *QualityAssessmentDto `json:"noiseQualityImpactAssessment,omitempty"`
	ComplianceWithGoodPracticeInSolidAndHazardousWasteManagement *WasteManagementDto   `json:"complianceWithGoodPracticeInSolidAndHazardousWasteManagement,omitempty"`
	ComplianceWithGoodPracticeInChemicalSafetyManagement        *ChemicalSafetyDto    `json:"complianceWithGoodPracticeInChemicalSafetyManagement,omitempty"`
	ComplaintsVerificationAndManagement                         []ComplaintDto        `json:"complaintsVerificationAndManagement,omitempty"`
	RecommendationFromPrevQuarter                               *RecommendationDto    `json:"recommendationFromPrevQuarter,omitempty"`
	RecommendationForNextQuarter                                *RecommendationDto    `json:"recommendationForNextQuarter,omitempty"`
}

type LocationParameterDto struct {
	Name          string `json:"name"`
	Specification string `json:"specification"`
	WithinSpecs   bool   `json:"withinSpecs"`
	Remarks       string `json:"remarks"`
}

type ProjectLocationDto struct {
	Parameters      []LocationParameterDto `json:"parameters"`
	OtherComponents []LocationParameterDto `json:"otherComponents"`
}

type ImpactCommitmentDto struct {
	Component          string `json:"component"`
	PotentialImpact    string `json:"potentialImpact"`
	MitigationMeasures string `json:"mitigationMeasures"`
	IsEffective        bool   `json:"isEffective"`
	Remarks            string `json:"remarks"`
}

type ImpactManagementDto struct {
	ConstructionInfo                                  []ImpactCommitmentDto `json:"constructionInfo"`
	ImplementationOfEnvironmentalImpactControlStrategies []ImpactCommitmentDto `json:"implementationOfEnvironmentalImpactControlStrategies"`
	OverallComplianceAssessment                       string                `json:"overallComplianceAssessment"`
}

type ReadingDto struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
}

type QualityParameterDto struct {
	Name    string     `json:"name"`
	Station string     `json:"station"`
	SMR     ReadingDto `json:"smr"`
	MMT     ReadingDto `json:"mmt"`
	RedFlag bool       `json:"redFlag"`
	Action  string     `json:"action"`
	Limit   float64    `json:"limit"`
	Remarks string     `json:"remarks"`
}

type QualityAssessmentDto struct {
	ECCConditionReference              string                `json:"eccConditionReference"`
	SamplingDate                       string                `json:"samplingDate"`
	WeatherAndWindDirection            string                `json:"weatherAndWindDirection"`
	Parameters                         []QualityParameterDto `json:"parameters"`
	ExplanationForConfirmatorySampling string                `json:"explanationForConfirmatorySampling"`
	OverallAssessment                  string                `json:"overallAssessment"`
}

type WasteItemDto struct {
	TypeOfWaste    string  `json:"typeOfWaste"`
	Handling       string  `json:"handling"`
	Storage        string  `json:"storage"`
	Disposal       string  `json:"disposal"`
	Adequate       bool    `json:"adequate"`
	PreviousRecord string  `json:"previousRecord"`
	Generated      float64 `json:"generated"`
	Remarks        string  `json:"remarks"`
}

type WasteManagementDto struct {
	Quarry []WasteItemDto `json:"quarry"`
	Plant  []WasteItemDto `json:"plant"`
	Port   []WasteItemDto `json:"port"`
}

type ChemicalSafetyDto struct {
	IsNotApplicable       bool   `json:"isNotApplicable"`
	RiskManagement        bool   `json:"riskManagement"`
	Training              bool   `json:"training"`
	Handling              bool   `json:"handling"`
	EmergencyPreparedness bool   `json:"emergencyPreparedness"`
	ChemicalCategory      string `json:"chemicalCategory"`
	OthersSpecify         string `json:"othersSpecify"`
	Remarks               string `json:"remarks"`
	HealthSafetyChecked   bool   `json:"healthSafetyChecked"`
	SocialDevPlanChecked  bool   `json:"socialDevPlanChecked"`
}

type ComplaintDto struct {
	IsNotApplicable   bool   `json:"isNotApplicable"`
	DateFiled         string `json:"dateFiled"`
	FiledLocation     string `json:"filedLocation"`
	OthersSpecify     string `json:"othersSpecify"`
	NatureOfComplaint string `json:"natureOfComplaint"`
	Resolutions       string `json:"resolutions"`
}

type RecommendationItemDto struct {
	Recommendation string `json:"recommendation"`
	Commitment     string `json:"commitment"`
	Status         string `json:"status"`
}

type RecommendationDto struct {
	Quarter string                  `json:"quarter"`
	Year    int                     `json:"year"`
	Plant   []RecommendationItemDto `json:"plant"`
	Quarry  []RecommendationItemDto `json:"quarry"`
	Port    []RecommendationItemDto `json:"port"`
}
