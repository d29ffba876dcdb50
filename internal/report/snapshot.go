package report

import (
	"encoding/json"
	"fmt"
)

// Sections is the section-addressable state of one report. A nil field means
// the section was never filled; readers that need a value regardless use
// Filled or Value, which substitute the section's default shape.
type Sections struct {
	GeneralInfo          *GeneralInfo                `json:"generalInfo,omitempty"`
	PermitHolderType     *Text                       `json:"permitHolderType,omitempty"`
	ECC                  *ECCSection                 `json:"eccInfo,omitempty"`
	ISAG                 *ISAGSection                `json:"isagInfo,omitempty"`
	EPEP                 *EPEPSection                `json:"epepInfo,omitempty"`
	RCF                  *FundSection                `json:"rcfInfo,omitempty"`
	MTF                  *FundSection                `json:"mtfInfo,omitempty"`
	FMRDF                *FundSection                `json:"fmrdfInfo,omitempty"`
	MMT                  *ContactBlock               `json:"mmtInfo,omitempty"`
	ExecutiveSummary     *ExecutiveSummary           `json:"executiveSummaryOfCompliance,omitempty"`
	ProcessDocumentation *ProcessDocumentation       `json:"processDocumentationOfActivitiesUndertaken,omitempty"`
	ProjectLocation      *ProjectLocationCompliance  `json:"complianceToProjectLocationAndCoverageLimits,omitempty"`
	ImpactManagement     *ImpactManagementCompliance `json:"complianceToImpactManagementCommitments,omitempty"`
	AirQuality           *QualityAssessment          `json:"airQualityImpactAssessment,omitempty"`
	WaterQuality         *QualityAssessment          `json:"waterQualityImpactAssessment,omitempty"`
	NoiseQuality         *QualityAssessment          `json:"noiseQualityImpactAssessment,omitempty"`
	WasteManagement      *WasteManagement            `json:"complianceWithGoodPracticeInSolidAndHazardousWasteManagement,omitempty"`
	ChemicalSafety       *ChemicalSafety             `json:"complianceWithGoodPracticeInChemicalSafetyManagement,omitempty"`
	Complaints           *[]Complaint                `json:"complaintsVerificationAndManagement,omitempty"`
	Recommendations      *Recommendations            `json:"recommendationsData,omitempty"`

	// ComplianceMonitoringReport carries a pre-nested report body, as returned
	// by the remote service for previously submitted records. Normalize folds
	// it into the flat fields above.
	ComplianceMonitoringReport *NestedCMR `json:"complianceMonitoringReport,omitempty"`
}

// NestedCMR is the nested form of the compliance monitoring report sections.
type NestedCMR struct {
	ProjectLocation  *ProjectLocationCompliance  `json:"complianceToProjectLocationAndCoverageLimits,omitempty"`
	ImpactManagement *ImpactManagementCompliance `json:"complianceToImpactManagementCommitments,omitempty"`
	AirQuality       *QualityAssessment          `json:"airQualityImpactAssessment,omitempty"`
	WaterQuality     *QualityAssessment          `json:"waterQualityImpactAssessment,omitempty"`
	NoiseQuality     *QualityAssessment          `json:"noiseQualityImpactAssessment,omitempty"`
	WasteManagement  *WasteManagement            `json:"complianceWithGoodPracticeInSolidAndHazardousWasteManagement,omitempty"`
	ChemicalSafety   *ChemicalSafety             `json:"complianceWithGoodPracticeInChemicalSafetyManagement,omitempty"`
	Complaints       *[]Complaint                `json:"complaintsVerificationAndManagement,omitempty"`
	Recommendations  *Recommendations            `json:"recommendationsData,omitempty"`
}

// Shape tells whether a snapshot still carries a nested report body.
type Shape int

const (
	ShapeFlat Shape = iota
	ShapeNested
)

func (s Sections) Shape() Shape {
	if s.ComplianceMonitoringReport != nil {
		return ShapeNested
	}
	return ShapeFlat
}

// Normalize returns the flat form of s. Sections present in the nested body
// replace their flat counterparts.
func (s Sections) Normalize() Sections {
	nested := s.ComplianceMonitoringReport
	if nested == nil {
		return s
	}
	out := s
	out.ComplianceMonitoringReport = nil
	if nested.ProjectLocation != nil {
		out.ProjectLocation = nested.ProjectLocation
	}
	if nested.ImpactManagement != nil {
		out.ImpactManagement = nested.ImpactManagement
	}
	if nested.AirQuality != nil {
		out.AirQuality = nested.AirQuality
	}
	if nested.WaterQuality != nil {
		out.WaterQuality = nested.WaterQuality
	}
	if nested.NoiseQuality != nil {
		out.NoiseQuality = nested.NoiseQuality
	}
	if nested.WasteManagement != nil {
		out.WasteManagement = nested.WasteManagement
	}
	if nested.ChemicalSafety != nil {
		out.ChemicalSafety = nested.ChemicalSafety
	}
	if nested.Complaints != nil {
		out.Complaints = nested.Complaints
	}
	if nested.Recommendations != nil {
		out.Recommendations = nested.Recommendations
	}
	return out
}

// Has reports whether the named section was filled.
func (s Sections) Has(name SectionName) bool {
	slot, ok := slots[name]
	if !ok {
		return false
	}
	return slot.present(&s)
}

// Present lists the filled sections in declaration order.
func (s Sections) Present() []SectionName {
	names := make([]SectionName, 0, len(sectionOrder))
	for _, name := range sectionOrder {
		if s.Has(name) {
			names = append(names, name)
		}
	}
	return names
}

// Value returns the named section, or its default shape when absent.
func (s Sections) Value(name SectionName) (any, error) {
	slot, ok := slots[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSection, name)
	}
	return slot.value(&s), nil
}

// Filled returns a copy of s in which every absent section holds its default.
func (s Sections) Filled() Sections {
	out := s.Normalize()
	for _, name := range sectionOrder {
		slot := slots[name]
		if !slot.present(&out) {
			slot.assign(&out, slot.zero())
		}
	}
	return out
}

// Set decodes value into the named section. value may be the section's own
// type, a pointer to it, raw JSON, or anything that marshals to the section's
// JSON shape. A JSON null clears the section.
func (s *Sections) Set(name SectionName, value any) error {
	slot, ok := slots[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSection, name)
	}
	decoded, err := slot.decode(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidSection, name, err)
	}
	slot.assign(s, decoded)
	return nil
}

// Clone returns a deep copy of s.
func (s Sections) Clone() Sections {
	data, err := json.Marshal(s)
	if err != nil {
		return s
	}
	var out Sections
	if err := json.Unmarshal(data, &out); err != nil {
		return s
	}
	return out
}

// IsKnownSection reports whether name is one of the report's section keys.
func IsKnownSection(name SectionName) bool {
	_, ok := slots[name]
	return ok
}

// SectionNames lists every section key in declaration order.
func SectionNames() []SectionName {
	return append([]SectionName(nil), sectionOrder...)
}

type sectionSlot struct {
	present  func(*Sections) bool
	value    func(*Sections) any
	valuePtr func(*Sections) any
	zero     func() any
	assign   func(*Sections, any)
	decode   func(any) (any, error)
}

func slotFor[T any](field func(*Sections) **T, def func() T) sectionSlot {
	return sectionSlot{
		present: func(s *Sections) bool { return *field(s) != nil },
		value: func(s *Sections) any {
			if p := *field(s); p != nil {
				return *p
			}
			return def()
		},
		valuePtr: func(s *Sections) any { return *field(s) },
		zero: func() any {
			v := def()
			return &v
		},
		assign: func(s *Sections, v any) {
			p, _ := v.(*T)
			*field(s) = p
		},
		decode: func(value any) (any, error) {
			switch v := value.(type) {
			case nil:
				return (*T)(nil), nil
			case T:
				return &v, nil
			case *T:
				if v == nil {
					return (*T)(nil), nil
				}
				cp := *v
				return &cp, nil
			}
			raw, err := rawJSON(value)
			if err != nil {
				return nil, err
			}
			if string(raw) == "null" {
				return (*T)(nil), nil
			}
			out := def()
			if err := json.Unmarshal(raw, &out); err != nil {
				return nil, err
			}
			return &out, nil
		},
	}
}

func rawJSON(value any) (json.RawMessage, error) {
	switch v := value.(type) {
	case json.RawMessage:
		return v, nil
	case []byte:
		return json.RawMessage(v), nil
	default:
		return json.Marshal(v)
	}
}

func zeroOf[T any]() T {
	var v T
	return v
}

var sectionOrder = []SectionName{
	SectionGeneralInfo,
	SectionPermitHolderType,
	SectionECC,
	SectionISAG,
	SectionEPEP,
	SectionRCF,
	SectionMTF,
	SectionFMRDF,
	SectionMMT,
	SectionExecutiveSummary,
	SectionProcessDocumentation,
	SectionProjectLocation,
	SectionImpactManagement,
	SectionAirQuality,
	SectionWaterQuality,
	SectionNoiseQuality,
	SectionWasteManagement,
	SectionChemicalSafety,
	SectionComplaints,
	SectionRecommendations,
}

var slots = map[SectionName]sectionSlot{
	SectionGeneralInfo: slotFor(func(s *Sections) **GeneralInfo { return &s.GeneralInfo }, zeroOf[GeneralInfo]),
	SectionPermitHolderType: slotFor(func(s *Sections) **Text { return &s.PermitHolderType }, func() Text {
		return PermitHolderSingle
	}),
	SectionECC: slotFor(func(s *Sections) **ECCSection { return &s.ECC }, func() ECCSection {
		return ECCSection{AdditionalForms: []ECCEntry{}}
	}),
	SectionISAG: slotFor(func(s *Sections) **ISAGSection { return &s.ISAG }, func() ISAGSection {
		return ISAGSection{AdditionalForms: []ISAGEntry{}}
	}),
	SectionEPEP: slotFor(func(s *Sections) **EPEPSection { return &s.EPEP }, func() EPEPSection {
		return EPEPSection{AdditionalForms: []EPEPEntry{}}
	}),
	SectionRCF:   slotFor(func(s *Sections) **FundSection { return &s.RCF }, defaultFundSection),
	SectionMTF:   slotFor(func(s *Sections) **FundSection { return &s.MTF }, defaultFundSection),
	SectionFMRDF: slotFor(func(s *Sections) **FundSection { return &s.FMRDF }, defaultFundSection),
	SectionMMT:   slotFor(func(s *Sections) **ContactBlock { return &s.MMT }, zeroOf[ContactBlock]),
	SectionExecutiveSummary: slotFor(func(s *Sections) **ExecutiveSummary { return &s.ExecutiveSummary },
		zeroOf[ExecutiveSummary]),
	SectionProcessDocumentation: slotFor(func(s *Sections) **ProcessDocumentation { return &s.ProcessDocumentation },
		zeroOf[ProcessDocumentation]),
	SectionProjectLocation: slotFor(func(s *Sections) **ProjectLocationCompliance { return &s.ProjectLocation },
		func() ProjectLocationCompliance {
			return ProjectLocationCompliance{Parameters: []LocationParameter{}, OtherComponents: []LocationParameter{}}
		}),
	SectionImpactManagement: slotFor(func(s *Sections) **ImpactManagementCompliance { return &s.ImpactManagement },
		func() ImpactManagementCompliance {
			return ImpactManagementCompliance{
				ConstructionInfo:                  []ImpactCommitment{},
				ImplementationOfControlStrategies: []ImpactCommitment{},
			}
		}),
	SectionAirQuality:   slotFor(func(s *Sections) **QualityAssessment { return &s.AirQuality }, defaultQualityAssessment),
	SectionWaterQuality: slotFor(func(s *Sections) **QualityAssessment { return &s.WaterQuality }, defaultQualityAssessment),
	SectionNoiseQuality: slotFor(func(s *Sections) **QualityAssessment { return &s.NoiseQuality }, defaultQualityAssessment),
	SectionWasteManagement: slotFor(func(s *Sections) **WasteManagement { return &s.WasteManagement },
		func() WasteManagement {
			return WasteManagement{Quarry: []WasteItem{}, Plant: []WasteItem{}, Port: []WasteItem{}}
		}),
	SectionChemicalSafety: slotFor(func(s *Sections) **ChemicalSafety { return &s.ChemicalSafety }, zeroOf[ChemicalSafety]),
	SectionComplaints: slotFor(func(s *Sections) **[]Complaint { return &s.Complaints }, func() []Complaint {
		return []Complaint{}
	}),
	SectionRecommendations: slotFor(func(s *Sections) **Recommendations { return &s.Recommendations },
		func() Recommendations {
			return Recommendations{Previous: defaultRecommendationSet(), Next: defaultRecommendationSet()}
		}),
}

func defaultFundSection() FundSection {
	return FundSection{AdditionalForms: []FundEntry{}}
}

func defaultQualityAssessment() QualityAssessment {
	return QualityAssessment{Parameters: []QualityParameter{}}
}

func defaultRecommendationSet() RecommendationSet {
	return RecommendationSet{
		Plant:  []RecommendationItem{},
		Quarry: []RecommendationItem{},
		Port:   []RecommendationItem{},
	}
}
