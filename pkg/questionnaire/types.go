package questionnaire

import "fmt"

// QualityLevel is the closed label set thresholds map raw scores
// onto. Ordering (for comparisons) is EXCELENTE > BUENO > ACEPTABLE >
// INSUFICIENTE.
type QualityLevel string

const (
	QualityExcelente    QualityLevel = "EXCELENTE"
	QualityBueno        QualityLevel = "BUENO"
	QualityAceptable    QualityLevel = "ACEPTABLE"
	QualityInsuficiente QualityLevel = "INSUFICIENTE"
)

// IsValid reports whether q is one of the four closed labels.
func (q QualityLevel) IsValid() bool {
	switch q {
	case QualityExcelente, QualityBueno, QualityAceptable, QualityInsuficiente:
		return true
	default:
		return false
	}
}

// BaseWeight returns the calibration base weight for the label.
func (q QualityLevel) BaseWeight() float64 {
	switch q {
	case QualityExcelente:
		return 1.0
	case QualityBueno:
		return 0.9
	case QualityAceptable:
		return 0.75
	case QualityInsuficiente:
		return 0.4
	default:
		return 0
	}
}

// Thresholds are the three quality-label cut points on the [0,1] raw-score
// scale, loaded from the questionnaire monolith.
type Thresholds struct {
	Excelente float64 `json:"excelente" validate:"required,gt=0,lte=1"`
	Bueno     float64 `json:"bueno" validate:"required,gt=0,lte=1"`
	Aceptable float64 `json:"aceptable" validate:"required,gt=0,lte=1"`
}

// Validate enforces monotonicity: excelente > bueno > aceptable > 0.
func (t Thresholds) Validate() error {
	if !(t.Excelente > t.Bueno && t.Bueno > t.Aceptable && t.Aceptable > 0) {
		return fmt.Errorf("questionnaire: thresholds must satisfy excelente(%v) > bueno(%v) > aceptable(%v) > 0",
			t.Excelente, t.Bueno, t.Aceptable)
	}
	return nil
}

// Label maps a raw [0,1] score to its quality level using these
// thresholds. Cut points are inclusive, with a 1e-9 tolerance so a
// score that sits on a threshold but picked up rounding error while
// being averaged still gets that threshold's label.
func (t Thresholds) Label(score float64) QualityLevel {
	const tolerance = 1e-9
	switch {
	case score+tolerance >= t.Excelente:
		return QualityExcelente
	case score+tolerance >= t.Bueno:
		return QualityBueno
	case score+tolerance >= t.Aceptable:
		return QualityAceptable
	default:
		return QualityInsuficiente
	}
}

// QuestionSpec is one row of the questionnaire monolith's question
// table; the per-question contract content lives in pkg/contracts.
type QuestionSpec struct {
	QuestionID     string     `json:"question_id" validate:"required"` // Q001..Q300
	QuestionGlobal int        `json:"question_global" validate:"required,min=1,max=300"`
	BaseSlot       string     `json:"base_slot" validate:"required"` // Dn-Qk
	PolicyAreaID   PolicyArea `json:"policy_area_id" validate:"required"`
	DimensionID    Dimension  `json:"dimension_id" validate:"required"`
	QuestionText   string     `json:"question_text" validate:"required"`
}

// PatternSpec is a default pattern entry from the monolith's pattern
// library, the same shape contracts carry in question_context.patterns
// and the monolith-level fallback when a contract declares none.
type PatternSpec struct {
	ID     string  `json:"id" validate:"required"`
	Type   string  `json:"type" validate:"required"`
	Regex  string  `json:"regex" validate:"required"`
	Weight float64 `json:"weight" validate:"gte=0,lte=1"`
	// PolicyAreaID restricts this pattern to one PA when set; empty means
	// it applies to all PAs.
	PolicyAreaID PolicyArea `json:"policy_area_id,omitempty"`
}

// Monolith is the full questionnaire_monolith.json contents.
type Monolith struct {
	Questions         []QuestionSpec           `json:"questions" validate:"required,len=300,dive"`
	PolicyAreas       []PolicyArea             `json:"policy_areas" validate:"required,len=10"`
	Dimensions        []Dimension              `json:"dimensions" validate:"required,len=6"`
	Thresholds        Thresholds               `json:"thresholds" validate:"required"`
	ClusterMembership map[Cluster][]PolicyArea `json:"cluster_membership" validate:"required"`
	DefaultPatterns   []PatternSpec            `json:"default_patterns"`
}

// QuestionByID indexes Questions by question_id for O(1) lookup.
func (m *Monolith) QuestionByID() map[string]*QuestionSpec {
	out := make(map[string]*QuestionSpec, len(m.Questions))
	for i := range m.Questions {
		out[m.Questions[i].QuestionID] = &m.Questions[i]
	}
	return out
}

// ClusterOf returns the cluster a policy area belongs to, or "" if not
// found in ClusterMembership.
func (m *Monolith) ClusterOf(pa PolicyArea) Cluster {
	for c, areas := range m.ClusterMembership {
		for _, a := range areas {
			if a == pa {
				return c
			}
		}
	}
	return ""
}
