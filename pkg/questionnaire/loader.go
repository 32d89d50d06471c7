package questionnaire

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New()

// Load reads and parses questionnaire_monolith.json, then runs Validate.
func Load(path string) (*Monolith, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("questionnaire: read %s: %w", path, err)
	}

	var m Monolith
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("questionnaire: parse %s: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("questionnaire: invalid monolith %s: %w", path, err)
	}

	return &m, nil
}

// Validate checks struct-tag shape constraints (via go-playground/validator)
// plus the monolith's hand-written semantic invariants: closed
// enumerations, positional equivalence across policy areas, and
// threshold monotonicity.
func (m *Monolith) Validate() error {
	if err := structValidator.Struct(m); err != nil {
		return fmt.Errorf("struct validation: %w", err)
	}

	if err := m.Thresholds.Validate(); err != nil {
		return err
	}

	if len(m.Questions) != 300 {
		return fmt.Errorf("expected 300 questions, got %d", len(m.Questions))
	}

	paSet := make(map[PolicyArea]bool, 10)
	for _, pa := range AllPolicyAreas() {
		paSet[pa] = true
	}
	dimSet := make(map[Dimension]bool, 6)
	for _, d := range AllDimensions() {
		dimSet[d] = true
	}

	// base_slot -> policy_area_id -> question, for the positional
	// equivalence check (property #4).
	bySlot := make(map[string]map[PolicyArea]*QuestionSpec)
	globals := make(map[int]bool, 300)
	ids := make(map[string]bool, 300)

	for i := range m.Questions {
		q := &m.Questions[i]
		if !q.PolicyAreaID.IsValid() {
			return fmt.Errorf("question %s: invalid policy_area_id %q", q.QuestionID, q.PolicyAreaID)
		}
		if !q.DimensionID.IsValid() {
			return fmt.Errorf("question %s: invalid dimension_id %q", q.QuestionID, q.DimensionID)
		}
		if ids[q.QuestionID] {
			return fmt.Errorf("duplicate question_id %s", q.QuestionID)
		}
		ids[q.QuestionID] = true
		if globals[q.QuestionGlobal] {
			return fmt.Errorf("duplicate question_global %d", q.QuestionGlobal)
		}
		globals[q.QuestionGlobal] = true

		if bySlot[q.BaseSlot] == nil {
			bySlot[q.BaseSlot] = make(map[PolicyArea]*QuestionSpec)
		}
		if existing, ok := bySlot[q.BaseSlot][q.PolicyAreaID]; ok {
			return fmt.Errorf("base_slot %s: policy area %s appears twice (questions %s and %s)",
				q.BaseSlot, q.PolicyAreaID, existing.QuestionID, q.QuestionID)
		}
		bySlot[q.BaseSlot][q.PolicyAreaID] = q
	}

	if len(bySlot) != 30 {
		return fmt.Errorf("expected 30 distinct base slots, got %d", len(bySlot))
	}

	for slot, byPA := range bySlot {
		if len(byPA) != 10 {
			return fmt.Errorf("base_slot %s: expected 10 policy areas, got %d", slot, len(byPA))
		}
		var dim Dimension
		first := true
		for pa, q := range byPA {
			if !paSet[pa] {
				return fmt.Errorf("base_slot %s: unknown policy area %s", slot, pa)
			}
			if first {
				dim = q.DimensionID
				first = false
				continue
			}
			if q.DimensionID != dim {
				return fmt.Errorf("base_slot %s: dimension mismatch across policy areas (%s vs %s)", slot, q.DimensionID, dim)
			}
		}
	}

	clusterPAs := make(map[PolicyArea]bool)
	for _, areas := range m.ClusterMembership {
		for _, pa := range areas {
			if !paSet[pa] {
				return fmt.Errorf("cluster_membership references unknown policy area %s", pa)
			}
			if clusterPAs[pa] {
				return fmt.Errorf("policy area %s assigned to more than one cluster", pa)
			}
			clusterPAs[pa] = true
		}
	}
	if len(clusterPAs) != 10 {
		return fmt.Errorf("cluster_membership must cover all 10 policy areas, covers %d", len(clusterPAs))
	}

	return nil
}
