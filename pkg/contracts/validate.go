package contracts

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/internal/canon"
)

var structValidator = validator.New()

var questionIDPattern = regexp.MustCompile(`^Q\d{3}$`)
var baseSlotPattern = regexp.MustCompile(`^D[1-6]-Q[1-5]$`)

// ContentHash recomputes the SHA-256 of the contract's canonical
// serialization with ContractHash cleared, so the hash commits to the
// contract's content, not to itself.
func (c *Contract) ContentHash() (string, error) {
	cp := *c
	cp.ContractHash = ""
	return canon.SHA256OfJSON(cp)
}

// Validate runs the four well-formedness checks A1-A4 plus the content
// hash check. Returns every error found via errors.Join-style
// aggregation (all errors collected, not fail-fast) so the Registry can
// report every defect per-contract in a DEV run.
func (c *Contract) Validate() []error {
	var errs []error

	if err := structValidator.Struct(c); err != nil {
		errs = append(errs, fmt.Errorf("struct validation: %w", err))
	}

	// A1: identity fields match schema constants.
	if !questionIDPattern.MatchString(c.QuestionID) {
		errs = append(errs, fmt.Errorf("A1: question_id %q does not match Q### pattern", c.QuestionID))
	}
	if !baseSlotPattern.MatchString(c.BaseSlot) {
		errs = append(errs, fmt.Errorf("A1: base_slot %q does not match Dn-Qk pattern", c.BaseSlot))
	}
	if !c.PolicyAreaID.IsValid() {
		errs = append(errs, fmt.Errorf("A1: invalid policy_area_id %q", c.PolicyAreaID))
	}
	if !c.DimensionID.IsValid() {
		errs = append(errs, fmt.Errorf("A1: invalid dimension_id %q", c.DimensionID))
	}

	// A2: every assembly-rule source must appear in some method_binding.provides.
	provides := c.Provides()
	for _, rule := range c.EvidenceAssembly.AssemblyRules {
		for _, src := range rule.Sources {
			if !provides[src] {
				errs = append(errs, fmt.Errorf("A2: assembly rule %q references unknown source %q (not in any provides)", rule.Target, src))
			}
		}
		if rule.MergeStrategy == MergeWeightedMean && rule.Weights != nil {
			var sum float64
			for _, w := range rule.Weights {
				sum += w
			}
			if sum < 1-1e-6 || sum > 1+1e-6 {
				errs = append(errs, fmt.Errorf("A2: weighted_mean rule %q weights sum to %v, want 1±1e-6", rule.Target, sum))
			}
		}
	}

	// A3: minimum_signal_threshold > 0 when mandatory_signals is non-empty.
	if len(c.SignalRequirements.MandatorySignals) > 0 && c.SignalRequirements.MinimumThreshold <= 0 {
		errs = append(errs, fmt.Errorf("A3: minimum_signal_threshold must be > 0 when mandatory_signals is non-empty"))
	}

	// A4: output_contract.schema.required must include "evidence".
	hasEvidence := false
	for _, r := range c.OutputContract.Schema.Required {
		if r == "evidence" {
			hasEvidence = true
			break
		}
	}
	if !hasEvidence {
		errs = append(errs, fmt.Errorf("A4: output_contract.schema.required must include \"evidence\""))
	}

	// Hash check.
	want, err := c.ContentHash()
	if err != nil {
		errs = append(errs, fmt.Errorf("hash: %w", err))
	} else if want != c.ContractHash {
		errs = append(errs, fmt.Errorf("hash mismatch: recomputed %s, recorded %s", want, c.ContractHash))
	}

	return errs
}

// ValidatePositionalEquivalence checks testable property #4:
// for every base_slot, the 10 contracts across PA01..PA10 share identical
// method composition and dimension, and their policy_area_id values cover
// {PA01..PA10} exactly once.
func ValidatePositionalEquivalence(bySlot map[string][]*Contract) error {
	for slot, group := range bySlot {
		if len(group) != 10 {
			return fmt.Errorf("base_slot %s: expected 10 contracts, got %d", slot, len(group))
		}
		seen := make(map[string]bool, 10)
		dim := group[0].DimensionID
		methodSig := methodSignature(group[0])
		for _, c := range group {
			if seen[string(c.PolicyAreaID)] {
				return fmt.Errorf("base_slot %s: policy area %s duplicated", slot, c.PolicyAreaID)
			}
			seen[string(c.PolicyAreaID)] = true
			if c.DimensionID != dim {
				return fmt.Errorf("base_slot %s: dimension mismatch (%s vs %s) at %s", slot, c.DimensionID, dim, c.QuestionID)
			}
			if methodSignature(c) != methodSig {
				return fmt.Errorf("base_slot %s: method composition mismatch at %s", slot, c.QuestionID)
			}
		}
		if len(seen) != 10 {
			return fmt.Errorf("base_slot %s: policy areas do not cover PA01..PA10, got %d distinct", slot, len(seen))
		}
	}
	return nil
}

func methodSignature(c *Contract) string {
	sig := ""
	for _, m := range c.MethodBinding {
		sig += m.ClassName + "." + m.MethodName + "|"
	}
	return sig
}
