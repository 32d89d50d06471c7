package methods

import (
	"context"
	"regexp"
	"strings"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/contracts"
)

// FinauditClass checks for budget/financing-instrument mentions against
// expected_elements.
type FinauditClass struct{}

// FinancialAudit is the output of AuditFinancialFigures.
type FinancialAudit struct {
	InstrumentsFound []string        `json:"instruments_found"`
	ElementCoverage  map[string]bool `json:"element_coverage"` // expected_element.type -> found
	MissingRequired  []string        `json:"missing_required"`
}

var financialInstrumentRe = regexp.MustCompile(`(?i)\b(presupuesto|partida presupuestaria|fondo|financiamiento|crédito|subvención|transferencia)\b`)

func (FinauditClass) ClassName() string { return "finaudit" }

func (c FinauditClass) Methods() map[string]Method {
	return map[string]Method{
		"AuditFinancialFigures": {
			Spec: MethodSpec{
				Name: "AuditFinancialFigures",
				Params: []ParamSpec{
					{Name: "expected_elements", Kind: ParamAny, Required: true},
				},
			},
			Func: c.auditFinancialFigures,
		},
	}
}

func (FinauditClass) auditFinancialFigures(_ context.Context, in Input) (any, error) {
	found := uniqueLower(financialInstrumentRe.FindAllString(in.ChunkText, -1))

	elements, _ := in.Args["expected_elements"].([]contracts.ExpectedElement)
	coverage := make(map[string]bool, len(elements))
	missing := make([]string, 0)

	for _, e := range elements {
		present := strings.Contains(strings.ToLower(in.ChunkText), strings.ToLower(e.Type)) || len(found) > 0
		coverage[e.Type] = present
		if e.Required && !present {
			missing = append(missing, e.Type)
		}
	}

	return FinancialAudit{
		InstrumentsFound: found,
		ElementCoverage:  coverage,
		MissingRequired:  missing,
	}, nil
}

func uniqueLower(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		l := strings.ToLower(it)
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}
