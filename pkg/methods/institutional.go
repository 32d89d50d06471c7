package methods

import (
	"context"
	"regexp"
	"strings"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/contracts"
)

// InstitutionalClass checks for named institutional actors and
// responsibility assignments against expected_elements.
type InstitutionalClass struct{}

// InstitutionalReferences is the output of ClassifyInstitutionalReferences.
type InstitutionalReferences struct {
	ActorsFound     []string        `json:"actors_found"`
	ElementCoverage map[string]bool `json:"element_coverage"`
	MissingRequired []string        `json:"missing_required"`
}

var institutionalActorRe = regexp.MustCompile(`(?i)\b(ministerio|secretaría|dirección general|consejo|agencia|instituto|municipalidad|gobierno regional)\s+[A-ZÁÉÍÓÚÑa-záéíóúñ ]{0,40}`)

func (InstitutionalClass) ClassName() string { return "institutional" }

func (c InstitutionalClass) Methods() map[string]Method {
	return map[string]Method{
		"ClassifyInstitutionalReferences": {
			Spec: MethodSpec{
				Name: "ClassifyInstitutionalReferences",
				Params: []ParamSpec{
					{Name: "expected_elements", Kind: ParamAny, Required: true},
				},
			},
			Func: c.classify,
		},
	}
}

func (InstitutionalClass) classify(_ context.Context, in Input) (any, error) {
	matches := institutionalActorRe.FindAllString(in.ChunkText, -1)
	actors := make([]string, 0, len(matches))
	for _, m := range matches {
		actors = append(actors, strings.TrimSpace(m))
	}

	elements, _ := in.Args["expected_elements"].([]contracts.ExpectedElement)
	coverage := make(map[string]bool, len(elements))
	missing := make([]string, 0)
	for _, e := range elements {
		present := len(actors) > 0
		coverage[e.Type] = present
		if e.Required && !present {
			missing = append(missing, e.Type)
		}
	}

	return InstitutionalReferences{
		ActorsFound:     actors,
		ElementCoverage: coverage,
		MissingRequired: missing,
	}, nil
}
