package contracts

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/runtime"
)

// LoadResult is the outcome of loading a contract directory: the registry
// built from whatever contracts passed validation, plus a per-file report
// of anything that didn't.
type LoadResult struct {
	Registry *Registry
	Rejected map[string][]error // question_id (or filename) -> errors
}

// Load reads every Qnnn.v3.json file in dir, validates each one, and
// assembles a Registry. In runtime.ModeProd a single invalid contract
// aborts the whole load (fail-closed); in runtime.ModeDev invalid
// contracts are excluded and reported in LoadResult.Rejected instead of
// aborting, mirroring the gate-3 DEV-downgrade policy in
// pkg/runtime/gates.go.
func Load(dir string, mode runtime.Mode) (*LoadResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("contracts: read dir %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	accepted := make(map[string]*Contract, len(files))
	rejected := make(map[string][]error)

	for _, name := range files {
		path := filepath.Join(dir, name)
		c, err := loadOne(path)
		if err != nil {
			if mode == runtime.ModeProd {
				return nil, fmt.Errorf("contracts: %s: %w", name, err)
			}
			rejected[name] = []error{err}
			slog.Warn("contracts: rejected file, excluding (dev mode)", "file", name, "error", err)
			continue
		}

		if errs := c.Validate(); len(errs) > 0 {
			if mode == runtime.ModeProd {
				return nil, fmt.Errorf("contracts: %s: %d validation errors, first: %w", name, len(errs), errs[0])
			}
			rejected[c.QuestionID] = errs
			slog.Warn("contracts: invalid contract, excluding (dev mode)", "question_id", c.QuestionID, "errors", len(errs))
			continue
		}

		if _, dup := accepted[c.QuestionID]; dup {
			err := fmt.Errorf("duplicate question_id %s (file %s)", c.QuestionID, name)
			if mode == runtime.ModeProd {
				return nil, fmt.Errorf("contracts: %w", err)
			}
			rejected[c.QuestionID] = append(rejected[c.QuestionID], err)
			continue
		}
		accepted[c.QuestionID] = c
	}

	if mode == runtime.ModeProd {
		if err := checkPositionalEquivalence(accepted); err != nil {
			return nil, fmt.Errorf("contracts: %w", err)
		}
	} else if err := checkPositionalEquivalence(accepted); err != nil {
		slog.Warn("contracts: positional equivalence violated (dev mode, continuing)", "error", err)
	}

	return &LoadResult{
		Registry: NewRegistry(accepted),
		Rejected: rejected,
	}, nil
}

func loadOne(path string) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var c Contract
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return &c, nil
}

func checkPositionalEquivalence(accepted map[string]*Contract) error {
	bySlot := make(map[string][]*Contract)
	for _, c := range accepted {
		bySlot[c.BaseSlot] = append(bySlot[c.BaseSlot], c)
	}
	return ValidatePositionalEquivalence(bySlot)
}
