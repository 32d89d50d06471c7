package signals

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

var structValidator = validator.New()

// Load reads the ten per-PA signal pack files
// (enriched_signal_pack_PA01.json .. enriched_signal_pack_PA10.json)
// from dir and assembles a Registry.
func Load(dir string) (*Registry, error) {
	packs := make(map[questionnaire.PolicyArea]*SignalPack, 10)

	for _, pa := range questionnaire.AllPolicyAreas() {
		path := filepath.Join(dir, fmt.Sprintf("enriched_signal_pack_%s.json", pa))
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("signals: read %s: %w", path, err)
		}

		var pack SignalPack
		if err := json.Unmarshal(data, &pack); err != nil {
			return nil, fmt.Errorf("signals: parse %s: %w", path, err)
		}
		if pack.PolicyAreaID == "" {
			pack.PolicyAreaID = pa
		}
		if err := structValidator.Struct(&pack); err != nil {
			return nil, fmt.Errorf("signals: invalid pack %s: %w", path, err)
		}
		if pack.PolicyAreaID != pa {
			return nil, fmt.Errorf("signals: %s declares policy_area_id %s, expected %s", path, pack.PolicyAreaID, pa)
		}
		packs[pa] = &pack
	}

	return NewRegistry(packs), nil
}
