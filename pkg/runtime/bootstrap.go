package runtime

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// RuntimeConfig is the result of Phase 0.0 Bootstrap: the process
// identity and artifact root for this run. Immutable after Bootstrap
// returns: every entity built during Phase 0-1 is frozen before any
// Phase 2 worker reads it.
type RuntimeConfig struct {
	Mode              Mode
	ArtifactsDir      string
	CorrelationID     string
	PlanPath          string
	QuestionnairePath string
	MaxWorkers        int
	Pipeline          *PipelineYAMLConfig
}

// EnvLookup abstracts os.Getenv so gate tests can supply a controlled
// environment without mutating process-global state.
type EnvLookup func(key string) string

// BootstrapOptions configures Bootstrap. Zero value uses process
// environment variables and the real filesystem.
type BootstrapOptions struct {
	ConfigDir string
	PlanPath  string
	Getenv    EnvLookup
}

func getEnv(lookup EnvLookup, key, defaultValue string) string {
	var v string
	if lookup != nil {
		v = lookup(key)
	} else {
		v = os.Getenv(key)
	}
	if v == "" {
		return defaultValue
	}
	return v
}

// Bootstrap performs Phase 0.0: builds RuntimeConfig, creates the artifact
// root directory, and loads pipeline.yaml. It is the first thing
// Gate 1 (Bootstrap gate) checks. Kept out of main() so gate tests can
// drive it with a controlled environment.
func Bootstrap(opts BootstrapOptions) (*RuntimeConfig, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		configDir = "."
	}

	envPath := filepath.Join(configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("could not load .env file, continuing with existing environment", "path", envPath, "error", err)
	}

	mode := ParseMode(getEnv(opts.Getenv, "MODE", string(ModeProd)))

	correlationID := getEnv(opts.Getenv, "CORRELATION_ID", "")
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	runID := correlationID
	defaultArtifactsRoot := filepath.Join("artifacts", runID)
	artifactsDir := getEnv(opts.Getenv, "ARTIFACTS_ROOT", defaultArtifactsRoot)

	maxWorkers := 32
	if v := getEnv(opts.Getenv, "MAX_WORKERS", ""); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			maxWorkers = clamp(n, 4, 64)
		} else {
			slog.Warn("invalid MAX_WORKERS, using default", "value", v, "error", err)
		}
	}

	if err := os.MkdirAll(artifactsDir, 0o755); err != nil {
		return nil, fmt.Errorf("runtime: create artifacts dir %q: %w", artifactsDir, err)
	}

	pipelineCfg, err := LoadPipelineConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("runtime: load pipeline config: %w", err)
	}
	if err := pipelineCfg.Validate(); err != nil {
		return nil, fmt.Errorf("runtime: invalid pipeline config: %w", err)
	}
	pipelineCfg.Workers.Initial = clamp(maxWorkers, pipelineCfg.Workers.Min, pipelineCfg.Workers.Max)

	questionnairePath := getEnv(opts.Getenv, "QUESTIONNAIRE_PATH", "")
	if questionnairePath == "" {
		questionnairePath = filepath.Join(filepath.Dir(opts.PlanPath), "questionnaire_monolith.json")
	}

	slog.Info("bootstrap complete",
		"mode", mode,
		"correlation_id", correlationID,
		"artifacts_dir", artifactsDir,
		"max_workers", maxWorkers)

	return &RuntimeConfig{
		Mode:              mode,
		ArtifactsDir:      artifactsDir,
		CorrelationID:     correlationID,
		PlanPath:          opts.PlanPath,
		QuestionnairePath: questionnairePath,
		MaxWorkers:        maxWorkers,
		Pipeline:          pipelineCfg,
	}, nil
}

func parsePositiveInt(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("value must be positive, got %d", n)
	}
	return n, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
