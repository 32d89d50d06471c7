package runtime

import (
	"fmt"
	"os"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// PipelineYAMLConfig is the shape of pipeline.yaml: tunables the
// questionnaire monolith and per-question contracts don't carry
// (worker pool bounds, phase timeouts, resource-sampler cadence,
// readability thresholds): one struct per top-level YAML section,
// merged over compiled-in defaults with mergo.
type PipelineYAMLConfig struct {
	Workers     *WorkersConfig     `yaml:"workers"`
	Timeouts    *TimeoutsConfig    `yaml:"timeouts"`
	Resources   *ResourcesConfig   `yaml:"resources"`
	Readability *ReadabilityConfig `yaml:"readability"`
}

// WorkersConfig bounds the adaptive worker pool.
type WorkersConfig struct {
	Min     int `yaml:"min"`
	Max     int `yaml:"max"`
	Initial int `yaml:"initial"`
}

// TimeoutsConfig declares per-phase timeouts.
type TimeoutsConfig struct {
	Phase0      time.Duration `yaml:"phase0"`
	Phase1      time.Duration `yaml:"phase1"`
	Phase2      time.Duration `yaml:"phase2"`
	Aggregation time.Duration `yaml:"aggregation"`
	Report      time.Duration `yaml:"report"`
}

// ResourcesConfig tunes the CPU/memory resource sampler.
type ResourcesConfig struct {
	SampleInterval  time.Duration `yaml:"sample_interval"`
	RetainSamples   int           `yaml:"retain_samples"`
	CPUScaleDownPct float64       `yaml:"cpu_scale_down_pct"`
	MemScaleDownMB  int64         `yaml:"mem_scale_down_mb"`
}

// ReadabilityConfig tunes the Spanish-calibrated readability gate.
type ReadabilityConfig struct {
	MinFleschReadingEase float64 `yaml:"min_flesch_reading_ease"`
	MaxAvgSentenceWords  float64 `yaml:"max_avg_sentence_words"`
	MaxSplitRetries      int     `yaml:"max_split_retries"`
}

// DefaultPipelineConfig returns the compiled-in defaults used when no
// pipeline.yaml is present.
func DefaultPipelineConfig() *PipelineYAMLConfig {
	return &PipelineYAMLConfig{
		Workers: &WorkersConfig{Min: 4, Max: 64, Initial: 32},
		Timeouts: &TimeoutsConfig{
			Phase0:      30 * time.Second,
			Phase1:      2 * time.Minute,
			Phase2:      20 * time.Minute,
			Aggregation: 1 * time.Minute,
			Report:      2 * time.Minute,
		},
		Resources: &ResourcesConfig{
			SampleInterval:  2 * time.Second,
			RetainSamples:   120,
			CPUScaleDownPct: 85.0,
			MemScaleDownMB:  4096,
		},
		Readability: &ReadabilityConfig{
			MinFleschReadingEase: 60.0,
			MaxAvgSentenceWords:  20.0,
			MaxSplitRetries:      3,
		},
	}
}

// LoadPipelineConfig loads pipeline.yaml from configDir if present, merging
// it over the compiled-in defaults with mergo.WithOverride (user values win
// ties). A missing file is not an error: defaults are returned unchanged.
func LoadPipelineConfig(configDir string) (*PipelineYAMLConfig, error) {
	cfg := DefaultPipelineConfig()

	path := configDir + "/pipeline.yaml"
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("runtime: read pipeline.yaml: %w", err)
	}

	data = ExpandEnv(data)

	var user PipelineYAMLConfig
	if err := yaml.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("runtime: parse pipeline.yaml: %w", err)
	}

	if err := mergo.Merge(cfg, &user, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("runtime: merge pipeline.yaml: %w", err)
	}

	return cfg, nil
}

// Validate rejects malformed tunables (inverted worker bounds,
// non-positive timeouts or cadences) with hand-written range checks.
func (c *PipelineYAMLConfig) Validate() error {
	if c.Workers == nil {
		return fmt.Errorf("runtime: workers config is nil")
	}
	if c.Workers.Min < 1 || c.Workers.Max > 1024 || c.Workers.Min > c.Workers.Max {
		return fmt.Errorf("runtime: workers min/max out of range: min=%d max=%d", c.Workers.Min, c.Workers.Max)
	}
	if c.Workers.Initial < c.Workers.Min || c.Workers.Initial > c.Workers.Max {
		return fmt.Errorf("runtime: workers initial %d outside [%d,%d]", c.Workers.Initial, c.Workers.Min, c.Workers.Max)
	}
	if c.Timeouts == nil {
		return fmt.Errorf("runtime: timeouts config is nil")
	}
	for name, d := range map[string]time.Duration{
		"phase0": c.Timeouts.Phase0, "phase1": c.Timeouts.Phase1,
		"phase2": c.Timeouts.Phase2, "aggregation": c.Timeouts.Aggregation,
		"report": c.Timeouts.Report,
	} {
		if d <= 0 {
			return fmt.Errorf("runtime: timeout %q must be positive, got %v", name, d)
		}
	}
	if c.Resources == nil {
		return fmt.Errorf("runtime: resources config is nil")
	}
	if c.Resources.SampleInterval <= 0 {
		return fmt.Errorf("runtime: resources.sample_interval must be positive")
	}
	if c.Resources.RetainSamples <= 0 {
		return fmt.Errorf("runtime: resources.retain_samples must be positive")
	}
	if c.Readability == nil {
		return fmt.Errorf("runtime: readability config is nil")
	}
	if c.Readability.MinFleschReadingEase < 0 || c.Readability.MinFleschReadingEase > 100 {
		return fmt.Errorf("runtime: readability.min_flesch_reading_ease out of [0,100]")
	}
	if c.Readability.MaxAvgSentenceWords <= 0 {
		return fmt.Errorf("runtime: readability.max_avg_sentence_words must be positive")
	}
	return nil
}
