package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// batteryConfig describes a set of questions to sample, loaded from a
// small YAML file. This loader lives entirely outside the engine core;
// collect itself takes no config file, only constructed Go values.
type batteryConfig struct {
	Questions []questionConfig `yaml:"questions"`
}

type questionConfig struct {
	ID       string             `yaml:"id"`
	Prompt   string             `yaml:"prompt"`
	Type     string             `yaml:"type"`     // numerical | boolean | categorical
	Stopping string             `yaml:"stopping"` // standard | relaxed
	Units    map[string]float64 `yaml:"units,omitempty"`
	Options  []string           `yaml:"options,omitempty"`
}

func loadBattery(path string) (*batteryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading battery file: %w", err)
	}
	var cfg batteryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing battery file: %w", err)
	}
	return &cfg, nil
}
