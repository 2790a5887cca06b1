package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectOverlayName is the per-directory file merged over the loaded config.
const ProjectOverlayName = ".uistate.yaml"

// Top-level YAML config key names used for shallow merge.
const (
	keyBatch   = "batch"
	keyLogging = "logging"
	keyCounter = "counter"
)

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// target. A section present in the overlay replaces the whole section in
// target, with fields it omits taken from Default; absent sections and
// unknown keys are left alone.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if err = mergeSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// MergeProjectOverlay applies dir/.uistate.yaml when it exists and validates
// the result. It reports whether an overlay was applied.
func MergeProjectOverlay(target *Config, dir string) (bool, error) {
	applied, err := mergeOverlay(target, dir)
	if err != nil || !applied {
		return applied, err
	}
	return true, target.Validate()
}

func mergeOverlay(target *Config, dir string) (bool, error) {
	path := filepath.Join(dir, ProjectOverlayName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	if err := ShallowMergeYAML(target, path); err != nil {
		return false, fmt.Errorf("loading project config: %w", err)
	}
	return true, nil
}

// mergeSection decodes node onto the default section so the section is
// replaced, not merged field by field with target.
func mergeSection(target *Config, key string, node *yaml.Node) error {
	defaults := Default()
	switch key {
	case keyBatch:
		v := defaults.Batch
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Batch = v
	case keyLogging:
		v := defaults.Logging
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	case keyCounter:
		v := defaults.Counter
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Counter = v
	}
	return nil
}
