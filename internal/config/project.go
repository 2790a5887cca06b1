package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rshade/uistate/internal/logging"
)

// EnvProjectDir names the directory whose .uistate.yaml overlays the loaded config.
const EnvProjectDir = "UISTATE_PROJECT_DIR"

// ResolveProjectDir determines the directory holding the project overlay.
// It checks (in order):
//  1. flagValue (--project-dir CLI flag)
//  2. UISTATE_PROJECT_DIR env var
//  3. the nearest of startDir and its parents that contains .uistate.yaml
//
// Returns an absolute path, or "" when no project is found.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbs(ctx, flagValue)
	}

	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbs(ctx, envDir)
	}

	if startDir == "" {
		return ""
	}
	return findOverlayDir(toAbs(ctx, startDir))
}

// findOverlayDir walks up from dir until it finds ProjectOverlayName.
func findOverlayDir(dir string) string {
	for {
		if info, err := os.Stat(filepath.Join(dir, ProjectOverlayName)); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func toAbs(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		return dir
	}
	return abs
}
