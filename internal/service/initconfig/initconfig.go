package initconfig

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/oshokin/intrusion-alarm/internal/config"
	"github.com/oshokin/intrusion-alarm/internal/logger"
)

// DefaultOutputPath is where the starter file is written when no path is given.
const DefaultOutputPath = "settings.yaml"

// ErrFileExists is returned when the output exists and overwriting was not requested.
var ErrFileExists = errors.New("settings file already exists")

// Options controls where the starter settings are written.
type Options struct {
	// OutputPath is the settings file to create.
	OutputPath string
	// Force overwrites an existing file.
	Force bool
}

// Run writes the built-in settings to opts.OutputPath.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "init-config")

	path := opts.OutputPath
	if path == "" {
		path = DefaultOutputPath
	}

	if !opts.Force {
		_, err := os.Stat(path)
		if err == nil {
			return fmt.Errorf("%s: %w", path, ErrFileExists)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("check settings file: %w", err)
		}
	}

	if err := config.Save(path, config.Default()); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	logger.InfoKV(ctx, "Settings written", "path", path)
	logger.Infof(ctx, "Edit the pin map if needed, then run: intrusion-alarm --config %s", path)

	return nil
}
