package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/intrusion-alarm/internal/service/initconfig"
)

var (
	// outputPath is the starter settings file to create.
	outputPath string
	// force overwrites an existing settings file.
	force bool

	// initConfigCmd writes the built-in settings as an editable file.
	initConfigCmd = &cobra.Command{
		Use:   "init-config",
		Short: "Write a starter settings file.",
		Long: `Writes the built-in pin map, threshold and timings to a YAML file.

Edit the file for the wiring of your board and pass it to the controller
with --config. An existing file is kept unless --force is given.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			options := &initconfig.Options{
				OutputPath: outputPath,
				Force:      force,
			}

			return initconfig.Run(cmd.Context(), options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	initConfigCmd.Flags().StringVarP(&outputPath, "output", "o", initconfig.DefaultOutputPath, "path of the settings file to write")
	initConfigCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
}
