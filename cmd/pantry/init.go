// Init command for the pantry CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize pantry storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Resolve config directory (flag > env > default) and ensure it
		// exists with a default config.yaml.
		configDir, err := resolveConfigDir()
		if err != nil {
			return sysErrorf("init: %w", err)
		}
		if err := ensureConfigDir(configDir); err != nil {
			return sysErrorf("init: %w", err)
		}
		if err := ensureDefaultConfigFile(configDir); err != nil {
			return sysErrorf("init: %w", err)
		}

		// Attach the backend (creates the data directory on Attach).
		backend, err := attachBackend()
		if err != nil {
			return sysErrorf("init: %w", err)
		}
		defer backend.Detach()

		dataDir, err := resolveDataDir()
		if err != nil {
			return sysErrorf("init: %w", err)
		}

		fmt.Println("Pantry initialized successfully")
		fmt.Println("  config:", configDir)
		fmt.Println("  data:  ", dataDir)
		return nil
	},
}
