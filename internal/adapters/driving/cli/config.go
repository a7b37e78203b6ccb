package cli

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bunker-stack/bunkerctl/internal/adapters/driven/envfile"
	"github.com/bunker-stack/bunkerctl/internal/core/domain"
)

var flagConfigRaw bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the resolved stack configuration",
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Prints the merged configuration: defaults, base env file, profile
overlay, process environment. Secrets (master key, database password,
hub token) are omitted. Use --raw to print the full merged KEY=VALUE
set instead, secrets included.`,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the configuration file locations",
	RunE:  runConfigPath,
}

func init() {
	configShowCmd.Flags().BoolVar(&flagConfigRaw, "raw", false,
		"print the merged KEY=VALUE set, secrets included")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if inspectorService == nil {
		return errors.New("config service not configured")
	}

	cfg, raw, err := inspectorService.Effective(flagProfile)
	if err != nil {
		return err
	}

	if flagConfigRaw {
		for _, kv := range domain.SortedEnviron(raw) {
			cmd.Println(kv)
		}
		return nil
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	cmd.Print(string(out))
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	cmd.Printf("stack dir:  %s\n", harnessSettings.StackDir)
	cmd.Printf("base env:   %s\n", filepath.Join(harnessSettings.StackDir, envfile.BaseFileName))
	cmd.Printf("profiles:   %s\n", filepath.Join(harnessSettings.StackDir, envfile.ProfilesDirName))
	cmd.Printf("compose:    %s\n", filepath.Join(harnessSettings.StackDir, harnessSettings.ComposeFile))
	return nil
}
