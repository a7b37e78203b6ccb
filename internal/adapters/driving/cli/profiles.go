package cli

import (
	"errors"
	"sort"

	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List available profiles",
	Long: `Profiles are env files under profiles/ in the stack directory. A
profile overlays the base configuration key by key; an explicitly
empty value in a profile wins over the base value.`,
	RunE: runProfilesList,
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one profile's values",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesShow,
}

func init() {
	profilesCmd.AddCommand(profilesShowCmd)
	rootCmd.AddCommand(profilesCmd)
}

func runProfilesList(cmd *cobra.Command, _ []string) error {
	if inspectorService == nil {
		return errors.New("config service not configured")
	}

	profiles, err := inspectorService.Profiles()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		cmd.Println("No profiles found.")
		return nil
	}
	for _, p := range profiles {
		cmd.Printf("%-20s %d overrides\n", p.Name, len(p.Values))
	}
	return nil
}

func runProfilesShow(cmd *cobra.Command, args []string) error {
	if inspectorService == nil {
		return errors.New("config service not configured")
	}

	profile, err := inspectorService.Profile(args[0])
	if err != nil {
		return err
	}

	cmd.Printf("# %s\n", profile.Path)
	keys := make([]string, 0, len(profile.Values))
	for k := range profile.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cmd.Printf("%s=%s\n", k, profile.Values[k])
	}
	return nil
}
