package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/visualnotes/visualnotes/pkg/buildinfo"
)

// versionCommand creates the version command.
func (c *CLI) versionCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := buildinfo.Get()
			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			commit := info.Commit
			if info.Dirty {
				commit += " (modified)"
			}
			p := c.printer()
			p.keyValue("version", info.Version)
			p.keyValue("commit ", commit)
			p.keyValue("built  ", info.Date)
			p.keyValue("go     ", info.Go)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
