package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/visualnotes/visualnotes/pkg/errors"
	vnio "github.com/visualnotes/visualnotes/pkg/io"
	"github.com/visualnotes/visualnotes/pkg/whiteboard"
)

// newCommand creates the new command.
func (c *CLI) newCommand() *cobra.Command {
	var title string
	var sample, force bool

	cmd := &cobra.Command{
		Use:   "new <scene.json>",
		Short: "Create a scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidPath, "%s exists (use --force to overwrite)", path)
			}

			scene := whiteboard.Scene{Title: whiteboard.DefaultTitle, Viewport: whiteboard.NewViewport()}
			if sample {
				scene = vnio.Sample()
			}
			if title != "" {
				if err := errors.ValidateTitle(title); err != nil {
					return err
				}
				scene.Title = title
			}
			if err := vnio.ExportJSON(path, scene); err != nil {
				return err
			}

			p := c.printer()
			p.success("Created %s", path)
			p.board(scene)
			p.nextStep("Edit it", "visualnotes board "+path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "board title")
	cmd.Flags().BoolVar(&sample, "sample", false, "start from the sample board")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}
