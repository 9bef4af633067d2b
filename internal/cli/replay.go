package cli

import (
	"context"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	vnio "github.com/visualnotes/visualnotes/pkg/io"
	"github.com/visualnotes/visualnotes/pkg/replay"
	"github.com/visualnotes/visualnotes/pkg/whiteboard"
)

// replayCommand creates the replay command.
func (c *CLI) replayCommand() *cobra.Command {
	var output string
	var check bool

	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Run a replay script and write the resulting scene",
		Long: `Replay pointer, tool and edit steps from a YAML script on a new board and
write the resulting scene JSON. Without -o the scene is printed to stdout.
With --check the script is only validated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := replay.Load(args[0])
			if err != nil {
				return err
			}
			if check {
				c.printer().success("%s: %d steps", args[0], len(script.Steps))
				return nil
			}
			return c.runReplay(cmd.Context(), script, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "scene file to write (default stdout)")
	cmd.Flags().BoolVar(&check, "check", false, "validate the script without running it")

	return cmd
}

// runReplay plays the script and saves the board through the file saver,
// the same path the editors use.
func (c *CLI) runReplay(ctx context.Context, script *replay.Script, output string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	if output == "" || output == "-" {
		scene, err := c.play(ctx, script)
		if err != nil {
			return err
		}
		return vnio.WriteJSON(c.out, scene)
	}

	board, err := script.NewBoard(
		whiteboard.WithLogger(c.Logger),
		whiteboard.WithSaver(vnio.FileSaver{Path: output}),
	)
	if err != nil {
		return err
	}
	defer board.Close()

	if err := replay.Run(ctx, board, script, replay.WithLogger(c.Logger)); err != nil {
		return err
	}
	prog.stage("played script", "steps", len(script.Steps))

	spin := newSpinner(ctx, os.Stderr, "Saving "+output)
	spin.Start()
	err = board.Save(ctx).Wait()
	spin.Stop()
	if err != nil {
		return err
	}

	prog.done("Replayed "+pluralSteps(len(script.Steps)), "output", output)
	p := c.printer()
	p.success("Saved %s", output)
	p.board(board.Scene())
	p.nextStep("Render it", "visualnotes render "+output)
	return nil
}

func pluralSteps(n int) string {
	if n == 1 {
		return "1 step"
	}
	return strconv.Itoa(n) + " steps"
}
