package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/visualnotes/visualnotes/pkg/pipeline"
	"github.com/visualnotes/visualnotes/pkg/whiteboard/display"
)

// completionCommand prints a completion script for one shell.
func (c *CLI) completionCommand() *cobra.Command {
	generators := map[string]func(root *cobra.Command, w io.Writer) error{
		"bash":       func(r *cobra.Command, w io.Writer) error { return r.GenBashCompletionV2(w, true) },
		"zsh":        func(r *cobra.Command, w io.Writer) error { return r.GenZshCompletion(w) },
		"fish":       func(r *cobra.Command, w io.Writer) error { return r.GenFishCompletion(w, true) },
		"powershell": func(r *cobra.Command, w io.Writer) error { return r.GenPowerShellCompletionWithDesc(w) },
	}

	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for the given shell. Formats, themes and
scene or script files are completed along with commands and flags.

  bash:        source <(visualnotes completion bash)
  zsh:         visualnotes completion zsh > "${fpath[1]}/_visualnotes"
  fish:        visualnotes completion fish | source
  powershell:  visualnotes completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generators[args[0]](cmd.Root(), c.out)
		},
	}
}

// sceneFileExts are the inputs board, render and replay accept.
var sceneFileExts = []string{"json", "yaml", "yml"}

// registerCompletions attaches value completion to every command under
// root that takes a theme, a format or a scene file.
func registerCompletions(root *cobra.Command) {
	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		if cmd.Flags().Lookup("theme") != nil {
			_ = cmd.RegisterFlagCompletionFunc("theme", completeThemes)
		}
		if cmd.Flags().Lookup("format") != nil {
			_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
		}
		switch cmd.Name() {
		case "render", "replay", "board":
			cmd.ValidArgsFunction = completeSceneFiles
		}
		for _, sub := range cmd.Commands() {
			walk(sub)
		}
	}
	walk(root)
}

func completeThemes(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, t := range display.Themes() {
		names = append(names, t.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeFormats completes the last entry of a comma-separated list and
// skips formats already listed.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done, _ := splitLast(toComplete)
	chosen := make(map[string]bool)
	for _, f := range strings.Split(done, ",") {
		chosen[f] = true
	}

	var out []string
	for _, f := range pipeline.FormatNames() {
		if chosen[f] {
			continue
		}
		if done != "" {
			f = done + "," + f
		}
		out = append(out, f)
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// splitLast splits "svg,pn" into "svg" and "pn".
func splitLast(list string) (head, last string) {
	i := strings.LastIndexByte(list, ',')
	if i < 0 {
		return "", list
	}
	return list[:i], list[i+1:]
}

func completeSceneFiles(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return sceneFileExts, cobra.ShellCompDirectiveFilterFileExt
}
