package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var completionInstall bool

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Set up shell completions for topt",
	Long: `Set up shell tab-completions for topt commands, flags, and arguments.
Task names, energy levels, task types, and tags complete from your saved
task list.

Supported shells: bash, zsh, fish, powershell

Quick install (adds completions to your shell profile):

  topt completion bash --install
  topt completion zsh --install
  topt completion fish --install

Or print the completion script to stdout (for manual setup):

  topt completion bash
  topt completion zsh
  topt completion fish
  topt completion powershell`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MaximumNArgs(1),
	RunE:      runCompletion,
}

func init() {
	completionCmd.Flags().BoolVar(&completionInstall, "install", false,
		"Install completions into your shell profile")

	// Remove Cobra's default completion command and add ours.
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(completionCmd)
}

// shellCompletion describes how to generate and install completions for
// one shell. installPath is empty when automatic install is unsupported.
type shellCompletion struct {
	generate    func(w io.Writer) error
	loadHint    string
	installPath func(home string) string
	afterNotes  func(target string) []string
}

var shellCompletions = map[string]shellCompletion{
	"bash": {
		generate: func(w io.Writer) error { return rootCmd.GenBashCompletionV2(w, true) },
		loadHint: `eval "$(topt completion bash)"`,
		// User-local path, picked up by bash-completion >= 2.0 without root.
		installPath: func(home string) string {
			return filepath.Join(home, ".local", "share", "bash-completion", "completions", "topt")
		},
		afterNotes: func(target string) []string {
			return []string{"Restart your shell or run: source " + target}
		},
	},
	"zsh": {
		generate: func(w io.Writer) error { return rootCmd.GenZshCompletion(w) },
		loadHint: `eval "$(topt completion zsh)"`,
		installPath: func(home string) string {
			return filepath.Join(home, ".local", "share", "zsh", "site-functions", "_topt")
		},
		afterNotes: func(target string) []string {
			return []string{
				"",
				"Ensure this directory is in your fpath. Add to ~/.zshrc if needed:",
				fmt.Sprintf("  fpath=(%s $fpath)", filepath.Dir(target)),
				"  autoload -Uz compinit && compinit",
			}
		},
	},
	"fish": {
		generate: func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
		loadHint: "topt completion fish | source",
		installPath: func(home string) string {
			return filepath.Join(home, ".config", "fish", "completions", "topt.fish")
		},
		afterNotes: func(string) []string {
			return []string{"Completions will be available in new fish sessions automatically."}
		},
	},
	"powershell": {
		generate: func(w io.Writer) error { return rootCmd.GenPowerShellCompletionWithDesc(w) },
		loadHint: "topt completion powershell | Out-String | Invoke-Expression",
	},
}

func runCompletion(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	shell := args[0]
	sc, ok := shellCompletions[shell]
	if !ok {
		return fmt.Errorf("unsupported shell %q (supported: bash, zsh, fish, powershell)", shell)
	}

	if completionInstall {
		return installCompletion(shell, sc)
	}

	// Usage hints go to stderr so that eval "$(topt completion bash)" only
	// sees the script.
	hints := []string{
		"# To load completions in your current session:",
		"#   " + sc.loadHint,
		"#",
	}
	if sc.installPath != nil {
		hints = append(hints, "# To install permanently:", "#   topt completion "+shell+" --install", "#")
	} else {
		hints = append(hints, "# Add the above command to your profile to load it permanently.", "#")
	}
	printHints(cmd, hints...)
	return sc.generate(cmd.OutOrStdout())
}

func printHints(cmd *cobra.Command, lines ...string) {
	w := cmd.OutOrStderr()
	for _, line := range lines {
		_, _ = fmt.Fprintln(w, line)
	}
}

func installCompletion(shell string, sc shellCompletion) error {
	if sc.installPath == nil {
		return fmt.Errorf("automatic install is not supported for %s; run 'topt completion %s' and add the output to your profile", shell, shell)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("detecting home directory: %w", err)
	}
	target := sc.installPath(home)
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("creating completion directory: %w", err)
	}
	if err := writeCompletionFile(target, sc.generate); err != nil {
		return err
	}

	fmt.Printf("%s completions installed to %s\n", shell, target)
	for _, line := range sc.afterNotes(target) {
		fmt.Println(line)
	}
	return nil
}

// writeCompletionFile creates target and lets gen write the script into it,
// reporting close errors as well as write errors.
func writeCompletionFile(target string, gen func(io.Writer) error) error {
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating completion file %s: %w", target, err)
	}

	writeErr := gen(f)
	closeErr := f.Close()

	if writeErr != nil {
		return writeErr
	}
	if closeErr != nil {
		return fmt.Errorf("closing completion file %s: %w", target, closeErr)
	}
	return nil
}
