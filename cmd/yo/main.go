// Command yo is a minimal demonstration shell that wires a raw-mode line
// editor to the public github.com/pizlonator/yo library. It exists to make
// the module a runnable program, not just a library; a real integration
// would plug its own line editor into package yo the same way.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pizlonator/yo"
	"github.com/pizlonator/yo/internal/activitylog"
	"github.com/pizlonator/yo/internal/scrollback"
)

var (
	noScrollback bool
	docsPath     string
	logPath      string
	systemPrompt string
)

const defaultSystemPrompt = "You are yo, a shell assistant embedded in an interactive terminal session. " +
	"The user's input beginning with `yo ` is their request to you."

func main() {
	if scrollback.IsPumpChild() {
		os.Exit(scrollback.RunPump())
	}

	root := &cobra.Command{
		Use:     "yo",
		Short:   "A shell assistant that turns `yo <request>` into a suggested command or a chat reply",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	root.Flags().BoolVar(&noScrollback, "no-scrollback", false, "disable the PTY scrollback proxy")
	root.Flags().StringVar(&docsPath, "docs", "", "path to documentation text the `docs` tool can return")
	root.Flags().StringVar(&logPath, "log", "", "path to a JSON-lines activity log")
	root.Flags().StringVar(&systemPrompt, "system-prompt", defaultSystemPrompt, "base system prompt describing this shell's environment to the assistant")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// version is overridden at build time with -ldflags.
var version = "dev"

func run() error {
	ed := newTermEditor()
	yo.Init(ed)
	yo.SetSystemPrompt(systemPrompt)

	if logPath != "" {
		yo.SetLogger(activitylog.New(true, logPath))
		defer yo.CloseLogger()
	}
	if docsPath != "" {
		text, err := os.ReadFile(docsPath)
		if err != nil {
			return fmt.Errorf("read docs file: %w", err)
		}
		yo.SetDocs(string(text))
	}

	// Enable before entering raw mode: on a successful split this
	// process's stdio is redirected onto the PTY slave, so raw mode
	// must be set on the descriptors the shell role ends up with.
	if !noScrollback {
		if err := yo.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "scrollback proxy disabled: %v\n", err)
		}
		defer yo.Disable()
	}

	if err := ed.enableRawMode(); err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer ed.disableRawMode()

	return replLoop(ed)
}
