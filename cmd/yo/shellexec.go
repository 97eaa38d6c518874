package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
)

// execTimeout bounds how long a single command may run; exposed as a var
// so it can be tuned without touching call sites.
var execTimeout = 10 * time.Minute

// shellMetachars is the set of bytes that mean "this line needs an actual
// shell to interpret" (pipes, redirection, substitution, globbing, quoting,
// background jobs, sequencing).
const shellMetachars = "|&;<>(){}$`*?[]~'\"\\\n"

// execLine runs s as a shell command with the real terminal's stdio, the
// way an actual interactive shell would. Plain argv-style lines are split
// with shlex and run directly (exec.LookPath + shlex.Split +
// exec.CommandContext), avoiding a subshell for the common case; anything
// using shell syntax falls back to `$SHELL -c` since this REPL's own line
// buffer is not a full shell grammar.
func execLine(s string) {
	if s == "" {
		return
	}

	var cmd *exec.Cmd
	ctx, cancel := context.WithTimeout(context.Background(), execTimeout)
	defer cancel()

	if strings.ContainsAny(s, shellMetachars) {
		shell := os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/sh"
		}
		cmd = exec.CommandContext(ctx, shell, "-c", s)
	} else {
		argv, err := shlex.Split(s)
		if err != nil || len(argv) == 0 {
			fmt.Fprintf(os.Stderr, "\r\ninvalid command: %v\r\n", err)
			return
		}
		path, err := exec.LookPath(argv[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "\r\n%s: command not found\r\n", argv[0])
			return
		}
		cmd = exec.CommandContext(ctx, path, argv[1:]...)
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			fmt.Fprintf(os.Stderr, "\r\ncommand timed out after %s\r\n", execTimeout)
			return
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			fmt.Fprintf(os.Stderr, "\r\nexit %d\r\n", exitErr.ExitCode())
			return
		}
		fmt.Fprintf(os.Stderr, "\r\n%v\r\n", err)
	}
}
