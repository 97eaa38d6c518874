package main

import (
	"fmt"

	"github.com/pizlonator/yo"
)

// replLoop is the demonstration shell's read-eval loop: read a line, run
// any armed pre-prompt hook, let the library intercept `yo ` lines, and
// execute whatever ends up in the buffer otherwise.
func replLoop(ed *termEditor) error {
	fmt.Print("yo — type a command, or `yo <request>` to ask the assistant. Ctrl+D to exit.\r\n")

	for {
		ed.runPrePromptHook()

		line, result := ed.readLine()
		switch result {
		case readEOF:
			fmt.Print("\r\n")
			return nil
		case readInterrupted:
			yo.HandleSIGINT()
			continue
		}

		if yo.AcceptLine(line) {
			// The assistant prefilled or emptied the buffer; let the
			// user review/edit it at the next prompt instead of running
			// it immediately.
			continue
		}
		if line == "" {
			continue
		}

		ed.disableRawMode()
		execLine(line)
		if err := ed.enableRawMode(); err != nil {
			return fmt.Errorf("restore raw mode: %w", err)
		}
	}
}
