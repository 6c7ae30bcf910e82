package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	logs "github.com/danmuck/smplog"

	"github.com/nikitakosatka/toposim/pkg/config"
	"github.com/nikitakosatka/toposim/pkg/topology"
)

var errMenuExit = errors.New("menu exit")

func isQuit(choice string) bool {
	switch strings.ToLower(choice) {
	case "q", "quit", "exit":
		return true
	}
	return false
}

// readLine returns the next trimmed input line. End of input before any text
// counts as leaving the menu.
func (d *driver) readLine() (string, error) {
	line, err := d.reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil {
		if err == io.EOF {
			if line == "" {
				return "", errMenuExit
			}
			return line, nil
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return line, nil
}

func needsInput(what string) error {
	return fmt.Errorf("%w: %s is required in non-interactive mode", config.ErrInvalidConfig, what)
}

func (d *driver) selectTopology() (topology.Kind, error) {
	kind, err := d.settings.Kind()
	if err != nil {
		return 0, err
	}
	if kind != 0 {
		return kind, nil
	}
	if d.settings.NonInteractive {
		return 0, needsInput("topology")
	}

	for {
		logs.Printf("\n")
		logs.Titlef("--[ toposim | network topologies ]--\n\n")
		for _, k := range topology.Kinds {
			logs.Menuf("  %d. %s\n", int(k), k.Label())
		}
		logs.Printf("\n")
		logs.Menuf("  q. exit\n")
		logs.Printf("\n")
		logs.DividerRune(0, '=')
		logs.Promptf("\nChoose topology (1-%d): ", len(topology.Kinds))

		choice, err := d.readLine()
		if err != nil {
			return 0, err
		}
		if isQuit(choice) {
			return 0, errMenuExit
		}

		kind, err := topology.ParseKind(choice)
		if err != nil {
			logs.StatusWarn(fmt.Sprintf("Invalid option %q, choose a number between 1 and %d.", choice, len(topology.Kinds)))
			logs.Printf("\n")
			continue
		}
		return kind, nil
	}
}

func (d *driver) selectNodeCount(kind topology.Kind) (int, error) {
	if n := d.settings.Nodes; n != 0 {
		err := config.ValidateNodeCount(kind, n)
		if err == nil {
			return n, nil
		}
		if d.settings.NonInteractive {
			return 0, err
		}
		logs.StatusWarn(fmt.Sprintf("Configured node count rejected: %v", err))
		logs.Printf("\n")
	} else if d.settings.NonInteractive {
		return 0, needsInput("node count")
	}

	for {
		logs.Promptf("Number of nodes for the %s: ", kind.Label())

		choice, err := d.readLine()
		if err != nil {
			return 0, err
		}
		if isQuit(choice) {
			return 0, errMenuExit
		}

		n, err := strconv.Atoi(choice)
		if err != nil {
			logs.StatusWarn(fmt.Sprintf("%q is not a number.", choice))
			logs.Printf("\n")
			continue
		}
		if err := config.ValidateNodeCount(kind, n); err != nil {
			logs.StatusWarn(err.Error())
			logs.Printf("\n")
			continue
		}
		return n, nil
	}
}
