package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ezrec/mailroom/level"
	"github.com/ezrec/mailroom/machine"
	"github.com/ezrec/mailroom/value"
)

const (
	COLOR_OK    = "\033[1;32m"
	COLOR_FAIL  = "\033[1;31m"
	COLOR_RESET = "\033[0m"
)

func newRunCmd() (runCmd *cobra.Command) {
	runCmd = &cobra.Command{
		Use:   "run [flags] program",
		Short: "Run a program against a level.",
		Long: `Assemble a program (or standard input for "-"), run it against the
level's inbox, and check the outbox against the level's expected output.
The exit status is non-zero unless the run succeeds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			lvl, err := runLevel(cmd)
			if err != nil {
				return
			}

			aliases, err := mergeAliases(lvl.Aliases, getStringArray(cmd, "alias"))
			if err != nil {
				return
			}

			prog, err := readProgram(cmd, args[0], aliases)
			if err != nil {
				return
			}

			m := machine.NewMachine()
			m.Verbose = getFlag(cmd, "verbose")
			m.Program = prog
			m.StepLimit = getInt(cmd, "limit")
			lvl.Apply(m)

			res := m.Run()

			out := cmd.OutOrStdout()
			if getFlag(cmd, "trace") {
				err = writeTrace(out, &res)
			} else {
				writeSummary(out, lvl, &res, isTerminal(out))
			}
			if err != nil {
				return
			}

			return res.Err()
		},
	}

	runCmd.Flags().StringP("level", "l", "", "level file (.yaml, .yml or .star)")
	runCmd.Flags().String("inbox", "", "comma separated inbox, replacing the level's")
	runCmd.Flags().String("expect", "", "comma separated expected outbox, replacing the level's")
	runCmd.Flags().Uint64("seed", 0, "seed for Starlark levels")
	runCmd.Flags().Int("limit", machine.STEP_LIMIT, "step limit")
	runCmd.Flags().Bool("trace", false, "write the full run record as YAML")

	return
}

// parseValues parses a comma separated list of values.
func parseValues(text string) (items []value.Value, err error) {
	items = []value.Value{}
	if len(strings.TrimSpace(text)) == 0 {
		return
	}

	for _, word := range strings.Split(text, ",") {
		var item value.Value
		item, err = value.Parse(strings.TrimSpace(word))
		if err != nil {
			return
		}
		items = append(items, item)
	}

	return
}

// runLevel loads the level, and applies the inbox and expected overrides.
func runLevel(cmd *cobra.Command) (lvl *level.Level, err error) {
	path := getString(cmd, "level")
	if len(path) != 0 {
		opts := level.Options{
			Verbose: getFlag(cmd, "verbose"),
			Seed:    getUint64(cmd, "seed"),
		}
		lvl, err = opts.Load(os.DirFS(filepath.Dir(path)), filepath.Base(path))
		if err != nil {
			return
		}
	} else {
		lvl = &level.Level{Name: "-"}
	}

	if cmd.Flags().Changed("inbox") {
		lvl.Inbox, err = parseValues(getString(cmd, "inbox"))
		if err != nil {
			return
		}
	}

	if cmd.Flags().Changed("expect") {
		lvl.Expected, err = parseValues(getString(cmd, "expect"))
		if err != nil {
			return
		}
	}

	log.Debugf("mailroom: level %v", lvl.Name)

	return
}

func writeTrace(out io.Writer, res *machine.Result) (err error) {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)

	err = enc.Encode(res)
	if err != nil {
		return
	}

	return enc.Close()
}

func writeSummary(out io.Writer, lvl *level.Level, res *machine.Result, color bool) {
	status := res.Status.String()
	if color {
		if res.Status == machine.STATUS_OK {
			status = COLOR_OK + status + COLOR_RESET
		} else {
			status = COLOR_FAIL + status + COLOR_RESET
		}
	}

	outbox := make([]string, len(res.Outbox))
	for n, item := range res.Outbox {
		outbox[n] = item.String()
	}

	fmt.Fprintf(out, "% 8s: %v\n", "level", lvl.Name)
	fmt.Fprintf(out, "% 8s: %v\n", "status", status)
	fmt.Fprintf(out, "% 8s: %v\n", "outcome", res.Outcome)
	fmt.Fprintf(out, "% 8s: %d\n", "lines", res.Lines)
	fmt.Fprintf(out, "% 8s: %d\n", "steps", res.Steps)
	fmt.Fprintf(out, "% 8s: %v\n", "outbox", strings.Join(outbox, " "))
}
