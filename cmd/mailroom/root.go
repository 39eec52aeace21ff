package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ezrec/mailroom/internal"
	"github.com/ezrec/mailroom/translate"
	"github.com/ezrec/mailroom/worker"
)

var f = translate.From

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:   "mailroom",
		Short: "Run mailroom programs against puzzle levels.",
		Long: `Assemble mailroom programs, list them in canonical form, and run
them against a level's inbox, checking the outbox against the expected output.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if getFlag(cmd, "verbose") {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().StringArrayP("alias", "a", nil, "floor alias as name=address")

	rootCmd.AddCommand(newRunCmd(), newListCmd())

	return
}

func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		log.Fatal(err)
	}
	return r
}

func getString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		log.Fatal(err)
	}
	return r
}

func getStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		log.Fatal(err)
	}
	return r
}

func getUint64(cmd *cobra.Command, flag string) uint64 {
	r, err := cmd.Flags().GetUint64(flag)
	if err != nil {
		log.Fatal(err)
	}
	return r
}

func getInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		log.Fatal(err)
	}
	return r
}

// parseAliases parses name=address pairs.
func parseAliases(pairs []string) (aliases map[string]int, err error) {
	aliases = map[string]int{}
	for _, pair := range pairs {
		name, addr, ok := strings.Cut(pair, "=")
		if !ok || len(name) == 0 {
			err = fmt.Errorf("%v: '%v'", f("alias must be name=address"), pair)
			return
		}
		aliases[name], err = strconv.Atoi(addr)
		if err != nil {
			err = fmt.Errorf("%v: '%v'", f("alias must be name=address"), pair)
			return
		}
	}
	return
}

// mergeAliases layers the command line aliases over the base aliases.
func mergeAliases(base map[string]int, pairs []string) (aliases map[string]int, err error) {
	extra, err := parseAliases(pairs)
	if err != nil {
		return
	}

	aliases = map[string]int{}
	for name, addr := range internal.IterSeq2Concat(maps.All(base), maps.All(extra)) {
		aliases[name] = addr
	}

	return
}

// readProgram assembles a program file, or standard input for "-".
func readProgram(cmd *cobra.Command, path string, aliases map[string]int) (prog *worker.Program, err error) {
	var inf io.Reader
	if path == "-" {
		inf = cmd.InOrStdin()
	} else {
		var file *os.File
		file, err = os.Open(path)
		if err != nil {
			return
		}
		defer file.Close()
		inf = file
	}

	asm := &worker.Assembler{
		Verbose: getFlag(cmd, "verbose"),
	}
	for name, addr := range internal.SortedAll(aliases) {
		asm.Alias(name, addr)
	}

	prog, err = asm.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}

	return
}

// isTerminal reports if the writer is an interactive terminal.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
