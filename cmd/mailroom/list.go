package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() (listCmd *cobra.Command) {
	listCmd = &cobra.Command{
		Use:   "list [flags] program",
		Short: "Print the canonical listing of a program.",
		Long: `Assemble a program (or standard input for "-") and print it with
aliases resolved, labels flush left, and instructions indented.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			aliases, err := mergeAliases(nil, getStringArray(cmd, "alias"))
			if err != nil {
				return
			}

			prog, err := readProgram(cmd, args[0], aliases)
			if err != nil {
				return
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), prog.String())
			return
		},
	}

	return
}
