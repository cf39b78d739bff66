package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/listmonitor/diff"
	"github.com/tailored-agentic-units/listmonitor/sdn"
)

func newDiffCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "diff <old.xml> <new.xml>",
		Short: "Compare two SDN.xml documents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			old, err := sdn.LoadFile(ctx, args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			latest, err := sdn.LoadFile(ctx, args[1])
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}

			cs, err := diff.Diff[int, *sdn.Entry](ctx, old, latest, sdn.Equal)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(cs)
			}
			printChangeSet(out, cs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the change set as JSON")
	return cmd
}
