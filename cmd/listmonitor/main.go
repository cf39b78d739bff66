// Command listmonitor watches the OFAC Specially Designated Nationals list
// and reports entries added, modified, or removed between fetches.
//
//	listmonitor run --source https://www.treasury.gov/ofac/downloads/sdn.xml
//	listmonitor diff old.xml new.xml
//	listmonitor status --addr localhost:9090
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	exitSuccess = 0
	exitError   = 1
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "listmonitor",
		Short:         "Monitor the OFAC SDN list for changes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("verbose", false, "enable debug logging")

	root.AddCommand(
		newRunCmd(),
		newDiffCmd(),
		newStatusCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "listmonitor: %v\n", err)
		os.Exit(exitError)
	}
	os.Exit(exitSuccess)
}
