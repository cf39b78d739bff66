package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/tailored-agentic-units/listmonitor/diff"
	"github.com/tailored-agentic-units/listmonitor/sdn"
)

const listTitle = "US - OFAC Specially Designated Nationals (SDN) List"

var (
	headline = color.New(color.Bold)
	added    = color.New(color.FgGreen)
	removed  = color.New(color.FgRed)
	modified = color.New(color.FgYellow)
)

func printStart(w io.Writer, source string, at time.Time) {
	headline.Fprintf(w, "MONITORING START - %s %s\n", listTitle, at.Format(time.RFC3339))
	fmt.Fprintf(w, " source: %s\n", source)
}

func printUpdate(w io.Writer, s diff.Summary, at time.Time) {
	headline.Fprintf(w, "LIST UPDATED - %s %s\n", listTitle, at.Format(time.RFC3339))
	fmt.Fprintf(w, " %s\n", s)
}

func printChangeSet(w io.Writer, cs *diff.ChangeSet[*sdn.Entry]) {
	for _, e := range cs.Added {
		added.Fprintf(w, "+ %d %s (%s)\n", e.UID, e.Name(), e.SDNType)
	}
	for _, e := range cs.Modified {
		modified.Fprintf(w, "~ %d %s (%s)\n", e.UID, e.Name(), e.SDNType)
	}
	for _, e := range cs.Removed {
		removed.Fprintf(w, "- %d %s (%s)\n", e.UID, e.Name(), e.SDNType)
	}
	fmt.Fprintf(w, "%s\n", cs.Summary())
}
