package commands

import (
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"
)

// Version information (can be overridden at build time with -ldflags)
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// Version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "neon version %s\n", Version)

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	var vcsRevision, vcsTime, vcsModified string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			vcsRevision = setting.Value
		case "vcs.time":
			vcsTime = setting.Value
		case "vcs.modified":
			vcsModified = setting.Value
		}
	}

	if Commit != "unknown" {
		fmt.Fprintf(w, "commit: %s\n", Commit)
	} else if vcsRevision != "" {
		if len(vcsRevision) > 12 {
			vcsRevision = vcsRevision[:12]
		}
		fmt.Fprintf(w, "commit: %s\n", vcsRevision)
	}

	if Date != "unknown" {
		fmt.Fprintf(w, "built: %s\n", Date)
	} else if vcsTime != "" {
		if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
			fmt.Fprintf(w, "commit date: %s\n", t.Format("2006-01-02 15:04:05 MST"))
		}
	}

	if vcsModified == "true" {
		fmt.Fprintln(w, "modified: true (uncommitted changes)")
	}

	fmt.Fprintf(w, "go: %s\n", info.GoVersion)
}
