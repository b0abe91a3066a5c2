package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// GetCurrentVersion is set by main.go so commands can report the build
// version without a circular dependency.
var GetCurrentVersion = func() string { return "dev" }

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pistat %s (%s/%s)\n", GetCurrentVersion(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
