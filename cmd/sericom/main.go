// Command sericom is a serial-console terminal client.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := newRunCommand()
	root.AddCommand(newPortsCommand())
	root.AddCommand(newBaudsCommand())
	root.AddCommand(newSettingsCommand())
	return root
}
