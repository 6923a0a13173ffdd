package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// commonBaudRates are the rates most serial devices accept, in
// ascending order.
var commonBaudRates = []int{
	300, 1200, 2400, 4800, 9600, 19200, 38400, 57600,
	115200, 230400, 460800, 921600,
}

func newBaudsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bauds",
		Short: "List common baud rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, rate := range commonBaudRates {
				fmt.Fprintln(cmd.OutOrStdout(), rate)
			}
			return nil
		},
	}
}
