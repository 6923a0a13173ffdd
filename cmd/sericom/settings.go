package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.bug.st/serial"
)

func newSettingsCommand() *cobra.Command {
	var (
		port     string
		baudRate int
	)

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Open a port briefly and print the resolved mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				return fmt.Errorf("-p/--port is required")
			}
			mode := &serial.Mode{BaudRate: baudRate}
			p, err := serial.Open(port, mode)
			if err != nil {
				return fmt.Errorf("opening port %q: %w", port, err)
			}
			defer p.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "port:      %s\n", port)
			fmt.Fprintf(cmd.OutOrStdout(), "baud rate: %d\n", mode.BaudRate)
			return nil
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "serial port to probe")
	cmd.Flags().IntVarP(&baudRate, "baud", "b", 115200, "baud rate")
	return cmd
}
