package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sericom/sericom/internal/config"
	"github.com/sericom/sericom/internal/session"
)

const autoLogFileSentinel = "\x00auto\x00"

func newRunCommand() *cobra.Command {
	var (
		baudRate   int
		logFile    string
		debug      bool
		colorName  string
		outDirFlag string
	)

	cmd := &cobra.Command{
		Use:   "sericom <port>",
		Short: "Connect to a serial device as an interactive terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			port := args[0]

			cfg := config.Default()
			if home, err := os.UserHomeDir(); err == nil {
				if loaded, err := config.Load(filepath.Join(home, ".config", "sericom", "config.toml")); err == nil {
					cfg = loaded
				}
			}
			if colorName != "" {
				if err := cfg.ApplyColorOverride(colorName); err != nil {
					return err
				}
			}
			if outDirFlag != "" {
				if err := cfg.ApplyOutDirOverride(outDirFlag); err != nil {
					return err
				}
			}

			logPath := ""
			if logFile != "" {
				name := logFile
				if name == autoLogFileSentinel {
					name = defaultLogName(port)
				}
				logPath = filepath.Join(cfg.OutDir, name)
			}

			logLevel := zerolog.InfoLevel
			if debug {
				logLevel = zerolog.DebugLevel
			}
			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(logLevel).
				With().Timestamp().Logger()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			ctx = session.WithStartTime(ctx, time.Now())

			sess := session.New(session.Options{
				Port:     port,
				BaudRate: baudRate,
				Config:   cfg,
				LogPath:  logPath,
				Log:      log,
			}, os.Stdin)

			return sess.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&baudRate, "baud", "b", 115200, "baud rate")
	cmd.Flags().StringVarP(&logFile, "file", "f", "", "write session output to a file (optionally name it)")
	cmd.Flags().Lookup("file").NoOptDefVal = autoLogFileSentinel
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().StringVarP(&colorName, "color", "c", "", "override the foreground color")
	cmd.Flags().StringVarP(&outDirFlag, "out-dir", "o", "", "override the output directory")

	return cmd
}

// defaultLogName derives a session log filename from the port path and
// the current time, used when -f is given with no explicit name.
func defaultLogName(port string) string {
	base := filepath.Base(port)
	return fmt.Sprintf("%s-%s.log", base, time.Now().Format("20060102-150405"))
}
