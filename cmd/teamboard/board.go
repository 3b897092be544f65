package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tgienger/teamboard/internal/config"
	"github.com/tgienger/teamboard/internal/logging"
	"github.com/tgienger/teamboard/internal/ui"
)

func boardCmd() *cobra.Command {
	var (
		userID  int64
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the terminal task board",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// The board owns the terminal; logs go to a file or nowhere
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := tea.LogToFile(logFile, "teamboard")
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			logger := logging.InitWriter(w, cfg.Environment, cfg.LogLevel)

			ctx := context.Background()
			rt, err := openBackend(ctx, cfg, logger, backendOptions{redis: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			app := ui.NewApp(rt.db, rt.engine, cfg.PollInterval, userID)
			p := tea.NewProgram(app, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "Act as this user id (default: last used, or pick)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	return cmd
}
