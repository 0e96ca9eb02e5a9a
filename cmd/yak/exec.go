package main

import (
	"context"
	"time"

	"github.com/iwtcode/yakAdapter/commands"

	"github.com/spf13/cobra"
)

func (c *cli) execCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec ACTION COMMAND/TYPE [ARGS...]",
		Short: "Выполнить команду таблицы",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := commands.ParseActionType(args[0])
			if err != nil {
				return err
			}
			client, err := c.open()
			if err != nil {
				return err
			}
			defer client.Close()

			res, err := client.Execute(cmd.Context(), action, args[1], args[2:]...)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func (c *cli) refreshCmd() *cobra.Command {
	var interval time.Duration
	var count int

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Прочитать сводное состояние прибора",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.open()
			if err != nil {
				return err
			}
			defer client.Close()

			if interval <= 0 {
				snapshot, err := client.GetSnapshot(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), snapshot)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			received := 0
			for res := range client.StartPolling(ctx, interval) {
				if res.Err != nil {
					client.GetLogger().WithError(res.Err).Warn("Polling step failed")
				} else if err := printJSON(cmd.OutOrStdout(), res.Data); err != nil {
					return err
				}
				received++
				if count > 0 && received >= count {
					cancel()
				}
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "every", 0, "повторять с интервалом")
	cmd.Flags().IntVar(&count, "count", 0, "число снимков при --every (0 - без ограничения)")
	return cmd
}

func (c *cli) markersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "markers [FREQ_MHZ...]",
		Short: "Расставить маркеры по частотам в МГц и прочитать показания",
		RunE: func(cmd *cobra.Command, args []string) error {
			freqs, err := parseFloats(args)
			if err != nil {
				return err
			}
			client, err := c.open()
			if err != nil {
				return err
			}
			defer client.Close()

			if len(freqs) > 0 {
				if err := client.PlaceMarkers(cmd.Context(), freqs...); err != nil {
					return err
				}
			}
			markers, err := client.GetMarkers(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), markers)
		},
	}
}
