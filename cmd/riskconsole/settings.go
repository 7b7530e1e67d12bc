package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"riskconsole/internal/settings"
)

func newSettingsCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "settings [list|<action>]",
		Short: "Run backend maintenance actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newBackend(cfg, nil)
			if err != nil {
				return err
			}
			d := settings.NewDispatcher(client)
			out := cmd.OutOrStdout()

			if args[0] == "list" {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ACTION\tTITLE\tENDPOINT")
				for _, a := range d.Actions() {
					fmt.Fprintf(tw, "%s\t%s\t%s %s\n", a.ID, a.Title, a.Method, a.Path)
				}
				return tw.Flush()
			}

			action, ok := d.Lookup(args[0])
			if !ok {
				return fmt.Errorf("%w: %q (see 'settings list')", settings.ErrUnknownAction, args[0])
			}
			if action.Dangerous && !yes {
				return fmt.Errorf("%s is destructive; rerun with --yes", action.ID)
			}

			ctx, stop := signalContext()
			defer stop()
			res, err := d.Run(ctx, action.ID)
			fmt.Fprintln(out, res.Message)
			if err != nil {
				return err
			}
			if !res.Success {
				return errors.New("action failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm destructive actions")
	return cmd
}
