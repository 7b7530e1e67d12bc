package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"riskconsole/internal/backend"
	"riskconsole/internal/console"
	"riskconsole/internal/render"
	"riskconsole/internal/risk"
)

func newScoreCmd() *cobra.Command {
	var (
		all    bool
		detail bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "score [incident-id]",
		Short: "Show incident risk scores",
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return errors.New("--all takes no incident id")
			}
			if !all && len(args) != 1 {
				return errors.New("an incident id or --all is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, svc, err := newScorer(cfg, nil)
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()
			out := cmd.OutOrStdout()

			if all {
				scores, err := svc.ScoreAll(ctx)
				if err != nil {
					return bannerError(cmd.ErrOrStderr(), err)
				}
				if asJSON {
					payloads := make([]interface{}, len(scores))
					for i, rs := range scores {
						payloads[i] = risk.Payload(rs)
					}
					return writeJSON(out, payloads)
				}
				summaries := make([]risk.Summary, len(scores))
				for i, rs := range scores {
					summaries[i] = risk.Compact(rs)
				}
				fmt.Fprintln(out, render.List(summaries))
				return nil
			}

			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid incident id %q", args[0])
			}
			panel := console.NewRiskPanel(svc)
			defer panel.Close()
			view, err := panel.Select(ctx, id)
			if err != nil && !errors.Is(err, console.ErrStale) {
				if banner := panel.Banner(); banner != "" {
					fmt.Fprintln(out, render.Banner(banner))
				}
				return err
			}
			if asJSON {
				return writeJSON(out, view)
			}
			fmt.Fprintln(out, render.View(view, detail))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "score every open incident")
	cmd.Flags().BoolVar(&detail, "detail", false, "show the factor breakdown")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a rendered view")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func bannerError(w io.Writer, err error) error {
	if errors.Is(err, backend.ErrUnavailable) {
		fmt.Fprintln(w, render.Banner("Backend unavailable. Retry when the connection is restored."))
	}
	return err
}
