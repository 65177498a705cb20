package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/logquest/internal/domain/catalog"
	"github.com/okian/logquest/internal/domain/sanitize"
	"github.com/okian/logquest/pkg/metrics"
)

var errInvalidScore = errors.New("score must be a non-negative number")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "logquest",
		Short:         "Player progress for the logarithm quest activities",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newNameCmd(),
		newScoreCmd(),
		newScoresCmd(),
		newResetCmd(),
		newMuteCmd(),
		newActivitiesCmd(),
		newStatsCmd(),
	)
	return root
}

// withSession runs fn against a loaded profile and closes the backend after.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openSession(ctx, cmd.ErrOrStderr())
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}
	defer s.Close(ctx)
	if err := fn(ctx, s); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

func newNameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "name [NAME...]",
		Short: "Show the player name, or validate and set it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				out := cmd.OutOrStdout()
				if len(args) == 0 {
					if name := s.svc.PlayerName(); name != "" {
						fmt.Fprintln(out, name)
					} else {
						fmt.Fprintln(out, "(no name set)")
					}
					return nil
				}

				raw := strings.Join(args, " ")
				if err := s.svc.ValidatePlayerName(raw); err != nil {
					return fmt.Errorf("invalid name: %w", err)
				}
				s.svc.SetPlayerName(ctx, raw)
				fmt.Fprintf(out, "Welcome, %s!\n", s.svc.PlayerName())
				return nil
			})
		},
	}
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score ACTIVITY_ID SCORE",
		Short: "Record the score for an activity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := parseScore(args[1])
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			return withSession(cmd, func(ctx context.Context, s *session) error {
				id := strings.TrimSpace(args[0])
				name := id
				if a, ok := catalog.Lookup(id); ok {
					name = a.Name
				}
				res := s.svc.AddActivityScore(ctx, id, name, score)
				if !res.Accepted {
					return fmt.Errorf("activity id must not be empty")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d (total %d)\n", res.Record.ActivityName, res.Record.Score, s.svc.TotalScore())
				return nil
			})
		},
	}
}

// parseScore accepts whole or fractional numbers and rounds to the nearest
// integer.
func parseScore(arg string) (int, error) {
	v := sanitize.SanitizeNumber(arg, -1)
	if v < 0 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q", errInvalidScore, arg)
	}
	return int(math.Round(v)), nil
}

func newScoresCmd() *cobra.Command {
	var asHTML bool
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "List recorded scores and the total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(_ context.Context, s *session) error {
				if asHTML {
					return writeScoresHTML(cmd.OutOrStdout(), s)
				}
				return writeScoresText(cmd.OutOrStdout(), s)
			})
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "render the scoreboard as an HTML table")
	return cmd
}

func writeScoresText(w io.Writer, s *session) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTIVITY\tNAME\tSCORE\tCOMPLETED")
	for _, r := range s.svc.Ledger() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.ActivityID, r.ActivityName, r.Score, r.CompletedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(tw, "TOTAL\t\t%d\t\n", s.svc.TotalScore())
	return tw.Flush()
}

func writeScoresHTML(w io.Writer, s *session) error {
	var b strings.Builder
	b.WriteString("<table>\n")
	if name := s.svc.PlayerName(); name != "" {
		fmt.Fprintf(&b, "<caption>%s</caption>\n", sanitize.EscapeHTML(name))
	}
	b.WriteString("<tr><th>Activity</th><th>Score</th></tr>\n")
	for _, r := range s.svc.Ledger() {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td></tr>\n", sanitize.EscapeHTML(r.ActivityName), r.Score)
	}
	fmt.Fprintf(&b, "<tr><th>Total</th><th>%d</th></tr>\n", s.svc.TotalScore())
	b.WriteString("</table>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear all recorded scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				s.svc.ResetScores(ctx)
				fmt.Fprintln(cmd.OutOrStdout(), "Scores cleared.")
				return nil
			})
		},
	}
}

func newMuteCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "mute [on|off|toggle]",
		Short:     "Show or change the audio preference",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				muted := s.svc.AudioMuted()
				if len(args) == 1 {
					switch args[0] {
					case "on":
						muted = true
						s.svc.SetAudioMuted(ctx, true)
					case "off":
						muted = false
						s.svc.SetAudioMuted(ctx, false)
					case "toggle":
						muted = s.svc.ToggleAudioMuted(ctx)
					}
				}
				state := "unmuted"
				if muted {
					state = "muted"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "audio %s\n", state)
				return nil
			})
		},
	}
}

func newActivitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activities",
		Short: "List the known activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, a := range catalog.All() {
				fmt.Fprintf(tw, "%s\t%s\n", a.ID, a.Name)
			}
			return tw.Flush()
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show profile statistics and metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(_ context.Context, s *session) error {
				out := cmd.OutOrStdout()
				stats := s.svc.Stats()
				keys := make([]string, 0, len(stats))
				for k := range stats {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				fmt.Fprintf(out, "backend: %s\n", s.cfg.Backend)
				for _, k := range keys {
					fmt.Fprintf(out, "%s: %v\n", k, stats[k])
				}
				fmt.Fprintln(out)
				return metrics.WriteText(out)
			})
		},
	}
}
