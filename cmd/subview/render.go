package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/railzwaylabs/subview/internal/calendar"
	"github.com/railzwaylabs/subview/internal/clock"
	"github.com/railzwaylabs/subview/internal/config"
	"github.com/railzwaylabs/subview/internal/fixture"
	"github.com/railzwaylabs/subview/internal/observability"
	subscriptiondomain "github.com/railzwaylabs/subview/internal/subscription/domain"
	subscriptionservice "github.com/railzwaylabs/subview/internal/subscription/service"
	timelinedomain "github.com/railzwaylabs/subview/internal/timeline/domain"
	"github.com/railzwaylabs/subview/internal/timeline/render"
	timelineservice "github.com/railzwaylabs/subview/internal/timeline/service"
	"github.com/spf13/cobra"
)

type snapshotFlags struct {
	key  string
	asOf string
}

func (f *snapshotFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.key, "key", "", "subscription id or number when the file holds several")
	cmd.Flags().StringVar(&f.asOf, "as-of", "", "evaluate as of YYYY-MM-DD instead of today")
}

func (f *snapshotFlags) today() (calendar.Date, error) {
	if f.asOf == "" {
		return calendar.Date{}, nil
	}
	d, err := calendar.Parse(f.asOf)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("--as-of: %w", err)
	}
	return d, nil
}

func newRenderCmd() *cobra.Command {
	var (
		flags  snapshotFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "render <snapshot.json>",
		Short: "Print the timeline of a subscription snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today, err := flags.today()
			if err != nil {
				return err
			}
			env, err := newCLIEnv()
			if err != nil {
				return err
			}
			sub, err := env.subscription(args[0], flags.key)
			if err != nil {
				return err
			}

			tl, err := env.timeline.Build(cmd.Context(), sub, timelinedomain.BuildOptions{Today: today})
			if err != nil {
				return err
			}
			return writeTimeline(cmd.OutOrStdout(), tl, format)
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVar(&format, "format", "grid", "output format: grid or json")
	return cmd
}

func newExplainCmd() *cobra.Command {
	var (
		flags    snapshotFlags
		chargeID string
		planID   string
		date     string
	)
	cmd := &cobra.Command{
		Use:   "explain <snapshot.json>",
		Short: "Explain the state of one charge on one day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today, err := flags.today()
			if err != nil {
				return err
			}
			day, err := calendar.Parse(date)
			if err != nil {
				return fmt.Errorf("--date: %w", err)
			}
			env, err := newCLIEnv()
			if err != nil {
				return err
			}
			sub, err := env.subscription(args[0], flags.key)
			if err != nil {
				return err
			}

			ex, err := env.timeline.Explain(cmd.Context(), sub, timelinedomain.ExplainRequest{
				PlanID:   planID,
				ChargeID: chargeID,
				Day:      day,
				Today:    today,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s on %s (today %s, %s): %s by rule %q\n",
				ex.PlanID, ex.ChargeID, ex.Day, ex.Today, ex.Position, ex.State, ex.Rule)
			return err
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVar(&chargeID, "charge", "", "charge id")
	cmd.Flags().StringVar(&planID, "plan", "", "rate plan id")
	cmd.Flags().StringVar(&date, "date", "", "day to explain, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("charge")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

// cliEnv wires the services the offline commands need without the fx graph.
type cliEnv struct {
	normalizer *subscriptionservice.Normalizer
	timeline   timelinedomain.Service
}

func newCLIEnv() (*cliEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := observability.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	clk, err := clock.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	tags, err := subscriptionservice.NewTagRules(cfg.Tags)
	if err != nil {
		return nil, err
	}
	return &cliEnv{
		normalizer: subscriptionservice.NewNormalizer(tags),
		timeline:   timelineservice.NewService(timelineservice.ServiceParam{Log: log, Clock: clk}),
	}, nil
}

func (e *cliEnv) subscription(path, key string) (timelinedomain.Subscription, error) {
	snaps, err := fixture.ReadFile(path)
	if err != nil {
		return timelinedomain.Subscription{}, err
	}
	snap, err := pickSnapshot(snaps, key)
	if err != nil {
		return timelinedomain.Subscription{}, err
	}
	return e.normalizer.Normalize(snap)
}

// pickSnapshot returns the only snapshot in a file, or the one matching key.
func pickSnapshot(snaps map[string]*subscriptiondomain.Snapshot, key string) (*subscriptiondomain.Snapshot, error) {
	if key != "" {
		if snap, ok := snaps[key]; ok {
			return snap, nil
		}
		for _, snap := range snaps {
			if snap.Matches(key) {
				return snap, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", subscriptiondomain.ErrNotFound, key)
	}

	if len(snaps) == 1 {
		for _, snap := range snaps {
			return snap, nil
		}
	}
	keys := make([]string, 0, len(snaps))
	for k := range snaps {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return nil, fmt.Errorf("file holds %d subscriptions, pick one with --key: %s", len(snaps), strings.Join(keys, ", "))
}

func writeTimeline(w io.Writer, tl *timelinedomain.Timeline, format string) error {
	switch format {
	case "grid":
		return render.Grid(w, tl)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tl)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
