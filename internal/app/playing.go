package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/embycli/internal/colors"
	"github.com/five82/embycli/internal/playing"
	"github.com/five82/embycli/internal/prefs"
	"github.com/five82/embycli/internal/ui"
)

type playingOptions struct {
	users    []string
	plain    bool
	json     bool
	raw      bool
	watch    bool
	interval time.Duration
}

func (c *cli) newPlayingCmd() *cobra.Command {
	var opts playingOptions
	cmd := &cobra.Command{
		Use:   "playing [users...]",
		Short: "Show what's currently playing",
		Long: `Show what's currently playing, optionally limited to the named users.

With --watch the view refreshes in place until q or ctrl+c is pressed;
+ and - change the refresh interval and remember it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.users = args
			return c.runPlaying(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&opts.plain, "plain", "p", false, "don't colorize output")
	f.BoolVarP(&opts.json, "json", "j", false, "show results in JSON format")
	f.BoolVarP(&opts.raw, "raw", "r", false, "show the raw sessions payload from the Emby API")
	f.BoolVarP(&opts.watch, "watch", "w", false, "refresh continuously")
	f.DurationVarP(&opts.interval, "interval", "i", 0, "refresh interval for --watch (default from prefs, 5s)")

	cmd.MarkFlagsMutuallyExclusive("plain", "json", "raw")
	cmd.MarkFlagsMutuallyExclusive("watch", "json")
	cmd.MarkFlagsMutuallyExclusive("watch", "raw")
	return cmd
}

func (c *cli) runPlaying(ctx context.Context, opts playingOptions) error {
	userPrefs, _ := prefs.Load(c.flags.prefsPath)

	client, err := c.client()
	if err != nil {
		return err
	}

	palette := colors.New(opts.plain || userPrefs.Plain)

	if opts.watch {
		interval := userPrefs.Interval()
		if opts.interval > 0 {
			interval = prefs.ClampInterval(opts.interval)
		}
		return ui.Watch(ctx, ui.WatchOptions{
			Fetcher:   client,
			Users:     opts.users,
			Palette:   palette,
			Interval:  interval,
			Prefs:     userPrefs,
			PrefsPath: c.flags.prefsPath,
			Output:    c.stdout,
		})
	}

	sessions, err := client.Sessions(ctx)
	if err != nil {
		return err
	}

	switch {
	case opts.raw:
		return playing.WriteRaw(c.stdout, playing.ActiveSessions(playing.FilterSessions(sessions, opts.users)))
	case opts.json:
		return playing.WriteJSON(c.stdout, playing.BuildEntries(sessions, opts.users))
	default:
		_, err := fmt.Fprintln(c.stdout, playing.FormatText(playing.BuildEntries(sessions, opts.users), palette))
		return err
	}
}
