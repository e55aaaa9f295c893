package app

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/five82/embycli/internal/emby"
)

func (c *cli) newNextUpCmd() *cobra.Command {
	var (
		limit int
		user  string
	)
	cmd := &cobra.Command{
		Use:   "next-up",
		Short: "Show next episodes to watch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runEpisodes(cmd.Context(), user, limit, (*emby.Client).NextUp, "No next up episodes")
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum number of items to show")
	cmd.Flags().StringVarP(&user, "user", "u", "", "user name (defaults to the first admin user)")
	return cmd
}

func (c *cli) newUpcomingCmd() *cobra.Command {
	var (
		limit int
		user  string
	)
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Show upcoming TV episodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runEpisodes(cmd.Context(), user, limit, (*emby.Client).Upcoming, "No upcoming episodes")
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum number of items to show")
	cmd.Flags().StringVarP(&user, "user", "u", "", "user name (defaults to the first admin user)")
	return cmd
}

type episodeQuery func(c *emby.Client, ctx context.Context, userID string, limit int) ([]emby.BaseItem, error)

func (c *cli) runEpisodes(ctx context.Context, user string, limit int, query episodeQuery, empty string) error {
	client, err := c.client()
	if err != nil {
		return err
	}
	userID, err := client.ResolveUserID(ctx, user)
	if err != nil {
		return err
	}
	items, err := query(client, ctx, userID, limit)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		code := emby.EpisodeCode(it.ParentIndexNumber, it.IndexNumber)
		airDate := ""
		if it.PremiereDate != nil {
			airDate = emby.FormatPremiereDate(*it.PremiereDate)
		}
		rows = append(rows, []string{
			emby.String(it.SeriesName, ""),
			code + " - " + emby.String(it.Name, ""),
			airDate,
		})
	}
	return c.printTable([]string{"Series", "Episode", "Air Date"}, rows, empty)
}
