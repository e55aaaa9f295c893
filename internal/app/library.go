package app

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/five82/embycli/internal/emby"
)

// scannable are the collection types a scan can target.
var scannable = []string{"movies", "tvshows", "music"}

// latestTypes maps --type values to Emby item types.
var latestTypes = map[string]string{
	"movies": "Movie",
	"shows":  "Series",
	"music":  "Audio",
}

type scanOptions struct {
	noRecursive        bool
	metadataMode       string
	imageMode          string
	replaceAllMetadata bool
	replaceAllImages   bool
}

func (c *cli) newLibrariesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "libraries",
		Short: "List libraries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runLibraries(cmd.Context())
		},
	}
}

func (c *cli) runLibraries(ctx context.Context) error {
	client, err := c.client()
	if err != nil {
		return err
	}
	folders, err := client.VirtualFolders(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(folders))
	for _, f := range folders {
		rows = append(rows, []string{
			emby.String(f.Name, ""),
			emby.String(f.CollectionType, ""),
			emby.String(f.ItemID, ""),
		})
	}
	return c.printTable([]string{"Name", "Type", "ID"}, rows, "No libraries found")
}

func (c *cli) newScanCmd() *cobra.Command {
	var opts scanOptions
	cmd := &cobra.Command{
		Use:   "scan [libraries...]",
		Short: "Trigger library scans",
		Long: `Trigger library scans.

Libraries are selected by type: movies, shows (or tv), music, or all.
The default is all.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd.Context(), args, opts)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&opts.noRecursive, "no-recursive", "R", false, "disable recursive scanning")
	f.StringVar(&opts.metadataMode, "metadata-refresh-mode", "Default", "metadata refresh mode")
	f.StringVar(&opts.imageMode, "image-refresh-mode", "Default", "image refresh mode")
	f.BoolVar(&opts.replaceAllMetadata, "replace-all-metadata", false, "replace all metadata")
	f.BoolVar(&opts.replaceAllImages, "replace-all-images", false, "replace all images")
	return cmd
}

func (c *cli) runScan(ctx context.Context, libraries []string, opts scanOptions) error {
	if len(libraries) == 0 {
		libraries = []string{"all"}
	}
	targets := make([]string, 0, len(libraries))
	for _, l := range libraries {
		switch l {
		case "shows", "tv":
			targets = append(targets, "tvshows")
		default:
			targets = append(targets, l)
		}
	}
	all := slices.Contains(targets, "all")

	client, err := c.client()
	if err != nil {
		return err
	}
	folders, err := client.VirtualFolders(ctx)
	if err != nil {
		return err
	}

	var matching []emby.VirtualFolder
	for _, f := range folders {
		kind := emby.String(f.CollectionType, "")
		if !slices.Contains(scannable, kind) {
			continue
		}
		if all || slices.Contains(targets, kind) {
			matching = append(matching, f)
		}
	}
	if len(matching) == 0 {
		return errors.New("No libraries found")
	}

	body := emby.RefreshOptions{
		Recursive:           !opts.noRecursive,
		MetadataRefreshMode: opts.metadataMode,
		ImageRefreshMode:    opts.imageMode,
		ReplaceAllMetadata:  opts.replaceAllMetadata,
		ReplaceAllImages:    opts.replaceAllImages,
	}
	for _, f := range matching {
		id := emby.String(f.ItemID, "")
		if err := client.RefreshItem(ctx, id, body); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Scanning for %s in library ID %s\n", emby.String(f.CollectionType, "unknown"), id)
	}
	return nil
}

func (c *cli) newLatestCmd() *cobra.Command {
	var (
		limit    int
		itemType string
		user     string
	)
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Show recently added media",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runLatest(cmd.Context(), limit, itemType, user)
		},
	}
	f := cmd.Flags()
	f.IntVarP(&limit, "limit", "l", 20, "maximum number of items to show")
	f.StringVarP(&itemType, "type", "t", "", "filter by type (movies, shows, music)")
	f.StringVarP(&user, "user", "u", "", "user name (defaults to the first admin user)")
	return cmd
}

func (c *cli) runLatest(ctx context.Context, limit int, itemType, user string) error {
	var include string
	if itemType != "" {
		mapped, ok := latestTypes[itemType]
		if !ok {
			return fmt.Errorf("Unknown type '%s'. Use: movies, shows, music", itemType)
		}
		include = mapped
	}

	client, err := c.client()
	if err != nil {
		return err
	}
	userID, err := client.ResolveUserID(ctx, user)
	if err != nil {
		return err
	}
	items, err := client.LatestItems(ctx, emby.LatestQuery{
		UserID:           userID,
		Limit:            limit,
		IncludeItemTypes: include,
	})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			emby.String(it.Type, ""),
			it.DisplayName(),
			emby.IntString(it.ProductionYear),
		})
	}
	return c.printTable([]string{"Type", "Name", "Year"}, rows, "No recently added items")
}

func (c *cli) newSearchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSearch(cmd.Context(), args[0], limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 25, "maximum number of results")
	return cmd
}

func (c *cli) runSearch(ctx context.Context, query string, limit int) error {
	client, err := c.client()
	if err != nil {
		return err
	}
	hints, err := client.SearchHints(ctx, query, limit)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(hints))
	for _, h := range hints {
		rows = append(rows, []string{
			emby.String(h.Type, ""),
			h.DisplayName(),
			emby.IntString(h.ProductionYear),
			h.ItemID.String(),
		})
	}
	return c.printTable([]string{"Type", "Name", "Year", "ID"}, rows, "No results found")
}
