package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/embycli/internal/discovery"
	"github.com/five82/embycli/internal/emby"
)

func (c *cli) newSystemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "system",
		Short: "Show system information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runSystem(cmd.Context())
		},
	}
}

func (c *cli) runSystem(ctx context.Context) error {
	client, err := c.client()
	if err != nil {
		return err
	}
	info, err := client.SystemInfo(ctx)
	if err != nil {
		return err
	}

	update := "No"
	if emby.Bool(info.HasUpdateAvailable) {
		update = "Yes"
	}
	fmt.Fprintf(c.stdout, "Emby Version:     %s\n", emby.String(info.Version, "Unknown"))
	fmt.Fprintf(c.stdout, "Emby URL:         %s\n", client.APIURL())
	fmt.Fprintf(c.stdout, "Server Name:      %s\n", emby.String(info.ServerName, "Unknown"))
	fmt.Fprintf(c.stdout, "Operating System: %s\n", emby.String(info.OperatingSystemDisplayName, "Unknown"))
	fmt.Fprintf(c.stdout, "Update Available: %s\n", update)
	return nil
}

func (c *cli) newRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Restart Emby",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			if err := client.Restart(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.stdout, "Restarting Emby server")
			return nil
		},
	}
}

func (c *cli) newActivityCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runActivity(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 25, "maximum number of entries to show")
	return cmd
}

func (c *cli) runActivity(ctx context.Context, limit int) error {
	client, err := c.client()
	if err != nil {
		return err
	}
	entries, err := client.ActivityLog(ctx, limit)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		date := ""
		if e.Date != nil {
			date = emby.FormatPremiereDate(*e.Date)
		}
		overview := emby.String(e.ShortOverview, emby.String(e.Overview, ""))
		rows = append(rows, []string{
			date,
			emby.String(e.Severity, ""),
			emby.String(e.Name, ""),
			overview,
		})
	}
	return c.printTable([]string{"Date", "Severity", "Name", "Overview"}, rows, "No activity found")
}

func (c *cli) newFindServerCmd() *cobra.Command {
	var (
		timeout int
		addr    string
	)
	cmd := &cobra.Command{
		Use:   "find-server",
		Short: "Find Emby servers on the local network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runFindServer(cmd.Context(), addr, time.Duration(timeout)*time.Second)
		},
	}
	cmd.Flags().IntVarP(&timeout, "timeout", "t", 3, "discovery timeout in seconds")
	cmd.Flags().StringVar(&addr, "addr", discovery.DefaultAddr, "discovery address")
	_ = cmd.Flags().MarkHidden("addr")
	return cmd
}

func (c *cli) runFindServer(ctx context.Context, addr string, timeout time.Duration) error {
	servers, err := discovery.Discover(ctx, discovery.Options{Addr: addr, Timeout: timeout})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(servers))
	for _, s := range servers {
		rows = append(rows, []string{s.Name, s.Address, s.ID})
	}
	return c.printTable([]string{"Name", "Address", "ID"}, rows, "No Emby servers found on the local network")
}
