package app

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/five82/embycli/internal/emby"
)

func (c *cli) newUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runUsers(cmd.Context())
		},
	}
}

func (c *cli) runUsers(ctx context.Context) error {
	client, err := c.client()
	if err != nil {
		return err
	}
	users, err := client.Users(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			emby.String(u.Name, ""),
			emby.String(u.ID, ""),
			strconv.FormatBool(u.IsAdmin()),
		})
	}
	return c.printTable([]string{"Name", "ID", "Admin"}, rows, "No users found")
}

func (c *cli) newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runDevices(cmd.Context())
		},
	}
}

func (c *cli) runDevices(ctx context.Context) error {
	client, err := c.client()
	if err != nil {
		return err
	}
	devices, err := client.Devices(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		app := emby.String(d.AppName, "") + " (" + emby.String(d.AppVersion, "") + ")"
		rows = append(rows, []string{
			emby.String(d.Name, ""),
			emby.String(d.IPAddress, ""),
			emby.String(d.LastUserName, ""),
			app,
			emby.String(d.ID, ""),
		})
	}
	return c.printTable([]string{"Name", "IP Address", "Last User", "App (Version)", "ID"}, rows, "No devices found")
}
