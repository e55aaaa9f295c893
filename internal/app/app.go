package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/embycli/internal/config"
	"github.com/five82/embycli/internal/emby"
	"github.com/five82/embycli/internal/logging"
	"github.com/five82/embycli/internal/ui"
)

// Version is stamped at build time with -ldflags "-X ...app.Version=...".
var Version = "dev"

const envLogLevel = "EMBY_LOG_LEVEL"

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	envFile    string
	prefsPath  string
	logLevel   string
	logFile    string
	debug      bool
}

// cli carries the process streams and root flags into the commands.
type cli struct {
	stdout io.Writer
	stderr io.Writer
	flags  rootFlags
}

// Execute runs the emby command line with args and returns the exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := &cli{stdout: stdout, stderr: stderr}
	root := c.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	_ = logging.Close()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (c *cli) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "emby",
		Short:         "CLI for some random stuff in Emby",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c.initLogging()
			logging.Debug().Str("command", cmd.CommandPath()).Msg("running command")
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default $EMBY_CONFIG or ~/.config/emby-api.json)")
	pf.StringVar(&c.flags.envFile, "env-file", "", "dotenv file to load before reading configuration")
	pf.StringVar(&c.flags.prefsPath, "prefs", "", "preferences file (default ~/.config/emby/prefs.toml)")
	pf.StringVar(&c.flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (default warn)")
	pf.StringVar(&c.flags.logFile, "log-file", "", "write logs to a rotated file instead of stderr")
	pf.BoolVar(&c.flags.debug, "debug", false, "shorthand for --log-level debug")

	root.AddCommand(
		c.newPlayingCmd(),
		c.newScanCmd(),
		c.newRestartCmd(),
		c.newSystemCmd(),
		c.newUsersCmd(),
		c.newDevicesCmd(),
		c.newLibrariesCmd(),
		c.newFindServerCmd(),
		c.newActivityCmd(),
		c.newLatestCmd(),
		c.newSearchCmd(),
		c.newNextUpCmd(),
		c.newUpcomingCmd(),
		c.newTasksCmd(),
	)
	return root
}

func (c *cli) initLogging() {
	level := c.flags.logLevel
	if strings.TrimSpace(level) == "" {
		level = os.Getenv(envLogLevel)
	}
	if c.flags.debug {
		level = "debug"
	}
	logging.Init(logging.Config{
		Level:  level,
		File:   c.flags.logFile,
		Output: c.stderr,
	})
}

// client loads the configuration and builds an API client from it.
func (c *cli) client() (*emby.Client, error) {
	cfg, err := config.Load(config.Options{Path: c.flags.configPath, EnvFile: c.flags.envFile})
	if err != nil {
		return nil, err
	}
	client, err := emby.NewClient(cfg.APIURL, cfg.APIKey, emby.WithUserAgent("embycli/"+Version))
	if err != nil {
		return nil, fmt.Errorf("init emby client: %w", err)
	}
	return client, nil
}

// printTable writes a borderless table, or empty when there are no rows.
func (c *cli) printTable(headers []string, rows [][]string, empty string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(c.stdout, empty)
		return err
	}
	_, err := fmt.Fprintln(c.stdout, ui.Table(headers, rows))
	return err
}
