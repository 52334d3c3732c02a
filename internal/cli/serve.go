package cli

import (
	"context"
	"net"

	"github.com/spf13/cobra"

	"github.com/matzehuels/zoomtree/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		focus    string
		dataPath string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve <source>",
		Short: "Serve a dataset with a zoomable browser client",
		Example: `  zoomtree serve data/housing.json
  zoomtree serve mongo:housing --addr :9000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Serve.Addr
			}
			opts := c.baseOptions(args[0])
			opts.Focus = focus
			if dataPath != "" {
				opts.DataPath = dataPath
			}
			return c.runServe(cmd.Context(), addr, noCache, server.Config{Options: opts})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+server.DefaultAddr+")")
	cmd.Flags().StringVar(&focus, "focus", "", "node ID new views start at")
	cmd.Flags().StringVar(&dataPath, "data-path", "", "JSONPath of the hierarchy in the document (default $.data)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool, cfg server.Config) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	cfg.Runner = runner
	cfg.Logger = c.Logger
	cfg.SessionTTL = c.Config.Serve.SessionTTL
	cfg.MaxSessions = c.Config.Serve.MaxViews

	spinner := newSpinner(ctx, "Loading "+cfg.Options.Source+"...")
	spinner.Start()
	srv, err := server.New(ctx, cfg)
	spinner.Stop()
	if err != nil {
		return err
	}

	printSuccess("Serving %s", StyleHighlight.Render(cfg.Options.Source))
	url := "http://" + addr
	if host, port, err := net.SplitHostPort(addr); err == nil && (host == "" || host == "0.0.0.0" || host == "::") {
		printWarning("Listening on all interfaces")
		url = "http://localhost:" + port
	}
	printKeyValue("Address", StyleLink.Render(url))
	printDetail("Stop with Ctrl+C")
	return srv.ListenAndServe(ctx, addr)
}
