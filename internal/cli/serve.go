package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flamekit/pkg/api"
	"github.com/matzehuels/flamekit/pkg/buildinfo"
	"github.com/matzehuels/flamekit/pkg/cache"
	"github.com/matzehuels/flamekit/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr        string
	redisURL    string
	redisPrefix string
	timeout     time.Duration
	noCache     bool
}

// serveCommand creates the serve command, which runs the HTTP render service.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:        ":8080",
		redisPrefix: appName + ":",
		timeout:     api.DefaultRenderTimeout,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve flame renders over HTTP",
		Long: `Serve flame renders over HTTP.

POST a TOML flame to /render to receive the encoded image. Rendered images
are cached in Redis when --redis-url is set, otherwise in the local cache
directory. The server shuts down gracefully on interrupt.`,
		Example: `  flamekit serve --addr :9000
  flamekit serve --redis-url redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "", "Redis URL for a shared image cache")
	cmd.Flags().StringVar(&opts.redisPrefix, "redis-prefix", opts.redisPrefix, "key prefix in Redis")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "maximum time per render")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the image cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	runner, err := c.newServeRunner(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := api.NewServer(runner, c.Logger)
	srv.RenderTimeout = opts.timeout

	printSuccess("Listening on %s", StyleHighlight.Render(opts.addr))
	if strings.HasPrefix(opts.addr, ":") {
		printNextStep("Render", fmt.Sprintf("curl --data-binary @examples/collideoscope.toml http://localhost%s/render -o out.png", opts.addr))
	}
	return srv.ListenAndServe(ctx, opts.addr)
}

// newServeRunner picks the Redis cache when a URL is given. Keys are scoped
// by version so a new build never serves images from an older renderer.
func (c *CLI) newServeRunner(ctx context.Context, opts serveOpts) (*pipeline.Runner, error) {
	if opts.noCache || opts.redisURL == "" {
		return c.newRunner(opts.noCache)
	}
	rc, err := cache.NewRedisCache(ctx, opts.redisURL, opts.redisPrefix)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using redis cache", "prefix", opts.redisPrefix)
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	return pipeline.NewRunner(rc, keyer, c.Logger), nil
}
