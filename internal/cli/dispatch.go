package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"hbexport/internal/commands"
	"hbexport/internal/config"
	"hbexport/internal/exitcode"
	"hbexport/internal/logging"
	"hbexport/internal/service"
)

// SourceFactory creates the to-do source from config.
type SourceFactory func(ctx context.Context, cfg *config.Config) (service.Source, error)

// SinkFactory creates the task sink from config.
type SinkFactory func(ctx context.Context, cfg *config.Config) (service.Sink, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	source   SourceFactory
	sink     SinkFactory
}

// NewDispatcher creates a new dispatcher with the given registry and backend factories.
func NewDispatcher(registry *commands.Registry, source SourceFactory, sink SinkFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		source:   source,
		sink:     sink,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// No arguments run the registry's default command. Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	cmd, rest, err := d.registry.Resolve(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, rest, out, errOut)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	quiet     bool
	debug     bool
	userID    string
	token     string
	baseURL   string
	timeout   time.Duration
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configDir, "config", "", "")
	fs.BoolVar(&c.quiet, "quiet", false, "")
	fs.BoolVar(&c.debug, "debug", false, "")
	fs.StringVar(&c.userID, "user", "", "")
	fs.StringVar(&c.token, "token", "", "")
	fs.StringVar(&c.baseURL, "base-url", "", "")
	fs.DurationVar(&c.timeout, "timeout", config.DefaultTimeout, "")
}

// apply overlays flag values on cfg. Flags win over the environment.
func (c *commonFlags) apply(cfg *config.Config) {
	cfg.Quiet = c.quiet
	cfg.Debug = c.debug
	if v := strings.TrimSpace(c.userID); v != "" {
		cfg.UserID = v
	}
	if v := strings.TrimSpace(c.token); v != "" {
		cfg.APIToken = v
	}
	if v := strings.TrimSpace(c.baseURL); v != "" {
		cfg.BaseURL = v
	}
	cfg.Timeout = c.timeout
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return reportFlagError(errOut, err)
	}

	// A leading dash here means the flag was not recognized
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	if common.timeout < 0 {
		fmt.Fprintf(errOut, "error: invalid timeout: %s\n", common.timeout)
		return exitcode.UserError
	}

	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	common.apply(cfg)
	cfg.Logger = logging.New(errOut, cfg.Debug)

	b, code := d.backends(ctx, cmd.Needs(), cfg, errOut)
	if code != exitcode.Success {
		return code
	}

	return cmd.Run(ctx, cfg, b, positionalArgs, out, errOut)
}

// backends builds what the command asked for. A missing factory leaves the
// backend nil after the pre-flight checks.
func (d *Dispatcher) backends(ctx context.Context, need service.Need, cfg *config.Config, errOut io.Writer) (service.Backends, int) {
	var b service.Backends

	if need.Has(service.NeedSource) {
		if !cfg.HasHabiticaCredentials() {
			fmt.Fprintf(errOut, "error: habitica credentials not set (use --user/--token or %s/%s)\n",
				config.EnvUserID, config.EnvAPIToken)
			return b, exitcode.AuthError
		}
		if d.source != nil {
			src, err := d.source(ctx, cfg)
			if err != nil {
				return b, factoryFailure(errOut, err)
			}
			b.Source = src
		}
	}

	if need.Has(service.NeedSink) {
		if d.sink != nil {
			// Custom factory (e.g. tests with FakeSink) handles its own auth
			sink, err := d.sink(ctx, cfg)
			if err != nil {
				return b, factoryFailure(errOut, err)
			}
			b.Sink = sink
		} else {
			if !cfg.HasOAuthClient() {
				fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n", cfg.Dir)
				return b, exitcode.AuthError
			}
			if !cfg.HasToken() {
				fmt.Fprintf(errOut, "error: not logged in (run: hbexport login)\n")
				return b, exitcode.AuthError
			}
		}
	}

	return b, exitcode.Success
}

func factoryFailure(errOut io.Writer, err error) int {
	msg := err.Error()
	if errors.Is(err, service.ErrUnauthorized) || strings.Contains(msg, "token") || strings.Contains(msg, "auth") {
		fmt.Fprintf(errOut, "error: auth error: %s\n", err)
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: backend error: %s\n", err)
	return exitcode.BackendError
}

func reportFlagError(errOut io.Writer, err error) int {
	errStr := err.Error()

	if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
		parts := strings.Split(errStr, ":")
		flagPart := strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			flagPart = strings.TrimSpace(parts[1])
		}
		fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
		return exitcode.UserError
	}

	if name, ok := strings.CutPrefix(errStr, "flag provided but not defined: "); ok {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", name)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}
