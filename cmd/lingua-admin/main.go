package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/lingua-labs/lingua-web/config"
	"github.com/lingua-labs/lingua-web/internal/adapters/backend"
	redisstore "github.com/lingua-labs/lingua-web/internal/adapters/redis"
	"github.com/lingua-labs/lingua-web/internal/bootstrap"
	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	"github.com/lingua-labs/lingua-web/internal/domain/edge"
	"github.com/lingua-labs/lingua-web/internal/domain/guard"
	"github.com/lingua-labs/lingua-web/internal/domain/routes"
	"github.com/lingua-labs/lingua-web/internal/ports"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
	// offline commands only read the static route tables and skip config loading.
	offline bool
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer

	// Overridable in tests; nil means build from Config.
	fetcher ports.ProfileFetcher
	store   ports.TokenStore
}

const defaultCommandTimeout = 30 * time.Second

func main() {
	logger := bootstrap.InitLogger(false)

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stderr); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	var cfg config.AppConfig
	if !cmd.offline {
		loaded, err := bootstrap.LoadConfig()
		if err != nil {
			logger.ErrorContext(context.Background(), "load config", "error", err)
			os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
		}
		cfg = loaded
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultCommandTimeout)
	defer cancel()

	cmdCtx := &commandContext{
		Ctx:    ctx,
		Logger: logger,
		Config: cfg,
		Out:    os.Stdout,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		cancel()
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"routes": {
			name:        "routes",
			description: "Print the path classification tables and redirect targets",
			run:         runRoutes,
			offline:     true,
		},
		"edge": {
			name:        "edge",
			description: "Print the edge filter decision for a path",
			run:         runEdge,
			offline:     true,
		},
		"whoami": {
			name:        "whoami",
			description: "Resolve an access token via the backend and print the guard decision",
			run:         runWhoami,
		},
		"revoke": {
			name:        "revoke",
			description: "Delete the token stored for a session id",
			run:         runRevoke,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: lingua-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	names := make([]string, 0, len(commands()))
	for name := range commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := commands()[name]
		if err := writef(w, "  %-10s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

func runRoutes(cmdCtx *commandContext, _ []string) error {
	tw := tabwriter.NewWriter(cmdCtx.Out, 0, 0, 2, ' ', 0)
	rows := []struct {
		class    string
		prefixes []string
	}{
		{"auth-only", routes.AuthOnlyPrefixes()},
		{"otp", routes.OTPPrefixes()},
		{"private", routes.PrivatePrefixes()},
		{"exempt", routes.ExemptPrefixes()},
	}
	if err := writef(tw, "CLASS\tPREFIXES\n"); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writef(tw, "%s\t%s\n", r.class, strings.Join(r.prefixes, " ")); err != nil {
			return err
		}
	}
	if err := writef(tw, "\nTARGET\tLOCATION\n"); err != nil {
		return err
	}
	targets := [][2]string{
		{"login", routes.LoginURL()},
		{"otp", routes.OTP + "?" + routes.ParamEmail + "=<email>"},
		{"onboarding", routes.OnboardingURL},
		{"landing (learner)", routes.LandingFor(domainauth.RoleUser)},
		{"landing (admin)", routes.LandingFor(domainauth.RoleAdmin)},
	}
	for _, t := range targets {
		if err := writef(tw, "%s\t%s\n", t[0], t[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

type edgeOptions struct {
	Path    string
	Cookie  bool
	Expired bool
}

func parseEdgeFlags(args []string) (edgeOptions, error) {
	fs := flag.NewFlagSet("edge", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts edgeOptions
	fs.BoolVar(&opts.Cookie, "cookie", false, "Simulate a present refresh token cookie")
	fs.BoolVar(&opts.Expired, "expired", false, "Simulate session_expired=1 on the request")

	if err := fs.Parse(reorderFlags(args)); err != nil {
		return edgeOptions{}, err
	}
	if fs.NArg() != 1 {
		return edgeOptions{}, errors.New("usage: edge <path> [--cookie] [--expired]")
	}
	opts.Path = routes.PathOf(fs.Arg(0))
	if !strings.HasPrefix(opts.Path, "/") {
		return edgeOptions{}, fmt.Errorf("path must start with /: %q", opts.Path)
	}
	return opts, nil
}

func runEdge(cmdCtx *commandContext, args []string) error {
	opts, err := parseEdgeFlags(args)
	if err != nil {
		return err
	}
	d := edge.Decide(edge.Request{
		Path:             opts.Path,
		HasRefreshCookie: opts.Cookie,
		SessionExpired:   opts.Expired,
	})
	if d.Location != "" {
		return writef(cmdCtx.Out, "%s %s -> %s\n", d.Action, opts.Path, d.Location)
	}
	return writef(cmdCtx.Out, "%s %s\n", d.Action, opts.Path)
}

func runWhoami(cmdCtx *commandContext, args []string) error {
	if len(args) < 1 || len(args) > 2 || strings.TrimSpace(args[0]) == "" {
		return errors.New("usage: whoami <token> [path]")
	}
	token := strings.TrimSpace(args[0])
	path := routes.Vocabulary
	if len(args) == 2 {
		path = routes.PathOf(args[1])
	}

	fetcher, err := cmdCtx.profileFetcher()
	if err != nil {
		return err
	}
	user, err := fetcher.FetchProfile(cmdCtx.Ctx, token)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}

	state := domainauth.AuthenticatedState(user)
	d := guard.Evaluate(guard.Input{State: state, Path: path})

	proficiency := "-"
	if user.HasProficiency() {
		proficiency = *user.Proficiency
	}
	tw := tabwriter.NewWriter(cmdCtx.Out, 0, 0, 2, ' ', 0)
	lines := [][2]string{
		{"id", user.ID},
		{"email", user.Email},
		{"status", string(user.Status)},
		{"active role", string(state.ActiveRole)},
		{"proficiency", proficiency},
		{"path", path},
		{"guard state", string(d.State)},
	}
	if d.ShouldRedirect() {
		lines = append(lines, [2]string{"redirect", d.Redirect})
	}
	for _, l := range lines {
		if err := writef(tw, "%s\t%s\n", l[0], l[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func runRevoke(cmdCtx *commandContext, args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return errors.New("usage: revoke <sid>")
	}
	sid := strings.TrimSpace(args[0])

	store, closeStore, err := cmdCtx.tokenStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if _, err := store.Get(cmdCtx.Ctx, sid); err != nil {
		if errors.Is(err, ports.ErrNoToken) {
			return writef(cmdCtx.Out, "no token stored for %s\n", sid)
		}
		return fmt.Errorf("read token: %w", err)
	}
	if err := store.Delete(cmdCtx.Ctx, sid); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	cmdCtx.Logger.Info("revoked session token", "sid", sid)
	return writef(cmdCtx.Out, "revoked %s\n", sid)
}

//nolint:ireturn // tests substitute a fake fetcher.
func (cmdCtx *commandContext) profileFetcher() (ports.ProfileFetcher, error) {
	if cmdCtx.fetcher != nil {
		return cmdCtx.fetcher, nil
	}
	client, err := backend.NewClient(backend.Config{
		BaseURL:      cmdCtx.Config.Backend.BaseURL,
		Timeout:      cmdCtx.Config.Backend.Timeout,
		EnvelopePath: cmdCtx.Config.Backend.EnvelopePath,
	})
	if err != nil {
		return nil, fmt.Errorf("build backend client: %w", err)
	}
	return client, nil
}

//nolint:ireturn // tests substitute an in-memory store.
func (cmdCtx *commandContext) tokenStore() (ports.TokenStore, func(), error) {
	if cmdCtx.store != nil {
		return cmdCtx.store, func() {}, nil
	}
	if cmdCtx.Config.Session.Store != config.SessionStoreRedis {
		return nil, nil, fmt.Errorf("revoke needs a shared token store, SESSION_STORE is %q", cmdCtx.Config.Session.Store)
	}
	client, err := bootstrap.ConnectRedis(bootstrap.RedisConnectConfig{
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	store := redisstore.NewTokenStore(client, redisstore.TokenStoreOptions{
		Prefix:     cmdCtx.Config.Redis.KeyPrefix,
		DefaultTTL: cmdCtx.Config.Session.TokenTTL,
	})
	closeFn := func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}
	return store, closeFn, nil
}

// reorderFlags moves flags ahead of positional arguments so "edge /learn --cookie"
// parses the same as "edge --cookie /learn".
func reorderFlags(args []string) []string {
	flags := make([]string, 0, len(args))
	positional := make([]string, 0, len(args))
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			flags = append(flags, a)
		} else {
			positional = append(positional, a)
		}
	}
	return append(flags, positional...)
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
