// Package cmd wires up the CLI flags and runs the chat client.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"gochat/config"
	"gochat/internal/capability"
	"gochat/internal/core"
	ncerr "gochat/internal/errors"
	"gochat/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X gochat/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// options are the flags that control the CLI itself rather than the
// session.
type options struct {
	dryRun      bool
	showVersion bool
	showHelp    bool
}

// Execute parses args and runs the chat client.
func Execute(ctx context.Context, args []string) error {
	cfg, opts, fs, err := parseArgs(args)
	if err != nil {
		return err
	}

	if opts.showHelp || len(args) == 0 {
		printUsage(fs)
		return nil
	}
	if opts.showVersion {
		fmt.Printf("gochat %s\n", version)
		return nil
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.ApplyTunnelSpec(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// ── build components ─────────────────────────────────────────
	// Warnings and info are on by default; each -v adds a level.
	logger := util.NewLogger(int(util.LogNormal) + cfg.Verbose)

	if cfg.AskPassword && !opts.dryRun {
		if !util.IsTerminal(os.Stdin) {
			return fmt.Errorf("--ask-password needs a terminal on stdin; use --password or GOCHAT_PASSWORD")
		}
		pw, err := util.ReadSecret("Chat password for " + cfg.User + ": ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		cfg.Password = pw
	}

	mode, err := core.Build(cfg, logger)
	if err != nil {
		return err
	}

	if opts.dryRun {
		fmt.Fprintf(os.Stderr, "gochat: would connect to %s as %q\n", mode.Address, cfg.User)
		return nil
	}

	err = mode.Run(ctx)
	if cfg.ShowMetrics || logger.Level() >= util.LogVerbose {
		fmt.Fprintln(os.Stderr, mode.Metrics.JSON())
	}
	return explain(err)
}

// explain turns a Run error into the CLI's exit error.  An interrupt is
// a clean exit.
func explain(err error) error {
	switch {
	case err == nil, ncerr.Is(err, context.Canceled):
		return nil
	case ncerr.Is(err, ncerr.ErrAuthFailed):
		var se *ncerr.SSHError
		if ncerr.As(err, &se) {
			return fmt.Errorf("%w\n  hint: check --ssh-key, --ssh-agent or --ssh-password for %s", err, se.Host)
		}
	}
	return err
}

// parseArgs layers defaults, the --config file, GOCHAT_* variables and
// flags, in increasing precedence.
func parseArgs(args []string) (*config.Config, *options, *flag.FlagSet, error) {
	cfg := config.Default()
	if path := configPath(args); path != "" {
		if err := config.LoadFile(path, cfg); err != nil {
			return nil, nil, nil, err
		}
	}
	config.LoadFromEnv(cfg)

	opts := &options{}
	fs := flag.NewFlagSet("gochat", flag.ContinueOnError)

	// ── identity ─────────────────────────────────────────────────
	fs.StringVarP(&cfg.User, "user", "u", cfg.User, "User name sent on login")
	fs.StringVar(&cfg.Password, "password", cfg.Password, "Password sent on login")
	fs.BoolVarP(&cfg.AskPassword, "ask-password", "P", cfg.AskPassword, "Prompt for the password")
	fs.StringVar(&cfg.Email, "email", cfg.Email, "Email sent on login")
	fs.StringVar(&cfg.Image, "image", cfg.Image, "Avatar image reference sent on login")

	// ── connection ───────────────────────────────────────────────
	fs.BoolVarP(&cfg.NoDNS, "no-dns", "n", cfg.NoDNS, "Numeric-only, no DNS resolution")
	var timeoutSec int
	fs.IntVarP(&timeoutSec, "timeout", "w", 0, "Dial timeout in seconds")
	fs.IntVar(&cfg.Retries, "retries", cfg.Retries, "Extra dial attempts after the first")
	var configFile string
	fs.StringVar(&configFile, "config", "", "TOML profile file")

	// ── SSH tunnel ───────────────────────────────────────────────
	fs.StringVarP(&cfg.TunnelSpec, "tunnel", "T", cfg.TunnelSpec, "SSH tunnel via [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", cfg.SSHPassword, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", cfg.KnownHostsPath, "Custom known_hosts path")

	// ── output ───────────────────────────────────────────────────
	var verbose int
	fs.CountVarP(&verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.BoolVar(&cfg.ShowMetrics, "metrics", cfg.ShowMetrics, "Print session metrics as JSON on exit")

	fs.BoolVar(&opts.dryRun, "dry-run", false, "Validate the configuration and exit")
	fs.BoolVar(&opts.showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&opts.showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return nil, nil, nil, err
	}

	if timeoutSec > 0 {
		cfg.Timeout = time.Duration(timeoutSec) * time.Second
	}
	if verbose > 0 {
		cfg.Verbose = verbose
	}

	if err := parsePositional(cfg, fs.Args()); err != nil {
		return nil, nil, nil, err
	}
	return cfg, opts, fs, nil
}

// ── helpers ──────────────────────────────────────────────────────────

// configPath finds --config ahead of flag parsing so the file can sit
// below env and flags.
func configPath(args []string) string {
	for i, a := range args {
		if a == "--" {
			break
		}
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// parsePositional reads [host [port]].  Either may come from the
// profile or the environment instead.
func parsePositional(cfg *config.Config, remaining []string) error {
	switch len(remaining) {
	case 0:
	case 1:
		cfg.Host = remaining[0]
	case 2:
		cfg.Host = remaining[0]
		port, err := config.ParsePort(remaining[1])
		if err != nil {
			return fmt.Errorf("port: %w", err)
		}
		cfg.Port = port
	default:
		return fmt.Errorf("too many arguments (use --help for usage)")
	}
	return nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `GoChat – line-oriented chat client v%s

Usage:
  gochat [options] <host> [port]              Connect (port defaults to %d)
  gochat -T user@gateway <host> [port]        Connect through an SSH tunnel

Once logged in, type "@name message" to send and %q to leave.
Received messages are printed as "from: text".

Options:
`, version, config.DefaultChatPort, capability.QuitCommand)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Environment:
  GOCHAT_HOST, GOCHAT_PORT, GOCHAT_USER, GOCHAT_PASSWORD, GOCHAT_EMAIL,
  GOCHAT_IMAGE, GOCHAT_TUNNEL, ... override the --config profile;
  flags override both.

Examples:
  gochat -u alice --email alice@example.com chat.example.com
  gochat -u bob -P chat.example.com 6000
  gochat -T admin@bastion -u ops chat.internal
  gochat --config ~/.gochat.toml -v
`)
}
