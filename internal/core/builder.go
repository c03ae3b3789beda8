package core

import (
	"gochat/config"
	"gochat/internal/capability"
	"gochat/internal/metrics"
	"gochat/internal/retry"
	"gochat/internal/transport"
	"gochat/tunnel"
	"gochat/util"
)

// Build constructs the chat client from the given configuration.  The
// returned mode owns a fresh metrics collector.
func Build(cfg *config.Config, logger *util.Logger) (*ChatMode, error) {
	// Through a tunnel the gateway resolves the chat host.
	address, err := util.ResolveAddr(cfg.Host, cfg.Port, cfg.NoDNS && !cfg.TunnelEnabled)
	if err != nil {
		return nil, err
	}

	return &ChatMode{
		Dialer:     buildDialer(cfg, logger),
		Capability: &capability.Console{Logger: logger},
		Network:    "tcp",
		Address:    address,
		Credentials: Credentials{
			UserName: cfg.User,
			Password: cfg.Password,
			Email:    cfg.Email,
			Image:    cfg.Image,
		},
		Retry:   retry.ForDial(cfg.Retries, config.DefaultRetryDelay, config.DefaultMaxRetryDelay),
		Metrics: metrics.New(),
		Logger:  logger,
	}, nil
}

// buildDialer creates the right transport.Dialer for the given config.
func buildDialer(cfg *config.Config, logger *util.Logger) transport.Dialer {
	if cfg.TunnelEnabled {
		return transport.NewSSHDialer(&tunnel.SSHConfig{
			User:          cfg.TunnelUser,
			Host:          cfg.TunnelHost,
			Port:          cfg.TunnelPort,
			KeyPath:       cfg.SSHKeyPath,
			PromptPass:    cfg.SSHPassword,
			UseAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHostsPath,
			ConnTimeout:   cfg.Timeout,
		}, logger)
	}

	return &transport.TCPDialer{
		Timeout: cfg.Timeout,
		NoDNS:   cfg.NoDNS,
	}
}
