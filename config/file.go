package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors the TOML profile layout:
//
//	host = "chat.example.com"
//	port = 5000
//	timeout = "10s"
//	user = "alice"
//	email = "alice@example.com"
//	image = "avatars/alice.png"
//	tunnel = "admin@bastion.example.com"
type fileConfig struct {
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Timeout       string `toml:"timeout"`
	Retries       int    `toml:"retries"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	Email         string `toml:"email"`
	Image         string `toml:"image"`
	Tunnel        string `toml:"tunnel"`
	SSHKey        string `toml:"ssh_key"`
	SSHAgent      bool   `toml:"ssh_agent"`
	StrictHostKey bool   `toml:"strict_hostkey"`
	KnownHosts    string `toml:"known_hosts"`
	Verbose       int    `toml:"verbose"`
}

// LoadFile overlays the keys defined in the TOML file at path onto cfg.
// Keys absent from the file leave cfg untouched.
func LoadFile(path string, cfg *Config) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("host") {
		cfg.Host = strings.TrimSpace(raw.Host)
	}
	if meta.IsDefined("port") {
		cfg.Port = raw.Port
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if meta.IsDefined("retries") {
		cfg.Retries = raw.Retries
	}
	if meta.IsDefined("user") {
		cfg.User = raw.User
	}
	if meta.IsDefined("password") {
		cfg.Password = raw.Password
	}
	if meta.IsDefined("email") {
		cfg.Email = raw.Email
	}
	if meta.IsDefined("image") {
		cfg.Image = raw.Image
	}
	if meta.IsDefined("tunnel") {
		cfg.TunnelSpec = strings.TrimSpace(raw.Tunnel)
	}
	if meta.IsDefined("ssh_key") {
		cfg.SSHKeyPath = raw.SSHKey
	}
	if meta.IsDefined("ssh_agent") {
		cfg.UseSSHAgent = raw.SSHAgent
	}
	if meta.IsDefined("strict_hostkey") {
		cfg.StrictHostKey = raw.StrictHostKey
	}
	if meta.IsDefined("known_hosts") {
		cfg.KnownHostsPath = raw.KnownHosts
	}
	if meta.IsDefined("verbose") {
		cfg.Verbose = raw.Verbose
	}
	return nil
}
