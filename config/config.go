package config

import (
	"flag"
	"fmt"
	"os"
)

// Config holds all application configuration.
type Config struct {
	Port         int    `config:"port"`
	ReadTimeout  int    `config:"read.timeout"`
	WriteTimeout int    `config:"write.timeout"`
	IdleTimeout  int    `config:"idle.timeout"`
	Env          string `config:"env"`
}

// New resolves configuration in three layers, lowest precedence first:
// flag defaults, an optional -config JSON file, then HEADPARSE_-prefixed
// environment variables. A file is how an operator checks in a known-good
// config; env vars are what the orchestrator that starts the process
// overrides at deploy time, so they win last.
func New() *Config {
	cfg := &Config{}

	flag.IntVar(&cfg.Port, "port", 8080, "HTTP server port")
	flag.IntVar(&cfg.ReadTimeout, "read-timeout", 10, "HTTP read timeout (seconds)")
	flag.IntVar(&cfg.WriteTimeout, "write-timeout", 30, "HTTP write timeout (seconds)")
	flag.IntVar(&cfg.IdleTimeout, "idle-timeout", 60, "keep-alive idle timeout (seconds)")
	flag.StringVar(&cfg.Env, "env", "development", "Environment (development/production)")
	configFile := flag.String("config", "", "JSON config file to load before environment overrides")
	dumpConfig := flag.String("dump-config", "", "write the resolved configuration to this JSON file")

	flag.Parse()

	m := NewManager()

	if *configFile != "" {
		if err := m.LoadFromJSON(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
		} else if err := m.Unmarshal("", cfg); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
		}
	}

	m.LoadFromEnv("HEADPARSE")
	cfg.Port = m.GetInt("port", cfg.Port)
	cfg.ReadTimeout = m.GetInt("read.timeout", cfg.ReadTimeout)
	cfg.WriteTimeout = m.GetInt("write.timeout", cfg.WriteTimeout)
	cfg.IdleTimeout = m.GetInt("idle.timeout", cfg.IdleTimeout)
	if env := m.GetString("env", cfg.Env); env != "" {
		cfg.Env = env
	}

	if *dumpConfig != "" {
		m.Set("port", cfg.Port)
		m.Set("read.timeout", cfg.ReadTimeout)
		m.Set("write.timeout", cfg.WriteTimeout)
		m.Set("idle.timeout", cfg.IdleTimeout)
		m.Set("env", cfg.Env)
		if err := m.SaveToJSON(*dumpConfig); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
		}
	}

	return cfg
}
