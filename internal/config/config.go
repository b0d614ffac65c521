// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
	"time"
)

// =============================================================================
// NETWORK CONFIGURATION
// =============================================================================

// NetworkConfig holds the UDP session server's bind address and capacity
// limits.
type NetworkConfig struct {
	Address        string
	Port           int
	MaxSessions    int
	MaxPlayers     int
	UDPTimeout     time.Duration
	SessionTimeout time.Duration
}

// DefaultNetwork returns the default network configuration.
func DefaultNetwork() NetworkConfig {
	return NetworkConfig{
		Address:        "0.0.0.0",
		Port:           7667,
		MaxSessions:    64,
		MaxPlayers:     16,
		UDPTimeout:     30 * time.Second,
		SessionTimeout: 60 * time.Second,
	}
}

// NetworkFromEnv returns network configuration with environment variable
// overrides.
func NetworkFromEnv() NetworkConfig {
	cfg := DefaultNetwork()

	if a := os.Getenv("ADDRESS"); a != "" {
		cfg.Address = a
	}
	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if ms := getEnvInt("MAX_SESSIONS", 0); ms > 0 {
		cfg.MaxSessions = ms
	}
	if mp := getEnvInt("MAX_PLAYERS", 0); mp > 0 {
		cfg.MaxPlayers = mp
	}
	if t := getEnvSeconds("UDP_SESSION_TIMEOUT", 0); t > 0 {
		cfg.UDPTimeout = t
	}
	if t := getEnvSeconds("GAME_SESSION_TIMEOUT", 0); t > 0 {
		cfg.SessionTimeout = t
	}

	return cfg
}

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds the fixed-tick game loop's rate and RNG seed.
type SimConfig struct {
	UpdateFrequency float64 // ticks per second
	RandomSeed      int64
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		UpdateFrequency: 60.0,
		RandomSeed:      0, // 0 means "seed from time" (see gameloop.NewLoop)
	}
}

// SimFromEnv returns simulation configuration with environment variable
// overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if f := getEnvFloat("UPDATE_FREQUENCY", 0); f > 0 {
		cfg.UpdateFrequency = f
	}
	if s := getEnvInt64("RANDOM_SEED", 0); s != 0 {
		cfg.RandomSeed = s
	}

	return cfg
}

// UpdatePeriod is the fixed tick duration derived from UpdateFrequency.
func (s SimConfig) UpdatePeriod() time.Duration {
	return time.Duration(float64(time.Second) / s.UpdateFrequency)
}

// =============================================================================
// ADMIN HTTP CONFIGURATION
// =============================================================================

// AdminConfig holds the admin HTTP surface's bind address and connection cap.
type AdminConfig struct {
	Address  string
	Port     int
	MaxConns int
}

// DefaultAdmin returns the default admin HTTP configuration.
func DefaultAdmin() AdminConfig {
	return AdminConfig{
		Address:  "127.0.0.1",
		Port:     7668,
		MaxConns: 32,
	}
}

// AdminFromEnv returns admin HTTP configuration with environment variable
// overrides.
func AdminFromEnv() AdminConfig {
	cfg := DefaultAdmin()

	if a := os.Getenv("HTTP_ADDRESS"); a != "" {
		cfg.Address = a
	}
	if p := getEnvInt("HTTP_PORT", 0); p > 0 {
		cfg.Port = p
	}
	if mc := getEnvInt("HTTP_MAX_CONNECTIONS", 0); mc > 0 {
		cfg.MaxConns = mc
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration (spec.md §6's
// process-argument surface: address, port, max_sessions, max_players,
// udp_session_timeout, game_session_timeout, update_frequency, random_seed,
// http_address, http_port, http_max_connections).
type AppConfig struct {
	Network NetworkConfig
	Sim     SimConfig
	Admin   AdminConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Network: NetworkFromEnv(),
		Sim:     SimFromEnv(),
		Admin:   AdminFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvSeconds(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return time.Duration(f * float64(time.Second))
		}
	}
	return defaultVal
}
