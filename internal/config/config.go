package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nsxzhou/secretshare/backend/internal/cipher"
)

// Config aggregates every runtime setting of the service.
type Config struct {
	Server  ServerConfig
	Session SessionConfig
	Cipher  CipherConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	cipherCfg, err := loadCipherConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Session: session, Cipher: cipherCfg}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}

	if strings.Contains(port, ":") {
		// Accept ":8000" or "127.0.0.1:8000" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// SessionConfig controls reconstruction-session expiry.
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

func loadSessionConfig() (SessionConfig, error) {
	ttlMinutes := 24 * 60
	if override, err := parseOptionalIntEnv("SESSION_TTL_MINUTES"); err != nil {
		return SessionConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return SessionConfig{}, fmt.Errorf("SESSION_TTL_MINUTES must be positive, got %d", *override)
		}
		ttlMinutes = *override
	}

	sweepMinutes := 10
	if override, err := parseOptionalIntEnv("SESSION_SWEEP_MINUTES"); err != nil {
		return SessionConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return SessionConfig{}, fmt.Errorf("SESSION_SWEEP_MINUTES must be positive, got %d", *override)
		}
		sweepMinutes = *override
	}

	return SessionConfig{
		TTL:           time.Duration(ttlMinutes) * time.Minute,
		SweepInterval: time.Duration(sweepMinutes) * time.Minute,
	}, nil
}

// CipherConfig holds the defaults applied when a receiver spec asks for
// "auto" or omits a parameter.
type CipherConfig struct {
	DefaultCipher string
	CaesarShift   int
	AffineA       int
	AffineB       int
}

func loadCipherConfig() (CipherConfig, error) {
	name := getEnvOrDefault("DEFAULT_CIPHER", cipher.Caesar)
	if !cipher.Supported(name) {
		return CipherConfig{}, fmt.Errorf("DEFAULT_CIPHER %q is not a supported cipher", name)
	}

	shift := 3
	if override, err := parseOptionalIntEnv("DEFAULT_CAESAR_SHIFT"); err != nil {
		return CipherConfig{}, err
	} else if override != nil {
		shift = *override
	}

	a := 5
	if override, err := parseOptionalIntEnv("DEFAULT_AFFINE_A"); err != nil {
		return CipherConfig{}, err
	} else if override != nil {
		a = *override
	}

	b := 8
	if override, err := parseOptionalIntEnv("DEFAULT_AFFINE_B"); err != nil {
		return CipherConfig{}, err
	} else if override != nil {
		b = *override
	}

	return CipherConfig{
		DefaultCipher: name,
		CaesarShift:   shift,
		AffineA:       a,
		AffineB:       b,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
