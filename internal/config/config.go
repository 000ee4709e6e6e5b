// Package config loads credentials and run settings via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"combohunt/internal/generate"
)

// Credentials authenticate against the availability API. Their absence is
// a fatal configuration error raised before any network activity.
type Credentials struct {
	APIKey    string
	APISecret string
}

// Config is the immutable run configuration threaded through the scanner.
type Config struct {
	Letters       int
	TLDs          []string
	Suffixes      []string
	MaxPrice      *float64 // nil = unbounded
	BatchSize     int
	Delay         time.Duration
	Timeout       time.Duration
	Verbose       bool
	OnlyAvailable bool
	OutputPath    string
	BaseURL       string
	Credentials   Credentials
}

// LoadCredentials reads GODADDY_API_KEY and GODADDY_API_SECRET from the
// process environment, falling back to a .env file in the working
// directory (environment wins).
func LoadCredentials() (Credentials, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	// The .env file is optional.
	_ = v.ReadInConfig()
	v.AutomaticEnv()

	creds := Credentials{
		APIKey:    strings.TrimSpace(v.GetString("GODADDY_API_KEY")),
		APISecret: strings.TrimSpace(v.GetString("GODADDY_API_SECRET")),
	}
	if creds.APIKey == "" || creds.APISecret == "" {
		return Credentials{}, fmt.Errorf("missing API credentials (set GODADDY_API_KEY and GODADDY_API_SECRET in the environment or a .env file)")
	}
	return creds, nil
}

// Validate enforces the documented limits.
func (c Config) Validate() error {
	if c.Letters < 1 || c.Letters > generate.MaxLetters {
		return fmt.Errorf("letters must be between 1 and %d", generate.MaxLetters)
	}
	if len(c.TLDs) == 0 {
		return fmt.Errorf("no valid TLDs were provided")
	}
	if c.BatchSize < 1 || c.BatchSize > 50 {
		return fmt.Errorf("batch-size must be between 1 and 50")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative")
	}
	if c.MaxPrice != nil && *c.MaxPrice < 0 {
		return fmt.Errorf("--to must be a positive number")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output path must not be empty")
	}
	return nil
}
