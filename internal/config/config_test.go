package config

import (
	"testing"
	"time"
)

func fp(v float64) *float64 { return &v }

func validConfig() Config {
	return Config{
		Letters:    2,
		TLDs:       []string{".com"},
		Suffixes:   []string{""},
		BatchSize:  50,
		Delay:      2 * time.Second,
		OutputPath: "available.json",
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero letters", func(c *Config) { c.Letters = 0 }},
		{"too many letters", func(c *Config) { c.Letters = 11 }},
		{"no tlds", func(c *Config) { c.TLDs = nil }},
		{"batch too small", func(c *Config) { c.BatchSize = 0 }},
		{"batch too large", func(c *Config) { c.BatchSize = 51 }},
		{"negative delay", func(c *Config) { c.Delay = -time.Second }},
		{"negative ceiling", func(c *Config) { c.MaxPrice = fp(-1) }},
		{"empty output", func(c *Config) { c.OutputPath = "" }},
	}
	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestLoadCredentials_FromEnv(t *testing.T) {
	t.Setenv("GODADDY_API_KEY", " key ")
	t.Setenv("GODADDY_API_SECRET", "secret")

	creds, err := LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials: %v", err)
	}
	if creds.APIKey != "key" || creds.APISecret != "secret" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
}

func TestLoadCredentials_Missing(t *testing.T) {
	t.Setenv("GODADDY_API_KEY", "")
	t.Setenv("GODADDY_API_SECRET", "")

	if _, err := LoadCredentials(); err == nil {
		t.Fatalf("expected error for missing credentials")
	}
}
