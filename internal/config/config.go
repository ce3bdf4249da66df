// Package config loads ctrev settings from YAML, .env, and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sprite-ai/ctrev/internal/autoreview"
	"github.com/sprite-ai/ctrev/internal/model"
	"github.com/sprite-ai/ctrev/internal/structtext"
)

// Environment variables that override file settings.
const (
	EnvDenyTerms    = "CTREV_DENY_TERMS"
	EnvAllowedHosts = "CTREV_ALLOWED_HOSTS"
	EnvConcurrency  = "CTREV_CONCURRENCY"
	EnvMaxDepth     = "CTREV_MAX_DEPTH"
)

type Config struct {
	Validator Validator `yaml:"validator"`
	Review    Review    `yaml:"review"`
	Server    Server    `yaml:"server"`
}

type Validator struct {
	MinTotalTextLength  int  `yaml:"min_total_text_length"`
	MaxTotalTextLength  int  `yaml:"max_total_text_length"`
	MaxDepth            int  `yaml:"max_depth"`
	MaxTextNodeLength   int  `yaml:"max_text_node_length"`
	RequireDocumentRoot bool `yaml:"require_document_root"`
}

type Review struct {
	Concurrency int        `yaml:"concurrency"`
	Profanity   Profanity  `yaml:"profanity"`
	LinkSafety  LinkSafety `yaml:"link_safety"`
	Sensitive   Sensitive  `yaml:"sensitive"`
	Formatting  Formatting `yaml:"formatting"`
}

type Profanity struct {
	Terms    []string `yaml:"terms"`
	Severity string   `yaml:"severity"`
	Category string   `yaml:"category"`
}

type LinkSafety struct {
	AllowedHosts []string `yaml:"allowed_hosts"`
	Severity     string   `yaml:"severity"`
	ScanText     bool     `yaml:"scan_text"`
}

type Sensitive struct {
	Enabled bool `yaml:"enabled"`
}

type Formatting struct {
	Enabled bool `yaml:"enabled"`
}

type Server struct {
	Addr string `yaml:"addr"`
	Port int    `yaml:"port"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	vo := structtext.DefaultValidatorOptions()
	return &Config{
		Validator: Validator{
			MinTotalTextLength:  vo.MinTotalTextLength,
			MaxTotalTextLength:  vo.MaxTotalTextLength,
			MaxDepth:            vo.MaxDepth,
			MaxTextNodeLength:   vo.MaxTextNodeLength,
			RequireDocumentRoot: vo.RequireDocumentRoot,
		},
		Review: Review{
			Concurrency: 4,
			Profanity:   Profanity{Severity: "critical", Category: "policy_violation"},
			LinkSafety:  LinkSafety{Severity: "critical", ScanText: true},
			Sensitive:   Sensitive{Enabled: true},
			Formatting:  Formatting{Enabled: true},
		},
		Server: Server{Addr: "127.0.0.1", Port: 6143},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDenyTerms); v != "" {
		c.Review.Profanity.Terms = splitList(v)
	}
	if v := os.Getenv(EnvAllowedHosts); v != "" {
		c.Review.LinkSafety.AllowedHosts = splitList(v)
	}
	if v := os.Getenv(EnvConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvConcurrency, err)
		}
		c.Review.Concurrency = n
	}
	if v := os.Getenv(EnvMaxDepth); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxDepth, err)
		}
		c.Validator.MaxDepth = n
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	v := c.Validator
	if v.MinTotalTextLength < 0 || v.MaxTotalTextLength < 0 || v.MaxDepth < 0 {
		errs = append(errs, errors.New("validator limits must not be negative"))
	}
	if v.MaxTotalTextLength < v.MinTotalTextLength {
		errs = append(errs, fmt.Errorf("validator max_total_text_length %d is below min %d", v.MaxTotalTextLength, v.MinTotalTextLength))
	}
	if c.Review.Concurrency < 0 {
		errs = append(errs, errors.New("review concurrency must not be negative"))
	}
	if _, err := model.ParseSeverity(c.Review.Profanity.Severity); err != nil {
		errs = append(errs, fmt.Errorf("review.profanity: %w", err))
	}
	if _, err := model.ParseCategory(c.Review.Profanity.Category); err != nil {
		errs = append(errs, fmt.Errorf("review.profanity: %w", err))
	}
	if _, err := model.ParseSeverity(c.Review.LinkSafety.Severity); err != nil {
		errs = append(errs, fmt.Errorf("review.link_safety: %w", err))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port %d out of range", c.Server.Port))
	}
	return errors.Join(errs...)
}

// ValidatorOptions converts the validator section.
func (c *Config) ValidatorOptions() structtext.ValidatorOptions {
	return structtext.ValidatorOptions{
		MinTotalTextLength:  c.Validator.MinTotalTextLength,
		MaxTotalTextLength:  c.Validator.MaxTotalTextLength,
		MaxDepth:            c.Validator.MaxDepth,
		MaxTextNodeLength:   c.Validator.MaxTextNodeLength,
		RequireDocumentRoot: c.Validator.RequireDocumentRoot,
	}
}

// Reviewers builds the registry described by the review section. The
// profanity and link reviewers are registered only when they have a list to
// check against.
func (c *Config) Reviewers() (*autoreview.Registry, error) {
	reg := autoreview.NewRegistry()
	p := c.Review.Profanity
	if len(p.Terms) > 0 {
		sev, err := model.ParseSeverity(p.Severity)
		if err != nil {
			return nil, err
		}
		cat, err := model.ParseCategory(p.Category)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(autoreview.NewProfanityReviewer(autoreview.ProfanityConfig{Terms: p.Terms, Severity: sev, Category: cat})); err != nil {
			return nil, err
		}
	}
	l := c.Review.LinkSafety
	if len(l.AllowedHosts) > 0 {
		sev, err := model.ParseSeverity(l.Severity)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(autoreview.NewLinkSafetyReviewer(autoreview.LinkSafetyConfig{AllowedHosts: l.AllowedHosts, Severity: sev, ScanText: l.ScanText})); err != nil {
			return nil, err
		}
	}
	if c.Review.Sensitive.Enabled {
		if err := reg.Register(autoreview.NewSensitiveReviewer()); err != nil {
			return nil, err
		}
	}
	if c.Review.Formatting.Enabled {
		if err := reg.Register(autoreview.NewFormattingReviewer()); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// ServerAddr returns host:port for the API server.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Addr, c.Server.Port)
}
