package config

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// maxSheetNameLength is the spreadsheet limit on sheet names, in characters.
const maxSheetNameLength = 31

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if err := c.Verifier.validate(); err != nil {
		return fmt.Errorf("verifier: %w", err)
	}

	if strings.TrimSpace(c.Export.Path) == "" {
		return fmt.Errorf("export.path must not be empty")
	}
	if err := validateSheetName(c.Export.SheetName); err != nil {
		return fmt.Errorf("export.sheet_name: %w", err)
	}

	if c.WebSocket.ReadLimit <= 0 {
		return fmt.Errorf("websocket.read_limit must be > 0 (got %d)", c.WebSocket.ReadLimit)
	}

	if c.RateLimit.PerMinute < 0 {
		return fmt.Errorf("ratelimit.per_minute must be >= 0 (got %d)", c.RateLimit.PerMinute)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}

	return nil
}

func (v *VerifierConfig) validate() error {
	u, err := url.Parse(v.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL (got %q)", v.BaseURL)
	}
	if v.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", v.Timeout)
	}
	return nil
}

func validateSheetName(name string) error {
	if strings.TrimSpace(name) == "" || utf8.RuneCountInString(name) > maxSheetNameLength {
		return fmt.Errorf("must be 1..%d characters (got %q)", maxSheetNameLength, name)
	}
	if strings.ContainsAny(name, `:\/?*[]`) {
		return fmt.Errorf("must not contain any of : \\ / ? * [ ] (got %q)", name)
	}
	if strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
		return fmt.Errorf("must not start or end with a single quote (got %q)", name)
	}
	return nil
}
