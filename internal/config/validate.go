package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/fortiaudit/fortiaudit/pkg/fortiparse"
)

// Formats lists the report formats the report package can write.
var Formats = []string{"text", "json", "yaml", "html", "csv"}

// ValidateDialect checks that s names a supported dialect.
func ValidateDialect(s string) error {
	_, err := fortiparse.ParseDialect(s)
	return err
}

// ValidateFormat checks that s is a known report format.
func ValidateFormat(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range Formats {
		if s == f {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (expected one of %s)", s, strings.Join(Formats, ", "))
}

// ValidateDriver checks that s is a supported history database driver.
func ValidateDriver(s string) error {
	switch strings.TrimSpace(s) {
	case "sqlite", "postgres":
		return nil
	case "":
		return fmt.Errorf("driver is required")
	default:
		return fmt.Errorf("unsupported driver %q (expected sqlite or postgres)", s)
	}
}

// ValidateHostPort checks that s is a valid host:port address.
func ValidateHostPort(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("address is required")
	}
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		return fmt.Errorf("invalid address (expected host:port): %w", err)
	}
	if host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	return nil
}

// ValidateNonEmpty checks that s is not empty after trimming whitespace.
func ValidateNonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("value is required")
	}
	return nil
}
