package types

import (
	"fmt"

	"github.com/veridian-labs/vlin/internal/token"
)

// Severity represents how a finding from a rule is reported.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityOff:
		return "off"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// ParseSeverity converts a configuration string into a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "error":
		return SeverityError, nil
	case "warning":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	case "off":
		return SeverityOff, nil
	}
	return SeverityError, fmt.Errorf("unknown severity %q", s)
}

// UnmarshalYAML lets severities appear as plain strings in config files.
func (s *Severity) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	sev, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

func (s Severity) MarshalYAML() (any, error) {
	return s.String(), nil
}

// ConfigRule is the per-rule section of a configuration file.
type ConfigRule struct {
	Severity Severity          `yaml:"severity"`
	Params   map[string]string `yaml:"params,omitempty"`
}

// Issue represents a lint issue found in the source base.
type Issue struct {
	Rule     string         `json:"rule"`
	Severity Severity       `json:"severity"`
	Filename string         `json:"filename"`
	Message  string         `json:"message"`
	Start    token.Position `json:"start"`
	End      token.Position `json:"end"`
}
