package config

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/aristath/taskboard/internal/taskgraph"
)

// BoardConfig is the top-level configuration.
// Empty fields are left to lower-precedence sources when configs are merged.
type BoardConfig struct {
	LockPolicy string `json:"lock_policy,omitempty" toml:"lock_policy,omitempty"` // "ignore" or "reject"
	Locale     string `json:"locale,omitempty" toml:"locale,omitempty"`           // BCP 47 tag for group sorting
	DataFile   string `json:"data_file,omitempty" toml:"data_file,omitempty"`     // Task list used when no file is given
	Color      *bool  `json:"color,omitempty" toml:"color,omitempty"`             // Styled terminal output
}

// Policy returns the configured lock policy.
func (c *BoardConfig) Policy() (taskgraph.LockPolicy, error) {
	return taskgraph.ParseLockPolicy(c.LockPolicy)
}

// Language returns the configured collation locale.
func (c *BoardConfig) Language() (language.Tag, error) {
	if c.Locale == "" {
		return language.English, nil
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return tag, nil
}

// ColorEnabled reports whether styled output is on. Defaults to true.
func (c *BoardConfig) ColorEnabled() bool {
	return c.Color == nil || *c.Color
}

// Validate checks that every set value can be converted.
func (c *BoardConfig) Validate() error {
	if _, err := c.Policy(); err != nil {
		return err
	}
	if _, err := c.Language(); err != nil {
		return err
	}
	return nil
}

// merge copies the non-empty fields of other over c.
func (c *BoardConfig) merge(other *BoardConfig) {
	if other.LockPolicy != "" {
		c.LockPolicy = other.LockPolicy
	}
	if other.Locale != "" {
		c.Locale = other.Locale
	}
	if other.DataFile != "" {
		c.DataFile = other.DataFile
	}
	if other.Color != nil {
		color := *other.Color
		c.Color = &color
	}
}
