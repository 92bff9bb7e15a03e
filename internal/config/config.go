package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/scalp/internal/catalog"
	"github.com/danmuck/scalp/internal/logging"
	"github.com/danmuck/scalp/internal/protocol"
)

var ErrInvalidConfig = errors.New("config: invalid")

// ValidationError names the offending key of a rejected project file.
type ValidationError struct {
	Key    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInvalidConfig, e.Key, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidConfig }

// Manifest encodings.
const (
	FormatYAML = "yaml"
	FormatCBOR = "cbor"
)

// ProjectConfig selects the message groups of a node and where generated
// artifacts go.
type ProjectConfig struct {
	Project        string
	Groups         []string
	ExtraGroups    []string
	LogLevel       string
	HeaderPath     string
	SourcePath     string
	ManifestPath   string
	ManifestFormat string
	CapturePath    string
}

type fileConfig struct {
	Project        string   `toml:"project"`
	Groups         []string `toml:"groups"`
	ExtraGroups    []string `toml:"extra_groups"`
	LogLevel       string   `toml:"log_level"`
	HeaderPath     string   `toml:"header_path"`
	SourcePath     string   `toml:"source_path"`
	ManifestPath   string   `toml:"manifest_path"`
	ManifestFormat string   `toml:"manifest_format"`
	CapturePath    string   `toml:"capture_path"`
}

func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Project:        "scalp",
		LogLevel:       "info",
		HeaderPath:     "fr_cmdes.h",
		SourcePath:     "fr_cmdes.c",
		ManifestPath:   "catalog.yaml",
		ManifestFormat: FormatYAML,
		CapturePath:    "capture.cbor",
	}
}

// LoadProjectConfig applies the keys present in path over the defaults.
func LoadProjectConfig(path string) (ProjectConfig, error) {
	cfg := DefaultProjectConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return ProjectConfig{}, fmt.Errorf("load project config (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return ProjectConfig{}, &ValidationError{Key: undecoded[0].String(), Reason: "unknown key"}
	}

	if meta.IsDefined("project") {
		cfg.Project = strings.TrimSpace(raw.Project)
	}
	if meta.IsDefined("groups") {
		cfg.Groups = normalizeNames(raw.Groups)
	}
	if meta.IsDefined("extra_groups") {
		cfg.ExtraGroups = normalizeNames(raw.ExtraGroups)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("header_path") {
		cfg.HeaderPath = strings.TrimSpace(raw.HeaderPath)
	}
	if meta.IsDefined("source_path") {
		cfg.SourcePath = strings.TrimSpace(raw.SourcePath)
	}
	if meta.IsDefined("manifest_path") {
		cfg.ManifestPath = strings.TrimSpace(raw.ManifestPath)
	}
	if meta.IsDefined("manifest_format") {
		cfg.ManifestFormat = strings.ToLower(strings.TrimSpace(raw.ManifestFormat))
	}
	if meta.IsDefined("capture_path") {
		cfg.CapturePath = strings.TrimSpace(raw.CapturePath)
	}

	if err := ValidateProjectConfig(cfg); err != nil {
		return ProjectConfig{}, err
	}
	return cfg, nil
}

func ValidateProjectConfig(cfg ProjectConfig) error {
	if len(cfg.Groups) == 0 {
		if cfg.Project == "" {
			return &ValidationError{Key: "project", Reason: "required when groups is empty"}
		}
		if _, err := catalog.Project(cfg.Project); err != nil {
			return &ValidationError{Key: "project", Reason: err.Error()}
		}
	}
	known := catalog.GroupNames()
	for _, key := range []struct {
		name string
		list []string
	}{{"groups", cfg.Groups}, {"extra_groups", cfg.ExtraGroups}} {
		for _, g := range key.list {
			if !slices.Contains(known, g) {
				return &ValidationError{Key: key.name, Reason: fmt.Sprintf("unknown group %q", g)}
			}
		}
	}
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return &ValidationError{Key: "log_level", Reason: fmt.Sprintf("unknown level %q", cfg.LogLevel)}
	}
	switch cfg.ManifestFormat {
	case FormatYAML, FormatCBOR:
	default:
		return &ValidationError{Key: "manifest_format", Reason: fmt.Sprintf("want %s or %s, got %q", FormatYAML, FormatCBOR, cfg.ManifestFormat)}
	}
	if cfg.HeaderPath == "" {
		return &ValidationError{Key: "header_path", Reason: "required"}
	}
	if cfg.SourcePath == "" {
		return &ValidationError{Key: "source_path", Reason: "required"}
	}
	return nil
}

// GroupList resolves the ordered groups to register: the explicit list when
// set, the project's otherwise, followed by any extra group not already
// present.
func (c ProjectConfig) GroupList() ([]string, error) {
	list := slices.Clone(c.Groups)
	if len(list) == 0 {
		var err error
		if list, err = catalog.Project(c.Project); err != nil {
			return nil, err
		}
	}
	for _, g := range c.ExtraGroups {
		if !slices.Contains(list, g) {
			list = append(list, g)
		}
	}
	return list, nil
}

// Registry builds the sealed registry the config describes.
func (c ProjectConfig) Registry() (*protocol.Registry, error) {
	list, err := c.GroupList()
	if err != nil {
		return nil, err
	}
	return catalog.Build(list...)
}

func normalizeNames(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, name := range in {
		v := strings.TrimSpace(name)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
