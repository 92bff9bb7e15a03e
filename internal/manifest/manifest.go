// Package manifest serialises a registry catalog so tools outside this
// process agree on command ids. Two encodings are supported: YAML for
// review and deterministic CBOR for machines.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/danmuck/scalp/internal/codec"
	"github.com/danmuck/scalp/internal/protocol"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Version is bumped whenever the manifest layout changes.
const Version = 1

var (
	ErrUnknownFormat = errors.New("manifest: unknown format")
	ErrVersion       = errors.New("manifest: unsupported version")
	ErrMismatch      = errors.New("manifest: registry mismatch")
)

type Format string

const (
	YAML Format = "yaml"
	CBOR Format = "cbor"
)

// ParseFormat accepts a format name or a file extension.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), ".")) {
	case "yaml", "yml":
		return YAML, nil
	case "cbor":
		return CBOR, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
}

type Define struct {
	Name  string `yaml:"name" cbor:"name"`
	Value uint8  `yaml:"value" cbor:"value"`
}

type Command struct {
	ID      uint8    `yaml:"id" cbor:"id"`
	Name    string   `yaml:"name" cbor:"name"`
	Group   string   `yaml:"group" cbor:"group"`
	Doc     string   `yaml:"doc,omitempty" cbor:"doc,omitempty"`
	Defines []Define `yaml:"defines,omitempty" cbor:"defines,omitempty"`
}

type Offsets struct {
	Dest int `yaml:"dest" cbor:"dest"`
	Orig int `yaml:"orig" cbor:"orig"`
	TID  int `yaml:"t_id" cbor:"t_id"`
	Cmde int `yaml:"cmde" cbor:"cmde"`
	Stat int `yaml:"stat" cbor:"stat"`
	Argv int `yaml:"argv" cbor:"argv"`
}

// Manifest is the serialised form of protocol.Catalog.
type Manifest struct {
	Version   int       `yaml:"version" cbor:"version"`
	NbArgs    int       `yaml:"nb_args" cbor:"nb_args"`
	FrameSize int       `yaml:"frame_size" cbor:"frame_size"`
	Offsets   Offsets   `yaml:"offsets" cbor:"offsets"`
	Commands  []Command `yaml:"commands" cbor:"commands"`
}

func FromCatalog(c protocol.Catalog) Manifest {
	m := Manifest{
		Version:   Version,
		NbArgs:    c.NbArgs,
		FrameSize: c.FrameSize,
		Offsets:   Offsets(c.Offsets),
		Commands:  make([]Command, 0, len(c.Commands)),
	}
	for _, e := range c.Commands {
		cmd := Command{ID: e.ID, Name: e.Name, Group: e.Group, Doc: e.Doc}
		for _, d := range e.Defines {
			cmd.Defines = append(cmd.Defines, Define{Name: d.Name, Value: d.Value})
		}
		m.Commands = append(m.Commands, cmd)
	}
	return m
}

// Catalog converts back to the generator-facing view.
func (m Manifest) Catalog() protocol.Catalog {
	c := protocol.Catalog{
		NbArgs:    m.NbArgs,
		FrameSize: m.FrameSize,
		Offsets:   protocol.Offsets(m.Offsets),
		Commands:  make([]protocol.CatalogEntry, 0, len(m.Commands)),
	}
	for _, cmd := range m.Commands {
		e := protocol.CatalogEntry{ID: cmd.ID, Name: cmd.Name, Group: cmd.Group, Doc: cmd.Doc}
		for _, d := range cmd.Defines {
			e.Defines = append(e.Defines, protocol.Define{Name: d.Name, Value: d.Value})
		}
		c.Commands = append(c.Commands, e)
	}
	return c
}

func Encode(w io.Writer, m Manifest, f Format) error {
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("manifest: yaml encode: %w", err)
		}
		return enc.Close()
	case CBOR:
		data, err := codec.Marshal(m)
		if err != nil {
			return fmt.Errorf("manifest: cbor encode: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

func Decode(r io.Reader, f Format) (Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	switch f {
	case YAML:
		err = yaml.Unmarshal(data, &m)
	case CBOR:
		err = codec.Unmarshal(data, &m)
	default:
		return Manifest{}, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: %s decode: %w", f, err)
	}
	if m.Version != Version {
		return Manifest{}, fmt.Errorf("%w: %d", ErrVersion, m.Version)
	}
	return m, nil
}

// WriteFile encodes the catalog to path in format f.
func WriteFile(path string, c protocol.Catalog, f Format) error {
	var buf bytes.Buffer
	if err := Encode(&buf, FromCatalog(c), f); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	log.Info().Msgf("manifest.WriteFile path=%s format=%s commands=%d", path, f, len(c.Commands))
	return nil
}

// LoadFile reads a manifest, picking the format from the file extension.
func LoadFile(path string) (Manifest, error) {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return Manifest{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: %w", err)
	}
	defer file.Close()
	return Decode(file, f)
}

// Verify checks that reg assigns the same ids to the same names as m.
func Verify(reg *protocol.Registry, m Manifest) error {
	if reg.Len() != len(m.Commands) {
		log.Error().Msgf("manifest.Verify count registry=%d manifest=%d", reg.Len(), len(m.Commands))
		return fmt.Errorf("%w: %d commands registered, manifest lists %d", ErrMismatch, reg.Len(), len(m.Commands))
	}
	for _, want := range m.Commands {
		cmd, ok := reg.LookupName(want.Name)
		if !ok {
			return fmt.Errorf("%w: %s not registered", ErrMismatch, want.Name)
		}
		if cmd.ID() != want.ID {
			log.Error().Msgf("manifest.Verify name=%s registry=0x%02x manifest=0x%02x", want.Name, cmd.ID(), want.ID)
			return fmt.Errorf("%w: %s is 0x%02x, manifest says 0x%02x", ErrMismatch, want.Name, cmd.ID(), want.ID)
		}
	}
	return nil
}
