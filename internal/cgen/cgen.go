// Package cgen renders the C side of the frame catalog: the fr_cmdes.h
// header with layout defines, command enum and frame_t, and the fr_cmdes.c
// frame_set_N constructors.
package cgen

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/danmuck/scalp/internal/protocol"
	"github.com/rs/zerolog/log"
)

// MissingDoc is emitted for commands declared without documentation.
const MissingDoc = "description missing, please one !!!!"

// HeaderName is the include name used by the generated source.
const HeaderName = "fr_cmdes.h"

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"hex":   func(v uint8) string { return fmt.Sprintf("0x%02x", v) },
	"lines": docLines,
	"seq": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	},
	"upto": func(n int) []int {
		out := make([]int, n+1)
		for i := range out {
			out[i] = i
		}
		return out
	},
	"header": func() string { return HeaderName },
}

var (
	headerTmpl = template.Must(template.New("h").Funcs(funcs).Parse(headerText))
	sourceTmpl = template.Must(template.New("c").Funcs(funcs).Parse(sourceText))
)

func docLines(doc string) []string {
	var out []string
	for _, l := range strings.Split(doc, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return []string{MissingDoc}
	}
	return out
}

// WriteHeader renders fr_cmdes.h for the catalog.
func WriteHeader(w io.Writer, c protocol.Catalog) error {
	if err := headerTmpl.Execute(w, c); err != nil {
		return fmt.Errorf("cgen: header: %w", err)
	}
	return nil
}

// WriteSource renders fr_cmdes.c for the catalog.
func WriteSource(w io.Writer, c protocol.Catalog) error {
	if err := sourceTmpl.Execute(w, c); err != nil {
		return fmt.Errorf("cgen: source: %w", err)
	}
	return nil
}

// Generate writes both artifacts, creating parent directories as needed.
func Generate(c protocol.Catalog, headerPath, sourcePath string) error {
	for _, out := range []struct {
		path   string
		render func(io.Writer, protocol.Catalog) error
	}{
		{headerPath, WriteHeader},
		{sourcePath, WriteSource},
	} {
		var buf bytes.Buffer
		if err := out.render(&buf, c); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(out.path), 0o755); err != nil {
			return fmt.Errorf("cgen: %w", err)
		}
		if err := os.WriteFile(out.path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("cgen: %w", err)
		}
		log.Info().Msgf("cgen.Generate wrote path=%s bytes=%d", out.path, buf.Len())
	}
	return nil
}
