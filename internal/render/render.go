// Package render formats frames and catalogs for terminals.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/danmuck/scalp/internal/protocol"
	"github.com/muesli/termenv"
)

type Theme struct {
	Name   lipgloss.Style
	Anon   lipgloss.Style
	Error  lipgloss.Style
	Header lipgloss.Style
	Status lipgloss.Style
	Args   lipgloss.Style
	Dim    lipgloss.Style
}

func DefaultTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Name:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Anon:   r.NewStyle().Foreground(lipgloss.Color("214")),
		Error:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Header: r.NewStyle().Foreground(lipgloss.Color("252")),
		Status: r.NewStyle().Foreground(lipgloss.Color("141")),
		Args:   r.NewStyle().Foreground(lipgloss.Color("114")),
		Dim:    r.NewStyle().Foreground(lipgloss.Color("243")),
	}
}

// Renderer pads command names to the longest name of its registry so
// consecutive frames line up.
type Renderer struct {
	theme Theme
	width int
}

// New renders for w, detecting its colour support.
func New(w io.Writer, reg *protocol.Registry) *Renderer {
	return newRenderer(lipgloss.NewRenderer(w), reg)
}

// NewPlain renders without escape sequences.
func NewPlain(reg *protocol.Registry) *Renderer {
	lr := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.Ascii))
	lr.SetColorProfile(termenv.Ascii)
	return newRenderer(lr, reg)
}

func newRenderer(lr *lipgloss.Renderer, reg *protocol.Registry) *Renderer {
	width := len(protocol.AnonymousName)
	if reg != nil {
		for _, cmd := range reg.Commands() {
			width = max(width, len(cmd.Name()))
		}
	}
	return &Renderer{theme: DefaultTheme(lr), width: width}
}

// Message renders "Name {dest, orig, t_id, stat[, args]}". Argv a known
// command's hook rejected is shown raw, marked malformed.
func (r *Renderer) Message(m *protocol.Message) string {
	style := r.theme.Name
	switch {
	case m.Status.IsError(), m.Malformed():
		style = r.theme.Error
	case !m.Known():
		style = r.theme.Anon
	}
	name := style.Render(fmt.Sprintf("%-*s", r.width, m.Name()))

	var b strings.Builder
	b.WriteString(name)
	b.WriteString(" {")
	b.WriteString(r.theme.Header.Render(fmt.Sprintf("%s, %s, 0x%02x", m.Dest, m.Orig, m.TID)))
	b.WriteString(", ")
	b.WriteString(r.theme.Status.Render(m.Status.String()))
	if m.Args != nil && len(m.Args.Argv()) > 0 {
		b.WriteString(", ")
		args := m.Args.String()
		switch {
		case !m.Known():
			args = fmt.Sprintf("cmde=0x%02x %s", m.Cmde(), args)
		case m.Malformed():
			b.WriteString(r.theme.Error.Render("malformed " + args))
			args = ""
		}
		if args != "" {
			b.WriteString(r.theme.Args.Render(args))
		}
	} else if !m.Known() {
		b.WriteString(", ")
		b.WriteString(r.theme.Args.Render(fmt.Sprintf("cmde=0x%02x", m.Cmde())))
	} else if m.Malformed() {
		b.WriteString(", ")
		b.WriteString(r.theme.Error.Render("malformed []"))
	}
	b.WriteByte('}')
	return b.String()
}

// Catalog renders one line per command: id, group, name and the first line
// of its documentation.
func (r *Renderer) Catalog(c protocol.Catalog) string {
	groupWidth := 0
	for _, e := range c.Commands {
		groupWidth = max(groupWidth, len(e.Group))
	}
	var b strings.Builder
	for _, e := range c.Commands {
		summary, _, _ := strings.Cut(e.Doc, "\n")
		fmt.Fprintf(&b, "%s  %s  %s  %s\n",
			r.theme.Status.Render(fmt.Sprintf("0x%02x", e.ID)),
			r.theme.Dim.Render(fmt.Sprintf("%-*s", groupWidth, e.Group)),
			r.theme.Name.Render(fmt.Sprintf("%-*s", r.width, e.Name)),
			strings.TrimSpace(summary),
		)
	}
	return b.String()
}
