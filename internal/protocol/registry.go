package protocol

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// Group is one declaration group of schemas, e.g. "basic" or "route".
// Declaration order inside a group does not matter.
type Group struct {
	Name    string
	Schemas []Schema
}

// Registry assigns command ids to schemas and resolves them by id or name.
//
// Ids are handed out per RegisterGroup call in ascending byte-wise order of
// schema name, continuing from the highest id already in use, so the same
// ordered list of groups always yields the same mapping. Registration is not
// synchronized: populate the registry, Seal it, then share it freely.
type Registry struct {
	byID   []*Command
	byName map[string]*Command
	groups []string
	sealed bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Command)}
}

// RegisterGroup assigns ids to every schema of g whose name is not yet
// registered. A name already present keeps its id and takes the new
// declaration's content. The group is rejected as a whole when it would push
// the registry past MaxCommands ids.
func (r *Registry) RegisterGroup(g Group) error {
	if r.sealed {
		return ErrRegistrySealed
	}
	log.Debug().Msgf("protocol.RegisterGroup group=%q schemas=%d", g.Name, len(g.Schemas))

	decl := make(map[string]Schema, len(g.Schemas))
	for _, s := range g.Schemas {
		name := strings.TrimSpace(s.Name)
		if name == "" || name != s.Name {
			log.Error().Msgf("protocol.RegisterGroup invalid schema name group=%q name=%q", g.Name, s.Name)
			return fmt.Errorf("%w: group %q: invalid name %q", ErrInvalidSchema, g.Name, s.Name)
		}
		decl[name] = s
	}
	names := make([]string, 0, len(decl))
	fresh := 0
	for name := range decl {
		names = append(names, name)
		if _, ok := r.byName[name]; !ok {
			fresh++
		}
	}
	slices.Sort(names)

	if len(r.byID)+fresh > MaxCommands {
		log.Error().Msgf(
			"protocol.RegisterGroup too many schemas group=%q in_use=%d fresh=%d max=%d",
			g.Name,
			len(r.byID),
			fresh,
			MaxCommands,
		)
		return fmt.Errorf("%w: group %q needs %d ids, %d of %d in use",
			ErrTooManySchemas, g.Name, fresh, len(r.byID), MaxCommands)
	}

	for _, name := range names {
		if prev, ok := r.byName[name]; ok {
			log.Warn().Msgf(
				"protocol.RegisterGroup redefined name=%q id=0x%02x prev_group=%q group=%q",
				name,
				prev.id,
				prev.group,
				g.Name,
			)
			cmd := newCommand(prev.id, g.Name, decl[name])
			r.byID[prev.id] = cmd
			r.byName[name] = cmd
			continue
		}
		cmd := newCommand(uint8(len(r.byID)), g.Name, decl[name])
		r.byID = append(r.byID, cmd)
		r.byName[name] = cmd
		log.Debug().Msgf("protocol.RegisterGroup assigned name=%q id=0x%02x", name, cmd.id)
	}
	r.groups = append(r.groups, g.Name)
	log.Info().Msgf("protocol.RegisterGroup ok group=%q commands=%d", g.Name, len(r.byID))
	return nil
}

// Seal freezes the registry. Further RegisterGroup calls fail.
func (r *Registry) Seal() {
	r.sealed = true
}

func (r *Registry) Sealed() bool {
	return r.sealed
}

// Lookup resolves a command id. An unknown id is reported as false, not as an
// error.
func (r *Registry) Lookup(id uint8) (*Command, bool) {
	if int(id) >= len(r.byID) {
		return nil, false
	}
	return r.byID[id], true
}

// LookupName resolves a schema name.
func (r *Registry) LookupName(name string) (*Command, bool) {
	cmd, ok := r.byName[name]
	return cmd, ok
}

// Len returns the number of assigned ids.
func (r *Registry) Len() int {
	return len(r.byID)
}

// Groups returns the registered group names in registration order.
func (r *Registry) Groups() []string {
	return slices.Clone(r.groups)
}

// Commands returns every command ordered by id.
func (r *Registry) Commands() []*Command {
	return slices.Clone(r.byID)
}

// Offsets lists the wire offsets of the envelope fields.
type Offsets struct {
	Dest int
	Orig int
	TID  int
	Cmde int
	Stat int
	Argv int
}

// CatalogEntry is the generator-facing view of one command.
type CatalogEntry struct {
	ID      uint8
	Name    string
	Group   string
	Doc     string
	Defines []Define
}

// Catalog is everything a code generator needs from a registry.
type Catalog struct {
	NbArgs    int
	FrameSize int
	Offsets   Offsets
	Commands  []CatalogEntry
}

// Catalog exports the registry content ordered by id.
func (r *Registry) Catalog() Catalog {
	c := Catalog{
		NbArgs:    NbArgs,
		FrameSize: FrameSize,
		Offsets: Offsets{
			Dest: DestOffset,
			Orig: OrigOffset,
			TID:  TIDOffset,
			Cmde: CmdeOffset,
			Stat: StatOffset,
			Argv: ArgvOffset,
		},
		Commands: make([]CatalogEntry, 0, len(r.byID)),
	}
	for _, cmd := range r.byID {
		c.Commands = append(c.Commands, CatalogEntry{
			ID:      cmd.id,
			Name:    cmd.name,
			Group:   cmd.group,
			Doc:     cmd.doc,
			Defines: cmd.Defines(),
		})
	}
	return c
}
