package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/danmuck/scalp/internal/protocol"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownGroup   = errors.New("catalog: unknown group")
	ErrUnknownProject = errors.New("catalog: unknown project")
)

var groups = map[string]func() protocol.Group{
	"basic":  Basic,
	"common": Common,
	"dna":    DNA,
	"log":    Log,
	"route":  Route,
	"reconf": Reconf,
	"minut":  Minut,
	"servo":  Servo,
	"mpu":    MPU,
	"cpu":    CPU,
}

// Each project lists its groups in registration order. Not every group fits
// a single 32-id table, so a node only carries what it uses.
var projects = map[string][]string{
	"scalp": {"basic", "common", "dna", "log", "route", "reconf"},
	"minut": {"basic", "common", "minut", "servo", "reconf"},
	"mpu":   {"basic", "common", "mpu", "cpu"},
}

// Group returns a fresh copy of the named group declaration.
func Group(name string) (protocol.Group, error) {
	fn, ok := groups[name]
	if !ok {
		return protocol.Group{}, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
	}
	return fn(), nil
}

func GroupNames() []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Project returns the ordered group list of a project.
func Project(name string) ([]string, error) {
	list, ok := projects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProject, name)
	}
	return slices.Clone(list), nil
}

func ProjectNames() []string {
	names := make([]string, 0, len(projects))
	for name := range projects {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Build registers the named groups in order and seals the result.
func Build(names ...string) (*protocol.Registry, error) {
	reg := protocol.NewRegistry()
	for _, name := range names {
		g, err := Group(name)
		if err != nil {
			log.Error().Msgf("catalog.Build err=%v", err)
			return nil, err
		}
		if err := reg.RegisterGroup(g); err != nil {
			return nil, err
		}
	}
	reg.Seal()
	log.Debug().Msgf("catalog.Build groups=%v commands=%d", names, reg.Len())
	return reg, nil
}

// BuildProject builds the sealed registry of a named project.
func BuildProject(name string) (*protocol.Registry, error) {
	list, err := Project(name)
	if err != nil {
		return nil, err
	}
	return Build(list...)
}
