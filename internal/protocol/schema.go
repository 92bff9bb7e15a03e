package protocol

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Args is the decoded, logical form of a message's argument octets.
// Argv is the encode hook; String renders the value without side effects.
type Args interface {
	Argv() []byte
	String() string
}

// ArgsDecoder is the decode hook of a schema: raw argv to logical Args.
// For every accepted argv, decoder(argv).Argv() must equal argv.
type ArgsDecoder func(argv []byte) (Args, error)

// Schema declares one message type. Ids are not part of the declaration;
// the Registry assigns them.
type Schema struct {
	Name    string
	Doc     string
	Defines map[string]byte
	Args    ArgsDecoder
}

// Define is one symbolic value a message argument may take.
type Define struct {
	Name  string
	Value byte
}

// RawArgs is the identity argument codec used when a schema has no hook.
type RawArgs []byte

func (a RawArgs) Argv() []byte {
	return bytes.Clone([]byte(a))
}

// String renders as "[0x01 f4 ...]".
func (a RawArgs) String() string {
	if len(a) == 0 {
		return "[]"
	}
	parts := make([]string, len(a))
	for i, b := range a {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return "[0x" + strings.Join(parts, " ") + "]"
}

// DecodeRaw is the default ArgsDecoder.
func DecodeRaw(argv []byte) (Args, error) {
	if len(argv) == 0 {
		return RawArgs(nil), nil
	}
	return RawArgs(bytes.Clone(argv)), nil
}

// Command is a registered schema bound to its command id. Commands are
// immutable once the Registry hands them out.
type Command struct {
	id      uint8
	group   string
	name    string
	doc     string
	defines map[string]byte
	args    ArgsDecoder
}

func newCommand(id uint8, group string, s Schema) *Command {
	c := &Command{
		id:      id,
		group:   group,
		name:    s.Name,
		doc:     s.Doc,
		defines: maps.Clone(s.Defines),
		args:    s.Args,
	}
	if c.args == nil {
		c.args = DecodeRaw
	}
	return c
}

func (c *Command) ID() uint8     { return c.id }
func (c *Command) Name() string  { return c.name }
func (c *Command) Doc() string   { return c.doc }
func (c *Command) Group() string { return c.group }

// Defines returns the symbolic values ordered by value, then name, or nil
// when the command declares none.
func (c *Command) Defines() []Define {
	if len(c.defines) == 0 {
		return nil
	}
	out := make([]Define, 0, len(c.defines))
	for name, v := range c.defines {
		out = append(out, Define{Name: name, Value: v})
	}
	slices.SortFunc(out, func(a, b Define) int {
		if a.Value != b.Value {
			return int(a.Value) - int(b.Value)
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Define looks up one symbolic value.
func (c *Command) Define(name string) (byte, bool) {
	v, ok := c.defines[name]
	return v, ok
}

// DecodeArgs runs the decode hook on argv.
func (c *Command) DecodeArgs(argv []byte) (Args, error) {
	if len(argv) > NbArgs {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyArguments, len(argv), NbArgs)
	}
	args, err := c.args(argv)
	if err != nil {
		return nil, &ArgsError{Command: c.name, Argv: bytes.Clone(argv), Err: err}
	}
	return args, nil
}

func (c *Command) String() string {
	return fmt.Sprintf("%s(0x%02x)", c.name, c.id)
}
