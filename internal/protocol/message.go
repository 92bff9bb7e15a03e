package protocol

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// AnonymousName is reported by messages whose command id is not registered.
const AnonymousName = "Frame"

var tidCounter atomic.Uint32

// NextTID hands out the next process-wide transaction id. The counter starts
// at 0 and wraps mod 256; in-flight aliasing after a wrap is the caller's
// concern.
func NextTID() uint8 {
	return uint8(tidCounter.Add(1) - 1)
}

// Message is a live frame: envelope header fields plus decoded arguments.
// A nil command marks an anonymous message carrying raw argv.
type Message struct {
	Dest   Address
	Orig   Address
	TID    uint8
	Status Status
	Args   Args

	cmd     *Command
	cmde    uint8
	argsErr error
}

type messageOptions struct {
	tid    uint8
	hasTID bool
	status Status
}

// Option tunes message construction.
type Option func(*messageOptions)

// WithTID pins the transaction id instead of drawing from NextTID.
func WithTID(tid uint8) Option {
	return func(o *messageOptions) {
		o.tid = tid
		o.hasTID = true
	}
}

// WithStatus sets status flags. The length subfield is always derived from
// the argument octets.
func WithStatus(flags Status) Option {
	return func(o *messageOptions) {
		o.status = o.status.Set(flags)
	}
}

func resolveOptions(opts []Option) messageOptions {
	var o messageOptions
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasTID {
		o.tid = NextTID()
	}
	return o
}

// NewMessage builds a typed message for cmd from logical arguments.
func NewMessage(cmd *Command, dest, orig Address, args Args, opts ...Option) (*Message, error) {
	if cmd == nil {
		return nil, ErrNoCommand
	}
	if args == nil {
		args = RawArgs(nil)
	}
	n := len(args.Argv())
	if n > NbArgs {
		return nil, fmt.Errorf("%w: %s encodes %d > %d", ErrTooManyArguments, cmd.name, n, NbArgs)
	}
	o := resolveOptions(opts)
	status, err := o.status.WithLen(n)
	if err != nil {
		return nil, err
	}
	return &Message{
		Dest:   dest,
		Orig:   orig,
		TID:    o.tid,
		Status: status,
		Args:   args,
		cmd:    cmd,
		cmde:   cmd.id,
	}, nil
}

// Frame builds a message from raw fields. A registered cmde yields a typed
// message through the command's decode hook; any other cmde yields an
// anonymous message holding argv unchanged. Unlike Decode, argv the hook
// rejects is an error here.
func (r *Registry) Frame(dest, orig Address, cmde uint8, status Status, argv []byte, opts ...Option) (*Message, error) {
	if len(argv) > NbArgs {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyArguments, len(argv), NbArgs)
	}
	o := resolveOptions(append([]Option{WithStatus(status)}, opts...))
	status, err := o.status.WithLen(len(argv))
	if err != nil {
		return nil, err
	}
	msg := r.bind(dest, orig, o.tid, cmde, status, argv)
	if msg.argsErr != nil {
		return nil, msg.argsErr
	}
	return msg, nil
}

// Decode parses one 11-byte frame. Unknown command ids are not an error, and
// neither is argv the command's hook rejects: the message keeps its command,
// carries raw argv and reports the hook failure through ArgsErr.
func (r *Registry) Decode(b []byte) (*Message, error) {
	env, err := DecodeEnvelope(b)
	if err != nil {
		log.Error().Msgf("protocol.Decode err=%v", err)
		return nil, err
	}
	return r.FromEnvelope(env)
}

// FromEnvelope binds a decoded envelope to its registered command.
func (r *Registry) FromEnvelope(env Envelope) (*Message, error) {
	if env.Status.Len() > NbArgs {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, env.Status.Len())
	}
	return r.bind(env.Dest, env.Orig, env.TID, env.Cmde, env.Status, env.Args()), nil
}

func (r *Registry) bind(dest, orig Address, tid, cmde uint8, status Status, argv []byte) *Message {
	msg := &Message{Dest: dest, Orig: orig, TID: tid, Status: status, cmde: cmde}
	cmd, ok := r.Lookup(cmde)
	if !ok {
		log.Debug().Msgf("protocol.bind unknown cmde=0x%02x t_id=0x%02x", cmde, tid)
		raw, _ := DecodeRaw(argv)
		msg.Args = raw
		return msg
	}
	msg.cmd = cmd
	args, err := cmd.DecodeArgs(argv)
	if err != nil {
		log.Warn().Msgf("protocol.bind malformed args name=%q t_id=0x%02x err=%v", cmd.name, tid, err)
		raw, _ := DecodeRaw(argv)
		msg.Args = raw
		msg.argsErr = err
		return msg
	}
	msg.Args = args
	return msg
}

// Command returns the registered command, or nil for an anonymous message.
func (m *Message) Command() *Command {
	return m.cmd
}

// Known reports whether the command id resolved in the registry.
func (m *Message) Known() bool {
	return m.cmd != nil
}

// ArgsErr returns the *ArgsError of a known command whose argv its hook
// rejected, or nil. Such a message carries RawArgs.
func (m *Message) ArgsErr() error {
	return m.argsErr
}

// Malformed reports whether ArgsErr is set.
func (m *Message) Malformed() bool {
	return m.argsErr != nil
}

func (m *Message) Cmde() uint8 {
	return m.cmde
}

func (m *Message) Name() string {
	if m.cmd == nil {
		return AnonymousName
	}
	return m.cmd.name
}

// Envelope encodes the arguments and returns the wire record.
func (m *Message) Envelope() (Envelope, error) {
	var argv []byte
	if m.Args != nil {
		argv = m.Args.Argv()
	}
	return NewEnvelope(m.Dest, m.Orig, m.TID, m.cmde, m.Status, argv...)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *Message) MarshalBinary() ([]byte, error) {
	env, err := m.Envelope()
	if err != nil {
		return nil, err
	}
	return env.MarshalBinary()
}

// Reply builds the response to m: endpoints swapped, same transaction id and
// command, response flag raised.
func (m *Message) Reply(args Args) (*Message, error) {
	if m.cmd == nil {
		return nil, ErrNoCommand
	}
	return NewMessage(m.cmd, m.Orig, m.Dest, args, WithTID(m.TID), WithStatus(FlagResp))
}

func (m *Message) SetResp()      { m.Status = m.Status.Set(FlagResp) }
func (m *Message) ClearResp()    { m.Status = m.Status.Clear(FlagResp) }
func (m *Message) SetError()     { m.Status = m.Status.Set(FlagError) }
func (m *Message) ClearError()   { m.Status = m.Status.Clear(FlagError) }
func (m *Message) SetTimeOut()   { m.Status = m.Status.Set(FlagTimeOut) }
func (m *Message) ClearTimeOut() { m.Status = m.Status.Clear(FlagTimeOut) }

// String renders "Name(dest, orig, t_id, stat[, args])".
func (m *Message) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%s, %s, 0x%02x, %s", m.Name(), m.Dest, m.Orig, m.TID, m.Status)
	if m.Args != nil && len(m.Args.Argv()) > 0 {
		b.WriteString(", ")
		b.WriteString(m.Args.String())
	}
	b.WriteByte(')')
	return b.String()
}
