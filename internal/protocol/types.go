package protocol

import (
	"fmt"
	"strings"
)

// Wire layout.
const (
	NbArgs     = 6
	HeaderSize = 5
	FrameSize  = HeaderSize + NbArgs

	DestOffset = 0
	OrigOffset = 1
	TIDOffset  = 2
	CmdeOffset = 3
	StatOffset = 4
	ArgvOffset = 5

	// MaxCommands is the size of the 5-bit command space.
	MaxCommands = 32
	CmdeMask    = 0x1f
)

// Address is a bus node identifier. Wire values are 0x00-0xff; Unassigned
// marks a message whose endpoint is not known yet and cannot be encoded.
type Address int16

const (
	Unassigned Address = -1
	Broadcast  Address = 0x00
	Self       Address = 0x01
)

func (a Address) Valid() bool {
	return a >= 0 && a <= 0xff
}

func (a Address) String() string {
	switch {
	case a == Broadcast:
		return "bcst"
	case a == Self:
		return "self"
	case !a.Valid():
		return "None"
	default:
		return fmt.Sprintf("0x%02x", uint8(a))
	}
}

// Status is the bit-packed status octet.
//
//	bit 7    error
//	bit 6    response
//	bit 5    time-out
//	bit 4    eth NAT
//	bit 3    serial NAT
//	bits 2-0 argument count
type Status uint8

const (
	FlagError   Status = 0x80
	FlagResp    Status = 0x40
	FlagTimeOut Status = 0x20
	FlagEth     Status = 0x10
	FlagSerial  Status = 0x08

	FlagMask Status = 0xf8
	LenMask  Status = 0x07
)

// Len returns the raw length subfield, which may exceed NbArgs on a corrupt
// status; Validate rejects that case.
func (s Status) Len() int {
	return int(s & LenMask)
}

// WithLen replaces the length subfield, leaving every flag untouched.
func (s Status) WithLen(n int) (Status, error) {
	if n < 0 || n > NbArgs {
		return s, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	return (s &^ LenMask) | Status(n), nil
}

// Set raises the given flags. Length bits in flags are ignored.
func (s Status) Set(flags Status) Status {
	return s | (flags & FlagMask)
}

// Clear drops the given flags. Length bits in flags are ignored.
func (s Status) Clear(flags Status) Status {
	return s &^ (flags & FlagMask)
}

func (s Status) Has(flag Status) bool {
	flag &= FlagMask
	return flag != 0 && s&flag == flag
}

func (s Status) IsError() bool   { return s.Has(FlagError) }
func (s Status) IsResp() bool    { return s.Has(FlagResp) }
func (s Status) IsTimeOut() bool { return s.Has(FlagTimeOut) }
func (s Status) IsEth() bool     { return s.Has(FlagEth) }
func (s Status) IsSerial() bool  { return s.Has(FlagSerial) }

// String renders the status as "<r|c><e><t><s><n><len>", e.g. "r_t__2".
func (s Status) String() string {
	var b strings.Builder
	b.Grow(6)
	if s.IsResp() {
		b.WriteByte('r')
	} else {
		b.WriteByte('c')
	}
	mark := func(on bool, c byte) {
		if on {
			b.WriteByte(c)
		} else {
			b.WriteByte('_')
		}
	}
	mark(s.IsError(), 'e')
	mark(s.IsTimeOut(), 't')
	mark(s.IsSerial(), 's')
	mark(s.IsEth(), 'n')
	fmt.Fprintf(&b, "%d", s.Len())
	return b.String()
}
