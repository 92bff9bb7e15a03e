package protocol

import "fmt"

// DecodeEnvelope parses exactly one 11-byte frame. Header fields are read
// positionally; padding beyond the status length is kept as received.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) != FrameSize {
		return Envelope{}, fmt.Errorf("%w: %d bytes, want %d", ErrShortFrame, len(b), FrameSize)
	}
	e := Envelope{
		Dest:   Address(b[DestOffset]),
		Orig:   Address(b[OrigOffset]),
		TID:    b[TIDOffset],
		Cmde:   b[CmdeOffset],
		Status: Status(b[StatOffset]),
	}
	copy(e.Argv[:], b[ArgvOffset:FrameSize])
	if e.Status.Len() > NbArgs {
		return Envelope{}, fmt.Errorf("%w: %d", ErrInvalidLength, e.Status.Len())
	}
	return e, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (e *Envelope) UnmarshalBinary(b []byte) error {
	out, err := DecodeEnvelope(b)
	if err != nil {
		return err
	}
	*e = out
	return nil
}
