package protocol

import "io"

// Encode returns the fixed 11-byte wire form of e.
func (e Envelope) Encode() ([FrameSize]byte, error) {
	var out [FrameSize]byte
	if err := e.Validate(); err != nil {
		return out, err
	}
	out[DestOffset] = uint8(e.Dest)
	out[OrigOffset] = uint8(e.Orig)
	out[TIDOffset] = e.TID
	out[CmdeOffset] = e.Cmde
	out[StatOffset] = uint8(e.Status)
	copy(out[ArgvOffset:], e.Argv[:])
	return out, nil
}

// AppendBinary appends the wire form of e to b.
func (e Envelope) AppendBinary(b []byte) ([]byte, error) {
	buf, err := e.Encode()
	if err != nil {
		return b, err
	}
	return append(b, buf[:]...), nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (e Envelope) MarshalBinary() ([]byte, error) {
	return e.AppendBinary(make([]byte, 0, FrameSize))
}

// WriteTo writes the wire form of e to w.
func (e Envelope) WriteTo(w io.Writer) (int64, error) {
	buf, err := e.Encode()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf[:])
	return int64(n), err
}
