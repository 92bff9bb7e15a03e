package protocol

import "fmt"

// Envelope is the wire-level frame record. Argv always holds NbArgs octets;
// only the first Status.Len() are meaningful, the rest is wire padding.
type Envelope struct {
	Dest   Address
	Orig   Address
	TID    uint8
	Cmde   uint8
	Status Status
	Argv   [NbArgs]byte
}

// NewEnvelope builds an envelope carrying argv. The status length subfield is
// overwritten with len(argv); flags are kept.
func NewEnvelope(dest, orig Address, tid, cmde uint8, status Status, argv ...byte) (Envelope, error) {
	e := Envelope{Dest: dest, Orig: orig, TID: tid, Cmde: cmde, Status: status}
	if err := e.SetArgs(argv); err != nil {
		return Envelope{}, err
	}
	return e, nil
}

// SetArgs replaces the argument octets, zeroing unused slots and updating
// the status length.
func (e *Envelope) SetArgs(argv []byte) error {
	if len(argv) > NbArgs {
		return fmt.Errorf("%w: %d > %d", ErrTooManyArguments, len(argv), NbArgs)
	}
	status, err := e.Status.WithLen(len(argv))
	if err != nil {
		return err
	}
	e.Argv = [NbArgs]byte{}
	copy(e.Argv[:], argv)
	e.Status = status
	return nil
}

// Args returns a copy of the meaningful argument octets.
func (e Envelope) Args() []byte {
	n := e.Status.Len()
	if n > NbArgs {
		n = NbArgs
	}
	out := make([]byte, n)
	copy(out, e.Argv[:n])
	return out
}

// Validate checks the structural constraints enforced before encoding.
func (e Envelope) Validate() error {
	if !e.Dest.Valid() {
		return &FieldError{Field: "dest", Err: ErrUnassignedAddress}
	}
	if !e.Orig.Valid() {
		return &FieldError{Field: "orig", Err: ErrUnassignedAddress}
	}
	if e.Cmde > CmdeMask {
		return fmt.Errorf("%w: 0x%02x", ErrCommandOutOfRange, e.Cmde)
	}
	if e.Status.Len() > NbArgs {
		return fmt.Errorf("%w: %d", ErrInvalidLength, e.Status.Len())
	}
	return nil
}

func (e Envelope) String() string {
	return fmt.Sprintf("{dest: %s, orig: %s, t_id: 0x%02x, cmde: 0x%02x, stat: %s, argv: %s}",
		e.Dest, e.Orig, e.TID, e.Cmde, e.Status, RawArgs(e.Args()))
}
