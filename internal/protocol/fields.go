package protocol

// Field names accepted by Get and Set, in wire order.
var fieldNames = [FrameSize]string{
	"dest", "orig", "t_id", "cmde", "stat",
	"argv0", "argv1", "argv2", "argv3", "argv4", "argv5",
}

// FieldIndex resolves a symbolic field name to its wire offset.
func FieldIndex(name string) (int, error) {
	for i, n := range fieldNames {
		if n == name {
			return i, nil
		}
	}
	return 0, &FieldError{Field: name, Err: ErrUnknownField}
}

// FieldName returns the symbolic name of the field at wire offset i.
func FieldName(i int) (string, error) {
	if i < 0 || i >= FrameSize {
		return "", &FieldError{Index: i, Err: ErrIndexOutOfRange}
	}
	return fieldNames[i], nil
}

// Get reads a field by symbolic name.
func (e *Envelope) Get(name string) (int, error) {
	i, err := FieldIndex(name)
	if err != nil {
		return 0, err
	}
	return e.At(i)
}

// Set writes a field by symbolic name.
func (e *Envelope) Set(name string, v int) error {
	i, err := FieldIndex(name)
	if err != nil {
		return err
	}
	return e.SetAt(i, v)
}

// At reads a field by wire offset. Address fields report Unassigned as -1.
func (e *Envelope) At(i int) (int, error) {
	switch {
	case i == DestOffset:
		return int(e.Dest), nil
	case i == OrigOffset:
		return int(e.Orig), nil
	case i == TIDOffset:
		return int(e.TID), nil
	case i == CmdeOffset:
		return int(e.Cmde), nil
	case i == StatOffset:
		return int(e.Status), nil
	case i >= ArgvOffset && i < FrameSize:
		return int(e.Argv[i-ArgvOffset]), nil
	}
	return 0, &FieldError{Index: i, Err: ErrIndexOutOfRange}
}

// SetAt writes a field by wire offset. Values are truncated to one octet in
// two's complement, so -1 stores 0xff. Writing an argv slot does not change
// the status length.
func (e *Envelope) SetAt(i int, v int) error {
	b := uint8(v & 0xff)
	switch {
	case i == DestOffset:
		e.Dest = Address(b)
	case i == OrigOffset:
		e.Orig = Address(b)
	case i == TIDOffset:
		e.TID = b
	case i == CmdeOffset:
		e.Cmde = b
	case i == StatOffset:
		e.Status = Status(b)
	case i >= ArgvOffset && i < FrameSize:
		e.Argv[i-ArgvOffset] = b
	default:
		return &FieldError{Index: i, Err: ErrIndexOutOfRange}
	}
	return nil
}

// Fields returns every field keyed by symbolic name.
func (e *Envelope) Fields() map[string]int {
	out := make(map[string]int, FrameSize)
	for i, name := range fieldNames {
		v, _ := e.At(i)
		out[name] = v
	}
	return out
}
