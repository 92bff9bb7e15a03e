package protocol

import (
	"errors"
	"testing"
)

func TestFieldAccessByNameAndIndex(t *testing.T) {
	env, err := NewEnvelope(0x10, 0x20, 0x30, 0x04, FlagResp, 0xa0, 0xa1, 0xa2)
	if err != nil {
		t.Fatalf("new envelope: %v", err)
	}
	for i := 0; i < FrameSize; i++ {
		name, err := FieldName(i)
		if err != nil {
			t.Fatalf("field name %d: %v", i, err)
		}
		byName, err := env.Get(name)
		if err != nil {
			t.Fatalf("get %q: %v", name, err)
		}
		byIndex, err := env.At(i)
		if err != nil {
			t.Fatalf("at %d: %v", i, err)
		}
		if byName != byIndex {
			t.Fatalf("field %q: name=%d index=%d", name, byName, byIndex)
		}
	}
	if v, _ := env.Get("stat"); v != int(FlagResp|3) {
		t.Fatalf("stat: got %#x", v)
	}
	if v, _ := env.At(7); v != 0xa2 {
		t.Fatalf("argv2: got %#x", v)
	}
}

func TestFieldWriteTwosComplement(t *testing.T) {
	var env Envelope
	if err := env.SetAt(5, -1); err != nil {
		t.Fatalf("set argv0: %v", err)
	}
	if err := env.Set("argv5", -128); err != nil {
		t.Fatalf("set argv5: %v", err)
	}
	if err := env.Set("t_id", 0x1ff); err != nil {
		t.Fatalf("set t_id: %v", err)
	}
	if env.Argv[0] != 0xff || env.Argv[5] != 0x80 || env.TID != 0xff {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.Status.Len() != 0 {
		t.Fatalf("argv write must not change len, got %d", env.Status.Len())
	}
	if err := env.Set("dest", 0x33); err != nil || env.Dest != 0x33 {
		t.Fatalf("set dest: %v %v", err, env.Dest)
	}
}

func TestFieldAccessErrors(t *testing.T) {
	var env Envelope
	for _, name := range []string{"argv6", "argv", "status", "Dest", ""} {
		if _, err := env.Get(name); !errors.Is(err, ErrUnknownField) {
			t.Fatalf("get %q: expected ErrUnknownField, got %v", name, err)
		}
		if err := env.Set(name, 1); !errors.Is(err, ErrUnknownField) {
			t.Fatalf("set %q: expected ErrUnknownField, got %v", name, err)
		}
	}
	for _, i := range []int{-1, FrameSize, 42} {
		if _, err := env.At(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("at %d: expected ErrIndexOutOfRange, got %v", i, err)
		}
		if err := env.SetAt(i, 0); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("set at %d: expected ErrIndexOutOfRange, got %v", i, err)
		}
	}
	var fe *FieldError
	_, err := env.Get("nope")
	if !errors.As(err, &fe) || fe.Field != "nope" {
		t.Fatalf("expected FieldError for nope, got %v", err)
	}
}

func TestFieldsMap(t *testing.T) {
	env, _ := NewEnvelope(Broadcast, Self, 7, 1, 0, 0x01, 0xf4)
	fields := env.Fields()
	if len(fields) != FrameSize {
		t.Fatalf("expected %d fields, got %d", FrameSize, len(fields))
	}
	if fields["t_id"] != 7 || fields["argv1"] != 0xf4 || fields["stat"] != 2 {
		t.Fatalf("unexpected fields: %v", fields)
	}
}
