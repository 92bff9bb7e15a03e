package protocol

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/danmuck/scalp/internal/testutil/testlog"
)

func TestWaitScenarioRoundTrip(t *testing.T) {
	testlog.Start(t)
	r := scenarioRegistry()
	wait, _ := r.LookupName("Wait")

	msg, err := NewMessage(wait, Broadcast, Self, delayArgs{Delay: 500},
		WithTID(0x11), WithStatus(FlagResp|FlagTimeOut))
	if err != nil {
		t.Fatalf("new message: %v", err)
	}
	raw, err := msg.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := []byte{0x00, 0x01, 0x11, 0x01, 0x62, 0x01, 0xf4, 0, 0, 0, 0}
	if !bytes.Equal(raw, want) {
		t.Fatalf("wire mismatch: got=% x want=% x", raw, want)
	}

	back, err := r.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Name() != "Wait" || !back.Known() {
		t.Fatalf("expected Wait, got %s", back.Name())
	}
	args, ok := back.Args.(delayArgs)
	if !ok || args.Delay != 500 {
		t.Fatalf("unexpected args: %#v", back.Args)
	}
	if !back.Status.IsResp() || !back.Status.IsTimeOut() || back.Status.IsError() {
		t.Fatalf("unexpected status: %s", back.Status)
	}
	if back.Dest != msg.Dest || back.Orig != msg.Orig || back.TID != msg.TID || back.Status != msg.Status {
		t.Fatalf("header mismatch: got=%v want=%v", back, msg)
	}
	if got := back.String(); got != "Wait(bcst, self, 0x11, r_t__2, 500 ms)" {
		t.Fatalf("unexpected rendering: %q", got)
	}
}

func TestRoundTripAllScenarioCommands(t *testing.T) {
	testlog.Start(t)
	r := scenarioRegistry()
	for _, cmd := range r.Commands() {
		var args Args = RawArgs{0xde, 0xad}
		if cmd.Name() == "Wait" {
			args = delayArgs{Delay: 0xbeef}
		}
		msg, err := NewMessage(cmd, 0x42, 0x24, args, WithStatus(FlagError))
		if err != nil {
			t.Fatalf("%s: new message: %v", cmd.Name(), err)
		}
		raw, err := msg.MarshalBinary()
		if err != nil {
			t.Fatalf("%s: marshal: %v", cmd.Name(), err)
		}
		back, err := r.Decode(raw)
		if err != nil {
			t.Fatalf("%s: decode: %v", cmd.Name(), err)
		}
		if back.Command() != cmd || back.TID != msg.TID || back.Status != msg.Status {
			t.Fatalf("%s: header mismatch: got=%v want=%v", cmd.Name(), back, msg)
		}
		if !bytes.Equal(back.Args.Argv(), args.Argv()) || back.Args.String() != args.String() {
			t.Fatalf("%s: args mismatch: got=%v want=%v", cmd.Name(), back.Args, args)
		}
	}
}

func TestDecodeUnknownCommandIsAnonymous(t *testing.T) {
	testlog.Start(t)
	r := scenarioRegistry()
	raw := []byte{0x05, 0x06, 0x07, 0x1f, 0x83, 0x0a, 0x0b, 0x0c, 0, 0, 0}
	msg, err := r.Decode(raw)
	if err != nil {
		t.Fatalf("unknown command must not fail: %v", err)
	}
	if msg.Known() || msg.Command() != nil || msg.Name() != AnonymousName {
		t.Fatalf("expected anonymous message, got %s", msg.Name())
	}
	if msg.Dest != 0x05 || msg.Orig != 0x06 || msg.TID != 0x07 || msg.Cmde() != 0x1f || msg.Status != 0x83 {
		t.Fatalf("header not preserved: %v", msg)
	}
	if !bytes.Equal(msg.Args.Argv(), []byte{0x0a, 0x0b, 0x0c}) {
		t.Fatalf("raw argv not preserved: % x", msg.Args.Argv())
	}
	out, err := msg.MarshalBinary()
	if err != nil || !bytes.Equal(out, raw) {
		t.Fatalf("re-encode: err=%v got=% x", err, out)
	}
}

func TestDecodeMalformedArgsKeepsCommand(t *testing.T) {
	testlog.Start(t)
	r := scenarioRegistry()
	raw := []byte{0x01, 0x05, 0x11, 0x01, 0x41, 0x07, 0, 0, 0, 0, 0}
	msg, err := r.Decode(raw)
	if err != nil {
		t.Fatalf("rejected argv must not fail the decode: %v", err)
	}
	if !msg.Known() || msg.Name() != "Wait" || !msg.Malformed() {
		t.Fatalf("expected malformed Wait, got %v", msg)
	}
	var argsErr *ArgsError
	if !errors.As(msg.ArgsErr(), &argsErr) || argsErr.Command != "Wait" || !errors.Is(msg.ArgsErr(), ErrInvalidArgs) {
		t.Fatalf("expected ArgsError, got %v", msg.ArgsErr())
	}
	if _, ok := msg.Args.(RawArgs); !ok || !bytes.Equal(msg.Args.Argv(), []byte{0x07}) {
		t.Fatalf("expected raw argv fallback, got %#v", msg.Args)
	}
	out, err := msg.MarshalBinary()
	if err != nil || !bytes.Equal(out, raw) {
		t.Fatalf("re-encode: err=%v got=% x", err, out)
	}

	ok, err := r.Decode([]byte{0x01, 0x05, 0x11, 0x01, 0x42, 0x01, 0xf4, 0, 0, 0, 0})
	if err != nil || ok.Malformed() || ok.ArgsErr() != nil {
		t.Fatalf("well-formed Wait: %v %v", ok, err)
	}
}

func TestFrameFromRawFields(t *testing.T) {
	testlog.Start(t)
	r := scenarioRegistry()
	msg, err := r.Frame(Broadcast, Self, 1, FlagResp|0x05, []byte{0x00, 0x0a}, WithTID(9))
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	if msg.Name() != "Wait" || msg.Status.Len() != 2 || !msg.Status.IsResp() || msg.TID != 9 {
		t.Fatalf("unexpected frame: %v", msg)
	}
	if _, err := r.Frame(Broadcast, Self, 1, 0, []byte{1, 2, 3, 4, 5, 6, 7}); !errors.Is(err, ErrTooManyArguments) {
		t.Fatalf("expected ErrTooManyArguments, got %v", err)
	}
	_, err = r.Frame(Broadcast, Self, 1, 0, []byte{0x01})
	var argsErr *ArgsError
	if !errors.As(err, &argsErr) || !errors.Is(err, ErrInvalidArgs) || argsErr.Command != "Wait" {
		t.Fatalf("expected ArgsError for short Wait, got %v", err)
	}
	anon, err := r.Frame(Broadcast, Self, 30, 0, []byte{1})
	if err != nil || anon.Known() {
		t.Fatalf("expected anonymous frame, got %v %v", anon, err)
	}
}

func TestNewMessageArgumentBound(t *testing.T) {
	testlog.Start(t)
	r := scenarioRegistry()
	null, _ := r.LookupName("Null")
	if _, err := NewMessage(null, Broadcast, Self, RawArgs{1, 2, 3, 4, 5, 6}); err != nil {
		t.Fatalf("six args: %v", err)
	}
	_, err := NewMessage(null, Broadcast, Self, RawArgs{1, 2, 3, 4, 5, 6, 7})
	if !errors.Is(err, ErrTooManyArguments) {
		t.Fatalf("expected ErrTooManyArguments, got %v", err)
	}
	if _, err := NewMessage(nil, Broadcast, Self, nil); !errors.Is(err, ErrNoCommand) {
		t.Fatalf("expected ErrNoCommand, got %v", err)
	}
	msg, err := NewMessage(null, Broadcast, Self, nil, WithTID(1))
	if err != nil {
		t.Fatalf("null: %v", err)
	}
	if got := msg.String(); got != "Null(bcst, self, 0x01, c____0)" {
		t.Fatalf("unexpected rendering: %q", got)
	}
}

func TestMessageUnassignedAddressFailsEncode(t *testing.T) {
	testlog.Start(t)
	r := scenarioRegistry()
	null, _ := r.LookupName("Null")
	msg, err := NewMessage(null, Unassigned, Self, nil)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if _, err := msg.MarshalBinary(); !errors.Is(err, ErrUnassignedAddress) {
		t.Fatalf("expected ErrUnassignedAddress, got %v", err)
	}
}

func TestMessageFlagsAndReply(t *testing.T) {
	testlog.Start(t)
	r := scenarioRegistry()
	wait, _ := r.LookupName("Wait")
	msg, err := NewMessage(wait, 0x10, 0x20, delayArgs{Delay: 1}, WithTID(0x33))
	if err != nil {
		t.Fatalf("new message: %v", err)
	}
	msg.SetError()
	msg.SetTimeOut()
	msg.SetResp()
	if !msg.Status.IsError() || !msg.Status.IsTimeOut() || !msg.Status.IsResp() || msg.Status.Len() != 2 {
		t.Fatalf("unexpected status: %s", msg.Status)
	}
	msg.ClearError()
	msg.ClearTimeOut()
	msg.ClearResp()
	if msg.Status != 2 {
		t.Fatalf("flags must clear cleanly, got %#x", uint8(msg.Status))
	}

	reply, err := msg.Reply(delayArgs{Delay: 2})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.Dest != 0x20 || reply.Orig != 0x10 || reply.TID != 0x33 || !reply.Status.IsResp() {
		t.Fatalf("unexpected reply: %v", reply)
	}
}

func TestNextTIDMonotonicAndUnique(t *testing.T) {
	tidCounter.Store(0)
	if a, b := NextTID(), NextTID(); a != 0 || b != 1 {
		t.Fatalf("counter must start at 0: %d %d", a, b)
	}

	tidCounter.Store(255)
	if a, b := NextTID(), NextTID(); a != 255 || b != 0 {
		t.Fatalf("counter must wrap mod 256: %d %d", a, b)
	}

	tidCounter.Store(0)
	const n = 200
	var (
		mu   sync.Mutex
		seen = make(map[uint8]bool, n)
		wg   sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tid := NextTID()
			mu.Lock()
			seen[tid] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	if len(seen) != n {
		t.Fatalf("expected %d distinct ids, got %d", n, len(seen))
	}
}

func TestImplicitTIDConsumesCounter(t *testing.T) {
	r := scenarioRegistry()
	null, _ := r.LookupName("Null")
	tidCounter.Store(40)
	a, _ := NewMessage(null, Broadcast, Self, nil)
	b, _ := NewMessage(null, Broadcast, Self, nil, WithTID(7))
	c, _ := NewMessage(null, Broadcast, Self, nil)
	if a.TID != 40 || b.TID != 7 || c.TID != 41 {
		t.Fatalf("unexpected t_ids: %d %d %d", a.TID, b.TID, c.TID)
	}
}
