package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/scalp/internal/config"
	"github.com/danmuck/scalp/internal/testutil/testlog"
)

func newTestEnv(stdin string) (*env, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &env{stdin: strings.NewReader(stdin), stdout: &out, stderr: &errOut}, &out, &errOut
}

func TestListPrintsCatalog(t *testing.T) {
	testlog.Start(t)
	e, out, _ := newTestEnv("")
	if err := run(e, []string{"--plain", "list"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 26 {
		t.Fatalf("expected 26 scalp commands, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[12], "0x0c  basic   Wait") {
		t.Fatalf("unexpected Wait line: %q", lines[12])
	}
}

func TestEncodeThenDecode(t *testing.T) {
	testlog.Start(t)
	e, out, _ := newTestEnv("")
	if err := run(e, []string{"--plain", "encode", "--name", "Wait", "--tid", "17", "01f4"}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	hexFrame := strings.TrimSpace(out.String())
	if hexFrame != "0001110c0201f400000000" {
		t.Fatalf("unexpected frame: %s", hexFrame)
	}

	e, out, _ = newTestEnv(hexFrame)
	if err := run(e, []string{"--plain", "decode"}); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "Wait        {bcst, self, 0x11, c____2, 500 ms}"
	if got := strings.TrimSpace(out.String()); got != want {
		t.Fatalf("decode = %q, want %q", got, want)
	}
}

func TestEncodeRejectsUnknownName(t *testing.T) {
	testlog.Start(t)
	e, _, _ := newTestEnv("")
	if err := run(e, []string{"encode", "--name", "MpuAcc"}); err == nil {
		t.Fatalf("expected MpuAcc to be unknown in the scalp project")
	}
	e, _, _ = newTestEnv("")
	if err := run(e, []string{"--project", "mpu", "encode", "--name", "MpuAcc", "000100020003"}); err != nil {
		t.Fatalf("encode in mpu project: %v", err)
	}
}

func TestDecodeCaptureReplay(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "log.cbor.zst")
	frames := "0001110c0201f400000000 05:01:02:1e:01:aa:00:00:00:00:00"

	e, _, _ := newTestEnv("")
	if err := run(e, []string{"--plain", "decode", "--capture", path, frames}); err != nil {
		t.Fatalf("decode: %v", err)
	}

	e, out, _ := newTestEnv("")
	if err := run(e, []string{"--plain", "capture", path}); err != nil {
		t.Fatalf("capture: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 records, got %d: %q", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "Wait(bcst, self, 0x11, c____2, 500 ms)") {
		t.Fatalf("unexpected first record: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Frame(0x05, self, 0x02, c____1, [0xaa])") {
		t.Fatalf("unexpected second record: %q", lines[1])
	}

	e, out, _ = newTestEnv("")
	if err := run(e, []string{"--plain", "--groups", "mpu", "capture", "--replay", path}); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !strings.Contains(out.String(), "Frame  {bcst, self, 0x11, c____2, cmde=0x0c [0x01 f4]}") {
		t.Fatalf("Wait should be anonymous without the basic group: %q", out.String())
	}
}

func TestDecodeKeepsGoingPastMalformedArgs(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "log.cbor")
	frames := "01 05 11 0c 40 00 00 00 00 00 00\n00 01 12 05 00 00 00 00 00 00 00"

	e, out, _ := newTestEnv(frames)
	if err := run(e, []string{"--plain", "decode", "--capture", path}); err != nil {
		t.Fatalf("decode: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{
		"Wait        {self, 0x05, 0x11, r____0, malformed []}",
		"Null        {bcst, self, 0x12, c____0}",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d frames, got %q", len(want), out.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	e, out, _ = newTestEnv("")
	if err := run(e, []string{"capture", "--diag", path}); err != nil {
		t.Fatalf("capture --diag: %v", err)
	}
	diag := out.String()
	if !strings.Contains(diag, `"name": "Wait"`) || !strings.Contains(diag, `"malformed": true`) {
		t.Fatalf("unexpected diagnostic output: %q", diag)
	}
	if strings.Count(diag, "\n") != 2 {
		t.Fatalf("expected 2 records, got %q", diag)
	}

	e, _, _ = newTestEnv("")
	if err := run(e, []string{"capture", "--diag", "--replay", path}); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestManifestWriteVerify(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	for _, name := range []string{"catalog.yaml", "catalog.cbor"} {
		path := filepath.Join(dir, name)
		e, _, _ := newTestEnv("")
		if err := run(e, []string{"manifest", "--out", path}); err != nil {
			t.Fatalf("manifest %s: %v", name, err)
		}
		e, out, _ := newTestEnv("")
		if err := run(e, []string{"manifest", "--verify", path}); err != nil {
			t.Fatalf("verify %s: %v", name, err)
		}
		if !strings.Contains(out.String(), "26 commands match") {
			t.Fatalf("unexpected verify output: %q", out.String())
		}
		e, _, _ = newTestEnv("")
		if err := run(e, []string{"--project", "minut", "manifest", "--verify", path}); err == nil {
			t.Fatalf("expected minut registry to mismatch %s", name)
		}
	}
}

func TestConfigFileSelectsGroups(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "scalp.toml")
	e, _, _ := newTestEnv("")
	if err := run(e, []string{"--groups", "basic,cpu", "--plain", "list"}); err != nil {
		t.Fatalf("list with groups: %v", err)
	}
	if err := config.WriteTemplate(path, "mpu", false); err != nil {
		t.Fatalf("template: %v", err)
	}
	e, out, _ := newTestEnv("")
	if err := run(e, []string{"--config", path, "--plain", "list"}); err != nil {
		t.Fatalf("list with config: %v", err)
	}
	if n := strings.Count(out.String(), "\n"); n != 20 {
		t.Fatalf("expected 20 mpu commands, got %d", n)
	}
}

func TestUnknownCommand(t *testing.T) {
	testlog.Start(t)
	e, _, errOut := newTestEnv("")
	err := run(e, []string{"bogus"})
	if !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(errOut.String(), "Commands:") {
		t.Fatalf("expected usage text, got %q", errOut.String())
	}
}
