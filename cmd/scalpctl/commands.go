package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/danmuck/scalp/internal/capture"
	"github.com/danmuck/scalp/internal/codec"
	"github.com/danmuck/scalp/internal/manifest"
	"github.com/danmuck/scalp/internal/protocol"
	"github.com/danmuck/scalp/internal/protocol/frame"
	"github.com/danmuck/scalp/internal/render"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

func newFlagSet(e *env, name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("scalpctl "+name, pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func (e *env) renderer(reg *protocol.Registry) *render.Renderer {
	if e.plain || !isTerminal(e.stdout) {
		return render.NewPlain(reg)
	}
	return render.New(e.stdout, reg)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runList(e *env, args []string) error {
	fs := newFlagSet(e, "list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	reg, err := e.registry()
	if err != nil {
		return err
	}
	_, err = io.WriteString(e.stdout, e.renderer(reg).Catalog(reg.Catalog()))
	return err
}

func runDecode(e *env, args []string) error {
	fs := newFlagSet(e, "decode")
	binPath := fs.String("file", "", "read raw 11-byte frames from this file instead of hex")
	capturePath := fs.String("capture", "", "append decoded frames to this capture log")
	if err := fs.Parse(args); err != nil {
		return err
	}
	reg, err := e.registry()
	if err != nil {
		return err
	}

	var msgs []*protocol.Message
	if *binPath != "" {
		f, err := os.Open(*binPath)
		if err != nil {
			return err
		}
		defer f.Close()
		fr := frame.NewReader(bufio.NewReader(f), reg)
		for {
			msg, err := fr.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
	} else {
		text := strings.Join(fs.Args(), " ")
		if text == "" {
			raw, err := io.ReadAll(e.stdin)
			if err != nil {
				return err
			}
			text = string(raw)
		}
		frames, err := frame.ParseHex(text)
		if err != nil {
			return err
		}
		for _, b := range frames {
			msg, err := reg.Decode(b)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
	}

	r := e.renderer(reg)
	for _, msg := range msgs {
		fmt.Fprintln(e.stdout, r.Message(msg))
	}
	if *capturePath == "" {
		return nil
	}
	w, err := capture.Create(*capturePath)
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		if err := w.Write(msg); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

func runEncode(e *env, args []string) error {
	fs := newFlagSet(e, "encode")
	name := fs.StringP("name", "n", "", "command name")
	cmde := fs.Int("cmde", -1, "raw command id, used when --name is empty")
	dest := fs.String("dest", "bcst", "destination address (bcst, self or a number)")
	orig := fs.String("orig", "self", "origin address")
	tid := fs.Int("tid", -1, "transaction id (default: next process id)")
	resp := fs.Bool("resp", false, "raise the response flag")
	fail := fs.Bool("error", false, "raise the error flag")
	timeout := fs.Bool("timeout", false, "raise the time-out flag")
	if err := fs.Parse(args); err != nil {
		return err
	}
	reg, err := e.registry()
	if err != nil {
		return err
	}

	d, err := parseAddress(*dest)
	if err != nil {
		return fmt.Errorf("dest: %w", err)
	}
	o, err := parseAddress(*orig)
	if err != nil {
		return fmt.Errorf("orig: %w", err)
	}
	argv, err := hex.DecodeString(strings.Join(fs.Args(), ""))
	if err != nil {
		return fmt.Errorf("argv: %w", err)
	}

	id := *cmde
	if *name != "" {
		cmd, ok := reg.LookupName(*name)
		if !ok {
			return fmt.Errorf("unknown command %q", *name)
		}
		id = int(cmd.ID())
	}
	if id < 0 || id > protocol.CmdeMask {
		return fmt.Errorf("%w: %d", protocol.ErrCommandOutOfRange, id)
	}

	var status protocol.Status
	if *resp {
		status = status.Set(protocol.FlagResp)
	}
	if *fail {
		status = status.Set(protocol.FlagError)
	}
	if *timeout {
		status = status.Set(protocol.FlagTimeOut)
	}
	var opts []protocol.Option
	if *tid >= 0 {
		if *tid > 0xff {
			return fmt.Errorf("tid out of range: %d", *tid)
		}
		opts = append(opts, protocol.WithTID(uint8(*tid)))
	}

	msg, err := reg.Frame(d, o, uint8(id), status, argv, opts...)
	if err != nil {
		return err
	}
	raw, err := msg.MarshalBinary()
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "%s\n", hex.EncodeToString(raw))
	fmt.Fprintln(e.stderr, e.renderer(reg).Message(msg))
	return nil
}

func parseAddress(raw string) (protocol.Address, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "bcst", "broadcast":
		return protocol.Broadcast, nil
	case "self":
		return protocol.Self, nil
	}
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 0, 8)
	if err != nil {
		return protocol.Unassigned, err
	}
	return protocol.Address(v), nil
}

func runManifest(e *env, args []string) error {
	fs := newFlagSet(e, "manifest")
	out := fs.StringP("out", "o", "", "output path (default from the project file)")
	format := fs.String("format", "", "yaml or cbor (default from the path extension)")
	verify := fs.String("verify", "", "check the registry against an existing manifest")
	if err := fs.Parse(args); err != nil {
		return err
	}
	reg, err := e.registry()
	if err != nil {
		return err
	}

	if *verify != "" {
		m, err := manifest.LoadFile(*verify)
		if err != nil {
			return err
		}
		if err := manifest.Verify(reg, m); err != nil {
			return err
		}
		sum, err := manifest.Fingerprint(m)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "%s: %d commands match, fingerprint %s\n", *verify, len(m.Commands), sum)
		return nil
	}

	path := *out
	if path == "" {
		path = e.cfg.ManifestPath
	}
	raw := *format
	if raw == "" {
		raw = e.cfg.ManifestFormat
		if ext, err := manifest.ParseFormat(filepath.Ext(path)); err == nil {
			raw = string(ext)
		}
	}
	f, err := manifest.ParseFormat(raw)
	if err != nil {
		return err
	}
	if path == "-" {
		return manifest.Encode(e.stdout, manifest.FromCatalog(reg.Catalog()), f)
	}
	return manifest.WriteFile(path, reg.Catalog(), f)
}

func runCapture(e *env, args []string) error {
	fs := newFlagSet(e, "capture")
	replay := fs.Bool("replay", false, "decode raw bytes against the current registry instead of printing stored text")
	diag := fs.Bool("diag", false, "print each record in CBOR diagnostic notation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *replay && *diag {
		return fmt.Errorf("%w: --replay and --diag are exclusive", errUsage)
	}
	path := e.cfg.CapturePath
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	fr, err := capture.Open(path)
	if err != nil {
		return err
	}
	defer fr.Close()

	var (
		reg *protocol.Registry
		r   *render.Renderer
	)
	if *replay {
		if reg, err = e.registry(); err != nil {
			return err
		}
		r = e.renderer(reg)
	}
	for i := 0; ; i++ {
		rec, err := fr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if *diag {
			data, err := codec.Marshal(rec)
			if err != nil {
				return err
			}
			text, err := codec.Diagnose(data)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.stdout, "%4d %s\n", i, text)
			continue
		}
		if r == nil {
			fmt.Fprintf(e.stdout, "%4d %s %s\n", i, hex.EncodeToString(rec.Raw), rec.Text)
			continue
		}
		msg, err := rec.Replay(reg)
		if err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, r.Message(msg))
	}
}
