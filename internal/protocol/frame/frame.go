package frame

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/scalp/internal/protocol"
	"github.com/rs/zerolog/log"
)

const Size = protocol.FrameSize

var (
	ErrShortFrame = errors.New("frame: short frame")
	ErrBadHex     = errors.New("frame: invalid hex")
	ErrPartial    = errors.New("frame: trailing bytes do not form a frame")
)

// ReadFrame reads exactly one frame from r. A clean end of stream before the
// first byte reports io.EOF; a frame cut short reports ErrShortFrame.
func ReadFrame(r io.Reader) (protocol.Envelope, error) {
	var buf [Size]byte
	n, err := io.ReadFull(r, buf[:])
	if err != nil {
		if errors.Is(err, io.EOF) && n == 0 {
			return protocol.Envelope{}, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return protocol.Envelope{}, fmt.Errorf("%w: %d of %d bytes", ErrShortFrame, n, Size)
		}
		return protocol.Envelope{}, err
	}
	return protocol.DecodeEnvelope(buf[:])
}

// WriteFrame writes the wire form of env to w.
func WriteFrame(w io.Writer, env protocol.Envelope) error {
	_, err := env.WriteTo(w)
	return err
}

// WriteMessage encodes msg and writes it to w.
func WriteMessage(w io.Writer, msg *protocol.Message) error {
	env, err := msg.Envelope()
	if err != nil {
		return err
	}
	return WriteFrame(w, env)
}

// Reader decodes a stream of back-to-back frames against a registry.
type Reader struct {
	r   io.Reader
	reg *protocol.Registry
}

func NewReader(r io.Reader, reg *protocol.Registry) *Reader {
	return &Reader{r: bufio.NewReader(r), reg: reg}
}

// Next returns the next message, or io.EOF at a clean end of stream.
func (fr *Reader) Next() (*protocol.Message, error) {
	env, err := ReadFrame(fr.r)
	if err != nil {
		return nil, err
	}
	return fr.reg.FromEnvelope(env)
}

// ParseHex decodes captured traffic written as hex. Whitespace, ':', ',' and
// '-' separate octets and an optional 0x prefix per token is ignored. A
// single digit token is one octet; longer tokens need an even digit count.
// The result must split into whole frames.
func ParseHex(s string) ([][]byte, error) {
	var digits strings.Builder
	fields := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\r', ':', ',', '-':
			return true
		}
		return false
	})
	for _, f := range fields {
		f = strings.TrimPrefix(strings.TrimPrefix(f, "0x"), "0X")
		switch {
		case len(f) == 1:
			f = "0" + f
		case len(f)%2 == 1:
			return nil, fmt.Errorf("%w: odd digit count in %q", ErrBadHex, f)
		}
		digits.WriteString(f)
	}
	raw, err := hex.DecodeString(digits.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHex, err)
	}
	if len(raw)%Size != 0 {
		log.Error().Msgf("frame.ParseHex partial frame bytes=%d", len(raw))
		return nil, fmt.Errorf("%w: %d bytes", ErrPartial, len(raw))
	}
	out := make([][]byte, 0, len(raw)/Size)
	for off := 0; off < len(raw); off += Size {
		out = append(out, raw[off:off+Size:off+Size])
	}
	return out, nil
}
