// Package capture records decoded frames as an append-only CBOR sequence.
// Each record keeps the raw wire bytes so a log can be replayed against a
// different registry later.
package capture

import (
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/scalp/internal/codec"
	"github.com/danmuck/scalp/internal/protocol"
	"github.com/rs/zerolog/log"
)

var ErrBadRecord = errors.New("capture: bad record")

// Record is one captured frame.
type Record struct {
	Raw   []byte `cbor:"raw"`
	Cmde  uint8  `cbor:"cmde"`
	Name  string `cbor:"name"`
	Known bool   `cbor:"known"`
	Text  string `cbor:"text"`
	// Malformed marks a known command whose argv its hook rejected.
	Malformed bool `cbor:"malformed,omitempty"`
}

// NewRecord encodes msg and snapshots its rendering.
func NewRecord(msg *protocol.Message) (Record, error) {
	raw, err := msg.MarshalBinary()
	if err != nil {
		return Record{}, err
	}
	return Record{
		Raw:       raw,
		Cmde:      msg.Cmde(),
		Name:      msg.Name(),
		Known:     msg.Known(),
		Text:      msg.String(),
		Malformed: msg.Malformed(),
	}, nil
}

// Replay decodes the raw bytes of r against reg.
func (r Record) Replay(reg *protocol.Registry) (*protocol.Message, error) {
	if len(r.Raw) != protocol.FrameSize {
		return nil, fmt.Errorf("%w: raw is %d bytes", ErrBadRecord, len(r.Raw))
	}
	return reg.Decode(r.Raw)
}

type Writer struct {
	enc *codec.Encoder
	n   int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: codec.NewEncoder(w)}
}

// Write appends one message to the log.
func (w *Writer) Write(msg *protocol.Message) error {
	rec, err := NewRecord(msg)
	if err != nil {
		log.Error().Msgf("capture.Write encode name=%s err=%v", msg.Name(), err)
		return err
	}
	return w.WriteRecord(rec)
}

func (w *Writer) WriteRecord(rec Record) error {
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	w.n++
	log.Debug().Msgf("capture.WriteRecord n=%d name=%s", w.n, rec.Name)
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int {
	return w.n
}

type Reader struct {
	dec *codec.Decoder
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: codec.NewDecoder(r)}
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}
	return rec, nil
}

// ReadAll drains r.
func ReadAll(r io.Reader) ([]Record, error) {
	cr := NewReader(r)
	var out []Record
	for {
		rec, err := cr.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}
