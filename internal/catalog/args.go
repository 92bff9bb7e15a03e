package catalog

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/danmuck/scalp/internal/protocol"
)

// WaitArgs is the Wait payload: a delay in milliseconds, MSB first.
type WaitArgs struct {
	Delay uint16
}

func (a WaitArgs) Argv() []byte {
	return binary.BigEndian.AppendUint16(nil, a.Delay)
}

func (a WaitArgs) String() string {
	return fmt.Sprintf("%d ms", a.Delay)
}

func (a WaitArgs) Duration() time.Duration {
	return time.Duration(a.Delay) * time.Millisecond
}

func decodeWait(argv []byte) (protocol.Args, error) {
	if err := protocol.NeedArgs(argv, 2); err != nil {
		return nil, err
	}
	return WaitArgs{Delay: binary.BigEndian.Uint16(argv)}, nil
}

// TimeArgs is the on-board time carried by a Time response, in 10 us ticks.
type TimeArgs struct {
	Ticks uint32
}

func (a TimeArgs) Argv() []byte {
	return binary.BigEndian.AppendUint32(nil, a.Ticks)
}

func (a TimeArgs) Duration() time.Duration {
	return time.Duration(a.Ticks) * 10 * time.Microsecond
}

func (a TimeArgs) String() string {
	return a.Duration().String()
}

func decodeTime(argv []byte) (protocol.Args, error) {
	if len(argv) == 0 {
		return protocol.RawArgs(nil), nil
	}
	if err := protocol.NeedArgs(argv, 4); err != nil {
		return nil, err
	}
	return TimeArgs{Ticks: binary.BigEndian.Uint32(argv)}, nil
}

// Vector3 holds three big-endian 16-bit samples, as sent by MpuAcc and
// MpuGyr.
type Vector3 struct {
	X uint16
	Y uint16
	Z uint16
}

func (v Vector3) Argv() []byte {
	out := make([]byte, 0, 6)
	out = binary.BigEndian.AppendUint16(out, v.X)
	out = binary.BigEndian.AppendUint16(out, v.Y)
	return binary.BigEndian.AppendUint16(out, v.Z)
}

func (v Vector3) String() string {
	return fmt.Sprintf("0x%04x, 0x%04x, 0x%04x", v.X, v.Y, v.Z)
}

func decodeVector3(argv []byte) (protocol.Args, error) {
	if len(argv) == 0 {
		return protocol.RawArgs(nil), nil
	}
	if err := protocol.NeedArgs(argv, 6); err != nil {
		return nil, err
	}
	return Vector3{
		X: binary.BigEndian.Uint16(argv[0:2]),
		Y: binary.BigEndian.Uint16(argv[2:4]),
		Z: binary.BigEndian.Uint16(argv[4:6]),
	}, nil
}

// CPUArgs is the cpu usage report.
type CPUArgs struct {
	Last uint16
	Max  uint16
	Min  uint16
}

func (a CPUArgs) Argv() []byte {
	return Vector3{X: a.Last, Y: a.Max, Z: a.Min}.Argv()
}

func (a CPUArgs) String() string {
	return fmt.Sprintf("last %d, max %d, min %d", a.Last, a.Max, a.Min)
}

func decodeCPU(argv []byte) (protocol.Args, error) {
	v, err := decodeVector3(argv)
	if err != nil {
		return nil, err
	}
	if vec, ok := v.(Vector3); ok {
		return CPUArgs{Last: vec.X, Max: vec.Y, Min: vec.Z}, nil
	}
	return v, nil
}

// MemArgs addresses RAM, EEPROM or FLASH: a 16-bit address, MSB first,
// followed by up to four data octets.
type MemArgs struct {
	Addr uint16
	Data []byte
}

func (a MemArgs) Argv() []byte {
	out := binary.BigEndian.AppendUint16(nil, a.Addr)
	return append(out, a.Data...)
}

func (a MemArgs) String() string {
	if len(a.Data) == 0 {
		return fmt.Sprintf("@0x%04x", a.Addr)
	}
	return fmt.Sprintf("@0x%04x %s", a.Addr, protocol.RawArgs(a.Data))
}

func decodeMem(argv []byte) (protocol.Args, error) {
	if len(argv) < 2 {
		return nil, fmt.Errorf("%w: address needs 2 bytes, got %d", protocol.ErrInvalidArgs, len(argv))
	}
	a := MemArgs{Addr: binary.BigEndian.Uint16(argv[0:2])}
	if len(argv) > 2 {
		a.Data = bytes.Clone(argv[2:])
	}
	return a, nil
}

// Servo targets and actions.
const (
	ServoCone  byte = 0xc0
	ServoAero  byte = 0xae
	ServoOpen  byte = 0x09
	ServoClose byte = 0xc1
	ServoOff   byte = 0x0f
	ServoSave  byte = 0x5a
	ServoRead  byte = 0x4e
)

func symbol(v byte, names map[byte]string) string {
	if s, ok := names[v]; ok {
		return s
	}
	return fmt.Sprintf("?0x%02x", v)
}

var (
	servoTargets   = map[byte]string{ServoCone: "cone", ServoAero: "aero"}
	servoActions   = map[byte]string{ServoOpen: "open", ServoClose: "close", ServoOff: "off"}
	servoOps       = map[byte]string{ServoSave: "save", ServoRead: "read"}
	servoPositions = map[byte]string{ServoOpen: "open", ServoClose: "close"}
)

// ServoCmdArgs opens, closes or releases one servo.
type ServoCmdArgs struct {
	Target byte
	Action byte
}

func (a ServoCmdArgs) Argv() []byte {
	return []byte{a.Target, a.Action}
}

func (a ServoCmdArgs) String() string {
	return symbol(a.Target, servoTargets) + ", " + symbol(a.Action, servoActions)
}

func decodeServoCmd(argv []byte) (protocol.Args, error) {
	if err := protocol.NeedArgs(argv, 2); err != nil {
		return nil, err
	}
	return ServoCmdArgs{Target: argv[0], Action: argv[1]}, nil
}

// ServoInfoArgs saves or reads a stored servo position. The angle octet is
// offset binary (0x80 is 0 degree) and absent in read requests.
type ServoInfoArgs struct {
	Target   byte
	Op       byte
	Position byte
	Angle    int8
	HasAngle bool
}

func (a ServoInfoArgs) Argv() []byte {
	out := []byte{a.Target, a.Op, a.Position}
	if a.HasAngle {
		out = append(out, byte(int(a.Angle)+0x80))
	}
	return out
}

func (a ServoInfoArgs) String() string {
	s := symbol(a.Target, servoTargets) + ", " + symbol(a.Op, servoOps) + ", " + symbol(a.Position, servoPositions)
	if a.HasAngle {
		s += fmt.Sprintf(", %+d", a.Angle)
	}
	return s
}

func decodeServoInfo(argv []byte) (protocol.Args, error) {
	switch len(argv) {
	case 3:
		return ServoInfoArgs{Target: argv[0], Op: argv[1], Position: argv[2]}, nil
	case 4:
		return ServoInfoArgs{
			Target:   argv[0],
			Op:       argv[1],
			Position: argv[2],
			Angle:    int8(int(argv[3]) - 0x80),
			HasAngle: true,
		}, nil
	}
	return nil, fmt.Errorf("%w: want 3 or 4 bytes, got %d", protocol.ErrInvalidArgs, len(argv))
}
