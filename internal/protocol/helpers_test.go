package protocol

import (
	"encoding/binary"
	"fmt"
)

type delayArgs struct {
	Delay uint16
}

func (a delayArgs) Argv() []byte {
	return binary.BigEndian.AppendUint16(nil, a.Delay)
}

func (a delayArgs) String() string {
	return fmt.Sprintf("%d ms", a.Delay)
}

func decodeDelay(argv []byte) (Args, error) {
	if err := NeedArgs(argv, 2); err != nil {
		return nil, err
	}
	return delayArgs{Delay: binary.BigEndian.Uint16(argv)}, nil
}

func groupA() Group {
	return Group{Name: "a", Schemas: []Schema{
		{Name: "Wait", Doc: "wait some time given in ms", Args: decodeDelay},
		{Name: "Null", Doc: "no command"},
	}}
}

func groupB() Group {
	return Group{Name: "b", Schemas: []Schema{
		{Name: "RamRead", Doc: "RAM read", Defines: map[string]byte{"HI": 0x80, "LO": 0x01}},
	}}
}

func syntheticGroup(name string, n int) Group {
	g := Group{Name: name}
	for i := 0; i < n; i++ {
		g.Schemas = append(g.Schemas, Schema{Name: fmt.Sprintf("%s%02d", name, i)})
	}
	return g
}

func scenarioRegistry() *Registry {
	r := NewRegistry()
	if err := r.RegisterGroup(groupA()); err != nil {
		panic(err)
	}
	if err := r.RegisterGroup(groupB()); err != nil {
		panic(err)
	}
	r.Seal()
	return r
}
