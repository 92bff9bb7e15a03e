package catalog

import "github.com/danmuck/scalp/internal/protocol"

// Container storage kinds.
var containerDefines = map[string]byte{
	"PRE_0_STORAGE":  0x00,
	"PRE_1_STORAGE":  0x01,
	"PRE_2_STORAGE":  0x02,
	"PRE_3_STORAGE":  0x03,
	"PRE_4_STORAGE":  0x04,
	"PRE_5_STORAGE":  0x05,
	"PRE_6_STORAGE":  0x06,
	"PRE_7_STORAGE":  0x07,
	"PRE_8_STORAGE":  0x08,
	"PRE_9_STORAGE":  0x09,
	"RAM_STORAGE":    0xaa,
	"EEPROM_STORAGE": 0xee,
	"FLASH_STORAGE":  0xff,
}

const readDoc = `argv #0, #1 :
    - address to read (MSB first)
argv #2 :
    - read data at address
argv #3 :
    - read data at address + 1 octet`

const writeDoc = `argv #0, #1 :
    - address to write (MSB first)
argv #2, #3 :
    - in cmde, data to be written
    - in resp, data read back`

// Basic is the group every node implements: raw bus and memory access,
// delays and event containers.
func Basic() protocol.Group {
	return protocol.Group{Name: "basic", Schemas: []protocol.Schema{
		{Name: "Null", Doc: "no command\nno arg"},
		{Name: "TwiRead", Doc: "raw I2C read\nstatus.len : number of octets to be read\nargv #0-... : read octets"},
		{Name: "TwiWrite", Doc: "raw I2C write\nstatus.len : number of octets to be written\nargv #0-... : octets to be written"},
		{Name: "RamRead", Doc: "RAM read\n" + readDoc, Args: decodeMem},
		{Name: "RamWrite", Doc: "RAM write\n" + writeDoc, Args: decodeMem},
		{Name: "EepRead", Doc: "EEPROM read\n" + readDoc, Args: decodeMem},
		{Name: "EepWrite", Doc: "EEPROM write\n" + writeDoc, Args: decodeMem},
		{Name: "FlhRead", Doc: "FLASH read\n" + readDoc, Args: decodeMem},
		{Name: "FlhWrite", Doc: "FLASH write (possibly implemented)\n" + writeDoc, Args: decodeMem},
		{Name: "SpiRead", Doc: "SPI read\nstatus.len : number of octets to be read\nargv #0-... : used if necessary"},
		{Name: "SpiWrite", Doc: "SPI write\nstatus.len : number of octets to be written\nargv #0-... : used if necessary"},
		{Name: "Wait", Doc: "wait some time given in ms\nargv #0,#1 value :\n    - time in ms, MSB in #0", Args: decodeWait},
		{
			Name: "Container",
			Doc: `encapsulated several other frames used for event handling
argv #0-1 value :
    - offset in memory for the first encapsulated frame (MSB first)
argv #2 value :
    - 0xVV : nb encapsulated frames
argv #3 memory type or container number in eeprom:
    - 0x00-0x09 : predefined eeprom container
    - 0xee eeprom,
    - 0xff flash,
    - 0xaa ram,`,
			Defines: containerDefines,
		},
	}}
}
