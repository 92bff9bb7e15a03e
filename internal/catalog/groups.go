package catalog

import "github.com/danmuck/scalp/internal/protocol"

// Common covers node state, time, bus multiplexer and status leds.
func Common() protocol.Group {
	return protocol.Group{Name: "common", Schemas: []protocol.Schema{
		{
			Name: "State",
			Doc: `state (retrieve / modify)
argv #0 value :
    - 0x9e : get state
    - 0x5e : set state
argv #1 value :
    - 0x00 : init (default out of reset)
    - 0x01 : all other values are project dependant`,
			Defines: map[string]byte{
				"GET":       0x9e,
				"SET":       0x5e,
				"INIT":      0x00,
				"LOCK0":     0x01,
				"LOCK1":     0x02,
				"LOCK2":     0x03,
				"WAITING":   0x04,
				"THRUSTING": 0x05,
				"BALISTIC":  0x06,
				"DETECTION": 0x07,
				"OPEN_SEQ":  0x08,
				"BRAKE":     0x09,
				"UNLOCK":    0x0a,
				"PARACHUTE": 0x0b,
			},
		},
		{Name: "Time", Doc: "retrieve on-board time\nargv #0,#1,#2,#3 value :\n    - MSB to LSB on-board time in 10 us", Args: decodeTime},
		{
			Name:    "Mux",
			Doc:     "force / release the reset of the Nominal/redudant bus multiplexer\nargv #0 value :\n    - 0x00 : unreset\n    - 0xff : reset",
			Defines: map[string]byte{"UNRESET": 0x00, "RESET": 0xff},
		},
		{
			Name: "Led",
			Doc: `set/get led blink rate
argv #0 value :
    - 0xa1 : alive (green)
    - 0x51 : signal (blue)
    - 0xe4 : error (red)
argv #1 value :
    - 0x00 : set
    - 0xff : get
argv #2 value :
    - 0xVV : low duration [0.0; 12.7] s
argv #3 value :
    - 0xVV : high duration [0.0; 12.7] s`,
			Defines: map[string]byte{"ALIVE": 0xa1, "SIGNAL": 0x51, "ERROR": 0xe4, "SET": 0x00, "GET": 0xff},
		},
	}}
}

// DNA covers node discovery and address registration.
func DNA() protocol.Group {
	return protocol.Group{Name: "dna", Schemas: []protocol.Schema{
		{Name: "DnaRegister", Doc: "dna register\nargv #0 value :\n    - 0xVV : IS desired address\nargv #1 value :\n    - 0xVV : IS type"},
		{Name: "DnaList", Doc: "dna list\nargv #0 value :\n    - 0xVV : IS number\nargv #1 value :\n    - 0xVV : BS number"},
		{Name: "DnaLine", Doc: "dna line\nargv #0 value :\n    - 0xVV : line index\nargv #1 value :\n    - 0xVV : IS or BS type\nargv #2 value :\n    - 0xVV : IS or BS i2c address"},
	}}
}

// Log configures on-board logging.
func Log() protocol.Group {
	return protocol.Group{Name: "log", Schemas: []protocol.Schema{
		{
			Name: "Log",
			Doc: `modify logging setup
argv #0 cmde :
    - 0x00 : off
    - 0x14 : ON to RAM
    - 0x1a : ON to sdcard
    - 0x1e : ON to eeprom
    - 0x27 : set command filter LSB part (bitfield for AND mask)
        - argv #1 - #3 value : filter value (MSB first)
    - 0x28 : set command filter MSB part (bitfield for AND mask)
        - argv #1 - #3 value : filter value (MSB first)
    - 0x2e : get command filter LSB part
        - argv #1 - #3 resp : filter value (MSB first)
    - 0x2f : get command filter MSB part
        - argv #1 - #3 resp : filter value (MSB first)
    - 0x3c : set origin filter (0x00 logs from all nodes, 0xVV logs from given node, 0xff doesn't log)
        - argv #1 - #5 value : filter value
    - 0x3f : get origin filter
        - argv #1 - #5 resp : filter value`,
			Defines: map[string]byte{
				"OFF":      0x00,
				"RAM":      0x14,
				"SDCARD":   0x1a,
				"EEPROM":   0x1e,
				"SET_LSB":  0x27,
				"SET_MSB":  0x28,
				"GET_LSB":  0x2e,
				"GET_MSB":  0x2f,
				"SET_ORIG": 0x3c,
				"GET_ORIG": 0x3f,
			},
		},
	}}
}

// Route manages the routing table of a gateway node.
func Route() protocol.Group {
	return protocol.Group{Name: "route", Schemas: []protocol.Schema{
		{Name: "RouteList", Doc: "number of set routes\nargv #0 response : number of set routes"},
		{Name: "RouteLine", Doc: "retrieve a line content\nargv #0 request : requested line\nargv #1 response : virtual address\nargv #2 response : routed address\nargv #3 response : result OK (1) or ko (0)"},
		{Name: "RouteAdd", Doc: "add a new route\nargv #0 request : virtual address\nargv #1 request : routed address\nargv #2 response : result OK (1) or ko (0)"},
		{Name: "RouteDel", Doc: "delete a route\nargv #0 request : virtual address\nargv #1 request : routed address\nargv #2 response : result OK (1) or ko (0)"},
	}}
}

// Reconf forces the nominal/redundant bus selection.
func Reconf() protocol.Group {
	return protocol.Group{Name: "reconf", Schemas: []protocol.Schema{
		{
			Name: "Reconf",
			Doc: `force bus mode
argv #0 value :
    - 0x00 : set force mode
    - 0xff : get force mode
argv #1 value :
    - 0x00 : force nominal bus active
    - 0x01 : force redundant bus active
    - 0x02 : force no bus active
    - 0x03 : bus mode is automatic
argv #2 value (in response only) :
    - 0x00 : nominal bus active
    - 0x01 : redundant bus active
    - 0x02 : no bus active`,
			Defines: map[string]byte{"MODE_SET": 0x00, "MODE_GET": 0xff},
		},
	}}
}

// Minut holds the flight timer commands.
func Minut() protocol.Group {
	return protocol.Group{Name: "minut", Schemas: []protocol.Schema{
		{
			Name: "MinutEvent",
			Doc: `minut events
argv #0 value :
    - 0x00 : none
    - 0x01 : mpu ready
    - 0x02 : sepa open
    - 0x03 : sepa closed
    - 0x04 : time out
    - 0x05 : take-off
    - 0x06 : balistic up
    - 0x07 : balistic down
    - 0x08 : lateral acc trigger`,
			Defines: map[string]byte{
				"EV_NONE":          0x00,
				"EV_MPU_READY":     0x01,
				"EV_SEPA_OPEN":     0x02,
				"EV_SEPA_CLOSED":   0x03,
				"EV_TIME_OUT":      0x04,
				"EV_TAKE_OFF":      0x05,
				"EV_BALISTIC_UP":   0x06,
				"EV_BALISTIC_DOWN": 0x07,
				"EV_LAT_ACC_TRIG":  0x08,
			},
		},
		{
			Name: "MinutTakeOffThres",
			Doc: `take-off detection threshold config
argv #0 value :
    - take-off longitudinal acceleration threshold in 0.01G : [0.00G; 25.5G]
argv #1 value :
    - apogee longitudinal acceleration threshold in 0.01G : [0.00G; 25.5G]
argv #2 value :
    - apogee lateral acceleration threshold in 0.01G : [0.00G; 25.5G]`,
		},
		{
			Name:    "MinutTimeOut",
			Doc:     "set/get time-out\nargv #0 value :\n    - 0x5e : set relative to current time\n    - 0xff : set to infinite\nargv #1 value :\n    - 0xVV : offset from current time [0.0; 25.5] seconds",
			Defines: map[string]byte{"SET": 0x5e, "INF": 0xff},
		},
	}}
}

// Servo drives the cone and aero servos.
func Servo() protocol.Group {
	return protocol.Group{Name: "servo", Schemas: []protocol.Schema{
		{
			Name: "ServoCmd",
			Doc: `open/close servo command
argv #0 value :
    - 0xc0 : cone
    - 0xae : aero
argv #1 value :
    - 0x09 : open
    - 0xc1 : close
    - 0x0f : servo turn off`,
			Defines: map[string]byte{
				"CONE":  ServoCone,
				"AERO":  ServoAero,
				"OPEN":  ServoOpen,
				"CLOSE": ServoClose,
				"OFF":   ServoOff,
			},
			Args: decodeServoCmd,
		},
		{
			Name: "ServoInfo",
			Doc: `save/read servo position
argv #0 value :
    - 0xc0 : cone
    - 0xae : aero
argv #1 value :
    - 0x5a : save
    - 0x4e : read
argv #2 value :
    - 0x09 : open position
    - 0xc1 : close position
argv #3 value :
    - 0xVV : servo position [-100; 100] degrees`,
			Defines: map[string]byte{"SAVE": ServoSave, "READ": ServoRead},
			Args:    decodeServoInfo,
		},
	}}
}

// MPU reports inertial measurements.
func MPU() protocol.Group {
	return protocol.Group{Name: "mpu", Schemas: []protocol.Schema{
		{Name: "MpuAcc", Doc: "acceleration data\nargv #0 - #1 : MSB - LSB X acceleration\nargv #2 - #3 : MSB - LSB Y acceleration\nargv #4 - #5 : MSB - LSB Z acceleration", Args: decodeVector3},
		{Name: "MpuGyr", Doc: "rotation data\nargv #0 - #1 : MSB - LSB X gyro\nargv #2 - #3 : MSB - LSB Y gyro\nargv #4 - #5 : MSB - LSB Z gyro", Args: decodeVector3},
	}}
}

// CPU reports processor load.
func CPU() protocol.Group {
	return protocol.Group{Name: "cpu", Schemas: []protocol.Schema{
		{Name: "cpu", Doc: "CPU usage\nargv #0 - #1 : MSB - LSB last 100 ms\nargv #2 - #3 : MSB - LSB max value\nargv #4 - #5 : MSB - LSB min value", Args: decodeCPU},
	}}
}
