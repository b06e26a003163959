package nes

// ButtonState is a bit-packed record of one controller's eight buttons,
// matching the wire format the shift register reports one bit per read:
// A, B, Select, Start, Up, Down, Left, Right from D0 upward.
//
// Grounded on original_source/src/controller.hpp's controller_state.
type ButtonState struct {
	A, B, Select, Start       bool
	Up, Down, Left, Right     bool
}

func (b ButtonState) byte() byte {
	var v byte
	if b.A {
		v |= 0x01
	}
	if b.B {
		v |= 0x02
	}
	if b.Select {
		v |= 0x04
	}
	if b.Start {
		v |= 0x08
	}
	if b.Up {
		v |= 0x10
	}
	if b.Down {
		v |= 0x20
	}
	if b.Left {
		v |= 0x40
	}
	if b.Right {
		v |= 0x80
	}
	return v
}

// ControllerStates is the snapshot returned by the injected poll callback
// for both ports in one call.
type ControllerStates struct {
	Joy1, Joy2 ButtonState
}

// ControllerCallback is invoked on the falling edge of the latch, pull
// style. It must be side-effect-free with respect to the core (spec.md §5).
type ControllerCallback func() ControllerStates

// ControllerPort holds the shared latch bit and the two 8-bit shift
// registers fed from it, one per joystick port.
//
// Grounded on original_source/src/controller.hpp: writing bit 0 and then
// clearing it (falling edge) invokes ReadController; reading either port
// returns the current LSB of that port's shift register and shifts it
// right by one. If the latch is never cleared (held high), every read
// re-polls and re-loads both shift registers, matching the reference's
// "read controllers again if the latch was not reset" behavior.
type ControllerPort struct {
	latch bool
	joy1  byte
	joy2  byte

	ReadController ControllerCallback
}

func NewControllerPort() *ControllerPort {
	return &ControllerPort{}
}

// Read services a CPU read of 0x4016 (joy1) or 0x4017 (joy2).
func (c *ControllerPort) Read(address uint16) byte {
	if c.latch {
		c.poll()
	}

	reg := &c.joy1
	if address == 0x4017 {
		reg = &c.joy2
	}
	bit := *reg & 0x01
	*reg >>= 1
	return bit
}

// Write services a CPU write to 0x4016 (the controller latch register).
func (c *ControllerPort) Write(value byte) {
	previous := c.latch
	c.latch = (value & 0x01) != 0
	if previous && !c.latch {
		c.poll()
	}
}

func (c *ControllerPort) poll() {
	if c.ReadController == nil {
		return
	}
	states := c.ReadController()
	c.joy1 = states.Joy1.byte()
	c.joy2 = states.Joy2.byte()
}
