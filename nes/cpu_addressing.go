package nes

// Addressing-mode functions compute the effective address an instruction
// operates on, one cycle at a time. Each returns true once the address is
// ready on cpu.AddressBus; until then it returns false and the caller
// re-invokes it on the following cycle with the same fetchState.
//
// Grounded on original_source/src/cpu/addressing_modes.hpp's
// addressing_mode function family.
type fetchState struct {
	Cycle   uint8
	Address uint16
	Pointer uint8
}

// AddressingMode is the per-instruction address-computation function
// value; skipSamePageCycle lets an indexed mode finish one cycle early
// when adding the index does not cross a page. Read instructions pass
// true; stores and read-modify-write pass false and always take the
// extra cycle.
type AddressingMode func(cpu *CPUState, state *fetchState, skipSamePageCycle bool) bool

func immediate(cpu *CPUState, state *fetchState, _ bool) bool {
	cpu.AddressBus = cpu.PC
	cpu.PC++
	return true
}

func zeroPageIndexed(cpu *CPUState, state *fetchState, hasIndex bool, index uint8) bool {
	switch state.Cycle {
	case 0:
		cpu.AddressBus = cpu.PC
		cpu.PC++
		state.Cycle++
		return false
	case 1:
		state.Address = uint16(cpu.DataBus)
		if hasIndex {
			cpu.AddressBus = state.Address
			state.Cycle++
			return false
		}
		cpu.AddressBus = state.Address
		return true
	case 2:
		cpu.AddressBus = uint16(byte(state.Address) + index)
		return true
	}
	fatalf("cpu: zero page addressing in unexpected cycle %d", state.Cycle)
	return false
}

func zeroPage(cpu *CPUState, state *fetchState, _ bool) bool {
	return zeroPageIndexed(cpu, state, false, 0)
}

func zeroPageX(cpu *CPUState, state *fetchState, _ bool) bool {
	return zeroPageIndexed(cpu, state, true, cpu.X)
}

func zeroPageY(cpu *CPUState, state *fetchState, _ bool) bool {
	return zeroPageIndexed(cpu, state, true, cpu.Y)
}

func absoluteIndexed(cpu *CPUState, state *fetchState, skipSamePageCycle bool, hasIndex bool, index uint8) bool {
	switch state.Cycle {
	case 0:
		cpu.AddressBus = cpu.PC
		cpu.PC++
		state.Cycle++
		return false
	case 1:
		state.Address = uint16(cpu.DataBus)
		cpu.AddressBus = cpu.PC
		cpu.PC++
		state.Cycle++
		return false
	case 2:
		state.Address |= uint16(cpu.DataBus) << 8
		if !hasIndex {
			cpu.AddressBus = state.Address
			return true
		}
		low := uint16(byte(state.Address) + index)
		crossed := low+uint16(state.Address&0xff00) != state.Address+uint16(index)
		cpu.AddressBus = (state.Address & 0xff00) | low
		if !crossed && skipSamePageCycle {
			state.Address += uint16(index)
			return true
		}
		state.Cycle++
		return false
	case 3:
		cpu.AddressBus = state.Address + uint16(index)
		return true
	}
	fatalf("cpu: absolute addressing in unexpected cycle %d", state.Cycle)
	return false
}

func absolute(cpu *CPUState, state *fetchState, skip bool) bool {
	return absoluteIndexed(cpu, state, skip, false, 0)
}

func absoluteX(cpu *CPUState, state *fetchState, skip bool) bool {
	return absoluteIndexed(cpu, state, skip, true, cpu.X)
}

func absoluteY(cpu *CPUState, state *fetchState, skip bool) bool {
	return absoluteIndexed(cpu, state, skip, true, cpu.Y)
}

func indirectX(cpu *CPUState, state *fetchState, _ bool) bool {
	switch state.Cycle {
	case 0:
		cpu.AddressBus = cpu.PC
		cpu.PC++
		state.Cycle++
		return false
	case 1:
		state.Pointer = cpu.DataBus // zero-page pointer byte
		cpu.AddressBus = uint16(state.Pointer)
		state.Cycle++
		return false
	case 2:
		cpu.AddressBus = uint16(state.Pointer + cpu.X)
		state.Cycle++
		return false
	case 3:
		state.Address = uint16(cpu.DataBus) // target low byte
		cpu.AddressBus = uint16(state.Pointer + cpu.X + 1)
		state.Cycle++
		return false
	case 4:
		state.Address |= uint16(cpu.DataBus) << 8
		cpu.AddressBus = state.Address
		return true
	}
	fatalf("cpu: indirect,x addressing in unexpected cycle %d", state.Cycle)
	return false
}

func indirectY(cpu *CPUState, state *fetchState, skipSamePageCycle bool) bool {
	switch state.Cycle {
	case 0:
		cpu.AddressBus = cpu.PC
		cpu.PC++
		state.Cycle++
		return false
	case 1:
		state.Pointer = cpu.DataBus // zero-page pointer byte
		cpu.AddressBus = uint16(state.Pointer)
		state.Cycle++
		return false
	case 2:
		state.Address = uint16(cpu.DataBus) // target low byte
		cpu.AddressBus = uint16(state.Pointer + 1)
		state.Cycle++
		return false
	case 3:
		base := state.Address | (uint16(cpu.DataBus) << 8)
		low := uint16(byte(base)+cpu.Y) | (base & 0xff00)
		crossed := (base & 0xff00) != (low & 0xff00)
		state.Address = base
		cpu.AddressBus = low
		if !crossed && skipSamePageCycle {
			state.Address = base + uint16(cpu.Y)
			return true
		}
		state.Cycle++
		return false
	case 4:
		cpu.AddressBus = state.Address + uint16(cpu.Y)
		return true
	}
	fatalf("cpu: indirect,y addressing in unexpected cycle %d", state.Cycle)
	return false
}

// indirect implements JMP (indirect)'s famous page-wrap bug: if the
// pointer's low byte is 0xff, the high byte of the target is fetched from
// the start of the same page rather than the next page.
func indirect(cpu *CPUState, state *fetchState, _ bool) bool {
	switch state.Cycle {
	case 0:
		cpu.AddressBus = cpu.PC
		cpu.PC++
		state.Cycle++
		return false
	case 1:
		state.Address = uint16(cpu.DataBus)
		cpu.AddressBus = cpu.PC
		cpu.PC++
		state.Cycle++
		return false
	case 2:
		state.Address |= uint16(cpu.DataBus) << 8
		cpu.AddressBus = state.Address
		state.Cycle++
		return false
	case 3:
		target := uint16(cpu.DataBus)
		wrapped := (state.Address & 0xff00) | uint16(byte(state.Address)+1)
		cpu.AddressBus = wrapped
		state.Address = target
		state.Cycle++
		return false
	case 4:
		state.Address |= uint16(cpu.DataBus) << 8
		cpu.AddressBus = state.Address
		return true
	}
	fatalf("cpu: indirect addressing in unexpected cycle %d", state.Cycle)
	return false
}
