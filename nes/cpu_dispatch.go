package nes

// The 256-entry opcode dispatch table and the top-level per-cycle Step
// function: reset re-initialization, NMI edge detection, IRQ level
// detection, and BRK-injection when an interrupt is pending on an
// opcode-fetch cycle.
//
// Grounded on original_source/src/cpu/instructions.cpp's instruction_set
// table and step(cpu_state&, instruction_state).

func illegal(cpu *CPUState, state InstructionState) InstructionState {
	fatalf("cpu: executed an unimplemented/illegal opcode 0x%02x", cpu.InstructionRegister)
	panic("unreachable")
}

var instructionSet = buildInstructionSet()

func buildInstructionSet() [256]Instruction {
	var t [256]Instruction
	for i := range t {
		t[i] = illegal
	}

	t[0x00] = brk
	t[0x01] = readOp(indirectX, opORA)
	t[0x05] = readOp(zeroPage, opORA)
	t[0x06] = rmwOp(zeroPage, opASL)
	t[0x08] = php
	t[0x09] = readOp(immediate, opORA)
	t[0x0a] = aslAccumulator
	t[0x0d] = readOp(absolute, opORA)
	t[0x0e] = rmwOp(absolute, opASL)
	t[0x10] = branchOp(func(c *CPUState) bool { return !c.P.Negative })
	t[0x11] = readOp(indirectY, opORA)
	t[0x15] = readOp(zeroPageX, opORA)
	t[0x16] = rmwOp(zeroPageX, opASL)
	t[0x18] = singleOp(func(c *CPUState) { c.P.Carry = false })
	t[0x19] = readOp(absoluteY, opORA)
	t[0x1d] = readOp(absoluteX, opORA)
	t[0x1e] = rmwOp(absoluteX, opASL)

	t[0x20] = jsr
	t[0x21] = readOp(indirectX, opAND)
	t[0x24] = readOp(zeroPage, opBIT)
	t[0x25] = readOp(zeroPage, opAND)
	t[0x26] = rmwOp(zeroPage, opROL)
	t[0x28] = plp
	t[0x29] = readOp(immediate, opAND)
	t[0x2a] = rolAccumulator
	t[0x2c] = readOp(absolute, opBIT)
	t[0x2d] = readOp(absolute, opAND)
	t[0x2e] = rmwOp(absolute, opROL)
	t[0x30] = branchOp(func(c *CPUState) bool { return c.P.Negative })
	t[0x31] = readOp(indirectY, opAND)
	t[0x35] = readOp(zeroPageX, opAND)
	t[0x36] = rmwOp(zeroPageX, opROL)
	t[0x38] = singleOp(func(c *CPUState) { c.P.Carry = true })
	t[0x39] = readOp(absoluteY, opAND)
	t[0x3d] = readOp(absoluteX, opAND)
	t[0x3e] = rmwOp(absoluteX, opROL)

	t[0x40] = rti
	t[0x41] = readOp(indirectX, opEOR)
	t[0x45] = readOp(zeroPage, opEOR)
	t[0x46] = rmwOp(zeroPage, opLSR)
	t[0x48] = pha
	t[0x49] = readOp(immediate, opEOR)
	t[0x4a] = lsrAccumulator
	t[0x4c] = jumpOp(absolute)
	t[0x4d] = readOp(absolute, opEOR)
	t[0x4e] = rmwOp(absolute, opLSR)
	t[0x50] = branchOp(func(c *CPUState) bool { return !c.P.Overflow })
	t[0x51] = readOp(indirectY, opEOR)
	t[0x55] = readOp(zeroPageX, opEOR)
	t[0x56] = rmwOp(zeroPageX, opLSR)
	t[0x58] = singleOp(func(c *CPUState) { c.P.InterruptDisable = false })
	t[0x59] = readOp(absoluteY, opEOR)
	t[0x5d] = readOp(absoluteX, opEOR)
	t[0x5e] = rmwOp(absoluteX, opLSR)

	t[0x60] = rts
	t[0x61] = readOp(indirectX, opADC)
	t[0x65] = readOp(zeroPage, opADC)
	t[0x66] = rmwOp(zeroPage, opROR)
	t[0x68] = pla
	t[0x69] = readOp(immediate, opADC)
	t[0x6a] = rorAccumulator
	t[0x6c] = jumpOp(indirect)
	t[0x6d] = readOp(absolute, opADC)
	t[0x6e] = rmwOp(absolute, opROR)
	t[0x70] = branchOp(func(c *CPUState) bool { return c.P.Overflow })
	t[0x71] = readOp(indirectY, opADC)
	t[0x75] = readOp(zeroPageX, opADC)
	t[0x76] = rmwOp(zeroPageX, opROR)
	t[0x78] = singleOp(func(c *CPUState) { c.P.InterruptDisable = true })
	t[0x79] = readOp(absoluteY, opADC)
	t[0x7d] = readOp(absoluteX, opADC)
	t[0x7e] = rmwOp(absoluteX, opROR)

	t[0x81] = storeOp(indirectX, regA)
	t[0x84] = storeOp(zeroPage, regY)
	t[0x85] = storeOp(zeroPage, regA)
	t[0x86] = storeOp(zeroPage, regX)
	t[0x88] = singleOp(func(c *CPUState) { c.Y--; setNegativeZero(c, c.Y) })
	t[0x8a] = singleOp(func(c *CPUState) { c.A = c.X; setNegativeZero(c, c.A) })
	t[0x8c] = storeOp(absolute, regY)
	t[0x8d] = storeOp(absolute, regA)
	t[0x8e] = storeOp(absolute, regX)
	t[0x90] = branchOp(func(c *CPUState) bool { return !c.P.Carry })
	t[0x91] = storeOp(indirectY, regA)
	t[0x94] = storeOp(zeroPageX, regY)
	t[0x95] = storeOp(zeroPageX, regA)
	t[0x96] = storeOp(zeroPageY, regX)
	t[0x98] = singleOp(func(c *CPUState) { c.A = c.Y; setNegativeZero(c, c.A) })
	t[0x99] = storeOp(absoluteY, regA)
	t[0x9a] = singleOp(func(c *CPUState) { c.S = c.X })
	t[0x9d] = storeOp(absoluteX, regA)

	t[0xa0] = readOp(immediate, opLDY)
	t[0xa1] = readOp(indirectX, opLDA)
	t[0xa2] = readOp(immediate, opLDX)
	t[0xa4] = readOp(zeroPage, opLDY)
	t[0xa5] = readOp(zeroPage, opLDA)
	t[0xa6] = readOp(zeroPage, opLDX)
	t[0xa8] = singleOp(func(c *CPUState) { c.Y = c.A; setNegativeZero(c, c.Y) })
	t[0xa9] = readOp(immediate, opLDA)
	t[0xaa] = singleOp(func(c *CPUState) { c.X = c.A; setNegativeZero(c, c.X) })
	t[0xac] = readOp(absolute, opLDY)
	t[0xad] = readOp(absolute, opLDA)
	t[0xae] = readOp(absolute, opLDX)
	t[0xb0] = branchOp(func(c *CPUState) bool { return c.P.Carry })
	t[0xb1] = readOp(indirectY, opLDA)
	t[0xb4] = readOp(zeroPageX, opLDY)
	t[0xb5] = readOp(zeroPageX, opLDA)
	t[0xb6] = readOp(zeroPageY, opLDX)
	t[0xb8] = singleOp(func(c *CPUState) { c.P.Overflow = false })
	t[0xb9] = readOp(absoluteY, opLDA)
	t[0xba] = singleOp(func(c *CPUState) { c.X = c.S; setNegativeZero(c, c.X) })
	t[0xbc] = readOp(absoluteX, opLDY)
	t[0xbd] = readOp(absoluteX, opLDA)
	t[0xbe] = readOp(absoluteY, opLDX)

	t[0xc0] = readOp(immediate, opCPY)
	t[0xc1] = readOp(indirectX, opCMP)
	t[0xc4] = readOp(zeroPage, opCPY)
	t[0xc5] = readOp(zeroPage, opCMP)
	t[0xc6] = rmwOp(zeroPage, opDEC)
	t[0xc8] = singleOp(func(c *CPUState) { c.Y++; setNegativeZero(c, c.Y) })
	t[0xc9] = readOp(immediate, opCMP)
	t[0xca] = singleOp(func(c *CPUState) { c.X--; setNegativeZero(c, c.X) })
	t[0xcc] = readOp(absolute, opCPY)
	t[0xcd] = readOp(absolute, opCMP)
	t[0xce] = rmwOp(absolute, opDEC)
	t[0xd0] = branchOp(func(c *CPUState) bool { return !c.P.Zero })
	t[0xd1] = readOp(indirectY, opCMP)
	t[0xd5] = readOp(zeroPageX, opCMP)
	t[0xd6] = rmwOp(zeroPageX, opDEC)
	t[0xd8] = singleOp(func(c *CPUState) {}) // CLD: decimal mode unused on NES
	t[0xd9] = readOp(absoluteY, opCMP)
	t[0xdd] = readOp(absoluteX, opCMP)
	t[0xde] = rmwOp(absoluteX, opDEC)

	t[0xe0] = readOp(immediate, opCPX)
	t[0xe1] = readOp(indirectX, opSBC)
	t[0xe4] = readOp(zeroPage, opCPX)
	t[0xe5] = readOp(zeroPage, opSBC)
	t[0xe6] = rmwOp(zeroPage, opINC)
	t[0xe8] = singleOp(func(c *CPUState) { c.X++; setNegativeZero(c, c.X) })
	t[0xe9] = readOp(immediate, opSBC)
	t[0xea] = singleOp(func(c *CPUState) {})
	t[0xec] = readOp(absolute, opCPX)
	t[0xed] = readOp(absolute, opSBC)
	t[0xee] = rmwOp(absolute, opINC)
	t[0xf0] = branchOp(func(c *CPUState) bool { return c.P.Zero })
	t[0xf1] = readOp(indirectY, opSBC)
	t[0xf5] = readOp(zeroPageX, opSBC)
	t[0xf6] = rmwOp(zeroPageX, opINC)
	t[0xf8] = singleOp(func(c *CPUState) {}) // SED: decimal mode unused on NES
	t[0xf9] = readOp(absoluteY, opSBC)
	t[0xfd] = readOp(absoluteX, opSBC)
	t[0xfe] = rmwOp(absoluteX, opINC)

	return t
}

// instructionExecutionState tracks where within the dispatched
// instruction's shape we are; it is the Go analogue of
// original_source's function-local instruction_state variable that
// step() threads across calls. current pins the exact shape function
// in progress (an ordinary opcode, or an injected interrupt sequence)
// so a later cycle resumes the same closure rather than re-deriving it
// from InstructionRegister, which an interrupt injection never touches.
type instructionExecutionState struct {
	state   InstructionState
	current Instruction
}

// Step advances the CPU by exactly one clock cycle, handling reset,
// NMI-edge, and IRQ-level interrupt injection exactly as
// original_source/src/cpu/instructions.cpp's step() does.
func (cpu *CPUState) Step(exec *instructionExecutionState) {
	cpu.CycleCount++

	if cpu.ResetPending {
		exec.state = interruptSequence(cpu, exec.state, resetVector, false, true)
		if exec.state.Kind == stateFetchingOpcode && exec.state.Step == 0 {
			cpu.ResetPending = false
		}
		return
	}

	// The edge detector latches on whichever cycle the 0->1 transition
	// actually happens, not just a cycle that lands on a sync boundary;
	// cpu.LastNMI advances every cycle, so deferring the NMIPending set
	// until a sync cycle would lose edges that occur mid-instruction.
	if cpu.NMI && !cpu.LastNMI {
		cpu.NMIPending = true
	}
	cpu.LastNMI = cpu.NMI

	if exec.state.Kind == stateFetchingOpcode && cpu.Sync {
		if cpu.IRQ && !cpu.P.InterruptDisable {
			cpu.IRQPending = true
		}

		// An injected interrupt discards the fetched byte, so PC only
		// advances past it when the opcode is actually executed.
		cpu.InstructionRegister = cpu.DataBus

		if cpu.NMIPending {
			cpu.NMIPending = false
			exec.current = func(c *CPUState, s InstructionState) InstructionState {
				return interruptSequence(c, s, nmiVector, false, false)
			}
			exec.state = exec.current(cpu, InstructionState{})
			return
		}
		if cpu.IRQPending {
			cpu.IRQPending = false
			exec.current = func(c *CPUState, s InstructionState) InstructionState {
				return interruptSequence(c, s, brkIRQVector, false, false)
			}
			exec.state = exec.current(cpu, InstructionState{})
			return
		}

		cpu.PC++
		exec.current = instructionSet[cpu.InstructionRegister]
		exec.state = exec.current(cpu, InstructionState{Kind: stateFetchingOpcode})
		return
	}

	exec.state = exec.current(cpu, exec.state)
}
