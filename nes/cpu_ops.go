package nes

// Every named 6502 instruction the console's software actually relies
// on, built by partially applying the shape combinators in
// cpu_instructions.go to an addressing-mode function value and a small
// operation closure — the Go analogue of original_source's template
// instantiations (ORA<indirect_x>, ASL<accumulator>, JMP<absolute>, ...).
//
// Grounded on original_source/src/cpu/instructions.cpp.

func regA(cpu *CPUState) byte { return cpu.A }
func regX(cpu *CPUState) byte { return cpu.X }
func regY(cpu *CPUState) byte { return cpu.Y }

func readOp(mode AddressingMode, execute func(cpu *CPUState, value byte)) Instruction {
	return func(cpu *CPUState, state InstructionState) InstructionState {
		return internalExecutionOnMemoryData(cpu, state, mode, execute)
	}
}

func storeOp(mode AddressingMode, selectRegister registerSelector) Instruction {
	return func(cpu *CPUState, state InstructionState) InstructionState {
		return storeOperation(cpu, state, mode, selectRegister)
	}
}

func rmwOp(mode AddressingMode, execute inoutOperation) Instruction {
	return func(cpu *CPUState, state InstructionState) InstructionState {
		return readModifyWrite(cpu, state, mode, execute)
	}
}

func jumpOp(mode AddressingMode) Instruction {
	return func(cpu *CPUState, state InstructionState) InstructionState {
		return jumpOperation(cpu, state, mode)
	}
}

func branchOp(condition branchCondition) Instruction {
	return func(cpu *CPUState, state InstructionState) InstructionState {
		return branchOperation(cpu, state, condition)
	}
}

func singleOp(execute operation) Instruction {
	return func(cpu *CPUState, state InstructionState) InstructionState {
		return singleByteInstruction(cpu, state, execute)
	}
}

// Load/store/ALU operations that plug into the shape combinators above.

func opADC(cpu *CPUState, v byte) { adcImpl(cpu, v) }
func opSBC(cpu *CPUState, v byte) { sbcImpl(cpu, v) }

func opAND(cpu *CPUState, v byte) { cpu.A &= v; setNegativeZero(cpu, cpu.A) }
func opORA(cpu *CPUState, v byte) { cpu.A |= v; setNegativeZero(cpu, cpu.A) }
func opEOR(cpu *CPUState, v byte) { cpu.A ^= v; setNegativeZero(cpu, cpu.A) }

func opLDA(cpu *CPUState, v byte) { cpu.A = v; setNegativeZero(cpu, cpu.A) }
func opLDX(cpu *CPUState, v byte) { cpu.X = v; setNegativeZero(cpu, cpu.X) }
func opLDY(cpu *CPUState, v byte) { cpu.Y = v; setNegativeZero(cpu, cpu.Y) }

func compare(cpu *CPUState, reg, v byte) {
	result := reg - v
	cpu.P.Carry = reg >= v
	setNegativeZero(cpu, result)
}

func opCMP(cpu *CPUState, v byte) { compare(cpu, cpu.A, v) }
func opCPX(cpu *CPUState, v byte) { compare(cpu, cpu.X, v) }
func opCPY(cpu *CPUState, v byte) { compare(cpu, cpu.Y, v) }

func opBIT(cpu *CPUState, v byte) {
	cpu.P.Zero = cpu.A&v == 0
	cpu.P.Overflow = v&0x40 != 0
	cpu.P.Negative = v&0x80 != 0
}

func opASL(cpu *CPUState, v byte) byte { return aslImpl(cpu, v) }
func opLSR(cpu *CPUState, v byte) byte { return lsrImpl(cpu, v) }
func opROL(cpu *CPUState, v byte) byte { return rolImpl(cpu, v) }
func opROR(cpu *CPUState, v byte) byte { return rorImpl(cpu, v) }
func opINC(cpu *CPUState, v byte) byte { v++; setNegativeZero(cpu, v); return v }
func opDEC(cpu *CPUState, v byte) byte { v--; setNegativeZero(cpu, v); return v }

func aslAccumulator(cpu *CPUState, state InstructionState) InstructionState {
	return singleByteInstruction(cpu, state, func(cpu *CPUState) { cpu.A = aslImpl(cpu, cpu.A) })
}
func lsrAccumulator(cpu *CPUState, state InstructionState) InstructionState {
	return singleByteInstruction(cpu, state, func(cpu *CPUState) { cpu.A = lsrImpl(cpu, cpu.A) })
}
func rolAccumulator(cpu *CPUState, state InstructionState) InstructionState {
	return singleByteInstruction(cpu, state, func(cpu *CPUState) { cpu.A = rolImpl(cpu, cpu.A) })
}
func rorAccumulator(cpu *CPUState, state InstructionState) InstructionState {
	return singleByteInstruction(cpu, state, func(cpu *CPUState) { cpu.A = rorImpl(cpu, cpu.A) })
}

func brk(cpu *CPUState, state InstructionState) InstructionState {
	return interruptSequence(cpu, state, brkIRQVector, true, false)
}

func rti(cpu *CPUState, state InstructionState) InstructionState {
	return returnFromInterrupt(cpu, state)
}

func rts(cpu *CPUState, state InstructionState) InstructionState {
	return returnFromSubroutine(cpu, state)
}

func jsr(cpu *CPUState, state InstructionState) InstructionState {
	return jumpToSubroutine(cpu, state)
}

func pha(cpu *CPUState, state InstructionState) InstructionState {
	return pushOperation(cpu, state, regA, func(cpu *CPUState) byte { return cpu.A })
}
func php(cpu *CPUState, state InstructionState) InstructionState {
	return pushOperation(cpu, state, regA, func(cpu *CPUState) byte { return cpu.P.Byte(true) })
}
func pla(cpu *CPUState, state InstructionState) InstructionState {
	return pullOperation(cpu, state, func(cpu *CPUState, v byte) { cpu.A = v; setNegativeZero(cpu, v) })
}
func plp(cpu *CPUState, state InstructionState) InstructionState {
	return pullOperation(cpu, state, func(cpu *CPUState, v byte) { cpu.P.Set(v) })
}
