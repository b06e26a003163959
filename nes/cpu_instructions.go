package nes

// Instruction-shape combinators assemble one instruction's per-cycle
// behavior out of an addressing mode plus an ALU/register operation, the
// same families of shapes every 6502 opcode falls into.
//
// Grounded on original_source/src/cpu/instructions.hpp: fetching_opcode,
// single_byte_instruction, internal_execution_on_memory_data,
// store_operation, read_modify_write, push_operation, pull_operation,
// jump_to_subroutine, jump_operation, return_from_subroutine,
// branch_operation, interrupt_sequence, return_from_interrupt. The
// std::variant<...> instruction_state there becomes a tagged struct
// here, since Go lacks sum types; the addressing-mode/operation
// template parameters become ordinary function values.

type instructionStateKind uint8

const (
	stateFetchingOpcode instructionStateKind = iota
	stateFetchingAddress
	stateStoringData
	stateWaiting
)

// InstructionState is the tagged union of places execution can be
// within an instruction: about to fetch an opcode, mid-addressing-mode,
// about to store a computed value, or waiting out a fixed-length
// sequence (interrupts, JSR/RTS/RTI, branches).
type InstructionState struct {
	Kind    instructionStateKind
	Addr    fetchState
	Pending byte // value already computed, for storingData/waiting states
	Step    uint8
}

// Instruction is one opcode's complete per-cycle behavior.
type Instruction func(cpu *CPUState, state InstructionState) InstructionState

type operation func(cpu *CPUState)
type inoutOperation func(cpu *CPUState, operand uint8) uint8
type registerSelector func(cpu *CPUState) uint8
type branchCondition func(cpu *CPUState) bool

func fetchOpcode(cpu *CPUState) {
	cpu.Sync = true
	cpu.AddressBus = cpu.PC
	cpu.RW = Read
}

// singleByteInstruction runs a register-only operation (CLC, NOP, TAX,
// ...), taking exactly 2 cycles: a dummy read of the next byte, on which
// the operation executes, then the next opcode fetch.
func singleByteInstruction(cpu *CPUState, state InstructionState, execute operation) InstructionState {
	switch state.Kind {
	case stateFetchingOpcode:
		cpu.Sync = false
		cpu.AddressBus = cpu.PC
		cpu.RW = Read
		return InstructionState{Kind: stateWaiting}
	case stateWaiting:
		execute(cpu)
		fetchOpcode(cpu)
		return InstructionState{Kind: stateFetchingOpcode}
	}
	fatalf("cpu: single-byte instruction given unexpected state")
	panic("unreachable")
}

// internalExecutionOnMemoryData reads a value via mode then applies a
// register-mutating operation to it (ADC, AND, LDA, CMP, BIT, ...).
func internalExecutionOnMemoryData(cpu *CPUState, state InstructionState, mode AddressingMode, execute func(cpu *CPUState, value byte)) InstructionState {
	switch state.Kind {
	case stateFetchingOpcode:
		cpu.Sync = false
		cpu.RW = Read
		addr := fetchState{}
		if mode(cpu, &addr, true) {
			return InstructionState{Kind: stateWaiting}
		}
		return InstructionState{Kind: stateFetchingAddress, Addr: addr}
	case stateFetchingAddress:
		addr := state.Addr
		cpu.RW = Read
		if mode(cpu, &addr, true) {
			return InstructionState{Kind: stateWaiting}
		}
		return InstructionState{Kind: stateFetchingAddress, Addr: addr}
	case stateWaiting:
		// The operand read at the final address is now on the data bus.
		execute(cpu, cpu.DataBus)
		fetchOpcode(cpu)
		return InstructionState{Kind: stateFetchingOpcode}
	}
	fatalf("cpu: internal-execution-on-memory-data given unexpected state")
	panic("unreachable")
}

// storeOperation writes a register's value to the address mode computes
// (STA/STX/STY). The extra cycle that indexed modes would otherwise skip
// on a non-crossing page is never skipped for a store, since the write
// address must always be settled a cycle ahead.
func storeOperation(cpu *CPUState, state InstructionState, mode AddressingMode, selectRegister registerSelector) InstructionState {
	switch state.Kind {
	case stateFetchingOpcode:
		cpu.Sync = false
		cpu.RW = Read
		addr := fetchState{}
		if mode(cpu, &addr, false) {
			cpu.DataBus = selectRegister(cpu)
			cpu.RW = Write
			return InstructionState{Kind: stateStoringData}
		}
		return InstructionState{Kind: stateFetchingAddress, Addr: addr}
	case stateFetchingAddress:
		addr := state.Addr
		cpu.RW = Read
		if mode(cpu, &addr, false) {
			cpu.DataBus = selectRegister(cpu)
			cpu.RW = Write
			return InstructionState{Kind: stateStoringData}
		}
		return InstructionState{Kind: stateFetchingAddress, Addr: addr}
	case stateStoringData:
		fetchOpcode(cpu)
		return InstructionState{Kind: stateFetchingOpcode}
	}
	fatalf("cpu: store operation given unexpected state")
	panic("unreachable")
}

// readModifyWrite reads a value, writes it back unmodified (the
// dummy write real 6502s perform), computes the new value, then writes
// that (ASL/LSR/ROL/ROR/INC/DEC on memory operands).
func readModifyWrite(cpu *CPUState, state InstructionState, mode AddressingMode, execute inoutOperation) InstructionState {
	switch state.Kind {
	case stateFetchingOpcode:
		cpu.Sync = false
		cpu.RW = Read
		addr := fetchState{}
		if mode(cpu, &addr, false) {
			return InstructionState{Kind: stateFetchingAddress, Addr: addr, Step: 1}
		}
		return InstructionState{Kind: stateFetchingAddress, Addr: addr}
	case stateFetchingAddress:
		if state.Step == 0 {
			addr := state.Addr
			cpu.RW = Read
			if mode(cpu, &addr, false) {
				return InstructionState{Kind: stateFetchingAddress, Addr: addr, Step: 1}
			}
			return InstructionState{Kind: stateFetchingAddress, Addr: addr}
		}
		// Step 1: dummy write-back of the value just read.
		original := cpu.DataBus
		cpu.RW = Write
		cpu.DataBus = original
		return InstructionState{Kind: stateStoringData, Addr: state.Addr, Pending: original}
	case stateStoringData:
		result := execute(cpu, state.Pending)
		cpu.AddressBus = state.Addr.Address
		cpu.DataBus = result
		cpu.RW = Write
		return InstructionState{Kind: stateWaiting}
	case stateWaiting:
		fetchOpcode(cpu)
		return InstructionState{Kind: stateFetchingOpcode}
	}
	fatalf("cpu: read-modify-write given unexpected state")
	panic("unreachable")
}

func pushOperation(cpu *CPUState, state InstructionState, selectRegister registerSelector, prepareValue func(cpu *CPUState) byte) InstructionState {
	switch state.Kind {
	case stateFetchingOpcode:
		cpu.Sync = false
		cpu.AddressBus = cpu.PC
		cpu.RW = Read
		return InstructionState{Kind: stateFetchingAddress}
	case stateFetchingAddress:
		cpu.push(prepareValue(cpu))
		return InstructionState{Kind: stateStoringData}
	case stateStoringData:
		fetchOpcode(cpu)
		return InstructionState{Kind: stateFetchingOpcode}
	}
	fatalf("cpu: push operation given unexpected state")
	panic("unreachable")
}

func pullOperation(cpu *CPUState, state InstructionState, apply func(cpu *CPUState, value byte)) InstructionState {
	switch state.Kind {
	case stateFetchingOpcode:
		cpu.Sync = false
		cpu.AddressBus = cpu.PC
		cpu.RW = Read
		return InstructionState{Kind: stateFetchingAddress}
	case stateFetchingAddress:
		cpu.preparePull()
		return InstructionState{Kind: stateStoringData}
	case stateStoringData:
		apply(cpu, cpu.DataBus)
		fetchOpcode(cpu)
		return InstructionState{Kind: stateFetchingOpcode}
	}
	fatalf("cpu: pull operation given unexpected state")
	panic("unreachable")
}

// jumpToSubroutine pushes PC-1 and jumps, 6 cycles total (JSR absolute).
func jumpToSubroutine(cpu *CPUState, state InstructionState) InstructionState {
	switch state.Kind {
	case stateFetchingOpcode:
		cpu.Sync = false
		cpu.AddressBus = cpu.PC
		cpu.RW = Read
		return InstructionState{Kind: stateFetchingAddress, Step: 0}
	case stateFetchingAddress:
		switch state.Step {
		case 0:
			state.Pending = cpu.DataBus // low byte of target
			cpu.PC++
			cpu.AddressBus = stackPage | uint16(cpu.S)
			cpu.RW = Read
			state.Step = 1
			return state
		case 1:
			returnAddr := cpu.PC
			cpu.push(byte(returnAddr >> 8))
			state.Step = 2
			return InstructionState{Kind: stateStoringData, Pending: state.Pending, Step: 2}
		}
	case stateStoringData:
		switch state.Step {
		case 2:
			returnAddr := cpu.PC
			cpu.push(byte(returnAddr))
			return InstructionState{Kind: stateStoringData, Pending: state.Pending, Step: 3}
		case 3:
			cpu.AddressBus = cpu.PC
			cpu.RW = Read
			return InstructionState{Kind: stateWaiting, Pending: state.Pending}
		}
	case stateWaiting:
		cpu.PC = (uint16(cpu.DataBus) << 8) | uint16(state.Pending)
		fetchOpcode(cpu)
		return InstructionState{Kind: stateFetchingOpcode}
	}
	fatalf("cpu: jump-to-subroutine given unexpected state")
	panic("unreachable")
}

func jumpOperation(cpu *CPUState, state InstructionState, mode AddressingMode) InstructionState {
	switch state.Kind {
	case stateFetchingOpcode:
		cpu.Sync = false
		cpu.RW = Read
		addr := fetchState{}
		if mode(cpu, &addr, true) {
			cpu.PC = addr.Address
			fetchOpcode(cpu)
			return InstructionState{Kind: stateFetchingOpcode}
		}
		return InstructionState{Kind: stateFetchingAddress, Addr: addr}
	case stateFetchingAddress:
		addr := state.Addr
		cpu.RW = Read
		if mode(cpu, &addr, true) {
			cpu.PC = addr.Address
			fetchOpcode(cpu)
			return InstructionState{Kind: stateFetchingOpcode}
		}
		return InstructionState{Kind: stateFetchingAddress, Addr: addr}
	}
	fatalf("cpu: jump operation given unexpected state")
	panic("unreachable")
}

// returnFromSubroutine pulls the return address and adds one (RTS), 6
// cycles total.
func returnFromSubroutine(cpu *CPUState, state InstructionState) InstructionState {
	switch state.Kind {
	case stateFetchingOpcode:
		cpu.Sync = false
		cpu.AddressBus = cpu.PC
		cpu.RW = Read
		return InstructionState{Kind: stateFetchingAddress, Step: 0}
	case stateFetchingAddress:
		if state.Step == 0 {
			// Dummy read of the stack before the first pull.
			cpu.AddressBus = stackPage | uint16(cpu.S)
			cpu.RW = Read
			return InstructionState{Kind: stateFetchingAddress, Step: 1}
		}
		cpu.preparePull()
		return InstructionState{Kind: stateStoringData, Step: 1}
	case stateStoringData:
		switch state.Step {
		case 1:
			state.Pending = cpu.DataBus // low byte
			cpu.preparePull()
			state.Step = 2
			return state
		case 2:
			pc := (uint16(cpu.DataBus) << 8) | uint16(state.Pending)
			cpu.AddressBus = pc
			cpu.RW = Read
			return InstructionState{Kind: stateWaiting, Pending: byte(pc), Addr: fetchState{Address: pc}}
		}
	case stateWaiting:
		cpu.PC = state.Addr.Address + 1
		fetchOpcode(cpu)
		return InstructionState{Kind: stateFetchingOpcode}
	}
	fatalf("cpu: return-from-subroutine given unexpected state")
	panic("unreachable")
}

// branchOperation takes 2 cycles when not taken, 3 when taken without a
// page cross, 4 when taken across a page boundary.
func branchOperation(cpu *CPUState, state InstructionState, condition branchCondition) InstructionState {
	switch state.Kind {
	case stateFetchingOpcode:
		cpu.Sync = false
		cpu.AddressBus = cpu.PC
		cpu.RW = Read
		return InstructionState{Kind: stateFetchingAddress, Step: 0}
	case stateFetchingAddress:
		offset := cpu.DataBus
		cpu.PC++
		if !condition(cpu) {
			fetchOpcode(cpu)
			return InstructionState{Kind: stateFetchingOpcode}
		}
		target := cpu.PC
		if offset < 0x80 {
			target += uint16(offset)
		} else {
			target += uint16(offset) - 0x100
		}
		cpu.AddressBus = cpu.PC
		cpu.RW = Read
		crossed := (target & 0xff00) != (cpu.PC & 0xff00)
		return InstructionState{Kind: stateStoringData, Addr: fetchState{Address: target}, Step: boolToStep(crossed)}
	case stateStoringData:
		cpu.PC = state.Addr.Address
		if state.Step == 1 {
			cpu.AddressBus = cpu.PC
			cpu.RW = Read
			return InstructionState{Kind: stateWaiting}
		}
		fetchOpcode(cpu)
		return InstructionState{Kind: stateFetchingOpcode}
	case stateWaiting:
		fetchOpcode(cpu)
		return InstructionState{Kind: stateFetchingOpcode}
	}
	fatalf("cpu: branch operation given unexpected state")
	panic("unreachable")
}

func boolToStep(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// interruptSequence is the shared 7-cycle push-PC/push-status/load-vector
// sequence behind BRK, reset, NMI, and IRQ. isBRK adds one PC increment
// (skipping BRK's padding byte; reset, NMI, and IRQ do not increment PC)
// and selects whether the break flag is set in the status byte pushed to
// the stack (it never is for NMI/IRQ/reset).
func interruptSequence(cpu *CPUState, state InstructionState, vector uint16, isBRK bool, isReset bool) InstructionState {
	switch state.Step {
	case 0:
		cpu.Sync = false
		if isBRK {
			cpu.PC++
		}
		cpu.AddressBus = cpu.PC
		cpu.RW = Read
		state.Step = 1
		return state
	case 1:
		if isReset {
			cpu.S--
		} else {
			cpu.push(byte(cpu.PC >> 8))
		}
		state.Step = 2
		return state
	case 2:
		if isReset {
			cpu.S--
		} else {
			cpu.push(byte(cpu.PC))
		}
		state.Step = 3
		return state
	case 3:
		if isReset {
			cpu.S--
		} else {
			cpu.push(cpu.P.Byte(isBRK))
		}
		cpu.P.InterruptDisable = true
		state.Step = 4
		return state
	case 4:
		cpu.AddressBus = vector
		cpu.RW = Read
		state.Step = 5
		return state
	case 5:
		state.Pending = cpu.DataBus
		cpu.AddressBus = vector + 1
		cpu.RW = Read
		state.Step = 6
		return state
	case 6:
		cpu.PC = (uint16(cpu.DataBus) << 8) | uint16(state.Pending)
		fetchOpcode(cpu)
		return InstructionState{Kind: stateFetchingOpcode}
	}
	fatalf("cpu: interrupt sequence in unexpected step %d", state.Step)
	panic("unreachable")
}

func returnFromInterrupt(cpu *CPUState, state InstructionState) InstructionState {
	switch state.Kind {
	case stateFetchingOpcode:
		cpu.Sync = false
		cpu.AddressBus = cpu.PC
		cpu.RW = Read
		return InstructionState{Kind: stateFetchingAddress, Step: 0}
	case stateFetchingAddress:
		cpu.preparePull()
		return InstructionState{Kind: stateStoringData, Step: 1}
	case stateStoringData:
		switch state.Step {
		case 1:
			cpu.P.Set(cpu.DataBus)
			cpu.preparePull()
			state.Step = 2
			return state
		case 2:
			state.Pending = cpu.DataBus
			cpu.preparePull()
			state.Step = 3
			return state
		case 3:
			pc := (uint16(cpu.DataBus) << 8) | uint16(state.Pending)
			cpu.PC = pc
			fetchOpcode(cpu)
			return InstructionState{Kind: stateFetchingOpcode}
		}
	}
	fatalf("cpu: return-from-interrupt given unexpected state")
	panic("unreachable")
}

// ALU primitives, grounded on instructions.hpp's set_negative_zero,
// adc_impl/sbc_impl (via the classic one's-complement SBC trick),
// asl_impl, lsr_impl, rol_impl, ror_impl.

func setNegativeZero(cpu *CPUState, value byte) {
	cpu.P.Negative = value&0x80 != 0
	cpu.P.Zero = value == 0
}

func adcImpl(cpu *CPUState, operand byte) {
	a := uint16(cpu.A)
	v := uint16(operand)
	var carry uint16
	if cpu.P.Carry {
		carry = 1
	}
	sum := a + v + carry
	cpu.P.Overflow = (^(a^v))&(a^sum)&0x80 != 0
	cpu.P.Carry = sum > 0xff
	cpu.A = byte(sum)
	setNegativeZero(cpu, cpu.A)
}

func sbcImpl(cpu *CPUState, operand byte) {
	adcImpl(cpu, ^operand)
}

func aslImpl(cpu *CPUState, value byte) byte {
	cpu.P.Carry = value&0x80 != 0
	result := value << 1
	setNegativeZero(cpu, result)
	return result
}

func lsrImpl(cpu *CPUState, value byte) byte {
	cpu.P.Carry = value&0x01 != 0
	result := value >> 1
	setNegativeZero(cpu, result)
	return result
}

func rolImpl(cpu *CPUState, value byte) byte {
	var carryIn byte
	if cpu.P.Carry {
		carryIn = 1
	}
	cpu.P.Carry = value&0x80 != 0
	result := (value << 1) | carryIn
	setNegativeZero(cpu, result)
	return result
}

func rorImpl(cpu *CPUState, value byte) byte {
	var carryIn byte
	if cpu.P.Carry {
		carryIn = 0x80
	}
	cpu.P.Carry = value&0x01 != 0
	result := (value >> 1) | carryIn
	setNegativeZero(cpu, result)
	return result
}
