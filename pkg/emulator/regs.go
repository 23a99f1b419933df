package emulator

// Registers returns the named CPU register snapshot for the current
// platform: the ARM general registers plus CPSR on GBA, the SM83
// 8-bit register file plus SP/PC on GB. Selection follows the stored
// platform tag, the core is not re-detected.
func (e *Emulator) Registers() ([]Register, error) {
	if e.core == nil {
		return nil, ErrNoSession
	}
	if e.platform == PlatformGBA {
		gprs, cpsr := e.core.ARMRegisters()
		names := []string{
			"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
			"r8", "r9", "r10", "r11", "r12", "sp", "lr", "pc",
		}
		regs := make([]Register, 0, len(names)+1)
		for i, n := range names {
			regs = append(regs, Register{Name: n, Value: gprs[i]})
		}
		return append(regs, Register{Name: "cpsr", Value: cpsr}), nil
	}

	r, sp, pc := e.core.SM83Registers()
	names := []string{"a", "f", "b", "c", "d", "e", "h", "l"}
	regs := make([]Register, 0, len(names)+2)
	for i, n := range names {
		regs = append(regs, Register{Name: n, Value: uint32(r[i])})
	}
	return append(regs,
		Register{Name: "sp", Value: uint32(sp)},
		Register{Name: "pc", Value: uint32(pc)},
	), nil
}
