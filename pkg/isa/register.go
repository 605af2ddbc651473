package isa

import "strings"

// Register is one of the 32 machine registers, identified by its
// fixed index.
type Register uint8

const (
	RegZero Register = iota // hardwired zero
	RegRA                   // return address
	RegSP                   // stack pointer
	RegGP                   // global pointer
	RegK0                   // reserved for kernel use
	RegK1                   // reserved for kernel use
	RegPG                   // page-table base
	RegAR                   // scratch register reserved for multi-instruction expansions
	RegS0
	RegS1
	RegS2
	RegS3
	RegS4
	RegS5
	RegS6
	RegS7
	RegT0
	RegT1
	RegT2
	RegT3
	RegT4
	RegT5
	RegT6
	RegT7
	RegFn0
	RegFn1
	RegFn2
	RegFn3
	RegFn4
	RegFn5
	RegFn6
	RegFn7

	TotalRegisters = 32
)

var registerNames = [TotalRegisters]string{
	"zero", "ra", "sp", "gp", "k0", "k1", "pg", "ar",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"fn0", "fn1", "fn2", "fn3", "fn4", "fn5", "fn6", "fn7",
}

func (r Register) String() string {
	if int(r) < len(registerNames) {
		return registerNames[r]
	}
	return "?"
}

var registersByName = func() map[string]Register {
	m := make(map[string]Register, len(registerNames))
	for i, name := range registerNames {
		m[name] = Register(i)
	}
	return m
}()

// ParseRegister resolves a canonical register name to its index,
// case-sensitive to match the assembler's mnemonic set.
func ParseRegister(name string) (Register, bool) {
	r, ok := registersByName[strings.TrimSpace(name)]
	return r, ok
}
