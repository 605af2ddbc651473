package isa

// InstID identifies a single machine instruction shape (as opposed to
// an assembly mnemonic, which may expand to several InstIDs).
type InstID uint8

const (
	Invalid InstID = iota

	// Fullword register-format arithmetic/compare.
	Add
	Sub
	Mult
	Div
	Multu
	Divu
	Nand
	Nor
	Xnor
	Eql
	Neql
	Grt
	Gre
	Grtu
	Greu
	Lsft
	Rsft
	Rsfta
	Or
	And
	Xor

	// Halfword register-format equivalents (dr == sr1 implicit).
	AddH
	SubH
	MultH
	DivH
	MultuH
	DivuH
	NandH
	NorH
	XnorH
	EqlH
	GrtH
	GreH
	GrtuH
	GreuH
	LsftH
	RsftH
	RsftaH

	// Halfword register-format moves/branches-to-register.
	MovH
	JalrH

	// Fullword immediate-format arithmetic.
	Addi
	Multi
	Divi
	Multui
	Divui
	Andi
	Ori
	Xori

	// Halfword immediate-format shifts and short add/sub.
	LsftiH
	RsftiH
	RsftiaH
	IncrH
	DecrH

	// Set-format.
	Sli
	Sui
	Apci

	// Jump-format.
	Rji
	Rjali

	// Fullword immediate-format indirect jump-and-link.
	Jalr

	// Branch-format conditional branches.
	Beq
	Bne
	Bgr
	Bge
	Bgru
	Bgeu

	// Branch-format data access (load/store with register base).
	Sw
	Sh
	Sb
	Lw
	Lh
	Lb
	Lhu
	Lbu

	totalInstIDs
)

// dataAccessIDs reuse the branch format's split 14-bit immediate to
// address bytes directly; unlike real branches their displacement is
// never halved on encode/decode.
var dataAccessIDs = map[InstID]bool{
	Sw: true, Sh: true, Sb: true,
	Lw: true, Lh: true, Lb: true, Lhu: true, Lbu: true,
}

// IsDataAccess reports whether id is a load/store sharing the branch
// format (§9: "store detection uses inst-ID membership").
func IsDataAccess(id InstID) bool {
	return dataAccessIDs[id]
}

var storeIDs = map[InstID]bool{Sw: true, Sh: true, Sb: true}

// IsStore reports whether id writes memory.
func IsStore(id InstID) bool {
	return storeIDs[id]
}

// branchInverse implements the predicate-inversion map used when a
// conditional branch must be expanded into a long_branch sequence.
var branchInverse = map[InstID]InstID{
	Beq:  Bne,
	Bne:  Beq,
	Bgr:  Bge,
	Bge:  Bgr,
	Bgru: Bgeu,
	Bgeu: Bgru,
}

// Inverse returns the logically-negated branch instruction for id,
// and whether id is a branch-format conditional branch at all.
func Inverse(id InstID) (InstID, bool) {
	inv, ok := branchInverse[id]
	return inv, ok
}

// halfRegEquivalent maps fullword register-arithmetic IDs to their
// halfword form, for operations that have one.
var halfRegEquivalent = map[InstID]InstID{
	Add: AddH, Sub: SubH, Mult: MultH, Div: DivH, Multu: MultuH, Divu: DivuH,
	Nand: NandH, Nor: NorH, Xnor: XnorH, Eql: EqlH, Grt: GrtH, Gre: GreH,
	Grtu: GrtuH, Greu: GreuH, Lsft: LsftH, Rsft: RsftH, Rsfta: RsftaH,
}

// HalfwordForm returns the halfword-encodable equivalent of a
// register-arithmetic fullword instruction, if one exists.
func HalfwordForm(id InstID) (InstID, bool) {
	h, ok := halfRegEquivalent[id]
	return h, ok
}
