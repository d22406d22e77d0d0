package engine

import (
	"fmt"
	"strings"
)

// Opcode is the operation of an instruction.
type Opcode byte

const (
	opLabel Opcode = iota

	hVoid
	hFirstVar
	hVar
	hAtom
	hInteger
	hConst
	hFunctor
	hPop

	bVoid
	bFirstVar
	bVar
	bArgVar
	bAtom
	bInteger
	bConst
	bFunctor
	bPop

	iEnter
	iCall
	iDepart
	iExit
	iExitFact
	iExitQuery
	iTrue
	iFail
	iCut
	iUnify
	iThrow
	iCatch
	iCaught
	iExitCatch
	iFreshVar

	tryMeElse
	retryMeElse
	trustMe
	cOr
	cJump
	cIfThenElse
	cIfThen
	cCut
	cCutLocal

	opCount
)

type operandKind byte

const (
	operandConst operandKind = iota
	operandSlot
	operandAddr
)

func (k operandKind) width() int {
	switch k {
	case operandAddr:
		return 4
	default:
		return 2
	}
}

type opSpec struct {
	name     string
	operands []operandKind
}

var (
	noOperands   []operandKind
	constOperand = []operandKind{operandConst}
	slotOperand  = []operandKind{operandSlot}
	addrOperand  = []operandKind{operandAddr}
	slotAndAddr  = []operandKind{operandSlot, operandAddr}
)

// opSpecs is the single description of the instruction set. The assembler and the kernel's decoder both read it.
var opSpecs = [opCount]opSpec{
	opLabel: {name: "label"},

	hVoid:     {name: "hVoid", operands: noOperands},
	hFirstVar: {name: "hFirstVar", operands: slotOperand},
	hVar:      {name: "hVar", operands: slotOperand},
	hAtom:     {name: "hAtom", operands: constOperand},
	hInteger:  {name: "hInteger", operands: constOperand},
	hConst:    {name: "hConst", operands: constOperand},
	hFunctor:  {name: "hFunctor", operands: constOperand},
	hPop:      {name: "hPop", operands: noOperands},

	bVoid:     {name: "bVoid", operands: noOperands},
	bFirstVar: {name: "bFirstVar", operands: slotOperand},
	bVar:      {name: "bVar", operands: slotOperand},
	bArgVar:   {name: "bArgVar", operands: slotOperand},
	bAtom:     {name: "bAtom", operands: constOperand},
	bInteger:  {name: "bInteger", operands: constOperand},
	bConst:    {name: "bConst", operands: constOperand},
	bFunctor:  {name: "bFunctor", operands: constOperand},
	bPop:      {name: "bPop", operands: noOperands},

	iEnter:     {name: "iEnter", operands: noOperands},
	iCall:      {name: "iCall", operands: constOperand},
	iDepart:    {name: "iDepart", operands: constOperand},
	iExit:      {name: "iExit", operands: noOperands},
	iExitFact:  {name: "iExitFact", operands: noOperands},
	iExitQuery: {name: "iExitQuery", operands: noOperands},
	iTrue:      {name: "iTrue", operands: noOperands},
	iFail:      {name: "iFail", operands: noOperands},
	iCut:       {name: "iCut", operands: noOperands},
	iUnify:     {name: "iUnify", operands: noOperands},
	iThrow:     {name: "iThrow", operands: noOperands},
	iCatch:     {name: "iCatch", operands: slotAndAddr},
	iCaught:    {name: "iCaught", operands: slotOperand},
	iExitCatch: {name: "iExitCatch", operands: slotOperand},
	iFreshVar:  {name: "iFreshVar", operands: slotOperand},

	tryMeElse:   {name: "tryMeElse", operands: addrOperand},
	retryMeElse: {name: "retryMeElse", operands: addrOperand},
	trustMe:     {name: "trustMe", operands: noOperands},
	cOr:         {name: "cOr", operands: addrOperand},
	cJump:       {name: "cJump", operands: addrOperand},
	cIfThenElse: {name: "cIfThenElse", operands: slotAndAddr},
	cIfThen:     {name: "cIfThen", operands: slotOperand},
	cCut:        {name: "cCut", operands: slotOperand},
	cCutLocal:   {name: "cCutLocal", operands: slotOperand},
}

func (o Opcode) String() string {
	if o >= opCount {
		return fmt.Sprintf("op(%d)", byte(o))
	}
	return opSpecs[o].name
}

// size returns the number of bytes the encoded instruction occupies.
func (o Opcode) size() int {
	if o == opLabel {
		return 0
	}
	n := 1
	for _, k := range opSpecs[o].operands {
		n += k.width()
	}
	return n
}

// Instruction is an instruction in its structured form.
// Operand is set for instructions referring to the constant pool, Slot for instructions referring to a frame slot,
// and Label for branches. An opLabel instruction marks the position of Label.
type Instruction struct {
	Opcode  Opcode
	Operand Constant
	Slot    int
	Label   int
}

func (i Instruction) String() string {
	if i.Opcode == opLabel {
		return fmt.Sprintf("L%d:", i.Label)
	}
	if i.Opcode >= opCount {
		return i.Opcode.String()
	}
	var sb strings.Builder
	sb.WriteString(i.Opcode.String())
	for j, k := range opSpecs[i.Opcode].operands {
		if j == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(", ")
		}
		switch k {
		case operandConst:
			if i.Operand == nil {
				sb.WriteString("<nil>")
			} else {
				sb.WriteString(i.Operand.String())
			}
		case operandSlot:
			_, _ = fmt.Fprintf(&sb, "S%d", i.Slot)
		case operandAddr:
			_, _ = fmt.Fprintf(&sb, "L%d", i.Label)
		}
	}
	return sb.String()
}

// Code is a compiled predicate, query or goal.
type Code struct {
	Functor      Functor
	Instructions []Instruction
	Bytecode     []byte
	Constants    []Constant
	NSlots       int
}

func (c *Code) String() string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "%s (slots: %d)\n", c.Functor, c.NSlots)
	for _, in := range c.Instructions {
		if in.Opcode != opLabel {
			sb.WriteString("\t")
		}
		sb.WriteString(in.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
