package model

// OperandType determines how an instruction operand is encoded and remapped
type OperandType int

const (
	InlineNone OperandType = iota
	InlineArg
	ShortInlineArg
	InlineVar
	ShortInlineVar
	InlineField
	InlineMethod
	InlineType
	InlineTok
	InlineBrTarget
	ShortInlineBrTarget
	InlineSwitch
	InlineSig
	InlineR
	ShortInlineR
	InlineString
	ShortInlineI
	InlineI8
	InlineI
)

var operandTypeNames = [...]string{
	"InlineNone", "InlineArg", "ShortInlineArg", "InlineVar", "ShortInlineVar", "InlineField",
	"InlineMethod", "InlineType", "InlineTok", "InlineBrTarget", "ShortInlineBrTarget", "InlineSwitch",
	"InlineSig", "InlineR", "ShortInlineR", "InlineString", "ShortInlineI", "InlineI8", "InlineI",
}

func (o OperandType) String() string {
	if o >= 0 && int(o) < len(operandTypeNames) {
		return operandTypeNames[o]
	}
	return "OperandType(?)"
}

// IsBranch returns true for single target branch operands
func (o OperandType) IsBranch() bool {
	return o == InlineBrTarget || o == ShortInlineBrTarget
}

// Code is an instruction opcode value, two byte opcodes use 0xFExx
type Code uint16

// OpCode describes an instruction kind
type OpCode struct {
	Name        string
	Code        Code
	OperandType OperandType
}

func (o OpCode) String() string {
	return o.Name
}

var (
	Nop        = OpCode{"nop", 0x00, InlineNone}
	Ldarg0     = OpCode{"ldarg.0", 0x02, InlineNone}
	Ldloc0     = OpCode{"ldloc.0", 0x06, InlineNone}
	Stloc0     = OpCode{"stloc.0", 0x0A, InlineNone}
	LdargS     = OpCode{"ldarg.s", 0x0E, ShortInlineArg}
	LdargaS    = OpCode{"ldarga.s", 0x0F, ShortInlineArg}
	StargS     = OpCode{"starg.s", 0x10, ShortInlineArg}
	LdlocS     = OpCode{"ldloc.s", 0x11, ShortInlineVar}
	LdlocaS    = OpCode{"ldloca.s", 0x12, ShortInlineVar}
	StlocS     = OpCode{"stloc.s", 0x13, ShortInlineVar}
	Ldnull     = OpCode{"ldnull", 0x14, InlineNone}
	LdcI4S     = OpCode{"ldc.i4.s", 0x1F, ShortInlineI}
	LdcI4      = OpCode{"ldc.i4", 0x20, InlineI}
	LdcI8      = OpCode{"ldc.i8", 0x21, InlineI8}
	LdcR4      = OpCode{"ldc.r4", 0x22, ShortInlineR}
	LdcR8      = OpCode{"ldc.r8", 0x23, InlineR}
	Dup        = OpCode{"dup", 0x25, InlineNone}
	Pop        = OpCode{"pop", 0x26, InlineNone}
	Call       = OpCode{"call", 0x28, InlineMethod}
	Calli      = OpCode{"calli", 0x29, InlineSig}
	Ret        = OpCode{"ret", 0x2A, InlineNone}
	BrS        = OpCode{"br.s", 0x2B, ShortInlineBrTarget}
	BrfalseS   = OpCode{"brfalse.s", 0x2C, ShortInlineBrTarget}
	BrtrueS    = OpCode{"brtrue.s", 0x2D, ShortInlineBrTarget}
	Br         = OpCode{"br", 0x38, InlineBrTarget}
	Brfalse    = OpCode{"brfalse", 0x39, InlineBrTarget}
	Brtrue     = OpCode{"brtrue", 0x3A, InlineBrTarget}
	Beq        = OpCode{"beq", 0x3B, InlineBrTarget}
	Switch     = OpCode{"switch", 0x45, InlineSwitch}
	Add        = OpCode{"add", 0x58, InlineNone}
	Callvirt   = OpCode{"callvirt", 0x6F, InlineMethod}
	Ldobj      = OpCode{"ldobj", 0x71, InlineType}
	Ldstr      = OpCode{"ldstr", 0x72, InlineString}
	Newobj     = OpCode{"newobj", 0x73, InlineMethod}
	Castclass  = OpCode{"castclass", 0x74, InlineType}
	Isinst     = OpCode{"isinst", 0x75, InlineType}
	Throw      = OpCode{"throw", 0x7A, InlineNone}
	Ldfld      = OpCode{"ldfld", 0x7B, InlineField}
	Ldflda     = OpCode{"ldflda", 0x7C, InlineField}
	Stfld      = OpCode{"stfld", 0x7D, InlineField}
	Ldsfld     = OpCode{"ldsfld", 0x7E, InlineField}
	Stsfld     = OpCode{"stsfld", 0x80, InlineField}
	Box        = OpCode{"box", 0x8C, InlineType}
	Newarr     = OpCode{"newarr", 0x8D, InlineType}
	Ldtoken    = OpCode{"ldtoken", 0xD0, InlineTok}
	Endfinally = OpCode{"endfinally", 0xDC, InlineNone}
	Leave      = OpCode{"leave", 0xDD, InlineBrTarget}
	LeaveS     = OpCode{"leave.s", 0xDE, ShortInlineBrTarget}
	Ldftn      = OpCode{"ldftn", 0xFE06, InlineMethod}
	Ldarg      = OpCode{"ldarg", 0xFE09, InlineArg}
	Starg      = OpCode{"starg", 0xFE0B, InlineArg}
	Ldloc      = OpCode{"ldloc", 0xFE0C, InlineVar}
	Stloc      = OpCode{"stloc", 0xFE0E, InlineVar}
	Endfilter  = OpCode{"endfilter", 0xFE11, InlineNone}
	Unaligned  = OpCode{"unaligned.", 0xFE12, ShortInlineI}
	Rethrow    = OpCode{"rethrow", 0xFE1A, InlineNone}
)
