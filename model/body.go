package model

// SequencePoint maps an instruction to a source location
type SequencePoint struct {
	Document    string
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// VariableDefinition is a method body local variable
type VariableDefinition struct {
	Name         string
	VariableType TypeRef
}

func (v *VariableDefinition) String() string {
	return v.Name
}

// Instruction is a single opcode with its operand.
//
// Operand holds, by OpCode.OperandType: nil (InlineNone), *ParameterDefinition (arg),
// *VariableDefinition (var), FieldRef, MethodRef, TypeRef, TypeRef|FieldRef|MethodRef (tok),
// *Instruction (branch), []*Instruction (switch), *CallSite (sig), float64, float32,
// string, int8 for ldc.i4.s and uint8 otherwise (ShortInlineI), int64 and int32.
type Instruction struct {
	OpCode        OpCode
	Operand       interface{}
	SequencePoint *SequencePoint
}

// NewInstruction creates an instruction
func NewInstruction(opCode OpCode, operand interface{}) *Instruction {
	return &Instruction{OpCode: opCode, Operand: operand}
}

func (i *Instruction) String() string {
	return i.OpCode.Name
}

// CallSite is an indirect call signature
type CallSite struct {
	ReturnType        TypeRef
	HasThis           bool
	ExplicitThis      bool
	CallingConvention MethodCallingConvention
	Parameters        []*ParameterDefinition
}

// ExceptionHandlerType enumerates handler kinds
type ExceptionHandlerType int

const (
	HandlerCatch ExceptionHandlerType = iota
	HandlerFilter
	HandlerFinally
	HandlerFault
)

func (e ExceptionHandlerType) String() string {
	switch e {
	case HandlerCatch:
		return "catch"
	case HandlerFilter:
		return "filter"
	case HandlerFinally:
		return "finally"
	case HandlerFault:
		return "fault"
	}
	return "unknown"
}

// ExceptionHandler is a protected region; a nil end boundary denotes the end of the body
type ExceptionHandler struct {
	HandlerType  ExceptionHandlerType
	TryStart     *Instruction
	TryEnd       *Instruction
	HandlerStart *Instruction
	HandlerEnd   *Instruction
	FilterStart  *Instruction
	CatchType    TypeRef
}

// MethodBody holds instructions, locals and exception handlers of a method
type MethodBody struct {
	Method            *MethodDefinition
	MaxStackSize      int
	InitLocals        bool
	LocalVarToken     uint32
	Variables         []*VariableDefinition
	Instructions      []*Instruction
	ExceptionHandlers []*ExceptionHandler

	thisParameter *ParameterDefinition
}

// NewMethodBody creates an empty body for the method
func NewMethodBody(method *MethodDefinition) *MethodBody {
	return &MethodBody{Method: method}
}

// ThisParameter returns the implicit instance parameter, nil for static methods
func (b *MethodBody) ThisParameter() *ParameterDefinition {
	if b.Method == nil || b.Method.IsStatic() {
		return nil
	}
	if b.thisParameter == nil {
		var declaringType TypeRef
		if b.Method.DeclaringType != nil {
			declaringType = b.Method.DeclaringType
		}
		b.thisParameter = &ParameterDefinition{ParameterType: declaringType}
	}
	return b.thisParameter
}

// Positions returns instruction to index map
func (b *MethodBody) Positions() map[*Instruction]int {
	result := make(map[*Instruction]int, len(b.Instructions))
	for i, instruction := range b.Instructions {
		result[instruction] = i
	}
	return result
}
