package repack

import (
	"math"

	"github.com/viant/repack/model"
	"go.uber.org/zap"
)

// resource accessors whose preceding literal indexes the concatenated literal table
var literalResourceAccessors = map[string]bool{
	"System.Void System.Web.UI.TemplateControl::WriteUTF8ResourceString(System.Web.UI.HtmlTextWriter,System.Int32,System.Int32,System.Boolean)": true,
	"System.Web.UI.LiteralControl System.Web.UI.TemplateControl::CreateResourceBasedLiteralControl(System.Int32,System.Int32,System.Boolean)":   true,
}

// literalOperandDistance is the distance between a resource accessor call and its offset literal
const literalOperandDistance = 4

// cloneBody rewrites the body of method into parent. Instructions are cloned one to one,
// so destination index i always corresponds to source index i; branch targets and
// handler boundaries are resolved through that correspondence once every instruction exists.
func (i *Importer) cloneBody(method *model.MethodDefinition, parent *model.MethodDefinition) error {
	source := method.Body
	if source.Method == nil {
		source.Method = method
	}
	body := model.NewMethodBody(parent)
	body.MaxStackSize = source.MaxStackSize
	body.InitLocals = source.InitLocals
	body.LocalVarToken = source.LocalVarToken
	parent.Body = body

	i.indexer.PreMethodBodyRepack(source, parent)
	for _, variable := range source.Variables {
		variableType, err := i.ImportType(variable.VariableType, parent)
		if err != nil {
			return err
		}
		body.Variables = append(body.Variables, &model.VariableDefinition{Name: variable.Name, VariableType: variableType})
	}

	body.Instructions = make([]*model.Instruction, 0, len(source.Instructions))
	for index, instruction := range source.Instructions {
		i.indexer.ProcessMethodBodyInstruction(instruction)
		cloned, err := i.cloneInstruction(method, body, index, instruction)
		if err != nil {
			return err
		}
		body.Instructions = append(body.Instructions, cloned)
	}

	positions := source.Positions()
	for _, instruction := range body.Instructions {
		switch instruction.OpCode.OperandType {
		case model.InlineBrTarget, model.ShortInlineBrTarget:
			target, _ := instruction.Operand.(*model.Instruction)
			instruction.Operand = mapInstruction(target, positions, body.Instructions)
		case model.InlineSwitch:
			targets, _ := instruction.Operand.([]*model.Instruction)
			mapped := make([]*model.Instruction, len(targets))
			for j, target := range targets {
				mapped[j] = mapInstruction(target, positions, body.Instructions)
			}
			instruction.Operand = mapped
		}
	}

	for _, handler := range source.ExceptionHandlers {
		cloned := &model.ExceptionHandler{
			HandlerType:  handler.HandlerType,
			TryStart:     mapInstruction(handler.TryStart, positions, body.Instructions),
			TryEnd:       mapInstruction(handler.TryEnd, positions, body.Instructions),
			HandlerStart: mapInstruction(handler.HandlerStart, positions, body.Instructions),
			HandlerEnd:   mapInstruction(handler.HandlerEnd, positions, body.Instructions),
		}
		switch handler.HandlerType {
		case model.HandlerCatch:
			catchType, err := i.ImportType(handler.CatchType, parent)
			if err != nil {
				return err
			}
			cloned.CatchType = catchType
		case model.HandlerFilter:
			cloned.FilterStart = mapInstruction(handler.FilterStart, positions, body.Instructions)
		}
		body.ExceptionHandlers = append(body.ExceptionHandlers, cloned)
	}
	i.indexer.PostMethodBodyRepack(parent)
	return nil
}

// cloneInstruction clones instruction at index; branch operands keep their source targets until the second pass
func (i *Importer) cloneInstruction(method *model.MethodDefinition, body *model.MethodBody, index int, instruction *model.Instruction) (*model.Instruction, error) {
	source := method.Body
	parent := body.Method
	ret := &model.Instruction{OpCode: instruction.OpCode, SequencePoint: instruction.SequencePoint}
	operand := instruction.Operand
	unsupported := func() error {
		return &OperandError{Method: method.FullName(), Module: moduleName(method.DeclaringType), Index: index, OpCode: instruction.OpCode.Name, Operand: operand}
	}
	switch instruction.OpCode.OperandType {
	case model.InlineNone:
	case model.InlineArg, model.ShortInlineArg:
		param, ok := operand.(*model.ParameterDefinition)
		if !ok {
			return nil, unsupported()
		}
		if this := source.ThisParameter(); this != nil && param == this {
			ret.Operand = body.ThisParameter()
			break
		}
		position := parameterIndex(method.Parameters, param)
		if position == -1 || position >= len(parent.Parameters) {
			return nil, unsupported()
		}
		ret.Operand = parent.Parameters[position]
	case model.InlineVar, model.ShortInlineVar:
		variable, ok := operand.(*model.VariableDefinition)
		if !ok {
			return nil, unsupported()
		}
		position := variableIndex(source.Variables, variable)
		if position == -1 || position >= len(body.Variables) {
			return nil, unsupported()
		}
		ret.Operand = body.Variables[position]
	case model.InlineField:
		field, ok := operand.(model.FieldRef)
		if !ok {
			return nil, unsupported()
		}
		imported, err := i.ImportField(field, parent)
		if err != nil {
			return nil, err
		}
		ret.Operand = imported
	case model.InlineMethod:
		ref, ok := operand.(model.MethodRef)
		if !ok {
			return nil, unsupported()
		}
		imported, err := i.ImportMethod(ref, parent)
		if err != nil {
			return nil, err
		}
		ret.Operand = imported
		if literalResourceAccessors[ref.FullName()] {
			i.fixLiteralOffset(method, body, index)
		}
	case model.InlineType:
		ref, ok := operand.(model.TypeRef)
		if !ok {
			return nil, unsupported()
		}
		imported, err := i.ImportType(ref, parent)
		if err != nil {
			return nil, err
		}
		ret.Operand = imported
	case model.InlineTok:
		var err error
		switch actual := operand.(type) {
		case model.TypeRef:
			ret.Operand, err = i.ImportType(actual, parent)
		case model.FieldRef:
			ret.Operand, err = i.ImportField(actual, parent)
		case model.MethodRef:
			ret.Operand, err = i.ImportMethod(actual, parent)
		default:
			return nil, unsupported()
		}
		if err != nil {
			return nil, err
		}
	case model.InlineSig:
		site, ok := operand.(*model.CallSite)
		if !ok {
			return nil, unsupported()
		}
		cloned, err := i.cloneCallSite(site, parent)
		if err != nil {
			return nil, err
		}
		ret.Operand = cloned
	case model.InlineBrTarget, model.ShortInlineBrTarget:
		if _, ok := operand.(*model.Instruction); !ok && operand != nil {
			return nil, unsupported()
		}
		ret.Operand = operand
	case model.InlineSwitch:
		targets, ok := operand.([]*model.Instruction)
		if !ok {
			return nil, unsupported()
		}
		ret.Operand = targets
	case model.InlineString:
		value, ok := operand.(string)
		if !ok {
			return nil, unsupported()
		}
		ret.Operand = value
	case model.InlineR:
		value, ok := operand.(float64)
		if !ok {
			return nil, unsupported()
		}
		ret.Operand = value
	case model.ShortInlineR:
		value, ok := operand.(float32)
		if !ok {
			return nil, unsupported()
		}
		ret.Operand = value
	case model.InlineI8:
		value, ok := operand.(int64)
		if !ok {
			return nil, unsupported()
		}
		ret.Operand = value
	case model.InlineI:
		value, ok := operand.(int32)
		if !ok {
			return nil, unsupported()
		}
		ret.Operand = value
	case model.ShortInlineI:
		switch operand.(type) {
		case int8, uint8:
			ret.Operand = operand
		default:
			return nil, unsupported()
		}
	default:
		return nil, unsupported()
	}
	return ret, nil
}

func (i *Importer) cloneCallSite(site *model.CallSite, parent *model.MethodDefinition) (*model.CallSite, error) {
	returnType, err := i.ImportType(site.ReturnType, parent)
	if err != nil {
		return nil, err
	}
	ret := &model.CallSite{
		ReturnType:        returnType,
		HasThis:           site.HasThis,
		ExplicitThis:      site.ExplicitThis,
		CallingConvention: site.CallingConvention,
	}
	for _, param := range site.Parameters {
		cloned, err := i.cloneParameter(param, parent)
		if err != nil {
			return nil, err
		}
		ret.Parameters = append(ret.Parameters, cloned)
	}
	return ret, nil
}

// fixLiteralOffset shifts the literal table index passed to a resource accessor call at index
func (i *Importer) fixLiteralOffset(method *model.MethodDefinition, body *model.MethodBody, index int) {
	assembly := sourceAssembly(method)
	if assembly == nil {
		return
	}
	offset, ok := i.literalOffsets[assembly]
	if !ok {
		return
	}
	position := index - literalOperandDistance
	if position < 0 || position >= len(body.Instructions) {
		i.logger.Warn("literal offset operand out of range", zap.String("method", method.FullName()), zap.Int("index", index))
		return
	}
	literal := body.Instructions[position]
	value, ok := literal.Operand.(int32)
	if !ok {
		i.logger.Warn("unexpected literal offset operand", zap.String("method", method.FullName()), zap.String("opcode", literal.OpCode.Name))
		return
	}
	shifted := int64(value) + int64(offset)
	if shifted < math.MinInt32 || shifted > math.MaxInt32 {
		i.logger.Warn("literal offset overflows operand", zap.String("method", method.FullName()), zap.Int32("value", value), zap.Int("offset", offset))
		return
	}
	literal.Operand = int32(shifted)
}

func sourceAssembly(method *model.MethodDefinition) *model.AssemblyDefinition {
	if method.DeclaringType == nil || method.DeclaringType.Module == nil {
		return nil
	}
	return method.DeclaringType.Module.Assembly
}

// mapInstruction returns destination instruction at the source position of target, nil when target is outside the body
func mapInstruction(target *model.Instruction, positions map[*model.Instruction]int, destination []*model.Instruction) *model.Instruction {
	if target == nil {
		return nil
	}
	position, ok := positions[target]
	if !ok {
		return nil
	}
	return destination[position]
}

func parameterIndex(params []*model.ParameterDefinition, param *model.ParameterDefinition) int {
	for i, candidate := range params {
		if candidate == param {
			return i
		}
	}
	return -1
}

func variableIndex(variables []*model.VariableDefinition, variable *model.VariableDefinition) int {
	for i, candidate := range variables {
		if candidate == variable {
			return i
		}
	}
	return -1
}
