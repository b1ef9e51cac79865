package repack

import (
	"github.com/viant/repack/model"
)

// LineIndexer observes method bodies while they are cloned, e.g. to maintain a source line index
type LineIndexer interface {
	PreMethodBodyRepack(body *model.MethodBody, parent *model.MethodDefinition)
	ProcessMethodBodyInstruction(instruction *model.Instruction)
	PostMethodBodyRepack(parent *model.MethodDefinition)
}

type nopLineIndexer struct{}

func (nopLineIndexer) PreMethodBodyRepack(*model.MethodBody, *model.MethodDefinition) {}
func (nopLineIndexer) ProcessMethodBodyInstruction(*model.Instruction)               {}
func (nopLineIndexer) PostMethodBodyRepack(*model.MethodDefinition)                  {}
