package repack

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict is returned when two public types share a full name and no merge rule applies
	ErrConflict = errors.New("duplicate type")
	// ErrReferenceImport is returned when the object model rejects a reference
	ErrReferenceImport = errors.New("reference import failed")
	// ErrUnsupportedOperand is returned for an instruction operand that cannot be remapped
	ErrUnsupportedOperand = errors.New("unsupported operand")
)

// ConflictError reports an unresolved duplicate type
type ConflictError struct {
	TypeName    string
	Module      string // module declaring the rejected type
	OtherModule string // module that contributed the existing clone
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate type %v from %v, was also present in %v", e.TypeName, e.Module, e.OtherModule)
}

// Unwrap returns ErrConflict
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// OperandError reports an instruction whose operand does not match its operand type
type OperandError struct {
	Method  string
	Module  string
	Index   int
	OpCode  string
	Operand interface{}
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("unsupported operand %T of %v at instruction %d in %v (%v)", e.Operand, e.OpCode, e.Index, e.Method, e.Module)
}

// Unwrap returns ErrUnsupportedOperand
func (e *OperandError) Unwrap() error {
	return ErrUnsupportedOperand
}
