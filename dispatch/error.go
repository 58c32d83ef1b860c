package dispatch

import "fmt"

// PanicError is the error produced when Registry.Then recovers a panic in
// an application handler.  It carries the recovered value and the debug
// stack captured at the point of recovery, and belongs to the Panic class.
type PanicError struct {
	// Value is the argument that was passed to panic.
	Value interface{}

	// Stack is the formatted goroutine stack trace.
	Stack []byte
}

func (pe *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", pe.Value)
}

// ErrorClass marks this error as belonging to the Panic class.
func (pe *PanicError) ErrorClass() *Class {
	return Panic
}
