package main

import (
	"fmt"
	"runtime"
)

// PanicError is a recovered panic together with the stack it was raised on.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Run calls f and converts a panic inside it into a *PanicError.
func Run(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = HandlePanic(r)
		}
	}()
	return f()
}

func HandlePanic(panic any) error {
	buf := make([]byte, 100000)
	n := runtime.Stack(buf, false)
	return &PanicError{Value: panic, Stack: buf[:n]}
}
