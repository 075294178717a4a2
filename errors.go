// errors.go - error taxonomy
//
// Grounded on the teacher's plain-error convention (sentinel errors +
// errors.Is/As, no custom error-handling framework); no third-party
// error library appears anywhere in the retrieval pack, so this stays on
// the standard library by design (see DESIGN.md).

package main

import (
	"errors"
	"fmt"
)

// ErrHalted is a halt sentinel. Nothing in the package returns it:
// FrameDriver halts on any error from an entry point and reports that
// error (a ScriptRuntimeError) through Halted(), and run()/reset()/
// shutdown() only set VM request flags.
var ErrHalted = errors.New("halted")

// ErrCartNotFound, ErrCartTooLarge name cart-load failure classes.
// LoadCartFile does not return either of them: a missing file surfaces as
// the os error from reading it, and no size limit is checked.
var (
	ErrCartNotFound = errors.New("cart not found")
	ErrCartTooLarge = errors.New("cart exceeds maximum size")
)

// CartLoadError wraps a failure to read/parse/decompress a cart, carrying
// the path for logging.
type CartLoadError struct {
	Path string
	Err  error
}

func (e *CartLoadError) Error() string {
	return fmt.Sprintf("load cart %q: %v", e.Path, e.Err)
}

func (e *CartLoadError) Unwrap() error { return e.Err }

// ScriptParseError wraps a gopher-lua compile-time error (syntax error in
// the cart's Lua source, after preprocessing).
type ScriptParseError struct {
	Err error
}

func (e *ScriptParseError) Error() string {
	return fmt.Sprintf("script parse error: %v", e.Err)
}

func (e *ScriptParseError) Unwrap() error { return e.Err }

// ScriptRuntimeError wraps a Lua-level runtime error raised while calling
// an entry point (_init/_update/_draw/...); Phase names which entry point
// was executing when the error occurred.
type ScriptRuntimeError struct {
	Err   error
	Phase string
}

func (e *ScriptRuntimeError) Error() string {
	return fmt.Sprintf("script error in %s: %v", e.Phase, e.Err)
}

func (e *ScriptRuntimeError) Unwrap() error { return e.Err }

// StateError reports a save-state/cartdata I/O failure distinct from a
// cart-load failure (different retry/skip semantics at the call site).
type StateError struct {
	Op  string
	Err error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state %s: %v", e.Op, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }
