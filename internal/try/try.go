// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package try

import (
	"errors"
	"fmt"
	"io"
)

// Recover captures an in-flight panic into err. A panic value which
// already implements error is kept as-is so callers can still match it
// with [errors.As]; any other value is wrapped.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}

	rerr, ok := r.(error)
	if !ok {
		rerr = fmt.Errorf("recovered from panic: %v", r)
	}

	if *err == nil {
		*err = rerr
		return
	}
	*err = errors.Join(*err, rerr)
}

// Close closes c and joins any close error into err.
func Close(err *error, c io.Closer) {
	cerr := c.Close()
	if cerr == nil {
		return
	}
	if *err == nil {
		*err = cerr
		return
	}
	*err = errors.Join(*err, cerr)
}
