// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package ptr

func Ref[T any](t T) *T {
	return &t
}
