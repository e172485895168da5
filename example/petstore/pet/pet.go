// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package pet

import "time"

type Kind string

const (
	Cat Kind = "cat"
	Dog Kind = "dog"
)

type Pet struct {
	Id           string    `json:"id"`
	Name         string    `json:"name"`
	Kind         Kind      `json:"kind"`
	RegisteredAt time.Time `json:"registered_at"`
	Adopted      bool      `json:"adopted"`
}
