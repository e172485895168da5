// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import "github.com/veldt-labs/atlas/rest"

type Registry interface {
	Register(route *rest.Route) error
}

func mustRegister(r Registry, route *rest.Route) {
	err := r.Register(route)
	if err == nil {
		return
	}
	panic(err)
}
