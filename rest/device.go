// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"net/http"

	"github.com/mileusna/useragent"
)

// Device is a coarse fingerprint derived from the User-Agent header.
// It is intended for logging and analytics, not security.
type Device struct {
	Browser string
	OS      string
	Name    string
}

func deviceFrom(r *http.Request) Device {
	raw := r.UserAgent()
	if raw == "" {
		return Device{Name: "Unknown"}
	}

	ua := useragent.Parse(raw)
	d := Device{
		Browser: ua.Name,
		OS:      ua.OS,
	}

	switch {
	case d.Browser == "" && d.OS == "":
		d.Name = "Unknown"
	case d.OS == "":
		d.Name = d.Browser
	case d.Browser == "":
		d.Name = d.OS
	default:
		d.Name = d.Browser + "/" + d.OS
	}
	return d
}
