// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/linuxboot/fiano/pkg/guid"
	"github.com/linuxboot/fiano/pkg/knownguids"
)

var guidPattern = regexp.MustCompile(`^[[:xdigit:]]{8}-[[:xdigit:]]{4}-[[:xdigit:]]{4}-[[:xdigit:]]{4}-[[:xdigit:]]{12}$`)

// GUID represents an EFI GUID (Globally Unique Identifier) as a 16-byte array
// with the native EFI byte order.
//
// The registry string format (xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx) shows the
// first three fields big-endian, while in memory they are little-endian. This
// mixed-endian layout is the one of firmware volume GUIDs ([guid.GUID]).
type GUID [16]byte

// ParseGUID parses a GUID in registry string format into its native EFI
// layout.
func ParseGUID(s string) (GUID, error) {
	if !guidPattern.MatchString(s) {
		return GUID{}, fmt.Errorf("invalid GUID format: %q", s)
	}

	g, err := guid.Parse(s)

	if err != nil {
		return GUID{}, err
	}

	return GUID(*g), nil
}

// MustParseGUID is like ParseGUID but panics on error. It is intended for
// package level GUID declarations.
func MustParseGUID(s string) (g GUID) {
	var err error

	if g, err = ParseGUID(s); err != nil {
		panic(err)
	}

	return
}

// String returns the lowercase registry format string representation of
// the GUID.
func (g GUID) String() string {
	return strings.ToLower(guid.GUID(g).String())
}

// Name returns the well known name of the GUID, or an empty string.
func (g GUID) Name() string {
	if name, ok := tableNames[g]; ok {
		return name
	}

	return knownguids.GUIDs[guid.GUID(g)]
}
