// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"fmt"
	"strings"
)

// EFI Runtime Services offset for ResetSystem
const resetSystem = 0x68

// ResetType represents an EFI_RESET_TYPE value.
type ResetType int

// EFI_RESET_TYPE
const (
	EfiResetCold ResetType = iota
	EfiResetWarm
	EfiResetShutdown
	EfiResetPlatformSpecific
)

var resetTypes = map[string]ResetType{
	"cold":     EfiResetCold,
	"warm":     EfiResetWarm,
	"shutdown": EfiResetShutdown,
}

// ParseResetType returns the reset type matching the argument name, an empty
// name selects a warm reset.
func ParseResetType(name string) (ResetType, error) {
	if name == "" {
		return EfiResetWarm, nil
	}

	if t, ok := resetTypes[strings.ToLower(name)]; ok {
		return t, nil
	}

	return 0, fmt.Errorf("invalid reset type %q", name)
}

func (t ResetType) String() string {
	for name, v := range resetTypes {
		if v == t {
			return name
		}
	}

	return fmt.Sprintf("%d", int(t))
}

// ResetSystem calls EFI_RUNTIME_SERVICES.ResetSystem(), on success it never
// returns.
func (s *RuntimeServices) ResetSystem(t ResetType) (err error) {
	status := callService(s.base+resetSystem,
		[]uint64{
			uint64(t),
			EFI_SUCCESS,
			0,
			0,
		},
	)

	return parseStatus(status)
}
