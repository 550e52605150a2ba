// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !tamago

package uefi

import (
	"errors"
)

// ErrNoFirmwareMemory is returned when firmware memory is accessed outside
// of the TamaGo runtime.
var ErrNoFirmwareMemory = errors.New("firmware memory is only mapped under GOOS=tamago")

func mapMemory(addr uint64, size int, cached bool) ([]byte, func(), error) {
	return nil, nil, ErrNoFirmwareMemory
}
