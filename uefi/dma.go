// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago

package uefi

import (
	"github.com/usbarmory/tamago/dma"
)

// mapMemory maps the argument firmware memory range, the returned slice
// aliases it until release is called.
func mapMemory(addr uint64, size int, cached bool) (buf []byte, release func(), err error) {
	r, err := dma.NewRegion(uint(addr), size, cached)

	if err != nil {
		return
	}

	ptr, buf := r.Reserve(size, 0)

	return buf, func() { r.Release(ptr) }, nil
}
