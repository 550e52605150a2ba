// Copyright (c) WithSecure Corporation
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package x64

import (
	"log"
	"runtime"
	_ "unsafe"

	"github.com/usbarmory/seven-boot/uefi"
)

//go:linkname ramStart runtime.ramStart
var ramStart uint64 = 0x00100000 // overridden in x64.s

//go:linkname RamSize runtime.ramSize
var RamSize uint64 = 0x10000000 // 256MB

// heapStart returns the end of the EFI loader code allocation holding the
// runtime, which is where the heap begins.
func heapStart(memoryMap *uefi.MemoryMap, start uint64) uint64 {
	for _, desc := range memoryMap.Descriptors {
		if desc.Type == uefi.EfiLoaderCode && desc.PhysicalStart == start {
			return desc.PhysicalEnd()
		}
	}

	return 0
}

func allocateHeap() {
	memoryMap, err := UEFI.Boot.GetMemoryMap()

	if err != nil {
		log.Printf("could not get memory map, %v", err)
		return
	}

	start, end := runtime.MemRegion()
	heap := heapStart(memoryMap, start)

	if heap == 0 {
		log.Printf("could not find heap offset")
		return
	}

	if err := UEFI.Boot.AllocatePages(
		uefi.AllocateAddress,
		uefi.EfiLoaderData,
		int(end-heap),
		heap,
	); err != nil {
		log.Printf("could not allocate heap at %#x, %v", heap, err)
	}
}
