// Copyright (c) WithSecure Corporation
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"fmt"
	"time"
)

// EFI Boot Services offsets
const (
	allocatePages    = 0x28
	freePages        = 0x30
	exit             = 0xd8
	stall            = 0xf8
	setWatchdogTimer = 0x100
)

// watchdogCode is the code logged by the firmware on watchdog resets.
const watchdogCode = 0x5e7e2b007

// EFI_ALLOCATE_TYPE
const (
	AllocateAnyPages = iota
	AllocateMaxAddress
	AllocateAddress
	MaxAllocateType
)

// EFI_MEMORY_TYPE
const (
	EfiReservedMemoryType = iota
	EfiLoaderCode
	EfiLoaderData
	EfiBootServicesCode
	EfiBootServicesData
	EfiRuntimeServicesCode
	EfiRuntimeServicesData
	EfiConventionalMemory
	EfiUnusableMemory
	EfiACPIReclaimMemory
	EfiACPIMemoryNVS
	EfiMemoryMappedIO
	EfiMemoryMappedIOPortSpace
	EfiPalCode
	EfiPersistentMemory
	EfiUnacceptedMemoryType
	EfiMaxMemoryType
)

var memoryTypeNames = []string{
	"Reserved",
	"LoaderCode",
	"LoaderData",
	"BootServicesCode",
	"BootServicesData",
	"RuntimeServicesCode",
	"RuntimeServicesData",
	"Conventional",
	"Unusable",
	"ACPIReclaim",
	"ACPIMemoryNVS",
	"MemoryMappedIO",
	"MemoryMappedIOPortSpace",
	"PalCode",
	"Persistent",
	"Unaccepted",
}

// MemoryTypeName returns the name of an EFI_MEMORY_TYPE value.
func MemoryTypeName(t uint32) string {
	if int(t) < len(memoryTypeNames) {
		return memoryTypeNames[t]
	}

	return fmt.Sprintf("%#x", t)
}

// Pages returns the number of EFI pages required to hold size bytes.
func Pages(size int) uint64 {
	if size <= 0 {
		return 0
	}

	return (uint64(size) + PageSize - 1) / PageSize
}

// AllocatePages calls EFI_BOOT_SERVICES.AllocatePages(), size is rounded up
// to the page size.
func (s *BootServices) AllocatePages(allocateType int, memoryType int, size int, physicalAddress uint64) error {
	status := callService(s.base+allocatePages,
		[]uint64{
			uint64(allocateType),
			uint64(memoryType),
			Pages(size),
			ptrval(&physicalAddress),
		},
	)

	return parseStatus(status)
}

// FreePages calls EFI_BOOT_SERVICES.FreePages(), size is rounded up to the
// page size.
func (s *BootServices) FreePages(physicalAddress uint64, size int) error {
	status := callService(s.base+freePages,
		[]uint64{
			physicalAddress,
			Pages(size),
		},
	)

	return parseStatus(status)
}

// Stall calls EFI_BOOT_SERVICES.Stall().
func (s *BootServices) Stall(d time.Duration) (err error) {
	if d <= 0 {
		return
	}

	status := callService(s.base+stall,
		[]uint64{
			uint64(d / time.Microsecond),
		},
	)

	return parseStatus(status)
}

// SetWatchdogTimer calls EFI_BOOT_SERVICES.SetWatchdogTimer(), a zero
// timeout disables the watchdog.
func (s *BootServices) SetWatchdogTimer(timeout time.Duration) (err error) {
	status := callService(s.base+setWatchdogTimer,
		[]uint64{
			uint64(timeout / time.Second),
			watchdogCode,
			0,
			0,
		},
	)

	return parseStatus(status)
}

// Exit calls EFI_BOOT_SERVICES.Exit(), returning control to the firmware
// boot manager.
func (s *BootServices) Exit(code int) (err error) {
	status := callService(s.base+exit,
		[]uint64{
			s.imageHandle,
			uint64(code),
			0,
			0,
		},
	)

	return parseStatus(status)
}
