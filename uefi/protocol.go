// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

// EFI Boot Services offsets
const (
	handleProtocol = 0x098
	locateProtocol = 0x140
)

// HandleProtocol calls EFI_BOOT_SERVICES.HandleProtocol().
func (s *BootServices) HandleProtocol(handle uint64, guid GUID) (addr uint64, err error) {
	status := callService(s.base+handleProtocol,
		[]uint64{
			handle,
			ptrval(&guid[0]),
			ptrval(&addr),
		},
	)

	return addr, parseStatus(status)
}

// LocateProtocol calls EFI_BOOT_SERVICES.LocateProtocol().
func (s *BootServices) LocateProtocol(guid GUID) (addr uint64, err error) {
	status := callService(s.base+locateProtocol,
		[]uint64{
			ptrval(&guid[0]),
			0,
			ptrval(&addr),
		},
	)

	return addr, parseStatus(status)
}

// LocateProtocolString calls EFI_BOOT_SERVICES.LocateProtocol() with a
// registry format GUID string.
func (s *BootServices) LocateProtocolString(g string) (addr uint64, err error) {
	guid, err := ParseGUID(g)

	if err != nil {
		return
	}

	return s.LocateProtocol(guid)
}

// ConsoleProtocol returns the argument protocol instance from the console
// output handle, falling back to locating any instance of it.
func (s *BootServices) ConsoleProtocol(guid GUID) (addr uint64, err error) {
	if s.conOut != 0 {
		if addr, err = s.HandleProtocol(s.conOut, guid); err == nil {
			return
		}
	}

	return s.LocateProtocol(guid)
}
