// Copyright (c) WithSecure Corporation
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import "errors"

// EFI Boot Services offsets
const (
	loadImage   = 0xc8
	startImage  = 0xd0
	unloadImage = 0xe0
)

// LoadImageMem calls EFI_BOOT_SERVICES.LoadImage() on an image already read
// in memory from the argument root volume, the named file is only used to
// build the image device path.
func (s *BootServices) LoadImageMem(boot int, root *FS, name string, buf []byte) (imageHandle uint64, err error) {
	if len(buf) == 0 {
		return 0, errors.New("invalid image")
	}

	_, _, devicePath, err := root.FilePath(name)

	if err != nil {
		return
	}

	status := callService(s.base+loadImage,
		[]uint64{
			uint64(boot),
			s.imageHandle,
			ptrval(&devicePath[0]),
			ptrval(&buf[0]),
			uint64(len(buf)),
			ptrval(&imageHandle),
		},
	)

	return imageHandle, parseStatus(status)
}

// StartImage calls EFI_BOOT_SERVICES.StartImage().
func (s *BootServices) StartImage(imageHandle uint64) (err error) {
	status := callService(s.base+startImage,
		[]uint64{
			imageHandle,
			0,
			0,
		},
	)

	return parseStatus(status)
}

// UnloadImage calls EFI_BOOT_SERVICES.UnloadImage().
func (s *BootServices) UnloadImage(imageHandle uint64) (err error) {
	status := callService(s.base+unloadImage,
		[]uint64{
			imageHandle,
		},
	)

	return parseStatus(status)
}
