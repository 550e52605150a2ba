// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago

package loader

import (
	"errors"
	"io/fs"

	"github.com/usbarmory/seven-boot/filesystem"
	"github.com/usbarmory/seven-boot/uefi"
)

// UEFI implements [Firmware] over EFI Boot Services, images are read from
// and loaded as children of the root volume.
type UEFI struct {
	Services *uefi.Services
	Root     *uefi.FS
}

// ReadImage implements [Firmware.ReadImage].
func (fw *UEFI) ReadImage(path string) ([]byte, error) {
	if fw.Root == nil {
		return nil, errors.New("missing root volume")
	}

	return fs.ReadFile(fw.Root, filesystem.Clean(path))
}

// LoadImage implements [Firmware.LoadImage].
func (fw *UEFI) LoadImage(path string, buf []byte) (uint64, error) {
	return fw.Services.Boot.LoadImageMem(1, fw.Root, path, buf)
}

// LoadedImage implements [Firmware.LoadedImage].
func (fw *UEFI) LoadedImage(handle uint64) (codeType uint32, image []byte, err error) {
	info, err := fw.Services.Boot.LoadedImage(handle)

	if err != nil {
		return
	}

	if image, err = uefi.Memory(info.ImageBase, int(info.ImageSize)); err != nil {
		return
	}

	return info.ImageCodeType, image, nil
}

// UnloadImage implements [Firmware.UnloadImage].
func (fw *UEFI) UnloadImage(handle uint64) error {
	return fw.Services.Boot.UnloadImage(handle)
}

// StartImage implements [Firmware.StartImage].
func (fw *UEFI) StartImage(handle uint64) error {
	return fw.Services.Boot.StartImage(handle)
}
