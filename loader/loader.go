// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package loader implements validation and launch of the Windows Boot
// Manager EFI image.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"log"
)

// Debug enables verbose logging.
var Debug bool

// BootManagerGUID is the BCD Windows Boot Manager GUID, present in bootmgfw,
// bootmgr and, on Windows 8 and later, winload.
const BootManagerGUID = "9dea862c-5cdd-4e70-acc1-f32b344d4795"

// bootManagerGUID is BootManagerGUID in its in-memory EFI_GUID layout.
var bootManagerGUID = []byte{
	0x2c, 0x86, 0xea, 0x9d,
	0xdd, 0x5c,
	0x70, 0x4e,
	0xac, 0xc1, 0xf3, 0x2b, 0x34, 0x4d, 0x47, 0x95,
}

// EfiLoaderCode is the memory type of EFI application code.
const EfiLoaderCode = 1

// ptrSize is the scan stride, matching the alignment of the GUID within
// the image sections.
const ptrSize = 8

var (
	ErrNotBootManager = errors.New("not a Windows Boot Manager image")
	ErrInvalidPath    = errors.New("invalid path")
)

// Firmware represents the services required to launch an EFI image.
type Firmware interface {
	// ReadImage returns the contents of the named file on the volume
	// holding the running image.
	ReadImage(path string) ([]byte, error)
	// LoadImage loads an EFI image, read from the named file, returning
	// its handle.
	LoadImage(path string, buf []byte) (handle uint64, err error)
	// LoadedImage returns the memory type and contents of a loaded
	// image.
	LoadedImage(handle uint64) (codeType uint32, image []byte, err error)
	// UnloadImage unloads a loaded image.
	UnloadImage(handle uint64) error
	// StartImage transfers control to a loaded image.
	StartImage(handle uint64) error
}

func debugf(format string, v ...any) {
	if Debug {
		log.Printf(format, v...)
	}
}

// CheckBootManagerGUID returns nil if the argument image carries the Windows
// Boot Manager GUID.
func CheckBootManagerGUID(image []byte) error {
	n := len(bootManagerGUID)

	for off := 0; off+n < len(image); off += ptrSize {
		if bytes.Equal(image[off:off+n], bootManagerGUID) {
			debugf("found %s at %#x", BootManagerGUID, off)
			return nil
		}
	}

	return ErrNotBootManager
}

// Launch loads and validates the named Windows Boot Manager image and
// transfers control to it, the optional wait function is invoked right
// before starting the image.
//
// On success Launch only returns when the started image exits.
func Launch(fw Firmware, path string, wait func()) (err error) {
	if len(path) == 0 {
		return ErrInvalidPath
	}

	buf, err := fw.ReadImage(path)

	if err != nil {
		return fmt.Errorf("unable to read '%s', %v", path, err)
	}

	if err = CheckPE(buf); err != nil {
		return fmt.Errorf("unable to load '%s', %w", path, err)
	}

	handle, err := fw.LoadImage(path, buf)

	if err != nil {
		log.Printf("unable to load '%s', %v", path, err)
		return
	}

	debugf("loaded '%s' (handle %#x)", path, handle)

	codeType, image, err := fw.LoadedImage(handle)

	if err == nil && codeType != EfiLoaderCode {
		err = fmt.Errorf("unexpected image code type %d", codeType)
	}

	if err == nil {
		err = CheckBootManagerGUID(image)
	}

	if err != nil {
		log.Printf("'%s' is not a valid Windows Boot Manager image, %v", path, err)
		fw.UnloadImage(handle)

		if !errors.Is(err, ErrNotBootManager) {
			err = fmt.Errorf("%w, %v", ErrNotBootManager, err)
		}

		return
	}

	if wait != nil {
		wait()
	}

	debugf("starting '%s'", path)

	return fw.StartImage(handle)
}
