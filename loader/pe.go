// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package loader

import (
	"bytes"
	"debug/pe"
	"errors"
	"fmt"
)

// ErrInvalidImage is returned for files which are not x86_64 EFI
// applications.
var ErrInvalidImage = errors.New("not an x86_64 EFI application")

// PEInfo represents the PE/COFF properties relevant to EFI images.
type PEInfo struct {
	Machine    uint16
	Subsystem  uint16
	EntryPoint uint32
	ImageSize  uint32
	Sections   []string
}

// InspectPE parses the argument PE/COFF image.
func InspectPE(buf []byte) (info *PEInfo, err error) {
	f, err := pe.NewFile(bytes.NewReader(buf))

	if err != nil {
		return nil, fmt.Errorf("%w, %v", ErrInvalidImage, err)
	}
	defer f.Close()

	info = &PEInfo{
		Machine: f.Machine,
	}

	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader64:
		info.Subsystem = oh.Subsystem
		info.EntryPoint = oh.AddressOfEntryPoint
		info.ImageSize = oh.SizeOfImage
	case *pe.OptionalHeader32:
		return nil, fmt.Errorf("%w, PE32 image", ErrInvalidImage)
	default:
		return nil, fmt.Errorf("%w, missing optional header", ErrInvalidImage)
	}

	for _, s := range f.Sections {
		info.Sections = append(info.Sections, s.Name)
	}

	return
}

// CheckPE returns nil if the argument image is a PE32+ x86_64 EFI
// application.
func CheckPE(buf []byte) error {
	info, err := InspectPE(buf)

	if err != nil {
		return err
	}

	if info.Machine != pe.IMAGE_FILE_MACHINE_AMD64 {
		return fmt.Errorf("%w, machine %#x", ErrInvalidImage, info.Machine)
	}

	if info.Subsystem != pe.IMAGE_SUBSYSTEM_EFI_APPLICATION {
		return fmt.Errorf("%w, subsystem %d", ErrInvalidImage, info.Subsystem)
	}

	return nil
}
