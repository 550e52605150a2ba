// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package loader

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const peOffset = 0x80

// peImage returns a minimal PE/COFF image without sections.
func peImage(machine uint16, subsystem uint16) []byte {
	buf := new(bytes.Buffer)

	dos := make([]byte, peOffset)
	copy(dos, "MZ")
	binary.LittleEndian.PutUint32(dos[0x3c:], peOffset)
	buf.Write(dos)
	buf.WriteString("PE\x00\x00")

	oh := pe.OptionalHeader64{
		Magic:               0x20b,
		AddressOfEntryPoint: 0x1000,
		SizeOfImage:         0x4000,
		Subsystem:           subsystem,
		NumberOfRvaAndSizes: 16,
	}

	fh := pe.FileHeader{
		Machine:              machine,
		SizeOfOptionalHeader: uint16(binary.Size(oh)),
	}

	binary.Write(buf, binary.LittleEndian, fh)
	binary.Write(buf, binary.LittleEndian, oh)

	return buf.Bytes()
}

// bootManager returns an EFI application carrying the boot manager GUID.
func bootManager() []byte {
	buf := peImage(pe.IMAGE_FILE_MACHINE_AMD64, pe.IMAGE_SUBSYSTEM_EFI_APPLICATION)

	for len(buf)%ptrSize != 0 {
		buf = append(buf, 0)
	}

	buf = append(buf, bootManagerGUID...)

	return append(buf, 0xff)
}

func TestCheckPE(t *testing.T) {
	if err := CheckPE(bootManager()); err != nil {
		t.Fatal(err)
	}

	info, err := InspectPE(bootManager())

	if err != nil {
		t.Fatal(err)
	}

	want := &PEInfo{
		Machine:    pe.IMAGE_FILE_MACHINE_AMD64,
		Subsystem:  pe.IMAGE_SUBSYSTEM_EFI_APPLICATION,
		EntryPoint: 0x1000,
		ImageSize:  0x4000,
	}

	if diff := cmp.Diff(want, info); diff != "" {
		t.Fatalf("unexpected info (-want +got):\n%s", diff)
	}

	for name, buf := range map[string][]byte{
		"empty":     nil,
		"text":      bytes.Repeat([]byte("seven"), 64),
		"machine":   peImage(pe.IMAGE_FILE_MACHINE_I386, pe.IMAGE_SUBSYSTEM_EFI_APPLICATION),
		"subsystem": peImage(pe.IMAGE_FILE_MACHINE_AMD64, pe.IMAGE_SUBSYSTEM_WINDOWS_CUI),
	} {
		if err := CheckPE(buf); !errors.Is(err, ErrInvalidImage) {
			t.Errorf("%s: unexpected error %v", name, err)
		}
	}
}

func TestCheckBootManagerGUID(t *testing.T) {
	if err := CheckBootManagerGUID(bootManager()); err != nil {
		t.Fatal(err)
	}

	aligned := make([]byte, 3*ptrSize)
	copy(aligned[ptrSize:], bootManagerGUID)

	unaligned := make([]byte, 4*ptrSize)
	copy(unaligned[ptrSize+1:], bootManagerGUID)

	// the GUID is not matched when ending the image
	last := make([]byte, ptrSize+len(bootManagerGUID))
	copy(last[ptrSize:], bootManagerGUID)

	for _, tt := range []struct {
		name  string
		image []byte
		err   error
	}{
		{"aligned", aligned, nil},
		{"unaligned", unaligned, ErrNotBootManager},
		{"last", last, ErrNotBootManager},
		{"short", bootManagerGUID[:8], ErrNotBootManager},
		{"empty", nil, ErrNotBootManager},
	} {
		if err := CheckBootManagerGUID(tt.image); !errors.Is(err, tt.err) {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
	}
}

type fakeFirmware struct {
	files    map[string][]byte
	codeType uint32
	image    []byte
	loadErr  error

	calls []string
}

func (fw *fakeFirmware) ReadImage(path string) ([]byte, error) {
	fw.calls = append(fw.calls, "read")

	if buf, ok := fw.files[path]; ok {
		return buf, nil
	}

	return nil, errors.New("not found")
}

func (fw *fakeFirmware) LoadImage(path string, buf []byte) (uint64, error) {
	fw.calls = append(fw.calls, "load")
	return 0x7000, fw.loadErr
}

func (fw *fakeFirmware) LoadedImage(handle uint64) (uint32, []byte, error) {
	fw.calls = append(fw.calls, "loaded")
	return fw.codeType, fw.image, nil
}

func (fw *fakeFirmware) UnloadImage(handle uint64) error {
	fw.calls = append(fw.calls, "unload")
	return nil
}

func (fw *fakeFirmware) StartImage(handle uint64) error {
	fw.calls = append(fw.calls, "start")
	return nil
}

const bootmgfw = `\EFI\Microsoft\Boot\bootmgfw.efi`

func newFirmware() *fakeFirmware {
	return &fakeFirmware{
		files:    map[string][]byte{bootmgfw: bootManager()},
		codeType: EfiLoaderCode,
		image:    bootManager(),
	}
}

func TestLaunch(t *testing.T) {
	fw := newFirmware()

	wait := func() {
		fw.calls = append(fw.calls, "wait")
	}

	if err := Launch(fw, bootmgfw, wait); err != nil {
		t.Fatal(err)
	}

	want := []string{"read", "load", "loaded", "wait", "start"}

	if diff := cmp.Diff(want, fw.calls); diff != "" {
		t.Fatalf("unexpected calls (-want +got):\n%s", diff)
	}
}

func TestLaunchErrors(t *testing.T) {
	for _, tt := range []struct {
		name  string
		path  string
		setup func(*fakeFirmware)
		err   error
		calls []string
	}{
		{
			name:  "empty path",
			err:   ErrInvalidPath,
			calls: nil,
		},
		{
			name:  "missing",
			path:  `\EFI\Boot\missing.efi`,
			calls: []string{"read"},
		},
		{
			name:  "not pe",
			path:  bootmgfw,
			setup: func(fw *fakeFirmware) { fw.files[bootmgfw] = []byte("seven") },
			err:   ErrInvalidImage,
			calls: []string{"read"},
		},
		{
			name:  "load error",
			path:  bootmgfw,
			setup: func(fw *fakeFirmware) { fw.loadErr = errors.New("load error") },
			calls: []string{"read", "load"},
		},
		{
			name:  "code type",
			path:  bootmgfw,
			setup: func(fw *fakeFirmware) { fw.codeType = 2 },
			err:   ErrNotBootManager,
			calls: []string{"read", "load", "loaded", "unload"},
		},
		{
			name:  "guid",
			path:  bootmgfw,
			setup: func(fw *fakeFirmware) { fw.image = make([]byte, 4096) },
			err:   ErrNotBootManager,
			calls: []string{"read", "load", "loaded", "unload"},
		},
	} {
		fw := newFirmware()

		if tt.setup != nil {
			tt.setup(fw)
		}

		err := Launch(fw, tt.path, func() { t.Errorf("%s: unexpected wait", tt.name) })

		if err == nil {
			t.Errorf("%s: expected error", tt.name)
		}

		if tt.err != nil && !errors.Is(err, tt.err) {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}

		if diff := cmp.Diff(tt.calls, fw.calls); diff != "" {
			t.Errorf("%s: unexpected calls (-want +got):\n%s", tt.name, diff)
		}
	}
}
