// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package fwcfg implements a driver for the QEMU Firmware Configuration
// (fw_cfg) device.
package fwcfg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// Firmware Configuration selector keys
const (
	Signature = 0x0000
	ID        = 0x0001
	FileDir   = 0x0019
)

// Firmware Configuration ID feature bits
const (
	FeatureTraditional = 1 << 0
	FeatureDMA         = 1 << 1
)

const (
	signature = "QEMU"
	// file directory entry size
	fileSize = 64
	// file name size, including the NUL terminator
	nameSize = 56
)

var (
	ErrNotPresent = errors.New("firmware configuration device not present")
	ErrNotFound   = errors.New("firmware configuration file not found")
)

// Transport represents the access method to the fw_cfg device.
type Transport interface {
	// Select selects the item for subsequent reads.
	Select(key uint16)
	// Read reads the next len(buf) bytes of the selected item.
	Read(buf []byte)
}

// File represents a fw_cfg file directory entry.
type File struct {
	Size   uint32
	Select uint16
	Name   string
}

// FwCfg represents a fw_cfg device instance.
type FwCfg struct {
	t Transport
}

// New returns a fw_cfg instance over the argument transport, after verifying
// the device signature.
func New(t Transport) (cfg *FwCfg, err error) {
	cfg = &FwCfg{t: t}

	if sig := cfg.Read(Signature, len(signature)); string(sig) != signature {
		return nil, fmt.Errorf("%w, invalid signature %q", ErrNotPresent, sig)
	}

	return
}

// Features returns the feature bitmap of the device.
func (cfg *FwCfg) Features() uint32 {
	return binary.LittleEndian.Uint32(cfg.Read(ID, 4))
}

// Read selects the argument item and reads n bytes from it.
func (cfg *FwCfg) Read(item uint16, n int) (buf []byte) {
	buf = make([]byte, n)

	cfg.t.Select(item)

	if n > 0 {
		cfg.t.Read(buf)
	}

	return
}

// Files returns the fw_cfg file directory.
func (cfg *FwCfg) Files() (files []*File, err error) {
	var entry [fileSize]byte

	cfg.t.Select(FileDir)

	// the directory fields are big endian
	cfg.t.Read(entry[:4])
	count := binary.BigEndian.Uint32(entry[:4])

	// a selector is 16-bit wide
	if count > 0xffff {
		return nil, fmt.Errorf("invalid file count %d", count)
	}

	for i := uint32(0); i < count; i++ {
		cfg.t.Read(entry[:])

		name, _, _ := strings.Cut(string(entry[8:8+nameSize]), "\x00")

		files = append(files, &File{
			Size:   binary.BigEndian.Uint32(entry[0:4]),
			Select: binary.BigEndian.Uint16(entry[4:6]),
			Name:   name,
		})
	}

	return
}

// FindFile returns the selector key and size of the named fw_cfg file.
func (cfg *FwCfg) FindFile(name string) (item uint16, size uint32, err error) {
	if len(name) == 0 || len(name) >= nameSize {
		return 0, 0, fmt.Errorf("%w, invalid name %q", ErrNotFound, name)
	}

	files, err := cfg.Files()

	if err != nil {
		return
	}

	for _, f := range files {
		if f.Name == name {
			return f.Select, f.Size, nil
		}
	}

	return 0, 0, fmt.Errorf("%w, %s", ErrNotFound, name)
}

// ReadFile returns the contents of the named fw_cfg file.
func (cfg *FwCfg) ReadFile(name string) ([]byte, error) {
	item, size, err := cfg.FindFile(name)

	if err != nil {
		return nil, err
	}

	return cfg.Read(item, int(size)), nil
}
