// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package smbios detects the SMBIOS version advertised by the QEMU
// hypervisor through its firmware configuration device.
package smbios

import (
	"bytes"
	"errors"
	"fmt"
	"log"

	dmi "github.com/digitalocean/go-smbios/smbios"
)

// QEMU fw_cfg file names
const (
	AnchorFile = "etc/smbios/smbios-anchor"
	TablesFile = "etc/smbios/smbios-tables"
)

// EntryPointSize is the size of the SMBIOS 2.x (32-bit) entry point.
const EntryPointSize = 31

// SMBIOS 2.x entry point offsets
const (
	checksum             = 4
	intermediateAnchor   = 16
	intermediateChecksum = 21
)

// endOfTable is the SMBIOS structure type terminating the table.
const endOfTable = 127

// ErrNotDetected is returned when no SMBIOS version can be determined, in
// which case the firmware default applies.
var ErrNotDetected = errors.New("SMBIOS version not detected")

// Config represents the fw_cfg operations required for detection.
type Config interface {
	FindFile(name string) (item uint16, size uint32, err error)
	Read(item uint16, n int) []byte
}

// DetectVersion returns the SMBIOS version, encoded as major<<8 | minor,
// described by the hypervisor provided entry point.
func DetectVersion(cfg Config) (version uint16, err error) {
	ep, _, err := EntryPoint(cfg)

	if err != nil {
		return
	}

	version = uint16(ep.Major)<<8 | uint16(ep.Minor)
	log.Printf("SMBIOS version from QEMU: %#04x", version)

	return
}

// fixChecksums computes the checksums of a 2.x entry point, which QEMU leaves
// to the firmware.
func fixChecksums(ep []byte) {
	if len(ep) != EntryPointSize || !bytes.HasPrefix(ep, []byte("_SM_")) {
		return
	}

	ep[intermediateChecksum] = 0
	ep[intermediateChecksum] = -sum(ep[intermediateAnchor:])

	ep[checksum] = 0
	ep[checksum] = -sum(ep)
}

// sum returns the 8-bit sum of the argument bytes.
func sum(buf []byte) (s uint8) {
	for _, b := range buf {
		s += b
	}

	return
}

// EntryPoint returns the hypervisor SMBIOS 2.x entry point after validating
// it against the structure table, whose size is also returned.
func EntryPoint(cfg Config) (ep *dmi.EntryPoint32Bit, tablesSize uint32, err error) {
	anchor, anchorSize, err := cfg.FindFile(AnchorFile)

	if err != nil {
		return nil, 0, fmt.Errorf("%w, %v", ErrNotDetected, err)
	}

	_, tablesSize, err = cfg.FindFile(TablesFile)

	if err != nil {
		return nil, 0, fmt.Errorf("%w, %v", ErrNotDetected, err)
	}

	if tablesSize == 0 {
		return nil, 0, fmt.Errorf("%w, empty structure table", ErrNotDetected)
	}

	// only the 2.x entry point is supported
	if anchorSize != EntryPointSize {
		return nil, 0, fmt.Errorf("%w, unsupported entry point size %d", ErrNotDetected, anchorSize)
	}

	buf := bytes.Clone(cfg.Read(anchor, int(anchorSize)))
	fixChecksums(buf)

	e, err := dmi.ParseEntryPoint(bytes.NewReader(buf))

	if err != nil {
		return nil, 0, fmt.Errorf("%w, %v", ErrNotDetected, err)
	}

	ep, ok := e.(*dmi.EntryPoint32Bit)

	switch {
	case !ok:
		err = errors.New("unexpected entry point type")
	case ep.Anchor != "_SM_" || ep.IntermediateAnchor != "_DMI_":
		err = errors.New("invalid anchor")
	case ep.Major != 2:
		err = fmt.Errorf("unexpected major version %d", ep.Major)
	case uint32(ep.StructureTableLength) != tablesSize:
		err = fmt.Errorf("table length mismatch (%d != %d)", ep.StructureTableLength, tablesSize)
	}

	if err != nil {
		return nil, 0, fmt.Errorf("%w, %v", ErrNotDetected, err)
	}

	return
}

// Structures returns the hypervisor SMBIOS structure table, without the
// end-of-table structure.
func Structures(cfg Config) (ss []*dmi.Structure, err error) {
	tables, size, err := cfg.FindFile(TablesFile)

	if err != nil {
		return nil, err
	}

	all, err := dmi.NewDecoder(bytes.NewReader(cfg.Read(tables, int(size)))).Decode()

	for _, s := range all {
		if s.Header.Type != endOfTable {
			ss = append(ss, s)
		}
	}

	return
}
