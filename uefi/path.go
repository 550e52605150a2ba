// Copyright (c) WithSecure Corporation
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
)

const (
	bufferSize = (1 << 16)
	maxDepth   = 16
)

// Device Path node types
const (
	mediaDevicePath = 0x04
	filePathSubType = 0x04

	endDevicePath       = 0x7f
	endEntireDevicePath = 0xff
)

// DevicePathNode represents an EFI Generic Device Path Node structure.
type DevicePathNode struct {
	Type    uint8
	SubType uint8
	Length  uint16
}

// Bytes converts the descriptor structure to byte array format.
func (d *DevicePathNode) Bytes() []byte {
	buf := new(bytes.Buffer)

	binary.Write(buf, binary.LittleEndian, d.Type)
	binary.Write(buf, binary.LittleEndian, d.SubType)
	binary.Write(buf, binary.LittleEndian, d.Length)

	return buf.Bytes()
}

// DevicePath represents an EFI Device Path Protocol node.
type DevicePath struct {
	DevicePathNode
	Data []byte
}

// While we could use UEFI functions to perform the same, we prefer to keep
// control on this parsing given that UEFI firmware does not handle
// gracefully invalid pointers (e.g. DoS condition).
func parseDevicePath(addr uint64) (devicePath []*DevicePath, desc []byte, err error) {
	if addr == 0 {
		return nil, nil, errors.New("invalid device path address")
	}

	buf, release, err := mapMemory(addr, bufferSize, false)

	if err != nil {
		return
	}
	defer release()

	return decodeDevicePath(buf)
}

func decodeDevicePath(buf []byte) (devicePath []*DevicePath, desc []byte, err error) {
	off := 0

	for i := 0; i <= maxDepth; i++ {
		if i == maxDepth {
			return nil, nil, errors.New("device path nodes limit exceeded")
		}

		if off+4 > len(buf) {
			return nil, nil, errors.New("invalid device path")
		}

		node := &DevicePathNode{}

		if err = unmarshalBinary(buf[off:off+4], node); err != nil {
			return nil, nil, err
		}

		if node.Type == endDevicePath && node.SubType == endEntireDevicePath {
			break
		}

		if node.Length < 4 || off+int(node.Length) > len(buf) {
			return nil, nil, errors.New("invalid length")
		}

		d := &DevicePath{
			DevicePathNode: *node,
			Data:           make([]byte, node.Length-4),
		}

		copy(d.Data, buf[off+4:off+int(node.Length)])
		off += int(node.Length)

		devicePath = append(devicePath, d)
	}

	desc = make([]byte, off)
	copy(desc, buf)

	return
}

// FilePath represents an EFI File Path Media Device Path instance.
type FilePath struct {
	DevicePathNode
	PathName []byte
}

// Bytes converts the descriptor structure to byte array format.
func (d *FilePath) Bytes() []byte {
	return append(d.DevicePathNode.Bytes(), d.PathName...)
}

// NewFilePath returns the File Path Media Device Path node for the argument
// path name.
func NewFilePath(name string) (filePath *FilePath) {
	pathName := toUTF16(strings.ReplaceAll(name, `/`, `\`))

	filePath = &FilePath{
		PathName: pathName,
	}

	filePath.Type = mediaDevicePath
	filePath.SubType = filePathSubType
	filePath.Length = uint16(4 + len(pathName))

	return
}

// FilePath returns the full EFI Device Path associated with the named file.
func (root *FS) FilePath(name string) (devicePath []*DevicePath, filePath *FilePath, desc []byte, err error) {
	filePath = NewFilePath(name)

	if devicePath, desc, err = parseDevicePath(root.device); err != nil {
		return
	}

	devicePathEnd := &DevicePathNode{
		Type:    endDevicePath,
		SubType: endEntireDevicePath,
		Length:  4,
	}

	desc = append(desc, filePath.Bytes()...)
	desc = append(desc, devicePathEnd.Bytes()...)

	return
}
