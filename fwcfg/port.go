// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build amd64

package fwcfg

// x86 I/O ports
const (
	SelectorPort = 0x510
	DataPort     = 0x511
)

// defined in port_amd64.s
func out16(port uint16, val uint16)
func in8(port uint16) uint8

// Port implements [Transport] over the x86 I/O port interface.
type Port struct{}

// Select implements [Transport.Select].
func (Port) Select(key uint16) {
	out16(SelectorPort, key)
}

// Read implements [Transport.Read].
func (Port) Read(buf []byte) {
	for i := range buf {
		buf[i] = in8(DataPort)
	}
}
