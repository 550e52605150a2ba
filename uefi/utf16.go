// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"encoding/binary"
	"unicode/utf16"
)

// toUTF16 converts the argument string to a null terminated little-endian
// UTF-16 (UCS-2) byte slice.
func toUTF16(s string) (buf []byte) {
	for _, r := range utf16.Encode([]rune(s)) {
		buf = binary.LittleEndian.AppendUint16(buf, r)
	}

	return append(buf, 0x00, 0x00)
}

// fromUTF16 converts the argument little-endian UTF-16 byte slice to a
// string, stopping at the first null character.
func fromUTF16(buf []byte) string {
	var s []uint16

	for i := 0; i+1 < len(buf); i += 2 {
		c := binary.LittleEndian.Uint16(buf[i : i+2])

		if c == 0 {
			break
		}

		s = append(s, c)
	}

	return string(utf16.Decode(s))
}
