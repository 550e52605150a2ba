// Copyright (c) WithSecure Corporation
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const align = 8

func marshalBinary(data any) (buf []byte, err error) {
	b := new(bytes.Buffer)
	err = binary.Write(b, binary.LittleEndian, data)
	return b.Bytes(), err
}

func unmarshalBinary(buf []byte, data any) (err error) {
	_, err = binary.Decode(buf, binary.LittleEndian, data)
	return
}

func decode(data any, addr uint64) (err error) {
	if addr == 0 {
		return errors.New("invalid address")
	}

	t, _ := marshalBinary(data)
	n := len(t) + (len(t) % align)

	buf, release, err := mapMemory(addr, n, true)

	if err != nil {
		return
	}
	defer release()

	return unmarshalBinary(buf[:len(t)], data)
}

// encode writes the argument structure at the argument firmware address, it
// is the counterpart of decode for structures owned by the firmware.
func encode(data any, addr uint64) (err error) {
	if addr == 0 {
		return errors.New("invalid address")
	}

	t, err := marshalBinary(data)

	if err != nil {
		return
	}

	n := len(t) + (len(t) % align)

	buf, release, err := mapMemory(addr, n, true)

	if err != nil {
		return
	}
	defer release()

	copy(buf, t)

	return
}

// Memory returns a copy of the argument firmware memory range.
func Memory(addr uint64, size int) (buf []byte, err error) {
	if addr == 0 || size <= 0 {
		return nil, errors.New("invalid memory range")
	}

	b, release, err := mapMemory(addr, size, true)

	if err != nil {
		return
	}
	defer release()

	buf = make([]byte, size)
	copy(buf, b)

	return
}
