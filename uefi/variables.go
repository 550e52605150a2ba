// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"errors"
)

var EFI_GLOBAL_VARIABLE_GUID = MustParseGUID("8be4df61-93ca-11d2-aa0d-00e098032b8c")

// EFI Runtime Services offsets for Variable Services
const (
	getVariable         = 0x48
	getNextVariableName = 0x50
)

// EFI variable attributes
const (
	EFI_VARIABLE_NON_VOLATILE       = 0x01
	EFI_VARIABLE_BOOTSERVICE_ACCESS = 0x02
	EFI_VARIABLE_RUNTIME_ACCESS     = 0x04
)

const variableNameSize = 1024

// Variable represents an EFI variable.
type Variable struct {
	Name       string
	VendorGUID GUID
	Attributes uint32
	Data       []byte
}

// GetVariable calls EFI_RUNTIME_SERVICES.GetVariable(), the first call
// returns the data size which is then used to retrieve the value.
func (s *RuntimeServices) GetVariable(name string, guid GUID) (v *Variable, err error) {
	var size uint64

	n := toUTF16(name)

	v = &Variable{
		Name:       name,
		VendorGUID: guid,
	}

	status := callService(s.base+getVariable,
		[]uint64{
			ptrval(&n[0]),
			ptrval(&guid[0]),
			ptrval(&v.Attributes),
			ptrval(&size),
			0,
		},
	)

	if err = parseStatus(status); err == nil || !errors.Is(err, ErrEfiBufferTooSmall) {
		// zero sized variables are reported as found
		return v, err
	}

	v.Data = make([]byte, size)

	status = callService(s.base+getVariable,
		[]uint64{
			ptrval(&n[0]),
			ptrval(&guid[0]),
			ptrval(&v.Attributes),
			ptrval(&size),
			ptrval(&v.Data[0]),
		},
	)

	if err = parseStatus(status); err != nil {
		return nil, err
	}

	v.Data = v.Data[:size]

	return
}

// GetNextVariableName calls EFI_RUNTIME_SERVICES.GetNextVariableName(), an
// empty name starts the enumeration and [ErrEfiNotFound] ends it.
func (s *RuntimeServices) GetNextVariableName(name string, guid GUID) (next string, vendor GUID, err error) {
	n := toUTF16(name)
	size := uint64(variableNameSize)

	if uint64(len(n)) > size {
		size = uint64(len(n))
	}

	buf := make([]byte, size)
	copy(buf, n)
	vendor = guid

	status := callService(s.base+getNextVariableName,
		[]uint64{
			ptrval(&size),
			ptrval(&buf[0]),
			ptrval(&vendor[0]),
		},
	)

	if err = parseStatus(status); err != nil {
		return
	}

	return fromUTF16(buf), vendor, nil
}

// Variables returns the names of all EFI variables with their vendor GUID.
func (s *RuntimeServices) Variables() (vars []*Variable, err error) {
	var name string
	var guid GUID

	for {
		if name, guid, err = s.GetNextVariableName(name, guid); err != nil {
			break
		}

		vars = append(vars, &Variable{Name: name, VendorGUID: guid})
	}

	if errors.Is(err, ErrEfiNotFound) {
		err = nil
	}

	return
}
