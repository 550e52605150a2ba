// Copyright (c) WithSecure Corporation
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package x64

import (
	_ "unsafe"

	"github.com/usbarmory/seven-boot/uefi"
)

// Console represents the early UEFI console, used for standard output before
// the UEFI services are initialized.
var Console = &uefi.Console{
	ForceLine: true,
}

//go:linkname printk runtime.printk
func printk(c byte) {
	if Console.Out == 0 {
		Console.Out = conOut
	}

	Console.Output([]byte{c})

	if c == 0x0a && Console.ForceLine { // LF
		Console.Output([]byte{0x0d}) // CR
	}
}
