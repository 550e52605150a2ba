// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/usbarmory/seven-boot/fwcfg"
	"github.com/usbarmory/seven-boot/shell"
	"github.com/usbarmory/seven-boot/smbios"
	"github.com/usbarmory/seven-boot/uefi"
	"github.com/usbarmory/seven-boot/uefi/x64"
)

func init() {
	shell.Add(shell.Cmd{
		Name: "smbios",
		Help: "detect SMBIOS version from QEMU fw_cfg",
		Fn:   smbiosCmd,
	})
}

func smbiosCmd(_ *shell.Interface, _ []string) (string, error) {
	var buf bytes.Buffer

	if x64.UEFI.SystemTable != nil {
		if t, err := x64.UEFI.SystemTable.LocateConfiguration(uefi.SMBIOS_TABLE_GUID); err == nil {
			fmt.Fprintf(&buf, "EFI SMBIOS table ..: %#x\n", t.VendorTable)
		}
	}

	cfg, err := fwcfg.New(fwcfg.Port{})

	if err != nil {
		return buf.String(), err
	}

	version, err := smbios.DetectVersion(cfg)

	if err != nil {
		return buf.String(), err
	}

	fmt.Fprintf(&buf, "SMBIOS version ....: %d.%d (%#04x)\n", version>>8, version&0xff, version)

	ss, err := smbios.Structures(cfg)

	if err != nil {
		return buf.String(), err
	}

	for _, s := range ss {
		fmt.Fprintf(&buf, "  type %3d handle %#04x %s\n", s.Header.Type, s.Header.Handle, strings.Join(s.Strings, ", "))
	}

	return buf.String(), nil
}
