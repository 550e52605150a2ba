// Copyright (c) WithSecure Corporation
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/usbarmory/seven-boot/shell"
	"github.com/usbarmory/seven-boot/uefi"
	"github.com/usbarmory/seven-boot/uefi/x64"
)

const guidPattern = `[[:xdigit:]]{8}-[[:xdigit:]]{4}-[[:xdigit:]]{4}-[[:xdigit:]]{4}-[[:xdigit:]]{12}`

func init() {
	shell.Add(shell.Cmd{
		Name: "uefi",
		Help: "UEFI information",
		Fn:   uefiCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "protocol",
		Args:    1,
		Pattern: regexp.MustCompile(`^protocol (` + guidPattern + `)$`),
		Syntax:  "<registry format GUID>",
		Help:    "EFI_BOOT_SERVICES.LocateProtocol()",
		Fn:      locateCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "memmap",
		Args:    1,
		Pattern: regexp.MustCompile(`^memmap( e820)?$`),
		Syntax:  "(e820)?",
		Help:    "EFI_BOOT_SERVICES.GetMemoryMap()",
		Fn:      memmapCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "var",
		Args:    2,
		Pattern: regexp.MustCompile(`^var(?: (\S+))?(?: (` + guidPattern + `))?$`),
		Syntax:  "(<name> <GUID>?)?",
		Help:    "EFI_RUNTIME_SERVICES.GetVariable()",
		Fn:      varCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "alloc",
		Args:    2,
		Pattern: regexp.MustCompile(`^alloc ([[:xdigit:]]+) (\d+)$`),
		Syntax:  "<hex address> <size>",
		Help:    "EFI_BOOT_SERVICES.AllocatePages()",
		Fn:      allocCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "free",
		Args:    2,
		Pattern: regexp.MustCompile(`^free ([[:xdigit:]]+) (\d+)$`),
		Syntax:  "<hex address> <size>",
		Help:    "EFI_BOOT_SERVICES.FreePages()",
		Fn:      freeCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "reset",
		Args:    1,
		Pattern: regexp.MustCompile(`^reset(?: (cold|warm))?$`),
		Help:    "EFI_RUNTIME_SERVICES.ResetSystem()",
		Syntax:  "(cold|warm)?",
		Fn:      resetCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "halt, shutdown",
		Args:    1,
		Pattern: regexp.MustCompile(`^(halt|shutdown)$`),
		Help:    "shutdown system",
		Fn:      shutdownCmd,
	})
}

func uefiCmd(_ *shell.Interface, _ []string) (res string, err error) {
	var buf bytes.Buffer

	t := x64.UEFI.SystemTable

	if t == nil {
		return "", errors.New("EFI services not initialized")
	}

	fmt.Fprintf(&buf, "UEFI Revision ......: %s\n", t.Header.Version())
	fmt.Fprintf(&buf, "Firmware Vendor ....: %s\n", x64.UEFI.FirmwareVendor())
	fmt.Fprintf(&buf, "Firmware Revision ..: %#x\n", t.FirmwareRevision)
	fmt.Fprintf(&buf, "Image Handle .......: %#x\n", x64.UEFI.ImageHandle())
	fmt.Fprintf(&buf, "System Table .......: %#x\n", x64.UEFI.Address())
	fmt.Fprintf(&buf, "Runtime Services  ..: %#x\n", t.RuntimeServices)
	fmt.Fprintf(&buf, "Boot Services ......: %#x\n", t.BootServices)

	if info := Display.Info(); info.AdapterFound {
		fmt.Fprintf(&buf, "Frame Buffer .......: %dx%d @ %#x (%s)\n",
			info.HorizontalResolution, info.VerticalResolution,
			info.FrameBufferBase, info.Protocol)
	}

	fmt.Fprintf(&buf, "Configuration Tables: %#x\n", t.ConfigurationTable)

	if c, err := t.ConfigurationTables(); err == nil {
		for _, t := range c {
			fmt.Fprintf(&buf, "  %s (%#x) %s\n", t.GUID.String(), t.VendorTable, t.Name())
		}
	}

	return buf.String(), nil
}

func locateCmd(_ *shell.Interface, arg []string) (res string, err error) {
	addr, err := x64.UEFI.Boot.LocateProtocolString(arg[0])
	return fmt.Sprintf("%s: %#08x", arg[0], addr), err
}

func memmapCmd(_ *shell.Interface, arg []string) (res string, err error) {
	var buf bytes.Buffer
	var memoryMap *uefi.MemoryMap

	if memoryMap, err = x64.UEFI.Boot.GetMemoryMap(); err != nil {
		return
	}

	if len(arg[0]) > 0 {
		fmt.Fprintf(&buf, "Start            End              Type\n")

		for _, desc := range memoryMap.Descriptors {
			e, err := desc.E820()

			if err != nil {
				return "", err
			}

			fmt.Fprintf(&buf, "%016x %016x %v\n", e.Addr, e.Addr+e.Size-1, e.MemType)
		}

		return buf.String(), nil
	}

	fmt.Fprintf(&buf, "Type                    Start            End              Pages            Attributes\n")

	var free uint64

	for _, desc := range memoryMap.Descriptors {
		fmt.Fprintf(&buf, "%-23s %016x %016x %016x %016x\n",
			uefi.MemoryTypeName(desc.Type), desc.PhysicalStart, desc.PhysicalEnd()-1, desc.NumberOfPages, desc.Attribute)

		if desc.Type == uefi.EfiConventionalMemory {
			free += uint64(desc.Size())
		}
	}

	fmt.Fprintf(&buf, "Conventional memory: %s\n", humanize.IBytes(free))

	return buf.String(), err
}

func varCmd(_ *shell.Interface, arg []string) (res string, err error) {
	var buf bytes.Buffer

	if len(arg[0]) == 0 {
		vars, err := x64.UEFI.Runtime.Variables()

		for _, v := range vars {
			fmt.Fprintf(&buf, "%s %-24s %s\n", v.VendorGUID.String(), v.Name, v.VendorGUID.Name())
		}

		return buf.String(), err
	}

	guid := uefi.EFI_GLOBAL_VARIABLE_GUID

	if len(arg[1]) > 0 {
		if guid, err = uefi.ParseGUID(arg[1]); err != nil {
			return
		}
	}

	v, err := x64.UEFI.Runtime.GetVariable(arg[0], guid)

	if err != nil {
		return
	}

	fmt.Fprintf(&buf, "Attributes ..: %#x\n", v.Attributes)
	fmt.Fprintf(&buf, "Data ........: %x", v.Data)

	return buf.String(), nil
}

func pageRange(arg []string) (addr uint64, size int, err error) {
	if addr, err = strconv.ParseUint(arg[0], 16, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid address, %v", err)
	}

	n, err := strconv.ParseUint(arg[1], 10, 32)

	if err != nil {
		return 0, 0, fmt.Errorf("invalid size, %v", err)
	}

	if addr%uefi.PageSize != 0 || n == 0 || n%uefi.PageSize != 0 {
		return 0, 0, fmt.Errorf("range must be page aligned (%d)", uefi.PageSize)
	}

	return addr, int(n), nil
}

func allocCmd(_ *shell.Interface, arg []string) (res string, err error) {
	addr, size, err := pageRange(arg)

	if err != nil {
		return
	}

	log.Printf("allocating memory range %#08x - %#08x", addr, addr+uint64(size))

	err = x64.UEFI.Boot.AllocatePages(
		uefi.AllocateAddress,
		uefi.EfiLoaderData,
		size,
		addr,
	)

	return
}

func freeCmd(_ *shell.Interface, arg []string) (res string, err error) {
	addr, size, err := pageRange(arg)

	if err != nil {
		return
	}

	log.Printf("freeing memory range %#08x - %#08x", addr, addr+uint64(size))

	return "", x64.UEFI.Boot.FreePages(addr, size)
}

func resetCmd(_ *shell.Interface, arg []string) (_ string, err error) {
	resetType, err := uefi.ParseResetType(arg[0])

	if err != nil {
		return
	}

	log.Printf("performing system reset (%v)", resetType)
	err = x64.UEFI.Runtime.ResetSystem(resetType)

	return
}

func shutdownCmd(_ *shell.Interface, _ []string) (_ string, err error) {
	return resetCmd(nil, []string{"shutdown"})
}
