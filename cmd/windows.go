// Copyright (c) WithSecure Corporation
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"regexp"
	"strings"

	"github.com/usbarmory/seven-boot/filesystem"
	"github.com/usbarmory/seven-boot/loader"
	"github.com/usbarmory/seven-boot/shell"
	"github.com/usbarmory/seven-boot/uefi/x64"
)

// WindowsBootManager is the default Windows Boot Manager location.
const WindowsBootManager = `\EFI\Microsoft\Boot\bootmgfw.efi`

func init() {
	shell.Add(shell.Cmd{
		Name:    "windows,win,w",
		Args:    1,
		Pattern: regexp.MustCompile(`^(?:windows|win|w)(?: (\S+))?$`),
		Syntax:  "(<path>)?",
		Help:    "launch Windows UEFI boot manager",
		Fn:      winCmd,
	})
}

func winCmd(_ *shell.Interface, arg []string) (res string, err error) {
	path := Conf.Target

	if len(arg[0]) > 0 {
		path = arg[0]
	}

	if path, err = resolve(path); err != nil {
		return
	}

	if root != nil && !filesystem.Exists(root, path) && !strings.EqualFold(imagePath, WindowsBootManager) {
		path = WindowsBootManager
	}

	fw := &loader.UEFI{
		Services: x64.UEFI,
		Root:     root,
	}

	return "", loader.Launch(fw, path, nil)
}
