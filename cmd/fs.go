// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"regexp"

	"github.com/dustin/go-humanize"

	"github.com/usbarmory/seven-boot/filesystem"
	"github.com/usbarmory/seven-boot/shell"
)

func init() {
	shell.Add(shell.Cmd{
		Name:    "ls",
		Args:    1,
		Pattern: regexp.MustCompile(`^ls(?: (\S+))?$`),
		Syntax:  "(<path>)?",
		Help:    "list boot volume directory",
		Fn:      lsCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "cat",
		Args:    1,
		Pattern: regexp.MustCompile(`^cat (\S+)$`),
		Syntax:  "<path>",
		Help:    "show boot volume file",
		Fn:      catCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "rm",
		Args:    1,
		Pattern: regexp.MustCompile(`^rm (\S+)$`),
		Syntax:  "<path>",
		Help:    "delete boot volume file",
		Fn:      rmCmd,
	})
}

func lsCmd(_ *shell.Interface, arg []string) (string, error) {
	var buf bytes.Buffer

	if root == nil {
		return "", errors.New("root volume not available")
	}

	entries, err := fs.ReadDir(root, filesystem.Clean(arg[0]))

	if err != nil {
		return "", err
	}

	for _, e := range entries {
		fi, err := e.Info()

		if err != nil {
			continue
		}

		fmt.Fprintf(&buf, "%s %10s %s %s\n", fi.Mode(), humanize.IBytes(uint64(fi.Size())), fi.ModTime().Format("2006-01-02 15:04"), e.Name())
	}

	return buf.String(), nil
}

func catCmd(_ *shell.Interface, arg []string) (string, error) {
	if root == nil {
		return "", errors.New("root volume not available")
	}

	buf, err := filesystem.Read(root, arg[0])

	return string(buf), err
}

func rmCmd(_ *shell.Interface, arg []string) (string, error) {
	if root == nil {
		return "", errors.New("root volume not available")
	}

	return "", filesystem.Delete(root, arg[0])
}
