// Copyright (c) WithSecure Corporation
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// seven-boot is a UEFI application which displays a boot logo, optionally
// adjusting the video mode, and launches the Windows Boot Manager of legacy
// Windows releases.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/usbarmory/seven-boot/cmd"
	"github.com/usbarmory/seven-boot/shell"
	"github.com/usbarmory/seven-boot/uefi/x64"
)

// set at build time with -ldflags -X
var (
	Build    string
	Revision string
)

func init() {
	log.SetFlags(0)

	cmd.Banner = fmt.Sprintf("seven-boot %s (%s) • %s/%s (%s) • UEFI",
		Revision, Build, runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func main() {
	logFile, _ := os.OpenFile("/runtime.log", os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	log.SetOutput(io.MultiWriter(os.Stdout, logFile))

	cmd.LogFile = logFile

	conf, err := cmd.Init()

	if err != nil {
		log.Printf("initialization error, %v", err)
	}

	if err == nil && conf.AutoBoot {
		if err = cmd.Boot(conf); err != nil {
			log.Printf("boot error, %v", err)
		}
	}

	iface := &shell.Interface{
		Banner:     cmd.Banner,
		Log:        logFile,
		ReadWriter: x64.Console,
	}

	iface.Start()

	if x64.UEFI.Boot != nil {
		if err = x64.UEFI.Boot.Exit(0); err != nil {
			log.Printf("halting due to exit error, %v", err)
		}
	}

	runtime.Exit(0)
}
