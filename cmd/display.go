// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"regexp"

	"github.com/usbarmory/seven-boot/config"
	"github.com/usbarmory/seven-boot/shell"
)

func init() {
	shell.Add(shell.Cmd{
		Name:    "video",
		Args:    1,
		Pattern: regexp.MustCompile(`^video( reset)?$`),
		Syntax:  "(reset)?",
		Help:    "show display adapter and video modes",
		Fn:      videoCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "mode",
		Args:    1,
		Pattern: regexp.MustCompile(`^mode (\d+[xX]\d+)$`),
		Syntax:  "<width>x<height>",
		Help:    "switch video mode",
		Fn:      modeCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "force",
		Args:    1,
		Pattern: regexp.MustCompile(`^force (\d+[xX]\d+)$`),
		Syntax:  "<width>x<height>",
		Help:    "override reported display geometry",
		Fn:      forceCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "logo",
		Args:    1,
		Pattern: regexp.MustCompile(`^logo(?: (\S+))?$`),
		Syntax:  "(<path>)?",
		Help:    "show (animated) BMP image",
		Fn:      logoCmd,
	})

	shell.Add(shell.Cmd{
		Name: "clear",
		Help: "clear screen",
		Fn:   clearCmd,
	})

	shell.Add(shell.Cmd{
		Name: "text",
		Help: "switch console to text mode",
		Fn:   textCmd,
	})
}

func videoCmd(_ *shell.Interface, arg []string) (string, error) {
	var buf bytes.Buffer

	if len(arg[0]) > 0 {
		Display.Init()
	}

	err := Display.VideoInfo(&buf)

	return buf.String(), err
}

func modeCmd(_ *shell.Interface, arg []string) (string, error) {
	r, err := config.ParseResolution(arg[0])

	if err != nil {
		return "", err
	}

	return "", Display.SwitchVideoMode(r.Width, r.Height)
}

func forceCmd(_ *shell.Interface, arg []string) (string, error) {
	r, err := config.ParseResolution(arg[0])

	if err != nil {
		return "", err
	}

	return "", Display.ForceVideoModeHack(r.Width, r.Height)
}

func logoCmd(_ *shell.Interface, arg []string) (string, error) {
	conf := *Conf

	if len(arg[0]) > 0 {
		conf.Logo = arg[0]
	}

	return "", showLogo(&conf)
}

func clearCmd(_ *shell.Interface, _ []string) (string, error) {
	return "", Display.ClearScreen()
}

func textCmd(_ *shell.Interface, _ []string) (string, error) {
	Display.SwitchToText(true)

	return "", nil
}
