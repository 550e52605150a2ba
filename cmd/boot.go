// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/usbarmory/seven-boot/config"
	"github.com/usbarmory/seven-boot/display"
	"github.com/usbarmory/seven-boot/filesystem"
	"github.com/usbarmory/seven-boot/loader"
	"github.com/usbarmory/seven-boot/shell"
	"github.com/usbarmory/seven-boot/uefi"
	"github.com/usbarmory/seven-boot/uefi/x64"
)

// keyboard polling interval
const pollInterval = 10 * time.Millisecond

var (
	// Display is the graphics adapter used by the boot flow.
	Display = display.New(&display.UEFI{Services: x64.UEFI})

	// Conf holds the settings in use.
	Conf = config.Default()

	// LogFile is the runtime log copied to the boot volume on request.
	LogFile *os.File

	root      *uefi.FS
	imagePath string
)

func init() {
	shell.Add(shell.Cmd{
		Name: "boot",
		Help: "run the boot flow with the current settings",
		Fn:   bootCmd,
	})

	shell.Add(shell.Cmd{
		Name: "autoboot",
		Help: "reload settings and boot when autoboot is set",
		Fn:   autobootCmd,
	})

	shell.Add(shell.Cmd{
		Name: "conf",
		Help: "show current settings",
		Fn:   settingsCmd,
	})
}

// Init opens the volume holding the running image and loads its settings,
// named after the image or, failing that, the default file in its directory.
func Init() (_ *config.Config, err error) {
	if root, err = x64.UEFI.Root(); err != nil {
		return Conf, fmt.Errorf("could not open root volume, %v", err)
	}

	if imagePath, err = root.ImagePath(); err != nil {
		return Conf, fmt.Errorf("could not find image path, %v", err)
	}

	log.Printf("running %s from %s", filesystem.BaseFilename(imagePath), imagePath)

	conf, path, err := config.LoadImageSettings(root, imagePath)

	if err != nil {
		return Conf, fmt.Errorf("could not load settings, %v", err)
	}

	if path != "" {
		log.Printf("loaded settings from %s", path)
	}

	if ignored := conf.Ignored(); len(ignored) > 0 {
		log.Printf("ignored settings:\n%s", ignored)
	}

	Conf = conf
	setVerbose(conf.Verbose)

	return conf, nil
}

func setVerbose(v bool) {
	display.Debug = v
	filesystem.Debug = v
	loader.Debug = v
}

// resolve returns the argument path, relative ones are resolved within the
// directory of the running image.
func resolve(path string) (string, error) {
	if strings.HasPrefix(path, `\`) || strings.HasPrefix(path, "/") {
		return path, nil
	}

	if len(imagePath) == 0 {
		return "", errors.New("unknown image directory")
	}

	return filesystem.SameDirectory(imagePath, path)
}

// WaitForEnter blocks until the Enter key is pressed.
func WaitForEnter(prompt string) {
	if x64.UEFI.Console == nil {
		return
	}

	if len(prompt) > 0 {
		fmt.Fprintln(x64.UEFI.Console, prompt)
	}

	for {
		k, err := x64.UEFI.Console.ReadKey()

		if err != nil {
			log.Printf("could not read key, %v", err)
			return
		}

		if k != nil && (k.Rune() == '\r' || k.Rune() == '\n') {
			return
		}

		x64.UEFI.Boot.Stall(pollInterval)
	}
}

// SaveLog copies the runtime log next to the running image, named after it.
func SaveLog() (err error) {
	if LogFile == nil || root == nil {
		return errors.New("no log file or root volume")
	}

	buf, err := os.ReadFile(LogFile.Name())

	if err != nil {
		return
	}

	path, err := config.LogPath(imagePath)

	if err != nil {
		return
	}

	return filesystem.Write(root, filesystem.Clean(path), buf)
}

func showLogo(conf *config.Config) (err error) {
	if root == nil {
		return errors.New("root volume not available")
	}

	path, err := resolve(conf.Logo)

	if err != nil {
		return
	}

	if !filesystem.Exists(root, path) {
		log.Printf("logo %s not found", path)
		return nil
	}

	buf, err := filesystem.Read(root, path)

	if err != nil {
		return
	}

	img, err := display.Decode(buf)

	if err != nil {
		return fmt.Errorf("could not decode %s, %v", path, err)
	}

	if err = Display.ClearScreen(); err != nil {
		return
	}

	return Display.AnimateImage(img)
}

func setupDisplay(conf *config.Config) (err error) {
	if err = Display.EnsureAvailable(); err != nil {
		return
	}

	if r := conf.Resolution; r != nil && !Display.MatchCurrentResolution(r.Width, r.Height) {
		if err = Display.SwitchVideoMode(r.Width, r.Height); err != nil {
			return fmt.Errorf("could not switch to %s, %v", r, err)
		}
	}

	if r := conf.Force; r != nil && !Display.MatchCurrentResolution(r.Width, r.Height) {
		if err = Display.ForceVideoModeHack(r.Width, r.Height); err != nil {
			return fmt.Errorf("could not force %s, %v", r, err)
		}
	}

	return
}

// Boot runs the boot flow: the display is set up according to the
// settings, the logo is shown and the Windows Boot Manager launched.
//
// On success Boot only returns when the launched image exits.
func Boot(conf *config.Config) (err error) {
	if root == nil {
		return errors.New("root volume not available")
	}

	step := func(name string, fn func(*config.Config) error) error {
		err := fn(conf)

		if err == nil {
			return nil
		}

		if conf.SkipErrors {
			log.Printf("%s error (skipped), %v", name, err)
			return nil
		}

		return fmt.Errorf("%s error, %v", name, err)
	}

	if err = step("display", setupDisplay); err != nil {
		return
	}

	if err = step("logo", showLogo); err != nil {
		return
	}

	target, err := resolve(conf.Target)

	if err != nil {
		return
	}

	log.Printf("launching %s", target)

	fw := &loader.UEFI{
		Services: x64.UEFI,
		Root:     root,
	}

	return loader.Launch(fw, target, func() {
		if conf.Wait {
			Display.SwitchToText(false)
			WaitForEnter("press Enter to continue")
		}

		if conf.Logging {
			if err := SaveLog(); err != nil {
				log.Printf("could not save log, %v", err)
			}
		}
	})
}

func bootCmd(_ *shell.Interface, _ []string) (string, error) {
	return "", Boot(Conf)
}

func autobootCmd(_ *shell.Interface, _ []string) (string, error) {
	conf, err := Init()

	if err != nil {
		return "", err
	}

	if !conf.AutoBoot {
		return "autoboot disabled", nil
	}

	return "", Boot(conf)
}

func settingsCmd(_ *shell.Interface, _ []string) (string, error) {
	var res strings.Builder

	fmt.Fprintf(&res, "Image ........: %s\n", imagePath)

	if root != nil {
		fmt.Fprintf(&res, "Device .......: %#x\n", root.DeviceHandle())
	}

	fmt.Fprintf(&res, "Target .......: %s\n", Conf.Target)
	fmt.Fprintf(&res, "Logo .........: %s\n", Conf.Logo)
	fmt.Fprintf(&res, "AutoBoot .....: %v\n", Conf.AutoBoot)
	fmt.Fprintf(&res, "Wait .........: %v\n", Conf.Wait)
	fmt.Fprintf(&res, "SkipErrors ...: %v\n", Conf.SkipErrors)
	fmt.Fprintf(&res, "Logging ......: %v\n", Conf.Logging)
	fmt.Fprintf(&res, "Verbose ......: %v\n", Conf.Verbose)

	if r := Conf.Resolution; r != nil {
		fmt.Fprintf(&res, "Resolution ...: %s\n", r)
	}

	if r := Conf.Force; r != nil {
		fmt.Fprintf(&res, "Force ........: %s\n", r)
	}

	return res.String(), nil
}
