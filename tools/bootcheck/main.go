// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// bootcheck validates an EFI System Partition tree, before deployment, for
// use with seven-boot.
//
// Usage:
//
//	bootcheck [--image <path>] <ESP directory>
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"

	"github.com/usbarmory/seven-boot/config"
	"github.com/usbarmory/seven-boot/display"
	"github.com/usbarmory/seven-boot/filesystem"
	"github.com/usbarmory/seven-boot/loader"
)

const defaultImage = `\EFI\Microsoft\Boot\bootmgfw.efi`

var (
	image   = flag.StringP("image", "i", defaultImage, "seven-boot image path within the ESP")
	verbose = flag.BoolP("verbose", "v", false, "verbose output")
)

// resolve returns the volume path of a settings path, relative ones are
// within the directory of the shim image.
func resolve(image string, path string) (string, error) {
	if len(path) > 0 && (path[0] == '\\' || path[0] == '/') {
		return path, nil
	}

	return filesystem.SameDirectory(image, path)
}

func checkImage(fsys fs.FS, path string, w io.Writer, bootManager bool) (err error) {
	buf, err := filesystem.Read(fsys, path)

	if err != nil {
		return
	}

	info, err := loader.InspectPE(buf)

	if err != nil {
		return fmt.Errorf("%s: %v", path, err)
	}

	fmt.Fprintf(w, "%s: %s, entry point %#x, image size %s, sections %v\n",
		path, humanize.IBytes(uint64(len(buf))), info.EntryPoint, humanize.IBytes(uint64(info.ImageSize)), info.Sections)

	if err = loader.CheckPE(buf); err != nil {
		return fmt.Errorf("%s: %v", path, err)
	}

	if bootManager {
		if err = loader.CheckBootManagerGUID(buf); err != nil {
			return fmt.Errorf("%s: %v", path, err)
		}

		fmt.Fprintf(w, "%s: carries %s\n", path, loader.BootManagerGUID)
	}

	return
}

func checkLogo(fsys fs.FS, path string, w io.Writer) (err error) {
	buf, err := filesystem.Read(fsys, path)

	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(w, "%s: not found, no logo is shown\n", path)
		return nil
	}

	if err != nil {
		return
	}

	img, err := display.Decode(buf)

	if err != nil {
		return fmt.Errorf("%s: %v", path, err)
	}

	frames := uint32(1)

	switch {
	case img.Width > img.Height:
		frames = img.Width / img.Height
	case img.Height > img.Width:
		frames = img.Height / img.Width
	}

	fmt.Fprintf(w, "%s: %dx%d, %d frame(s), %s\n", path, img.Width, img.Height, frames, humanize.IBytes(uint64(len(buf))))

	return
}

// check validates the shim image, its settings, logo and target within the
// argument file system.
func check(fsys fs.FS, image string, w io.Writer) (err error) {
	if err = checkImage(fsys, image, w, false); err != nil {
		return
	}

	conf, path, err := config.LoadImageSettings(fsys, image)

	if err != nil {
		return fmt.Errorf("%s: settings, %v", image, err)
	}

	if path == "" {
		path = image
		fmt.Fprintf(w, "%s: no settings file, using defaults\n", image)
	} else {
		fmt.Fprintf(w, "%s: settings\n", path)
	}

	if ignored := conf.Ignored(); len(ignored) > 0 {
		fmt.Fprintf(w, "%s: ignored settings:\n%s", path, ignored)
	}

	if conf.Resolution != nil && conf.Force != nil {
		fmt.Fprintf(w, "%s: resolution %s is overridden by force %s\n", path, conf.Resolution, conf.Force)
	}

	logo, err := resolve(image, conf.Logo)

	if err != nil {
		return
	}

	if err = checkLogo(fsys, logo, w); err != nil {
		return
	}

	target, err := resolve(image, conf.Target)

	if err != nil {
		return
	}

	return checkImage(fsys, target, w, true)
}

func main() {
	log.SetFlags(0)
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %s [--image <path>] <ESP directory>", os.Args[0])
	}

	filesystem.Debug = *verbose
	loader.Debug = *verbose
	display.Debug = *verbose

	if err := check(os.DirFS(flag.Arg(0)), *image, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
