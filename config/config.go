// Copyright (c) WithSecure Corporation
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package config implements parsing of the shim settings file.
//
// The file holds one `key value` setting per line, boolean keys may omit
// the value, lines starting with `#` are comments:
//
//	verbose
//	logging
//	resolution 1024x768
//	target \EFI\Microsoft\Boot\bootmgfw.original.efi
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
)

// DefaultFile is the name of the settings file, looked up in the directory
// of the running image.
const DefaultFile = "seven.conf"

// Defaults
const (
	DefaultLogo   = "seven.bmp"
	DefaultTarget = "bootmgfw.original.efi"
	DefaultLog    = "seven.log"
)

// ErrInvalidValue is returned for settings which cannot be parsed.
var ErrInvalidValue = errors.New("invalid value")

// Resolution represents a screen resolution.
type Resolution struct {
	Width  uint32
	Height uint32
}

// String returns the resolution in `<width>x<height>` format.
func (r *Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// ParseResolution parses a resolution in `<width>x<height>` format.
func ParseResolution(s string) (r *Resolution, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")

	if !ok {
		return nil, fmt.Errorf("%w, resolution %q", ErrInvalidValue, s)
	}

	w, err := strconv.ParseUint(ws, 10, 32)

	if err != nil || w == 0 {
		return nil, fmt.Errorf("%w, width %q", ErrInvalidValue, ws)
	}

	h, err := strconv.ParseUint(hs, 10, 32)

	if err != nil || h == 0 {
		return nil, fmt.Errorf("%w, height %q", ErrInvalidValue, hs)
	}

	return &Resolution{Width: uint32(w), Height: uint32(h)}, nil
}

// Config represents the shim settings.
type Config struct {
	// Verbose enables debug messages.
	Verbose bool
	// Logging enables copying the log to the boot volume.
	Logging bool
	// SkipErrors continues the boot flow past display errors.
	SkipErrors bool
	// AutoBoot launches the target without entering the shell.
	AutoBoot bool
	// Wait waits for Enter before launching the target.
	Wait bool

	// Resolution is the video mode to switch to before launch.
	Resolution *Resolution
	// Force overrides the display geometry reported by the adapter.
	Force *Resolution

	// Logo is the BMP image shown during boot.
	Logo string
	// Target is the Windows Boot Manager image.
	Target string

	parsed  string
	ignored string
}

// Default returns the default settings.
func Default() *Config {
	return &Config{
		AutoBoot: true,
		Logo:     DefaultLogo,
		Target:   DefaultTarget,
	}
}

func parseBool(k string, v string) (bool, error) {
	if len(v) == 0 {
		return true, nil
	}

	b, err := strconv.ParseBool(v)

	if err != nil {
		return false, fmt.Errorf("%w, %s %q", ErrInvalidValue, k, v)
	}

	return b, nil
}

func (c *Config) parseKey(line string) (err error) {
	s := strings.TrimSpace(line)

	if len(s) == 0 || strings.HasPrefix(s, "#") {
		return
	}

	k, v, _ := strings.Cut(s, " ")
	v = strings.TrimSpace(v)

	switch k {
	case "verbose":
		c.Verbose, err = parseBool(k, v)
	case "logging":
		c.Logging, err = parseBool(k, v)
	case "skiperrors":
		c.SkipErrors, err = parseBool(k, v)
	case "autoboot":
		c.AutoBoot, err = parseBool(k, v)
	case "wait":
		c.Wait, err = parseBool(k, v)
	case "resolution":
		c.Resolution, err = ParseResolution(v)
	case "force":
		c.Force, err = ParseResolution(v)
	case "logo", "target":
		if len(v) == 0 {
			return fmt.Errorf("%w, empty %s", ErrInvalidValue, k)
		}

		if k == "logo" {
			c.Logo = v
		} else {
			c.Target = v
		}
	default:
		c.ignored += line
		return
	}

	if err != nil {
		return
	}

	c.parsed += line

	return
}

// String returns the lines successfully parsed.
func (c *Config) String() string {
	return c.parsed
}

// Ignored returns the lines ignored during parsing.
func (c *Config) Ignored() string {
	return c.ignored
}

// Parse parses the argument settings over the defaults.
func Parse(buf []byte) (c *Config, err error) {
	c = Default()

	for line := range strings.Lines(string(buf)) {
		if err = c.parseKey(line); err != nil {
			return
		}
	}

	return
}

// Load parses the settings file at the argument path, a missing file yields
// the defaults.
func Load(fsys fs.FS, path string) (c *Config, err error) {
	buf, err := fs.ReadFile(fsys, path)

	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	if err != nil {
		return
	}

	return Parse(buf)
}
