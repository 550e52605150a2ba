// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const settings = `# seven-boot settings
verbose
logging true
skiperrors 0
wait
resolution 1024x768
force 1280X1024
logo \EFI\Boot\windows.bmp
target \EFI\Microsoft\Boot\bootmgfw.original.efi
unknown key
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(settings))

	if err != nil {
		t.Fatal(err)
	}

	want := &Config{
		Verbose:    true,
		Logging:    true,
		SkipErrors: false,
		AutoBoot:   true,
		Wait:       true,
		Resolution: &Resolution{1024, 768},
		Force:      &Resolution{1280, 1024},
		Logo:       `\EFI\Boot\windows.bmp`,
		Target:     `\EFI\Microsoft\Boot\bootmgfw.original.efi`,
	}

	if diff := cmp.Diff(want, c, cmpopts.IgnoreUnexported(Config{})); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}

	if c.Ignored() != "unknown key\n" {
		t.Fatalf("unexpected ignored lines %q", c.Ignored())
	}

	if c.Resolution.String() != "1024x768" {
		t.Fatalf("unexpected resolution %s", c.Resolution)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, s := range []string{
		"verbose maybe",
		"resolution 1024",
		"resolution 0x768",
		"force 1024x-1",
		"force x",
		"logo",
		"target   ",
	} {
		if _, err := Parse([]byte(s)); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("%q: unexpected error %v", s, err)
		}
	}
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"EFI/Boot/seven.conf": {Data: []byte("autoboot false\r\n")},
	}

	c, err := Load(fsys, "EFI/Boot/seven.conf")

	if err != nil {
		t.Fatal(err)
	}

	if c.AutoBoot || c.Target != DefaultTarget || c.Logo != DefaultLogo {
		t.Fatalf("unexpected config %+v", c)
	}

	if c.String() != "autoboot false\r\n" {
		t.Fatalf("unexpected parsed lines %q", c.String())
	}

	c, err = Load(fsys, "EFI/Boot/missing.conf")

	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(Default(), c, cmpopts.IgnoreUnexported(Config{})); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestSettingsFiles(t *testing.T) {
	paths, err := SettingsFiles(`\EFI\Boot\bootx64.efi`)

	if err != nil {
		t.Fatal(err)
	}

	want := []string{`\EFI\Boot\bootx64.conf`, `\EFI\Boot\seven.conf`}

	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("unexpected paths (-want +got):\n%s", diff)
	}

	if paths, _ = SettingsFiles(`\EFI\Boot\bootx64`); len(paths) != 1 || paths[0] != `\EFI\Boot\seven.conf` {
		t.Fatalf("unexpected paths %v", paths)
	}

	if _, err = SettingsFiles("bootx64.efi"); err == nil {
		t.Fatal("path without directory accepted")
	}
}

func TestLoadImageSettings(t *testing.T) {
	esp := fstest.MapFS{
		"EFI/Boot/bootx64.conf": {Data: []byte("verbose\n")},
		"EFI/Boot/seven.conf":   {Data: []byte("wait\n")},
		"EFI/Seven/seven.conf":  {Data: []byte("wait\n")},
	}

	for _, tt := range []struct {
		image   string
		path    string
		verbose bool
		wait    bool
	}{
		{`\EFI\Boot\bootx64.efi`, `\EFI\Boot\bootx64.conf`, true, false},
		{`\EFI\Seven\bootx64.efi`, `\EFI\Seven\seven.conf`, false, true},
		{`\EFI\Other\bootx64.efi`, "", false, false},
	} {
		c, path, err := LoadImageSettings(esp, tt.image)

		if err != nil {
			t.Fatalf("%s: %v", tt.image, err)
		}

		if path != tt.path || c.Verbose != tt.verbose || c.Wait != tt.wait {
			t.Errorf("%s: got %q %v/%v", tt.image, path, c.Verbose, c.Wait)
		}

		if !c.AutoBoot {
			t.Errorf("%s: defaults not applied", tt.image)
		}
	}
}

func TestLogPath(t *testing.T) {
	for image, want := range map[string]string{
		`\EFI\Boot\bootx64.efi`: `\EFI\Boot\bootx64.log`,
		`\EFI\Boot\bootx64`:     `\EFI\Boot\seven.log`,
	} {
		if got, err := LogPath(image); err != nil || got != want {
			t.Errorf("%s: got %q (%v), want %q", image, got, err, want)
		}
	}
}
