// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package filesystem

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
)

type memVolume struct {
	fstest.MapFS
}

func (v *memVolume) WriteFile(name string, data []byte) error {
	v.MapFS[name] = &fstest.MapFile{Data: bytes.Clone(data)}
	return nil
}

func (v *memVolume) Remove(name string) error {
	if _, ok := v.MapFS[name]; !ok {
		return fs.ErrNotExist
	}

	delete(v.MapFS, name)

	return nil
}

func newVolume() *memVolume {
	return &memVolume{
		MapFS: fstest.MapFS{
			"EFI/Boot/bootx64.efi":            {Data: []byte("seven")},
			"EFI/Microsoft/Boot/bootmgfw.efi": {Data: []byte("bootmgr")},
			"EFI/Boot/seven.conf":             {Data: []byte("verbose\n")},
		},
	}
}

func TestClean(t *testing.T) {
	for in, want := range map[string]string{
		`\EFI\Boot\bootx64.efi`: "EFI/Boot/bootx64.efi",
		`EFI\Boot`:              "EFI/Boot",
		"/EFI/Boot/":            "EFI/Boot/",
		`\`:                     ".",
		"":                      ".",
	} {
		if got := Clean(in); got != want {
			t.Errorf("%q: got %q, want %q", in, got, want)
		}
	}
}

func TestExistsRead(t *testing.T) {
	vol := newVolume()

	if !Exists(vol, `\EFI\Boot\bootx64.efi`) {
		t.Fatal("file not found")
	}

	if Exists(vol, `\EFI\Boot\missing.efi`) {
		t.Fatal("missing file found")
	}

	buf, err := Read(vol, `\EFI\Microsoft\Boot\bootmgfw.efi`)

	if err != nil {
		t.Fatal(err)
	}

	if string(buf) != "bootmgr" {
		t.Fatalf("unexpected contents %q", buf)
	}

	if _, err = Read(vol, `\EFI\Boot\missing.efi`); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("unexpected error %v", err)
	}

	fi, err := Info(vol, `\EFI\Boot\seven.conf`)

	if err != nil {
		t.Fatal(err)
	}

	if fi.Size() != 8 || fi.IsDir() {
		t.Fatalf("unexpected info %d %v", fi.Size(), fi.IsDir())
	}
}

func TestWrite(t *testing.T) {
	vol := newVolume()

	if err := Write(vol, `\EFI\Boot\seven.log`, []byte("log")); err != nil {
		t.Fatal(err)
	}

	if string(vol.MapFS["EFI/Boot/seven.log"].Data) != "log" {
		t.Fatal("file not written")
	}

	if err := Write(vol, `\EFI\Boot\empty.log`, nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("unexpected error %v", err)
	}

	if err := Write(vol, `\EFI\Boot`, []byte("log")); !errors.Is(err, ErrIsDirectory) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDelete(t *testing.T) {
	vol := newVolume()

	if err := Delete(vol, `\EFI\Boot\seven.conf`); err != nil {
		t.Fatal(err)
	}

	if Exists(vol, `\EFI\Boot\seven.conf`) {
		t.Fatal("file not deleted")
	}

	if err := Delete(vol, `\EFI\Microsoft`); !errors.Is(err, ErrIsDirectory) {
		t.Fatalf("unexpected error %v", err)
	}

	if err := Delete(vol, `\EFI\Boot\seven.conf`); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestChangeExtension(t *testing.T) {
	for _, tt := range []struct {
		path string
		ext  string
		want string
		err  bool
	}{
		{`\EFI\Boot\bootx64.efi`, "log", `\EFI\Boot\bootx64.log`, false},
		{`\EFI\Boot\bootx64.original.efi`, "conf", `\EFI\Boot\bootx64.original.conf`, false},
		{`\EFI\Boot\bootx64.`, "log", `\EFI\Boot\bootx64.log`, false},
		{`\EFI\Boot\bootx64`, "log", "", true},
		{`.efi`, "log", "", true},
		{`\EFI\Boot\bootx64.efi`, "", "", true},
	} {
		got, err := ChangeExtension(tt.path, tt.ext)

		if (err != nil) != tt.err {
			t.Errorf("%q: unexpected error %v", tt.path, err)
			continue
		}

		if got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestEndingSlashIndex(t *testing.T) {
	for _, tt := range []struct {
		path            string
		noSlashPrefixed bool
		want            int
	}{
		{`\EFI\Boot\bootx64.efi`, false, 9},
		{`\EFI\Boot\bootx64.efi`, true, 8},
		{`\EFI\Boot\\bootx64.efi`, true, 8},
		{`bootx64.efi`, false, 0},
		{`\bootx64.efi`, false, 0},
		{`\bootx64.efi`, true, 0},
		{"", false, 0},
	} {
		if got := EndingSlashIndex(tt.path, tt.noSlashPrefixed); got != tt.want {
			t.Errorf("%q/%v: got %d, want %d", tt.path, tt.noSlashPrefixed, got, tt.want)
		}
	}
}

func TestSameDirectory(t *testing.T) {
	for _, tt := range []struct {
		path string
		name string
		want string
		err  bool
	}{
		{`\EFI\Boot\bootx64.efi`, "seven.conf", `\EFI\Boot\seven.conf`, false},
		{`\bootx64.efi`, "seven.conf", `\seven.conf`, false},
		{`bootx64.efi`, "seven.conf", "", true},
		{"", "seven.conf", "", true},
	} {
		got, err := SameDirectory(tt.path, tt.name)

		if (err != nil) != tt.err {
			t.Errorf("%q: unexpected error %v", tt.path, err)
			continue
		}

		if got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestBaseFilename(t *testing.T) {
	for in, want := range map[string]string{
		`\EFI\Boot\bootx64.efi`: "bootx64.efi",
		`bootx64.efi`:           "bootx64.efi",
		`\EFI\Boot\`:            "",
	} {
		if got := BaseFilename(in); got != want {
			t.Errorf("%q: got %q, want %q", in, got, want)
		}
	}
}
