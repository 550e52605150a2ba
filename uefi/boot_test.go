// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"testing"
)

func TestPages(t *testing.T) {
	for size, want := range map[int]uint64{
		-1:           0,
		0:            0,
		1:            1,
		PageSize:     1,
		PageSize + 1: 2,
		3 * PageSize: 3,
	} {
		if got := Pages(size); got != want {
			t.Errorf("%d: got %d, want %d", size, got, want)
		}
	}
}

func TestMemoryTypeName(t *testing.T) {
	if got := MemoryTypeName(EfiLoaderCode); got != "LoaderCode" {
		t.Errorf("got %q", got)
	}

	if got := MemoryTypeName(EfiUnacceptedMemoryType); got != "Unaccepted" {
		t.Errorf("got %q", got)
	}

	if got := MemoryTypeName(0x70000000); got != "0x70000000" {
		t.Errorf("got %q", got)
	}
}

func TestParseResetType(t *testing.T) {
	for name, want := range map[string]ResetType{
		"":         EfiResetWarm,
		"warm":     EfiResetWarm,
		"COLD":     EfiResetCold,
		"shutdown": EfiResetShutdown,
	} {
		got, err := ParseResetType(name)

		if err != nil {
			t.Fatalf("%q: %v", name, err)
		}

		if got != want {
			t.Errorf("%q: got %v, want %v", name, got, want)
		}
	}

	if _, err := ParseResetType("hot"); err == nil {
		t.Fatal("invalid reset type accepted")
	}

	if s := EfiResetShutdown.String(); s != "shutdown" {
		t.Errorf("got %q", s)
	}

	if s := EfiResetPlatformSpecific.String(); s != "3" {
		t.Errorf("got %q", s)
	}
}
