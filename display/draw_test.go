// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package display

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClearScreen(t *testing.T) {
	fw := &fakeFirmware{gop: newGOP(), console: &fakeConsole{mode: ScreenText}}
	d := New(fw)

	if err := d.ClearScreen(); err != nil {
		t.Fatal(err)
	}

	want := []bltCall{
		{Op: VideoFill, Width: 800, Height: 600},
	}

	if diff := cmp.Diff(want, fw.gop.blts); diff != "" {
		t.Fatalf("unexpected blt (-want +got):\n%s", diff)
	}

	if fw.console.mode != ScreenGraphics {
		t.Fatal("console not switched to graphics")
	}
}

func TestDrawImage(t *testing.T) {
	fw := &fakeFirmware{gop: newGOP()}
	d := New(fw)
	img, _ := NewImage(100, 50)

	if err := d.DrawImage(img, 20, 10, 5, 6, 7, 8); err != nil {
		t.Fatal(err)
	}

	// not drawn: outside of screen or image, empty area
	d.DrawImage(img, 100, 50, 701, 0, 0, 0)
	d.DrawImage(img, 100, 50, 0, 551, 0, 0)
	d.DrawImage(img, 20, 10, 0, 0, 81, 0)
	d.DrawImage(img, 0, 10, 0, 0, 0, 0)
	d.DrawImage(nil, 20, 10, 0, 0, 0, 0)

	want := []bltCall{
		{BufferToVideo, 7, 8, 5, 6, 20, 10, 400},
	}

	if diff := cmp.Diff(want, fw.gop.blts); diff != "" {
		t.Fatalf("unexpected blt (-want +got):\n%s", diff)
	}
}

func TestDrawNoAdapter(t *testing.T) {
	d := New(&fakeFirmware{})
	img, _ := NewImage(10, 10)

	if err := d.DrawImage(img, 10, 10, 0, 0, 0, 0); !errors.Is(err, ErrNoAdapter) {
		t.Errorf("DrawImage: unexpected error %v", err)
	}

	if err := d.DrawImageCentered(img); !errors.Is(err, ErrNoAdapter) {
		t.Errorf("DrawImageCentered: unexpected error %v", err)
	}

	if err := d.ClearScreen(); !errors.Is(err, ErrNoAdapter) {
		t.Errorf("ClearScreen: unexpected error %v", err)
	}
}

func TestDrawImageUGA(t *testing.T) {
	fw := &fakeFirmware{uga: &fakeUGA{width: 640, height: 480}}
	d := New(fw)
	img, _ := NewImage(40, 20)

	if err := d.DrawImageCentered(img); err != nil {
		t.Fatal(err)
	}

	want := []bltCall{
		{BufferToVideo, 0, 0, 300, 230, 40, 20, 160},
	}

	if diff := cmp.Diff(want, fw.uga.blts); diff != "" {
		t.Fatalf("unexpected blt (-want +got):\n%s", diff)
	}
}

func TestAnimateImage(t *testing.T) {
	for _, tt := range []struct {
		name string
		w, h uint32
		want []bltCall
	}{
		{
			name: "square",
			w:    100, h: 100,
			want: []bltCall{{BufferToVideo, 0, 0, 350, 250, 100, 100, 400}},
		},
		{
			name: "horizontal",
			w:    300, h: 100,
			want: []bltCall{
				{BufferToVideo, 0, 0, 350, 250, 100, 100, 1200},
				{BufferToVideo, 100, 0, 350, 250, 100, 100, 1200},
				{BufferToVideo, 200, 0, 350, 250, 100, 100, 1200},
			},
		},
		{
			name: "vertical",
			w:    100, h: 250,
			want: []bltCall{
				{BufferToVideo, 0, 0, 350, 250, 100, 100, 400},
				{BufferToVideo, 0, 100, 350, 250, 100, 100, 400},
			},
		},
	} {
		fw := &fakeFirmware{gop: newGOP()}
		img, _ := NewImage(tt.w, tt.h)

		if err := New(fw).AnimateImage(img); err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}

		if diff := cmp.Diff(tt.want, fw.gop.blts); diff != "" {
			t.Errorf("%s: unexpected blt (-want +got):\n%s", tt.name, diff)
		}

		if tt.w != tt.h && len(fw.stalls) != len(tt.want) {
			t.Errorf("%s: unexpected stalls %v", tt.name, fw.stalls)
		}

		for _, s := range fw.stalls {
			if s != FrameDelay {
				t.Errorf("%s: unexpected frame delay %v", tt.name, s)
			}
		}
	}
}

func TestSwitchMode(t *testing.T) {
	cc := &fakeConsole{mode: ScreenText}
	d := New(&fakeFirmware{console: cc})

	d.SwitchToText(false)

	if cc.sets != 0 {
		t.Fatal("mode set while already in text")
	}

	d.SwitchToText(true)

	if cc.sets != 1 {
		t.Fatal("forced mode not set")
	}

	d.SwitchToGraphics(false)

	if cc.sets != 2 || cc.mode != ScreenGraphics {
		t.Fatal("graphics mode not set")
	}

	// no console control
	New(&fakeFirmware{}).SwitchToGraphics(true)
}
