// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type bltCall struct {
	Op                     BltOperation
	SrcX, SrcY, DstX, DstY uint64
	Width, Height, Delta   uint64
}

type fakeGOP struct {
	mode  Mode
	modes []ModeInfo

	modeErr     error
	failSetMode map[uint32]bool
	blts        []bltCall
}

func (g *fakeGOP) CurrentMode() (*Mode, error) {
	if g.modeErr != nil {
		return nil, g.modeErr
	}

	m := g.mode
	return &m, nil
}

func (g *fakeGOP) QueryMode(mode uint32) (*ModeInfo, error) {
	if int(mode) >= len(g.modes) {
		return nil, errors.New("invalid mode")
	}

	mi := g.modes[mode]

	return &mi, nil
}

func (g *fakeGOP) SetMode(mode uint32) error {
	if g.failSetMode[mode] {
		return errors.New("device error")
	}

	mi := g.modes[mode]

	g.mode.Mode = mode
	g.mode.HorizontalResolution = mi.HorizontalResolution
	g.mode.VerticalResolution = mi.VerticalResolution
	g.mode.PixelFormat = mi.PixelFormat
	g.mode.PixelsPerScanLine = mi.PixelsPerScanLine
	g.mode.FrameBufferSize = uint64(mi.PixelsPerScanLine) * uint64(mi.VerticalResolution) * 4

	return nil
}

func (g *fakeGOP) OverrideMode(m *Mode) error {
	g.mode = *m
	return nil
}

func (g *fakeGOP) Blt(buf []byte, op BltOperation, srcX, srcY, dstX, dstY, width, height, delta uint64) error {
	g.blts = append(g.blts, bltCall{op, srcX, srcY, dstX, dstY, width, height, delta})
	return nil
}

type fakeUGA struct {
	width  uint32
	height uint32
	err    error
	blts   []bltCall
}

func (u *fakeUGA) GetMode() (uint32, uint32, error) {
	return u.width, u.height, u.err
}

func (u *fakeUGA) Blt(buf []byte, op BltOperation, srcX, srcY, dstX, dstY, width, height, delta uint64) error {
	u.blts = append(u.blts, bltCall{op, srcX, srcY, dstX, dstY, width, height, delta})
	return nil
}

type fakeConsole struct {
	mode ScreenMode
	sets int
}

func (c *fakeConsole) GetMode() (ScreenMode, error) {
	return c.mode, nil
}

func (c *fakeConsole) SetMode(mode ScreenMode) error {
	c.mode = mode
	c.sets++
	return nil
}

type fakeFirmware struct {
	gop     *fakeGOP
	uga     *fakeUGA
	console *fakeConsole

	clears int
	stalls []time.Duration
}

func (fw *fakeFirmware) GraphicsOutput() (GraphicsOutput, error) {
	if fw.gop == nil {
		return nil, errors.New("not found")
	}

	return fw.gop, nil
}

func (fw *fakeFirmware) UGADraw() (UGADraw, error) {
	if fw.uga == nil {
		return nil, errors.New("not found")
	}

	return fw.uga, nil
}

func (fw *fakeFirmware) ConsoleControl() (ConsoleControl, error) {
	if fw.console == nil {
		return nil, errors.New("not found")
	}

	return fw.console, nil
}

func (fw *fakeFirmware) ClearText() error {
	fw.clears++
	return nil
}

func (fw *fakeFirmware) Stall(d time.Duration) {
	fw.stalls = append(fw.stalls, d)
}

func newGOP() *fakeGOP {
	return &fakeGOP{
		mode: Mode{
			MaxMode:              3,
			Mode:                 0,
			HorizontalResolution: 800,
			VerticalResolution:   600,
			PixelFormat:          PixelBlueGreenRedReserved8BitPerColor,
			PixelsPerScanLine:    800,
			FrameBufferBase:      0x80000000,
			FrameBufferSize:      800 * 600 * 4,
		},
		modes: []ModeInfo{
			{800, 600, PixelBlueGreenRedReserved8BitPerColor, 800},
			{1024, 768, PixelBitMask, 1024},
			{1024, 768, PixelRedGreenBlueReserved8BitPerColor, 1024},
		},
	}
}

func TestInitGOP(t *testing.T) {
	fw := &fakeFirmware{gop: newGOP(), uga: &fakeUGA{width: 640, height: 480}}
	d := New(fw)

	if err := d.EnsureAvailable(); err != nil {
		t.Fatal(err)
	}

	want := Info{
		Initialized:          true,
		AdapterFound:         true,
		Protocol:             GOP,
		HorizontalResolution: 800,
		VerticalResolution:   600,
		PixelFormat:          PixelBlueGreenRedReserved8BitPerColor,
		PixelsPerScanLine:    800,
		FrameBufferBase:      0x80000000,
		FrameBufferSize:      800 * 600 * 4,
	}

	if diff := cmp.Diff(want, d.Info()); diff != "" {
		t.Fatalf("unexpected info (-want +got):\n%s", diff)
	}
}

func TestInitUGA(t *testing.T) {
	d := New(&fakeFirmware{uga: &fakeUGA{width: 1024, height: 768}})

	if err := d.EnsureAvailable(); err != nil {
		t.Fatal(err)
	}

	info := d.Info()

	if info.Protocol != UGA || info.HorizontalResolution != 1024 || info.VerticalResolution != 768 {
		t.Fatalf("unexpected info %+v", info)
	}

	if info.PixelFormat != PixelBlueGreenRedReserved8BitPerColor {
		t.Fatalf("unexpected pixel format %d", info.PixelFormat)
	}
}

func TestInitGOPModeErrorUGA(t *testing.T) {
	gop := newGOP()
	gop.modeErr = errors.New("device error")

	d := New(&fakeFirmware{gop: gop, uga: &fakeUGA{width: 640, height: 480}})

	if err := d.EnsureAvailable(); err != nil {
		t.Fatal(err)
	}

	want := Info{
		Initialized:          true,
		AdapterFound:         true,
		Protocol:             UGA,
		HorizontalResolution: 640,
		VerticalResolution:   480,
		PixelFormat:          PixelBlueGreenRedReserved8BitPerColor,
	}

	if diff := cmp.Diff(want, d.Info()); diff != "" {
		t.Fatalf("unexpected info (-want +got):\n%s", diff)
	}
}

func TestInitNoAdapter(t *testing.T) {
	for name, fw := range map[string]*fakeFirmware{
		"none":      {},
		"uga error": {uga: &fakeUGA{err: errors.New("device error")}},
		"gop error": {gop: &fakeGOP{modeErr: errors.New("device error")}},
	} {
		d := New(fw)

		if err := d.EnsureAvailable(); !errors.Is(err, ErrNoAdapter) {
			t.Errorf("%s: unexpected error %v", name, err)
		}

		if !d.Info().Initialized || d.Info().AdapterFound || d.Info().Protocol != None {
			t.Errorf("%s: unexpected info %+v", name, d.Info())
		}
	}
}

func TestPositionForCenter(t *testing.T) {
	d := New(&fakeFirmware{gop: newGOP()})

	for _, tt := range []struct {
		w, h uint32
		x, y uint32
		err  error
	}{
		{200, 100, 300, 250, nil},
		{800, 600, 0, 0, nil},
		{201, 101, 300, 250, nil},
		{0, 100, 0, 0, ErrInvalidSize},
		{801, 100, 0, 0, ErrInvalidSize},
		{100, 601, 0, 0, ErrInvalidSize},
	} {
		x, y, err := d.PositionForCenter(tt.w, tt.h)

		if !errors.Is(err, tt.err) {
			t.Errorf("%dx%d: unexpected error %v", tt.w, tt.h, err)
			continue
		}

		if err == nil && (x != tt.x || y != tt.y) {
			t.Errorf("%dx%d: got %d,%d, want %d,%d", tt.w, tt.h, x, y, tt.x, tt.y)
		}
	}

	if _, _, err := New(&fakeFirmware{}).PositionForCenter(10, 10); !errors.Is(err, ErrNoAdapter) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSwitchVideoMode(t *testing.T) {
	fw := &fakeFirmware{gop: newGOP()}
	d := New(fw)

	// mode 1 matches the resolution but not the pixel format
	if err := d.SwitchVideoMode(1024, 768); err != nil {
		t.Fatal(err)
	}

	if fw.gop.mode.Mode != 2 {
		t.Fatalf("unexpected mode %d", fw.gop.mode.Mode)
	}

	if !d.MatchCurrentResolution(1024, 768) {
		t.Fatalf("resolution not refreshed, %+v", d.Info())
	}

	if d.Info().FrameBufferSize != 1024*768*4 {
		t.Fatalf("frame buffer not refreshed, %+v", d.Info())
	}

	if fw.clears != 1 {
		t.Fatalf("text screen cleared %d times", fw.clears)
	}

	if err := d.SwitchVideoMode(1280, 1024); !errors.Is(err, ErrModeNotFound) {
		t.Fatalf("unexpected error %v", err)
	}

	if err := d.SwitchVideoMode(0, 768); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSwitchVideoModeFailure(t *testing.T) {
	gop := newGOP()
	gop.failSetMode = map[uint32]bool{2: true}
	d := New(&fakeFirmware{gop: gop})

	if err := d.SwitchVideoMode(1024, 768); err == nil || errors.Is(err, ErrModeNotFound) {
		t.Fatalf("unexpected error %v", err)
	}

	if !d.MatchCurrentResolution(800, 600) {
		t.Fatalf("unexpected resolution %+v", d.Info())
	}
}

func TestSwitchVideoModeUGA(t *testing.T) {
	d := New(&fakeFirmware{uga: &fakeUGA{width: 800, height: 600}})

	if err := d.SwitchVideoMode(1024, 768); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("unexpected error %v", err)
	}

	if err := d.ForceVideoModeHack(1024, 768); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestForceVideoModeHack(t *testing.T) {
	fw := &fakeFirmware{gop: newGOP()}
	d := New(fw)

	if err := d.ForceVideoModeHack(1024, 768); err != nil {
		t.Fatal(err)
	}

	want := Mode{
		MaxMode:              3,
		HorizontalResolution: 1024,
		VerticalResolution:   768,
		PixelFormat:          PixelBlueGreenRedReserved8BitPerColor,
		PixelsPerScanLine:    1600,
		FrameBufferBase:      0x80000000,
		FrameBufferSize:      1600 * 768 * 4,
	}

	if diff := cmp.Diff(want, fw.gop.mode); diff != "" {
		t.Fatalf("unexpected mode (-want +got):\n%s", diff)
	}

	if info := d.Info(); info.PixelsPerScanLine != 1600 || !d.MatchCurrentResolution(1024, 768) {
		t.Fatalf("info not refreshed, %+v", info)
	}

	if fw.clears != 1 {
		t.Fatalf("text screen cleared %d times", fw.clears)
	}

	if err := d.ForceVideoModeHack(1024, 0); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestForcedGeometry(t *testing.T) {
	for _, tt := range []struct {
		ppsl, w, h uint32
		newPPSL    uint32
		size       uint64
	}{
		{1024, 1024, 768, 1024, 1024 * 768 * 4},
		{800, 1024, 768, 1600, 1600 * 768 * 4},
		{1536, 1024, 768, 1536, 1536 * 768 * 4},
		{400, 1024, 768, 1200, 1200 * 768 * 4},
	} {
		ppsl, size := forcedGeometry(tt.ppsl, tt.w, tt.h)

		if ppsl != tt.newPPSL || size != tt.size {
			t.Errorf("%d/%dx%d: got %d/%d, want %d/%d", tt.ppsl, tt.w, tt.h, ppsl, size, tt.newPPSL, tt.size)
		}
	}
}

func TestMatchCurrentResolution(t *testing.T) {
	d := New(&fakeFirmware{gop: newGOP()})

	if !d.MatchCurrentResolution(800, 600) {
		t.Fatal("current resolution not matched")
	}

	if d.MatchCurrentResolution(0, 0) || d.MatchCurrentResolution(1024, 768) {
		t.Fatal("unexpected match")
	}

	if New(&fakeFirmware{}).MatchCurrentResolution(800, 600) {
		t.Fatal("unexpected match without adapter")
	}
}

func TestVideoInfo(t *testing.T) {
	var buf bytes.Buffer

	d := New(&fakeFirmware{gop: newGOP()})

	if err := d.VideoInfo(&buf); err != nil {
		t.Fatal(err)
	}

	out := buf.String()

	for _, s := range []string{"GOP", "800x600", "MaxMode = 3", "mode  2: 1024x768"} {
		if !strings.Contains(out, s) {
			t.Errorf("missing %q in:\n%s", s, out)
		}
	}
}
