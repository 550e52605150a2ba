// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package display implements graphics adapter detection, video mode
// switching and bitmap drawing over the EFI Graphics Output Protocol (GOP)
// or, on older firmware, the Universal Graphics Adapter (UGA) Draw protocol.
//
// Legacy operating system loaders expect a VESA compatible frame buffer,
// the package therefore also allows to override the geometry reported by the
// adapter to match the resolution those loaders require.
package display

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"
)

// Debug enables verbose logging.
var Debug bool

// FrameDelay is the time each animation frame is shown.
const FrameDelay = 20 * time.Millisecond

// Protocol represents the graphics protocol used to drive the adapter.
type Protocol int

const (
	None Protocol = iota
	GOP
	UGA
)

func (p Protocol) String() string {
	switch p {
	case GOP:
		return "GOP"
	case UGA:
		return "UGA"
	default:
		return "none"
	}
}

// Pixel formats (EFI_GRAPHICS_PIXEL_FORMAT)
const (
	PixelRedGreenBlueReserved8BitPerColor = iota
	PixelBlueGreenRedReserved8BitPerColor
	PixelBitMask
	PixelBltOnly
)

var (
	ErrNoAdapter     = errors.New("no display adapter found")
	ErrUnsupported   = errors.New("not supported by the display adapter")
	ErrInvalidSize   = errors.New("invalid size")
	ErrModeNotFound  = errors.New("video mode not found")
	ErrInvalidImage  = errors.New("invalid image")
	ErrImageTooLarge = errors.New("image larger than screen")
)

// Info represents the detected adapter and its current video mode.
type Info struct {
	Initialized  bool
	AdapterFound bool
	Protocol     Protocol

	HorizontalResolution uint32
	VerticalResolution   uint32
	PixelFormat          uint32
	PixelsPerScanLine    uint32
	FrameBufferBase      uint64
	FrameBufferSize      uint64
}

// Display represents a graphics adapter, it is lazily initialized on first
// use.
type Display struct {
	fw   Firmware
	info Info

	gop GraphicsOutput
	uga UGADraw
}

// New returns a display instance for the argument firmware.
func New(fw Firmware) *Display {
	return &Display{
		fw: fw,
	}
}

func debugf(format string, v ...any) {
	if Debug {
		log.Printf(format, v...)
	}
}

// Info returns the current adapter information.
func (d *Display) Info() Info {
	return d.info
}

// refresh updates the adapter information from the current GOP mode.
func (d *Display) refresh() (err error) {
	m, err := d.gop.CurrentMode()

	if err != nil {
		return fmt.Errorf("could not get current mode, %v", err)
	}

	d.info.HorizontalResolution = m.HorizontalResolution
	d.info.VerticalResolution = m.VerticalResolution
	d.info.PixelFormat = m.PixelFormat
	d.info.PixelsPerScanLine = m.PixelsPerScanLine
	d.info.FrameBufferBase = m.FrameBufferBase
	d.info.FrameBufferSize = m.FrameBufferSize

	return
}

// Init scans for a GOP adapter first and a UGA one if none is found or its
// mode cannot be read, the current video mode of the detected adapter is
// retained.
func (d *Display) Init() (err error) {
	d.info = Info{}
	d.gop = nil
	d.uga = nil

	defer func() {
		if !d.info.AdapterFound {
			log.Printf("no display adapters found")
		}

		d.info.Initialized = true
	}()

	if d.gop, err = d.fw.GraphicsOutput(); err == nil {
		debugf("found a GOP display adapter")

		if err = d.refresh(); err == nil {
			d.info.Protocol = GOP
			d.info.AdapterFound = true
			return
		}

		log.Printf("unable to get current GOP mode, %v", err)
		d.info = Info{}
	} else {
		debugf("GOP display adapter not found")
	}

	d.gop = nil

	if d.uga, err = d.fw.UGADraw(); err != nil {
		d.uga = nil
		debugf("UGA display adapter not found")
		return ErrNoAdapter
	}

	debugf("found a UGA display adapter")

	w, h, err := d.uga.GetMode()

	if err != nil {
		log.Printf("unable to get current UGA mode, %v", err)
		d.uga = nil
		return
	}

	debugf("received current UGA mode information")

	d.info.HorizontalResolution = w
	d.info.VerticalResolution = h
	d.info.PixelFormat = PixelBlueGreenRedReserved8BitPerColor
	d.info.Protocol = UGA
	d.info.AdapterFound = true

	return
}

// EnsureAvailable initializes the display, if not already done, and returns
// an error unless an adapter was found.
func (d *Display) EnsureAvailable() error {
	if !d.info.Initialized {
		d.Init()
	}

	if !d.info.AdapterFound || d.info.Protocol == None {
		return ErrNoAdapter
	}

	return nil
}

// PositionForCenter returns the screen coordinates of the top left corner
// of an image of the argument size centered at the current resolution.
func (d *Display) PositionForCenter(width, height uint32) (x uint32, y uint32, err error) {
	if err = d.EnsureAvailable(); err != nil {
		debugf("no display adapters found, unable to calculate centered position")
		return
	}

	hr := d.info.HorizontalResolution
	vr := d.info.VerticalResolution

	if width == 0 || height == 0 || width > hr || height > vr {
		debugf("wrong image size (%dx%d) for this screen resolution (%dx%d)", width, height, hr, vr)
		return 0, 0, ErrInvalidSize
	}

	x = hr/2 - width/2
	y = vr/2 - height/2

	if x+width > hr {
		x = hr - width
	}

	if y+height > vr {
		y = vr - height
	}

	return
}

func (d *Display) requireGOP() error {
	if err := d.EnsureAvailable(); err != nil {
		debugf("no display adapters found, unable to switch video mode")
		return err
	}

	if d.info.Protocol != GOP {
		log.Printf("video mode switching is not supported on UGA display adapters")
		return ErrUnsupported
	}

	return nil
}

// SwitchVideoMode switches to the first GOP video mode matching the
// argument resolution with a 32-bit RGB or BGR pixel format.
func (d *Display) SwitchVideoMode(width, height uint32) (err error) {
	if width == 0 || height == 0 {
		return ErrInvalidSize
	}

	if err = d.requireGOP(); err != nil {
		return
	}

	m, err := d.gop.CurrentMode()

	if err != nil {
		return
	}

	match := false
	err = ErrModeNotFound

	for i := uint32(0); i < m.MaxMode; i++ {
		mi, e := d.gop.QueryMode(i)

		if e != nil || mi.HorizontalResolution != width || mi.VerticalResolution != height {
			continue
		}

		if mi.PixelFormat != PixelBlueGreenRedReserved8BitPerColor &&
			mi.PixelFormat != PixelRedGreenBlueReserved8BitPerColor {
			continue
		}

		match = true

		if err = d.gop.SetMode(i); err != nil {
			log.Printf("failed to switch to mode %d with desired %dx%d resolution, %v", i, width, height, err)
			continue
		}

		debugf("set mode %d with desired %dx%d resolution", i, width, height)
		break
	}

	if e := d.refresh(); e != nil && err == nil {
		err = e
	}

	d.fw.ClearText()

	if !match {
		log.Printf("resolution %dx%d not supported", width, height)
	}

	return
}

// ForceVideoModeHack rewrites the geometry reported by the GOP adapter to
// the argument resolution without changing the actual video mode. The scan
// line is widened by an integer factor so that it holds the new width, the
// frame buffer size follows.
func (d *Display) ForceVideoModeHack(width, height uint32) (err error) {
	if width == 0 || height == 0 {
		return ErrInvalidSize
	}

	if err = d.requireGOP(); err != nil {
		return
	}

	m, err := d.gop.CurrentMode()

	if err != nil {
		return
	}

	pixelsPerScanLine, frameBufferSize := forcedGeometry(m.PixelsPerScanLine, width, height)

	debugf("forcing %dx%d (scan line %d -> %d, frame buffer %d -> %d)",
		width, height, m.PixelsPerScanLine, pixelsPerScanLine, m.FrameBufferSize, frameBufferSize)

	m.HorizontalResolution = width
	m.VerticalResolution = height
	m.PixelsPerScanLine = pixelsPerScanLine
	m.FrameBufferSize = frameBufferSize

	if err = d.gop.OverrideMode(m); err != nil {
		return fmt.Errorf("could not override mode, %v", err)
	}

	if err = d.refresh(); err != nil {
		return
	}

	d.fw.ClearText()

	return
}

// forcedGeometry returns the scan line length, as the smallest multiple of
// the original one holding the argument width, and the resulting 32-bit
// frame buffer size.
func forcedGeometry(pixelsPerScanLine, width, height uint32) (uint32, uint64) {
	scale := uint32(1)

	if pixelsPerScanLine == 0 {
		pixelsPerScanLine = width
	}

	for pixelsPerScanLine*scale < width {
		scale++
	}

	ppsl := pixelsPerScanLine * scale

	return ppsl, uint64(ppsl) * uint64(height) * 4
}

// VideoInfo prints the current video mode and, for GOP adapters, all
// available ones.
func (d *Display) VideoInfo(w io.Writer) (err error) {
	if err = d.EnsureAvailable(); err != nil {
		return
	}

	fmt.Fprintf(w, "Adapter ..............: %s\n", d.info.Protocol)
	fmt.Fprintf(w, "Resolution ...........: %dx%d\n", d.info.HorizontalResolution, d.info.VerticalResolution)
	fmt.Fprintf(w, "PixelFormat ..........: %d\n", d.info.PixelFormat)
	fmt.Fprintf(w, "PixelsPerScanLine ....: %d\n", d.info.PixelsPerScanLine)
	fmt.Fprintf(w, "FrameBuffer ..........: %#x (%d bytes)\n", d.info.FrameBufferBase, d.info.FrameBufferSize)

	if d.info.Protocol != GOP {
		return
	}

	m, err := d.gop.CurrentMode()

	if err != nil {
		return
	}

	fmt.Fprintf(w, "Available modes (MaxMode = %d):\n", m.MaxMode)

	for i := uint32(0); i < m.MaxMode; i++ {
		mi, err := d.gop.QueryMode(i)

		if err != nil {
			continue
		}

		current := ""

		if i == m.Mode {
			current = " *"
		}

		fmt.Fprintf(w, "  mode %2d: %dx%d%s\n", i, mi.HorizontalResolution, mi.VerticalResolution, current)
	}

	return nil
}

// MatchCurrentResolution reports whether the current resolution matches the
// argument one.
func (d *Display) MatchCurrentResolution(width, height uint32) bool {
	if width == 0 || height == 0 {
		return false
	}

	if err := d.EnsureAvailable(); err != nil {
		debugf("no display adapters found, unable to match resolution")
		return false
	}

	return d.info.HorizontalResolution == width && d.info.VerticalResolution == height
}
