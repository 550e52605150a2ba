// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package display

import (
	"time"
)

// BltOperation represents a block transfer operation
// (EFI_GRAPHICS_OUTPUT_BLT_OPERATION, EFI_UGA_BLT_OPERATION).
type BltOperation int

const (
	VideoFill BltOperation = iota
	VideoToBuffer
	BufferToVideo
	VideoToVideo
)

// ScreenMode represents a console screen mode
// (EFI_CONSOLE_CONTROL_SCREEN_MODE).
type ScreenMode int

const (
	ScreenText ScreenMode = iota
	ScreenGraphics
)

// Mode represents the current GOP video mode.
type Mode struct {
	MaxMode uint32
	Mode    uint32

	HorizontalResolution uint32
	VerticalResolution   uint32
	PixelFormat          uint32
	PixelsPerScanLine    uint32

	FrameBufferBase uint64
	FrameBufferSize uint64
}

// ModeInfo represents the information of a queried GOP video mode.
type ModeInfo struct {
	HorizontalResolution uint32
	VerticalResolution   uint32
	PixelFormat          uint32
	PixelsPerScanLine    uint32
}

// GraphicsOutput represents a Graphics Output Protocol adapter.
type GraphicsOutput interface {
	// CurrentMode returns the current video mode.
	CurrentMode() (*Mode, error)
	// QueryMode returns information on the argument video mode.
	QueryMode(mode uint32) (*ModeInfo, error)
	// SetMode switches to the argument video mode.
	SetMode(mode uint32) error
	// OverrideMode replaces the geometry of the current video mode as
	// reported by the adapter.
	OverrideMode(m *Mode) error
	// Blt performs a block transfer of 32-bit BGRX pixels.
	Blt(buf []byte, op BltOperation, srcX, srcY, dstX, dstY, width, height, delta uint64) error
}

// UGADraw represents a Universal Graphics Adapter.
type UGADraw interface {
	// GetMode returns the current resolution.
	GetMode() (width uint32, height uint32, err error)
	// Blt performs a block transfer of 32-bit BGRX pixels.
	Blt(buf []byte, op BltOperation, srcX, srcY, dstX, dstY, width, height, delta uint64) error
}

// ConsoleControl represents a console able to switch between text and
// graphics screen modes.
type ConsoleControl interface {
	GetMode() (ScreenMode, error)
	SetMode(mode ScreenMode) error
}

// Firmware represents the services required to drive a display.
type Firmware interface {
	// GraphicsOutput returns the GOP adapter of the console output, or
	// any other located one.
	GraphicsOutput() (GraphicsOutput, error)
	// UGADraw returns the UGA adapter of the console output, or any
	// other located one.
	UGADraw() (UGADraw, error)
	// ConsoleControl returns the console screen mode controller.
	ConsoleControl() (ConsoleControl, error)
	// ClearText clears the text console.
	ClearText() error
	// Stall waits for the argument duration.
	Stall(d time.Duration)
}
