// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago

package display

import (
	"time"

	"github.com/usbarmory/seven-boot/uefi"
)

// UEFI implements [Firmware] over EFI Boot Services.
type UEFI struct {
	Services *uefi.Services
}

type graphicsOutput struct {
	gop *uefi.GraphicsOutput
}

func (g *graphicsOutput) CurrentMode() (*Mode, error) {
	pm, info, err := g.gop.CurrentMode()

	if err != nil {
		return nil, err
	}

	return &Mode{
		MaxMode:              pm.MaxMode,
		Mode:                 pm.Mode,
		HorizontalResolution: info.HorizontalResolution,
		VerticalResolution:   info.VerticalResolution,
		PixelFormat:          info.PixelFormat,
		PixelsPerScanLine:    info.PixelsPerScanLine,
		FrameBufferBase:      pm.FrameBufferBase,
		FrameBufferSize:      pm.FrameBufferSize,
	}, nil
}

func (g *graphicsOutput) QueryMode(mode uint32) (*ModeInfo, error) {
	info, err := g.gop.QueryMode(mode)

	if err != nil {
		return nil, err
	}

	return &ModeInfo{
		HorizontalResolution: info.HorizontalResolution,
		VerticalResolution:   info.VerticalResolution,
		PixelFormat:          info.PixelFormat,
		PixelsPerScanLine:    info.PixelsPerScanLine,
	}, nil
}

func (g *graphicsOutput) SetMode(mode uint32) error {
	return g.gop.SetMode(mode)
}

func (g *graphicsOutput) OverrideMode(m *Mode) error {
	pm, info, err := g.gop.CurrentMode()

	if err != nil {
		return err
	}

	info.HorizontalResolution = m.HorizontalResolution
	info.VerticalResolution = m.VerticalResolution
	info.PixelsPerScanLine = m.PixelsPerScanLine
	pm.FrameBufferSize = m.FrameBufferSize

	return g.gop.OverrideMode(pm, info)
}

func (g *graphicsOutput) Blt(buf []byte, op BltOperation, srcX, srcY, dstX, dstY, width, height, delta uint64) error {
	return g.gop.Blt(buf, uefi.BltOperation(op), srcX, srcY, dstX, dstY, width, height, delta)
}

type ugaDraw struct {
	uga *uefi.UGADraw
}

func (u *ugaDraw) GetMode() (width uint32, height uint32, err error) {
	width, height, _, _, err = u.uga.GetMode()
	return
}

func (u *ugaDraw) Blt(buf []byte, op BltOperation, srcX, srcY, dstX, dstY, width, height, delta uint64) error {
	return u.uga.Blt(buf, uefi.BltOperation(op), srcX, srcY, dstX, dstY, width, height, delta)
}

type consoleControl struct {
	cc *uefi.ConsoleControl
}

func (c *consoleControl) GetMode() (ScreenMode, error) {
	mode, err := c.cc.GetMode()
	return ScreenMode(mode), err
}

func (c *consoleControl) SetMode(mode ScreenMode) error {
	return c.cc.SetMode(uefi.ScreenMode(mode))
}

// GraphicsOutput implements [Firmware.GraphicsOutput].
func (fw *UEFI) GraphicsOutput() (GraphicsOutput, error) {
	gop, err := fw.Services.Boot.GetGraphicsOutput()

	if err != nil {
		return nil, err
	}

	return &graphicsOutput{gop: gop}, nil
}

// UGADraw implements [Firmware.UGADraw].
func (fw *UEFI) UGADraw() (UGADraw, error) {
	uga, err := fw.Services.Boot.GetUGADraw()

	if err != nil {
		return nil, err
	}

	return &ugaDraw{uga: uga}, nil
}

// ConsoleControl implements [Firmware.ConsoleControl].
func (fw *UEFI) ConsoleControl() (ConsoleControl, error) {
	cc, err := fw.Services.Boot.GetConsoleControl()

	if err != nil {
		return nil, err
	}

	return &consoleControl{cc: cc}, nil
}

// ClearText implements [Firmware.ClearText].
func (fw *UEFI) ClearText() error {
	return fw.Services.Console.ClearScreen()
}

// Stall implements [Firmware.Stall].
func (fw *UEFI) Stall(d time.Duration) {
	fw.Services.Boot.Stall(d)
}
