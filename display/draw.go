// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package display

func (d *Display) blt(buf []byte, op BltOperation, srcX, srcY, dstX, dstY, width, height, delta uint32) error {
	var b func([]byte, BltOperation, uint64, uint64, uint64, uint64, uint64, uint64, uint64) error

	switch d.info.Protocol {
	case GOP:
		b = d.gop.Blt
	case UGA:
		b = d.uga.Blt
	default:
		return ErrNoAdapter
	}

	return b(buf, op,
		uint64(srcX), uint64(srcY),
		uint64(dstX), uint64(dstY),
		uint64(width), uint64(height),
		uint64(delta),
	)
}

// ClearScreen fills the screen in black.
func (d *Display) ClearScreen() (err error) {
	if err = d.EnsureAvailable(); err != nil {
		debugf("no display adapters found, unable to clear screen")
		return
	}

	d.SwitchToGraphics(false)

	fill := make([]byte, bytesPerPixel)

	return d.blt(fill, VideoFill, 0, 0, 0, 0, d.info.HorizontalResolution, d.info.VerticalResolution, 0)
}

// DrawImage draws the area of the argument image starting at (spriteX,
// spriteY), with the argument size, at the (screenX, screenY) screen
// position. Areas not fitting the screen or the image are not drawn,
// ErrNoAdapter is returned when no display adapter is available.
func (d *Display) DrawImage(img *Image, width, height, screenX, screenY, spriteX, spriteY uint32) (err error) {
	if err = d.EnsureAvailable(); err != nil {
		debugf("no display adapters found, unable to draw image")
		return
	}

	if img == nil || width == 0 || height == 0 {
		debugf("no image to draw")
		return
	}

	if uint64(screenX)+uint64(width) > uint64(d.info.HorizontalResolution) ||
		uint64(screenY)+uint64(height) > uint64(d.info.VerticalResolution) {
		debugf("image too big to draw on screen")
		return
	}

	if uint64(spriteX)+uint64(width) > uint64(img.Width) ||
		uint64(spriteY)+uint64(height) > uint64(img.Height) {
		debugf("sprite outside of image")
		return
	}

	d.SwitchToGraphics(false)

	return d.blt(img.Pixels, BufferToVideo, spriteX, spriteY, screenX, screenY, width, height, img.Stride())
}

// DrawImageCentered draws the argument image at the center of the screen.
func (d *Display) DrawImageCentered(img *Image) (err error) {
	if img == nil {
		return
	}

	if err = d.EnsureAvailable(); err != nil {
		debugf("no display adapters found, unable to draw centered image")
		return
	}

	x, y, err := d.PositionForCenter(img.Width, img.Height)

	if err != nil {
		return
	}

	return d.DrawImage(img, img.Width, img.Height, x, y, 0, 0)
}

// AnimateImage draws at the center of the screen each square frame of an
// animation strip. Wide images hold frames left-to-right, tall images
// top-to-bottom, square images are drawn once.
func (d *Display) AnimateImage(img *Image) (err error) {
	if img == nil {
		return
	}

	if img.Width == img.Height {
		return d.DrawImageCentered(img)
	}

	size := min(img.Width, img.Height)
	frames := max(img.Width, img.Height) / size

	x, y, err := d.PositionForCenter(size, size)

	if err != nil {
		return
	}

	for frame := uint32(0); frame < frames; frame++ {
		var spriteX, spriteY uint32

		if img.Width > img.Height {
			spriteX = frame * size
		} else {
			spriteY = frame * size
		}

		if err = d.DrawImage(img, size, size, x, y, spriteX, spriteY); err != nil {
			return
		}

		d.fw.Stall(FrameDelay)
	}

	return
}

func (d *Display) switchToMode(mode ScreenMode, force bool) {
	if mode != ScreenText && mode != ScreenGraphics {
		return
	}

	cc, err := d.fw.ConsoleControl()

	if err != nil {
		return
	}

	current, err := cc.GetMode()

	if force || (err == nil && current != mode) {
		cc.SetMode(mode)
	}
}

// SwitchToText switches the console to text mode, when forced or not
// already in it.
func (d *Display) SwitchToText(force bool) {
	d.switchToMode(ScreenText, force)
}

// SwitchToGraphics switches the console to graphics mode, when forced or not
// already in it.
func (d *Display) SwitchToGraphics(force bool) {
	d.switchToMode(ScreenGraphics, force)
}
