// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package display

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/bmp"
)

const (
	bytesPerPixel = 4

	bmpHeaderSize = 54
	bmpSignature  = "BM"
)

// Image represents an in-memory bitmap of 32-bit BGRX pixels, in the format
// expected by GOP and UGA block transfers.
type Image struct {
	Width  uint32
	Height uint32
	Pixels []byte
}

// NewImage returns a zero filled image of the argument size.
func NewImage(width, height uint32) (*Image, error) {
	if width == 0 || height == 0 {
		return nil, ErrInvalidSize
	}

	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]byte, int(width)*int(height)*bytesPerPixel),
	}, nil
}

// Stride returns the length in bytes of an image row.
func (img *Image) Stride() uint32 {
	return img.Width * bytesPerPixel
}

// ColorModel implements [image.Image].
func (img *Image) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements [image.Image].
func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(img.Width), int(img.Height))
}

// At implements [image.Image].
func (img *Image) At(x, y int) color.Color {
	if !image.Pt(x, y).In(img.Bounds()) {
		return color.RGBA{}
	}

	off := (y*int(img.Width) + x) * bytesPerPixel
	p := img.Pixels[off : off+bytesPerPixel]

	return color.RGBA{R: p[2], G: p[1], B: p[0], A: 0xff}
}

// FromImage converts the argument image to a BGRX bitmap, the alpha channel
// is discarded.
func FromImage(src image.Image) (img *Image, err error) {
	b := src.Bounds()

	if img, err = NewImage(uint32(b.Dx()), uint32(b.Dy())); err != nil {
		return
	}

	off := 0

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(src.At(x, y)).(color.RGBA)

			img.Pixels[off+0] = c.B
			img.Pixels[off+1] = c.G
			img.Pixels[off+2] = c.R
			img.Pixels[off+3] = 0

			off += bytesPerPixel
		}
	}

	return
}

// bmpHeader represents the BMP file header followed by a
// BITMAPINFOHEADER.
type bmpHeader struct {
	Signature       [2]byte
	Size            uint32
	Reserved        [2]uint16
	PixelDataOffset uint32
	HeaderSize      uint32
	Width           uint32
	Height          uint32
	Planes          uint16
	BitPerPixel     uint16
	CompressionType uint32
	ImageSize       uint32
	XPixelsPerMeter uint32
	YPixelsPerMeter uint32
	NumberOfColors  uint32
	ImportantColors uint32
}

// DecodeBMP converts an uncompressed 24-bit bottom-up BMP file to an image.
// This is the only format understood by legacy boot screens.
func DecodeBMP(data []byte) (img *Image, err error) {
	hdr := &bmpHeader{}

	if len(data) < bmpHeaderSize {
		debugf("file too small or does not exist")
		return nil, fmt.Errorf("%w, file too small", ErrInvalidImage)
	}

	if _, err = binary.Decode(data[0:bmpHeaderSize], binary.LittleEndian, hdr); err != nil {
		return
	}

	if string(hdr.Signature[:]) != bmpSignature ||
		hdr.CompressionType != 0 ||
		hdr.BitPerPixel != 24 ||
		hdr.Width < 1 ||
		hdr.Height < 1 {
		return nil, fmt.Errorf("%w, only uncompressed 24-bit BMP files are supported", ErrInvalidImage)
	}

	// rows are padded to a multiple of 4 bytes
	lineSize := uint64(hdr.Width) * 3
	lineSize += (4 - lineSize%4) % 4

	if need := uint64(hdr.PixelDataOffset) + uint64(hdr.Height)*lineSize; need > uint64(len(data)) {
		debugf("not enough pixel data (%d bytes, expected %d)", len(data), need)
		return nil, fmt.Errorf("%w, not enough pixel data", ErrInvalidImage)
	}

	if img, err = NewImage(hdr.Width, hdr.Height); err != nil {
		return
	}

	line := uint64(hdr.PixelDataOffset)

	// pixel rows are bottom-to-top, but left-to-right
	for y := uint64(0); y < uint64(hdr.Height); y++ {
		src := data[line : line+lineSize]
		dst := img.Pixels[(uint64(hdr.Height)-y-1)*uint64(img.Stride()):]

		for x := uint64(0); x < uint64(hdr.Width); x++ {
			dst[x*4+0] = src[x*3+0]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0
		}

		line += lineSize
	}

	debugf("imported image size %dx%d from bmp file", img.Width, img.Height)

	return
}

// Decode converts a BMP file to an image, files not supported by
// [DecodeBMP] (e.g. palette, 32-bit or top-down ones) are converted with a
// generic BMP decoder.
func Decode(data []byte) (img *Image, err error) {
	if img, err = DecodeBMP(data); err == nil {
		return
	}

	src, e := bmp.Decode(bytes.NewReader(data))

	if e != nil {
		return nil, err
	}

	debugf("imported image size %dx%d with generic decoder", src.Bounds().Dx(), src.Bounds().Dy())

	return FromImage(src)
}
