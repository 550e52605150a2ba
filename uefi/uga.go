// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"errors"
)

// EFI_UGA_DRAW_PROTOCOL_GUID identifies the Universal Graphics Adapter draw
// protocol exposed by pre-GOP firmware.
var EFI_UGA_DRAW_PROTOCOL_GUID = MustParseGUID("982c298b-f4fa-41cb-b838-77aa688fb839")

// EFI UGA Draw Protocol offsets
const (
	ugaGetMode = 0x00
	ugaSetMode = 0x08
	ugaBlt     = 0x10
)

// UGADraw represents an EFI UGA Draw Protocol instance.
//
// The EFI_UGA_BLT_OPERATION values match the Graphics Output Protocol
// BltOperation ones.
type UGADraw struct {
	base uint64
}

// GetMode calls EFI_UGA_DRAW_PROTOCOL.GetMode().
func (uga *UGADraw) GetMode() (width uint32, height uint32, depth uint32, refresh uint32, err error) {
	status := callService(uga.base+ugaGetMode,
		[]uint64{
			uga.base,
			ptrval(&width),
			ptrval(&height),
			ptrval(&depth),
			ptrval(&refresh),
		},
	)

	err = parseStatus(status)

	return
}

// Blt calls EFI_UGA_DRAW_PROTOCOL.Blt().
func (uga *UGADraw) Blt(buf []byte, op BltOperation, srcX, srcY, dstX, dstY, width, height, delta uint64) (err error) {
	if uga.base == 0 {
		return nil
	}

	if len(buf) == 0 {
		return errors.New("invalid buffer")
	}

	status := callService(uga.base+ugaBlt,
		[]uint64{
			uga.base,
			ptrval(&buf[0]),
			uint64(op),
			srcX,
			srcY,
			dstX,
			dstY,
			width,
			height,
			delta,
		},
	)

	return parseStatus(status)
}

// GetUGADraw returns the EFI UGA Draw Protocol instance associated to the
// console output handle or, when not present, any located instance.
func (s *BootServices) GetUGADraw() (uga *UGADraw, err error) {
	uga = &UGADraw{}

	if uga.base, err = s.ConsoleProtocol(EFI_UGA_DRAW_PROTOCOL_GUID); err != nil {
		return nil, err
	}

	return
}
