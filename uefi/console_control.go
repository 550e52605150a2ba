// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

// EFI_CONSOLE_CONTROL_PROTOCOL_GUID identifies the (pre UEFI 2.0) Console
// Control protocol, implemented by Apple and legacy Intel firmware, which
// switches the console between text and graphics.
var EFI_CONSOLE_CONTROL_PROTOCOL_GUID = MustParseGUID("f42f7782-012e-4c12-9956-49f94304f721")

// EFI Console Control Protocol offsets
const (
	consoleGetMode = 0x00
	consoleSetMode = 0x08
)

// ScreenMode represents an EFI_CONSOLE_CONTROL_SCREEN_MODE value.
type ScreenMode uint32

// EFI_CONSOLE_CONTROL_SCREEN_MODE
const (
	EfiConsoleControlScreenText ScreenMode = iota
	EfiConsoleControlScreenGraphics
	EfiConsoleControlScreenMaxValue
)

// ConsoleControl represents an EFI Console Control Protocol instance.
type ConsoleControl struct {
	base uint64
}

// GetMode calls EFI_CONSOLE_CONTROL_PROTOCOL.GetMode().
func (c *ConsoleControl) GetMode() (mode ScreenMode, err error) {
	var m uint32

	status := callService(c.base+consoleGetMode,
		[]uint64{
			c.base,
			ptrval(&m),
			0,
			0,
		},
	)

	return ScreenMode(m), parseStatus(status)
}

// SetMode calls EFI_CONSOLE_CONTROL_PROTOCOL.SetMode().
func (c *ConsoleControl) SetMode(mode ScreenMode) (err error) {
	status := callService(c.base+consoleSetMode,
		[]uint64{
			c.base,
			uint64(mode),
		},
	)

	return parseStatus(status)
}

// GetConsoleControl locates and returns the EFI Console Control Protocol
// instance.
func (s *BootServices) GetConsoleControl() (c *ConsoleControl, err error) {
	c = &ConsoleControl{}

	if c.base, err = s.LocateProtocol(EFI_CONSOLE_CONTROL_PROTOCOL_GUID); err != nil {
		return nil, err
	}

	return
}
