// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"fmt"
	"io/fs"
)

// errorBit is the high bit set on all EFI_STATUS error codes.
const errorBit = 1 << 63

// EFI_STATUS codes (Appendix D - Status Codes), without the error bit.
const (
	EFI_SUCCESS = iota
	EFI_LOAD_ERROR
	EFI_INVALID_PARAMETER
	EFI_UNSUPPORTED
	EFI_BAD_BUFFER_SIZE
	EFI_BUFFER_TOO_SMALL
	EFI_NOT_READY
	EFI_DEVICE_ERROR
	EFI_WRITE_PROTECTED
	EFI_OUT_OF_RESOURCES
	EFI_VOLUME_CORRUPTED
	EFI_VOLUME_FULL
	EFI_NO_MEDIA
	EFI_MEDIA_CHANGED
	EFI_NOT_FOUND
	EFI_ACCESS_DENIED
	EFI_NO_RESPONSE
	EFI_NO_MAPPING
	EFI_TIMEOUT
	EFI_NOT_STARTED
	EFI_ALREADY_STARTED
	EFI_ABORTED
	EFI_ICMP_ERROR
	EFI_TFTP_ERROR
	EFI_PROTOCOL_ERROR
	EFI_INCOMPATIBLE_VERSION
	EFI_SECURITY_VIOLATION
)

var statusNames = map[uint64]string{
	EFI_LOAD_ERROR:           "EFI_LOAD_ERROR",
	EFI_INVALID_PARAMETER:    "EFI_INVALID_PARAMETER",
	EFI_UNSUPPORTED:          "EFI_UNSUPPORTED",
	EFI_BAD_BUFFER_SIZE:      "EFI_BAD_BUFFER_SIZE",
	EFI_BUFFER_TOO_SMALL:     "EFI_BUFFER_TOO_SMALL",
	EFI_NOT_READY:            "EFI_NOT_READY",
	EFI_DEVICE_ERROR:         "EFI_DEVICE_ERROR",
	EFI_WRITE_PROTECTED:      "EFI_WRITE_PROTECTED",
	EFI_OUT_OF_RESOURCES:     "EFI_OUT_OF_RESOURCES",
	EFI_VOLUME_CORRUPTED:     "EFI_VOLUME_CORRUPTED",
	EFI_VOLUME_FULL:          "EFI_VOLUME_FULL",
	EFI_NO_MEDIA:             "EFI_NO_MEDIA",
	EFI_MEDIA_CHANGED:        "EFI_MEDIA_CHANGED",
	EFI_NOT_FOUND:            "EFI_NOT_FOUND",
	EFI_ACCESS_DENIED:        "EFI_ACCESS_DENIED",
	EFI_NO_RESPONSE:          "EFI_NO_RESPONSE",
	EFI_NO_MAPPING:           "EFI_NO_MAPPING",
	EFI_TIMEOUT:              "EFI_TIMEOUT",
	EFI_NOT_STARTED:          "EFI_NOT_STARTED",
	EFI_ALREADY_STARTED:      "EFI_ALREADY_STARTED",
	EFI_ABORTED:              "EFI_ABORTED",
	EFI_ICMP_ERROR:           "EFI_ICMP_ERROR",
	EFI_TFTP_ERROR:           "EFI_TFTP_ERROR",
	EFI_PROTOCOL_ERROR:       "EFI_PROTOCOL_ERROR",
	EFI_INCOMPATIBLE_VERSION: "EFI_INCOMPATIBLE_VERSION",
	EFI_SECURITY_VIOLATION:   "EFI_SECURITY_VIOLATION",
}

// Status represents a non successful EFI_STATUS.
type Status uint64

// Code returns the status code without the error bit.
func (s Status) Code() uint64 {
	return uint64(s) &^ errorBit
}

// Error implements the error interface.
func (s Status) Error() string {
	if name, ok := statusNames[s.Code()]; ok {
		return fmt.Sprintf("%s (%#x)", name, uint64(s))
	}

	return fmt.Sprintf("EFI_STATUS error %#x", uint64(s))
}

// Is allows matching sentinel errors regardless of the error bit,
// EFI_NOT_FOUND also matches [fs.ErrNotExist].
func (s Status) Is(target error) bool {
	if target == fs.ErrNotExist {
		return s.Code() == EFI_NOT_FOUND
	}

	t, ok := target.(Status)
	return ok && t.Code() == s.Code()
}

// Sentinel errors for the EFI_STATUS codes callers commonly branch on.
var (
	ErrEfiInvalidParameter = Status(errorBit | EFI_INVALID_PARAMETER)
	ErrEfiUnsupported      = Status(errorBit | EFI_UNSUPPORTED)
	ErrEfiBufferTooSmall   = Status(errorBit | EFI_BUFFER_TOO_SMALL)
	ErrEfiNotReady         = Status(errorBit | EFI_NOT_READY)
	ErrEfiDeviceError      = Status(errorBit | EFI_DEVICE_ERROR)
	ErrEfiOutOfResources   = Status(errorBit | EFI_OUT_OF_RESOURCES)
	ErrEfiNotFound         = Status(errorBit | EFI_NOT_FOUND)
	ErrEfiAccessDenied     = Status(errorBit | EFI_ACCESS_DENIED)
)

func parseStatus(status uint64) (err error) {
	if status == EFI_SUCCESS {
		return
	}

	// warnings do not carry the error bit
	if status&errorBit == 0 {
		return
	}

	return Status(status)
}
