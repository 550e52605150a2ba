// Copyright (c) WithSecure Corporation
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"
)

var EFI_FILE_INFO_ID = MustParseGUID("09576e92-6d3f-11d2-8e39-00a0c969723b")

const (
	EFI_FILE_PROTOCOL_REVISION  = 0x00010000
	EFI_FILE_PROTOCOL_REVISION2 = 0x00020000
)

// EFI File Protocol open modes
const (
	EFI_FILE_MODE_READ   = 0x0000000000000001
	EFI_FILE_MODE_WRITE  = 0x0000000000000002
	EFI_FILE_MODE_CREATE = 0x8000000000000000
)

// EFI File Protocol attributes
const (
	EFI_FILE_READ_ONLY = 0x01
	EFI_FILE_HIDDEN    = 0x02
	EFI_FILE_SYSTEM    = 0x04
	EFI_FILE_RESERVED  = 0x08
	EFI_FILE_DIRECTORY = 0x10
	EFI_FILE_ARCHIVE   = 0x20
)

// EFI File Protocol offsets
const (
	fileOpen    = 0x08
	fileClose   = 0x10
	fileDelete  = 0x18
	fileRead    = 0x20
	fileWrite   = 0x28
	fileGetInfo = 0x40
)

// EFI_WARN_DELETE_FAILURE
const warnDeleteFailure = 2

const (
	// fileInfoSize is the size of EFI_FILE_INFO without its file name
	fileInfoSize = 80

	// MaxFileName is the maximum supported file name length in
	// characters.
	MaxFileName = 255

	// MaxDirEntries is the maximum number of entries returned by
	// [File.ReadDir].
	MaxDirEntries = 1024
)

// fileProtocol represents an EFI File Protocol instance.
type fileProtocol struct {
	Revision    uint64
	Open        uint64
	Close       uint64
	Delete      uint64
	Read        uint64
	Write       uint64
	GetPosition uint64
	SetPosition uint64
	GetInfo     uint64
	SetInfo     uint64
	Flush       uint64
}

// open calls EFI_FILE_PROTOCOL.Open().
func (f *fileProtocol) open(addr uint64, name string, mode uint64) (file *fileProtocol, handle uint64, err error) {
	fileName := toUTF16(name)

	var attr uint64

	if mode&EFI_FILE_MODE_CREATE != 0 {
		attr = EFI_FILE_ARCHIVE
	}

	status := callService(addr+fileOpen,
		[]uint64{
			addr,
			ptrval(&handle),
			ptrval(&fileName[0]),
			mode,
			attr,
		},
	)

	if err = parseStatus(status); err != nil {
		return nil, 0, err
	}

	file = &fileProtocol{}

	if err = decode(file, handle); err != nil {
		return nil, 0, err
	}

	return
}

// close calls EFI_FILE_PROTOCOL.Close().
func (f *fileProtocol) close(addr uint64) (err error) {
	status := callService(addr+fileClose,
		[]uint64{
			addr,
		},
	)

	return parseStatus(status)
}

// delete calls EFI_FILE_PROTOCOL.Delete(), the handle is always closed.
func (f *fileProtocol) delete(addr uint64) (err error) {
	status := callService(addr+fileDelete,
		[]uint64{
			addr,
		},
	)

	if status == warnDeleteFailure {
		return errors.New("file could not be deleted")
	}

	return parseStatus(status)
}

// read calls EFI_FILE_PROTOCOL.Read().
func (f *fileProtocol) read(addr uint64, buf []byte) (n int, err error) {
	size := uint64(len(buf))

	status := callService(addr+fileRead,
		[]uint64{
			addr,
			ptrval(&size),
			ptrval(&buf[0]),
		},
	)

	return int(size), parseStatus(status)
}

// write calls EFI_FILE_PROTOCOL.Write().
func (f *fileProtocol) write(addr uint64, buf []byte) (n int, err error) {
	size := uint64(len(buf))

	status := callService(addr+fileWrite,
		[]uint64{
			addr,
			ptrval(&size),
			ptrval(&buf[0]),
		},
	)

	return int(size), parseStatus(status)
}

// getInfo calls EFI_FILE_PROTOCOL.GetInfo() for EFI_FILE_INFO, a first call
// sizes the buffer when the firmware returns EFI_BUFFER_TOO_SMALL.
func (f *fileProtocol) getInfo(addr uint64) (buf []byte, err error) {
	guid := EFI_FILE_INFO_ID
	size := uint64(0)

	status := callService(addr+fileGetInfo,
		[]uint64{
			addr,
			ptrval(&guid[0]),
			ptrval(&size),
			0,
		},
	)

	if err = parseStatus(status); !errors.Is(err, ErrEfiBufferTooSmall) {
		return nil, fmt.Errorf("could not size file information, %v", err)
	}

	if size < fileInfoSize {
		size = fileInfoSize + MaxFileName*2
	}

	buf = make([]byte, size)

	status = callService(addr+fileGetInfo,
		[]uint64{
			addr,
			ptrval(&guid[0]),
			ptrval(&size),
			ptrval(&buf[0]),
		},
	)

	if err = parseStatus(status); err != nil {
		return nil, err
	}

	return buf[:size], nil
}

// efiTime represents an EFI_TIME instance.
type efiTime struct {
	Year       uint16
	Month      uint8
	Day        uint8
	Hour       uint8
	Minute     uint8
	Second     uint8
	_          uint8
	Nanosecond uint32
	TimeZone   int16
	Daylight   uint8
	_          uint8
}

// Time converts the EFI_TIME to [time.Time], unspecified time zones are
// treated as UTC.
func (t *efiTime) Time() time.Time {
	loc := time.UTC

	if t.TimeZone != 0x07ff {
		loc = time.FixedZone("", -int(t.TimeZone)*60)
	}

	return time.Date(int(t.Year), time.Month(t.Month), int(t.Day),
		int(t.Hour), int(t.Minute), int(t.Second), int(t.Nanosecond), loc)
}

// fileInfo represents an EFI_FILE_INFO instance, without its variable
// length file name.
type fileInfo struct {
	Size             uint64
	FileSize         uint64
	PhysicalSize     uint64
	CreateTime       efiTime
	LastAccessTime   efiTime
	ModificationTime efiTime
	Attribute        uint64
}

func (fi *fileInfo) decode(buf []byte) (name string, err error) {
	if len(buf) < fileInfoSize {
		return "", errors.New("invalid file information")
	}

	if err = unmarshalBinary(buf[0:fileInfoSize], fi); err != nil {
		return
	}

	return fromUTF16(buf[fileInfoSize:]), nil
}

// FileInfo implements the [fs.FileInfo] interface for EFI_FILE_INFO.
type FileInfo struct {
	name string
	info *fileInfo
}

// Name returns the base name of the file.
func (fi *FileInfo) Name() string {
	return fi.name
}

// Size returns the length in bytes for regular files.
func (fi *FileInfo) Size() int64 {
	return int64(fi.info.FileSize)
}

// Mode returns the file mode bits.
func (fi *FileInfo) Mode() (mode fs.FileMode) {
	mode = 0444

	if fi.info.Attribute&EFI_FILE_READ_ONLY == 0 {
		mode |= 0222
	}

	if fi.IsDir() {
		mode |= fs.ModeDir | 0111
	}

	return
}

// ModTime returns the modification time.
func (fi *FileInfo) ModTime() time.Time {
	return fi.info.ModificationTime.Time()
}

// IsDir reports whether the file describes a directory.
func (fi *FileInfo) IsDir() bool {
	return fi.info.Attribute&EFI_FILE_DIRECTORY != 0
}

// Sys returns the EFI_FILE_INFO attributes.
func (fi *FileInfo) Sys() any {
	return fi.info.Attribute
}

// File implements the [fs.File] interface for the EFI File Protocol.
type File struct {
	name string

	file *fileProtocol
	addr uint64

	// directory entries already returned
	n int
}

// Stat calls EFI_FILE_PROTOCOL.GetInfo().
func (f *File) Stat() (fs.FileInfo, error) {
	if f.file == nil {
		return nil, fs.ErrClosed
	}

	buf, err := f.file.getInfo(f.addr)

	if err != nil {
		return nil, err
	}

	fi := &FileInfo{
		info: &fileInfo{},
	}

	if fi.name, err = fi.info.decode(buf); err != nil {
		return nil, err
	}

	return fi, nil
}

// Read calls EFI_FILE_PROTOCOL.Read().
func (f *File) Read(p []byte) (n int, err error) {
	if f.file == nil {
		return 0, fs.ErrClosed
	}

	if len(p) == 0 {
		return
	}

	if n, err = f.file.read(f.addr, p); err != nil {
		return
	}

	if n == 0 {
		return 0, io.EOF
	}

	return
}

// Write calls EFI_FILE_PROTOCOL.Write().
func (f *File) Write(p []byte) (n int, err error) {
	if f.file == nil {
		return 0, fs.ErrClosed
	}

	if len(p) == 0 {
		return
	}

	return f.file.write(f.addr, p)
}

// Delete calls EFI_FILE_PROTOCOL.Delete(), which also closes the file.
func (f *File) Delete() (err error) {
	if f.file == nil {
		return fs.ErrClosed
	}

	defer func() {
		f.file = nil
	}()

	return f.file.delete(f.addr)
}

// Close calls EFI_FILE_PROTOCOL.Close().
func (f *File) Close() (err error) {
	if f.file == nil {
		return fs.ErrClosed
	}

	defer func() {
		f.file = nil
	}()

	return f.file.close(f.addr)
}
