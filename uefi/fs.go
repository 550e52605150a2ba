// Copyright (c) WithSecure Corporation
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

var (
	EFI_LOADED_IMAGE_PROTOCOL_GUID       = MustParseGUID("5b1b31a1-9562-11d2-8e3f-00a0c969723b")
	EFI_DEVICE_PATH_PROTOCOL_GUID        = MustParseGUID("09576e91-6d3f-11d2-8e39-00a0c969723b")
	EFI_SIMPLE_FILE_SYSTEM_PROTOCOL_GUID = MustParseGUID("964e5b22-6459-11d2-8e39-00a0c969723b")
)

const (
	EFI_LOADED_IMAGE_PROTOCOL_REVISION       = 0x00001000
	EFI_SIMPLE_FILE_SYSTEM_PROTOCOL_REVISION = 0x00010000
)

// EFI Simple File System Protocol offset for OpenVolume
const openVolume = 0x08

// LoadedImage represents an EFI Loaded Image Protocol instance.
type LoadedImage struct {
	Revision        uint32
	_               uint32
	ParentHandle    uint64
	SystemTable     uint64
	DeviceHandle    uint64
	FilePath        uint64
	_               uint64
	LoadOptionsSize uint32
	_               uint32
	LoadOptions     uint64
	ImageBase       uint64
	ImageSize       uint64
	ImageCodeType   uint32
	ImageDataType   uint32
	Unload          uint64
}

// simpleFileSystem represents an EFI Simple File System Protocol instance.
type simpleFileSystem struct {
	Revision   uint64
	OpenVolume uint64
}

// openVolume calls EFI_SIMPLE_FILE SYSTEM_PROTOCOL.OpenVolume().
func (root *simpleFileSystem) openVolume(handle uint64) (f *fileProtocol, addr uint64, err error) {
	status := callService(handle+openVolume,
		[]uint64{
			handle,
			ptrval(&addr),
		},
	)

	if err = parseStatus(status); err != nil {
		return
	}

	f = &fileProtocol{}

	if err = decode(f, addr); err != nil {
		return
	}

	if f.Revision != EFI_FILE_PROTOCOL_REVISION && f.Revision != EFI_FILE_PROTOCOL_REVISION2 {
		return nil, 0, fmt.Errorf("invalid protocol revision (%x)", f.Revision)
	}

	return
}

// FS implements the [fs.FS] and [fs.StatFS] interfaces for an EFI Simple
// File System, file names use backslash separators, forward slashes are
// converted.
type FS struct {
	image  *LoadedImage
	device uint64
	addr   uint64

	fs     *simpleFileSystem
	volume *File
}

func (root *FS) path(name string) string {
	name = strings.ReplaceAll(name, `/`, `\`)

	if name == "." || name == "" {
		return `\`
	}

	return name
}

// OpenFile opens the named file with the argument EFI_FILE_MODE flags,
// [File.Close] must be called to release any associated resources.
func (root *FS) OpenFile(name string, mode uint64) (f *File, err error) {
	if root.volume == nil || root.volume.file == nil || root.volume.addr == 0 {
		return nil, errors.New("invalid file system instance")
	}

	f = &File{
		name: name,
	}

	if f.file, f.addr, err = root.volume.file.open(root.volume.addr, root.path(name), mode); err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	return
}

// Open opens the named file for reading, [File.Close] must be called to
// release any associated resources.
func (root *FS) Open(name string) (fs.File, error) {
	f, err := root.OpenFile(name, EFI_FILE_MODE_READ)

	if err != nil {
		return nil, err
	}

	return f, nil
}

// Stat returns a [fs.FileInfo] describing the named file.
func (root *FS) Stat(name string) (fs.FileInfo, error) {
	f, err := root.OpenFile(name, EFI_FILE_MODE_READ)

	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.Stat()
}

// WriteFile writes data to the named file, creating it if necessary.
func (root *FS) WriteFile(name string, data []byte) (err error) {
	f, err := root.OpenFile(name, EFI_FILE_MODE_READ|EFI_FILE_MODE_WRITE|EFI_FILE_MODE_CREATE)

	if err != nil {
		return
	}

	defer func() {
		if f != nil {
			f.Close()
		}
	}()

	fi, err := f.Stat()

	if err != nil {
		return
	}

	if fi.IsDir() {
		return &fs.PathError{Op: "write", Path: name, Err: errors.New("is a directory")}
	}

	// writes do not truncate, longer files are recreated
	if fi.Size() > int64(len(data)) {
		if err = f.Delete(); err != nil {
			return
		}

		if f, err = root.OpenFile(name, EFI_FILE_MODE_READ|EFI_FILE_MODE_WRITE|EFI_FILE_MODE_CREATE); err != nil {
			return
		}
	}

	_, err = f.Write(data)

	return
}

// Remove deletes the named file, directories are not removed.
func (root *FS) Remove(name string) (err error) {
	f, err := root.OpenFile(name, EFI_FILE_MODE_READ|EFI_FILE_MODE_WRITE)

	if err != nil {
		return
	}

	fi, err := f.Stat()

	if err != nil {
		f.Close()
		return
	}

	if fi.IsDir() {
		f.Close()
		return &fs.PathError{Op: "remove", Path: name, Err: errors.New("is a directory")}
	}

	return f.Delete()
}

// DeviceHandle returns the EFI handle of the device backing the file system.
func (root *FS) DeviceHandle() uint64 {
	return root.image.DeviceHandle
}

// ImagePath returns the path of the running EFI image within the root
// volume.
func (root *FS) ImagePath() (string, error) {
	var path string

	nodes, _, err := parseDevicePath(root.image.FilePath)

	if err != nil {
		return "", err
	}

	// the path can be split across several nodes
	for _, node := range nodes {
		if node.Type != mediaDevicePath || node.SubType != filePathSubType {
			continue
		}

		p := fromUTF16(node.Data)

		if len(path) > 0 && !strings.HasSuffix(path, `\`) && !strings.HasPrefix(p, `\`) {
			path += `\`
		}

		path += p
	}

	if len(path) == 0 {
		return "", errors.New("could not find image file path")
	}

	return path, nil
}

// LoadedImage calls EFI_BOOT_SERVICES.HandleProtocol() to obtain the EFI
// Loaded Image Protocol instance of the argument image handle.
func (s *BootServices) LoadedImage(imageHandle uint64) (image *LoadedImage, err error) {
	var addr uint64

	if addr, err = s.HandleProtocol(imageHandle, EFI_LOADED_IMAGE_PROTOCOL_GUID); err != nil {
		return
	}

	image = &LoadedImage{}

	if err = decode(image, addr); err != nil {
		return
	}

	if image.Revision != EFI_LOADED_IMAGE_PROTOCOL_REVISION {
		return nil, errors.New("invalid protocol revision")
	}

	return
}

// Root returns an EFI Simple File System instance for the current EFI image
// root volume.
func (s *Services) Root() (root *FS, err error) {
	root = &FS{
		fs:     &simpleFileSystem{},
		volume: &File{},
	}

	if root.image, err = s.Boot.LoadedImage(s.imageHandle); err != nil {
		return
	}

	if root.device, err = s.Boot.HandleProtocol(root.image.DeviceHandle, EFI_DEVICE_PATH_PROTOCOL_GUID); err != nil {
		return
	}

	if root.addr, err = s.Boot.HandleProtocol(root.image.DeviceHandle, EFI_SIMPLE_FILE_SYSTEM_PROTOCOL_GUID); err != nil {
		return
	}

	if err = decode(root.fs, root.addr); err != nil {
		return
	}

	if root.fs.Revision != EFI_SIMPLE_FILE_SYSTEM_PROTOCOL_REVISION {
		return nil, errors.New("invalid protocol revision")
	}

	if root.volume.file, root.volume.addr, err = root.fs.openVolume(root.addr); err != nil {
		return
	}

	return
}
