// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package filesystem provides file helpers for the volume holding the
// running EFI image, paths are accepted in EFI format (`\EFI\Boot\x.efi`) as
// well as in slash separated [fs.FS] format.
package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
)

// Debug enables verbose logging.
var Debug bool

var (
	ErrEmpty       = errors.New("empty buffer")
	ErrIsDirectory = errors.New("is a directory")
	ErrInvalidPath = errors.New("invalid path")
)

// Volume represents a writable file system.
type Volume interface {
	fs.FS

	// WriteFile writes data to the named file, creating it if necessary.
	WriteFile(name string, data []byte) error
	// Remove removes the named file.
	Remove(name string) error
}

func debugf(format string, v ...any) {
	if Debug {
		log.Printf(format, v...)
	}
}

// Clean converts an EFI path to its [fs.FS] equivalent, relative to the
// volume root.
func Clean(path string) string {
	path = strings.ReplaceAll(path, `\`, `/`)
	path = strings.TrimLeft(path, "/")

	if path == "" {
		return "."
	}

	return path
}

// Exists reports whether the named file can be opened for reading.
func Exists(vol fs.FS, path string) bool {
	f, err := vol.Open(Clean(path))

	if err != nil {
		debugf("unable to open file '%s' for reading, %v", path, err)
		return false
	}
	defer f.Close()

	debugf("opened file '%s' for reading", path)

	return true
}

// Info returns the [fs.FileInfo] of the named file.
func Info(vol fs.FS, path string) (fs.FileInfo, error) {
	return fs.Stat(vol, Clean(path))
}

// Read returns the contents of the named file.
func Read(vol fs.FS, path string) (buf []byte, err error) {
	if buf, err = fs.ReadFile(vol, Clean(path)); err != nil {
		debugf("unable to read file '%s', %v", path, err)
		return nil, err
	}

	debugf("read %d bytes from '%s'", len(buf), path)

	return
}

// Write writes the argument buffer to the named file, which is created if
// necessary, directories are never written.
func Write(vol Volume, path string, buf []byte) (err error) {
	if len(buf) == 0 {
		return ErrEmpty
	}

	name := Clean(path)

	if fi, err := fs.Stat(vol, name); err == nil && fi.IsDir() {
		return &fs.PathError{Op: "write", Path: path, Err: ErrIsDirectory}
	}

	if err = vol.WriteFile(name, buf); err != nil {
		debugf("unable to write file '%s', %v", path, err)
		return
	}

	debugf("wrote %d bytes to '%s'", len(buf), path)

	return
}

// Delete removes the named file, directories are never removed.
func Delete(vol Volume, path string) (err error) {
	name := Clean(path)

	fi, err := fs.Stat(vol, name)

	if err != nil {
		debugf("unable to open file '%s' for deleting, %v", path, err)
		return
	}

	if fi.IsDir() {
		return &fs.PathError{Op: "remove", Path: path, Err: ErrIsDirectory}
	}

	return vol.Remove(name)
}

// ChangeExtension returns the argument path with its extension, the part
// following the last dot, replaced.
func ChangeExtension(path string, ext string) (string, error) {
	if len(ext) == 0 {
		return "", fmt.Errorf("%w, empty extension", ErrInvalidPath)
	}

	dot := strings.LastIndexByte(path, '.')

	// a leading dot is not an extension separator
	if dot <= 0 {
		return "", fmt.Errorf("%w, no extension", ErrInvalidPath)
	}

	return path[:dot+1] + ext, nil
}

// EndingSlashIndex returns the index of the last backslash in the argument
// path, or 0 when there is none. With noSlashPrefixed set, the returned
// index is moved backwards past any consecutive backslashes.
func EndingSlashIndex(path string, noSlashPrefixed bool) int {
	if len(path) == 0 {
		return 0
	}

	i := len(path) - 1

	for path[i] != '\\' && i != 0 {
		i--
	}

	if noSlashPrefixed {
		for path[i] == '\\' && i != 0 {
			i--
		}
	}

	return i
}

// SameDirectory returns the path of the named file within the directory of
// the argument path.
func SameDirectory(path string, name string) (string, error) {
	i := EndingSlashIndex(path, false)

	if i == 0 && (len(path) == 0 || path[0] != '\\') {
		return "", fmt.Errorf("%w, no directory in '%s'", ErrInvalidPath, path)
	}

	return path[:i+1] + name, nil
}

// BaseFilename returns the last element of the argument path.
func BaseFilename(path string) string {
	return path[strings.LastIndexByte(path, '\\')+1:]
}
