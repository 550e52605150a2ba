// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package config

import (
	"io/fs"

	"github.com/usbarmory/seven-boot/filesystem"
)

// Extensions of the files named after the running image
const (
	SettingsExtension = "conf"
	LogExtension      = "log"
)

// SettingsFiles returns the settings file candidates for the argument EFI
// image path in lookup order: the image name with the settings extension,
// then DefaultFile in the image directory.
func SettingsFiles(image string) (paths []string, err error) {
	if path, err := filesystem.ChangeExtension(image, SettingsExtension); err == nil {
		paths = append(paths, path)
	}

	path, err := filesystem.SameDirectory(image, DefaultFile)

	if err != nil {
		return nil, err
	}

	return append(paths, path), nil
}

// Find returns the first existing settings file for the argument EFI image
// path, or an empty string when there is none.
func Find(fsys fs.FS, image string) (string, error) {
	paths, err := SettingsFiles(image)

	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if fi, err := filesystem.Info(fsys, path); err == nil && !fi.IsDir() {
			return path, nil
		}
	}

	return "", nil
}

// LogPath returns the path of the log file for the argument EFI image path,
// named after the image or DefaultLog when the image has no extension.
func LogPath(image string) (string, error) {
	if path, err := filesystem.ChangeExtension(image, LogExtension); err == nil {
		return path, nil
	}

	return filesystem.SameDirectory(image, DefaultLog)
}

// LoadImageSettings loads the settings that apply to the argument EFI image
// path, returning the file used or an empty string for the defaults.
func LoadImageSettings(fsys fs.FS, image string) (c *Config, path string, err error) {
	if path, err = Find(fsys, image); err != nil {
		return
	}

	if path == "" {
		return Default(), "", nil
	}

	c, err = Load(fsys, filesystem.Clean(path))

	return
}
