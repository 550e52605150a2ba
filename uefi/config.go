// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"errors"
)

// EFI Configuration Table GUIDs
var (
	ACPI_TABLE_GUID    = MustParseGUID("eb9d2d30-2d88-11d3-9a16-0090273fc14d")
	ACPI_20_TABLE_GUID = MustParseGUID("8868e871-e4f1-11d3-bc22-0080c73c8881")
	SMBIOS_TABLE_GUID  = MustParseGUID("eb9d2d31-2d88-11d3-9a16-0090273fc14d")
	SMBIOS3_TABLE_GUID = MustParseGUID("f2fd1544-9794-4a2c-992e-e5bbcf20e394")
)

var tableNames = map[GUID]string{
	ACPI_TABLE_GUID:    "ACPI",
	ACPI_20_TABLE_GUID: "ACPI 2.0",
	SMBIOS_TABLE_GUID:  "SMBIOS",
	SMBIOS3_TABLE_GUID: "SMBIOS3",
}

// ConfigurationTable represents an EFI Configuration Table.
type ConfigurationTable struct {
	GUID        GUID
	VendorTable uint64
}

// Name returns the well known name of the table, if any.
func (t *ConfigurationTable) Name() string {
	return t.GUID.Name()
}

// parseConfigurationTables decodes a packed EFI Configuration Table array.
func parseConfigurationTables(buf []byte) (c []*ConfigurationTable, err error) {
	hdr, _ := marshalBinary(&ConfigurationTable{})
	entrySize := len(hdr)

	if len(buf) == 0 || len(buf)%entrySize != 0 {
		return nil, errors.New("invalid EFI Configuration Table size")
	}

	for i := 0; i < len(buf); i += entrySize {
		t := &ConfigurationTable{}

		if err = unmarshalBinary(buf[i:i+entrySize], t); err != nil {
			return nil, err
		}

		c = append(c, t)
	}

	return
}

// ConfigurationTables returns the EFI Configuration Tables.
func (d *SystemTable) ConfigurationTables() ([]*ConfigurationTable, error) {
	hdr, _ := marshalBinary(&ConfigurationTable{})

	if d.NumberOfTableEntries == 0 || d.ConfigurationTable == 0 {
		return nil, errors.New("EFI Configuration Table is invalid")
	}

	buf, err := Memory(d.ConfigurationTable, len(hdr)*int(d.NumberOfTableEntries))

	if err != nil {
		return nil, err
	}

	return parseConfigurationTables(buf)
}

// LocateConfiguration locates an EFI Configuration Table, [ErrEfiNotFound]
// is returned when no table matches the argument GUID.
func (d *SystemTable) LocateConfiguration(guid GUID) (*ConfigurationTable, error) {
	c, err := d.ConfigurationTables()

	if err != nil {
		return nil, err
	}

	for _, t := range c {
		if t.GUID == guid {
			return t, nil
		}
	}

	return nil, ErrEfiNotFound
}
