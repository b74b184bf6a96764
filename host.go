// host.go: the factory a host process calls to build a Driver, §4.H
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package eye

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MakeDriver deserializes params into a Config (name → OneConfig), spawns
// every reader through its variant's branch, and collects them into a
// Driver. basePath resolves Video readers' relative paths.
func MakeDriver(basePath string, params *yaml.Node) (*Driver, error) {
	var cfg Config
	if err := params.Decode(&cfg); err != nil {
		return nil, newErr(KindDecode, "host.make_driver", err)
	}

	readers := make(map[string]Reader, len(cfg))
	for name, one := range cfg {
		c, err := one.resolve()
		if err != nil {
			return nil, newErr(KindDecode, "host.make_driver", err)
		}
		r, err := c.spawn(name, basePath)
		if err != nil {
			return nil, err
		}
		readers[name] = r
	}
	return NewDriver(readers), nil
}

// MakeDriverFromFile is the file-path convenience constructor: it reads
// path, uses its directory as the base path for relative Video configs,
// and delegates to MakeDriver.
func MakeDriverFromFile(path string) (*Driver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newErr(KindIO, "host.make_driver_from_file", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, newErr(KindDecode, "host.make_driver_from_file", err)
	}

	return MakeDriver(filepath.Dir(path), &doc)
}
