// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

// Package templates provides the service templates documents are resolved from.
package templates

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/a8m/envsubst"
	"github.com/netsvc-labs/servicegen/document"
	sgerrors "github.com/netsvc-labs/servicegen/errors"
	log "github.com/sirupsen/logrus"
)

//go:embed *_template.json
var embedded embed.FS

var extensions = []string{".json", ".yaml", ".yml"}

// Source loads the template of a service type.
type Source func(serviceType string) (*document.Map, error)

// DirSource returns a Source that prefers <dir>/<service_type>_template.{json,yaml,yml}
// and falls back to the built-in templates. An empty dir uses the built-in templates only.
func DirSource(dir string) Source {
	return func(serviceType string) (*document.Map, error) {
		return Load(serviceType, dir)
	}
}

// Load reads and parses the template of a service type.
// Environment variables referenced as ${VAR} are expanded before parsing.
// Placeholder tokens in YAML templates must be quoted ("{SITE_ID}"): YAML reads an
// unquoted {SITE_ID} as a flow mapping, which is neither substituted nor reported as missing.
func Load(serviceType, dir string) (*document.Map, error) {
	base := serviceType + "_template"

	if dir != "" {
		for _, ext := range extensions {
			p := filepath.Join(dir, base+ext)
			b, err := os.ReadFile(p)
			if os.IsNotExist(err) {
				continue
			}
			if err != nil {
				return nil, err
			}
			log.Debugf("using template %s", p)
			return parse(b, ext)
		}
		log.Debugf("no %s template in %s, using the built-in one", serviceType, dir)
	}

	b, err := embedded.ReadFile(base + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: no template for service type %q", sgerrors.ErrFileNotFound, serviceType)
	}
	return parse(b, ".json")
}

func parse(b []byte, ext string) (*document.Map, error) {
	// expand env vars if any, unset ones become empty
	b, err := envsubst.BytesRestricted(b, false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to expand template variables: %w", err)
	}

	if ext == ".json" {
		return document.ParseJSON(b)
	}
	return document.ParseYAML(b)
}
