// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sgerrors "github.com/netsvc-labs/servicegen/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// FileLoader loads a Dataset from a JSON or YAML fixture file.
type FileLoader struct {
	Path string
	// TopologyInstance overrides the instance key stored in the file, if set.
	TopologyInstance string
}

func (f *FileLoader) Load(_ context.Context) (*Dataset, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", sgerrors.ErrFileNotFound, f.Path)
		}
		return nil, err
	}

	ds := &Dataset{}
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".yml", ".yaml":
		err = yaml.UnmarshalStrict(b, ds)
	default:
		err = json.Unmarshal(b, ds)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse reference data file %s: %w", f.Path, err)
	}

	if f.TopologyInstance != "" {
		ds.TopologyInstance = f.TopologyInstance
	}

	log.Debugf("reference data read from %s", f.Path)
	return ds, nil
}
