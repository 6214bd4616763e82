// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

// Package validate checks finalized service documents against a JSON schema.
package validate

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/netsvc-labs/servicegen/document"
	sgerrors "github.com/netsvc-labs/servicegen/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "final.schema.json"

//go:embed final.schema.json
var finalSchema []byte

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if schemaErr = compiler.AddResource(schemaURL, bytes.NewReader(finalSchema)); schemaErr != nil {
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// Final validates a finalized document. A document that does not match the schema
// yields an error wrapping ErrIncorrectInput and the *jsonschema.ValidationError.
func Final(doc *document.Map) error {
	if doc == nil {
		return fmt.Errorf("%w: no document to validate", sgerrors.ErrIncorrectInput)
	}

	sch, err := loadSchema()
	if err != nil {
		return fmt.Errorf("failed to compile document schema: %w", err)
	}

	b, err := document.Marshal(doc)
	if err != nil {
		return err
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}

	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("%w: final document does not match the schema: %w", sgerrors.ErrIncorrectInput, err)
	}
	return nil
}
