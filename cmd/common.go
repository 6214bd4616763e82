// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/netsvc-labs/servicegen/config"
	"github.com/netsvc-labs/servicegen/constants"
	"github.com/netsvc-labs/servicegen/document"
	"github.com/netsvc-labs/servicegen/persist"
	"github.com/netsvc-labs/servicegen/rdclient"
	"github.com/netsvc-labs/servicegen/refdata"
	"github.com/netsvc-labs/servicegen/resolver"
	"github.com/netsvc-labs/servicegen/templates"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
)

var (
	serviceType string
	customer    string
	format      string
)

// newStore returns the reference data store for the configured source.
func newStore(c *config.Config) (*refdata.Store, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var loader refdata.Loader
	if c.RefDataFile != "" {
		log.Debugf("using reference data file %s", c.RefDataFile)
		loader = &refdata.FileLoader{Path: c.RefDataFile}
	} else {
		loader = rdclient.New(c)
	}
	return refdata.NewStore(loader, refdata.WithMaxAge(c.RefDataMaxAge)), nil
}

func newResolver(c *config.Config, gw refdata.Gateway) *resolver.Resolver {
	return resolver.New(gw,
		resolver.WithTemplates(templates.DirSource(c.TemplateDir)),
		resolver.WithOperatorName(c.OperatorName),
	)
}

func newWriter(c *config.Config) *persist.Writer {
	return persist.NewWriter(c.OutputDir)
}

func checkFormat(f string, allowed ...string) error {
	for _, a := range allowed {
		if f == a {
			return nil
		}
	}
	return fmt.Errorf("output format %q is not supported, use one of [%s]", f, strings.Join(allowed, ", "))
}

// writeDocument prints doc in json or yaml.
func writeDocument(w io.Writer, doc *document.Map, f string) error {
	var (
		b   []byte
		err error
	)
	if f == constants.FormatYAML {
		b, err = document.MarshalYAML(doc)
	} else {
		b, err = document.Marshal(doc)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, strings.TrimRight(string(b), "\n"))
	return err
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	return table
}

// printMissing renders the unresolved placeholders of a document as a table.
func printMissing(w io.Writer, missing []document.Missing) {
	tabData := make([][]string, 0, len(missing))
	for i, m := range missing {
		tabData = append(tabData, []string{fmt.Sprintf("%d", i+1), m.Path, m.Token})
	}
	table := newTable(w, "#", "Path", "Placeholder")
	table.AppendBulk(tabData)
	table.Render()
}
