// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/netsvc-labs/servicegen/constants"
	"github.com/netsvc-labs/servicegen/document"
	sgerrors "github.com/netsvc-labs/servicegen/errors"
	"github.com/netsvc-labs/servicegen/utils"
	"github.com/spf13/cobra"
)

var scanFormat string

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan FILE",
	Short: "list the unresolved placeholders of a service document",
	Long:  "list the unresolved placeholders of a JSON or YAML service document,\nexits with an error if any is found",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(scanFormat, constants.FormatJSON, constants.FormatTable); err != nil {
			return err
		}
		return scanFile(os.Stdout, args[0], scanFormat)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", constants.FormatTable, "output format. One of [table, json]")
}

func scanFile(w io.Writer, path, f string) error {
	b, err := utils.ReadFileContent(path)
	if err != nil {
		return fmt.Errorf("%w: %v", sgerrors.ErrFileNotFound, err)
	}

	var doc *document.Map
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		doc, err = document.ParseYAML(b)
	default:
		doc, err = document.ParseJSON(b)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	has, missing := document.Scan(doc)

	if f == constants.FormatJSON {
		if missing == nil {
			missing = []document.Missing{}
		}
		if err := writeJSON(w, missing); err != nil {
			return err
		}
	} else if has {
		printMissing(w, missing)
	}

	if has {
		return fmt.Errorf("%w: %s has %d unresolved fields", sgerrors.ErrIncomplete, path, len(missing))
	}
	if f != constants.FormatJSON {
		fmt.Fprintf(w, "%s has no unresolved fields\n", path)
	}
	return nil
}
