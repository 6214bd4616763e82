// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/netsvc-labs/servicegen/constants"
	"github.com/netsvc-labs/servicegen/refdata"
	"github.com/spf13/cobra"
)

var refdataFormat string

// refdataCmd represents the refdata command
var refdataCmd = &cobra.Command{
	Use:   "refdata",
	Short: "show the devices of the reference data with their site and postal code",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := checkFormat(refdataFormat, constants.FormatJSON, constants.FormatTable); err != nil {
			return err
		}
		store, err := newStore(cfg)
		if err != nil {
			return err
		}
		if err := store.Refresh(cmd.Context()); err != nil {
			return err
		}
		return printRefData(os.Stdout, store, cfg.OperatorName, refdataFormat)
	},
}

func init() {
	rootCmd.AddCommand(refdataCmd)
	refdataCmd.Flags().StringVarP(&refdataFormat, "format", "f", constants.FormatTable, "output format. One of [table, json]")
}

type deviceDetails struct {
	Hostname    string `json:"hostname"`
	DeviceID    string `json:"device_id"`
	SiteID      string `json:"site_id"`
	SiteName    string `json:"site_name,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
}

func printRefData(w io.Writer, store *refdata.Store, operatorName, f string) error {
	infraID, _ := store.CustomerID(operatorName)

	ds := store.Dataset()
	details := make([]deviceDetails, 0, len(ds.Devices))
	for _, d := range ds.Devices {
		det := deviceDetails{Hostname: d.Hostname, DeviceID: d.ID, SiteID: d.SiteID}
		if site, ok := store.SiteDetails(d.SiteID); ok {
			det.SiteName = site.Name
			det.CountryCode = site.CountryCode
			det.PostalCode = constants.NotApplicable
			if pc, err := store.PostalCode(infraID, d.SiteID, site.CountryCode, site.Name); err == nil {
				det.PostalCode = pc
			}
		}
		details = append(details, det)
	}
	sort.Slice(details, func(i, j int) bool {
		return details[i].Hostname < details[j].Hostname
	})

	if f == constants.FormatJSON {
		return writeJSON(w, details)
	}

	tabData := make([][]string, 0, len(details))
	for i, d := range details {
		tabData = append(tabData, []string{
			fmt.Sprintf("%d", i+1), d.Hostname, d.DeviceID, d.SiteID, d.SiteName, d.CountryCode, d.PostalCode,
		})
	}
	table := newTable(w, "#", "Hostname", "Device ID", "Site ID", "Site", "Country", "Postal Code")
	table.AppendBulk(tabData)
	table.Render()
	return nil
}
