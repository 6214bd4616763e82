// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/netsvc-labs/servicegen/constants"
	sgerrors "github.com/netsvc-labs/servicegen/errors"
	"github.com/netsvc-labs/servicegen/resolver"
	"github.com/netsvc-labs/servicegen/types"
	"github.com/netsvc-labs/servicegen/validate"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var save bool

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve HOSTNAME HOSTNAME [HOSTNAME...]",
	Short: "resolve a service template for the given devices",
	Long: "expand the service template with one site per device, in the given order,\n" +
		"and list the fields left for the interface configuration",
	Aliases: []string{"res"},
	Args:    cobra.MinimumNArgs(constants.MinParticipants),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(format, constants.FormatJSON, constants.FormatYAML, constants.FormatTable); err != nil {
			return err
		}

		store, err := newStore(cfg)
		if err != nil {
			return err
		}

		res, err := newResolver(cfg, store).Resolve(cmd.Context(), serviceType, customer, args)
		if err != nil {
			return err
		}

		if err := printResult(os.Stdout, res, format); err != nil {
			return err
		}

		if !save {
			return nil
		}
		if res.HasMissing() {
			return fmt.Errorf("%w: %d fields left, run the configure command to fill them",
				sgerrors.ErrIncomplete, len(res.Missing))
		}
		if err := validate.Final(res.Document); err != nil {
			log.Warn(err)
		}
		_, err = newWriter(cfg).Save(res.Document)
		return err
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(&serviceType, "service", "s", constants.ServiceEVPNVPWS,
		"service type. One of [evpn_vpws, l2circuit]")
	resolveCmd.Flags().StringVarP(&customer, "customer", "c", "", "customer name")
	_ = resolveCmd.MarkFlagRequired("customer")
	resolveCmd.Flags().StringVarP(&format, "format", "f", constants.FormatJSON,
		"output format. One of [json, yaml, table]")
	resolveCmd.Flags().BoolVarP(&save, "save", "", false,
		"save the document to the output directory if no fields are left to fill")
}

func printResult(w io.Writer, res *resolver.Result, f string) error {
	if f != constants.FormatTable {
		return writeDocument(w, res.Document, f)
	}

	printParticipants(w, res.Participants)
	if res.HasMissing() {
		fmt.Fprintf(w, "\n%d fields left to fill:\n", len(res.Missing))
		printMissing(w, res.Missing)
	}
	return nil
}

func printParticipants(w io.Writer, participants []types.Participant) {
	tabData := make([][]string, 0, len(participants))
	for i, p := range participants {
		tabData = append(tabData, []string{
			fmt.Sprintf("%d", i+1), p.Hostname, p.DeviceID, p.SiteName,
			p.CountryCode, p.PostalCode, p.SiteID, p.AccessID,
		})
	}
	table := newTable(w, "#", "Hostname", "Device ID", "Site", "Country", "Postal Code", "Site ID", "Access ID")
	table.AppendBulk(tabData)
	table.Render()
}
