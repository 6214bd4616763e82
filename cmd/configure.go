// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/netsvc-labs/servicegen/accessconfig"
	"github.com/netsvc-labs/servicegen/constants"
	"github.com/netsvc-labs/servicegen/session"
	"github.com/netsvc-labs/servicegen/types"
	"github.com/netsvc-labs/servicegen/utils"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const consoleHelp = `commands:
  type <site_id> [access_id] <tagged|untagged>   choose the interface type of a site
  tagged <site_id> <speed> <lldp> <oam>          set speed, LLDP and OAM of a tagged site
  tagged <site_id> [speed=N] [lldp=B] [oam=B]    set some of them
  untagged <site_id> <cvlan_id>                  set the CVLAN ID (1-4094) of an untagged site
  status                                         show the configuration status of every site
  finalize                                       render, validate and save the final document
  save                                           save the final document again
  show                                           print the current document
  help                                           show this help
  quit                                           leave`

var sessionID string

// configureCmd represents the configure command
var configureCmd = &cobra.Command{
	Use:   "configure HOSTNAME HOSTNAME [HOSTNAME...]",
	Short: "resolve a service and fill its interface configuration interactively",
	Long: "resolve the service template for the given devices, then collect the interface\n" +
		"configuration of every site one command at a time and save the final document",
	Aliases: []string{"conf"},
	Args:    cobra.MinimumNArgs(constants.MinParticipants),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore(cfg)
		if err != nil {
			return err
		}

		mgr := session.NewManager(newResolver(cfg, store), newWriter(cfg))
		sess := mgr.Open(sessionID)
		defer func() { _ = mgr.Close(sess.ID()) }()

		res, outcome, err := sess.Resolve(cmd.Context(), serviceType, customer, args)
		if err != nil {
			return err
		}
		printParticipants(os.Stdout, res.Participants)

		if outcome != nil {
			reportOutcome(os.Stdout, outcome)
			return nil
		}

		prompt := term.IsTerminal(int(os.Stdin.Fd()))
		return runConsole(sess, os.Stdin, os.Stdout, prompt)
	},
}

func init() {
	rootCmd.AddCommand(configureCmd)

	configureCmd.Flags().StringVarP(&serviceType, "service", "s", constants.ServiceEVPNVPWS,
		"service type. One of [evpn_vpws, l2circuit]")
	configureCmd.Flags().StringVarP(&customer, "customer", "c", "", "customer name")
	_ = configureCmd.MarkFlagRequired("customer")
	configureCmd.Flags().StringVarP(&sessionID, "session", "", "", "session id (random by default)")
}

// runConsole reads one command per line from in and applies it to the session until
// quit or end of input. Command errors are printed and the loop goes on.
func runConsole(sess *session.Session, in io.Reader, out io.Writer, prompt bool) error {
	fmt.Fprintf(out, "\n%d sites need an interface configuration, type help for the commands\n", len(sess.Status()))
	printStatus(out, sess.Status())

	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(out, "servicegen> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		fields, err := shlex.Split(utils.StripNonPrintChars(scanner.Text()))
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if len(fields) == 0 {
			continue
		}

		quit, err := runTurn(sess, fields, out)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// runTurn applies a single console command.
func runTurn(sess *session.Session, fields []string, out io.Writer) (bool, error) {
	args := fields[1:]
	var (
		msg string
		err error
	)

	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprintln(out, consoleHelp)
		return false, nil
	case "status":
		printStatus(out, sess.Status())
		return false, nil
	case "show":
		return false, writeDocument(out, sess.Document(), constants.FormatJSON)
	case "type":
		msg, err = setType(sess, args)
	case "tagged":
		msg, err = setTagged(sess, args)
	case "untagged":
		msg, err = setUntagged(sess, args)
	case "finalize":
		outcome, ferr := sess.Finalize()
		if ferr != nil {
			var ierr *accessconfig.IncompleteError
			if errors.As(ferr, &ierr) && len(ierr.Sites) > 0 {
				printStatus(out, ierr.Sites)
			}
			return false, ferr
		}
		reportOutcome(out, outcome)
		return false, nil
	case "save":
		msg, err = sess.Save()
		if err == nil {
			msg = "saved to " + msg
		}
	default:
		return false, fmt.Errorf("unknown command %q, type help for the commands", fields[0])
	}

	if err != nil {
		return false, err
	}
	fmt.Fprintln(out, msg)
	return false, nil
}

func setType(sess *session.Session, args []string) (string, error) {
	var siteID, accessID, typ string
	switch len(args) {
	case 2:
		siteID, typ = args[0], args[1]
		for _, s := range sess.Status() {
			if s.SiteID == siteID {
				accessID = s.AccessID
			}
		}
	case 3:
		siteID, accessID, typ = args[0], args[1], args[2]
	default:
		return "", errors.New("usage: type <site_id> [access_id] <tagged|untagged>")
	}

	t, err := types.ParseInterfaceType(typ)
	if err != nil {
		return "", err
	}
	return sess.SetInterfaceType(siteID, accessID, t)
}

func setTagged(sess *session.Session, args []string) (string, error) {
	const usage = "usage: tagged <site_id> <speed> <lldp> <oam> or tagged <site_id> [speed=N] [lldp=B] [oam=B]"
	if len(args) < 2 {
		return "", errors.New(usage)
	}
	siteID := args[0]

	if len(args) == 4 && !strings.Contains(strings.Join(args[1:], ""), "=") {
		lldp, err := parseBool(args[2])
		if err != nil {
			return "", fmt.Errorf("lldp: %w", err)
		}
		oam, err := parseBool(args[3])
		if err != nil {
			return "", fmt.Errorf("oam: %w", err)
		}
		return sess.SetTaggedConfig(siteID, args[1], lldp, oam)
	}

	var f accessconfig.TaggedFields
	for _, a := range args[1:] {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			return "", errors.New(usage)
		}
		switch strings.ToLower(k) {
		case "speed":
			f.Speed = utils.Pointer(v)
		case "lldp":
			b, err := parseBool(v)
			if err != nil {
				return "", fmt.Errorf("lldp: %w", err)
			}
			f.LLDP = utils.Pointer(b)
		case "oam", "oam_enabled":
			b, err := parseBool(v)
			if err != nil {
				return "", fmt.Errorf("oam: %w", err)
			}
			f.OAMEnabled = utils.Pointer(b)
		default:
			return "", fmt.Errorf("unknown tagged setting %q", k)
		}
	}
	return sess.UpdateTaggedConfig(siteID, f)
}

func setUntagged(sess *session.Session, args []string) (string, error) {
	if len(args) != 2 {
		return "", errors.New("usage: untagged <site_id> <cvlan_id>")
	}
	cvlan, err := strconv.Atoi(args[1])
	if err != nil {
		return "", fmt.Errorf("CVLAN ID must be a number, got %q", args[1])
	}
	return sess.SetUntaggedConfig(args[0], cvlan)
}

// parseBool accepts the strconv.ParseBool forms plus yes/no and on/off.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "on", "enabled":
		return true, nil
	case "no", "n", "off", "disabled":
		return false, nil
	}
	return strconv.ParseBool(s)
}

func printStatus(w io.Writer, status []accessconfig.SiteStatus) {
	tabData := make([][]string, 0, len(status))
	for _, s := range status {
		details := strings.Join(s.Missing, ", ")
		if s.Connection != nil {
			details = s.Connection.String()
		} else if details != "" {
			details = "missing: " + details
		}
		tabData = append(tabData, []string{
			s.SiteID, s.AccessID, s.CountryCode, s.Type.String(), s.State.String(), details,
		})
	}
	table := newTable(w, "Site ID", "Access ID", "Country", "Type", "State", "Details")
	table.AppendBulk(tabData)
	table.Render()
}

func reportOutcome(w io.Writer, o *session.Outcome) {
	switch {
	case o.Saved() && o.ValidationErr != nil:
		fmt.Fprintf(w, "configuration saved to %s, it does not match the schema: %v\n", o.Path, o.ValidationErr)
	case o.ValidationErr != nil:
		fmt.Fprintf(w, "configuration complete but not saved: %v\nuse save to write it anyway\n", o.ValidationErr)
	case o.SaveErr != nil:
		fmt.Fprintf(w, "configuration complete, auto-save failed: %v\nuse save to retry\n", o.SaveErr)
	case o.Saved():
		log.Infof("configuration saved to %s", o.Path)
		fmt.Fprintf(w, "configuration complete, saved to %s\n", o.Path)
	default:
		fmt.Fprintln(w, "configuration complete")
	}
}
