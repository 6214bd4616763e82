// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

// Package accessconfig collects the interface configuration of every site of a
// resolved service document, one call at a time, and renders it into the document.
package accessconfig

import (
	"fmt"
	"strings"
	"sync"

	"github.com/netsvc-labs/servicegen/constants"
	"github.com/netsvc-labs/servicegen/document"
	sgerrors "github.com/netsvc-labs/servicegen/errors"
	"github.com/netsvc-labs/servicegen/types"
	"github.com/netsvc-labs/servicegen/utils"
	log "github.com/sirupsen/logrus"
)

// State is the collection state of a site.
type State int

const (
	StateUnset State = iota
	StateTypeSelected
	StateParametersSet
	StateValidated
)

func (s State) String() string {
	switch s {
	case StateTypeSelected:
		return "type selected"
	case StateParametersSet:
		return "incomplete"
	case StateValidated:
		return "complete"
	}
	return "not set"
}

// names of the collected fields as reported in missing field lists
const (
	FieldSpeed      = "speed"
	FieldLLDP       = "lldp"
	FieldOAMEnabled = "oam_enabled"
	FieldCVLANID    = "cvlan_id"
)

// TaggedFields is a possibly partial tagged configuration, nil fields are left as they are.
type TaggedFields struct {
	Speed      *string
	LLDP       *bool
	OAMEnabled *bool
}

// draft is the working configuration of one site.
type draft struct {
	accessID string
	typ      types.InterfaceType

	speed      *string
	lldp       *bool
	oamEnabled *bool
	cvlanID    *int
}

func (d *draft) clear() {
	d.speed, d.lldp, d.oamEnabled, d.cvlanID = nil, nil, nil, nil
}

func (d *draft) missing() []string {
	var m []string
	switch d.typ {
	case types.InterfaceTypeTagged:
		if d.speed == nil {
			m = append(m, FieldSpeed)
		}
		if d.lldp == nil {
			m = append(m, FieldLLDP)
		}
		if d.oamEnabled == nil {
			m = append(m, FieldOAMEnabled)
		}
	case types.InterfaceTypeUntagged:
		if d.cvlanID == nil {
			m = append(m, FieldCVLANID)
		}
	}
	return m
}

func (d *draft) state() State {
	if d == nil || d.typ == types.InterfaceTypeUnset {
		return StateUnset
	}
	missing := d.missing()
	switch {
	case len(missing) == 0:
		return StateValidated
	case d.speed == nil && d.lldp == nil && d.oamEnabled == nil && d.cvlanID == nil:
		return StateTypeSelected
	}
	return StateParametersSet
}

// connection returns the tagged union value of a validated draft.
func (d *draft) connection() (Connection, bool) {
	if d.state() != StateValidated {
		return nil, false
	}
	if d.typ == types.InterfaceTypeTagged {
		return PortConnection{Speed: *d.speed, LLDP: *d.lldp, OAMEnabled: *d.oamEnabled}, true
	}
	return Dot1QConnection{CVLANID: *d.cvlanID}, true
}

// SiteStatus is the collection status of a site.
type SiteStatus struct {
	SiteID      string
	AccessID    string
	CountryCode string
	State       State
	Type        types.InterfaceType
	// Missing names the fields still needed for the chosen type.
	Missing    []string
	Connection Connection
}

func (s SiteStatus) String() string {
	switch s.State {
	case StateUnset:
		return fmt.Sprintf("%s (%s): interface type not set", s.SiteID, s.CountryCode)
	case StateValidated:
		return fmt.Sprintf("%s (%s): %s - complete, %s", s.SiteID, s.CountryCode, s.Type, s.Connection)
	}
	return fmt.Sprintf("%s (%s): %s - missing: %s", s.SiteID, s.CountryCode, s.Type, strings.Join(s.Missing, ", "))
}

// IncompleteError is returned by Finalize when sites are not fully configured
// or the rendered document still carries placeholders.
type IncompleteError struct {
	Sites []SiteStatus
	// Unresolved lists placeholders left in the rendered document.
	Unresolved []document.Missing
}

func (e *IncompleteError) Error() string {
	var parts []string
	for _, s := range e.Sites {
		if len(s.Missing) > 0 {
			parts = append(parts, fmt.Sprintf("%s missing %s", s.SiteID, strings.Join(s.Missing, ", ")))
		} else {
			parts = append(parts, fmt.Sprintf("%s interface type not set", s.SiteID))
		}
	}
	for _, m := range e.Unresolved {
		parts = append(parts, "unresolved "+m.String())
	}
	return "cannot finalize: " + strings.Join(parts, "; ")
}

func (e *IncompleteError) Unwrap() error { return sgerrors.ErrIncomplete }

// SiteIDs returns the ids of the incomplete sites.
func (e *IncompleteError) SiteIDs() []string {
	ids := make([]string, 0, len(e.Sites))
	for _, s := range e.Sites {
		ids = append(ids, s.SiteID)
	}
	return ids
}

// Machine drives the interface configuration of a resolved document.
// A failed call leaves the collected state unchanged.
type Machine struct {
	mu       sync.Mutex
	doc      *document.Map
	sites    []types.SiteRef
	accesses map[string]map[string]bool
	drafts   map[string]*draft
	final    *document.Map
	// finalStatus is the status at the time of Finalize, drafts are dropped afterwards.
	finalStatus []SiteStatus
}

// New builds a machine for the sites and accesses found in doc. doc is not modified.
func New(doc *document.Map) (*Machine, error) {
	refs, err := document.Requirements(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sgerrors.ErrIncorrectInput, err)
	}

	m := &Machine{
		doc:      document.CloneMap(doc),
		accesses: map[string]map[string]bool{},
		drafts:   map[string]*draft{},
	}
	for _, r := range refs {
		if _, ok := m.accesses[r.SiteID]; !ok {
			m.accesses[r.SiteID] = map[string]bool{}
			m.sites = append(m.sites, r)
		}
		m.accesses[r.SiteID][r.AccessID] = true
	}

	log.Debugf("interface configuration needed for %d sites", len(m.sites))
	return m, nil
}

// Sites returns the sites (with their first access) that take an interface configuration.
func (m *Machine) Sites() []types.SiteRef {
	out := make([]types.SiteRef, len(m.sites))
	copy(out, m.sites)
	return out
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", sgerrors.ErrIncorrectInput, fmt.Sprintf(format, args...))
}

// draftFor returns the draft of a site that already has an interface type.
func (m *Machine) draftFor(siteID string) (*draft, error) {
	if _, ok := m.accesses[siteID]; !ok {
		return nil, invalid("unknown site %q", siteID)
	}
	d, ok := m.drafts[siteID]
	if !ok || d.typ == types.InterfaceTypeUnset {
		return nil, invalid("interface type not set for site %s, set the interface type first", siteID)
	}
	return d, nil
}

// SetInterfaceType chooses the interface type of a site. Choosing a different type than
// before drops the parameters collected so far.
func (m *Machine) SetInterfaceType(siteID, accessID string, typ types.InterfaceType) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.final != nil {
		return "", sgerrors.ErrFinalized
	}
	if typ != types.InterfaceTypeTagged && typ != types.InterfaceTypeUntagged {
		return "", invalid("interface type must be %q or %q", types.InterfaceTypeTagged, types.InterfaceTypeUntagged)
	}
	accesses, ok := m.accesses[siteID]
	if !ok {
		return "", invalid("unknown site %q", siteID)
	}
	if !accesses[accessID] {
		return "", invalid("site %s has no network access %q", siteID, accessID)
	}

	d, ok := m.drafts[siteID]
	if !ok {
		d = &draft{}
		m.drafts[siteID] = d
	}
	if d.typ != typ {
		d.clear()
	}
	d.typ = typ
	d.accessID = accessID

	next := "speed, LLDP and OAM settings"
	if typ == types.InterfaceTypeUntagged {
		next = "CVLAN ID"
	}
	log.Debugf("site %s set to %s", siteID, typ)
	return fmt.Sprintf("site %s configured as %s interface, next: %s", siteID, typ, next), nil
}

// SetTaggedConfig sets the complete configuration of a tagged site.
func (m *Machine) SetTaggedConfig(siteID, speed string, lldp, oamEnabled bool) (string, error) {
	return m.UpdateTaggedConfig(siteID, TaggedFields{Speed: &speed, LLDP: &lldp, OAMEnabled: &oamEnabled})
}

// UpdateTaggedConfig merges the given fields into the configuration of a tagged site.
func (m *Machine) UpdateTaggedConfig(siteID string, f TaggedFields) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.final != nil {
		return "", sgerrors.ErrFinalized
	}
	d, err := m.draftFor(siteID)
	if err != nil {
		return "", err
	}
	if d.typ != types.InterfaceTypeTagged {
		return "", invalid("site %s is not configured as tagged interface", siteID)
	}
	if f.Speed == nil && f.LLDP == nil && f.OAMEnabled == nil {
		return "", invalid("no tagged interface settings given for site %s", siteID)
	}

	var speed string
	if f.Speed != nil {
		speed = strings.TrimSpace(*f.Speed)
		if !utils.IsNumeric(speed) {
			return "", invalid("speed must be a numeric value (e.g. 1000, 10000), got %q", *f.Speed)
		}
	}

	if f.Speed != nil {
		d.speed = &speed
	}
	if f.LLDP != nil {
		v := *f.LLDP
		d.lldp = &v
	}
	if f.OAMEnabled != nil {
		v := *f.OAMEnabled
		d.oamEnabled = &v
	}

	return m.setMessage(siteID, d), nil
}

// SetUntaggedConfig sets the customer VLAN id of an untagged site.
func (m *Machine) SetUntaggedConfig(siteID string, cvlanID int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.final != nil {
		return "", sgerrors.ErrFinalized
	}
	d, err := m.draftFor(siteID)
	if err != nil {
		return "", err
	}
	if d.typ != types.InterfaceTypeUntagged {
		return "", invalid("site %s is not configured as untagged interface", siteID)
	}
	if cvlanID < constants.MinCVLANID || cvlanID > constants.MaxCVLANID {
		return "", invalid("CVLAN ID must be between %d and %d, got %d",
			constants.MinCVLANID, constants.MaxCVLANID, cvlanID)
	}

	d.cvlanID = &cvlanID
	return m.setMessage(siteID, d), nil
}

func (m *Machine) setMessage(siteID string, d *draft) string {
	if c, ok := d.connection(); ok {
		log.Debugf("site %s complete: %s", siteID, c)
		return fmt.Sprintf("%s interface configuration set for %s: %s", d.typ, siteID, c)
	}
	return fmt.Sprintf("%s interface configuration of %s updated, missing: %s",
		d.typ, siteID, strings.Join(d.missing(), ", "))
}

// Status reports the collection status of every site in document order.
func (m *Machine) Status() []SiteStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status()
}

func (m *Machine) status() []SiteStatus {
	if m.final != nil {
		out := make([]SiteStatus, len(m.finalStatus))
		copy(out, m.finalStatus)
		return out
	}

	out := make([]SiteStatus, 0, len(m.sites))
	for _, ref := range m.sites {
		s := SiteStatus{
			SiteID:      ref.SiteID,
			AccessID:    ref.AccessID,
			CountryCode: ref.CountryCode,
		}
		if d, ok := m.drafts[ref.SiteID]; ok {
			s.AccessID = d.accessID
			s.Type = d.typ
			s.State = d.state()
			s.Missing = d.missing()
			s.Connection, _ = d.connection()
		}
		out = append(out, s)
	}
	return out
}

// StatusReport renders Status as text, one line per site.
func (m *Machine) StatusReport() string {
	lines := []string{"configuration status:"}
	for _, s := range m.Status() {
		lines = append(lines, "  "+s.String())
	}
	return strings.Join(lines, "\n")
}

// Complete reports whether every site is validated.
func (m *Machine) Complete() bool {
	for _, s := range m.Status() {
		if s.State != StateValidated {
			return false
		}
	}
	return true
}

// Finalized reports whether Finalize succeeded.
func (m *Machine) Finalized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.final != nil
}

// Finalize renders the collected configuration into a copy of the document.
// It fails with an IncompleteError, without changing anything, unless every site is
// validated and the rendered document has no placeholders left.
// Once finalized, the machine only returns copies of the final document.
func (m *Machine) Finalize() (*document.Map, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.final != nil {
		return document.CloneMap(m.final), nil
	}

	status := m.status()
	var incomplete []SiteStatus
	for _, s := range status {
		if s.State != StateValidated {
			incomplete = append(incomplete, s)
		}
	}
	if len(incomplete) > 0 {
		return nil, &IncompleteError{Sites: incomplete}
	}

	doc := document.CloneMap(m.doc)
	sites, err := document.Sites(doc)
	if err != nil {
		return nil, err
	}
	for _, site := range sites {
		d, ok := m.drafts[site.GetString(document.KeySiteID)]
		if !ok {
			continue
		}
		c, _ := d.connection()
		for _, a := range document.Accesses(site) {
			conn, ok := a.GetMap(document.KeyConnection)
			if !ok {
				conn = document.NewMap()
				a.Set(document.KeyConnection, conn)
			}
			c.apply(conn)
		}
	}

	if _, unresolved := document.Scan(doc); len(unresolved) > 0 {
		return nil, &IncompleteError{Unresolved: unresolved}
	}

	m.final = doc
	m.finalStatus = status
	m.drafts = map[string]*draft{}
	log.Infof("interface configuration of %d sites finalized", len(m.sites))

	return document.CloneMap(doc), nil
}
