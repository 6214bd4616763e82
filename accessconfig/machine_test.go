// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package accessconfig

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/netsvc-labs/servicegen/document"
	sgerrors "github.com/netsvc-labs/servicegen/errors"
	"github.com/netsvc-labs/servicegen/refdata"
	"github.com/netsvc-labs/servicegen/refdata/refdatatest"
	"github.com/netsvc-labs/servicegen/resolver"
	"github.com/netsvc-labs/servicegen/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolvedDoc(t *testing.T) *document.Map {
	t.Helper()
	r := resolver.New(refdata.NewStaticStore(refdatatest.Dataset()))
	res, err := r.Resolve(context.Background(), "evpn_vpws", "AcmeCo", []string{"kh-router1", "th-router1"})
	require.NoError(t, err)
	return res.Document
}

func newMachine(t *testing.T) *Machine {
	t.Helper()
	m, err := New(resolvedDoc(t))
	require.NoError(t, err)
	return m
}

func connections(t *testing.T, doc *document.Map) []*document.Map {
	t.Helper()
	sites, err := document.Sites(doc)
	require.NoError(t, err)

	var out []*document.Map
	for _, s := range sites {
		for _, a := range document.Accesses(s) {
			c, ok := a.GetMap(document.KeyConnection)
			require.True(t, ok)
			out = append(out, c)
		}
	}
	return out
}

func TestSites(t *testing.T) {
	m := newMachine(t)
	want := []types.SiteRef{
		{SiteID: "kh_site1", AccessID: "kh_link1", CountryCode: "KH"},
		{SiteID: "th_site1", AccessID: "th_link1", CountryCode: "TH"},
	}
	if diff := cmp.Diff(want, m.Sites()); diff != "" {
		t.Errorf("sites mismatch (-want +got):\n%s", diff)
	}
}

func TestFinalizeNeedsEverySite(t *testing.T) {
	m := newMachine(t)

	_, err := m.SetInterfaceType("kh_site1", "kh_link1", types.InterfaceTypeTagged)
	require.NoError(t, err)
	_, err = m.SetTaggedConfig("kh_site1", "1000", true, false)
	require.NoError(t, err)

	doc, err := m.Finalize()
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, sgerrors.ErrIncomplete)

	var ierr *IncompleteError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, []string{"th_site1"}, ierr.SiteIDs())
	assert.Contains(t, err.Error(), "th_site1")
	assert.False(t, m.Finalized())

	_, err = m.SetInterfaceType("th_site1", "th_link1", types.InterfaceTypeUntagged)
	require.NoError(t, err)
	_, err = m.SetUntaggedConfig("th_site1", 100)
	require.NoError(t, err)
	assert.True(t, m.Complete())

	doc, err = m.Finalize()
	require.NoError(t, err)
	assert.True(t, m.Finalized())

	has, missing := document.Scan(doc)
	assert.False(t, has, "unexpected placeholders %v", missing)

	conns := connections(t, doc)
	require.Len(t, conns, 2)

	kh := conns[0]
	assert.Equal(t, "tagged", kh.GetString(document.KeyEthInfType))
	_, ok := kh.Get(document.KeyTaggedInterface)
	assert.False(t, ok, "tagged_interface must be removed")
	intf, ok := kh.GetMap(document.KeyUntaggedInterface)
	require.True(t, ok)
	assert.Equal(t, "1000", intf.GetString("speed"))
	lldp, _ := intf.Get("lldp")
	assert.Equal(t, true, lldp)
	oam, ok := intf.GetMap("oam_802.3ah_link")
	require.True(t, ok)
	enabled, _ := oam.Get("enabled")
	assert.Equal(t, false, enabled)

	th := conns[1]
	assert.Equal(t, "untagged", th.GetString(document.KeyEthInfType))
	_, ok = th.Get(document.KeyUntaggedInterface)
	assert.False(t, ok, "untagged_interface must be removed")
	intf, ok = th.GetMap(document.KeyTaggedInterface)
	require.True(t, ok)
	assert.Equal(t, "dot1q", intf.GetString("type"))
	vlan, ok := intf.GetMap("dot1q_vlan_tagged")
	require.True(t, ok)
	cvlan, _ := vlan.Get("cvlan_id")
	assert.Equal(t, 100, cvlan)
	assert.Equal(t, "c-vlan", vlan.GetString("tg_type"))
}

func TestTypeMismatchKeepsState(t *testing.T) {
	m := newMachine(t)

	_, err := m.SetInterfaceType("kh_site1", "kh_link1", types.InterfaceTypeTagged)
	require.NoError(t, err)
	before := m.Status()

	_, err = m.SetUntaggedConfig("kh_site1", 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, sgerrors.ErrIncorrectInput)
	assert.Contains(t, err.Error(), "not configured as untagged")

	assert.Equal(t, before, m.Status())
	assert.Equal(t, StateTypeSelected, m.Status()[0].State)
}

func TestCVLANBoundaries(t *testing.T) {
	tests := []struct {
		cvlan int
		ok    bool
	}{
		{0, false},
		{1, true},
		{4094, true},
		{4095, false},
		{-1, false},
	}

	for _, tt := range tests {
		m := newMachine(t)
		_, err := m.SetInterfaceType("th_site1", "th_link1", types.InterfaceTypeUntagged)
		require.NoError(t, err)

		_, err = m.SetUntaggedConfig("th_site1", tt.cvlan)
		if tt.ok {
			assert.NoError(t, err, "cvlan %d", tt.cvlan)
			assert.Equal(t, StateValidated, m.Status()[1].State)
		} else {
			assert.ErrorIs(t, err, sgerrors.ErrIncorrectInput, "cvlan %d", tt.cvlan)
			assert.Equal(t, StateTypeSelected, m.Status()[1].State)
		}
	}
}

func TestSpeedMustBeNumeric(t *testing.T) {
	m := newMachine(t)
	_, err := m.SetInterfaceType("kh_site1", "kh_link1", types.InterfaceTypeTagged)
	require.NoError(t, err)

	for _, speed := range []string{"", "10G", "-1", "1.5"} {
		_, err = m.SetTaggedConfig("kh_site1", speed, true, true)
		assert.ErrorIs(t, err, sgerrors.ErrIncorrectInput, "speed %q", speed)
	}
	assert.Equal(t, StateTypeSelected, m.Status()[0].State)
}

func TestPartialTaggedConfig(t *testing.T) {
	m := newMachine(t)
	_, err := m.SetInterfaceType("kh_site1", "kh_link1", types.InterfaceTypeTagged)
	require.NoError(t, err)

	speed := "10000"
	msg, err := m.UpdateTaggedConfig("kh_site1", TaggedFields{Speed: &speed})
	require.NoError(t, err)
	assert.Contains(t, msg, "missing: lldp, oam_enabled")

	st := m.Status()[0]
	assert.Equal(t, StateParametersSet, st.State)
	assert.Equal(t, []string{FieldLLDP, FieldOAMEnabled}, st.Missing)

	// false counts as set
	no := false
	_, err = m.UpdateTaggedConfig("kh_site1", TaggedFields{LLDP: &no, OAMEnabled: &no})
	require.NoError(t, err)

	st = m.Status()[0]
	assert.Equal(t, StateValidated, st.State)
	assert.Equal(t, PortConnection{Speed: "10000"}, st.Connection)
}

func TestChangingTypeClearsParameters(t *testing.T) {
	m := newMachine(t)
	_, err := m.SetInterfaceType("kh_site1", "kh_link1", types.InterfaceTypeUntagged)
	require.NoError(t, err)
	_, err = m.SetUntaggedConfig("kh_site1", 200)
	require.NoError(t, err)

	// same type keeps the parameters
	_, err = m.SetInterfaceType("kh_site1", "kh_link1", types.InterfaceTypeUntagged)
	require.NoError(t, err)
	assert.Equal(t, StateValidated, m.Status()[0].State)

	_, err = m.SetInterfaceType("kh_site1", "kh_link1", types.InterfaceTypeTagged)
	require.NoError(t, err)
	st := m.Status()[0]
	assert.Equal(t, StateTypeSelected, st.State)
	assert.Equal(t, []string{FieldSpeed, FieldLLDP, FieldOAMEnabled}, st.Missing)
	assert.Nil(t, st.Connection)
}

func TestInvalidCalls(t *testing.T) {
	tests := []struct {
		name string
		call func(m *Machine) error
	}{
		{"invalid type", func(m *Machine) error {
			_, err := m.SetInterfaceType("kh_site1", "kh_link1", types.InterfaceType("trunk"))
			return err
		}},
		{"unknown site", func(m *Machine) error {
			_, err := m.SetInterfaceType("xx_site1", "kh_link1", types.InterfaceTypeTagged)
			return err
		}},
		{"unknown access", func(m *Machine) error {
			_, err := m.SetInterfaceType("kh_site1", "th_link1", types.InterfaceTypeTagged)
			return err
		}},
		{"config before type", func(m *Machine) error {
			_, err := m.SetTaggedConfig("kh_site1", "1000", true, true)
			return err
		}},
		{"empty tagged update", func(m *Machine) error {
			if _, err := m.SetInterfaceType("kh_site1", "kh_link1", types.InterfaceTypeTagged); err != nil {
				return nil
			}
			_, err := m.UpdateTaggedConfig("kh_site1", TaggedFields{})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine(t)
			assert.ErrorIs(t, tt.call(m), sgerrors.ErrIncorrectInput)
		})
	}
}

func TestStatusUnset(t *testing.T) {
	m := newMachine(t)
	for _, s := range m.Status() {
		assert.Equal(t, StateUnset, s.State)
		assert.Equal(t, types.InterfaceTypeUnset, s.Type)
	}
	assert.Contains(t, m.StatusReport(), "kh_site1 (KH): interface type not set")
}

func TestFinalizedMachine(t *testing.T) {
	m := newMachine(t)
	for _, s := range m.Sites() {
		_, err := m.SetInterfaceType(s.SiteID, s.AccessID, types.InterfaceTypeUntagged)
		require.NoError(t, err)
		_, err = m.SetUntaggedConfig(s.SiteID, 10)
		require.NoError(t, err)
	}

	first, err := m.Finalize()
	require.NoError(t, err)

	_, err = m.SetInterfaceType("kh_site1", "kh_link1", types.InterfaceTypeTagged)
	assert.ErrorIs(t, err, sgerrors.ErrFinalized)
	_, err = m.SetUntaggedConfig("kh_site1", 20)
	assert.ErrorIs(t, err, sgerrors.ErrFinalized)

	for _, s := range m.Status() {
		assert.Equal(t, StateValidated, s.State)
	}

	// the returned document is a copy
	first.Set(document.KeyDesignID, "changed")
	second, err := m.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "eline-evpn-vpws-csm", second.GetString(document.KeyDesignID))
}

func TestFinalizeReportsResidualPlaceholders(t *testing.T) {
	doc, err := document.ParseJSON([]byte(`{
		"design_id": "eline-evpn-vpws-csm",
		"l2vpn_svc": {"sites": {"site": [{
			"site_id": "kh_site1",
			"locations": {"location": [{"location_id": "kh_site1", "country_code": "KH", "postal_code": "{POSTAL_CODE}"}]},
			"site_network_accesses": {"site_network_access": [{"network_access_id": "kh_link1", "connection": {}}]}
		}]}}
	}`))
	require.NoError(t, err)

	m, err := New(doc)
	require.NoError(t, err)
	_, err = m.SetInterfaceType("kh_site1", "kh_link1", types.InterfaceTypeUntagged)
	require.NoError(t, err)
	_, err = m.SetUntaggedConfig("kh_site1", 300)
	require.NoError(t, err)

	_, err = m.Finalize()
	var ierr *IncompleteError
	require.ErrorAs(t, err, &ierr)
	require.Len(t, ierr.Unresolved, 1)
	assert.Equal(t, "l2vpn_svc.sites.site[0].locations.location[0].postal_code", ierr.Unresolved[0].Path)
	assert.False(t, m.Finalized())
}
