// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/netsvc-labs/servicegen/document"
	sgerrors "github.com/netsvc-labs/servicegen/errors"
	"github.com/netsvc-labs/servicegen/refdata"
	"github.com/netsvc-labs/servicegen/refdata/refdatatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver(opts ...Option) *Resolver {
	opts = append([]Option{
		WithInstanceIDGenerator(func(svc string) string { return svc + "_12345" }),
		WithUUIDGenerator(func() string { return "11111111-2222-3333-4444-555555555555" }),
	}, opts...)
	return New(refdata.NewStaticStore(refdatatest.Dataset()), opts...)
}

func siteAndAccessIDs(t *testing.T, doc *document.Map) ([]string, []string) {
	t.Helper()
	sites, err := document.Sites(doc)
	require.NoError(t, err)

	var siteIDs, accessIDs []string
	for _, s := range sites {
		siteIDs = append(siteIDs, s.GetString(document.KeySiteID))
		for _, a := range document.Accesses(s) {
			accessIDs = append(accessIDs, a.GetString(document.KeyNetworkAccessID))
		}
	}
	return siteIDs, accessIDs
}

func TestResolveTwoCountries(t *testing.T) {
	res, err := testResolver().Resolve(context.Background(), "evpn_vpws", "AcmeCo", []string{"kh-router1", "th-router1"})
	require.NoError(t, err)

	siteIDs, accessIDs := siteAndAccessIDs(t, res.Document)
	assert.Equal(t, []string{"kh_site1", "th_site1"}, siteIDs)
	assert.Equal(t, []string{"kh_link1", "th_link1"}, accessIDs)

	doc := res.Document
	assert.Equal(t, refdatatest.CustomerID, doc.GetString(document.KeyCustomerID))
	assert.Equal(t, "eline-evpn-vpws-csm", doc.GetString(document.KeyDesignID))
	assert.Equal(t, "evpnvpws12345", doc.GetString(document.KeyInstanceID))
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", doc.GetString(document.KeyInstanceUUID))

	sites, err := document.Sites(doc)
	require.NoError(t, err)
	loc, ok := document.PrimaryLocation(sites[1])
	require.True(t, ok)
	assert.Equal(t, "th_site1", loc.GetString(document.KeyLocationID))
	assert.Equal(t, "TH", loc.GetString(document.KeyCountryCode))
	assert.Equal(t, "10110", loc.GetString(document.KeyPostalCode))

	want := []string{"kh-router1", "th-router1"}
	var got []string
	for _, p := range res.Participants {
		got = append(got, p.Hostname)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, "dev-kh1", res.Participants[0].DeviceID)

	// only the interface fields are left, five per site
	require.True(t, res.HasMissing())
	assert.Len(t, res.Missing, 10)
	assert.Equal(t, document.Missing{
		Path:  "l2vpn_svc.sites.site[0].site_network_accesses.site_network_access[0].connection.eth_inf_type",
		Token: "{ETHERNET_INTF_TYPE}",
	}, res.Missing[0])
}

func TestResolvePerCountryCounters(t *testing.T) {
	res, err := testResolver().Resolve(context.Background(), "l2circuit", "acmeco",
		[]string{"kh-router1", "th-router1", "KH-ROUTER2"})
	require.NoError(t, err)

	siteIDs, accessIDs := siteAndAccessIDs(t, res.Document)
	if diff := cmp.Diff([]string{"kh_site1", "th_site1", "kh_site2"}, siteIDs); diff != "" {
		t.Errorf("site ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"kh_link1", "th_link1", "kh_link2"}, accessIDs); diff != "" {
		t.Errorf("access ids mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "171202", res.Participants[2].PostalCode)
}

func TestResolveSiteWithTwoAccesses(t *testing.T) {
	tmpl, err := document.ParseJSON([]byte(`{
		"design_id": "{DESIGN_IDENTIFIER}",
		"l2vpn_svc": {"sites": {"site": [{
			"site_id": "{SITE_ID}",
			"site_network_accesses": {"site_network_access": [
				{"network_access_id": "{ACCESS_ID}"},
				{"network_access_id": "{ACCESS_ID}"}
			]}
		}]}}
	}`))
	require.NoError(t, err)

	r := testResolver(WithTemplates(func(string) (*document.Map, error) { return tmpl, nil }))
	res, err := r.Resolve(context.Background(), "evpn_vpws", "AcmeCo",
		[]string{"kh-router1", "th-router1", "kh-router2"})
	require.NoError(t, err)

	siteIDs, accessIDs := siteAndAccessIDs(t, res.Document)
	if diff := cmp.Diff([]string{"kh_site1", "th_site1", "kh_site2"}, siteIDs); diff != "" {
		t.Errorf("site ids mismatch (-want +got):\n%s", diff)
	}
	want := []string{"kh_link1", "kh_link2", "th_link1", "th_link2", "kh_link3", "kh_link4"}
	if diff := cmp.Diff(want, accessIDs); diff != "" {
		t.Errorf("access ids mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "kh_link3", res.Participants[2].AccessID)
}

func TestResolveDoesNotModifyTemplate(t *testing.T) {
	tmpl, err := document.ParseJSON([]byte(`{
		"design_id": "{DESIGN_IDENTIFIER}",
		"l2vpn_svc": {"sites": {"site": [{
			"site_id": "{SITE_ID}",
			"note": "{HOSTNAME} at {SITE_NAME}",
			"site_network_accesses": {"site_network_access": [{"network_access_id": "{ACCESS_ID}"}]}
		}]}}
	}`))
	require.NoError(t, err)
	before, err := document.Marshal(tmpl)
	require.NoError(t, err)

	r := testResolver(WithTemplates(func(string) (*document.Map, error) { return tmpl, nil }))
	res, err := r.Resolve(context.Background(), "evpn_vpws", "AcmeCo", []string{"kh-router1", "th-router1"})
	require.NoError(t, err)
	assert.False(t, res.HasMissing())

	sites, err := document.Sites(res.Document)
	require.NoError(t, err)
	assert.Equal(t, "th-router1 at Bangkok", sites[1].GetString("note"))

	after, err := document.Marshal(tmpl)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name      string
		svc       string
		customer  string
		hostnames []string
		sentinel  error
		kind      string
		index     int
	}{
		{
			name: "unknown service type", svc: "l3vpn", customer: "AcmeCo",
			hostnames: []string{"kh-router1", "th-router1"}, sentinel: sgerrors.ErrIncorrectInput,
		},
		{
			name: "single hostname", svc: "evpn_vpws", customer: "AcmeCo",
			hostnames: []string{"kh-router1"}, sentinel: sgerrors.ErrIncorrectInput,
		},
		{
			name: "unknown customer", svc: "evpn_vpws", customer: "Globex",
			hostnames: []string{"kh-router1", "th-router1"}, sentinel: sgerrors.ErrNotFound, kind: LookupCustomer,
		},
		{
			name: "unknown hostname", svc: "evpn_vpws", customer: "AcmeCo",
			hostnames: []string{"kh-router1", "xx-router9"}, sentinel: sgerrors.ErrNotFound, kind: LookupDevice, index: 2,
		},
		{
			name: "no postal code", svc: "evpn_vpws", customer: "AcmeCo",
			hostnames: []string{"vn-router1", "th-router1"}, sentinel: sgerrors.ErrNotFound, kind: LookupPostalCode, index: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := testResolver().Resolve(context.Background(), tt.svc, tt.customer, tt.hostnames)
			require.Error(t, err)
			assert.Nil(t, res, "no partial document on failure")
			assert.ErrorIs(t, err, tt.sentinel)

			if tt.kind == "" {
				return
			}
			var lerr *LookupError
			require.True(t, errors.As(err, &lerr))
			assert.Equal(t, tt.kind, lerr.Kind)
			assert.Equal(t, tt.index, lerr.Participant)
		})
	}
}

func TestResolveMissingOperator(t *testing.T) {
	r := testResolver(WithOperatorName("other-operator"))
	_, err := r.Resolve(context.Background(), "evpn_vpws", "AcmeCo", []string{"kh-router1", "th-router1"})

	var lerr *LookupError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, LookupOperator, lerr.Kind)
	assert.EqualError(t, err, `operator "other-operator" not found`)
}
