// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package document

import (
	"fmt"

	"github.com/netsvc-labs/servicegen/types"
)

// Keys of the l2vpn service document.
const (
	KeyDesignID     = "design_id"
	KeyInstanceID   = "instance_id"
	KeyInstanceUUID = "instance_uuid"
	KeyCustomerID   = "customer_id"

	KeyService             = "l2vpn_svc"
	KeySites               = "sites"
	KeySite                = "site"
	KeySiteID              = "site_id"
	KeyLocations           = "locations"
	KeyLocation            = "location"
	KeyLocationID          = "location_id"
	KeyCountryCode         = "country_code"
	KeyPostalCode          = "postal_code"
	KeySiteNetworkAccesses = "site_network_accesses"
	KeySiteNetworkAccess   = "site_network_access"
	KeyNetworkAccessID     = "network_access_id"
	KeyConnection          = "connection"
	KeyEthInfType          = "eth_inf_type"
	KeyTaggedInterface     = "tagged_interface"
	KeyUntaggedInterface   = "untagged_interface"
)

// siteContainer returns l2vpn_svc.sites.
func siteContainer(doc *Map) (*Map, error) {
	svc, ok := doc.GetMap(KeyService)
	if !ok {
		return nil, fmt.Errorf("document has no %q object", KeyService)
	}
	sites, ok := svc.GetMap(KeySites)
	if !ok {
		return nil, fmt.Errorf("%s has no %q object", KeyService, KeySites)
	}
	return sites, nil
}

// Sites returns the site objects under l2vpn_svc.sites.site.
func Sites(doc *Map) ([]*Map, error) {
	c, err := siteContainer(doc)
	if err != nil {
		return nil, err
	}
	l, ok := c.GetList(KeySite)
	if !ok {
		return nil, fmt.Errorf("%s.%s has no %q list", KeyService, KeySites, KeySite)
	}

	sites := make([]*Map, 0, len(l))
	for i, item := range l {
		s, ok := item.(*Map)
		if !ok || s == nil {
			return nil, fmt.Errorf("%s.%s.%s[%d] is not an object", KeyService, KeySites, KeySite, i)
		}
		sites = append(sites, s)
	}
	return sites, nil
}

// SetSites replaces the site list under l2vpn_svc.sites.site.
func SetSites(doc *Map, sites []*Map) error {
	c, err := siteContainer(doc)
	if err != nil {
		return err
	}
	l := make([]any, len(sites))
	for i, s := range sites {
		l[i] = s
	}
	c.Set(KeySite, l)
	return nil
}

// Accesses returns the site_network_accesses.site_network_access objects of a site.
func Accesses(site *Map) []*Map {
	c, ok := site.GetMap(KeySiteNetworkAccesses)
	if !ok {
		return nil
	}
	l, _ := c.GetList(KeySiteNetworkAccess)

	var out []*Map
	for _, item := range l {
		if a, ok := item.(*Map); ok && a != nil {
			out = append(out, a)
		}
	}
	return out
}

// PrimaryLocation returns locations.location[0] of a site.
func PrimaryLocation(site *Map) (*Map, bool) {
	c, ok := site.GetMap(KeyLocations)
	if !ok {
		return nil, false
	}
	l, ok := c.GetList(KeyLocation)
	if !ok || len(l) == 0 {
		return nil, false
	}
	loc, ok := l[0].(*Map)
	return loc, ok && loc != nil
}

// Requirements lists every site network access of the document that takes
// an interface configuration, in document order.
func Requirements(doc *Map) ([]types.SiteRef, error) {
	sites, err := Sites(doc)
	if err != nil {
		return nil, err
	}

	var refs []types.SiteRef
	for _, site := range sites {
		cc := ""
		if loc, ok := PrimaryLocation(site); ok {
			cc = loc.GetString(KeyCountryCode)
		}
		siteID := site.GetString(KeySiteID)
		if siteID == "" {
			siteID = "unknown_site"
		}

		for _, a := range Accesses(site) {
			accessID := a.GetString(KeyNetworkAccessID)
			if accessID == "" {
				accessID = "unknown_access"
			}
			refs = append(refs, types.SiteRef{
				SiteID:      siteID,
				AccessID:    accessID,
				CountryCode: cc,
			})
		}
	}
	return refs, nil
}
