// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package types

import (
	"fmt"
	"strings"
)

// InterfaceType is the ethernet interface type chosen for a site network access.
type InterfaceType string

const (
	InterfaceTypeUnset    InterfaceType = ""
	InterfaceTypeTagged   InterfaceType = "tagged"
	InterfaceTypeUntagged InterfaceType = "untagged"
)

// ParseInterfaceType parses a user supplied interface type, ignoring case and surrounding spaces.
func ParseInterfaceType(s string) (InterfaceType, error) {
	switch InterfaceType(strings.ToLower(strings.TrimSpace(s))) {
	case InterfaceTypeTagged:
		return InterfaceTypeTagged, nil
	case InterfaceTypeUntagged:
		return InterfaceTypeUntagged, nil
	}
	return InterfaceTypeUnset, fmt.Errorf("interface type must be %q or %q, got %q",
		InterfaceTypeTagged, InterfaceTypeUntagged, s)
}

func (t InterfaceType) String() string {
	if t == InterfaceTypeUnset {
		return "unset"
	}
	return string(t)
}

// SiteRef identifies a site network access that needs interface configuration.
type SiteRef struct {
	SiteID      string `json:"site_id"`
	AccessID    string `json:"network_access_id"`
	CountryCode string `json:"country_code"`
}

// Participant is the working record of one device taking part in a service,
// in the order the hostnames were given.
type Participant struct {
	Hostname    string `json:"hostname"`
	DeviceID    string `json:"device_id"`
	RefSiteID   string `json:"ref_site_id"`
	SiteName    string `json:"site_name"`
	CountryCode string `json:"country_code"`
	PostalCode  string `json:"postal_code"`
	// derived identifiers
	SiteID string `json:"site_id"`
	// AccessID is the id of the first site network access.
	AccessID string `json:"network_access_id"`
}
