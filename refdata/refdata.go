// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

// Package refdata holds the customer, device, site and topology reference data
// that service templates are resolved against, and the lookups over it.
package refdata

import (
	"context"
	"fmt"
)

// Customer is an entry of the customer roster.
type Customer struct {
	ID   string `json:"customer_id" yaml:"customer_id"`
	Name string `json:"name" yaml:"name"`
}

// Device is an inventory entry.
type Device struct {
	ID       string `json:"id" yaml:"id"`
	Hostname string `json:"hostname" yaml:"hostname"`
	SiteID   string `json:"siteId" yaml:"siteId"`
}

// Site is a site (point of presence) entry.
type Site struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	CountryCode string `json:"country_code" yaml:"country_code"`
	City        string `json:"city,omitempty" yaml:"city,omitempty"`
	Address     string `json:"address,omitempty" yaml:"address,omitempty"`
}

// PostalCodeMatch is one postal code rule of a site in the topology resource.
type PostalCodeMatch struct {
	CountryCode string `json:"country_code" yaml:"country_code"`
	Name        string `json:"name" yaml:"name"`
	Regex       string `json:"regex" yaml:"regex"`
}

// Topology is the hierarchical topology resource,
// keyed by infra (operator customer) id -> topology instance -> site (pop).
type Topology struct {
	Resource TopologyResource `json:"resource" yaml:"resource"`
}

type TopologyResource struct {
	Location TopologyLocation `json:"location" yaml:"location"`
}

type TopologyLocation struct {
	CustomerID map[string]TopologyInfra `json:"customer_id" yaml:"customer_id"`
}

type TopologyInfra struct {
	InstanceID map[string]TopologyInstance `json:"instance_id" yaml:"instance_id"`
}

type TopologyInstance struct {
	Pop map[string]TopologyPop `json:"pop" yaml:"pop"`
}

type TopologyPop struct {
	Numbered TopologyNumbered `json:"numbered" yaml:"numbered"`
}

type TopologyNumbered struct {
	Properties TopologyProperties `json:"properties" yaml:"properties"`
}

type TopologyProperties struct {
	PostalCodeMatches []PostalCodeMatch `json:"postal_code_matches" yaml:"postal_code_matches"`
}

// Dataset is a snapshot of all reference data.
type Dataset struct {
	Customers []Customer `json:"customers" yaml:"customers"`
	Devices   []Device   `json:"devices" yaml:"devices"`
	Sites     []Site     `json:"sites" yaml:"sites"`
	Topology  *Topology  `json:"topology,omitempty" yaml:"topology,omitempty"`
	// TopologyInstance is the instance key under which pops are looked up.
	TopologyInstance string `json:"topology_instance" yaml:"topology_instance"`
}

// Loader fetches a Dataset from its source.
type Loader interface {
	Load(ctx context.Context) (*Dataset, error)
}

// Gateway is the set of lookups the template resolver depends on.
// A miss is reported with ok=false (or ErrNotFound for PostalCode), never a panic.
type Gateway interface {
	CustomerID(name string) (string, bool)
	DeviceAndSite(hostname string) (deviceID, siteID string, ok bool)
	SiteDetails(siteID string) (Site, bool)
	PostalCode(infraID, siteID, countryCode, siteName string) (string, error)
}

func (t *Topology) String() string {
	if t == nil {
		return "<no topology>"
	}
	return fmt.Sprintf("topology with %d infra entries", len(t.Resource.Location.CustomerID))
}
