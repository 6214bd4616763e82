// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

// Package refdatatest provides a small reference dataset for tests.
package refdatatest

import "github.com/netsvc-labs/servicegen/refdata"

const (
	OperatorID       = "op-0000"
	CustomerID       = "c0ffee00-0000-4000-8000-000000000001"
	TopologyInstance = "topo-prod"
)

// Dataset returns a fresh dataset with two Cambodian devices (two sites),
// one Thai device and one device whose site has no postal code rule.
func Dataset() *refdata.Dataset {
	return &refdata.Dataset{
		Customers: []refdata.Customer{
			{ID: OperatorID, Name: "network-operator"},
			{ID: CustomerID, Name: "AcmeCo"},
		},
		Devices: []refdata.Device{
			{ID: "dev-kh1", Hostname: "kh-router1", SiteID: "SITE-KH-PNH"},
			{ID: "dev-kh2", Hostname: "kh-router2", SiteID: "SITE-KH-REP"},
			{ID: "dev-th1", Hostname: "th-router1", SiteID: "SITE-TH-BKK"},
			{ID: "dev-vn1", Hostname: "vn-router1", SiteID: "SITE-VN-HAN"},
		},
		Sites: []refdata.Site{
			{ID: "SITE-KH-PNH", Name: "Phnom Penh", CountryCode: "KH"},
			{ID: "SITE-KH-REP", Name: "Siem Reap", CountryCode: "KH"},
			{ID: "SITE-TH-BKK", Name: "Bangkok", CountryCode: "TH"},
			{ID: "SITE-VN-HAN", Name: "Hanoi", CountryCode: "VN"},
		},
		Topology: &refdata.Topology{
			Resource: refdata.TopologyResource{
				Location: refdata.TopologyLocation{
					CustomerID: map[string]refdata.TopologyInfra{
						OperatorID: {
							InstanceID: map[string]refdata.TopologyInstance{
								TopologyInstance: {
									Pop: map[string]refdata.TopologyPop{
										"SITE-KH-PNH": pop(refdata.PostalCodeMatch{CountryCode: "KH", Name: "Phnom Penh", Regex: "120101"}),
										"SITE-KH-REP": pop(refdata.PostalCodeMatch{CountryCode: "KH", Name: "Siem Reap", Regex: "171202"}),
										"SITE-TH-BKK": pop(
											refdata.PostalCodeMatch{CountryCode: "TH", Name: "Chiang Mai", Regex: "50000"},
											refdata.PostalCodeMatch{CountryCode: "TH", Name: "Bangkok", Regex: "10110"},
										),
										"SITE-VN-HAN": pop(refdata.PostalCodeMatch{CountryCode: "VN", Name: "Saigon", Regex: "700000"}),
									},
								},
							},
						},
					},
				},
			},
		},
		TopologyInstance: TopologyInstance,
	}
}

func pop(matches ...refdata.PostalCodeMatch) refdata.TopologyPop {
	return refdata.TopologyPop{
		Numbered: refdata.TopologyNumbered{
			Properties: refdata.TopologyProperties{PostalCodeMatches: matches},
		},
	}
}
