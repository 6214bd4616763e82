// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package rdclient

import (
	"context"
	"net/http"
	"testing"

	"github.com/h2non/gock"
	"github.com/netsvc-labs/servicegen/config"
	"github.com/netsvc-labs/servicegen/refdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://rd.example.net"

func testClient() *Client {
	c := New(&config.Config{
		BaseURL:           testBaseURL,
		OrgID:             "org-1",
		Username:          "admin",
		Password:          "secret",
		CustomersEndpoint: config.DefaultCustomersPath,
		DevicesEndpoint:   config.DefaultDevicesPath,
		SitesEndpoint:     config.DefaultSitesPath,
		TopologyEndpoint:  config.DefaultTopologyPath,
		TopologyFileName:  "topo-prod",
		OperatorName:      config.DefaultOperatorName,
	})
	gock.InterceptClient(c.httpClient)
	return c
}

func TestLoad(t *testing.T) {
	defer gock.Off()

	gock.New(testBaseURL).
		Get("/service-orchestration/api/v1/orgs/org-1/order/customers").
		MatchHeader("Authorization", "^Basic ").
		Reply(200).
		JSON([]refdata.Customer{
			{ID: "op-0000", Name: "network-operator"},
			{ID: "c-1", Name: "AcmeCo"},
		})
	gock.New(testBaseURL).
		Get("/api/v1/orgs/org-1/inventory").
		Reply(200).
		JSON(map[string]interface{}{
			"devices": []refdata.Device{{ID: "dev-kh1", Hostname: "kh-router1", SiteID: "SITE-KH-PNH"}},
		})
	gock.New(testBaseURL).
		Get("/api/v1/orgs/org-1/sites").
		Reply(200).
		JSON([]refdata.Site{{ID: "SITE-KH-PNH", Name: "Phnom Penh", CountryCode: "KH"}})
	gock.New(testBaseURL).
		Get("/service-orchestration/api/v1/orgs/org-1/order/customers/op-0000/resources/topo-prod").
		Reply(200).
		BodyString(`{"resource":{"location":{"customer_id":{"op-0000":{"instance_id":{"topo-prod":{"pop":{
			"SITE-KH-PNH":{"numbered":{"properties":{"postal_code_matches":[
				{"country_code":"KH","name":"Phnom Penh","regex":"120101"}]}}}}}}}}}}}`)

	c := testClient()
	ds, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, gock.IsDone(), "all endpoints must be called")

	s := refdata.NewStaticStore(ds)
	dev, site, ok := s.DeviceAndSite("kh-router1")
	assert.True(t, ok)
	assert.Equal(t, "dev-kh1", dev)
	assert.Equal(t, "SITE-KH-PNH", site)

	pc, err := s.PostalCode("op-0000", "SITE-KH-PNH", "KH", "Phnom Penh")
	require.NoError(t, err)
	assert.Equal(t, "120101", pc)
}

func TestLoadWithoutOperator(t *testing.T) {
	defer gock.Off()

	gock.New(testBaseURL).Get("/order/customers").Reply(200).JSON([]refdata.Customer{{ID: "c-1", Name: "AcmeCo"}})
	gock.New(testBaseURL).Get("/inventory").Reply(200).JSON(map[string]interface{}{"devices": []interface{}{}})
	gock.New(testBaseURL).Get("/sites").Reply(200).JSON([]interface{}{})

	ds, err := testClient().Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, ds.Topology)
}

func TestRequestErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		errMsg string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, errMsg: "401 Unauthorized"},
		{name: "forbidden", status: http.StatusForbidden, errMsg: "403 Forbidden"},
		{name: "not found", status: http.StatusNotFound, errMsg: "404 NotFound"},
		{name: "server error", status: http.StatusInternalServerError, body: `{"message":"db down"}`, errMsg: "db down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer gock.Off()
			gock.New(testBaseURL).
				Get("/api/v1/orgs/org-1/sites").
				Reply(tt.status).
				BodyString(tt.body)

			_, err := testClient().Sites(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
