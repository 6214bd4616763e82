// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

// Package rdclient fetches reference data (customers, devices, sites and the
// topology resource) from the Routing Director REST API.
package rdclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/netsvc-labs/servicegen/config"
	"github.com/netsvc-labs/servicegen/document"
	"github.com/netsvc-labs/servicegen/refdata"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Client talks to the Routing Director API using basic authentication.
type Client struct {
	baseURL  string
	orgID    string
	username string
	password string

	customersPath string
	devicesPath   string
	sitesPath     string
	topologyPath  string
	topoFileName  string
	operatorName  string

	httpClient *http.Client
}

// ErrorMessage is the error body returned by the API.
type ErrorMessage struct {
	ErrorMessage string `json:"error_message"`
	Message      string `json:"message"`
}

func (e ErrorMessage) String() string {
	if e.ErrorMessage != "" {
		return e.ErrorMessage
	}
	return e.Message
}

type devicesResponse struct {
	Devices []refdata.Device `json:"devices"`
}

// New builds a client from the configuration.
func New(c *config.Config) *Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if c.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // nolint: gosec
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = config.DefaultTimeout
	}

	return &Client{
		baseURL:       strings.TrimSuffix(c.BaseURL, "/"),
		orgID:         c.OrgID,
		username:      c.Username,
		password:      c.Password,
		customersPath: c.CustomersEndpoint,
		devicesPath:   c.DevicesEndpoint,
		sitesPath:     c.SitesEndpoint,
		topologyPath:  c.TopologyEndpoint,
		topoFileName:  c.TopologyFileName,
		operatorName:  c.OperatorName,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// endpoint fills the {org_id}, {infra_id} and {topo_file_name} tokens of an endpoint pattern.
func (c *Client) endpoint(pattern, infraID string) string {
	return document.SubstituteString(pattern, map[string]string{
		"{org_id}":         c.orgID,
		"{infra_id}":       infraID,
		"{topo_file_name}": c.topoFileName,
	})
}

// Request performs an API call and decodes the JSON response into targetStruct.
func (c *Client) Request(ctx context.Context, method, path string, targetStruct, data interface{}) error {
	var body io.Reader
	if data != nil {
		jv, err := json.Marshal(data)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
		body = bytes.NewBuffer(jv)
	}

	url := c.baseURL + path
	log.Debugf("%s %s", method, url)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return errors.Wrapf(err, "failed to build request for %s", url)
	}

	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, url)
	}
	defer resp.Body.Close()

	log.Debugf("%s %s: %d in %s", method, url, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("401 Unauthorized, check the Routing Director username and password")
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("403 Forbidden, insufficient permissions for %s", path)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("404 NotFound: %s", path)
	case resp.StatusCode < 200 || resp.StatusCode > 204:
		var errorMessage ErrorMessage
		_ = json.NewDecoder(resp.Body).Decode(&errorMessage)
		return fmt.Errorf("request to %s failed (%d) %v", path, resp.StatusCode, errorMessage)
	case resp.StatusCode == http.StatusNoContent || targetStruct == nil:
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(targetStruct); err != nil {
		return errors.Wrapf(err, "error decoding body of %s", path)
	}
	return nil
}

// Customers returns the customer roster.
func (c *Client) Customers(ctx context.Context) ([]refdata.Customer, error) {
	var customers []refdata.Customer
	err := c.Request(ctx, http.MethodGet, c.endpoint(c.customersPath, ""), &customers, nil)
	return customers, err
}

// Devices returns the device inventory.
func (c *Client) Devices(ctx context.Context) ([]refdata.Device, error) {
	var resp devicesResponse
	err := c.Request(ctx, http.MethodGet, c.endpoint(c.devicesPath, ""), &resp, nil)
	return resp.Devices, err
}

// Sites returns all sites.
func (c *Client) Sites(ctx context.Context) ([]refdata.Site, error) {
	var sites []refdata.Site
	err := c.Request(ctx, http.MethodGet, c.endpoint(c.sitesPath, ""), &sites, nil)
	return sites, err
}

// Topology returns the topology resource owned by the given infra customer.
func (c *Client) Topology(ctx context.Context, infraID string) (*refdata.Topology, error) {
	topo := &refdata.Topology{}
	err := c.Request(ctx, http.MethodGet, c.endpoint(c.topologyPath, infraID), topo, nil)
	if err != nil {
		return nil, err
	}
	return topo, nil
}

// Load implements refdata.Loader by fetching every reference collection.
// The topology resource is keyed by the operator customer id, so customers are fetched first.
func (c *Client) Load(ctx context.Context) (*refdata.Dataset, error) {
	customers, err := c.Customers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch customers")
	}

	devices, err := c.Devices(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch devices")
	}

	sites, err := c.Sites(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch sites")
	}

	ds := &refdata.Dataset{
		Customers:        customers,
		Devices:          devices,
		Sites:            sites,
		TopologyInstance: c.topoFileName,
	}

	infraID, ok := refdata.NewStaticStore(ds).CustomerID(c.operatorName)
	if !ok {
		log.Warnf("operator customer %q not found, postal codes can't be resolved", c.operatorName)
		return ds, nil
	}

	ds.Topology, err = c.Topology(ctx, infraID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch topology resource")
	}

	log.Infof("reference data fetched from %s", c.baseURL)
	return ds, nil
}
