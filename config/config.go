// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads the settings of servicegen from the environment and an optional env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
)

// environment variable names
const (
	EnvBaseURL            = "BASE_URL"
	EnvOrgID              = "ORG_ID"
	EnvUsername           = "USERNAME"
	EnvPassword           = "PASSWORD"
	EnvCustomersEndpoint  = "CUSTOMERS_API_ENDPOINT"
	EnvDevicesEndpoint    = "DEVICES_API_ENDPOINT"
	EnvSitesEndpoint      = "SITES_API_ENDPOINT"
	EnvTopologyEndpoint   = "TOPO_API_ENDPOINT"
	EnvTopologyFileName   = "TOPO_FILE_NAME"
	EnvOperatorName       = "OPERATOR_NAME"
	EnvOutputDir          = "OUTPUT_DIR"
	EnvTemplateDir        = "TEMPLATE_DIR"
	EnvRefDataFile        = "REFDATA_FILE"
	EnvInsecure           = "RD_INSECURE"
	EnvTimeout            = "RD_TIMEOUT"
	EnvRefDataMaxAge      = "REFDATA_MAX_AGE"
	DefaultEnvFile        = ".env"
	DefaultOutputDir      = "payload"
	DefaultOperatorName   = "network-operator"
	DefaultTimeout        = 60 * time.Second
	DefaultCustomersPath  = "/service-orchestration/api/v1/orgs/{org_id}/order/customers"
	DefaultDevicesPath    = "/api/v1/orgs/{org_id}/inventory"
	DefaultSitesPath      = "/api/v1/orgs/{org_id}/sites"
	DefaultTopologyPath   = "/service-orchestration/api/v1/orgs/{org_id}/order/customers/{infra_id}/resources/{topo_file_name}"
	defaultTopologyInstFn = "topo"
)

// Config holds everything needed to build the reference data source,
// resolve templates and persist documents.
type Config struct {
	BaseURL  string
	OrgID    string
	Username string
	Password string

	CustomersEndpoint string
	DevicesEndpoint   string
	SitesEndpoint     string
	TopologyEndpoint  string
	TopologyFileName  string

	// OperatorName is the customer whose id keys the topology resource.
	OperatorName string

	OutputDir   string
	TemplateDir string
	// RefDataFile, when set, replaces the HTTP reference data source with a fixture file.
	RefDataFile string

	Insecure      bool
	Timeout       time.Duration
	RefDataMaxAge time.Duration
}

// Load builds a Config from the process environment overlaid with the given env file.
// A missing default env file is not an error, a missing explicitly named one is.
func Load(envFile string) (*Config, error) {
	values := map[string]string{}

	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}

	path, err := homedir.Expand(envFile)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err == nil {
		values, err = godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
		}
		log.Debugf("loaded %d settings from %s", len(values), path)
	} else if explicit {
		return nil, fmt.Errorf("env file %s: %w", path, err)
	}

	// env file values win over the process environment
	get := func(key, def string) string {
		if v, ok := values[key]; ok && v != "" {
			return v
		}
		if v := os.Getenv(key); v != "" {
			return v
		}
		return def
	}

	c := &Config{
		BaseURL:           get(EnvBaseURL, ""),
		OrgID:             get(EnvOrgID, ""),
		Username:          get(EnvUsername, ""),
		Password:          get(EnvPassword, ""),
		CustomersEndpoint: get(EnvCustomersEndpoint, DefaultCustomersPath),
		DevicesEndpoint:   get(EnvDevicesEndpoint, DefaultDevicesPath),
		SitesEndpoint:     get(EnvSitesEndpoint, DefaultSitesPath),
		TopologyEndpoint:  get(EnvTopologyEndpoint, DefaultTopologyPath),
		TopologyFileName:  get(EnvTopologyFileName, defaultTopologyInstFn),
		OperatorName:      get(EnvOperatorName, DefaultOperatorName),
		OutputDir:         get(EnvOutputDir, DefaultOutputDir),
		TemplateDir:       get(EnvTemplateDir, ""),
		RefDataFile:       get(EnvRefDataFile, ""),
		Timeout:           DefaultTimeout,
	}

	if v := get(EnvInsecure, ""); v != "" {
		c.Insecure, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvInsecure, err)
		}
	}
	if v := get(EnvTimeout, ""); v != "" {
		c.Timeout, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
	}
	if v := get(EnvRefDataMaxAge, ""); v != "" {
		c.RefDataMaxAge, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvRefDataMaxAge, err)
		}
	}

	if err := c.ExpandPaths(); err != nil {
		return nil, err
	}
	return c, nil
}

// ExpandPaths resolves a leading ~ in the path settings.
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{&c.OutputDir, &c.TemplateDir, &c.RefDataFile} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// Validate checks that the HTTP reference data source can be used.
func (c *Config) Validate() error {
	if c.RefDataFile != "" {
		return nil
	}
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%s must be set when no reference data file is given", EnvBaseURL)
	case c.Username == "" || c.Password == "":
		return fmt.Errorf("%s and %s must be set to query Routing Director", EnvUsername, EnvPassword)
	}
	return nil
}
