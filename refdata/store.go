// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package refdata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	sgerrors "github.com/netsvc-labs/servicegen/errors"
	log "github.com/sirupsen/logrus"
)

// Store is a Gateway over a cached Dataset.
// The dataset is loaded on first use, reloaded by Refresh, and reloaded on
// next use once it is older than the configured max age (0 keeps it forever).
type Store struct {
	mu       sync.RWMutex
	loader   Loader
	data     *Dataset
	loadedAt time.Time
	maxAge   time.Duration
	now      func() time.Time
}

type StoreOption func(*Store)

// WithMaxAge makes Ensure reload data older than d.
func WithMaxAge(d time.Duration) StoreOption {
	return func(s *Store) {
		s.maxAge = d
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(loader Loader, opts ...StoreOption) *Store {
	s := &Store{
		loader: loader,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewStaticStore returns a Store serving a fixed dataset that is never reloaded.
func NewStaticStore(ds *Dataset) *Store {
	s := NewStore(nil)
	s.data = ds
	s.loadedAt = s.now()
	return s
}

// Refresh reloads the dataset from the loader.
// On failure the previously loaded data stays in place.
func (s *Store) Refresh(ctx context.Context) error {
	if s.loader == nil {
		return nil
	}

	ds, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reference data: %w", err)
	}
	if ds == nil {
		return errors.New("failed to load reference data: loader returned no data")
	}

	s.mu.Lock()
	s.data = ds
	s.loadedAt = s.now()
	s.mu.Unlock()

	log.Debugf("reference data loaded: %d customers, %d devices, %d sites, %s",
		len(ds.Customers), len(ds.Devices), len(ds.Sites), ds.Topology)

	return nil
}

// Ensure loads the dataset if it was never loaded or is stale.
func (s *Store) Ensure(ctx context.Context) error {
	s.mu.RLock()
	fresh := s.data != nil && (s.maxAge == 0 || s.now().Sub(s.loadedAt) < s.maxAge)
	s.mu.RUnlock()

	if fresh {
		return nil
	}
	return s.Refresh(ctx)
}

func (s *Store) snapshot() *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return &Dataset{}
	}
	return s.data
}

// Dataset returns the currently loaded dataset, empty if nothing was loaded yet.
func (s *Store) Dataset() *Dataset {
	return s.snapshot()
}

// CustomerID returns the id of the customer with the given name, ignoring case.
func (s *Store) CustomerID(name string) (string, bool) {
	for _, c := range s.snapshot().Customers {
		if strings.EqualFold(c.Name, name) {
			return c.ID, true
		}
	}
	return "", false
}

// DeviceAndSite returns the device id and site id of the device with the given hostname, ignoring case.
func (s *Store) DeviceAndSite(hostname string) (string, string, bool) {
	for _, d := range s.snapshot().Devices {
		if strings.EqualFold(d.Hostname, hostname) {
			return d.ID, d.SiteID, true
		}
	}
	return "", "", false
}

// SiteDetails returns the site with the given id, ignoring case.
func (s *Store) SiteDetails(siteID string) (Site, bool) {
	for _, site := range s.snapshot().Sites {
		if strings.EqualFold(site.ID, siteID) {
			return site, true
		}
	}
	return Site{}, false
}

// PostalCode navigates the topology resource infra -> instance -> site and returns
// the first postal code rule matching both country code and site name.
func (s *Store) PostalCode(infraID, siteID, countryCode, siteName string) (string, error) {
	ds := s.snapshot()

	if ds.Topology == nil {
		return "", fmt.Errorf("%w: no topology resource loaded", sgerrors.ErrNotFound)
	}

	infra, ok := ds.Topology.Resource.Location.CustomerID[infraID]
	if !ok {
		return "", fmt.Errorf("%w: infra %q is not available in the topology resource", sgerrors.ErrNotFound, infraID)
	}

	inst, ok := infra.InstanceID[ds.TopologyInstance]
	if !ok {
		return "", fmt.Errorf("%w: topology instance %q is not available for infra %q",
			sgerrors.ErrNotFound, ds.TopologyInstance, infraID)
	}

	pop, ok := inst.Pop[siteID]
	if !ok {
		return "", fmt.Errorf("%w: site %q is not available in the topology resource for postal code",
			sgerrors.ErrNotFound, siteID)
	}

	for _, p := range pop.Numbered.Properties.PostalCodeMatches {
		if p.CountryCode == countryCode && p.Name == siteName {
			return p.Regex, nil
		}
	}

	return "", fmt.Errorf("%w: country code %q and site name %q do not match any postal code of site %q",
		sgerrors.ErrNotFound, countryCode, siteName, siteID)
}
