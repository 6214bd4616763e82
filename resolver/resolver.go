// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

// Package resolver expands a service template into a service instance document
// with one site per participating device.
package resolver

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/netsvc-labs/servicegen/constants"
	"github.com/netsvc-labs/servicegen/document"
	sgerrors "github.com/netsvc-labs/servicegen/errors"
	"github.com/netsvc-labs/servicegen/refdata"
	"github.com/netsvc-labs/servicegen/templates"
	"github.com/netsvc-labs/servicegen/types"
	"github.com/netsvc-labs/servicegen/utils"
	log "github.com/sirupsen/logrus"
)

// Result is a resolved service instance.
type Result struct {
	ServiceType  string
	Document     *document.Map
	Participants []types.Participant
	// Missing lists the placeholders left for the interface configuration exchange.
	Missing []document.Missing
}

// HasMissing reports whether the document still carries placeholders.
func (r *Result) HasMissing() bool {
	return len(r.Missing) > 0
}

// Lookup kinds reported by LookupError.
const (
	LookupCustomer   = "customer"
	LookupOperator   = "operator"
	LookupDevice     = "device"
	LookupSite       = "site"
	LookupPostalCode = "postal code"
)

// LookupError reports a reference data lookup that failed during resolution.
// Participant is the 1-based position of the hostname, 0 when the failure is not tied to one.
type LookupError struct {
	Kind        string
	Key         string
	Participant int
	Hostname    string
	Err         error
}

func (e *LookupError) Error() string {
	var b strings.Builder
	if e.Participant > 0 {
		fmt.Fprintf(&b, "participant %d (%s): ", e.Participant, e.Hostname)
	}
	fmt.Fprintf(&b, "%s %q not found", e.Kind, e.Key)
	if e.Err != nil && e.Err != sgerrors.ErrNotFound {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *LookupError) Unwrap() error {
	if e.Err == nil {
		return sgerrors.ErrNotFound
	}
	return e.Err
}

// ensurer is implemented by gateways that load their data lazily, such as refdata.Store.
type ensurer interface {
	Ensure(ctx context.Context) error
}

type Resolver struct {
	gateway      refdata.Gateway
	templates    templates.Source
	operatorName string
	newInstance  func(serviceType string) string
	newUUID      func() string
}

type Option func(r *Resolver)

// WithTemplates sets the template source, the built-in templates are used by default.
func WithTemplates(src templates.Source) Option {
	return func(r *Resolver) {
		if src != nil {
			r.templates = src
		}
	}
}

// WithOperatorName sets the customer whose id keys the topology resource.
func WithOperatorName(name string) Option {
	return func(r *Resolver) {
		if name != "" {
			r.operatorName = name
		}
	}
}

// WithInstanceIDGenerator overrides how the raw instance identifier is generated.
// The generated value is still cleaned.
func WithInstanceIDGenerator(f func(serviceType string) string) Option {
	return func(r *Resolver) {
		r.newInstance = f
	}
}

// WithUUIDGenerator overrides the instance uuid generator.
func WithUUIDGenerator(f func() string) Option {
	return func(r *Resolver) {
		r.newUUID = f
	}
}

func New(gw refdata.Gateway, opts ...Option) *Resolver {
	r := &Resolver{
		gateway:      gw,
		templates:    templates.DirSource(""),
		operatorName: "network-operator",
		newInstance: func(serviceType string) string {
			return fmt.Sprintf("%s_%d", serviceType, 10000+rand.Intn(90000)) // nolint: gosec
		},
		newUUID: uuid.NewString,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve builds the service instance of serviceType for the customer, with one site
// per hostname in the given order. Any lookup failure aborts the whole resolution.
func (r *Resolver) Resolve(ctx context.Context, serviceType, customer string, hostnames []string) (*Result, error) {
	designID, ok := constants.DesignIDs[serviceType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown service type %q", sgerrors.ErrIncorrectInput, serviceType)
	}
	if len(hostnames) < constants.MinParticipants {
		return nil, fmt.Errorf("%w: %s needs at least %d hostnames, got %d",
			sgerrors.ErrIncorrectInput, serviceType, constants.MinParticipants, len(hostnames))
	}

	if e, ok := r.gateway.(ensurer); ok {
		if err := e.Ensure(ctx); err != nil {
			return nil, err
		}
	}

	customerID, ok := r.gateway.CustomerID(customer)
	if !ok {
		return nil, &LookupError{Kind: LookupCustomer, Key: customer}
	}
	infraID, ok := r.gateway.CustomerID(r.operatorName)
	if !ok {
		return nil, &LookupError{Kind: LookupOperator, Key: r.operatorName}
	}

	participants, err := r.participants(infraID, hostnames)
	if err != nil {
		return nil, err
	}

	tmpl, err := r.templates(serviceType)
	if err != nil {
		return nil, err
	}

	instanceID := utils.CleanIdentifier(r.newInstance(serviceType), "unknown")
	doc, ok := document.Substitute(tmpl, map[string]string{
		constants.TokenCustomerUUID:       customerID,
		constants.TokenDesignIdentifier:   designID,
		constants.TokenInstanceIdentifier: instanceID,
		constants.TokenInstanceUUID:       r.newUUID(),
	}).(*document.Map)
	if !ok || doc == nil {
		return nil, fmt.Errorf("template of %s is empty", serviceType)
	}

	protos, err := document.Sites(doc)
	if err != nil {
		return nil, fmt.Errorf("template of %s: %w", serviceType, err)
	}
	if len(protos) == 0 {
		return nil, fmt.Errorf("template of %s has no prototype site", serviceType)
	}
	if len(protos) > 1 {
		log.Warnf("template of %s has %d sites, only the first one is used as prototype", serviceType, len(protos))
	}

	// every access of every stamped site takes the next link id of its country
	accessCount := len(document.Accesses(protos[0]))
	linkCounter := map[string]int{}

	sites := make([]*document.Map, 0, len(participants))
	for i := range participants {
		p := &participants[i]
		cc := strings.ToLower(p.CountryCode)

		var accessIDs []string
		for j := 0; j == 0 || j < accessCount; j++ {
			linkCounter[cc]++
			accessIDs = append(accessIDs, fmt.Sprintf("%s_link%d", cc, linkCounter[cc]))
		}
		p.AccessID = accessIDs[0]

		sites = append(sites, stamp(protos[0], *p, accessIDs))
		log.Debugf("stamped site %s (accesses %s) for %s", p.SiteID, strings.Join(accessIDs, ", "), p.Hostname)
	}
	if err := document.SetSites(doc, sites); err != nil {
		return nil, err
	}

	_, missing := document.Scan(doc)

	log.Infof("resolved %s instance %s for %s with %d sites, %d fields left to fill",
		serviceType, instanceID, customer, len(sites), len(missing))

	return &Result{
		ServiceType:  serviceType,
		Document:     doc,
		Participants: participants,
		Missing:      missing,
	}, nil
}

// participants looks up every hostname and derives its site id.
// Site counters are per country code and span the whole call.
func (r *Resolver) participants(infraID string, hostnames []string) ([]types.Participant, error) {
	siteCounter := map[string]int{}

	out := make([]types.Participant, 0, len(hostnames))
	for i, h := range hostnames {
		fail := func(kind, key string, err error) error {
			return &LookupError{Kind: kind, Key: key, Participant: i + 1, Hostname: h, Err: err}
		}

		deviceID, refSiteID, ok := r.gateway.DeviceAndSite(h)
		if !ok {
			return nil, fail(LookupDevice, h, nil)
		}
		site, ok := r.gateway.SiteDetails(refSiteID)
		if !ok {
			return nil, fail(LookupSite, refSiteID, nil)
		}
		if site.CountryCode == "" {
			return nil, fail(LookupSite, refSiteID, fmt.Errorf("site has no country code"))
		}
		postal, err := r.gateway.PostalCode(infraID, refSiteID, site.CountryCode, site.Name)
		if err != nil {
			return nil, fail(LookupPostalCode, refSiteID, err)
		}

		cc := strings.ToLower(site.CountryCode)
		siteCounter[cc]++

		out = append(out, types.Participant{
			Hostname:    h,
			DeviceID:    deviceID,
			RefSiteID:   refSiteID,
			SiteName:    site.Name,
			CountryCode: site.CountryCode,
			PostalCode:  postal,
			SiteID:      fmt.Sprintf("%s_site%d", cc, siteCounter[cc]),
		})
	}
	return out, nil
}

// stamp returns a copy of the prototype site filled in for p.
// accessIDs are assigned to the site network accesses in order.
func stamp(proto *document.Map, p types.Participant, accessIDs []string) *document.Map {
	site := document.Substitute(proto, map[string]string{
		constants.TokenSiteID:      p.SiteID,
		constants.TokenAccessID:    p.AccessID,
		constants.TokenCountryCode: p.CountryCode,
		constants.TokenPostalCode:  p.PostalCode,
		constants.TokenDeviceID:    p.DeviceID,
		constants.TokenHostname:    p.Hostname,
		constants.TokenSiteName:    p.SiteName,
	}).(*document.Map)

	site.Set(document.KeySiteID, p.SiteID)
	if loc, ok := document.PrimaryLocation(site); ok {
		loc.Set(document.KeyLocationID, p.SiteID)
		loc.Set(document.KeyCountryCode, p.CountryCode)
		loc.Set(document.KeyPostalCode, p.PostalCode)
	}
	for i, a := range document.Accesses(site) {
		if i < len(accessIDs) {
			a.Set(document.KeyNetworkAccessID, accessIDs[i])
		}
	}
	return site
}
