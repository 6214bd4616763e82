// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

// Package session runs the resolve, configure and save pipeline for independent
// configuration sessions.
package session

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/netsvc-labs/servicegen/accessconfig"
	"github.com/netsvc-labs/servicegen/document"
	sgerrors "github.com/netsvc-labs/servicegen/errors"
	"github.com/netsvc-labs/servicegen/persist"
	"github.com/netsvc-labs/servicegen/resolver"
	"github.com/netsvc-labs/servicegen/types"
	"github.com/netsvc-labs/servicegen/validate"
	log "github.com/sirupsen/logrus"
)

// Resolver resolves service templates.
type Resolver interface {
	Resolve(ctx context.Context, serviceType, customer string, hostnames []string) (*resolver.Result, error)
}

// Saver persists final documents.
type Saver interface {
	Save(doc *document.Map) (string, error)
}

var _ Saver = (*persist.Writer)(nil)

// Manager keeps the open sessions by id. Sessions share nothing but the resolver and saver.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	resolver Resolver
	saver    Saver
}

func NewManager(r Resolver, s Saver) *Manager {
	return &Manager{
		sessions: map[string]*Session{},
		resolver: r,
		saver:    s,
	}
}

// Open returns the session with the given id, creating it if needed.
// An empty id creates a session with a random id.
func (m *Manager) Open(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	if s, ok := m.sessions[id]; ok {
		return s
	}

	s := &Session{
		id:       id,
		resolver: m.resolver,
		saver:    m.saver,
	}
	m.sessions[id] = s
	log.Debugf("session %s opened", id)
	return s
}

// Get returns an open session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sgerrors.ErrUnknownSession, id)
	}
	return s, nil
}

// Close forgets a session. Files it saved are kept.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", sgerrors.ErrUnknownSession, id)
	}
	delete(m.sessions, id)
	log.Debugf("session %s closed", id)
	return nil
}

// IDs returns the ids of the open sessions, sorted.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Outcome is a final document and what happened when it was validated and saved.
// A validation or save failure never discards the document.
type Outcome struct {
	Document      *document.Map
	Path          string
	ValidationErr error
	SaveErr       error
}

// Saved reports whether the document was written.
func (o *Outcome) Saved() bool {
	return o.Path != ""
}

// Session owns one resolved document, its interface configuration and the final document.
type Session struct {
	mu       sync.Mutex
	id       string
	resolver Resolver
	saver    Saver

	result  *resolver.Result
	machine *accessconfig.Machine
	final   *document.Map
	// outcome is the validation and save state of final.
	outcome *Outcome
	saved   []string
}

func (s *Session) ID() string {
	return s.id
}

// Resolve resolves a service and starts its interface configuration, replacing whatever
// the session held before. A resolution without placeholders is final right away and
// is validated and saved; the returned Outcome is nil otherwise.
func (s *Session) Resolve(ctx context.Context, serviceType, customer string, hostnames []string) (*resolver.Result, *Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.resolver.Resolve(ctx, serviceType, customer, hostnames)
	if err != nil {
		return nil, nil, err
	}

	var machine *accessconfig.Machine
	if res.HasMissing() {
		machine, err = accessconfig.New(res.Document)
		if err != nil {
			return nil, nil, err
		}
	}

	s.result = res
	s.machine = machine
	s.final = nil
	s.outcome = nil

	if machine != nil {
		log.Infof("session %s: %d fields to fill for %d sites", s.id, len(res.Missing), len(machine.Sites()))
		return res, nil, nil
	}

	s.final = document.CloneMap(res.Document)
	return res, s.complete(), nil
}

// complete validates and saves the final document.
func (s *Session) complete() *Outcome {
	s.outcome = &Outcome{}

	if err := validate.Final(s.final); err != nil {
		log.Warnf("session %s: %v", s.id, err)
		s.outcome.ValidationErr = err
		return s.lastOutcome()
	}

	if _, err := s.save(); err != nil {
		log.Errorf("session %s: auto-save failed, configuration is complete: %v", s.id, err)
	}
	return s.lastOutcome()
}

// save writes the final document and records the result in the session outcome.
func (s *Session) save() (string, error) {
	p, err := s.saver.Save(s.final)
	if err != nil {
		s.outcome.SaveErr = err
		return "", err
	}
	s.saved = append(s.saved, p)
	s.outcome.Path, s.outcome.SaveErr = p, nil
	return p, nil
}

// lastOutcome returns a copy of the outcome with its own copy of the final document.
func (s *Session) lastOutcome() *Outcome {
	o := *s.outcome
	o.Document = document.CloneMap(s.final)
	return &o
}

func (s *Session) configurator() (*accessconfig.Machine, error) {
	if s.machine == nil {
		if s.result == nil {
			return nil, fmt.Errorf("%w: no service resolved in session %s", sgerrors.ErrIncorrectInput, s.id)
		}
		return nil, fmt.Errorf("%w: service of session %s needs no interface configuration", sgerrors.ErrFinalized, s.id)
	}
	return s.machine, nil
}

func (s *Session) SetInterfaceType(siteID, accessID string, typ types.InterfaceType) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.configurator()
	if err != nil {
		return "", err
	}
	return m.SetInterfaceType(siteID, accessID, typ)
}

func (s *Session) SetTaggedConfig(siteID, speed string, lldp, oamEnabled bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.configurator()
	if err != nil {
		return "", err
	}
	return m.SetTaggedConfig(siteID, speed, lldp, oamEnabled)
}

func (s *Session) UpdateTaggedConfig(siteID string, f accessconfig.TaggedFields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.configurator()
	if err != nil {
		return "", err
	}
	return m.UpdateTaggedConfig(siteID, f)
}

func (s *Session) SetUntaggedConfig(siteID string, cvlanID int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.configurator()
	if err != nil {
		return "", err
	}
	return m.SetUntaggedConfig(siteID, cvlanID)
}

// Status returns the interface configuration status, empty when nothing needs configuring.
func (s *Session) Status() []accessconfig.SiteStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.machine == nil {
		return nil
	}
	return s.machine.Status()
}

// Finalize renders the interface configuration, then validates and saves the result.
// Finalizing again does not save again, it returns the document with the validation
// error and the path of the latest save, if any.
func (s *Session) Finalize() (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.final != nil {
		return s.lastOutcome(), nil
	}

	m, err := s.configurator()
	if err != nil {
		return nil, err
	}
	doc, err := m.Finalize()
	if err != nil {
		return nil, err
	}

	s.final = doc
	return s.complete(), nil
}

// Save writes the final document to a new file. It is the retry path after a failed auto-save
// and ignores schema validation.
func (s *Session) Save() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.final == nil {
		return "", fmt.Errorf("%w: finalize the configuration before saving", sgerrors.ErrIncomplete)
	}
	return s.save()
}

// Document returns a copy of the final document, or of the resolved one while the
// configuration is in progress. It is nil before anything was resolved.
func (s *Session) Document() *document.Map {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.final != nil:
		return document.CloneMap(s.final)
	case s.result != nil:
		return document.CloneMap(s.result.Document)
	}
	return nil
}

// Summary describes the state of a session.
type Summary struct {
	ID          string   `json:"session_id"`
	ServiceType string   `json:"service_type,omitempty"`
	Sites       []string `json:"sites,omitempty"`
	Missing     int      `json:"missing_fields"`
	Finalized   bool     `json:"finalized"`
	Saved       []string `json:"saved,omitempty"`
}

func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{
		ID:        s.id,
		Finalized: s.final != nil,
		Saved:     append([]string(nil), s.saved...),
	}
	if s.result != nil {
		sum.ServiceType = s.result.ServiceType
		for _, p := range s.result.Participants {
			sum.Sites = append(sum.Sites, p.SiteID)
		}
		if s.final == nil {
			sum.Missing = len(s.result.Missing)
		}
	}
	return sum
}
