// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

// Package persist writes finished service documents to the output directory.
package persist

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/netsvc-labs/servicegen/document"
	sgerrors "github.com/netsvc-labs/servicegen/errors"
	"github.com/netsvc-labs/servicegen/utils"
	log "github.com/sirupsen/logrus"
)

const (
	timestampLayout = "20060102_150405"

	fallbackServiceType = "unknown_service"
	defaultServiceType  = "l2vpn_service"
)

// Error is a failure to persist a document. The document itself is left untouched.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %v", sgerrors.ErrPersistence, e.Err)
	}
	return fmt.Sprintf("%v to %s: %v", sgerrors.ErrPersistence, e.Path, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{sgerrors.ErrPersistence, e.Err}
}

// Writer saves documents as new files in a directory.
type Writer struct {
	dir string
	now func() time.Time
}

type Option func(w *Writer)

// WithClock overrides the time source used for file names.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{
		dir: dir,
		now: time.Now,
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Save writes doc as indented JSON to a new file and returns its path.
// An existing file is never overwritten.
func (w *Writer) Save(doc *document.Map) (string, error) {
	if doc == nil || doc.Len() == 0 {
		return "", &Error{Err: fmt.Errorf("no configuration to save")}
	}

	b, err := document.Marshal(doc)
	if err != nil {
		return "", &Error{Err: fmt.Errorf("failed to serialize document: %w", err)}
	}
	b = append(b, '\n')

	if err := utils.CreateDirectory(w.dir, 0755); err != nil {
		return "", &Error{Path: w.dir, Err: err}
	}

	p := filepath.Join(w.dir, FileName(doc, w.now()))
	if err := utils.CreateNewFile(p, b, 0644); err != nil {
		return "", &Error{Path: p, Err: err}
	}

	log.Infof("saved %s (%s)", p, humanize.Bytes(uint64(len(b))))
	return p, nil
}

// ServiceType derives the service type part of a file name from the design_id of doc.
func ServiceType(doc *document.Map) string {
	if id := doc.GetString(document.KeyDesignID); id != "" {
		return strings.ReplaceAll(id, "-", "_")
	}
	if _, ok := doc.Get(document.KeyService); ok {
		return defaultServiceType
	}
	return fallbackServiceType
}

// FileName returns <service_type>_<site1>_<site2>_<YYYYMMDD_HHMMSS>.json for doc,
// with _single_site or _no_hostnames in place of the missing site ids.
func FileName(doc *document.Map, t time.Time) string {
	var siteIDs []string
	sites, _ := document.Sites(doc)
	for _, s := range sites {
		if id := s.GetString(document.KeySiteID); id != "" {
			siteIDs = append(siteIDs, sanitize(id))
		}
	}

	ts := t.Format(timestampLayout)
	svc := sanitize(ServiceType(doc))

	switch {
	case len(siteIDs) >= 2:
		return fmt.Sprintf("%s_%s_%s_%s.json", svc, siteIDs[0], siteIDs[1], ts)
	case len(siteIDs) == 1:
		return fmt.Sprintf("%s_%s_single_site_%s.json", svc, siteIDs[0], ts)
	}
	return fmt.Sprintf("%s_no_hostnames_%s.json", svc, ts)
}

// sanitize keeps a name component from escaping the output directory.
func sanitize(s string) string {
	return strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(s)
}
