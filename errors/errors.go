package errors

import "errors"

// ErrFileNotFound is returned when a file is not found.
var ErrFileNotFound = errors.New("file not found")

// ErrIncorrectInput is returned when the user input is incorrect.
var ErrIncorrectInput = errors.New("incorrect input")

// ErrNotFound is returned when a customer, device, site or postal code
// can't be found in the reference data.
var ErrNotFound = errors.New("not found in reference data")

// ErrIncomplete is returned when a document is finalized before every site is configured.
var ErrIncomplete = errors.New("configuration incomplete")

// ErrPersistence is returned when a document can't be written to the output directory.
var ErrPersistence = errors.New("could not persist document")

// ErrFinalized is returned by mutating calls on an already finalized configuration.
var ErrFinalized = errors.New("configuration already finalized")

// ErrUnknownSession is returned when a session id is not registered.
var ErrUnknownSession = errors.New("unknown session")
