package util

import "errors"

var (
	ErrManifestStatus = errors.New("manifest request failed")
	ErrManifestParse  = errors.New("manifest body is not a valid manifest")

	ErrUnknownDocument = errors.New("unknown document")
	ErrLoading         = errors.New("manifest still loading")
	ErrNoSnapshot      = errors.New("no manifest snapshot stored")
)
