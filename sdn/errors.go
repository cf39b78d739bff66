package sdn

import (
	"errors"

	"github.com/tailored-agentic-units/listmonitor/snapshot"
)

var (
	// ErrMalformed reports a document that is not a readable SDN list: a
	// missing <sdnList> root, broken XML, or an undecodable <sdnEntry>.
	ErrMalformed = errors.New("an error occurred while retrieving SDN list")

	// ErrFetch reports a transport failure or unexpected response while
	// reading the list source.
	ErrFetch = errors.New("sdn fetch failed")

	ErrInvalidArgument = snapshot.ErrInvalidArgument
)
