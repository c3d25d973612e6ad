// Package ingest turns tabular investigative records into idempotent graph
// upserts.
package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names one of the supported record layouts.
type Kind string

const (
	KindCalls        Kind = "calls"
	KindTransactions Kind = "transactions"
	KindDevices      Kind = "devices"
	KindSIMs         Kind = "sims"
	KindComplaints   Kind = "complaints"
)

var (
	ErrUnknownKind          = errors.New("unknown record kind")
	ErrMissingColumns       = errors.New("missing required columns")
	ErrMissingValue         = errors.New("missing required value")
	ErrInvalidValue         = errors.New("invalid value")
	ErrSourceTooLarge       = errors.New("source exceeds maximum upload size")
	ErrPathOutsideUploadDir = errors.New("path is outside the upload directory")
)

// Kinds lists every supported kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindCalls, KindTransactions, KindDevices, KindSIMs, KindComplaints}
}

// ParseKind accepts a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// RequiredColumns returns the header columns a source of this kind must carry.
func (k Kind) RequiredColumns() []string {
	switch k {
	case KindCalls:
		return []string{"from_phone", "to_phone"}
	case KindTransactions:
		return []string{"from_account", "to_account"}
	case KindDevices:
		return []string{"device_id", "ip_address"}
	case KindSIMs:
		return []string{"sim_number"}
	default:
		return nil
	}
}
