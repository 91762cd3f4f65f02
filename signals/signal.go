package signals

import (
	"strings"
	"time"
)

// DefaultHistoryLimit is the number of signals the ledger retains.
const DefaultHistoryLimit = 1000

// Signal is an immutable trading signal received from an advisor.
type Signal struct {
	ID        int64     `json:"id"`        // Sequence id, never reused
	Asset     string    `json:"asset"`     // Asset symbol
	Signal    string    `json:"signal"`    // Direction, e.g. buy or sell
	Timestamp time.Time `json:"timestamp"` // Arrival time
	Source    string    `json:"source"`    // Ingress that produced the signal
}

// Ingress describes how one ingestion path treats incoming signals.
type Ingress struct {
	Source    string // Provenance tag stored on every signal from this path
	Normalize bool   // Uppercase the asset and lowercase the direction
}

var (
	// AdvisorIngress is the POST path used by the MT4 advisor. Input is stored verbatim.
	AdvisorIngress = Ingress{Source: "MT4 Advisor"}
	// QueryIngress is the GET query-string path. Input casing is normalized.
	QueryIngress = Ingress{Source: "MT4 Advisor (GET)", Normalize: true}
)

// WithNormalize returns a copy of the ingress with normalization set.
func (i Ingress) WithNormalize(normalize bool) Ingress {
	i.Normalize = normalize
	return i
}

func (i Ingress) apply(asset, direction string) (string, string) {
	if !i.Normalize {
		return asset, direction
	}
	return strings.ToUpper(strings.TrimSpace(asset)), strings.ToLower(strings.TrimSpace(direction))
}

// Stats summarises the ledger contents.
type Stats struct {
	Total       int            `json:"total"`
	ByDirection map[string]int `json:"byDirection"` // Keyed by lowercased direction
	Recent      []Signal       `json:"recent"`      // Newest first
}
