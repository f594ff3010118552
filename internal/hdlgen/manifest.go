package hdlgen

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Artifact is one emitted output file: an HLS C source, a per-filter
// VHDL wrapper, the top-level interconnect, or the test bench. The
// manifest lists these artifacts and does not list itself.
type Artifact struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"` // "c_source", "vhdl_wrapper", "vhdl_top", "vhdl_testbench"
	Bytes int    `json:"bytes"`
}

// Manifest lists everything C5 produced for one compile job. Grounded
// on reporting.go's SecurityReport/GetReportSummary shape, scoped down
// to the one export format StreamC needs (spec §1: JSON only).
type Manifest struct {
	GeneratedAt       time.Time  `json:"generated_at"`
	Artifacts         []Artifact `json:"artifacts"`
	TotalBytes        int        `json:"total_bytes"`
	TotalChannelDepth int        `json:"total_channel_depth"`
}

// NewManifest builds a Manifest from the list of artifacts emitted
// this job, stamping GeneratedAt at the given time (callers pass the
// job's start time rather than calling time.Now() here, keeping the
// emitter itself free of wall-clock reads). totalChannelDepth is the
// sum of every emitted channel's FIFO depth (spec §3), reported
// alongside the artifact byte counts.
func NewManifest(at time.Time, artifacts []Artifact, totalChannelDepth int) *Manifest {
	total := 0
	for _, a := range artifacts {
		total += a.Bytes
	}
	return &Manifest{GeneratedAt: at, Artifacts: artifacts, TotalBytes: total, TotalChannelDepth: totalChannelDepth}
}

// Summary renders a short human-readable digest of the manifest,
// humanizing byte counts and the total channel depth the way
// reporting.go's exporters humanize nothing today but SPEC_FULL.md §2
// calls for here (go-humanize wired in specifically for this).
func (m *Manifest) Summary() string {
	return fmt.Sprintf(
		"%s: %s produced across %d artifacts, %s total FIFO depth",
		m.GeneratedAt.Format("2006-01-02 15:04:05"),
		humanize.Bytes(uint64(m.TotalBytes)),
		len(m.Artifacts),
		humanize.Comma(int64(m.TotalChannelDepth)),
	)
}

// MarshalJSON renders the manifest as indented JSON for the
// `<program>.manifest.json` artifact (spec §1's JSON-only reporting
// scope).
func (m *Manifest) MarshalJSON() ([]byte, error) {
	type alias Manifest // avoid infinite recursion through the method set
	return json.MarshalIndent((*alias)(m), "", "  ")
}
