// Package generation turns task descriptions into Excel artifacts through an
// external text-generation API, persists each request/response pair as a
// Query and enforces the trial entitlement around it.
package generation

import (
	"time"

	"github.com/google/uuid"
)

// OutputKind selects which kind of Excel artifact to generate.
type OutputKind string

const (
	KindFormula OutputKind = "formula"
	KindVBA     OutputKind = "vba"
	KindChart   OutputKind = "chart"
)

// Kinds lists every supported output kind, in a stable order for validation
// messages.
func Kinds() []OutputKind {
	return []OutputKind{KindFormula, KindVBA, KindChart}
}

// MaxInputLen bounds the user-supplied task description.
const MaxInputLen = 500

// Query is one persisted generation request/response pair. Immutable except
// for the rating.
type Query struct {
	ID         uuid.UUID  `json:"id"`
	ProfileID  uuid.UUID  `json:"profileId"`
	Input      string     `json:"input"`
	Output     string     `json:"output"`
	OutputKind OutputKind `json:"outputType"`
	Rating     *int       `json:"rating,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}
