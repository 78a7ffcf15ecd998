package types

import (
	"time"
)

// As represents an attestation - a claim that subjects relate to contexts
// through predicates, with actor attribution and timestamps.
// Each (subject, predicate, context) combination is one triple.
type As struct {
	ID         string                 `db:"id" json:"id"`                   // ASID: AS + UUID
	Subjects   []string               `db:"subjects" json:"subjects"`       // Entities being attested about
	Predicates []string               `db:"predicates" json:"predicates"`   // What is being claimed
	Contexts   []string               `db:"contexts" json:"contexts"`       // Objects of the claim
	Actors     []string               `db:"actors" json:"actors"`           // Who made the attestation
	Timestamp  time.Time              `db:"timestamp" json:"timestamp"`     // When attestation was made
	Source     string                 `db:"source" json:"source"`           // How attestation was created
	Attributes map[string]interface{} `db:"attributes" json:"attributes,omitempty"`
	CreatedAt  time.Time              `db:"created_at" json:"created_at"`
}

// AsCommand represents the parsed CLI command for creating attestations
type AsCommand struct {
	Subjects   []string               `json:"subjects"`
	Predicates []string               `json:"predicates"` // defaults to ["_"]
	Contexts   []string               `json:"contexts"`   // defaults to ["_"]
	Actors     []string               `json:"actors"`
	Timestamp  time.Time              `json:"timestamp"` // defaults to now
	Source     string                 `json:"source"`    // defaults to "cli"
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// ToAs converts an AsCommand to an As struct with the given ASID
func (cmd *AsCommand) ToAs(asid string) *As {
	predicates := cmd.Predicates
	if len(predicates) == 0 {
		predicates = []string{"_"}
	}

	contexts := cmd.Contexts
	if len(contexts) == 0 {
		contexts = []string{"_"}
	}

	timestamp := cmd.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	source := cmd.Source
	if source == "" {
		source = "cli"
	}

	return &As{
		ID:         asid,
		Subjects:   cmd.Subjects,
		Predicates: predicates,
		Contexts:   contexts,
		Actors:     cmd.Actors,
		Timestamp:  timestamp,
		Source:     source,
		Attributes: cmd.Attributes,
		CreatedAt:  time.Now(),
	}
}

// GetCartesianCount returns the total number of individual triples this attestation represents
func (as *As) GetCartesianCount() int {
	return len(as.Subjects) * len(as.Predicates) * len(as.Contexts)
}

// Triple is one (subject, predicate, context) claim expanded from an attestation.
type Triple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Context   string `json:"context"`
}
