// Package domain defines the core domain models for the configuration and
// secrets engine: environments, tagged values, entries, and version records.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/crypto/domain"
)

// Environment is one of the five deployment tiers this system merges
// configuration values across.
type Environment string

// Recognized environments, governing environment-merge resolution.
const (
	Base        Environment = "base"
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
	Edge        Environment = "edge"
)

// environmentAliases maps CLI/HTTP-facing shorthand to a canonical Environment.
var environmentAliases = map[string]Environment{
	"base":        Base,
	"dev":         Development,
	"development": Development,
	"staging":     Staging,
	"stage":       Staging,
	"prod":        Production,
	"production":  Production,
	"edge":        Edge,
}

// ParseEnvironment normalizes an environment alias to its canonical form.
// Fails with ErrInvalidEnvironment for anything not in environmentAliases.
func ParseEnvironment(s string) (Environment, error) {
	env, ok := environmentAliases[s]
	if !ok {
		return "", ErrInvalidEnvironment
	}
	return env, nil
}

// overrideChains is the static per-environment read order used by
// get_with_overrides: Base is always read first, then the listed chain.
var overrideChains = map[Environment][]Environment{
	Base:        {},
	Development: {Development},
	Staging:     {Development, Staging},
	Production:  {Development, Staging, Production},
	Edge:        {Edge},
}

// OverrideChain returns the ordered list of environments (excluding Base,
// which is always read first) to layer over the base value for env.
func OverrideChain(env Environment) []Environment {
	return overrideChains[env]
}

// ValueKind discriminates the tagged union stored in Value.
type ValueKind string

// Recognized Value variants.
const (
	KindString  ValueKind = "string"
	KindInteger ValueKind = "integer"
	KindFloat   ValueKind = "float"
	KindBoolean ValueKind = "boolean"
	KindArray   ValueKind = "array"
	KindObject  ValueKind = "object"
	KindSecret  ValueKind = "secret"
)

// Value is the tagged union of everything a config entry can hold. Only one
// of the typed fields is meaningful at a time, selected by Kind. JSON
// serialization is untagged: MarshalJSON/UnmarshalJSON below reduce it to
// the bare underlying value (or the Ciphertext object for Secret), and the
// Kind is recovered on read by a shape check.
type Value struct {
	Kind       ValueKind
	String     string
	Integer    int64
	Float      float64
	Boolean    bool
	Array      []Value
	Object     map[string]Value
	Ciphertext *cryptoDomain.Ciphertext
}

// StringValue wraps a string as a Value.
func StringValue(s string) Value { return Value{Kind: KindString, String: s} }

// IntegerValue wraps an int64 as a Value.
func IntegerValue(i int64) Value { return Value{Kind: KindInteger, Integer: i} }

// FloatValue wraps a float64 as a Value.
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// BooleanValue wraps a bool as a Value.
func BooleanValue(b bool) Value { return Value{Kind: KindBoolean, Boolean: b} }

// ArrayValue wraps a slice of Values as a Value.
func ArrayValue(v []Value) Value { return Value{Kind: KindArray, Array: v} }

// ObjectValue wraps a map of Values as a Value.
func ObjectValue(v map[string]Value) Value { return Value{Kind: KindObject, Object: v} }

// SecretValue wraps a Ciphertext as a Secret-kind Value.
func SecretValue(ct *cryptoDomain.Ciphertext) Value { return Value{Kind: KindSecret, Ciphertext: ct} }

// Metadata carries provenance and descriptive information copied with an Entry.
type Metadata struct {
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
	UpdatedAt   time.Time `json:"updated_at"`
	UpdatedBy   string    `json:"updated_by"`
	Tags        []string  `json:"tags,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Entry is the current value stored for a (namespace, key, environment)
// triple. Its id is stable across updates to the same triple; version
// strictly increases by 1 on every mutation.
type Entry struct {
	ID          uuid.UUID   `json:"id"`
	Namespace   string      `json:"namespace"`
	Key         string      `json:"key"`
	Value       Value       `json:"value"`
	Environment Environment `json:"environment"`
	Version     int         `json:"version"`
	Metadata    Metadata    `json:"metadata"`
}

// Clone returns a copy of e whose fields a caller can reassign (e.g. to
// transparently decrypt a Secret into a String by replacing Value) without
// touching the stored copy. Metadata.Tags is copied; the slices, maps and
// pointers inside Value are shared with e, so mutating them in place is
// visible through both.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Metadata.Tags = append([]string(nil), e.Metadata.Tags...)
	return &clone
}

// Fingerprint is the cache/index key for an Entry's storage identity.
func (e *Entry) Fingerprint() string {
	return Fingerprint(e.Namespace, e.Key, e.Environment)
}

// Fingerprint builds the "<ns>:<key>:<env>" cache/index key for a triple.
func Fingerprint(namespace, key string, env Environment) string {
	return namespace + ":" + key + ":" + string(env)
}

// Version is an immutable, append-only snapshot of a triple's value at a
// point in time, written on every mutation (including rollback).
type Version struct {
	Version            int         `json:"version"`
	ConfigID           uuid.UUID   `json:"config_id"`
	Namespace          string      `json:"namespace"`
	Key                string      `json:"key"`
	Value              Value       `json:"value"`
	Environment        Environment `json:"environment"`
	CreatedAt          time.Time   `json:"created_at"`
	CreatedBy          string      `json:"created_by"`
	ChangeDescription  string      `json:"change_description,omitempty"`
}
