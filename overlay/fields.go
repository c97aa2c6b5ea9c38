// Package overlay defines the per-tick overlay record applied on top of
// host-computed particle physics.
package overlay

import (
	"errors"
	"fmt"
)

// ErrUnknownField is returned when a tag string does not name a Field.
var ErrUnknownField = errors.New("unknown overlay field")

// Field identifies one writable particle field.
type Field uint8

const (
	FieldVX Field = iota
	FieldVY
	FieldVZ
	FieldRed
	FieldGreen
	FieldBlue
	FieldAlpha
	FieldAngle
	FieldLight
	FieldGravity
	FieldScale
	FieldVelocityMultiplier

	numFields
)

// fieldNames are the wire tags used by scripting front-ends.
var fieldNames = [numFields]string{
	FieldVX:                 "vx",
	FieldVY:                 "vy",
	FieldVZ:                 "vz",
	FieldRed:                "cr",
	FieldGreen:              "cg",
	FieldBlue:               "cb",
	FieldAlpha:              "ca",
	FieldAngle:              "angle",
	FieldLight:              "light",
	FieldGravity:            "gravity",
	FieldScale:              "scale",
	FieldVelocityMultiplier: "vm",
}

// AllFields lists every field in declaration order.
var AllFields = func() []Field {
	out := make([]Field, numFields)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}()

// VelocityFields are the three velocity components.
var VelocityFields = []Field{FieldVX, FieldVY, FieldVZ}

// ColorFields are the RGB components (alpha is tagged separately).
var ColorFields = []Field{FieldRed, FieldGreen, FieldBlue}

// String returns the tag name.
func (f Field) String() string {
	if f < numFields {
		return fieldNames[f]
	}
	return fmt.Sprintf("field(%d)", uint8(f))
}

// Valid reports whether f is a declared field.
func (f Field) Valid() bool {
	return f < numFields
}

// ParseField maps a tag string to its Field.
func ParseField(tag string) (Field, error) {
	for i, name := range fieldNames {
		if name == tag {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("parsing tag %q: %w", tag, ErrUnknownField)
}

// ParseTags parses an ordered list of tag strings.
func ParseTags(tags []string) (Tags, error) {
	out := make(Tags, 0, len(tags))
	for _, tag := range tags {
		f, err := ParseField(tag)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Tags is the ordered list of fields an overlay wants written.
type Tags []Field

// Has reports whether f is tagged.
func (t Tags) Has(f Field) bool {
	for _, g := range t {
		if g == f {
			return true
		}
	}
	return false
}

// With returns t with each of fs appended unless already present.
func (t Tags) With(fs ...Field) Tags {
	for _, f := range fs {
		if !t.Has(f) {
			t = append(t, f)
		}
	}
	return t
}

// Strings returns the wire names in order.
func (t Tags) Strings() []string {
	out := make([]string, len(t))
	for i, f := range t {
		out[i] = f.String()
	}
	return out
}
