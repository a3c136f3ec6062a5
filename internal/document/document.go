// Package document implements the versioned design document that describes a
// card's visual content, plus the editor session that mutates it. Documents
// serialize to a self-describing JSON payload stored verbatim in the cards
// and templates tables.
package document

import (
	"encoding/json"
	"fmt"
	"math"
)

// CurrentVersion is the only document format version this build understands.
const CurrentVersion = "1.0"

// MinFontSize is the floor for text object font sizes.
const MinFontSize = 8.0

var knownVersions = map[string]bool{
	"1.0": true,
}

type ObjectType string

const (
	ObjectText   ObjectType = "text"
	ObjectRect   ObjectType = "rect"
	ObjectCircle ObjectType = "circle"
)

// Object is one visual element of a document. Type is the discriminant; only
// the fields belonging to that variant are meaningful and serialized.
type Object struct {
	ID   string
	Type ObjectType
	X    float64
	Y    float64
	Fill string

	// text
	Text       string
	FontFamily string
	FontSize   float64

	// rect
	Width  float64
	Height float64

	// circle
	Radius float64
}

// Document is an ordered scene graph. Slice order is paint order: later
// objects draw on top.
type Document struct {
	Version string
	Objects []Object
}

// NewDocument returns an empty document at the current format version.
func NewDocument() Document {
	return Document{Version: CurrentVersion}
}

func (d Document) clone() Document {
	out := Document{Version: d.Version}
	if d.Objects != nil {
		out.Objects = make([]Object, len(d.Objects))
		copy(out.Objects, d.Objects)
	}
	return out
}

// wireDocument and wireObject are the serialized shape. Pointer fields let
// Decode distinguish an absent field from a zero value.
type wireDocument struct {
	Version *string      `json:"version"`
	Objects []wireObject `json:"objects"`
}

type wireObject struct {
	ID         *string  `json:"id"`
	Type       *string  `json:"type"`
	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
	Fill       *string  `json:"fill"`
	Text       *string  `json:"text,omitempty"`
	FontFamily *string  `json:"fontFamily,omitempty"`
	FontSize   *float64 `json:"fontSize,omitempty"`
	Width      *float64 `json:"width,omitempty"`
	Height     *float64 `json:"height,omitempty"`
	Radius     *float64 `json:"radius,omitempty"`
}

// Encode serializes the document to its JSON wire form. The payload embeds
// the version so a reader can reject formats it does not understand.
func (d Document) Encode() (json.RawMessage, error) {
	version := d.Version
	wire := wireDocument{
		Version: &version,
		Objects: make([]wireObject, 0, len(d.Objects)),
	}
	for i := range d.Objects {
		obj := d.Objects[i]
		if err := validateObject(obj); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		w := wireObject{
			ID:   &obj.ID,
			Type: (*string)(&obj.Type),
			X:    &obj.X,
			Y:    &obj.Y,
			Fill: &obj.Fill,
		}
		switch obj.Type {
		case ObjectText:
			w.Text = &obj.Text
			w.FontFamily = &obj.FontFamily
			w.FontSize = &obj.FontSize
		case ObjectRect:
			w.Width = &obj.Width
			w.Height = &obj.Height
		case ObjectCircle:
			w.Radius = &obj.Radius
		}
		wire.Objects = append(wire.Objects, w)
	}
	return json.Marshal(wire)
}

// Decode parses a serialized document. Payloads carrying an unknown version
// fail with UnsupportedVersionError; payloads with missing or invalid object
// fields fail with MalformedDocumentError naming the object's position.
func Decode(raw json.RawMessage) (*Document, error) {
	var wire wireDocument
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &MalformedDocumentError{Index: -1, Reason: "invalid json: " + err.Error()}
	}
	if wire.Version == nil || *wire.Version == "" {
		return nil, &MalformedDocumentError{Index: -1, Reason: "missing version"}
	}
	if !knownVersions[*wire.Version] {
		return nil, &UnsupportedVersionError{Version: *wire.Version}
	}

	doc := Document{Version: *wire.Version}
	seen := make(map[string]bool, len(wire.Objects))
	for i, w := range wire.Objects {
		obj, err := decodeObject(w)
		if err != nil {
			return nil, &MalformedDocumentError{Index: i, Reason: err.Error()}
		}
		if seen[obj.ID] {
			return nil, &MalformedDocumentError{Index: i, Reason: "duplicate object id " + obj.ID}
		}
		seen[obj.ID] = true
		doc.Objects = append(doc.Objects, obj)
	}
	return &doc, nil
}

func decodeObject(w wireObject) (Object, error) {
	if w.ID == nil || *w.ID == "" {
		return Object{}, fmt.Errorf("missing id")
	}
	if w.Type == nil {
		return Object{}, fmt.Errorf("missing type")
	}
	if w.X == nil || w.Y == nil {
		return Object{}, fmt.Errorf("missing position")
	}
	if w.Fill == nil {
		return Object{}, fmt.Errorf("missing fill")
	}

	obj := Object{
		ID:   *w.ID,
		Type: ObjectType(*w.Type),
		X:    *w.X,
		Y:    *w.Y,
		Fill: *w.Fill,
	}

	switch obj.Type {
	case ObjectText:
		if w.Text == nil {
			return Object{}, fmt.Errorf("missing text")
		}
		if w.FontSize == nil {
			return Object{}, fmt.Errorf("missing fontSize")
		}
		obj.Text = *w.Text
		obj.FontSize = *w.FontSize
		if w.FontFamily != nil {
			obj.FontFamily = *w.FontFamily
		}
	case ObjectRect:
		if w.Width == nil || w.Height == nil {
			return Object{}, fmt.Errorf("missing dimensions")
		}
		obj.Width = *w.Width
		obj.Height = *w.Height
	case ObjectCircle:
		if w.Radius == nil {
			return Object{}, fmt.Errorf("missing radius")
		}
		obj.Radius = *w.Radius
	default:
		return Object{}, fmt.Errorf("unknown object type %q", *w.Type)
	}

	if err := validateObject(obj); err != nil {
		return Object{}, err
	}
	return obj, nil
}

func validateObject(obj Object) error {
	if !finite(obj.X) || !finite(obj.Y) {
		return fmt.Errorf("position must be finite")
	}
	if !validFillColor(obj.Fill) {
		return fmt.Errorf("invalid fill color %q", obj.Fill)
	}
	switch obj.Type {
	case ObjectText:
		if !finite(obj.FontSize) || obj.FontSize < MinFontSize {
			return fmt.Errorf("fontSize must be at least %g", MinFontSize)
		}
	case ObjectRect:
		if !finite(obj.Width) || !finite(obj.Height) || obj.Width < 0 || obj.Height < 0 {
			return fmt.Errorf("dimensions must be finite and non-negative")
		}
	case ObjectCircle:
		if !finite(obj.Radius) || obj.Radius < 0 {
			return fmt.Errorf("radius must be finite and non-negative")
		}
	default:
		return fmt.Errorf("unknown object type %q", obj.Type)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// validFillColor accepts #RGB and #RRGGBB hex colors.
func validFillColor(s string) bool {
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
