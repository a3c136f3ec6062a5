package document

import "github.com/google/uuid"

// Attributes carries the caller-supplied initial state for AddObject. Only
// the fields relevant to the object type are read.
type Attributes struct {
	X    float64
	Y    float64
	Fill string

	Text       string
	FontFamily string
	FontSize   float64

	Width  float64
	Height float64

	Radius float64
}

// Defaults applied when AddObject is called with zero-value style fields.
// They mirror what the editor toolbar inserts.
const (
	defaultFill       = "#333333"
	defaultFontFamily = "Arial"
	defaultFontSize   = 32.0
)

// Session is the in-memory editing state for one document: the document
// itself plus the active selection. A session is bound to a single editing
// surface and is not safe for concurrent use. Nothing is persisted until the
// caller exports the document and saves it through the card service.
type Session struct {
	doc      Document
	selected map[string]bool
}

// NewSession returns a session over an empty document.
func NewSession() *Session {
	return &Session{
		doc:      NewDocument(),
		selected: make(map[string]bool),
	}
}

// NewSessionFromDocument returns a session seeded from doc, as when opening
// an existing card or a template. The document is copied; the caller's value
// is not aliased.
func NewSessionFromDocument(doc Document) (*Session, error) {
	for i := range doc.Objects {
		if err := validateObject(doc.Objects[i]); err != nil {
			return nil, &MalformedDocumentError{Index: i, Reason: err.Error()}
		}
	}
	return &Session{
		doc:      doc.clone(),
		selected: make(map[string]bool),
	}, nil
}

// AddObject appends a new object with a fresh id and makes it the sole
// selection. Fails with InvalidAttributesError if the attributes violate the
// geometric constraints, leaving the session unchanged.
func (s *Session) AddObject(typ ObjectType, attrs Attributes) (Document, error) {
	obj := Object{
		ID:   uuid.New().String(),
		Type: typ,
		X:    attrs.X,
		Y:    attrs.Y,
		Fill: attrs.Fill,
	}
	if obj.Fill == "" {
		obj.Fill = defaultFill
	}

	switch typ {
	case ObjectText:
		obj.Text = attrs.Text
		obj.FontFamily = attrs.FontFamily
		obj.FontSize = attrs.FontSize
		if obj.FontFamily == "" {
			obj.FontFamily = defaultFontFamily
		}
		if obj.FontSize == 0 {
			obj.FontSize = defaultFontSize
		}
	case ObjectRect:
		obj.Width = attrs.Width
		obj.Height = attrs.Height
	case ObjectCircle:
		obj.Radius = attrs.Radius
	default:
		return Document{}, &InvalidAttributesError{Reason: "unknown object type " + string(typ)}
	}

	if err := validateObject(obj); err != nil {
		return Document{}, &InvalidAttributesError{Reason: err.Error()}
	}

	s.doc.Objects = append(s.doc.Objects, obj)
	s.selected = map[string]bool{obj.ID: true}
	return s.doc.clone(), nil
}

// RemoveSelected deletes every selected object and clears the selection.
// An empty selection is a no-op, not an error.
func (s *Session) RemoveSelected() Document {
	if len(s.selected) > 0 {
		kept := s.doc.Objects[:0]
		for _, obj := range s.doc.Objects {
			if !s.selected[obj.ID] {
				kept = append(kept, obj)
			}
		}
		s.doc.Objects = kept
		s.selected = make(map[string]bool)
	}
	return s.doc.clone()
}

// SetSelection replaces the active selection with the subset of ids present
// in the document. Unknown ids are dropped silently: the UI issues selection
// changes optimistically during pointer interaction and must not fail on a
// stale id.
func (s *Session) SetSelection(ids []string) Document {
	present := make(map[string]bool, len(s.doc.Objects))
	for _, obj := range s.doc.Objects {
		present[obj.ID] = true
	}
	next := make(map[string]bool, len(ids))
	for _, id := range ids {
		if present[id] {
			next[id] = true
		}
	}
	s.selected = next
	return s.doc.clone()
}

// SelectedIDs returns the ids of the currently selected objects, in document
// order.
func (s *Session) SelectedIDs() []string {
	ids := make([]string, 0, len(s.selected))
	for _, obj := range s.doc.Objects {
		if s.selected[obj.ID] {
			ids = append(ids, obj.ID)
		}
	}
	return ids
}

// AdjustFontSize adds delta to the font size of every selected text object,
// never going below MinFontSize. Non-text members of the selection are
// skipped.
func (s *Session) AdjustFontSize(delta float64) Document {
	for i := range s.doc.Objects {
		obj := &s.doc.Objects[i]
		if obj.Type != ObjectText || !s.selected[obj.ID] {
			continue
		}
		size := obj.FontSize + delta
		if size < MinFontSize {
			size = MinFontSize
		}
		obj.FontSize = size
	}
	return s.doc.clone()
}

// SetFillColor sets the fill of every selected object. An invalid color
// fails with InvalidAttributesError and leaves the document unchanged.
func (s *Session) SetFillColor(color string) (Document, error) {
	if !validFillColor(color) {
		return Document{}, &InvalidAttributesError{Reason: "invalid fill color " + color}
	}
	for i := range s.doc.Objects {
		if s.selected[s.doc.Objects[i].ID] {
			s.doc.Objects[i].Fill = color
		}
	}
	return s.doc.clone(), nil
}

// ExportDocument returns a snapshot of the current document for persistence.
// The session keeps ownership of its own copy.
func (s *Session) ExportDocument() Document {
	return s.doc.clone()
}

// LoadDocument replaces the session's document wholesale and clears the
// selection. Used when seeding from a template or an existing card.
func (s *Session) LoadDocument(doc Document) error {
	for i := range doc.Objects {
		if err := validateObject(doc.Objects[i]); err != nil {
			return &MalformedDocumentError{Index: i, Reason: err.Error()}
		}
	}
	s.doc = doc.clone()
	s.selected = make(map[string]bool)
	return nil
}
