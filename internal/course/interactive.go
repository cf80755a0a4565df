package course

import "fmt"

// InteractiveKind discriminates the interactive exercise union.
type InteractiveKind string

const (
	InteractiveStabilitySim   InteractiveKind = "stability-sim"
	InteractiveDragOrder      InteractiveKind = "drag-order"
	InteractiveHotspot        InteractiveKind = "hotspot"
	InteractiveTrueFalse      InteractiveKind = "truefalse"
	InteractiveAnnotatedImage InteractiveKind = "annotated-image"
)

// InteractiveData is the payload of an interactive block. Exactly one of the
// typed fields is populated, matching Kind; stability-sim carries none.
type InteractiveData struct {
	Kind InteractiveKind `json:"kind" yaml:"kind"`

	DragOrder      *DragOrderData      `json:"dragOrder,omitempty" yaml:"dragOrder,omitempty"`
	Hotspot        *HotspotData        `json:"hotspot,omitempty" yaml:"hotspot,omitempty"`
	TrueFalse      *TrueFalseData      `json:"trueFalse,omitempty" yaml:"trueFalse,omitempty"`
	AnnotatedImage *AnnotatedImageData `json:"annotatedImage,omitempty" yaml:"annotatedImage,omitempty"`
}

// DragOrderData is a reorder exercise. The learner sees Items shuffled and
// must reconstruct CorrectOrder.
type DragOrderData struct {
	Title        string          `json:"title" yaml:"title"`
	Items        []DragOrderItem `json:"items" yaml:"items"`
	CorrectOrder []string        `json:"correctOrder" yaml:"correctOrder"`
}

// DragOrderItem is one draggable item.
type DragOrderItem struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// HotspotData is a find-the-hazards exercise on an image.
type HotspotData struct {
	Title       string    `json:"title" yaml:"title"`
	Instruction string    `json:"instruction,omitempty" yaml:"instruction,omitempty"`
	ImageURL    string    `json:"imageUrl" yaml:"imageUrl"`
	ImageScale  int       `json:"imageScale,omitempty" yaml:"imageScale,omitempty"`
	Hotspots    []Hotspot `json:"hotspots" yaml:"hotspots"`
}

// Hotspot is one clickable point; X and Y are percentages of the image bounds.
type Hotspot struct {
	ID       string  `json:"id" yaml:"id"`
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Label    string  `json:"label,omitempty" yaml:"label,omitempty"`
	IsHazard bool    `json:"isHazard" yaml:"isHazard"`
}

// TrueFalseData is a swipe exercise over statement cards.
type TrueFalseData struct {
	Title string          `json:"title" yaml:"title"`
	Cards []TrueFalseCard `json:"cards" yaml:"cards"`
}

// TrueFalseCard is one statement to classify.
type TrueFalseCard struct {
	ID        string `json:"id" yaml:"id"`
	Statement string `json:"statement" yaml:"statement"`
	IsTrue    bool   `json:"isTrue" yaml:"isTrue"`
}

// AnnotatedImageData is a click-to-reveal image with informational points. It
// has no correctness semantics.
type AnnotatedImageData struct {
	Title      string           `json:"title" yaml:"title"`
	ImageURL   string           `json:"imageUrl" yaml:"imageUrl"`
	ImageScale int              `json:"imageScale,omitempty" yaml:"imageScale,omitempty"`
	Points     []AnnotatedPoint `json:"points" yaml:"points"`
}

// AnnotatedPoint is one informational marker on the image.
type AnnotatedPoint struct {
	ID          string  `json:"id" yaml:"id"`
	X           float64 `json:"x" yaml:"x"`
	Y           float64 `json:"y" yaml:"y"`
	Label       string  `json:"label" yaml:"label"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate checks the interactive payload shape and its kind-specific
// invariants.
func (d *InteractiveData) Validate() error {
	if d == nil {
		return ValidationError{Field: "interactive", Msg: "interactive block is missing its payload"}
	}

	if err := d.validateShape(); err != nil {
		return err
	}

	switch d.Kind {
	case InteractiveStabilitySim:
		// Self-contained simulation, nothing authored.
		return nil
	case InteractiveDragOrder:
		return d.DragOrder.validate()
	case InteractiveHotspot:
		return d.Hotspot.validate()
	case InteractiveTrueFalse:
		return d.TrueFalse.validate()
	case InteractiveAnnotatedImage:
		return d.AnnotatedImage.validate()
	default:
		return ValidationError{Field: "interactive.kind", Msg: fmt.Sprintf("unknown interactive kind %q", d.Kind)}
	}
}

func (d *InteractiveData) validateShape() error {
	payloads := map[InteractiveKind]bool{
		InteractiveDragOrder:      d.DragOrder != nil,
		InteractiveHotspot:        d.Hotspot != nil,
		InteractiveTrueFalse:      d.TrueFalse != nil,
		InteractiveAnnotatedImage: d.AnnotatedImage != nil,
	}

	for kind, present := range payloads {
		if kind == d.Kind {
			if !present {
				return ValidationError{Field: "interactive." + string(kind), Msg: fmt.Sprintf("%s exercise is missing its data", kind)}
			}
			continue
		}
		if present {
			return ValidationError{Field: "interactive." + string(kind), Msg: fmt.Sprintf("%s exercise carries %s data", d.Kind, kind)}
		}
	}

	return nil
}

// validate enforces that CorrectOrder is a permutation of the item ids.
func (d *DragOrderData) validate() error {
	if len(d.Items) == 0 {
		return ValidationError{Field: "interactive.dragOrder.items", Msg: "drag-order exercise needs at least one item"}
	}
	if len(d.CorrectOrder) != len(d.Items) {
		return ValidationError{Field: "interactive.dragOrder.correctOrder", Msg: "correctOrder must list every item exactly once"}
	}

	ids := make(map[string]bool, len(d.Items))
	for _, it := range d.Items {
		if it.ID == "" {
			return ValidationError{Field: "interactive.dragOrder.items", Msg: "item id is required"}
		}
		if ids[it.ID] {
			return ValidationError{Field: "interactive.dragOrder.items", Msg: fmt.Sprintf("duplicate item id %q", it.ID)}
		}
		ids[it.ID] = true
	}

	seen := make(map[string]bool, len(d.CorrectOrder))
	for _, id := range d.CorrectOrder {
		if !ids[id] {
			return ValidationError{Field: "interactive.dragOrder.correctOrder", Msg: fmt.Sprintf("correctOrder references unknown item %q", id)}
		}
		if seen[id] {
			return ValidationError{Field: "interactive.dragOrder.correctOrder", Msg: fmt.Sprintf("correctOrder lists item %q twice", id)}
		}
		seen[id] = true
	}

	return nil
}

func (d *HotspotData) validate() error {
	if d.ImageURL == "" {
		return ValidationError{Field: "interactive.hotspot.imageUrl", Msg: "hotspot image url is required"}
	}
	if len(d.Hotspots) == 0 {
		return ValidationError{Field: "interactive.hotspot.hotspots", Msg: "hotspot exercise needs at least one hotspot"}
	}
	for _, h := range d.Hotspots {
		if h.ID == "" {
			return ValidationError{Field: "interactive.hotspot.hotspots", Msg: "hotspot id is required"}
		}
		if h.X < 0 || h.X > 100 || h.Y < 0 || h.Y > 100 {
			return ValidationError{Field: "interactive.hotspot.hotspots", Msg: fmt.Sprintf("hotspot %q coordinates must be percentages between 0 and 100", h.ID)}
		}
	}
	return nil
}

func (d *TrueFalseData) validate() error {
	if len(d.Cards) == 0 {
		return ValidationError{Field: "interactive.trueFalse.cards", Msg: "true/false exercise needs at least one card"}
	}
	for _, c := range d.Cards {
		if c.ID == "" {
			return ValidationError{Field: "interactive.trueFalse.cards", Msg: "card id is required"}
		}
		if c.Statement == "" {
			return ValidationError{Field: "interactive.trueFalse.cards", Msg: fmt.Sprintf("card %q statement is required", c.ID)}
		}
	}
	return nil
}

func (d *AnnotatedImageData) validate() error {
	if d.ImageURL == "" {
		return ValidationError{Field: "interactive.annotatedImage.imageUrl", Msg: "annotated image url is required"}
	}
	for _, p := range d.Points {
		if p.ID == "" {
			return ValidationError{Field: "interactive.annotatedImage.points", Msg: "point id is required"}
		}
		if p.X < 0 || p.X > 100 || p.Y < 0 || p.Y > 100 {
			return ValidationError{Field: "interactive.annotatedImage.points", Msg: fmt.Sprintf("point %q coordinates must be percentages between 0 and 100", p.ID)}
		}
	}
	return nil
}
