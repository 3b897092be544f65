package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DescriptionKind tags which variant a Description holds
type DescriptionKind string

const (
	DescriptionNone      DescriptionKind = ""
	DescriptionText      DescriptionKind = "text"
	DescriptionChecklist DescriptionKind = "checklist"
)

// ChecklistItem is one line of a checklist description
type ChecklistItem struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// Description is either plain text or a checklist. The zero value is an empty
// description, which is what super tasks carry.
type Description struct {
	Kind  DescriptionKind
	Text  string
	Items []ChecklistItem
}

// TextDescription builds a plain text description
func TextDescription(text string) Description {
	if strings.TrimSpace(text) == "" {
		return Description{}
	}
	return Description{Kind: DescriptionText, Text: text}
}

// ChecklistDescription builds a checklist description
func ChecklistDescription(items []ChecklistItem) Description {
	if len(items) == 0 {
		return Description{}
	}
	return Description{Kind: DescriptionChecklist, Items: items}
}

// IsEmpty reports whether the description holds nothing
func (d Description) IsEmpty() bool {
	return d.Kind == DescriptionNone
}

// Done returns the number of checked items and the total for a checklist
func (d Description) Done() (checked, total int) {
	for _, item := range d.Items {
		if item.Checked {
			checked++
		}
	}
	return checked, len(d.Items)
}

// Validate rejects unknown kinds and blank checklist lines
func (d Description) Validate() error {
	switch d.Kind {
	case DescriptionNone, DescriptionText:
		return nil
	case DescriptionChecklist:
		for i, item := range d.Items {
			if strings.TrimSpace(item.Text) == "" {
				return fmt.Errorf("checklist item %d has no text", i+1)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown description type %q", d.Kind)
}

type descriptionJSON struct {
	Type  DescriptionKind `json:"type"`
	Text  string          `json:"text,omitempty"`
	Items []ChecklistItem `json:"items,omitempty"`
}

// MarshalJSON encodes the description as a tagged object, or null when empty
func (d Description) MarshalJSON() ([]byte, error) {
	if d.IsEmpty() {
		return []byte("null"), nil
	}
	return json.Marshal(descriptionJSON{Type: d.Kind, Text: d.Text, Items: d.Items})
}

// UnmarshalJSON accepts a tagged object, a bare string (plain text) or null
func (d *Description) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*d = Description{}
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*d = TextDescription(text)
		return nil
	}

	var raw descriptionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case DescriptionText:
		*d = TextDescription(raw.Text)
	case DescriptionChecklist:
		*d = ChecklistDescription(raw.Items)
	case DescriptionNone:
		return errors.New("description type is required")
	default:
		return fmt.Errorf("unknown description type %q", raw.Type)
	}
	return nil
}

// Body returns the stored form of the description body: the text itself, or the
// JSON-encoded checklist items
func (d Description) Body() (string, error) {
	switch d.Kind {
	case DescriptionText:
		return d.Text, nil
	case DescriptionChecklist:
		b, err := json.Marshal(d.Items)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return "", nil
}

// DescriptionFromStored rebuilds a description from its stored kind and body
func DescriptionFromStored(kind, body string) (Description, error) {
	switch DescriptionKind(kind) {
	case DescriptionText:
		return Description{Kind: DescriptionText, Text: body}, nil
	case DescriptionChecklist:
		var items []ChecklistItem
		if err := json.Unmarshal([]byte(body), &items); err != nil {
			return Description{}, fmt.Errorf("decode checklist: %w", err)
		}
		return ChecklistDescription(items), nil
	case DescriptionNone:
		return Description{}, nil
	}
	return Description{}, fmt.Errorf("unknown description type %q", kind)
}
