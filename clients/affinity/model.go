package affinity

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Organization is an Affinity organization.
type Organization struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Domain      string      `json:"domain"`
	Domains     []string    `json:"domains"`
	ListEntries []ListEntry `json:"list_entries"`
}

// Entry returns the organization's entry on a list.
func (o *Organization) Entry(listID int64) (*ListEntry, bool) {
	for i := range o.ListEntries {
		if o.ListEntries[i].ListID == listID {
			return &o.ListEntries[i], true
		}
	}
	return nil, false
}

// ListEntry places an entity on a list.
type ListEntry struct {
	ID        int64         `json:"id"`
	ListID    int64         `json:"list_id"`
	EntityID  int64         `json:"entity_id"`
	Entity    *Organization `json:"entity"`
	CreatedAt string        `json:"created_at"`
}

// Field describes a list column.
type Field struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	ListID int64  `json:"list_id"`
}

// FieldValue is the value of one field on one list entry.
type FieldValue struct {
	ID          int64 `json:"id"`
	FieldID     int64 `json:"field_id"`
	ListEntryID int64 `json:"list_entry_id"`
	Value       Value  `json:"value"`
}

// Note is an entry of an organization's activity timeline.
type Note struct {
	ID        int64   `json:"id"`
	Type      Text    `json:"type"`
	Content   string  `json:"content"`
	PlainText string  `json:"plain_text"`
	CreatedAt string  `json:"created_at"`
	Creator   *Person `json:"creator"`
}

// Body returns the note content.
func (n *Note) Body() string {
	if n.Content != "" {
		return n.Content
	}
	return n.PlainText
}

// Date returns the creation day as YYYY-MM-DD.
func (n *Note) Date() string {
	return day(n.CreatedAt)
}

type Person struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName joins first and last name.
func (p *Person) FullName() string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Interaction is an email, meeting or call logged against an organization.
type Interaction struct {
	ID      int64  `json:"id"`
	Type    Text   `json:"type"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
}

// Day returns the interaction day as YYYY-MM-DD.
func (i *Interaction) Day() string {
	return day(i.Date)
}

func day(ts string) string {
	if len(ts) > 10 {
		return ts[:10]
	}
	return ts
}

// Value is a field value. Dropdown fields carry an object with an option id
// and text; other fields carry a scalar.
type Value struct {
	raw json.RawMessage
}

func (v *Value) UnmarshalJSON(b []byte) error {
	v.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// RawValue builds a Value from JSON.
func RawValue(js string) Value {
	return Value{raw: json.RawMessage(js)}
}

func (v Value) isNull() bool {
	b := bytes.TrimSpace(v.raw)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}

// Text renders the value as a string.
func (v Value) Text() string {
	if v.isNull() {
		return ""
	}

	var obj struct {
		Text string `json:"text"`
	}
	if v.raw[0] == '{' {
		json.Unmarshal(v.raw, &obj)
		return obj.Text
	}

	var s string
	if err := json.Unmarshal(v.raw, &s); err == nil {
		return s
	}

	return string(bytes.TrimSpace(v.raw))
}

// OptionID returns the dropdown option id, or 0.
func (v Value) OptionID() int64 {
	if v.isNull() || v.raw[0] != '{' {
		return 0
	}

	var obj struct {
		ID int64 `json:"id"`
	}
	json.Unmarshal(v.raw, &obj)
	return obj.ID
}

// Truthy reports whether the value is set to something other than false,
// zero or an empty string.
func (v Value) Truthy() bool {
	if v.isNull() {
		return false
	}

	switch s := string(bytes.TrimSpace(v.raw)); s {
	case "false", "0", `""`, "[]", "{}":
		return false
	}

	return true
}

// Text is a label Affinity reports as a string or a number.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*t = Text(n.String())
	}

	return nil
}

func (t Text) String() string {
	return string(t)
}

// Itoa formats an id.
func Itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
