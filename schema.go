package shellopts

import (
	"encoding/json"
	"time"
)

// Document describes the registry contents for tooling: generated help,
// completion scripts, configuration UIs.
type Document struct {
	GeneratedAt time.Time   `json:"generated_at"`
	SetOMirror  string      `json:"set_o_mirror,omitempty"`
	ShoptMirror string      `json:"shopt_mirror,omitempty"`
	Options     []OptionDoc `json:"options"`
}

// OptionDoc is the introspective record for one descriptor.
type OptionDoc struct {
	Name         string `json:"name,omitempty"`
	Letter       string `json:"letter,omitempty"`
	Enabled      bool   `json:"enabled"`
	Help         string `json:"help,omitempty"`
	Guard        string `json:"guard,omitempty"`
	ReadOnly     bool   `json:"read_only,omitempty"`
	ForbidChange bool   `json:"forbid_change,omitempty"`
	IgnoreChange bool   `json:"ignore_change,omitempty"`
	HideSetO     bool   `json:"hide_set_o,omitempty"`
	HideShopt    bool   `json:"hide_shopt,omitempty"`
	MirrorSetO   bool   `json:"mirror_set_o,omitempty"`
	MirrorShopt  bool   `json:"mirror_shopt,omitempty"`
}

// Schema builds a Document of every option visible to class, in
// enumeration order.
func (r *Registry) Schema(class Class) Document {
	doc := Document{
		GeneratedAt: time.Now().UTC(),
		SetOMirror:  r.cfg.setOName,
		ShoptMirror: r.cfg.shoptName,
	}
	for d := range r.All(hideForClass(class)) {
		entry := OptionDoc{
			Name:         d.Name,
			Enabled:      r.Get(d, class).Bool(),
			Help:         d.Help,
			Guard:        d.Guard,
			ReadOnly:     d.ReadOnly,
			ForbidChange: d.ForbidChange,
			IgnoreChange: d.IgnoreChange,
			HideSetO:     d.HideSetO,
			HideShopt:    d.HideShopt,
			MirrorSetO:   d.MirrorSetO,
			MirrorShopt:  d.MirrorShopt,
		}
		if d.Letter != 0 {
			entry.Letter = string(d.Letter)
		}
		doc.Options = append(doc.Options, entry)
	}
	return doc
}

// ToJSON renders the document with indentation.
func (d Document) ToJSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
