package metadata

import "strings"

// ReferenceOther tags references built from free-form links.
const ReferenceOther = "Other"

// Profile is the subset of the registration form that goes into metadata.
type Profile struct {
	DRepName string
	Bio      string
	Email    string
	Links    []string
}

// Reference is one entry of the references list.
type Reference struct {
	Type  string
	Label string
	URI   string
}

// Body is the metadata body: the accepted fields and references only.
type Body struct {
	DRepName   string
	Bio        string
	Email      string
	References []Reference
}

// Project builds the body. Empty links are dropped; the rest keep their order.
func Project(p Profile) Body {
	b := Body{
		DRepName: strings.TrimSpace(p.DRepName),
		Bio:      strings.TrimSpace(p.Bio),
		Email:    strings.TrimSpace(p.Email),
	}
	for _, link := range p.Links {
		link = strings.TrimSpace(link)
		if link == "" {
			continue
		}
		b.References = append(b.References, Reference{Type: ReferenceOther, Label: "Label", URI: link})
	}
	return b
}

// Map renders the body with every key namespaced under CIPQQQ. Empty
// optional fields and an empty references list are left out.
func (b Body) Map() map[string]interface{} {
	m := map[string]interface{}{}
	if b.DRepName != "" {
		m[CIPQQQ+"dRepName"] = b.DRepName
	}
	if b.Bio != "" {
		m[CIPQQQ+"bio"] = b.Bio
	}
	if b.Email != "" {
		m[CIPQQQ+"email"] = b.Email
	}
	if len(b.References) > 0 {
		refs := make([]interface{}, 0, len(b.References))
		for _, r := range b.References {
			refs = append(refs, map[string]interface{}{
				"@type":                    r.Type,
				CIP100 + "reference-label": r.Label,
				CIP100 + "reference-uri":   r.URI,
			})
		}
		m[CIPQQQ+"references"] = refs
	}
	return m
}
