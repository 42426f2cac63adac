package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Document is a generated metadata document with its canonical form and hash.
type Document struct {
	JSONLD    map[string]interface{}
	Canonical []byte
	Hash      string
}

// Generator builds and hashes DRep metadata documents.
type Generator struct {
	ld    *URDNA2015
	canon Canonicalizer
}

// NewGenerator returns a generator that compacts with json-gold and hashes
// the output of canon.
func NewGenerator(canon Canonicalizer) *Generator {
	if u, ok := canon.(*URDNA2015); ok {
		return &Generator{ld: u, canon: canon}
	}
	return &Generator{ld: NewURDNA2015(nil), canon: canon}
}

// Canonicalizer returns the canonicalizer used for hashing.
func (g *Generator) Canonicalizer() Canonicalizer {
	return g.canon
}

// Generate wraps the body of p in the CIP-100 envelope, compacts it against
// DRepContext, canonicalises and hashes it.
func (g *Generator) Generate(p Profile) (*Document, error) {
	doc, err := g.JSONLD(Project(p))
	if err != nil {
		return nil, err
	}
	canonical, err := g.canon.Canonicalize(doc)
	if err != nil {
		return nil, err
	}
	return &Document{JSONLD: doc, Canonical: canonical, Hash: Hash(canonical)}, nil
}

// JSONLD returns the compacted document for body.
func (g *Generator) JSONLD(body Body) (map[string]interface{}, error) {
	envelope := map[string]interface{}{
		"@context":               DRepContext(),
		CIP100 + "body":          body.Map(),
		CIP100 + "hashAlgorithm": HashAlgorithm,
		CIP100 + "authors":       []interface{}{},
	}
	return g.ld.Compact(envelope, DRepContext())
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName derives the download file name from the DRep name.
func FileName(dRepName string) string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(strings.TrimSpace(dRepName), "_"), "._")
	if name == "" {
		name = "data"
	}
	return name + ".jsonld"
}

// Download writes doc as indented JSON.
func Download(w io.Writer, doc map[string]interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}
