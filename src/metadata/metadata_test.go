package metadata

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashKnownVector(t *testing.T) {
	assert.Equal(t, "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8", Hash(nil))
	assert.Len(t, Hash([]byte("anything")), 64)
	assert.True(t, HashEqual("ABCD", "abcd"))
	assert.False(t, HashEqual("", ""))
}

func TestProjectKeepsNonEmptyLinksInOrder(t *testing.T) {
	body := Project(Profile{
		DRepName: "Alice",
		Links:    []string{"", "https://a.example", "  ", "https://b.example"},
	})
	require.Len(t, body.References, 2)
	assert.Equal(t, "https://a.example", body.References[0].URI)
	assert.Equal(t, "https://b.example", body.References[1].URI)
	for _, ref := range body.References {
		assert.Equal(t, ReferenceOther, ref.Type)
		assert.Equal(t, "Label", ref.Label)
	}
}

func TestBodyMapOnlyAcceptedKeys(t *testing.T) {
	m := Project(Profile{
		DRepName: "Alice",
		Bio:      "bio",
		Email:    "alice@example.org",
		Links:    []string{"https://a.example"},
	}).Map()

	allowed := map[string]bool{
		CIPQQQ + "dRepName":   true,
		CIPQQQ + "bio":        true,
		CIPQQQ + "email":      true,
		CIPQQQ + "references": true,
	}
	assert.Len(t, m, 4)
	for k := range m {
		assert.True(t, allowed[k], k)
	}

	refs := m[CIPQQQ+"references"].([]interface{})
	require.Len(t, refs, 1)
	ref := refs[0].(map[string]interface{})
	assert.Equal(t, "Other", ref["@type"])
	assert.Equal(t, "Label", ref[CIP100+"reference-label"])
	assert.Equal(t, "https://a.example", ref[CIP100+"reference-uri"])
}

func TestBodyMapNameOnly(t *testing.T) {
	m := Project(Profile{DRepName: "Alice", Links: []string{""}}).Map()
	assert.Equal(t, map[string]interface{}{CIPQQQ + "dRepName": "Alice"}, m)
}

func TestJCS(t *testing.T) {
	out, err := JCS{}.Canonicalize(map[string]interface{}{"b": 1, "a": "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":1}`, string(out))
}

func TestNewCanonicalizer(t *testing.T) {
	c, err := NewCanonicalizer("", nil)
	require.NoError(t, err)
	assert.Equal(t, AlgorithmURDNA2015, c.Name())

	c, err = NewCanonicalizer("JCS", nil)
	require.NoError(t, err)
	assert.Equal(t, AlgorithmJCS, c.Name())

	_, err = NewCanonicalizer("sha1", nil)
	assert.Error(t, err)
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := NewGenerator(NewURDNA2015(nil))
	profile := Profile{DRepName: "Alice", Bio: "Cardano enjoyer", Links: []string{"https://alice.example"}}

	first, err := g.Generate(profile)
	require.NoError(t, err)
	second, err := g.Generate(profile)
	require.NoError(t, err)

	assert.Len(t, first.Hash, 64)
	assert.Equal(t, first.Hash, second.Hash)
	assert.Equal(t, Hash(first.Canonical), first.Hash)
	assert.Contains(t, first.JSONLD, "@context")

	profile.Bio = "changed"
	third, err := g.Generate(profile)
	require.NoError(t, err)
	assert.NotEqual(t, first.Hash, third.Hash)
}

func TestGenerateNameOnlyDocument(t *testing.T) {
	g := NewGenerator(NewURDNA2015(nil))
	doc, err := g.Generate(Profile{DRepName: "Alice", Links: []string{""}})
	require.NoError(t, err)

	body, ok := doc.JSONLD["body"].(map[string]interface{})
	require.True(t, ok, "compacted body: %#v", doc.JSONLD)
	assert.Equal(t, map[string]interface{}{"dRepName": "Alice"}, body)
	assert.Contains(t, string(doc.Canonical), "Alice")
}

func TestGenerateWithJCS(t *testing.T) {
	g := NewGenerator(JCS{})
	doc, err := g.Generate(Profile{DRepName: "Alice"})
	require.NoError(t, err)

	raw, err := json.Marshal(doc.JSONLD)
	require.NoError(t, err)
	again, err := JCS{}.Canonicalize(json.RawMessage(raw))
	require.NoError(t, err)
	assert.Equal(t, doc.Hash, Hash(again))
}

func TestFileNameAndDownload(t *testing.T) {
	assert.Equal(t, "Alice_Smith.jsonld", FileName("Alice Smith"))
	assert.Equal(t, "data.jsonld", FileName(""))
	assert.Equal(t, "x.jsonld", FileName("../x"))

	var buf bytes.Buffer
	require.NoError(t, Download(&buf, map[string]interface{}{"a": 1}))
	assert.True(t, strings.HasPrefix(buf.String(), "{\n  \"a\": 1"))
}
