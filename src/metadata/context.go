package metadata

// Vocabulary prefixes.
const (
	CIP100 = "https://github.com/cardano-foundation/CIPs/blob/master/CIP-0100/README.md#"
	CIPQQQ = "https://github.com/cardano-foundation/CIPs/blob/master/CIP-QQQ/README.md#"
)

// HashAlgorithm is recorded in every generated document.
const HashAlgorithm = "blake2b-256"

// DRepContext is the JSON-LD context of DRep registration metadata. A fresh
// copy is returned on every call because json-gold may annotate its input.
func DRepContext() map[string]interface{} {
	return map[string]interface{}{
		"@language":     "en-us",
		"CIP100":        CIP100,
		"CIPQQQ":        CIPQQQ,
		"hashAlgorithm": "CIP100:hashAlgorithm",
		"body":          "CIP100:body",
		"authors": map[string]interface{}{
			"@id":        "CIP100:authors",
			"@container": "@set",
		},
		"dRepName": "CIPQQQ:dRepName",
		"bio":      "CIPQQQ:bio",
		"email":    "CIPQQQ:email",
		"references": map[string]interface{}{
			"@id":        "CIPQQQ:references",
			"@container": "@set",
		},
		"GovernanceMetadata": "CIP100:GovernanceMetadataReference",
		"Other":              "CIP100:OtherReference",
		"label":              "CIP100:reference-label",
		"uri":                "CIP100:reference-uri",
	}
}
