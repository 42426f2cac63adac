package registration

import (
	"errors"
	"html"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/OneOfOne/xxhash"
	"github.com/microcosm-cc/bluemonday"

	"github.com/stake-plus/govtool/src/metadata"
)

const maxNameLength = 80

var (
	ErrNameRequired = errors.New("dRepName is required")
	ErrNameTooLong  = errors.New("dRepName is too long")
	ErrInvalidEmail = errors.New("invalid email format")
	ErrInvalidLink  = errors.New("links must be http(s) URLs")

	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	strict     = bluemonday.StrictPolicy()
)

// Link is one entry of the form's link list.
type Link struct {
	Link string `json:"link"`
}

// RegisterAsDRepValues is the registration form.
type RegisterAsDRepValues struct {
	DRepName   string `json:"dRepName"`
	Bio        string `json:"bio"`
	Email      string `json:"email"`
	Links      []Link `json:"links"`
	StoreData  bool   `json:"storeData"`
	StoringURL string `json:"storingURL"`
}

// DefaultRegisterAsDRepValues returns an empty form with one link slot.
func DefaultRegisterAsDRepValues() RegisterAsDRepValues {
	return RegisterAsDRepValues{Links: []Link{{}}}
}

// Validate checks the fields a user can get wrong.
func (v RegisterAsDRepValues) Validate() error {
	name := strings.TrimSpace(v.DRepName)
	if name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrNameTooLong
	}
	if v.Email != "" && !emailRegex.MatchString(v.Email) {
		return ErrInvalidEmail
	}
	for _, l := range v.Links {
		if strings.TrimSpace(l.Link) == "" {
			continue
		}
		u, err := url.Parse(strings.TrimSpace(l.Link))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidLink
		}
	}
	return nil
}

// Profile projects the form onto the fields that go into metadata.
// Markup is stripped from free text.
func (v RegisterAsDRepValues) Profile() metadata.Profile {
	links := make([]string, 0, len(v.Links))
	for _, l := range v.Links {
		links = append(links, l.Link)
	}
	return metadata.Profile{
		DRepName: clean(v.DRepName),
		Bio:      clean(v.Bio),
		Email:    strings.TrimSpace(v.Email),
		Links:    links,
	}
}

func clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// fingerprint changes whenever a field that feeds the metadata hash changes.
func (v RegisterAsDRepValues) fingerprint() uint64 {
	p := v.Profile()
	h := xxhash.New64()
	for _, s := range append([]string{p.DRepName, p.Bio, p.Email}, p.Links...) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
