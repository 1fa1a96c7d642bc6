package icon

import (
	"encoding/json"

	"github.com/teranos/larder/errors"
)

// Kind tells which variant of a Token is active.
type Kind int

const (
	// KindIcon names a drawable asset, e.g. "salmon".
	KindIcon Kind = iota + 1
	// KindEmoji is a literal glyph, e.g. "🐟".
	KindEmoji
)

func (k Kind) String() string {
	switch k {
	case KindIcon:
		return "icon"
	case KindEmoji:
		return "emoji"
	default:
		return "unknown"
	}
}

// Token is what an ingredient should be drawn with: either an icon asset name
// or an emoji glyph, never both.
type Token struct {
	Kind  Kind
	Value string
}

// Icon returns an icon-asset token.
func Icon(name string) Token { return Token{Kind: KindIcon, Value: name} }

// Emoji returns an emoji token.
func Emoji(glyph string) Token { return Token{Kind: KindEmoji, Value: glyph} }

// IsIcon reports whether t names an asset.
func (t Token) IsIcon() bool { return t.Kind == KindIcon }

// IsEmoji reports whether t is a literal glyph.
func (t Token) IsEmoji() bool { return t.Kind == KindEmoji }

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Value
}

type tokenJSON struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// MarshalJSON encodes t as {"kind":"icon"|"emoji","value":...}.
func (t Token) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case KindIcon, KindEmoji:
		return json.Marshal(tokenJSON{Kind: t.Kind.String(), Value: t.Value})
	default:
		return nil, errors.Newf("icon token has no kind (value %q)", t.Value)
	}
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (t *Token) UnmarshalJSON(data []byte) error {
	var raw tokenJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decode icon token")
	}
	switch raw.Kind {
	case "icon":
		*t = Icon(raw.Value)
	case "emoji":
		*t = Emoji(raw.Value)
	default:
		return errors.Newf("unknown icon token kind %q", raw.Kind)
	}
	return nil
}
