package icon

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/larder/errors"
	"github.com/teranos/larder/normalize"
)

//go:embed tables/icons.toml
var embeddedTable []byte

// EmbeddedSource names the table compiled into the binary.
const EmbeddedSource = "embedded:icons.toml"

// Rule maps a keyword to a token. A rule whose Result is an emoji has no
// dedicated asset, so Resolve prefers the category token over it.
type Rule struct {
	Keyword string
	Result  Token
}

// EmojiOnly reports whether the rule lacks a dedicated icon.
func (r Rule) EmojiOnly() bool { return r.Result.IsEmoji() }

// Table is an ordered keyword rule list plus a category lookup. A Table is
// immutable once built; share it freely between goroutines.
type Table struct {
	version    *semver.Version
	source     string
	rules      []Rule
	categories map[string]Token
}

type tableFile struct {
	Version  string                `toml:"version"`
	Rules    []entryFile           `toml:"rule"`
	Category map[string]entryFile `toml:"category"`
}

type entryFile struct {
	Keyword string `toml:"keyword"`
	Icon    string `toml:"icon"`
	Emoji   string `toml:"emoji"`
}

func (e entryFile) token() (Token, error) {
	switch {
	case e.Icon != "" && e.Emoji != "":
		return Token{}, errors.New("sets both icon and emoji")
	case e.Icon != "":
		return Icon(e.Icon), nil
	case e.Emoji != "":
		return Emoji(e.Emoji), nil
	default:
		return Token{}, errors.New("sets neither icon nor emoji")
	}
}

// ParseTable decodes and validates a TOML icon table. source is used in
// error messages only.
func ParseTable(data []byte, source string) (*Table, error) {
	var raw tableFile
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, errors.Wrapf(err, "decode icon table %s", source)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Newf("icon table %s: unknown keys %s", source, strings.Join(keys, ", "))
	}

	if raw.Version == "" {
		return nil, errors.Newf("icon table %s: missing version", source)
	}
	v, err := semver.StrictNewVersion(raw.Version)
	if err != nil {
		return nil, errors.Wrapf(err, "icon table %s: version %q", source, raw.Version)
	}

	t := &Table{
		version:    v,
		source:     source,
		rules:      make([]Rule, 0, len(raw.Rules)),
		categories: make(map[string]Token, len(raw.Category)),
	}

	for i, entry := range raw.Rules {
		keyword := normalize.Key(entry.Keyword)
		if keyword == "" {
			return nil, errors.Newf("icon table %s: rule %d has an empty keyword", source, i+1)
		}
		tok, err := entry.token()
		if err != nil {
			return nil, errors.Wrapf(err, "icon table %s: rule %d (%q)", source, i+1, keyword)
		}
		// A keyword containing an earlier one can never win.
		for _, earlier := range t.rules {
			if strings.Contains(keyword, earlier.Keyword) {
				return nil, errors.WithHintf(
					errors.Newf("icon table %s: rule %d (%q) is shadowed by earlier keyword %q",
						source, i+1, keyword, earlier.Keyword),
					"move %q above %q", keyword, earlier.Keyword)
			}
		}
		t.rules = append(t.rules, Rule{Keyword: keyword, Result: tok})
	}

	for name, entry := range raw.Category {
		if entry.Keyword != "" {
			return nil, errors.Newf("icon table %s: category %q cannot set keyword", source, name)
		}
		key := normalize.Key(name)
		if key == "" {
			return nil, errors.Newf("icon table %s: empty category name", source)
		}
		tok, err := entry.token()
		if err != nil {
			return nil, errors.Wrapf(err, "icon table %s: category %q", source, name)
		}
		if _, dup := t.categories[key]; dup {
			return nil, errors.Newf("icon table %s: category %q defined twice", source, key)
		}
		t.categories[key] = tok
	}

	return t, nil
}

// EmbeddedTable returns the table compiled into the binary.
func EmbeddedTable() *Table {
	return embedded
}

var embedded = mustParseEmbedded()

func mustParseEmbedded() *Table {
	t, err := ParseTable(embeddedTable, EmbeddedSource)
	if err != nil {
		panic(fmt.Sprintf("icon: invalid embedded table: %v", err))
	}
	return t
}

// LoadTableFile reads a replacement table from path. The file's version must
// share the embedded table's major version, so a table written for an
// incompatible rule ordering is refused.
func LoadTableFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read icon table %s", path)
	}
	t, err := ParseTable(data, path)
	if err != nil {
		return nil, err
	}
	if err := CheckCompatible(t, embedded); err != nil {
		return nil, err
	}
	return t, nil
}

// CheckCompatible returns an error unless t's version satisfies ^base.major.
func CheckCompatible(t, base *Table) error {
	expr := fmt.Sprintf("^%d", base.version.Major())
	c, err := semver.NewConstraint(expr)
	if err != nil {
		return errors.Wrapf(err, "icon table constraint %q", expr)
	}
	if !c.Check(t.version) {
		return errors.WithHintf(
			errors.Newf("icon table %s: version %s does not satisfy %s", t.source, t.version, expr),
			"table files for this build must use version %d.x.y", base.version.Major())
	}
	return nil
}

// Version is the table's semantic version.
func (t *Table) Version() *semver.Version { return t.version }

// Source is the file the table was loaded from, or EmbeddedSource.
func (t *Table) Source() string { return t.source }

// Rules returns a copy of the rules in precedence order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Category looks up the token for a category name.
func (t *Table) Category(name string) (Token, bool) {
	tok, ok := t.categories[normalize.Key(name)]
	return tok, ok
}

// Categories returns the category names in sorted order.
func (t *Table) Categories() []string {
	names := make([]string, 0, len(t.categories))
	for name := range t.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
