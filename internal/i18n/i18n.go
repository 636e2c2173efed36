// Package i18n holds the English and Welsh message tables and picks the
// language for a request.
//
// Tables are embedded YAML, flattened to dot-separated keys at load time
// and never modified afterwards. A key missing from the Welsh table falls
// back to English, and a key missing from both renders as the key itself.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Supported languages.
const (
	English = "en"
	Welsh   = "cy"
)

// DefaultLang is used when nothing better can be negotiated.
const DefaultLang = English

// ErrNoTables is returned when no locale file is embedded.
var ErrNoTables = errors.New("no locale tables")

//go:embed locales/*.yaml
var localeFS embed.FS

var supportedTags = []language.Tag{language.English, language.Make(Welsh)}

// Catalog is the immutable set of message tables.
type Catalog struct {
	tables  map[string]map[string]string
	matcher language.Matcher
}

// Load reads the embedded locale tables.
func Load() (*Catalog, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("reading locales: %w", err)
	}
	tables := make(map[string]map[string]string, len(entries))
	for _, e := range entries {
		lang := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		data, err := localeFS.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		table, err := parseTable(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", e.Name(), err)
		}
		tables[lang] = table
	}
	if _, ok := tables[DefaultLang]; !ok {
		return nil, ErrNoTables
	}
	return &Catalog{tables: tables, matcher: language.NewMatcher(supportedTags)}, nil
}

func parseTable(data []byte) (map[string]string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	out := map[string]string{}
	flatten("", doc, out)
	return out, nil
}

// flatten turns nested maps into dot-separated keys.
func flatten(prefix string, node any, out map[string]string) {
	join := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "." + k
	}
	switch n := node.(type) {
	case map[string]any:
		for k, v := range n {
			flatten(join(k), v, out)
		}
	case map[any]any:
		for k, v := range n {
			flatten(join(fmt.Sprint(k)), v, out)
		}
	case nil:
	default:
		out[prefix] = fmt.Sprint(n)
	}
}

// Lookup returns the message for key in lang, falling back to English.
func (c *Catalog) Lookup(lang, key string) (string, bool) {
	if msg, ok := c.tables[lang][key]; ok {
		return msg, true
	}
	msg, ok := c.tables[DefaultLang][key]
	return msg, ok
}

// T returns the message for key, or the key when no table has it. With
// args the message is used as a format string.
func (c *Catalog) T(lang, key string, args ...any) string {
	msg, ok := c.Lookup(lang, key)
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Has reports whether the English table defines key.
func (c *Catalog) Has(key string) bool {
	_, ok := c.tables[DefaultLang][key]
	return ok
}

// Keys returns the keys of lang's own table, sorted.
func (c *Catalog) Keys(lang string) []string {
	keys := make([]string, 0, len(c.tables[lang]))
	for k := range c.tables[lang] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Supported reports whether lang names a table.
func (c *Catalog) Supported(lang string) bool {
	_, ok := c.tables[lang]
	return ok
}

// Negotiate picks the language for a request: an explicit lang parameter,
// then the lang cookie, then the Accept-Language header.
func (c *Catalog) Negotiate(param, cookie, acceptLanguage string) string {
	for _, explicit := range []string{param, cookie} {
		if c.Supported(explicit) {
			return explicit
		}
	}
	if acceptLanguage == "" {
		return DefaultLang
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	base, _ := supportedTags[idx].Base()
	if lang := base.String(); c.Supported(lang) {
		return lang
	}
	return DefaultLang
}
