// Package i18n holds the display strings for packing items, categories and
// printed checklists. Packing lists only carry keys; this package turns them
// into text for a locale.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every other catalog is checked against.
const BaseLocale = "en"

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Catalog stores messages for every supported locale.
type Catalog struct {
	messages map[string]map[string]string
	tags     []language.Tag
	matcher  language.Matcher
}

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

// LoadEmbedded loads the catalogs shipped with the binary.
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(embeddedFS)
}

// MustLoadEmbedded is LoadEmbedded for package initialization and tests.
func MustLoadEmbedded() *Catalog {
	c, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFromFS loads catalogs laid out as locales/<locale>/<namespace>.yaml.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	c := &Catalog{messages: map[string]map[string]string{}}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		if err := c.addFile(path, file); err != nil {
			return nil, err
		}
	}

	if _, ok := c.messages[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}

	// The base locale goes first so the matcher falls back to it.
	c.tags = []language.Tag{language.Make(BaseLocale)}
	for _, locale := range c.Locales() {
		if locale == BaseLocale {
			continue
		}
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		c.tags = append(c.tags, tag)
	}
	c.matcher = language.NewMatcher(c.tags)

	return c, nil
}

func (c *Catalog) addFile(path string, file catalogFile) error {
	localeFromPath := filepath.Base(filepath.Dir(path))
	namespaceFromPath := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	locale := strings.TrimSpace(file.Locale)
	if locale != localeFromPath {
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", path, locale, localeFromPath)
	}
	if strings.TrimSpace(file.Namespace) != namespaceFromPath {
		return fmt.Errorf("catalog %s: namespace %q must match filename %q", path, file.Namespace, namespaceFromPath)
	}
	if file.Messages == nil {
		return fmt.Errorf("catalog %s: messages map is required", path)
	}

	messages, ok := c.messages[locale]
	if !ok {
		messages = map[string]string{}
		c.messages[locale] = messages
	}
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", path)
		}
		if _, exists := messages[key]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %q", path, key, locale)
		}
		messages[key] = value
	}
	return nil
}

// Locales returns the supported locale identifiers, sorted.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Match maps a requested language tag such as "de-AT" to the closest
// supported locale. Unparseable or unsupported tags yield BaseLocale.
func (c *Catalog) Match(requested string) string {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return BaseLocale
	}
	tag, err := language.Parse(requested)
	if err != nil {
		return BaseLocale
	}
	_, index, confidence := c.matcher.Match(tag)
	if confidence == language.No {
		return BaseLocale
	}
	base, _ := c.tags[index].Base()
	if _, ok := c.messages[base.String()]; ok {
		return base.String()
	}
	return BaseLocale
}

// Lookup returns the message for key in locale. There is no fallback to the
// base locale: packing lists compare display text, and a missing translation
// must resolve the same way every time.
func (c *Catalog) Lookup(locale, key string) (string, bool) {
	messages, ok := c.messages[locale]
	if !ok {
		return "", false
	}
	value, ok := messages[key]
	return value, ok
}

// Text returns the message for key in locale, falling back to the base
// locale and finally to the key itself.
func (c *Catalog) Text(locale, key string) string {
	if v, ok := c.Lookup(locale, key); ok {
		return v
	}
	if v, ok := c.Lookup(BaseLocale, key); ok {
		return v
	}
	return key
}

// CategoryLabel returns the heading for a category. Unknown categories,
// such as those typed in by a user for custom items, are capitalized.
func (c *Catalog) CategoryLabel(locale, category, labelKey string) string {
	if labelKey != "" {
		if v, ok := c.Lookup(locale, labelKey); ok {
			return v
		}
	}
	if category == "" {
		return ""
	}
	return strings.ToUpper(category[:1]) + category[1:]
}
