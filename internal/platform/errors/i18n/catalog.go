// Package i18n provides localized user-facing messages for error codes.
package i18n

import (
	"bytes"
	"sort"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// Code is a machine-readable error code (duplicated from the errors
// package to avoid an import cycle).
type Code = string

// BaseLocale is the canonical source locale for catalogs.
const BaseLocale = "en-US"

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

var (
	catalogsMu sync.RWMutex
	catalogs   = map[string]*Catalog{}

	matcherMu sync.RWMutex
	matcher   language.Matcher
	tagLocale map[language.Tag]string
)

func init() {
	RegisterCatalog(BaseLocale, NewCatalog(BaseLocale, enUS))
}

// GetCatalog returns the catalog whose locale best matches the requested
// one, using BCP 47 matching. Falls back to en-US when nothing matches.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = BaseLocale
	}

	if c, ok := lookupCatalog(requested); ok {
		return c
	}

	matcherMu.RLock()
	m, byTag, tags := matcher, tagLocale, matcherTags
	matcherMu.RUnlock()

	if tag, err := language.Parse(requested); err == nil {
		_, index, _ := m.Match(tag)
		if index >= 0 && index < len(tags) {
			if resolved, ok := byTag[tags[index]]; ok {
				if c, found := lookupCatalog(resolved); found {
					return c
				}
			}
		}
	}

	base, _ := lookupCatalog(BaseLocale)
	return base
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template with the given metadata.
// Falls back to the error code itself if no template is found, and to
// the raw template text if parsing or execution fails.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		return code
	}

	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

// NewCatalog creates a new catalog with the given locale and messages.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
	}
	return &Catalog{
		locale:   locale,
		messages: cloned,
	}
}

// RegisterCatalog registers a catalog for the given locale and rebuilds
// the language matcher. Callers should register during init or in
// single-threaded test setup.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	catalogs[locale] = cat
	locales := make([]string, 0, len(catalogs))
	for l := range catalogs {
		locales = append(locales, l)
	}
	catalogsMu.Unlock()

	rebuildMatcher(locales)
}

func rebuildMatcher(locales []string) {
	sort.Strings(locales)

	// The base locale must come first so it wins ties and serves as the
	// matcher's default.
	tags := []language.Tag{language.MustParse(BaseLocale)}
	byTag := map[language.Tag]string{tags[0]: BaseLocale}
	for _, locale := range locales {
		if locale == BaseLocale {
			continue
		}
		tag, err := language.Parse(locale)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		byTag[tag] = locale
	}

	matcherMu.Lock()
	matcher = language.NewMatcher(tags)
	tagLocale = byTag
	matcherTags = tags
	matcherMu.Unlock()
}

var matcherTags []language.Tag

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}
