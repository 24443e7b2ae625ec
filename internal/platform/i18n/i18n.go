// Package i18n provides the translated strings shown to users: notification
// titles and notices attached to degraded responses.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when a key is missing in the requested language.
const DefaultLanguage = "pt"

// Message keys.
const (
	KeyReminderTitle     = "reminder.title"
	KeyRandomFallback    = "notice.random_fallback"
	KeyQuotesUnavailable = "notice.quotes_unavailable"
	KeyPermissionDenied  = "notice.permission_denied"
)

//go:embed locales/*.yaml
var locales embed.FS

// Bundle holds the messages of every language, flattened to dotted keys.
type Bundle struct {
	messages map[string]map[string]string
}

// Load parses the embedded catalogs.
func Load() (*Bundle, error) {
	return LoadFS(locales, "locales")
}

// LoadFS parses every <lang>.yaml file in dir of fsys.
func LoadFS(fsys fs.FS, dir string) (*Bundle, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading locales: %w", err)
	}

	b := &Bundle{messages: make(map[string]map[string]string)}

	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}

		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}

		var tree map[string]any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", e.Name(), err)
		}

		lang := strings.TrimSuffix(e.Name(), ".yaml")
		flat := make(map[string]string)
		flatten("", tree, flat)
		b.messages[lang] = flat
	}

	if _, ok := b.messages[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("missing catalog for default language %q", DefaultLanguage)
	}

	return b, nil
}

func flatten(prefix string, tree map[string]any, out map[string]string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// T returns the message for key in lang, falling back to DefaultLanguage
// and finally to the key itself. Args are applied with fmt.Sprintf.
func (b *Bundle) T(lang, key string, args ...any) string {
	msg, ok := b.messages[lang][key]
	if !ok {
		msg, ok = b.messages[DefaultLanguage][key]
	}

	if !ok {
		return key
	}

	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}

	return msg
}

// Languages lists the languages with a catalog, sorted.
func (b *Bundle) Languages() []string {
	langs := make([]string, 0, len(b.messages))
	for lang := range b.messages {
		langs = append(langs, lang)
	}

	slices.Sort(langs)

	return langs
}
