// Package localization renders the customer-facing variation messages.
package localization

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

var localeFiles = []string{
	"locales/active.de.json",
	"locales/active.en.json",
}

// Translator looks messages up in one preferred language, falling back to German.
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	lang      string
}

// New loads the bundled message files and prepares a localizer for lang.
func New(lang string) (*Translator, error) {
	bundle := i18n.NewBundle(language.German)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, file := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(locales, file); err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}
	return &Translator{
		bundle:    bundle,
		localizer: i18n.NewLocalizer(bundle, lang),
		lang:      lang,
	}, nil
}

// Language is the preferred language the translator was built for.
func (t *Translator) Language() string {
	return t.lang
}

// Languages lists the languages with message files.
func (t *Translator) Languages() []language.Tag {
	return t.bundle.LanguageTags()
}

// Translate renders key with params. Unknown keys render as the key itself.
func (t *Translator) Translate(key string, params map[string]string) string {
	cfg := &i18n.LocalizeConfig{MessageID: key}
	if len(params) > 0 {
		cfg.TemplateData = params
	}
	msg, err := t.localizer.Localize(cfg)
	if err != nil {
		return key
	}
	return msg
}
