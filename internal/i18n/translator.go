package i18n

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed phrases.yaml
var phrasesYAML []byte

// Table maps a locale to its phrases keyed by message key.
type Table map[Locale]map[string]string

// Params holds placeholder substitutions for Translate.
type Params map[string]any

// Translator resolves phrase keys against a fixed Table.
// It is read-only after construction and safe for concurrent use.
type Translator struct {
	table Table
}

// NewTranslator returns a Translator over table. A nil table translates every key to itself.
func NewTranslator(table Table) *Translator {
	if table == nil {
		table = Table{}
	}
	return &Translator{table: table}
}

// LoadTable decodes a YAML phrase document of the form `locale: {key: phrase}`.
// Locales other than Primary and Alternate are rejected.
func LoadTable(data []byte) (Table, error) {
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode phrases: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("phrase table is empty")
	}
	table := make(Table, len(raw))
	for token, phrases := range raw {
		loc := Locale(token)
		if loc != Primary && loc != Alternate {
			return nil, fmt.Errorf("unsupported locale %q in phrase table", token)
		}
		table[loc] = phrases
	}
	return table, nil
}

// LoadDefault returns a Translator over the embedded phrase table.
func LoadDefault() (*Translator, error) {
	table, err := LoadTable(phrasesYAML)
	if err != nil {
		return nil, err
	}
	return NewTranslator(table), nil
}

// Translate looks key up for loc, then for Primary, and finally returns key itself.
// Each {name} placeholder with an entry in params is replaced by fmt.Sprint of the value;
// other placeholders are kept verbatim.
func (t *Translator) Translate(loc Locale, key string, params Params) string {
	phrase, ok := t.lookup(loc, key)
	if !ok {
		phrase, ok = t.lookup(Primary, key)
	}
	if !ok {
		phrase = key
	}
	if len(params) == 0 {
		return phrase
	}
	return substitute(phrase, params)
}

// FormatNumber renders n with the digit grouping of loc.
func (t *Translator) FormatNumber(loc Locale, n int64) string {
	return message.NewPrinter(loc.Tag()).Sprintf("%d", n)
}

func (t *Translator) lookup(loc Locale, key string) (string, bool) {
	phrases, ok := t.table[loc]
	if !ok {
		return "", false
	}
	phrase, ok := phrases[key]
	return phrase, ok
}

// substitute replaces placeholders in a single left-to-right pass so substituted
// values are never rescanned.
func substitute(phrase string, params Params) string {
	var b strings.Builder
	b.Grow(len(phrase))
	rest := phrase
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String()
		}
		end := strings.IndexByte(rest[open+1:], '}')
		if end < 0 {
			b.WriteString(rest)
			return b.String()
		}
		closeAt := open + 1 + end
		name := rest[open+1 : closeAt]
		b.WriteString(rest[:open])
		if v, ok := params[name]; ok {
			b.WriteString(fmt.Sprint(v))
			rest = rest[closeAt+1:]
			continue
		}
		// Keep the brace and rescan from the next byte so "{{name}" still resolves the inner placeholder.
		b.WriteByte('{')
		rest = rest[open+1:]
	}
}
