// Package catalog holds the built-in subject codes and the localized
// notification texts.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtin []byte

const (
	LocaleEnglish = "en"
	LocaleArabic  = "ar"
)

type Subject struct {
	Code  string            `yaml:"code"`
	Names map[string]string `yaml:"names"`
}

type Text struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

type document struct {
	Subjects []Subject                  `yaml:"subjects"`
	Messages map[string]map[string]Text `yaml:"messages"`
}

type Catalog struct {
	locale   string
	subjects []Subject
	byCode   map[string]Subject
	messages map[string]map[string]Text
}

func New(locale string) (*Catalog, error) {
	return Parse(builtin, locale)
}

func Parse(raw []byte, locale string) (*Catalog, error) {
	doc := document{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if locale == "" {
		locale = LocaleEnglish
	}
	c := &Catalog{
		locale:   locale,
		subjects: doc.Subjects,
		byCode:   make(map[string]Subject, len(doc.Subjects)),
		messages: doc.Messages,
	}
	for _, s := range doc.Subjects {
		if s.Code == "" {
			return nil, fmt.Errorf("catalog subject without code")
		}
		c.byCode[s.Code] = s
	}
	return c, nil
}

func (c *Catalog) Locale() string {
	return c.locale
}

// SubjectName falls back to the raw code for unknown subjects.
func (c *Catalog) SubjectName(code string) string {
	s, ok := c.byCode[code]
	if !ok {
		return code
	}
	if name := s.Names[c.locale]; name != "" {
		return name
	}
	if name := s.Names[LocaleEnglish]; name != "" {
		return name
	}
	return code
}

func (c *Catalog) Known(code string) bool {
	_, ok := c.byCode[code]
	return ok
}

func (c *Catalog) Subjects() []Subject {
	out := append([]Subject(nil), c.subjects...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Message renders the title and body for key with args applied to the body.
func (c *Catalog) Message(key string, args ...any) (string, string) {
	variants, ok := c.messages[key]
	if !ok {
		return key, ""
	}
	text, ok := variants[c.locale]
	if !ok {
		text = variants[LocaleEnglish]
	}
	body := text.Body
	if len(args) > 0 {
		body = fmt.Sprintf(body, args...)
	}
	return text.Title, body
}
