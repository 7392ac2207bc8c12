// Package language maps free-text and provider language labels to short
// canonical codes, and canonical codes back to provider dialects.
package language

import (
	"strings"
)

// Dialect selects a provider-facing code style
type Dialect int

const (
	// DialectAssemblyAI yields AssemblyAI language_code values
	DialectAssemblyAI Dialect = iota
	// DialectBCP47 yields tags like en-US / zh-CN
	DialectBCP47
	// DialectGoogle yields Google Translate tl/sl values
	DialectGoogle
)

// DefaultCode is used when a label cannot be recognized
const DefaultCode = "en"

type language struct {
	code  string
	name  string
	terms []string // lowercase substrings that identify the language
}

// Order matters: "cantonese" must be checked before "chinese".
var languages = []language{
	{code: "en", name: "English", terms: []string{"english"}},
	{code: "es", name: "Spanish", terms: []string{"spanish", "español", "espanol"}},
	{code: "yue", name: "Cantonese", terms: []string{"cantonese"}},
	{code: "zh", name: "Chinese", terms: []string{"chinese", "mandarin"}},
	{code: "fr", name: "French", terms: []string{"french", "français"}},
	{code: "de", name: "German", terms: []string{"german", "deutsch"}},
	{code: "ja", name: "Japanese", terms: []string{"japanese"}},
	{code: "ko", name: "Korean", terms: []string{"korean"}},
	{code: "it", name: "Italian", terms: []string{"italian"}},
	{code: "pt", name: "Portuguese", terms: []string{"portuguese"}},
	{code: "ru", name: "Russian", terms: []string{"russian"}},
	{code: "nl", name: "Dutch", terms: []string{"dutch"}},
	{code: "ar", name: "Arabic", terms: []string{"arabic"}},
	{code: "hi", name: "Hindi", terms: []string{"hindi"}},
	{code: "vi", name: "Vietnamese", terms: []string{"vietnamese", "tiếng việt"}},
}

var byCode = func() map[string]language {
	m := make(map[string]language, len(languages))
	for _, l := range languages {
		m[l.code] = l
	}
	return m
}()

// Regional provider codes that do not reduce to their prefix
var regional = map[string]string{
	"zh-hk":   "yue",
	"zh-yue":  "yue",
	"zh-cn":   "zh",
	"zh-tw":   "zh",
	"zh-sg":   "zh",
	"zh-hans": "zh",
	"zh-hant": "zh",
	"cmn":     "zh",
}

// Resolver canonicalizes language labels. It is safe for concurrent use.
type Resolver struct {
	defaultCode string
}

// NewResolver creates a Resolver. An unknown or empty default falls back to "en".
func NewResolver(defaultCode string) *Resolver {
	if _, ok := byCode[defaultCode]; !ok {
		defaultCode = DefaultCode
	}
	return &Resolver{defaultCode: defaultCode}
}

// Canonicalize returns the canonical code for raw, or the default when raw is
// not recognized. It is total and idempotent.
func (r *Resolver) Canonicalize(raw string) string {
	if code, ok := r.Recognize(raw); ok {
		return code
	}
	return r.defaultCode
}

// Recognize reports the canonical code for raw and whether it was recognized
func (r *Resolver) Recognize(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}

	if code, ok := matchCode(s); ok {
		return code, true
	}

	for _, l := range languages {
		for _, term := range l.terms {
			if strings.Contains(s, term) {
				return l.code, true
			}
		}
	}

	// "Something (en-US)"
	if open := strings.LastIndex(s, "("); open >= 0 {
		if end := strings.Index(s[open:], ")"); end > 0 {
			if code, ok := matchCode(strings.TrimSpace(s[open+1 : open+end])); ok {
				return code, true
			}
		}
	}
	return "", false
}

// matchCode recognizes canonical and provider codes such as en, en_us, zh-CN, yue
func matchCode(s string) (string, bool) {
	s = strings.ReplaceAll(s, "_", "-")
	if _, ok := byCode[s]; ok {
		return s, true
	}
	if code, ok := regional[s]; ok {
		return code, true
	}
	if i := strings.Index(s, "-"); i > 0 {
		prefix := s[:i]
		if _, ok := byCode[prefix]; ok && len(s) <= 10 {
			return prefix, true
		}
	}
	return "", false
}

// ProviderCode maps a canonical code to the given provider dialect
func (r *Resolver) ProviderCode(canonical string, dialect Dialect) string {
	code := r.Canonicalize(canonical)

	switch dialect {
	case DialectAssemblyAI:
		switch code {
		case "en":
			return "en_us"
		case "yue", "zh":
			return "zh"
		case "es", "fr", "de", "it", "pt", "nl", "ja", "ko", "ru", "hi", "vi":
			return code
		}
		return "en_us"

	case DialectBCP47:
		switch code {
		case "en":
			return "en-US"
		case "zh":
			return "zh-CN"
		case "yue":
			return "zh-HK"
		}
		return code

	case DialectGoogle:
		switch code {
		case "yue":
			return "zh-TW"
		case "zh":
			return "zh-CN"
		}
		return code
	}
	return code
}

// DisplayName renders a code as "English (en)". Unknown codes are returned as given.
func (r *Resolver) DisplayName(code string) string {
	if l, ok := byCode[strings.ToLower(code)]; ok {
		return l.name + " (" + l.code + ")"
	}
	return code
}
