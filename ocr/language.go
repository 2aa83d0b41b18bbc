package ocr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
	"golang.org/x/text/language"

	"github.com/tsawler/pagelayout/model"
)

// tesseractScripts covers traineddata names that are not plain ISO 639-3 codes
var tesseractScripts = map[string]string{
	"zho-Hans": "chi_sim",
	"zho-Hant": "chi_tra",
	"zho":      "chi_sim",
	"aze-Cyrl": "aze_cyrl",
	"srp-Latn": "srp_latn",
	"uzb-Cyrl": "uzb_cyrl",
}

// TesseractLanguages converts BCP-47 tags into Tesseract's "+"-joined
// language string, e.g. ("en", "zh-Hans") -> "eng+chi_sim".
// Duplicates are dropped.
func TesseractLanguages(tags ...string) (string, error) {
	seen := make(map[string]bool)
	var langs []string

	for _, t := range tags {
		tag, err := language.Parse(t)
		if err != nil {
			return "", fmt.Errorf("invalid language tag %q: %w", t, err)
		}

		base, _ := tag.Base()
		code := base.ISO3()
		if script, conf := tag.Script(); conf != language.No {
			if name, ok := tesseractScripts[code+"-"+script.String()]; ok {
				code = name
			} else if name, ok := tesseractScripts[code]; ok {
				code = name
			}
		}

		if !seen[code] {
			seen[code] = true
			langs = append(langs, code)
		}
	}
	return strings.Join(langs, "+"), nil
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithLowAccuracyMode().
			Build()
	})
	return detector
}

// DetectLanguage returns the dominant language of the fragment text as a
// BCP-47 tag, or language.Und when it cannot be determined.
func DetectLanguage(fragments []model.OCRFragment) language.Tag {
	var sb strings.Builder
	for _, f := range fragments {
		if text := strings.TrimSpace(f.Text); text != "" {
			sb.WriteString(text)
			sb.WriteByte(' ')
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return language.Und
	}

	lang, ok := languageDetector().DetectLanguageOf(text)
	if !ok {
		return language.Und
	}
	tag, err := language.Parse(strings.ToLower(lang.IsoCode639_1().String()))
	if err != nil {
		return language.Und
	}
	return tag
}
