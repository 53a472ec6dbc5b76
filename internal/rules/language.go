package rules

import (
	"fmt"
	"strings"

	"github.com/avetrov/contentaudit/internal/model"
	"github.com/avetrov/contentaudit/internal/textutil"
)

// Per-language stop-word sets. Used by the language validator and by the
// coverage matching in the entity checks.
var stopwords = map[string]map[string]bool{
	"en": toSet("the", "a", "an", "and", "or", "but", "of", "to", "in", "on",
		"at", "for", "with", "by", "from", "as", "is", "are", "was", "were",
		"be", "this", "that", "it", "its"),
	"de": toSet("der", "die", "das", "und", "oder", "aber", "von", "zu", "in",
		"auf", "für", "mit", "bei", "aus", "als", "ist", "sind", "war", "ein",
		"eine", "einen", "dem", "den", "des", "sich"),
	"nl": toSet("de", "het", "een", "en", "of", "maar", "van", "naar", "in",
		"op", "voor", "met", "bij", "uit", "als", "is", "zijn", "was", "dit",
		"dat", "die", "deze", "aan", "door", "ook"),
}

// compoundPair is a two-word sequence that productive-compounding languages
// write as a single word.
type compoundPair struct {
	split  string // The incorrect two-word form, lowercase
	merged string // The correct single-word form
}

var compoundPairs = map[string][]compoundPair{
	"de": {
		{"suchmaschinen optimierung", "Suchmaschinenoptimierung"},
		{"kunden service", "Kundenservice"},
		{"daten schutz", "Datenschutz"},
		{"markt analyse", "Marktanalyse"},
		{"inhalts verzeichnis", "Inhaltsverzeichnis"},
		{"qualitäts sicherung", "Qualitätssicherung"},
		{"benutzer freundlichkeit", "Benutzerfreundlichkeit"},
		{"ziel gruppe", "Zielgruppe"},
	},
	"nl": {
		{"zoekmachine optimalisatie", "zoekmachineoptimalisatie"},
		{"klanten service", "klantenservice"},
		{"marketing strategie", "marketingstrategie"},
		{"gebruikers ervaring", "gebruikerservaring"},
		{"doel groep", "doelgroep"},
		{"kwaliteits controle", "kwaliteitscontrole"},
	},
}

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func isStopword(lang, token string) bool {
	set, ok := stopwords[lang]
	if !ok {
		set = stopwords["en"]
	}
	return set[token]
}

// Stopwords returns the stop-word set for a language code, falling back to
// English for unknown codes.
func Stopwords(lang string) map[string]bool {
	if set, ok := stopwords[lang]; ok {
		return set
	}
	return stopwords["en"]
}

// CheckLanguageRules applies language-specific writing rules. For languages
// with productive compounding (German, Dutch) it detects common compound
// concepts mistakenly written as separate words and suggests the merged
// form, one issue per distinct compound.
func CheckLanguageRules(in model.AuditInput) []model.Issue {
	if strings.TrimSpace(in.Text) == "" {
		return nil
	}

	pairs, ok := compoundPairs[in.Language]
	if !ok {
		return nil
	}

	lower := strings.ToLower(in.Text)
	normalized := strings.Join(textutil.Tokenize(lower), " ")

	var issues []model.Issue
	for _, p := range pairs {
		count := strings.Count(normalized, p.split)
		if count == 0 {
			continue
		}
		issues = append(issues, model.Issue{
			RuleID:          "LANG_COMPOUND_SPLIT",
			Severity:        model.SeverityLow,
			Title:           "Compound written as separate words",
			Description:     fmt.Sprintf("%q appears %d time(s); in %s it is written as one word.", p.split, count, languageName(in.Language)),
			AffectedElement: p.split,
			ExampleFix:      fmt.Sprintf("%q -> %q", p.split, p.merged),
		})
	}
	return issues
}

func languageName(code string) string {
	switch code {
	case "de":
		return "German"
	case "nl":
		return "Dutch"
	default:
		return code
	}
}
