package nav

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docsync/internal/mirror"
)

var (
	wordSeparators       = strings.NewReplacer("_", " ", "-", " ")
	underscoreSeparators = strings.NewReplacer("_", " ")
)

// stem drops the final extension: "D1_setup.md" -> "D1_setup".
func stem(name string) string {
	return strings.TrimSuffix(name, mirror.Ext(name))
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// WordLabel turns "api-design_notes.md" into "Api Design Notes".
func WordLabel(name string) string {
	return titleCase(wordSeparators.Replace(stem(name)))
}

// UnderscoreLabel turns "sawmill_config.yaml" into "Sawmill Config".
// Hyphens are kept.
func UnderscoreLabel(name string) string {
	return titleCase(underscoreSeparators.Replace(stem(name)))
}

// PositionalLabel labels a file named after its position token, such as
// D1_setup_steps.md. The first underscore becomes a spaced em dash between the
// token and the title-cased remainder.
func PositionalLabel(name string) string {
	s := strings.Replace(stem(name), "_", " — ", 1)
	return titleCase(underscoreSeparators.Replace(s))
}
