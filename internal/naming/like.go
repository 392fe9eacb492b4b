package naming

import (
	"strings"

	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

// LikeEscape is the escape character used in generated LIKE patterns.
const LikeEscape = `\`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters so s only matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// TrackNamePatterns returns one LIKE pattern per track kind matching
// <base><sep><kind><sep><2 chars>. The unescaped "_" wildcards stand for
// the separators and the locale characters.
func TrackNamePatterns(base string) []string {
	if base == "" {
		return nil
	}

	escaped := EscapeLike(base)
	patterns := make([]string, 0, len(models.TrackKinds))
	for _, kind := range models.TrackKinds {
		patterns = append(patterns, escaped+"_"+string(kind)+"___")
	}
	return patterns
}
