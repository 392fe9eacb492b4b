package naming

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

// TestDeriveBaseNameProperties checks that the directory, extension and
// query string never leak into the base name.
func TestDeriveBaseNameProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("path /dir/name.ext yields name", prop.ForAll(
		func(dir, name, ext, query string) bool {
			u := "https://example.com/" + dir + "/" + name + "." + ext + "?" + query
			return DeriveBaseName(u) == name
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.Identifier(),
		gen.AlphaString(),
	))

	properties.Property("extension does not change the base name", prop.ForAll(
		func(name, ext1, ext2 string) bool {
			return DeriveBaseName("/v/"+name+"."+ext1) == DeriveBaseName("/v/"+name+"."+ext2)
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}

// TestTrackNameRoundTrip checks that a name assembled from the convention
// parses back into its parts.
func TestTrackNameRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	kinds := make([]interface{}, 0, len(models.TrackKinds))
	for _, k := range models.TrackKinds {
		kinds = append(kinds, k)
	}

	properties.Property("split of an assembled name returns its parts", prop.ForAll(
		func(base string, kind models.TrackKind, a, b rune) bool {
			locale := string([]rune{a, b})
			name := base + "_" + string(kind) + "-" + locale

			tn, ok := SplitTrackName(name, base)
			if !ok {
				return false
			}
			return tn.Base == base && tn.Kind == kind && tn.Locale == locale
		},
		gen.Identifier(),
		gen.OneConstOf(kinds...),
		gen.AlphaChar(),
		gen.NumChar(),
	))

	properties.Property("lazy match never yields a longer base than the assembled one", prop.ForAll(
		func(base string, kind models.TrackKind) bool {
			tn, ok := MatchTrackName(base + "_" + string(kind) + "_en")
			return ok && len(tn.Base) <= len(base)
		},
		gen.Identifier(),
		gen.OneConstOf(kinds...),
	))

	properties.TestingRun(t)
}
