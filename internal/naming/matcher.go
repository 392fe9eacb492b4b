// Package naming implements the file naming convention that ties a video to
// its sidecar text tracks.
//
// A track file is named <base><sep><kind><sep><locale>, where base is the
// video's file name without directory or extension, sep is any single
// non-word character or underscore, kind is one of the five HTML5 track
// kinds and locale is a two character code, for example
// "launch-video_captions_en" for the video "launch-video.mp4".
package naming

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

const kindAlternatives = `captions|chapters|descriptions|metadata|subtitles`

// trackNameRe captures base lazily so the shortest valid kind+locale
// suffix wins.
var trackNameRe = regexp.MustCompile(`^(.+?)[\W_](` + kindAlternatives + `)[\W_]([A-Za-z0-9]{2})$`)

// trackSuffixRe matches what follows a known base name.
var trackSuffixRe = regexp.MustCompile(`^[\W_](` + kindAlternatives + `)[\W_]([A-Za-z0-9]{2})$`)

// DeriveBaseName returns the file name of the URL's path without its final
// extension. Scheme, host, query and fragment are ignored. An input with no
// path yields "".
func DeriveBaseName(rawURL string) string {
	p := urlPath(rawURL)
	if p == "" {
		return ""
	}

	name := path.Base(p)
	if name == "." || name == "/" {
		return ""
	}

	return strings.TrimSuffix(name, path.Ext(name))
}

// urlPath extracts the path component of rawURL, falling back to manual
// splitting for strings net/url refuses to parse.
func urlPath(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if u.Opaque != "" {
			return ""
		}
		return u.Path
	}

	s := rawURL
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
		if j := strings.IndexByte(s, '/'); j >= 0 {
			return s[j:]
		}
		return ""
	}
	return s
}

// MatchTrackName parses a track name. ok is false when name does not follow
// the convention, which means it is not a track file.
func MatchTrackName(name string) (models.TrackName, bool) {
	m := trackNameRe.FindStringSubmatch(name)
	if m == nil {
		return models.TrackName{}, false
	}

	kind, ok := models.ParseTrackKind(m[2])
	if !ok {
		return models.TrackName{}, false
	}

	return models.TrackName{Base: m[1], Kind: kind, Locale: m[3]}, true
}

// MatchVideoName strips the <sep><kind><sep><locale> suffix from a track
// name and returns the video base name it refers to.
func MatchVideoName(trackName string) (string, bool) {
	tn, ok := MatchTrackName(trackName)
	if !ok {
		return "", false
	}
	return tn.Base, true
}

// SplitTrackName parses name as a track of the known video base. Unlike
// MatchTrackName the split point is fixed by base, so a base that itself
// looks like a track name is handled exactly.
func SplitTrackName(name, base string) (models.TrackName, bool) {
	if base == "" || !strings.HasPrefix(name, base) {
		return models.TrackName{}, false
	}

	m := trackSuffixRe.FindStringSubmatch(name[len(base):])
	if m == nil {
		return models.TrackName{}, false
	}

	kind, ok := models.ParseTrackKind(m[1])
	if !ok {
		return models.TrackName{}, false
	}

	return models.TrackName{Base: base, Kind: kind, Locale: m[2]}, true
}
