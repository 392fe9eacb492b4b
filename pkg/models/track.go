package models

import "sort"

// TrackKind is the HTML5 text track kind of a sidecar file.
type TrackKind string

// TrackKind constants, in display order
const (
	TrackKindCaptions     TrackKind = "captions"
	TrackKindChapters     TrackKind = "chapters"
	TrackKindDescriptions TrackKind = "descriptions"
	TrackKindMetadata     TrackKind = "metadata"
	TrackKindSubtitles    TrackKind = "subtitles"
)

// TrackKinds lists every kind in display order.
var TrackKinds = []TrackKind{
	TrackKindCaptions,
	TrackKindChapters,
	TrackKindDescriptions,
	TrackKindMetadata,
	TrackKindSubtitles,
}

// ParseTrackKind returns the kind named by s.
func ParseTrackKind(s string) (TrackKind, bool) {
	for _, k := range TrackKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// TrackName is a parsed track file name: <base><sep><kind><sep><locale>.
type TrackName struct {
	Base   string    `json:"base"`
	Kind   TrackKind `json:"kind"`
	Locale string    `json:"locale"`
}

// TrackSource is one <track> entry of a video manifest.
type TrackSource struct {
	Kind    TrackKind `json:"kind"`
	Src     string    `json:"src"`
	SrcLang string    `json:"srclang"`
}

// LocaleTrack is a track listed under its locale in an admin grouping.
type LocaleTrack struct {
	Locale string      `json:"locale"`
	Label  string      `json:"label"`
	Track  *Attachment `json:"track"`
}

// KindGroup holds the tracks of one kind, ordered by label.
type KindGroup struct {
	Kind   TrackKind     `json:"kind"`
	Tracks []LocaleTrack `json:"tracks"`
}

// TrackGroups indexes tracks by kind and then by locale label. Population
// order does not matter; Sorted produces the display order.
type TrackGroups struct {
	groups map[TrackKind]map[string]LocaleTrack
}

// NewTrackGroups creates an empty grouping.
func NewTrackGroups() TrackGroups {
	return TrackGroups{groups: make(map[TrackKind]map[string]LocaleTrack)}
}

// Put stores t under kind and its label. A later track with the same
// kind and label replaces the earlier one.
func (g TrackGroups) Put(kind TrackKind, t LocaleTrack) {
	byLabel, ok := g.groups[kind]
	if !ok {
		byLabel = make(map[string]LocaleTrack)
		g.groups[kind] = byLabel
	}
	byLabel[t.Label] = t
}

// Len returns the number of kinds present.
func (g TrackGroups) Len() int {
	return len(g.groups)
}

// Sorted returns the groups in kind order with each group's tracks
// ordered by label.
func (g TrackGroups) Sorted() []KindGroup {
	out := make([]KindGroup, 0, len(g.groups))
	for _, kind := range TrackKinds {
		byLabel, ok := g.groups[kind]
		if !ok {
			continue
		}

		labels := make([]string, 0, len(byLabel))
		for label := range byLabel {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		group := KindGroup{Kind: kind, Tracks: make([]LocaleTrack, 0, len(labels))}
		for _, label := range labels {
			group.Tracks = append(group.Tracks, byLabel[label])
		}
		out = append(out, group)
	}
	return out
}
