// catalog.go: fixed vocabularies shared by every measurement session.
// Both tables are process-wide constants, initialized once and never
// mutated, so concurrent readers need no synchronization.
package measurement

// tags is the ordered tag vocabulary describing the sound environment.
// The ordinal of a label is part of the persisted format: record_tag rows
// store ordinals, so entries must never be reordered or removed, only
// appended.
var tags = []string{
	"test",
	"chatting",
	"children",
	"footsteps",
	"music",
	"road_traffic",
	"rail_traffic",
	"air_traffic",
	"marine_traffic",
	"construction",
	"industrial",
	"alarms",
	"animals",
	"vegetation",
	"water",
	"wind",
	"rain",
}

// tagOrdinals maps a label back to its ordinal, built once at init.
var tagOrdinals = func() map[string]int {
	m := make(map[string]int, len(tags))
	for i, label := range tags {
		m[label] = i
	}
	return m
}()

// standardBands lists the octave band center frequencies in Hz the default
// producer reports, 125 Hz to 16 kHz.
var standardBands = []int{125, 250, 500, 1000, 2000, 4000, 8000, 16000}

// Tags returns the ordered tag vocabulary. The returned slice is a copy.
func Tags() []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// TagOrdinal returns the ordinal of a tag label and whether the label is
// part of the vocabulary.
func TagOrdinal(label string) (int, bool) {
	ordinal, ok := tagOrdinals[label]
	return ordinal, ok
}

// TagLabel returns the label for a tag ordinal and whether the ordinal is
// part of the vocabulary.
func TagLabel(ordinal int) (string, bool) {
	if ordinal < 0 || ordinal >= len(tags) {
		return "", false
	}
	return tags[ordinal], true
}

// StandardBands returns the octave band center frequencies of the default
// producer. The returned slice is a copy. Band identifiers are not enforced
// at write time; producers with a different filter bank may store other
// positive frequencies.
func StandardBands() []int {
	out := make([]int, len(standardBands))
	copy(out, standardBands)
	return out
}
