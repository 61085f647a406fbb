package model

// Level is the proficiency tier derived from the weighted error rate.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// LevelForQWER maps a 0-100 weighted error rate to a proficiency level.
// Lower Q-WER means fewer weighted errors, so the best recitations land
// on Advanced. The 0-100 scale is the only one used anywhere in this
// codebase; the Learner Memory averages raw Q-WER values through the
// same thresholds.
func LevelForQWER(qwer float64) Level {
	switch {
	case qwer >= 50:
		return LevelBeginner
	case qwer >= 25:
		return LevelIntermediate
	default:
		return LevelAdvanced
	}
}

// NextLevel returns the tier above l, capped at Advanced.
func NextLevel(l Level) Level {
	switch l {
	case LevelBeginner:
		return LevelIntermediate
	case LevelIntermediate:
		return LevelAdvanced
	default:
		return LevelAdvanced
	}
}

// ErrorType is a domain error category, not a fault condition.
// Declaration order is the tie-break order when two categories carry
// the same weighted mass.
type ErrorType string

const (
	ErrorTypeMakhraj ErrorType = "makhraj" // articulation point
	ErrorTypeTajwid  ErrorType = "tajwid"  // recitation rule violation
	ErrorTypeHarakat ErrorType = "harakat" // vowel/diacritic timing
	ErrorTypeRhythm  ErrorType = "rhythm"  // pace and flow
)

// AllErrorTypes returns the categories in declaration order.
func AllErrorTypes() []ErrorType {
	return []ErrorType{ErrorTypeMakhraj, ErrorTypeTajwid, ErrorTypeHarakat, ErrorTypeRhythm}
}

type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
)

type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// Short-vowel harakat labels as emitted by the aligner.
const (
	HarakatFatha = "fatha"
	HarakatKasra = "kasra"
	HarakatDamma = "damma"
	HarakatSukun = "sukun"
)

// Phoneme is one articulated sound unit in an aligned utterance.
// Produced by the external aligner; never mutated here.
type Phoneme struct {
	ID              string `json:"id"`
	Text            string `json:"text"`
	Makhraj         string `json:"makhraj"`
	Harakat         string `json:"harakat"`
	TajwidRule      string `json:"tajwidRule,omitempty"`
	Position        int    `json:"position"`
	MeaningChanging bool   `json:"meaningChanging"`
}

// The three short vowels are mutually meaning-altering: swapping any
// pair changes the literal meaning of the word. Every other harakat
// mismatch is cosmetic.
var meaningAlteringVowels = map[string]map[string]bool{
	HarakatFatha: {HarakatKasra: true, HarakatDamma: true},
	HarakatKasra: {HarakatFatha: true, HarakatDamma: true},
	HarakatDamma: {HarakatFatha: true, HarakatKasra: true},
}

// IsMeaningAlteringVowelPair reports whether confusing harakat a with b
// changes literal meaning.
func IsMeaningAlteringVowelPair(a, b string) bool {
	return meaningAlteringVowels[a][b]
}
