// Package quality scores extracted article content for acceptability.
package quality

import (
	"fmt"
	"regexp"
	"strings"
)

// Report is the quality gate verdict for one article. Identical input
// always yields an identical report.
type Report struct {
	Score        int      `json:"score"`
	LowQuality   bool     `json:"low_quality"`
	Clickbait    bool     `json:"clickbait"`
	PressRelease bool     `json:"press_release"`
	WordCount    int      `json:"word_count"`
	Reasons      []string `json:"reasons,omitempty"`
}

const (
	minWordCount       = 100
	clickbaitFlagAt    = 30
	pressPenalty       = 50
	shortPenalty       = 30
	phrasePenalty      = 15
	listiclePenalty    = 20
	punctuationPenalty = 10
	capsPenalty        = 10
)

// Clickbait phrases commonly seen in low-effort titles
var clickbaitPhrases = []string{
	"you won't believe",
	"you wont believe",
	"what happens next",
	"this one trick",
	"one weird trick",
	"doctors hate",
	"will blow your mind",
	"blew my mind",
	"jaw-dropping",
	"gone wrong",
	"the truth about",
	"you need to know",
	"will shock you",
	"can't stop watching",
	"number 7 will",
}

var listicleOpener = regexp.MustCompile(`^\d+\s+(things|ways|reasons|tricks|facts|signs|secrets|tips|photos)\b`)

// Boilerplate markers of press releases and wire copy
var pressPhrases = []string{
	"press release",
	"for immediate release",
	"prnewswire",
	"pr newswire",
	"business wire",
	"globe newswire",
	"accesswire",
	"media contact:",
	"about the company",
	"forward-looking statements",
	"investor relations contact",
}

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// ScoreClickbait runs the title heuristics and returns the flag plus the
// accumulated penalty. The flag trips once the penalty reaches 30.
func ScoreClickbait(title string) (bool, int) {
	penalty := 0
	lower := strings.ToLower(strings.TrimSpace(title))

	for _, phrase := range clickbaitPhrases {
		if strings.Contains(lower, phrase) {
			penalty += phrasePenalty
		}
	}

	if listicleOpener.MatchString(lower) {
		penalty += listiclePenalty
	}

	if strings.Count(title, "!") >= 2 || strings.Contains(title, "?!") {
		penalty += punctuationPenalty
	}

	if countShoutedWords(title) >= 2 {
		penalty += capsPenalty
	}

	return penalty >= clickbaitFlagAt, penalty
}

// countShoutedWords counts fully uppercase words of four letters or more.
func countShoutedWords(title string) int {
	count := 0
	for _, word := range strings.Fields(title) {
		letters := 0
		upper := true
		for _, r := range word {
			if r >= 'a' && r <= 'z' {
				upper = false
				break
			}
			if r >= 'A' && r <= 'Z' {
				letters++
			}
		}
		if upper && letters >= 4 {
			count++
		}
	}
	return count
}

// CountWords calculates the word count of text, stripping HTML tags first.
func CountWords(text string) int {
	if text == "" {
		return 0
	}

	cleaned := htmlTagRegex.ReplaceAllString(text, " ")
	cleaned = whitespaceRegex.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	return len(strings.Fields(cleaned))
}

// IsPressRelease detects press-release boilerplate in title or content.
func IsPressRelease(title, content string) bool {
	titleLower := strings.ToLower(title)
	if strings.HasPrefix(titleLower, "press release") {
		return true
	}

	contentLower := strings.ToLower(content)
	for _, phrase := range pressPhrases {
		if strings.Contains(contentLower, phrase) {
			return true
		}
	}

	return false
}

// Grade combines the three independent checks into one verdict. Penalties
// are additive: an article can lose points on every axis at once.
func Grade(title, content string) Report {
	clickbait, penalty := ScoreClickbait(title)
	words := CountWords(content)
	wordsOK := words >= minWordCount
	press := IsPressRelease(title, content)

	score := 100 - penalty
	if press {
		score -= pressPenalty
	}
	if !wordsOK {
		score -= shortPenalty
	}
	if score < 0 {
		score = 0
	}

	report := Report{
		Score:        score,
		LowQuality:   clickbait || !wordsOK || press,
		Clickbait:    clickbait,
		PressRelease: press,
		WordCount:    words,
	}

	if clickbait {
		report.Reasons = append(report.Reasons, "clickbait title")
	}
	if !wordsOK {
		report.Reasons = append(report.Reasons, fmt.Sprintf("below minimum word count: %d words (minimum %d)", words, minWordCount))
	}
	if press {
		report.Reasons = append(report.Reasons, "press release boilerplate")
	}

	return report
}

// Summary joins a report's reasons into one line for per-item reporting.
func Summary(report Report) string {
	return strings.Join(report.Reasons, "; ")
}
