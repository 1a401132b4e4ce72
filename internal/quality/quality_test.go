package quality

import (
	"reflect"
	"strings"
	"testing"
)

func goodContent() string {
	return strings.TrimSpace(strings.Repeat("solid reporting with enough substance to pass the gate ", 15))
}

func TestGrade_CleanArticle(t *testing.T) {
	report := Grade("Go 1.24 released with improved toolchain", goodContent())

	if report.LowQuality {
		t.Errorf("Expected clean article to pass, got reasons %v", report.Reasons)
	}
	if report.Score != 100 {
		t.Errorf("Expected score 100, got %d", report.Score)
	}
	if report.Clickbait || report.PressRelease {
		t.Errorf("Expected no flags, got clickbait=%v press=%v", report.Clickbait, report.PressRelease)
	}
}

func TestGrade_ClickbaitTitle(t *testing.T) {
	report := Grade("You Won't Believe What Happens Next", goodContent())

	if !report.Clickbait {
		t.Error("Expected clickbait flag")
	}
	if !report.LowQuality {
		t.Error("Expected low quality verdict for clickbait")
	}
	if report.Score != 70 {
		t.Errorf("Expected score 70 (two phrase hits), got %d", report.Score)
	}
}

func TestGrade_ShortContent(t *testing.T) {
	report := Grade("A perfectly reasonable title", "only a few words here")

	if report.WordCount != 5 {
		t.Errorf("Expected 5 words, got %d", report.WordCount)
	}
	if !report.LowQuality {
		t.Error("Expected low quality verdict for short content")
	}
	if report.Score != 70 {
		t.Errorf("Expected score 70 (word count penalty), got %d", report.Score)
	}
}

func TestGrade_PressRelease(t *testing.T) {
	content := goodContent() + " FOR IMMEDIATE RELEASE: the company announced today."

	report := Grade("Company announces quarterly results", content)

	if !report.PressRelease {
		t.Error("Expected press release flag")
	}
	if report.Score != 50 {
		t.Errorf("Expected score 50 (press penalty), got %d", report.Score)
	}
}

func TestGrade_AllPenaltiesStack(t *testing.T) {
	report := Grade("You Won't Believe What Happens Next", "short press release text from prnewswire")

	if !report.Clickbait || !report.PressRelease {
		t.Errorf("Expected clickbait and press flags, got %+v", report)
	}
	if report.WordCount >= minWordCount {
		t.Errorf("Expected short content, got %d words", report.WordCount)
	}
	// 100 - 30 - 50 - 30 floors at 0
	if report.Score != 0 {
		t.Errorf("Expected score floored at 0, got %d", report.Score)
	}
	if len(report.Reasons) != 3 {
		t.Errorf("Expected 3 reasons, got %v", report.Reasons)
	}
}

func TestGrade_ListiclePenalizedWithoutFlag(t *testing.T) {
	report := Grade("7 ways to improve your build times", goodContent())

	if report.Clickbait {
		t.Error("Expected listicle alone to stay under the clickbait flag")
	}
	if report.Score != 80 {
		t.Errorf("Expected score 80 (listicle penalty only), got %d", report.Score)
	}
	if report.LowQuality {
		t.Error("Expected listicle with solid content to pass")
	}
}

func TestGrade_Deterministic(t *testing.T) {
	title := "BREAKING NEWS!! Markets react to SHOCKING announcement?!"
	content := goodContent()

	first := Grade(title, content)
	second := Grade(title, content)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical reports for identical input, got %+v vs %+v", first, second)
	}
}

func TestScoreClickbait_Punctuation(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		penalty int
	}{
		{"plain title", "Quarterly earnings summary", 0},
		{"double exclamation", "Big news!! More inside", punctuationPenalty},
		{"interrobang", "Really?! No way", punctuationPenalty},
		{"shouted words", "BREAKING NEWS: markets fall", capsPenalty},
		{"single phrase", "The truth about compiler flags", phrasePenalty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, penalty := ScoreClickbait(tt.title)
			if penalty != tt.penalty {
				t.Errorf("Expected penalty %d, got %d", tt.penalty, penalty)
			}
		})
	}
}

func TestCountWords_StripsMarkup(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"empty", "", 0},
		{"plain", "three little words", 3},
		{"tags", "<p>Hello <b>brave</b> world</p>", 3},
		{"collapsed whitespace", "one\n\n  two\tthree", 3},
		{"tag glue", "before<br>after", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count := CountWords(tt.text)
			if count != tt.expected {
				t.Errorf("Expected %d words, got %d", tt.expected, count)
			}
		})
	}
}

func TestCountWords_Boundary(t *testing.T) {
	exactly := strings.TrimSpace(strings.Repeat("word ", minWordCount))

	report := Grade("A fine title", exactly)
	if report.WordCount != minWordCount {
		t.Fatalf("Expected exactly %d words, got %d", minWordCount, report.WordCount)
	}
	if report.LowQuality {
		t.Error("Expected exactly 100 words to pass the minimum")
	}
}

func TestIsPressRelease(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		content  string
		expected bool
	}{
		{"clean", "Product review", "An honest look at the product.", false},
		{"title prefix", "Press Release: new partnership", "Details within.", true},
		{"wire marker", "Company news", "NEW YORK--(BUSINESS WIRE)--The company today announced", true},
		{"contact block", "Announcement", "Media Contact: press@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsPressRelease(tt.title, tt.content)
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	report := Grade("You Won't Believe What Happens Next", "too short")

	got := Summary(report)
	if !strings.Contains(got, "clickbait title") {
		t.Errorf("Expected clickbait reason in summary, got %q", got)
	}
	if !strings.Contains(got, "; ") {
		t.Errorf("Expected reasons joined with separator, got %q", got)
	}
	if Summary(Report{}) != "" {
		t.Errorf("Expected empty summary for empty report, got %q", Summary(Report{}))
	}
}
