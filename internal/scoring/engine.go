// Package scoring computes the mock ATS score for resume text.
//
// The score is a weighted sum of keyword coverage, a fixed format credit,
// a content credit drawn from a ContentScorer and a length bonus. It performs
// no I/O and never fails.
package scoring

import (
	"math"
	"strings"
	"unicode/utf16"
)

// Keywords is the reference vocabulary, in reporting order.
var Keywords = []string{"javascript", "react", "node.js", "python", "sql", "aws", "docker", "git"}

const (
	keywordWeight   = 40.0
	formatScore     = 25.0
	longTextScore   = 15.0
	shortTextScore  = 10.0
	longTextMinimum = 500
	maxScore        = 100
)

var (
	staticStrengths = []string{
		"Professional format",
		"Clear contact information",
		"Relevant experience highlighted",
	}
	staticImprovements = []string{
		"Add more technical keywords",
		"Include quantifiable achievements",
		"Optimize for ATS systems",
	}
)

// FeedbackMode selects how strengths and improvements are produced.
type FeedbackMode string

const (
	// FeedbackStatic returns the same three strengths and improvements for every resume.
	FeedbackStatic FeedbackMode = "static"
	// FeedbackAdaptive appends keyword-driven entries to the static lists.
	FeedbackAdaptive FeedbackMode = "adaptive"
)

// SectionFeedback is a per-section score with a comment.
type SectionFeedback struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Sections holds feedback for the four resume sections.
type Sections struct {
	Contact    SectionFeedback `json:"contact"`
	Experience SectionFeedback `json:"experience"`
	Skills     SectionFeedback `json:"skills"`
	Education  SectionFeedback `json:"education"`
}

// Breakdown exposes the unrounded components of the total score.
type Breakdown struct {
	Keyword float64 `json:"keyword"`
	Format  float64 `json:"format"`
	Content float64 `json:"content"`
	Length  float64 `json:"length"`
}

// Sum returns the unrounded total of all components.
func (b Breakdown) Sum() float64 {
	return b.Keyword + b.Format + b.Content + b.Length
}

// Result is the output of Engine.Score.
type Result struct {
	Score        int       `json:"score"`
	Keywords     []string  `json:"keywords"`
	Strengths    []string  `json:"strengths"`
	Improvements []string  `json:"improvements"`
	Sections     Sections  `json:"sections"`
	Breakdown    Breakdown `json:"breakdown"`
}

// DefaultSections returns the fixed section feedback every result carries.
func DefaultSections() Sections {
	return Sections{
		Contact:    SectionFeedback{Score: 90, Feedback: "Complete and professional"},
		Experience: SectionFeedback{Score: 85, Feedback: "Good detail and relevance"},
		Skills:     SectionFeedback{Score: 70, Feedback: "Could include more technical skills"},
		Education:  SectionFeedback{Score: 80, Feedback: "Well formatted"},
	}
}

// Engine scores resume text. It is safe for concurrent use when its
// ContentScorer is.
type Engine struct {
	content  ContentScorer
	feedback FeedbackMode
}

// New returns an Engine. A nil content scorer falls back to an unseeded RandomContent.
func New(content ContentScorer, feedback FeedbackMode) *Engine {
	if content == nil {
		content = NewRandomContent(0)
	}
	if feedback != FeedbackAdaptive {
		feedback = FeedbackStatic
	}
	return &Engine{content: content, feedback: feedback}
}

// Score evaluates text. The file name is accepted for parity with callers and
// does not influence the result.
func (e *Engine) Score(text, _ string) Result {
	lower := strings.ToLower(text)

	matched := MatchKeywords(lower)
	breakdown := Breakdown{
		Keyword: keywordWeight * float64(len(matched)) / float64(len(Keywords)),
		Format:  formatScore,
		Content: e.content.ContentScore(),
		Length:  lengthScore(lower),
	}

	res := Result{
		Score:        Total(breakdown),
		Keywords:     matched,
		Strengths:    append([]string(nil), staticStrengths...),
		Improvements: append([]string(nil), staticImprovements...),
		Sections:     DefaultSections(),
		Breakdown:    breakdown,
	}
	if e.feedback == FeedbackAdaptive {
		applyAdaptiveFeedback(&res)
	}
	return res
}

// MatchKeywords returns the vocabulary terms contained in lower, in vocabulary order.
// lower must already be lowercased.
func MatchKeywords(lower string) []string {
	matched := make([]string, 0, len(Keywords))
	for _, kw := range Keywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// Total rounds the breakdown sum half-up and clamps it to [0, 100].
func Total(b Breakdown) int {
	total := int(RoundHalfUp(b.Sum()))
	if total > maxScore {
		return maxScore
	}
	if total < 0 {
		return 0
	}
	return total
}

// RoundHalfUp rounds x to the nearest integer with halves going toward +Inf.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// lengthScore measures text in UTF-16 code units, the unit browser clients
// report for string length.
func lengthScore(lower string) float64 {
	if textLength(lower) > longTextMinimum {
		return longTextScore
	}
	return shortTextScore
}

func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func applyAdaptiveFeedback(res *Result) {
	if len(res.Keywords) == len(Keywords) {
		res.Strengths = append(res.Strengths, "Strong keyword coverage")
		return
	}
	found := make(map[string]bool, len(res.Keywords))
	for _, kw := range res.Keywords {
		found[kw] = true
	}
	var missing []string
	for _, kw := range Keywords {
		if !found[kw] {
			missing = append(missing, kw)
		}
	}
	res.Improvements = append(res.Improvements, "Add missing keywords: "+strings.Join(missing, ", "))
}
