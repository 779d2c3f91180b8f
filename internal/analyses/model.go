package analyses

import (
	"time"

	"resume-scorer/internal/scoring"
)

const (
	StatusAnalyzing = "analyzing"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Analysis is the scoring detail stored with a record.
type Analysis struct {
	Keywords     []string          `json:"keywords"`
	Strengths    []string          `json:"strengths"`
	Improvements []string          `json:"improvements"`
	Sections     scoring.Sections  `json:"sections"`
	Breakdown    scoring.Breakdown `json:"breakdown"`
}

// Record is one scored resume upload. Records are never modified after creation.
type Record struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"userId"`
	FileName   string    `json:"fileName"`
	FileRef    string    `json:"fileReference"`
	FileURL    string    `json:"fileURL"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	Score      int       `json:"score"`
	Analysis   Analysis  `json:"analysis"`
	Status     string    `json:"status"`
	UploadedAt time.Time `json:"uploadDate"`
}

// Upload is a resume file submitted for analysis.
type Upload struct {
	FileName string
	MimeType string
	Size     int64
	Data     []byte
}

func analysisFromResult(res scoring.Result) Analysis {
	return Analysis{
		Keywords:     res.Keywords,
		Strengths:    res.Strengths,
		Improvements: res.Improvements,
		Sections:     res.Sections,
		Breakdown:    res.Breakdown,
	}
}
