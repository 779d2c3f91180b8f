package scoring

// Band buckets a score for presentation.
type Band string

const (
	BandExcellent        Band = "excellent"
	BandGood             Band = "good"
	BandNeedsImprovement Band = "needs_improvement"
)

// Grade maps a score to a letter grade.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	default:
		return "D"
	}
}

// BandFor maps a score to its presentation band.
func BandFor(score int) Band {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 60:
		return BandGood
	default:
		return BandNeedsImprovement
	}
}

// Verdict returns the one-line summary shown with a result.
func Verdict(score int) string {
	switch BandFor(score) {
	case BandExcellent:
		return "Excellent! Your resume is well-optimized and ready to impress employers."
	case BandGood:
		return "Good foundation! A few improvements will make your resume even stronger."
	default:
		return "There's room for improvement. Follow our recommendations to boost your score."
	}
}
