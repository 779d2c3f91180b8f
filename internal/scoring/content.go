package scoring

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

const (
	contentMin   = 15.0
	contentRange = 20.0
)

// ContentScorer supplies the content component, a value in [15, 35).
type ContentScorer interface {
	ContentScore() float64
}

// RandomContent draws the content component uniformly from [15, 35).
type RandomContent struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomContent returns a RandomContent seeded with seed, or with the
// current time when seed is zero.
func NewRandomContent(seed int64) *RandomContent {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomContent{rng: rand.New(rand.NewSource(seed))}
}

// ContentScore implements ContentScorer.
func (r *RandomContent) ContentScore() float64 {
	r.mu.Lock()
	v := r.rng.Float64()
	r.mu.Unlock()
	return contentMin + v*contentRange
}

// FixedContent always returns the same content component.
type FixedContent float64

// ContentScore implements ContentScorer. Values outside [15, 35) are clamped.
func (f FixedContent) ContentScore() float64 {
	v := float64(f)
	if v < contentMin {
		return contentMin
	}
	if upper := contentMin + contentRange; v >= upper {
		return math.Nextafter(upper, contentMin)
	}
	return v
}
