package rag

// Band classifies a miss streak for fallback wording.
type Band int

const (
	BandFresh Band = iota
	BandFirstMiss
	BandSecondMiss
	BandRepeatedMiss
)

func (b Band) String() string {
	switch b {
	case BandFresh:
		return "fresh"
	case BandFirstMiss:
		return "first miss"
	case BandSecondMiss:
		return "second miss"
	default:
		return "repeated miss"
	}
}

// Session is the per-visitor state threaded through the router. The zero value
// is a fresh session.
type Session struct {
	MissStreak int
}

func (s Session) Band() Band {
	switch {
	case s.MissStreak <= 0:
		return BandFresh
	case s.MissStreak == 1:
		return BandFirstMiss
	case s.MissStreak == 2:
		return BandSecondMiss
	default:
		return BandRepeatedMiss
	}
}

// AfterRetrieval returns the session that follows a retrieval yielding n chunks:
// the streak grows by one on a miss and resets on any hit.
func (s Session) AfterRetrieval(n int) Session {
	if n > 0 {
		return Session{MissStreak: 0}
	}
	if s.MissStreak < 0 {
		s.MissStreak = 0
	}
	return Session{MissStreak: s.MissStreak + 1}
}
