package editor

import (
	"sync"

	"github.com/ironsheep/png-crop/internal/imaging"
)

// Amounts is the number of pixels cropped from each edge.
type Amounts struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// get returns the amount for one edge.
func (a Amounts) get(e Edge) int {
	switch e {
	case Left:
		return a.Left
	case Right:
		return a.Right
	case Top:
		return a.Top
	default:
		return a.Bottom
	}
}

// with returns a copy of a with the amount for e replaced.
func (a Amounts) with(e Edge, v int) Amounts {
	switch e {
	case Left:
		a.Left = v
	case Right:
		a.Right = v
	case Top:
		a.Top = v
	default:
		a.Bottom = v
	}
	return a
}

// Session tracks interactive crop amounts for one source image.
//
// The source is never modified; View crops a fresh copy on demand. Amounts are
// kept so that at least one row and one column of the source remain visible,
// which is stricter than imaging.Image.Crop itself.
//
// A Session is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	src     *imaging.Image
	amounts Amounts
}

// NewSession starts a session on img with nothing cropped.
func NewSession(img *imaging.Image) *Session {
	return &Session{src: img}
}

// Source returns the uncropped image.
func (s *Session) Source() *imaging.Image {
	return s.src
}

// Amounts returns the current crop amounts.
func (s *Session) Amounts() Amounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.amounts
}

// View returns the source cropped by the current amounts.
func (s *Session) View() *imaging.Image {
	a := s.Amounts()
	return s.src.Crop(a.Left, a.Right, a.Top, a.Bottom)
}

// Grow crops delta more pixels from edge, stopping while one row or column
// remains on that axis. It returns the new amounts.
func (s *Session) Grow(e Edge, delta int) Amounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.amounts = s.grow(s.amounts, e, delta)
	return s.amounts
}

// Release uncrops up to delta pixels from edge. It returns the new amounts.
func (s *Session) Release(e Edge, delta int) Amounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.amounts = release(s.amounts, e, delta)
	return s.amounts
}

// Set replaces the amounts. Each edge is applied as a Grow from zero in the
// order left, right, top, bottom, so an oversized request gives the later edge
// whatever room is left.
func (s *Session) Set(a Amounts) Amounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	var next Amounts
	for _, e := range []Edge{Left, Right, Top, Bottom} {
		next = s.grow(next, e, a.get(e))
	}
	s.amounts = next
	return s.amounts
}

// Reset clears all crop amounts.
func (s *Session) Reset() {
	s.mu.Lock()
	s.amounts = Amounts{}
	s.mu.Unlock()
}

// HandleKey applies one key press and reports whether the session is done.
//
// Arrow keys move the edge of the visible region in the arrow's direction:
// Up crops from the bottom and Down from the top, Left crops from the right
// and Right from the left. With Shift held the opposite edge is released
// instead (Up releases the top, Left releases the left). Ctrl makes every step
// ten pixels. R resets and Escape ends the session.
func (s *Session) HandleKey(k Key, mods Modifiers) (done bool) {
	delta := mods.delta()
	switch k {
	case KeyUp:
		s.step(Bottom, Top, delta, mods.Shift)
	case KeyDown:
		s.step(Top, Bottom, delta, mods.Shift)
	case KeyLeft:
		s.step(Right, Left, delta, mods.Shift)
	case KeyRight:
		s.step(Left, Right, delta, mods.Shift)
	case KeyReset:
		s.Reset()
	case KeyEscape:
		return true
	}
	return false
}

func (s *Session) step(grow, releaseEdge Edge, delta int, shift bool) {
	if shift {
		s.Release(releaseEdge, delta)
	} else {
		s.Grow(grow, delta)
	}
}

// grow must be called with s.mu held.
func (s *Session) grow(a Amounts, e Edge, delta int) Amounts {
	if delta <= 0 {
		return a
	}
	var room int
	if e.vertical() {
		room = s.src.Height() - a.Top - a.Bottom - 1
	} else {
		room = s.src.Width() - a.Left - a.Right - 1
	}
	if room <= 0 {
		return a
	}
	return a.with(e, a.get(e)+min(delta, room))
}

func release(a Amounts, e Edge, delta int) Amounts {
	if delta <= 0 {
		return a
	}
	cur := a.get(e)
	return a.with(e, cur-min(delta, cur))
}
