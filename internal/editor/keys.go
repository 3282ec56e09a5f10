package editor

import (
	"fmt"
	"strings"
)

// Edge names one side of the image.
type Edge uint8

const (
	Left Edge = iota
	Right
	Top
	Bottom
)

var edgeNames = [...]string{"left", "right", "top", "bottom"}

func (e Edge) String() string {
	if int(e) < len(edgeNames) {
		return edgeNames[e]
	}
	return fmt.Sprintf("Edge(%d)", uint8(e))
}

// vertical reports whether the edge trims rows.
func (e Edge) vertical() bool {
	return e == Top || e == Bottom
}

// ParseEdge parses "left", "right", "top" or "bottom", ignoring case.
func ParseEdge(s string) (Edge, error) {
	for i, name := range edgeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Edge(i), nil
		}
	}
	return Left, fmt.Errorf("unknown edge %q (want left, right, top or bottom)", s)
}

// Key is a key the crop session reacts to.
type Key uint8

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyReset
	KeyEscape
)

var keyNames = [...]string{"up", "down", "left", "right", "r", "escape"}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", uint8(k))
}

// keyAliases maps alternative spellings onto keys.
var keyAliases = map[string]Key{
	"arrowup":    KeyUp,
	"arrowdown":  KeyDown,
	"arrowleft":  KeyLeft,
	"arrowright": KeyRight,
	"reset":      KeyReset,
	"esc":        KeyEscape,
}

// ParseKey parses a key name such as "up", "ArrowLeft", "r" or "esc".
func ParseKey(s string) (Key, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range keyNames {
		if name == n {
			return Key(i), nil
		}
	}
	if k, ok := keyAliases[name]; ok {
		return k, nil
	}
	return KeyUp, fmt.Errorf("unknown key %q", s)
}

// ParseKeyPress parses a chord such as "up", "shift+left" or "ctrl+shift+down".
// Modifier names may appear in any order before the key.
func ParseKeyPress(s string) (Key, Modifiers, error) {
	parts := strings.Split(s, "+")
	var mods Modifiers
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "shift":
			mods.Shift = true
		case "ctrl", "control":
			mods.Ctrl = true
		default:
			return KeyUp, Modifiers{}, fmt.Errorf("unknown modifier %q in %q", p, s)
		}
	}
	k, err := ParseKey(parts[len(parts)-1])
	if err != nil {
		return KeyUp, Modifiers{}, err
	}
	return k, mods, nil
}

// Modifiers are the modifier keys held during a key press.
type Modifiers struct {
	Shift bool
	Ctrl  bool
}

// delta is the step size for a key press: 10 with Ctrl held, otherwise 1.
func (m Modifiers) delta() int {
	if m.Ctrl {
		return 10
	}
	return 1
}
