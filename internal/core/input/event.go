// Package input defines the events a backend feeds into the Event stage.
package input

import (
	"fmt"
	"strings"
)

type Kind uint8

const (
	KindKeyDown Kind = iota + 1
	KindResize
	KindMouse
	KindClose
)

func (k Kind) String() string {
	switch k {
	case KindKeyDown:
		return "KeyDown"
	case KindResize:
		return "Resize"
	case KindMouse:
		return "Mouse"
	case KindClose:
		return "Close"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

type Key uint16

const (
	KeyNone Key = iota
	// KeyRune means the printable character is in Event.Rune.
	KeyRune
	KeyEnter
	KeyEscape
	KeyTab
	KeyBacktab
	KeyDelete
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

var keyNames = [...]string{
	KeyNone:      "None",
	KeyRune:      "Rune",
	KeyEnter:     "Enter",
	KeyEscape:    "Escape",
	KeyTab:       "Tab",
	KeyBacktab:   "Backtab",
	KeyDelete:    "Delete",
	KeyBackspace: "Backspace",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", uint16(k))
}

type Mod uint8

const (
	ModCtrl Mod = 1 << iota
	ModShift
	ModAlt
)

func (m Mod) Has(o Mod) bool {
	return m&o == o
}

func (m Mod) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	return strings.Join(parts, "+")
}

// Event is one backend input. Which fields are meaningful depends on Kind:
// KeyDown uses Key, Rune and Mod; Resize uses Width and Height; Mouse uses X
// and Y.
type Event struct {
	Kind   Kind
	Key    Key
	Rune   rune
	Mod    Mod
	X, Y   int
	Width  int
	Height int
}

func KeyPress(k Key, mod Mod) Event {
	return Event{Kind: KindKeyDown, Key: k, Mod: mod}
}

func RunePress(r rune) Event {
	return Event{Kind: KindKeyDown, Key: KeyRune, Rune: r}
}

func Resize(w, h int) Event {
	return Event{Kind: KindResize, Width: w, Height: h}
}

func Click(x, y int) Event {
	return Event{Kind: KindMouse, X: x, Y: y}
}

func Close() Event {
	return Event{Kind: KindClose}
}

func (e Event) String() string {
	switch e.Kind {
	case KindKeyDown:
		key := e.Key.String()
		if e.Key == KeyRune {
			key = fmt.Sprintf("%q", e.Rune)
		}
		if e.Mod != 0 {
			return e.Mod.String() + "+" + key
		}
		return key
	case KindResize:
		return fmt.Sprintf("Resize(%dx%d)", e.Width, e.Height)
	case KindMouse:
		return fmt.Sprintf("Mouse(%d,%d)", e.X, e.Y)
	default:
		return e.Kind.String()
	}
}
