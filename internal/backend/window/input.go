package window

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/zeusync/phosphor/internal/core/input"
)

var namedKeys = map[ebiten.Key]input.Key{
	ebiten.KeyEnter:      input.KeyEnter,
	ebiten.KeyEscape:     input.KeyEscape,
	ebiten.KeyTab:        input.KeyTab,
	ebiten.KeyDelete:     input.KeyDelete,
	ebiten.KeyBackspace:  input.KeyBackspace,
	ebiten.KeyArrowUp:    input.KeyUp,
	ebiten.KeyArrowDown:  input.KeyDown,
	ebiten.KeyArrowLeft:  input.KeyLeft,
	ebiten.KeyArrowRight: input.KeyRight,
}

// Source queues the input gathered by the ebiten loop for the next Poll.
type Source struct {
	queue  []input.Event
	closed bool
	keys   []ebiten.Key
	chars  []rune
}

func (s *Source) Poll() ([]input.Event, bool) {
	out := s.queue
	s.queue = nil
	return out, !s.closed
}

// Push queues events for the next tick.
func (s *Source) Push(events ...input.Event) {
	s.queue = append(s.queue, events...)
}

// collect reads this frame's keyboard and window state. It must run on the
// ebiten update goroutine.
func (s *Source) collect() {
	s.keys = inpututil.AppendJustPressedKeys(s.keys[:0])
	s.chars = ebiten.AppendInputChars(s.chars[:0])
	mod := currentMod(ebiten.IsKeyPressed)
	s.Push(translate(s.keys, s.chars, mod)...)
	if ebiten.IsWindowBeingClosed() {
		s.Push(input.Close())
	}
}

func currentMod(pressed func(ebiten.Key) bool) input.Mod {
	var m input.Mod
	if pressed(ebiten.KeyControl) || pressed(ebiten.KeyMeta) {
		m |= input.ModCtrl
	}
	if pressed(ebiten.KeyShift) {
		m |= input.ModShift
	}
	if pressed(ebiten.KeyAlt) {
		m |= input.ModAlt
	}
	return m
}

// translate turns one frame of just-pressed keys and typed characters into
// input events. Letters and digits pressed with Ctrl or Alt do not produce
// typed characters, so they are reported from the key codes instead.
func translate(keys []ebiten.Key, chars []rune, mod input.Mod) []input.Event {
	var out []input.Event
	for _, k := range keys {
		if named, ok := namedKeys[k]; ok {
			if named == input.KeyTab && mod.Has(input.ModShift) {
				out = append(out, input.KeyPress(input.KeyBacktab, mod&^input.ModShift))
				continue
			}
			out = append(out, input.KeyPress(named, mod))
			continue
		}
		if mod&(input.ModCtrl|input.ModAlt) == 0 {
			continue
		}
		if r, ok := keyRune(k); ok {
			ev := input.RunePress(r)
			ev.Mod = mod
			out = append(out, ev)
		}
	}
	if mod&(input.ModCtrl|input.ModAlt) == 0 {
		for _, r := range chars {
			out = append(out, input.RunePress(r))
		}
	}
	return out
}

func keyRune(k ebiten.Key) (rune, bool) {
	switch {
	case k >= ebiten.KeyA && k <= ebiten.KeyZ:
		return 'a' + rune(k-ebiten.KeyA), true
	case k >= ebiten.KeyDigit0 && k <= ebiten.KeyDigit9:
		return '0' + rune(k-ebiten.KeyDigit0), true
	}
	return 0, false
}
