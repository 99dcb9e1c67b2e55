package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/phosphor/internal/core/input"
)

var namedKeys = map[tcell.Key]input.Key{
	tcell.KeyEnter:     input.KeyEnter,
	tcell.KeyEsc:       input.KeyEscape,
	tcell.KeyTab:       input.KeyTab,
	tcell.KeyBacktab:   input.KeyBacktab,
	tcell.KeyDelete:    input.KeyDelete,
	tcell.KeyBackspace: input.KeyBackspace,
	tcell.KeyDEL:       input.KeyBackspace,
	tcell.KeyUp:        input.KeyUp,
	tcell.KeyDown:      input.KeyDown,
	tcell.KeyLeft:      input.KeyLeft,
	tcell.KeyRight:     input.KeyRight,
}

// Translate maps a tcell event to an input event. Ctrl+C becomes a Close
// event. Events with no counterpart report false.
func Translate(ev tcell.Event) (input.Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return translateKey(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		return input.Resize(w, h), true
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.ButtonPrimary == 0 {
			return input.Event{}, false
		}
		x, y := ev.Position()
		return input.Click(x, y), true
	}
	return input.Event{}, false
}

func translateKey(ev *tcell.EventKey) (input.Event, bool) {
	mod := modifiers(ev.Modifiers())
	k := ev.Key()
	switch {
	case k == tcell.KeyCtrlC:
		return input.Close(), true
	case k == tcell.KeyRune:
		out := input.RunePress(ev.Rune())
		out.Mod = mod
		return out, true
	}
	if named, ok := namedKeys[k]; ok {
		return input.KeyPress(named, mod), true
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		out := input.RunePress('a' + rune(k-tcell.KeyCtrlA))
		out.Mod = mod | input.ModCtrl
		return out, true
	}
	return input.Event{}, false
}

func modifiers(m tcell.ModMask) input.Mod {
	var out input.Mod
	if m&tcell.ModCtrl != 0 {
		out |= input.ModCtrl
	}
	if m&tcell.ModShift != 0 {
		out |= input.ModShift
	}
	if m&tcell.ModAlt != 0 {
		out |= input.ModAlt
	}
	return out
}
