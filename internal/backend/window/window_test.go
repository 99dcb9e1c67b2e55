package window

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"

	"github.com/zeusync/phosphor/internal/core/input"
	"github.com/zeusync/phosphor/internal/editor"
)

func withMod(ev input.Event, m input.Mod) input.Event {
	ev.Mod = m
	return ev
}

func TestTranslateTypedCharacters(t *testing.T) {
	got := translate([]ebiten.Key{ebiten.KeyH, ebiten.KeyI}, []rune("hI"), input.ModShift)
	assert.Equal(t, []input.Event{input.RunePress('h'), input.RunePress('I')}, got)
}

func TestTranslateNamedKeys(t *testing.T) {
	got := translate([]ebiten.Key{ebiten.KeyEnter, ebiten.KeyArrowLeft, ebiten.KeyBackspace}, nil, 0)
	assert.Equal(t, []input.Event{
		input.KeyPress(input.KeyEnter, 0),
		input.KeyPress(input.KeyLeft, 0),
		input.KeyPress(input.KeyBackspace, 0),
	}, got)
}

func TestTranslateShiftTabIsBacktab(t *testing.T) {
	got := translate([]ebiten.Key{ebiten.KeyTab}, nil, input.ModShift)
	assert.Equal(t, []input.Event{input.KeyPress(input.KeyBacktab, 0)}, got)
}

func TestTranslateChords(t *testing.T) {
	got := translate([]ebiten.Key{ebiten.KeyN, ebiten.KeyDigit3, ebiten.KeyF1}, []rune("n"), input.ModCtrl)
	assert.Equal(t, []input.Event{
		withMod(input.RunePress('n'), input.ModCtrl),
		withMod(input.RunePress('3'), input.ModCtrl),
	}, got, "typed characters are dropped while a chord is held")
}

func TestCurrentMod(t *testing.T) {
	held := map[ebiten.Key]bool{ebiten.KeyMeta: true, ebiten.KeyAlt: true}
	m := currentMod(func(k ebiten.Key) bool { return held[k] })
	assert.Equal(t, input.ModCtrl|input.ModAlt, m)
}

func TestSourceQueuesUntilPoll(t *testing.T) {
	s := NewSource()
	s.Push(input.RunePress('a'))
	evs, open := s.Poll()
	assert.True(t, open)
	assert.Len(t, evs, 1)
	evs, _ = s.Poll()
	assert.Empty(t, evs)
}

func TestFrameLines(t *testing.T) {
	assert.Nil(t, frameLines(editor.Frame{}))
	f := editor.Frame{
		Menu: "File",
		Panels: []editor.FramePanel{{
			Title: "Outline",
			Lines: []editor.Line{{Text: "cube", Highlight: true}, {Text: "ball"}},
		}},
	}
	assert.Equal(t, []string{"File", "", "[Outline]", "> cube", "  ball", ""}, frameLines(f))
}
