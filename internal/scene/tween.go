package scene

import (
	"slices"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Property selects the Transform field a tween drives.
type Property uint8

const (
	PosX Property = iota
	PosY
	PosZ
	RotX
	RotY
	RotZ
	// ScaleAll drives the three scale axes together.
	ScaleAll
)

func (p Property) get(t *Transform) float64 {
	switch p {
	case PosX:
		return t.Position.X
	case PosY:
		return t.Position.Y
	case PosZ:
		return t.Position.Z
	case RotX:
		return t.Rotation.X
	case RotY:
		return t.Rotation.Y
	case RotZ:
		return t.Rotation.Z
	default:
		return t.Scale.X
	}
}

func (p Property) set(t *Transform, v float64) {
	switch p {
	case PosX:
		t.Position.X = v
	case PosY:
		t.Position.Y = v
	case PosZ:
		t.Position.Z = v
	case RotX:
		t.Rotation.X = v
	case RotY:
		t.Rotation.Y = v
	case RotZ:
		t.Rotation.Z = v
	default:
		t.Scale = Vec3{v, v, v}
	}
}

type track struct {
	prop     Property
	to       float32
	duration float32
	easing   ease.TweenFunc
	pingPong bool

	from  float32
	tween *gween.Tween
	done  bool
}

// Tweens animates Transform fields of its entity. A track starts from the
// field's value on the first update after it was added. One value may be
// inserted on many entities; each copy keeps its own progress.
type Tweens struct {
	tracks []track
	// owner is the component the track state belongs to.
	owner *Tweens
}

// Clone returns a copy whose tracks continue independently.
func (t Tweens) Clone() Tweens {
	tracks := slices.Clone(t.tracks)
	for i := range tracks {
		if tracks[i].tween != nil {
			tw := *tracks[i].tween
			tracks[i].tween = &tw
		}
	}
	return Tweens{tracks: tracks}
}

func Animate() Tweens {
	return Tweens{}
}

// To adds a one-shot track.
func (t Tweens) To(p Property, to float64, seconds float32, fn ease.TweenFunc) Tweens {
	return t.add(track{prop: p, to: float32(to), duration: seconds, easing: fn})
}

// PingPong adds a track that bounces between the start value and to forever.
func (t Tweens) PingPong(p Property, to float64, seconds float32, fn ease.TweenFunc) Tweens {
	return t.add(track{prop: p, to: float32(to), duration: seconds, easing: fn, pingPong: true})
}

func (t Tweens) add(tr track) Tweens {
	if tr.easing == nil {
		tr.easing = ease.Linear
	}
	t.tracks = append(slices.Clip(t.tracks), tr)
	t.owner = nil
	return t
}

func (t *Tweens) Len() int {
	return len(t.tracks)
}

// Done reports whether every track has finished. Ping-pong tracks never do.
func (t *Tweens) Done() bool {
	for i := range t.tracks {
		if !t.tracks[i].done {
			return false
		}
	}
	return true
}

// advance moves every track by dt seconds and writes the results into tr.
func (t *Tweens) advance(tr *Transform, dt float32) {
	if t.owner != t {
		*t = t.Clone()
		t.owner = t
	}
	for i := range t.tracks {
		k := &t.tracks[i]
		if k.done {
			continue
		}
		if k.tween == nil {
			k.from = float32(k.prop.get(tr))
			k.tween = gween.New(k.from, k.to, k.duration, k.easing)
		}
		v, finished := k.tween.Update(dt)
		k.prop.set(tr, float64(v))
		if !finished {
			continue
		}
		if k.pingPong {
			k.from, k.to = k.to, k.from
			overflow := k.tween.Overflow
			k.tween = gween.New(k.from, k.to, k.duration, k.easing)
			if overflow > 0 {
				v, _ = k.tween.Update(overflow)
				k.prop.set(tr, float64(v))
			}
			continue
		}
		k.done = true
	}
}
