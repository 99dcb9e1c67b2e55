package scene

// Overlay is the HUD resource: named text slots drawn over the scene in the
// order they were first set.
type Overlay struct {
	slots []string
	text  map[string]string
}

func (o *Overlay) Set(slot, text string) {
	if o.text == nil {
		o.text = make(map[string]string)
	}
	if _, ok := o.text[slot]; !ok {
		o.slots = append(o.slots, slot)
	}
	o.text[slot] = text
}

func (o *Overlay) Clear(slot string) {
	if _, ok := o.text[slot]; !ok {
		return
	}
	delete(o.text, slot)
	for i, s := range o.slots {
		if s == slot {
			o.slots = append(o.slots[:i], o.slots[i+1:]...)
			break
		}
	}
}

func (o *Overlay) Get(slot string) (string, bool) {
	t, ok := o.text[slot]
	return t, ok
}

// Lines returns the non-empty slot texts in slot order.
func (o *Overlay) Lines() []string {
	out := make([]string, 0, len(o.slots))
	for _, s := range o.slots {
		if t := o.text[s]; t != "" {
			out = append(out, t)
		}
	}
	return out
}
