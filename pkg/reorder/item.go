package reorder

// Item is one entry of a sortable list. Value is the identity key; the
// position of an item is its index in the sequence.
type Item struct {
	Value  string `json:"value" yaml:"value"`
	Text   string `json:"text" yaml:"text"`
	Active bool   `json:"active" yaml:"active"`
}

// Items is an ordered item sequence. It implements schema.Cloner so a list
// stored as a form value is never shared between the binder and widgets.
type Items []Item

// CloneValue returns an independent copy.
func (items Items) CloneValue() any {
	return items.Clone()
}

// Clone copies the sequence. A nil sequence stays nil.
func (items Items) Clone() Items {
	if items == nil {
		return nil
	}
	return append(Items(nil), items...)
}

// Values returns the identity keys in order.
func (items Items) Values() []string {
	out := make([]string, len(items))
	for idx, item := range items {
		out[idx] = item.Value
	}
	return out
}

// Index returns the position of the item with the given identity, or -1.
func (items Items) Index(value string) int {
	for idx, item := range items {
		if item.Value == value {
			return idx
		}
	}
	return -1
}

// BadgeOpacity returns the opacity of the order badge at index in a list of n
// items: a linear fade from 1 for the first item to 0.4 for the last.
func BadgeOpacity(index, n int) float64 {
	if n <= 1 {
		return 1
	}
	return 1 - (0.6/float64(n-1))*float64(index)
}

// move relocates the item at from to position to, shifting the items in
// between by one.
func move(items Items, from, to int) Items {
	out := make(Items, 0, len(items))
	dragged := items[from]
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)
	out = append(out[:to], append(Items{dragged}, out[to:]...)...)
	return out
}
