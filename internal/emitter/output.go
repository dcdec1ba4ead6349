package emitter

import "kanafe/internal/types"

// Output receives the engine's ordered event stream. FixedText is
// committed to the document, MarkedText replaces the whole on-screen
// preedit, ModeChanged updates the mode indicator. Delivery is
// synchronous and single-producer; the order of calls within one key
// event is significant.
type Output interface {
	FixedText(text string)
	MarkedText(text string)
	ModeChanged(mode types.InputMode)
}

// Broadcast fans events out to every registered Output in subscription
// order.
type Broadcast struct {
	outputs []Output
}

func NewBroadcast(outputs ...Output) *Broadcast {
	return &Broadcast{outputs: outputs}
}

func (b *Broadcast) Subscribe(out Output) {
	b.outputs = append(b.outputs, out)
}

func (b *Broadcast) FixedText(text string) {
	for _, out := range b.outputs {
		out.FixedText(text)
	}
}

func (b *Broadcast) MarkedText(text string) {
	for _, out := range b.outputs {
		out.MarkedText(text)
	}
}

func (b *Broadcast) ModeChanged(mode types.InputMode) {
	for _, out := range b.outputs {
		out.ModeChanged(mode)
	}
}

var _ Output = (*Broadcast)(nil)
