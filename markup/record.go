package markup

import (
	"canvas/utils/debug"
)

// EventKind tells what kind of event was recorded.
type EventKind int

const (
	EventOpen EventKind = iota
	EventClose
	EventText
	EventEnd
)

// Event is a recorded handler call.
type Event struct {
	Kind  EventKind
	Name  string
	Attrs Attributes
	Text  string
}

// Recorder is a Handler which remembers all events.
type Recorder struct {
	Events []Event
}

func (r *Recorder) OpenTag(name string, attrs Attributes) {
	r.Events = append(r.Events, Event{Kind: EventOpen, Name: name, Attrs: attrs})
}

func (r *Recorder) CloseTag(name string) {
	r.Events = append(r.Events, Event{Kind: EventClose, Name: name})
}

func (r *Recorder) Text(text string) {
	r.Events = append(r.Events, Event{Kind: EventText, Text: text})
}

func (r *Recorder) End() {
	r.Events = append(r.Events, Event{Kind: EventEnd})
}

// String renders recorded events as indented tree.
func (r *Recorder) String() string {
	tw := debug.NewTreeWriter()
	depth := 0
	for _, e := range r.Events {
		switch e.Kind {
		case EventOpen:
			if len(e.Attrs) > 0 {
				m := make(map[string]string, len(e.Attrs))
				for _, a := range e.Attrs {
					m[a.Name] = a.Value
				}
				tw.Map(depth, "<"+e.Name+">", m)
			} else {
				tw.Line(depth, "<%s>", e.Name)
			}
			depth++
		case EventClose:
			depth--
			tw.Line(depth, "</%s>", e.Name)
		case EventText:
			tw.TextBlock(depth, "Text", e.Text)
		case EventEnd:
			tw.Line(depth, "End")
		}
	}
	return tw.String()
}
