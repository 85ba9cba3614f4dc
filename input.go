package sprig

import "math"

// --- Constants ---

const (
	maxPointers         = 10  // pointer 0 = mouse, 1-9 = touch
	defaultDragDeadZone = 4.0 // scene units
)

// EventType identifies a pointer event.
type EventType uint8

const (
	EventPointerDown  EventType = iota // fires when a pointer button is pressed
	EventPointerUp                     // fires when a pointer button is released
	EventPointerMove                   // fires when the pointer moves (hover, no button)
	EventClick                         // fires on press then release over the same sprite
	EventDragStart                     // fires when movement exceeds the drag dead zone
	EventDrag                          // fires each update while dragging
	EventDragEnd                       // fires when the pointer is released after dragging
	EventPointerEnter                  // fires when the pointer enters a sprite
	EventPointerLeave                  // fires when the pointer leaves a sprite
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// PointerContext carries pointer event data. Pos is in scene space; Sprite
// is the topmost sprite under the pointer, or the captured sprite, or nil.
type PointerContext struct {
	Sprite    *Sprite
	Pos       Vec2
	Button    MouseButton
	PointerID int
}

// DragContext carries drag event data. Delta is the movement since the
// previous drag event (since Start for EventDragStart).
type DragContext struct {
	PointerContext
	Start Vec2
	Delta Vec2
}

// --- Per-pointer state ---

type pointerState struct {
	down     bool
	start    Vec2
	last     Vec2
	hit      *Sprite
	hover    *Sprite
	captured *Sprite
	dragging bool
	button   MouseButton // button captured at press time
}

// --- Handler registry ---

type handler[C any] struct {
	id uint32
	fn func(C)
}

type handlerRegistry struct {
	pointer map[EventType][]handler[PointerContext]
	drag    map[EventType][]handler[DragContext]
	nextID  uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventDragStart, EventDrag, EventDragEnd:
		h.reg.drag[h.event] = removeHandler(h.reg.drag[h.event], h.id)
	default:
		h.reg.pointer[h.event] = removeHandler(h.reg.pointer[h.event], h.id)
	}
}

func removeHandler[C any](s []handler[C], id uint32) []handler[C] {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = handler[C]{}
			return s[:len(s)-1]
		}
	}
	return s
}

// --- Scene-level event registration ---

func (s *Scene) onPointer(ev EventType, fn func(PointerContext)) CallbackHandle {
	if s.handlers.pointer == nil {
		s.handlers.pointer = make(map[EventType][]handler[PointerContext])
	}
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.pointer[ev] = append(s.handlers.pointer[ev], handler[PointerContext]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: ev}
}

func (s *Scene) onDrag(ev EventType, fn func(DragContext)) CallbackHandle {
	if s.handlers.drag == nil {
		s.handlers.drag = make(map[EventType][]handler[DragContext])
	}
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.drag[ev] = append(s.handlers.drag[ev], handler[DragContext]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: ev}
}

// OnPointerDown registers a callback for pointer down events.
func (s *Scene) OnPointerDown(fn func(PointerContext)) CallbackHandle {
	return s.onPointer(EventPointerDown, fn)
}

// OnPointerUp registers a callback for pointer up events.
func (s *Scene) OnPointerUp(fn func(PointerContext)) CallbackHandle {
	return s.onPointer(EventPointerUp, fn)
}

// OnPointerMove registers a callback for hover moves.
func (s *Scene) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	return s.onPointer(EventPointerMove, fn)
}

// OnPointerEnter registers a callback fired when the pointer moves over a
// new sprite.
func (s *Scene) OnPointerEnter(fn func(PointerContext)) CallbackHandle {
	return s.onPointer(EventPointerEnter, fn)
}

// OnPointerLeave registers a callback fired when the pointer leaves a
// sprite.
func (s *Scene) OnPointerLeave(fn func(PointerContext)) CallbackHandle {
	return s.onPointer(EventPointerLeave, fn)
}

// OnClick registers a callback for a press and release over the same
// sprite.
func (s *Scene) OnClick(fn func(PointerContext)) CallbackHandle {
	return s.onPointer(EventClick, fn)
}

func (s *Scene) OnDragStart(fn func(DragContext)) CallbackHandle {
	return s.onDrag(EventDragStart, fn)
}

func (s *Scene) OnDrag(fn func(DragContext)) CallbackHandle {
	return s.onDrag(EventDrag, fn)
}

func (s *Scene) OnDragEnd(fn func(DragContext)) CallbackHandle {
	return s.onDrag(EventDragEnd, fn)
}

// CapturePointer routes all events for pointerID to sp until release.
func (s *Scene) CapturePointer(pointerID int, sp *Sprite) {
	if pointerID >= 0 && pointerID < maxPointers {
		s.pointers[pointerID].captured = sp
	}
}

// ReleasePointer stops routing events for pointerID to a captured sprite.
func (s *Scene) ReleasePointer(pointerID int) {
	if pointerID >= 0 && pointerID < maxPointers {
		s.pointers[pointerID].captured = nil
	}
}

// SetDragDeadZone sets the minimum movement before a drag starts.
func (s *Scene) SetDragDeadZone(d float64) {
	s.dragDeadZone = d
}

// --- Input processing ---

// processPointer runs the pointer state machine for a single pointer. pos
// is in scene space.
func (s *Scene) processPointer(pointerID int, pos Vec2, pressed bool, button MouseButton) {
	ps := &s.pointers[pointerID]
	if ps.captured != nil && ps.captured.IsKilled() {
		ps.captured = nil
	}

	target := ps.captured
	if target == nil {
		target = s.SpriteAt(pos)
	}

	if target != ps.hover {
		if ps.hover != nil {
			s.firePointer(EventPointerLeave, ps.hover, pointerID, pos, button)
		}
		if target != nil {
			s.firePointer(EventPointerEnter, target, pointerID, pos, button)
		}
		ps.hover = target
	}

	switch {
	case pressed && !ps.down:
		// Just pressed: the button is fixed for the whole interaction.
		ps.down = true
		ps.button = button
		ps.start = pos
		ps.last = pos
		ps.hit = target
		ps.dragging = false
		s.firePointer(EventPointerDown, target, pointerID, pos, ps.button)

	case !pressed && ps.down:
		if ps.dragging {
			s.fireDrag(EventDragEnd, ps.hit, pointerID, pos, ps.start, pos.Sub(ps.last), ps.button)
		} else if ps.hit != nil && ps.hit == target {
			s.firePointer(EventClick, target, pointerID, pos, ps.button)
		}
		s.firePointer(EventPointerUp, target, pointerID, pos, ps.button)

		// Auto-release capture.
		ps.captured = nil
		ps.down = false
		ps.hit = nil
		ps.dragging = false

	case pressed && ps.down:
		if pos != ps.last {
			if !ps.dragging {
				d := pos.Sub(ps.start)
				if math.Hypot(d.X, d.Y) > s.dragDeadZone {
					ps.dragging = true
					s.fireDrag(EventDragStart, ps.hit, pointerID, pos, ps.start, d, ps.button)
				}
			}
			if ps.dragging {
				s.fireDrag(EventDrag, ps.hit, pointerID, pos, ps.start, pos.Sub(ps.last), ps.button)
			}
		}
		ps.last = pos

	default:
		if pos != ps.last {
			s.firePointer(EventPointerMove, target, pointerID, pos, button)
			ps.last = pos
		}
	}
}

func (s *Scene) firePointer(ev EventType, sp *Sprite, pointerID int, pos Vec2, button MouseButton) {
	ctx := PointerContext{Sprite: sp, Pos: pos, Button: button, PointerID: pointerID}
	for _, h := range s.handlers.pointer[ev] {
		h.fn(ctx)
	}
}

func (s *Scene) fireDrag(ev EventType, sp *Sprite, pointerID int, pos, start, delta Vec2, button MouseButton) {
	ctx := DragContext{
		PointerContext: PointerContext{Sprite: sp, Pos: pos, Button: button, PointerID: pointerID},
		Start:          start,
		Delta:          delta,
	}
	for _, h := range s.handlers.drag[ev] {
		h.fn(ctx)
	}
}
