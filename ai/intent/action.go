package intent

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/hrygo/homebox/store"
)

// Kind is the action tag.
type Kind string

const (
	KindAddRoom    Kind = "add_room"
	KindAddCabinet Kind = "add_cabinet"
	KindAddItem    Kind = "add_item"
	KindDeleteItem Kind = "delete_item"
)

// Action is one structured instruction produced by parsing.
// The concrete types are AddRoom, AddCabinet, AddItem and DeleteItem.
type Action interface {
	Kind() Kind
	// ActionName is the name of the room, container or item the action is about.
	ActionName() string
	// Label is the one-line description shown on the confirmation surface.
	Label() string

	isAction()
}

// AddRoom creates a room.
type AddRoom struct {
	Name     string
	RoomType string // living, bedroom, kitchen, ...
}

// AddCabinet creates a storage container, optionally inside a room.
type AddCabinet struct {
	Name       string
	Type       store.LocationKind
	ParentRoom string // room name, may be empty
}

// AddItem places an item into a location named by LocationName.
type AddItem struct {
	Name         string
	Category     store.Category
	Quantity     int
	LocationName string
}

// DeleteItem removes an item by name.
type DeleteItem struct {
	Name         string
	LocationName string
}

func (AddRoom) Kind() Kind    { return KindAddRoom }
func (AddCabinet) Kind() Kind { return KindAddCabinet }
func (AddItem) Kind() Kind    { return KindAddItem }
func (DeleteItem) Kind() Kind { return KindDeleteItem }

func (a AddRoom) ActionName() string    { return a.Name }
func (a AddCabinet) ActionName() string { return a.Name }
func (a AddItem) ActionName() string    { return a.Name }
func (a DeleteItem) ActionName() string { return a.Name }

func (AddRoom) isAction()    {}
func (AddCabinet) isAction() {}
func (AddItem) isAction()    {}
func (DeleteItem) isAction() {}

func (a AddRoom) Label() string {
	return fmt.Sprintf("🏠 添加房间「%s」", a.Name)
}

func (a AddCabinet) Label() string {
	if a.ParentRoom == "" {
		return fmt.Sprintf("📦 添加收纳「%s」", a.Name)
	}
	return fmt.Sprintf("📦 添加收纳「%s」 → %s", a.Name, a.ParentRoom)
}

func (a AddItem) Label() string {
	qty := a.Quantity
	if qty <= 0 {
		qty = 1
	}
	loc := a.LocationName
	if loc == "" {
		loc = "?"
	}
	return fmt.Sprintf("📌 放入「%s」×%d → %s", a.Name, qty, loc)
}

func (a DeleteItem) Label() string {
	return fmt.Sprintf("🗑️ 删除「%s」", a.Name)
}

// locationRef returns the location name an item action targets.
func locationRef(a Action) (string, bool) {
	switch v := a.(type) {
	case AddItem:
		return v.LocationName, true
	case DeleteItem:
		return v.LocationName, true
	}
	return "", false
}

// withLocation returns a copy of an item action targeting name. Other actions are returned as is.
func withLocation(a Action, name string) Action {
	switch v := a.(type) {
	case AddItem:
		v.LocationName = name
		return v
	case DeleteItem:
		v.LocationName = name
		return v
	}
	return a
}

// IsDegenerateName reports whether name is empty or made only of punctuation and spaces.
func IsDegenerateName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return true
	}
	for _, r := range name {
		if !unicode.IsPunct(r) && !unicode.IsSpace(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

// wireAction is the flat JSON shape shared by the model prompt, the HTTP API and the CLI.
type wireAction struct {
	Action       Kind     `json:"action"`
	Name         string   `json:"name"`
	Type         string   `json:"type,omitempty"`
	ParentRoom   string   `json:"parentRoom,omitempty"`
	Category     string   `json:"category,omitempty"`
	Quantity     quantity `json:"quantity,omitempty"`
	LocationName string   `json:"locationName,omitempty"`
}

// quantity accepts a JSON number or a numeric string; models emit both.
type quantity int

func (q *quantity) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*q = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid quantity %s", b)
	}
	*q = quantity(f)
	return nil
}

func toWire(a Action) wireAction {
	switch v := a.(type) {
	case AddRoom:
		return wireAction{Action: KindAddRoom, Name: v.Name, Type: v.RoomType}
	case AddCabinet:
		return wireAction{Action: KindAddCabinet, Name: v.Name, Type: string(v.Type), ParentRoom: v.ParentRoom}
	case AddItem:
		return wireAction{Action: KindAddItem, Name: v.Name, Category: string(v.Category), Quantity: quantity(v.Quantity), LocationName: v.LocationName}
	case DeleteItem:
		return wireAction{Action: KindDeleteItem, Name: v.Name, LocationName: v.LocationName}
	}
	return wireAction{}
}

// fromWire converts a decoded element into an action. Unknown tags are rejected.
func fromWire(w wireAction) (Action, error) {
	name := strings.TrimSpace(w.Name)
	switch w.Action {
	case KindAddRoom:
		return AddRoom{Name: name, RoomType: store.RoomType(w.Type)}, nil
	case KindAddCabinet:
		return AddCabinet{Name: name, Type: store.ContainerKind(w.Type), ParentRoom: strings.TrimSpace(w.ParentRoom)}, nil
	case KindAddItem:
		qty := int(w.Quantity)
		if qty <= 0 {
			qty = 1
		}
		return AddItem{
			Name:         name,
			Category:     store.NormalizeCategory(w.Category),
			Quantity:     qty,
			LocationName: strings.TrimSpace(w.LocationName),
		}, nil
	case KindDeleteItem:
		return DeleteItem{Name: name, LocationName: strings.TrimSpace(w.LocationName)}, nil
	}
	return nil, fmt.Errorf("unknown action %q", w.Action)
}

// Actions is an ordered action list with a flat JSON encoding.
type Actions []Action

// MarshalJSON encodes every action as a flat object tagged by "action".
func (as Actions) MarshalJSON() ([]byte, error) {
	wire := make([]wireAction, 0, len(as))
	for _, a := range as {
		wire = append(wire, toWire(a))
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes a flat action array. Any invalid element fails the whole list;
// use DecodeActions for lenient decoding of model output.
func (as *Actions) UnmarshalJSON(data []byte) error {
	var wire []wireAction
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	out := make(Actions, 0, len(wire))
	for i, w := range wire {
		a, err := fromWire(w)
		if err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
		out = append(out, a)
	}
	*as = out
	return nil
}

// Labels returns the confirmation line of every action.
func (as Actions) Labels() []string {
	labels := make([]string, 0, len(as))
	for _, a := range as {
		labels = append(labels, a.Label())
	}
	return labels
}

// LocationOptions lists the location names a pending action may target:
// existing locations plus the rooms and containers the pending list creates.
func LocationOptions(locations []*store.Location, pending []Action) []string {
	var names []string
	for _, l := range locations {
		names = append(names, l.Name)
	}
	for _, a := range pending {
		switch a.(type) {
		case AddRoom, AddCabinet:
			names = append(names, a.ActionName())
		}
	}
	return dedupe(names)
}

// RoomOptions lists the room names a pending add_cabinet may be placed in.
func RoomOptions(locations []*store.Location, pending []Action) []string {
	var names []string
	for _, l := range locations {
		if l.Kind.IsRoom() {
			names = append(names, l.Name)
		}
	}
	for _, a := range pending {
		if r, ok := a.(AddRoom); ok {
			names = append(names, r.Name)
		}
	}
	return dedupe(names)
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
