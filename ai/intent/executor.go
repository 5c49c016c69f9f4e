package intent

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"

	"github.com/hrygo/homebox/ai/metrics"
	"github.com/hrygo/homebox/store"
)

// Inventory is the location and item collaborator the executor writes to.
// *store.Store implements it.
type Inventory interface {
	Snapshot(ctx context.Context) (*store.Snapshot, error)
	CreateLocation(ctx context.Context, create *store.Location) (*store.Location, error)
	CreateItem(ctx context.Context, create *store.Item) (*store.Item, error)
	DeleteItem(ctx context.Context, delete *store.DeleteItem) error
}

// Floor plan geometry.
const (
	gridSize = 20

	containerSize = 40
	containerPad  = 10

	canvasOriginX = 60
	canvasOriginY = 60
	canvasSpreadX = 400
	canvasSpreadY = 300

	roomsPerRow = 3
	roomPitch   = 200
	roomMargin  = 40
	roomWidth   = 160
	roomHeight  = 120
)

// Result reports what an Execute call did. Failed and Reasons are parallel.
type Result struct {
	Success Actions  `json:"success"`
	Failed  Actions  `json:"failed"`
	Reasons []string `json:"reasons"`
}

// Executor applies confirmed actions to the inventory.
type Executor struct {
	inv     Inventory
	random  func() float64
	metrics *metrics.PrometheusExporter
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRandom sets the [0,1) source used for container placement.
func WithRandom(f func() float64) ExecutorOption {
	return func(e *Executor) {
		if f != nil {
			e.random = f
		}
	}
}

// WithExecutorMetrics records per-action outcomes.
func WithExecutorMetrics(m *metrics.PrometheusExporter) ExecutorOption {
	return func(e *Executor) { e.metrics = m }
}

// NewExecutor creates an executor writing to inv.
func NewExecutor(inv Inventory, opts ...ExecutorOption) *Executor {
	e := &Executor{inv: inv, random: rand.Float64}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func executionRank(a Action) int {
	switch a.Kind() {
	case KindAddRoom:
		return 0
	case KindAddCabinet:
		return 1
	default:
		return 2
	}
}

// Execute applies actions rooms first, then containers, then item changes; ties keep input order.
// Actions with a blank name are skipped. A failing action is recorded in Failed and never
// stops the batch.
func (e *Executor) Execute(ctx context.Context, actions []Action) (*Result, error) {
	if e == nil || e.inv == nil {
		return nil, errors.New("executor has no inventory")
	}

	sorted := make(Actions, 0, len(actions))
	for _, a := range actions {
		if a != nil && !IsDegenerateName(a.ActionName()) {
			sorted = append(sorted, a)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return executionRank(sorted[i]) < executionRank(sorted[j])
	})

	result := &Result{Success: Actions{}, Failed: Actions{}, Reasons: []string{}}
	for _, a := range sorted {
		done, err := e.executeOne(ctx, a)
		e.metrics.RecordAction(string(a.Kind()), err == nil)
		if err != nil {
			slog.Warn("intent: action failed", "action", a.Kind(), "name", a.ActionName(), "error", err.Error())
			result.Failed = append(result.Failed, a)
			result.Reasons = append(result.Reasons, err.Error())
			continue
		}
		result.Success = append(result.Success, done)
	}
	return result, nil
}

func (e *Executor) executeOne(ctx context.Context, a Action) (done Action, err error) {
	defer func() {
		if r := recover(); r != nil {
			done, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	snapshot, err := e.inv.Snapshot(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read inventory")
	}

	switch v := a.(type) {
	case AddRoom:
		return v, e.addRoom(ctx, v, snapshot)
	case AddCabinet:
		return v, e.addCabinet(ctx, v, snapshot)
	case AddItem:
		return e.addItem(ctx, v, snapshot)
	case DeleteItem:
		return v, e.deleteItem(ctx, v, snapshot)
	}
	return nil, errors.Errorf("unsupported action %T", a)
}

func (e *Executor) addRoom(ctx context.Context, a AddRoom, snapshot *store.Snapshot) error {
	n := len(snapshot.Rooms())
	col, row := n%roomsPerRow, n/roomsPerRow
	_, err := e.inv.CreateLocation(ctx, &store.Location{
		Name:     a.Name,
		Kind:     store.LocationKindRoom,
		RoomType: store.RoomType(a.RoomType),
		Bounds: store.Bounds{
			X:      float64(col*roomPitch + roomMargin),
			Y:      float64(row*roomPitch + roomMargin),
			Width:  roomWidth,
			Height: roomHeight,
		},
	})
	return err
}

func (e *Executor) addCabinet(ctx context.Context, a AddCabinet, snapshot *store.Snapshot) error {
	var parent *store.Location
	if a.ParentRoom != "" {
		parent = findRoomByName(a.ParentRoom, snapshot.Locations)
	}

	var x, y float64
	if parent != nil {
		x = parent.Bounds.X + containerPad + e.random()*math.Max(20, parent.Bounds.Width-60)
		y = parent.Bounds.Y + containerPad + e.random()*math.Max(20, parent.Bounds.Height-60)
	} else {
		x = canvasOriginX + e.random()*canvasSpreadX
		y = canvasOriginY + e.random()*canvasSpreadY
	}

	create := &store.Location{
		Name: a.Name,
		Kind: store.ContainerKind(string(a.Type)),
		Bounds: store.Bounds{
			X:      snap(x),
			Y:      snap(y),
			Width:  containerSize,
			Height: containerSize,
		},
	}
	if parent != nil {
		create.ParentID = parent.ID
	}
	_, err := e.inv.CreateLocation(ctx, create)
	return err
}

// addItem resolves the target by exact name, then by the best location found in the name itself.
func (e *Executor) addItem(ctx context.Context, a AddItem, snapshot *store.Snapshot) (Action, error) {
	loc := findLocationByName(a.LocationName, snapshot.Locations)
	if loc == nil && a.LocationName != "" {
		loc = FindBestLocation(a.LocationName, snapshot.Locations)
	}
	if loc == nil {
		return nil, errors.Errorf("location %q not found", a.LocationName)
	}

	if _, err := e.inv.CreateItem(ctx, &store.Item{
		Name:       a.Name,
		Category:   a.Category,
		Quantity:   a.Quantity,
		LocationID: loc.ID,
	}); err != nil {
		return nil, err
	}
	a.LocationName = loc.Name
	return a, nil
}

// deleteItem removes the first item with the exact name, wherever it is.
func (e *Executor) deleteItem(ctx context.Context, a DeleteItem, snapshot *store.Snapshot) error {
	for _, item := range snapshot.Items {
		if item.Name == a.Name {
			return e.inv.DeleteItem(ctx, &store.DeleteItem{ID: item.ID})
		}
	}
	return errors.Errorf("item %q not found", a.Name)
}

func snap(v float64) float64 {
	return math.Round(v/gridSize) * gridSize
}
