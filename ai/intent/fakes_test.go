package intent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hrygo/homebox/ai/core/llm"
	"github.com/hrygo/homebox/store"
)

// fakeLLM is a scripted llm.Service.
type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	delay    time.Duration
	panicMsg string
	calls    int
	messages []llm.Message
}

func (f *fakeLLM) Chat(ctx context.Context, messages []llm.Message) (string, *llm.LLMCallStats, error) {
	f.mu.Lock()
	f.calls++
	f.messages = messages
	f.mu.Unlock()

	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", nil, ctx.Err()
		}
	}
	if f.err != nil {
		return "", nil, f.err
	}
	return f.reply, &llm.LLMCallStats{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120}, nil
}

func (f *fakeLLM) ChatStream(_ context.Context, _ []llm.Message) (<-chan string, <-chan *llm.LLMCallStats, <-chan error) {
	contentCh := make(chan string, 1)
	statsCh := make(chan *llm.LLMCallStats, 1)
	errCh := make(chan error, 1)
	contentCh <- f.reply
	statsCh <- &llm.LLMCallStats{}
	close(contentCh)
	close(statsCh)
	close(errCh)
	return contentCh, statsCh, errCh
}

func (f *fakeLLM) Warmup(context.Context) {}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeInventory is an in-memory Inventory.
type fakeInventory struct {
	locations []*store.Location
	items     []*store.Item
	nextID    int
	panicOn   string
	deleted   []string
}

func (f *fakeInventory) Snapshot(context.Context) (*store.Snapshot, error) {
	return &store.Snapshot{
		Locations: append([]*store.Location(nil), f.locations...),
		Items:     append([]*store.Item(nil), f.items...),
	}, nil
}

func (f *fakeInventory) CreateLocation(_ context.Context, create *store.Location) (*store.Location, error) {
	if f.panicOn != "" && create.Name == f.panicOn {
		panic("boom")
	}
	f.nextID++
	loc := *create
	loc.ID = fmt.Sprintf("loc-%d", f.nextID)
	f.locations = append(f.locations, &loc)
	return &loc, nil
}

func (f *fakeInventory) CreateItem(_ context.Context, create *store.Item) (*store.Item, error) {
	f.nextID++
	item := *create
	item.ID = fmt.Sprintf("item-%d", f.nextID)
	f.items = append(f.items, &item)
	return &item, nil
}

func (f *fakeInventory) DeleteItem(_ context.Context, del *store.DeleteItem) error {
	for i, item := range f.items {
		if item.ID == del.ID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			f.deleted = append(f.deleted, del.ID)
			return nil
		}
	}
	return store.ErrNotFound
}

func room(id, name string) *store.Location {
	return &store.Location{
		ID:     id,
		Name:   name,
		Kind:   store.LocationKindRoom,
		Bounds: store.Bounds{X: 40, Y: 40, Width: 160, Height: 120},
	}
}

func container(id, name, parentID string) *store.Location {
	return &store.Location{
		ID:       id,
		Name:     name,
		Kind:     store.LocationKindCabinet,
		ParentID: parentID,
		Bounds:   store.Bounds{Width: 40, Height: 40},
	}
}
