package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hrygo/homebox/internal/profile"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// Migrate creates the schema if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.driver.Migrate(ctx); err != nil {
		return errors.Wrap(err, "failed to migrate")
	}
	return nil
}

// Snapshot is a read-only view of every location and item at one point in time.
type Snapshot struct {
	Locations []*Location `json:"locations"`
	Items     []*Item     `json:"items"`
}

// Rooms returns the room locations of the snapshot.
func (s *Snapshot) Rooms() []*Location {
	var rooms []*Location
	for _, l := range s.Locations {
		if l.Kind.IsRoom() {
			rooms = append(rooms, l)
		}
	}
	return rooms
}

// Containers returns the non-room locations of the snapshot.
func (s *Snapshot) Containers() []*Location {
	var containers []*Location
	for _, l := range s.Locations {
		if !l.Kind.IsRoom() {
			containers = append(containers, l)
		}
	}
	return containers
}

// Snapshot reads all locations and items.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	locations, err := s.driver.ListLocations(ctx, &FindLocation{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list locations")
	}
	items, err := s.driver.ListItems(ctx, &FindItem{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list items")
	}
	return &Snapshot{Locations: locations, Items: items}, nil
}

// checkHierarchy enforces the two-level room -> container hierarchy.
func (s *Store) checkHierarchy(ctx context.Context, create *Location) error {
	if create.Name == "" {
		return errors.New("location name is required")
	}
	if create.Kind == "" {
		create.Kind = LocationKindCabinet
	}
	if create.Kind.IsRoom() {
		if create.ParentID != "" {
			return errors.Errorf("room %q cannot have a parent", create.Name)
		}
		return nil
	}
	if create.ParentID == "" {
		return nil
	}
	parent, err := s.GetLocation(ctx, &FindLocation{ID: &create.ParentID})
	if err != nil {
		return errors.Wrapf(err, "failed to find parent %s", create.ParentID)
	}
	if !parent.Kind.IsRoom() {
		return errors.Errorf("parent %q of %q is not a room", parent.Name, create.Name)
	}
	return nil
}
