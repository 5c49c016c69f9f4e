package store

import "context"

// LocationKind is the kind of a location node.
type LocationKind string

const (
	// LocationKindRoom is a top-level room.
	LocationKindRoom LocationKind = "room"
	// LocationKindCabinet is a generic storage cabinet.
	LocationKindCabinet LocationKind = "cabinet"
	// LocationKindWardrobe is a wardrobe.
	LocationKindWardrobe LocationKind = "wardrobe"
	// LocationKindShelf is a shelf or rack.
	LocationKindShelf LocationKind = "shelf"
	// LocationKindDrawer is a drawer.
	LocationKindDrawer LocationKind = "drawer"
	// LocationKindBox is a box or crate.
	LocationKindBox LocationKind = "box"
)

// IsRoom reports whether the kind is a room. Every other kind is a container.
func (k LocationKind) IsRoom() bool {
	return k == LocationKindRoom
}

// ContainerKind maps a free-form container type hint to a container kind.
// Unknown hints fall back to a generic cabinet.
func ContainerKind(hint string) LocationKind {
	switch LocationKind(hint) {
	case LocationKindWardrobe, LocationKindShelf, LocationKindDrawer, LocationKindBox, LocationKindCabinet:
		return LocationKind(hint)
	default:
		return LocationKindCabinet
	}
}

// Room type hints understood by the floor plan.
const (
	RoomTypeLiving   = "living"
	RoomTypeBedroom  = "bedroom"
	RoomTypeKitchen  = "kitchen"
	RoomTypeBathroom = "bathroom"
	RoomTypeBalcony  = "balcony"
	RoomTypeStudy    = "study"
	RoomTypeDining   = "dining"
	RoomTypeStorage  = "storage"
)

var roomTypes = map[string]bool{
	RoomTypeLiving:   true,
	RoomTypeBedroom:  true,
	RoomTypeKitchen:  true,
	RoomTypeBathroom: true,
	RoomTypeBalcony:  true,
	RoomTypeStudy:    true,
	RoomTypeDining:   true,
	RoomTypeStorage:  true,
}

// RoomType normalizes a room type hint, defaulting to living.
func RoomType(hint string) string {
	if roomTypes[hint] {
		return hint
	}
	return RoomTypeLiving
}

// Bounds is the rectangle a location occupies on the floor plan.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Location is a room or a storage container.
// Containers may have a room as parent; rooms never have a parent.
type Location struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Kind     LocationKind `json:"type"`
	ParentID string       `json:"parentId,omitempty"` // empty means no parent
	RoomType string       `json:"roomType,omitempty"`
	Bounds   Bounds       `json:"bounds"`

	CreatedTs int64 `json:"createdTs"`
}

// FindLocation is the find condition for locations.
type FindLocation struct {
	ID       *string
	Name     *string
	Kind     *LocationKind
	ParentID *string
}

// CreateLocation creates a location after checking the two-level hierarchy rules.
func (s *Store) CreateLocation(ctx context.Context, create *Location) (*Location, error) {
	if err := s.checkHierarchy(ctx, create); err != nil {
		return nil, err
	}
	return s.driver.CreateLocation(ctx, create)
}

// ListLocations lists locations in creation order.
func (s *Store) ListLocations(ctx context.Context, find *FindLocation) ([]*Location, error) {
	return s.driver.ListLocations(ctx, find)
}

// GetLocation returns the location matching find, or ErrNotFound.
func (s *Store) GetLocation(ctx context.Context, find *FindLocation) (*Location, error) {
	list, err := s.driver.ListLocations(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list[0], nil
}
