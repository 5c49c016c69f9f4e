package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hrygo/homebox/store"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		actions  Actions
		want     Actions
		rewrites int
	}{
		{
			name:    "existing location is kept",
			text:    "一次性内衣裤放到了书房的柜子里",
			actions: Actions{AddItem{Name: "一次性内衣裤", Category: store.CategoryClothing, Quantity: 1, LocationName: "柜子"}},
			want:    Actions{AddItem{Name: "一次性内衣裤", Category: store.CategoryClothing, Quantity: 1, LocationName: "柜子"}},
		},
		{
			name:     "unknown location is rewritten to best match in text",
			text:     "一次性内衣裤放到了书房的柜子里",
			actions:  Actions{AddItem{Name: "一次性内衣裤", Category: store.CategoryClothing, Quantity: 1, LocationName: "书房的柜子"}},
			want:     Actions{AddItem{Name: "一次性内衣裤", Category: store.CategoryClothing, Quantity: 1, LocationName: "柜子"}},
			rewrites: 1,
		},
		{
			name:     "empty location is resolved",
			text:     "把PS5从书房删掉",
			actions:  Actions{DeleteItem{Name: "PS5"}},
			want:     Actions{DeleteItem{Name: "PS5", LocationName: "书房"}},
			rewrites: 1,
		},
		{
			name: "containers and rooms created in the same list are accepted",
			text: "添加阳台和鞋柜，把拖鞋放进鞋柜，雨伞放阳台",
			actions: Actions{
				AddRoom{Name: "阳台", RoomType: store.RoomTypeBalcony},
				AddItem{Name: "拖鞋", Quantity: 1, LocationName: "鞋柜"},
				AddItem{Name: "雨伞", Quantity: 1, LocationName: "阳台"},
				AddCabinet{Name: "鞋柜", Type: store.LocationKindCabinet, ParentRoom: "阳台"},
			},
			want: Actions{
				AddRoom{Name: "阳台", RoomType: store.RoomTypeBalcony},
				AddItem{Name: "拖鞋", Quantity: 1, LocationName: "鞋柜"},
				AddItem{Name: "雨伞", Quantity: 1, LocationName: "阳台"},
				AddCabinet{Name: "鞋柜", Type: store.LocationKindCabinet, ParentRoom: "阳台"},
			},
		},
		{
			name:    "unresolvable location is left for the executor",
			text:    "把袜子放到阳台",
			actions: Actions{AddItem{Name: "袜子", Quantity: 1, LocationName: "阳台"}},
			want:    Actions{AddItem{Name: "袜子", Quantity: 1, LocationName: "阳台"}},
		},
		{
			name: "degenerate names are dropped",
			text: "书房的柜子",
			actions: Actions{
				AddItem{Name: "！！", LocationName: "柜子"},
				AddCabinet{Name: "  "},
				nil,
				AddItem{Name: "书", Quantity: 1, LocationName: "柜子"},
			},
			want: Actions{AddItem{Name: "书", Quantity: 1, LocationName: "柜子"}},
		},
		{
			name:    "unknown parent room of a container is not touched",
			text:    "在书房添加书架",
			actions: Actions{AddCabinet{Name: "书架", Type: store.LocationKindShelf, ParentRoom: "阁楼"}},
			want:    Actions{AddCabinet{Name: "书架", Type: store.LocationKindShelf, ParentRoom: "阁楼"}},
		},
		{
			name:    "empty list",
			text:    "家里有什么？",
			actions: nil,
			want:    Actions{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, rewrites := validate(tc.text, tc.actions, homeLocations())
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.rewrites, rewrites)
			assert.Equal(t, tc.want, Validate(tc.text, tc.actions, homeLocations()))
		})
	}
}

func TestValidate_DoesNotModifyInput(t *testing.T) {
	actions := Actions{AddItem{Name: "书", Quantity: 1, LocationName: "不存在"}}
	got := Validate("书房的柜子", actions, homeLocations())

	assert.Equal(t, "柜子", got[0].(AddItem).LocationName)
	assert.Equal(t, "不存在", actions[0].(AddItem).LocationName)
}
