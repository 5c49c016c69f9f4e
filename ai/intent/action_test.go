package intent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/homebox/store"
)

func TestActionLabels(t *testing.T) {
	actions := Actions{
		AddRoom{Name: "阳台", RoomType: store.RoomTypeBalcony},
		AddCabinet{Name: "鞋柜", Type: store.LocationKindCabinet, ParentRoom: "客厅"},
		AddCabinet{Name: "杂物箱", Type: store.LocationKindBox},
		AddItem{Name: "拖鞋", Category: store.CategoryClothing, Quantity: 2, LocationName: "鞋柜"},
		AddItem{Name: "口罩"},
		DeleteItem{Name: "PS5", LocationName: "书房"},
	}

	assert.Equal(t, []string{
		"🏠 添加房间「阳台」",
		"📦 添加收纳「鞋柜」 → 客厅",
		"📦 添加收纳「杂物箱」",
		"📌 放入「拖鞋」×2 → 鞋柜",
		"📌 放入「口罩」×1 → ?",
		"🗑️ 删除「PS5」",
	}, actions.Labels())
}

func TestActionsJSON(t *testing.T) {
	actions := Actions{
		AddCabinet{Name: "置物柜1", Type: store.LocationKindShelf, ParentRoom: "书房"},
		AddItem{Name: "网络连接线", Category: store.CategoryElectronics, Quantity: 1, LocationName: "置物柜1"},
	}

	data, err := json.Marshal(actions)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"action":"add_cabinet","name":"置物柜1","type":"shelf","parentRoom":"书房"},
		{"action":"add_item","name":"网络连接线","category":"电子产品","quantity":1,"locationName":"置物柜1"}
	]`, string(data))

	var decoded Actions
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, actions, decoded)
}

func TestActionsJSON_Strict(t *testing.T) {
	var decoded Actions
	err := json.Unmarshal([]byte(`[{"action":"add_item","name":"书"},{"action":"teleport","name":"x"}]`), &decoded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "action 1")
	assert.Nil(t, decoded)

	require.Error(t, json.Unmarshal([]byte(`{"action":"add_item"}`), &decoded))
}

func TestActionsJSON_LenientQuantity(t *testing.T) {
	var decoded Actions
	require.NoError(t, json.Unmarshal([]byte(`[
		{"action":"add_item","name":"电池","quantity":"4","locationName":"抽屉"},
		{"action":"add_item","name":"胶带","quantity":null,"locationName":"抽屉"},
		{"action":"add_item","name":"螺丝","quantity":2.0,"locationName":"抽屉"}
	]`), &decoded))

	require.Len(t, decoded, 3)
	assert.Equal(t, 4, decoded[0].(AddItem).Quantity)
	assert.Equal(t, 1, decoded[1].(AddItem).Quantity)
	assert.Equal(t, 2, decoded[2].(AddItem).Quantity)
}

func TestIsDegenerateName(t *testing.T) {
	testCases := []struct {
		name string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"！！", true},
		{"...", true},
		{"、，", true},
		{"~+", true},
		{"书", false},
		{" PS5 ", false},
		{"衣柜1", false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, IsDegenerateName(tc.name), "name %q", tc.name)
	}
}

func TestLocationOptions(t *testing.T) {
	locations := []*store.Location{room("r1", "书房"), container("c1", "柜子", "r1")}
	pending := []Action{
		AddRoom{Name: "阳台"},
		AddCabinet{Name: "柜子", ParentRoom: "书房"},
		AddCabinet{Name: "鞋柜", ParentRoom: "阳台"},
		AddItem{Name: "拖鞋", LocationName: "鞋柜"},
	}

	assert.Equal(t, []string{"书房", "柜子", "阳台", "鞋柜"}, LocationOptions(locations, pending))
	assert.Equal(t, []string{"书房", "阳台"}, RoomOptions(locations, pending))
	assert.Empty(t, RoomOptions(nil, nil))
}
