package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/homebox/store"
)

func TestDecodeActions(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want Actions
	}{
		{
			name: "plain array",
			raw:  `[{"action":"add_item","name":"一次性内衣裤","category":"衣物","quantity":1,"locationName":"柜子"}]`,
			want: Actions{AddItem{Name: "一次性内衣裤", Category: store.CategoryClothing, Quantity: 1, LocationName: "柜子"}},
		},
		{
			name: "json fence",
			raw:  "```json\n[{\"action\":\"delete_item\",\"name\":\"PS5\",\"locationName\":\"书房\"}]\n```",
			want: Actions{DeleteItem{Name: "PS5", LocationName: "书房"}},
		},
		{
			name: "bare fence with prose",
			raw:  "好的，结果如下：\n```\n[{\"action\":\"add_room\",\"name\":\"阳台\",\"type\":\"balcony\"}]\n```\n以上。",
			want: Actions{AddRoom{Name: "阳台", RoomType: store.RoomTypeBalcony}},
		},
		{
			name: "brackets in prose before the array",
			raw:  `注意[重要]：[{"action":"add_cabinet","name":"鞋柜","type":"cabinet","parentRoom":"客厅"}]`,
			want: Actions{AddCabinet{Name: "鞋柜", Type: store.LocationKindCabinet, ParentRoom: "客厅"}},
		},
		{
			name: "brackets inside strings",
			raw:  `[{"action":"add_item","name":"书[旧]","quantity":"3","locationName":"柜子"}]`,
			want: Actions{AddItem{Name: "书[旧]", Category: store.CategoryOther, Quantity: 3, LocationName: "柜子"}},
		},
		{
			name: "defaults are normalized",
			raw:  `[{"action":"add_cabinet","name":"收纳架","type":"bookcase"},{"action":"add_room","name":"储物间","type":"garage"},{"action":"add_item","name":"螺丝刀","category":"五金","quantity":0,"locationName":"收纳架"}]`,
			want: Actions{
				AddCabinet{Name: "收纳架", Type: store.LocationKindCabinet},
				AddRoom{Name: "储物间", RoomType: store.RoomTypeLiving},
				AddItem{Name: "螺丝刀", Category: store.CategoryOther, Quantity: 1, LocationName: "收纳架"},
			},
		},
		{
			name: "bad elements are dropped one by one",
			raw:  `[{"action":"fly","name":"x"},{"name":"无动作"},{"action":"add_item","name":"！！"},42,{"action":"add_item","name":"口罩","quantity":"many"},{"action":"add_item","name":"湿纸巾","locationName":"杂物收纳柜"}]`,
			want: Actions{AddItem{Name: "湿纸巾", Category: store.CategoryOther, Quantity: 1, LocationName: "杂物收纳柜"}},
		},
		{
			name: "empty array",
			raw:  "[]",
			want: Actions{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeActions(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeActions_NoArray(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"prose", "抱歉，我无法理解这个指令。"},
		{"object", `{"action":"add_item","name":"书"}`},
		{"truncated", `[{"action":"add_item","name":"书"`},
		{"brackets without json", "[注意] 没有操作 [完]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeActions(tc.raw)
			assert.ErrorIs(t, err, ErrNoArray)
			assert.Nil(t, got)
		})
	}
}

func TestBalancedSpan(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{`abc [1, [2, 3]] tail ]`, `[1, [2, 3]]`},
		{`["a]b", "c\"]"] rest`, `["a]b", "c\"]"]`},
		{`] [x]`, `[x]`},
		{`[unclosed`, ``},
		{`no brackets`, ``},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, balancedSpan(tc.input, '[', ']'))
		})
	}
}
