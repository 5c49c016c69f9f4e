package intent

import (
	"fmt"
	"strings"

	"github.com/hrygo/homebox/store"
)

// BuildHierarchy renders one line per room, "room → [c1, c2]" or just "room" when it has no containers.
func BuildHierarchy(locations []*store.Location) string {
	var lines []string
	for _, room := range locations {
		if room == nil || !room.Kind.IsRoom() {
			continue
		}
		var children []string
		for _, c := range locations {
			if c != nil && !c.Kind.IsRoom() && c.ParentID != "" && c.ParentID == room.ID {
				children = append(children, c.Name)
			}
		}
		if len(children) == 0 {
			lines = append(lines, room.Name)
			continue
		}
		lines = append(lines, fmt.Sprintf("%s → [%s]", room.Name, strings.Join(children, ", ")))
	}
	return strings.Join(lines, "\n")
}

func allLocationNames(locations []*store.Location) string {
	names := make([]string, 0, len(locations))
	for _, l := range locations {
		if l != nil {
			names = append(names, l.Name)
		}
	}
	return strings.Join(names, ", ")
}

// intentPromptTemplate takes the hierarchy and the flat name list.
const intentPromptTemplate = `你是JSON意图解析器。分析中文指令返回JSON数组。

位置层级(房间→[收纳点]):
%s
所有位置名: [%s]

操作类型:
- add_cabinet: 添加收纳家具, 字段: name,type(wardrobe/shelf/drawer/box/cabinet),parentRoom
- add_room: 添加房间, 字段: name,type(living/bedroom/kitchen/bathroom/balcony/study/dining/storage)
- add_item: 记录物品位置, 字段: name,category(衣物/电子产品/工具/书籍/厨房用品/药品/纪念品/其他),quantity,locationName
- delete_item: 删除物品, 字段: name,locationName

关键规则:
1. locationName必须精确匹配"所有位置名"中的一个，或匹配同一句中新建的收纳名/房间名
2. 优先选收纳点而非房间。"书房的柜子"→locationName="柜子"(如果存在)
3. 中文数字:一=1,两=2,二=2,三=3
4. "放到了/放在/存到/收到" 等表达 = add_item
5. "添加/新增/创建/加入" + 家具名 = add_cabinet
6. "删除/移除/去掉" = delete_item
7. 复合指令：先add_cabinet再add_item到新建的收纳里
8. "里面/裡面" 指代前面提到的收纳点
9. name中不要包含"收纳-"前缀，直接用家具名如"置物柜1"
10. 查询/建议类请求 = []
11. 只输出JSON数组

示例:
"杂物收纳柜中放着湿纸巾和口罩，帮我记录"
[{"action":"add_item","name":"湿纸巾","category":"其他","quantity":1,"locationName":"杂物收纳柜"},{"action":"add_item","name":"口罩","category":"其他","quantity":1,"locationName":"杂物收纳柜"}]

"一次性内衣裤放到了书房的柜子里"
[{"action":"add_item","name":"一次性内衣裤","category":"衣物","quantity":1,"locationName":"柜子"}]

"在书房里加入置物柜1，帮我把网络连接线放到里面"
[{"action":"add_cabinet","name":"置物柜1","type":"shelf","parentRoom":"书房"},{"action":"add_item","name":"网络连接线","category":"电子产品","quantity":1,"locationName":"置物柜1"}]

"客厅添加一个鞋柜，把拖鞋和运动鞋放进去"
[{"action":"add_cabinet","name":"鞋柜","type":"cabinet","parentRoom":"客厅"},{"action":"add_item","name":"拖鞋","category":"衣物","quantity":1,"locationName":"鞋柜"},{"action":"add_item","name":"运动鞋","category":"衣物","quantity":1,"locationName":"鞋柜"}]

"在客厅添加两个衣柜"
[{"action":"add_cabinet","name":"衣柜1","type":"wardrobe","parentRoom":"客厅"},{"action":"add_cabinet","name":"衣柜2","type":"wardrobe","parentRoom":"客厅"}]

"把书房的PS5删掉"
[{"action":"delete_item","name":"PS5","locationName":"书房"}]

"家里有什么？"
[]`

// BuildIntentPrompt builds the system prompt for remote intent parsing.
func BuildIntentPrompt(locations []*store.Location) string {
	return fmt.Sprintf(intentPromptTemplate, BuildHierarchy(locations), allLocationNames(locations))
}
