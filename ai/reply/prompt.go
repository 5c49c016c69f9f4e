package reply

import (
	"fmt"
	"strings"

	"github.com/hrygo/homebox/ai/intent"
	"github.com/hrygo/homebox/store"
)

const systemPromptTemplate = `你是HomeBox收纳助手，帮用户管理家中物品。

家庭布局:
%s
统计: %d房间, %d收纳点, %d物品%s

回复规则: 简洁友好中文，不提及系统内部机制。`

const (
	executedNote    = "\n\n✅ 系统已自动完成操作: %s\n请简短确认即可，不要重复操作细节。"
	notExecutedNote = "\n\n⚠️ 注意：本次没有执行任何操作。你绝对不能说\"已完成/已添加/已放入\"之类的话。如果用户想要操作但未执行，请如实说\"抱歉，没有找到对应的位置/收纳点\"或给出建议。"
)

// BuildSystemPrompt renders the assistant prompt for a snapshot taken after execution.
// An empty success list produces the note forbidding any claim of completion.
func BuildSystemPrompt(snapshot *store.Snapshot, success intent.Actions) string {
	if snapshot == nil {
		snapshot = &store.Snapshot{}
	}
	rooms := snapshot.Rooms()
	containers := snapshot.Containers()

	note := notExecutedNote
	if len(success) > 0 {
		note = fmt.Sprintf(executedNote, Summarize(success))
	}

	layout := buildLayout(rooms, containers, snapshot.Items)
	if layout == "" {
		layout = "(空)"
	}
	return fmt.Sprintf(systemPromptTemplate, layout, len(rooms), len(containers), len(snapshot.Items), note)
}

// buildLayout renders "  room → [container(item×qty,...), ...]" per room.
func buildLayout(rooms, containers []*store.Location, items []*store.Item) string {
	lines := make([]string, 0, len(rooms))
	for _, r := range rooms {
		var children []string
		for _, c := range containers {
			if c.ParentID != r.ID {
				continue
			}
			var stored []string
			for _, item := range items {
				if item.LocationID == c.ID {
					stored = append(stored, fmt.Sprintf("%s×%d", item.Name, item.Quantity))
				}
			}
			if len(stored) == 0 {
				children = append(children, c.Name)
				continue
			}
			children = append(children, fmt.Sprintf("%s(%s)", c.Name, strings.Join(stored, ",")))
		}

		line := "  " + r.Name
		if len(children) > 0 {
			line += " → [" + strings.Join(children, ", ") + "]"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Summarize describes executed actions in one line, joined by "；".
func Summarize(success intent.Actions) string {
	parts := make([]string, 0, len(success))
	for _, a := range success {
		switch v := a.(type) {
		case intent.AddItem:
			parts = append(parts, fmt.Sprintf("物品\"%s\" → %s", v.Name, v.LocationName))
		case intent.AddCabinet:
			if v.ParentRoom == "" {
				parts = append(parts, fmt.Sprintf("收纳\"%s\"", v.Name))
			} else {
				parts = append(parts, fmt.Sprintf("收纳\"%s\" → %s", v.Name, v.ParentRoom))
			}
		case intent.AddRoom:
			parts = append(parts, fmt.Sprintf("房间\"%s\"", v.Name))
		case intent.DeleteItem:
			parts = append(parts, fmt.Sprintf("删除\"%s\"", v.Name))
		default:
			parts = append(parts, a.ActionName())
		}
	}
	return strings.Join(parts, "；")
}
