package ai

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/homebox/ai/core/llm"
	"github.com/hrygo/homebox/ai/intent"
	"github.com/hrygo/homebox/internal/profile"
	"github.com/hrygo/homebox/store"
	"github.com/hrygo/homebox/store/db/sqlite"
)

// scriptedLLM 按用途返回固定内容。
type scriptedLLM struct {
	reply    string
	messages []llm.Message
}

func (s *scriptedLLM) Chat(_ context.Context, messages []llm.Message) (string, *llm.LLMCallStats, error) {
	s.messages = messages
	return s.reply, &llm.LLMCallStats{}, nil
}

func (s *scriptedLLM) ChatStream(_ context.Context, messages []llm.Message) (<-chan string, <-chan *llm.LLMCallStats, <-chan error) {
	s.messages = messages
	contentChan := make(chan string, 1)
	statsChan := make(chan *llm.LLMCallStats, 1)
	errChan := make(chan error)
	contentChan <- s.reply
	statsChan <- &llm.LLMCallStats{}
	close(contentChan)
	close(statsChan)
	close(errChan)
	return contentChan, statsChan, errChan
}

func (s *scriptedLLM) Warmup(context.Context) {}

func newTestInventory(t *testing.T) *store.Store {
	t.Helper()
	p := &profile.Profile{Mode: "dev", Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "assistant.db")}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	s := store.New(driver, p)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	ctx := context.Background()
	study, err := s.CreateLocation(ctx, &store.Location{Name: "书房", Kind: store.LocationKindRoom, Bounds: store.Bounds{X: 40, Y: 40, Width: 160, Height: 120}})
	require.NoError(t, err)
	_, err = s.CreateLocation(ctx, &store.Location{Name: "柜子", Kind: store.LocationKindCabinet, ParentID: study.ID})
	require.NoError(t, err)
	return s
}

// TestAssistant_LocalTurn 测试未配置 LLM 时的完整回合：本地解析、执行与兜底回复。
func TestAssistant_LocalTurn(t *testing.T) {
	ctx := context.Background()
	inv := newTestInventory(t)
	a := NewAssistant(nil, nil, inv, nil)

	parsed, err := a.Parse(ctx, "在书房里加入置物柜1，帮我把网络连接线放到里面")
	require.NoError(t, err)
	assert.Equal(t, intent.SourceLocal, parsed.Source)
	require.Len(t, parsed.Actions, 2)

	outcome, err := a.Submit(ctx, parsed.Text, parsed.Actions, nil, nil)
	require.NoError(t, err)
	assert.Len(t, outcome.Success, 2)
	assert.Empty(t, outcome.Failed)
	assert.Equal(t, "操作已完成！(回复生成失败)", outcome.Reply)

	snapshot, err := inv.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.Locations, 3)
	shelf := snapshot.Locations[2]
	assert.Equal(t, "置物柜1", shelf.Name)
	assert.Equal(t, snapshot.Locations[0].ID, shelf.ParentID)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, shelf.ID, snapshot.Items[0].LocationID)
}

// TestAssistant_RemoteTurn 测试远程解析与流式回复。
func TestAssistant_RemoteTurn(t *testing.T) {
	ctx := context.Background()
	inv := newTestInventory(t)
	intentLLM := &scriptedLLM{reply: `[{"action":"add_item","name":"一次性内衣裤","category":"衣物","quantity":1,"locationName":"柜子"}]`}
	replyLLM := &scriptedLLM{reply: "已记录到书房的柜子里～"}
	cfg := &Config{Enabled: true, RPS: 10}
	a := NewAssistant(cfg, &Services{Reply: replyLLM, Intent: intentLLM}, inv, nil)

	parsed, err := a.Parse(ctx, "一次性內衣褲放到了書房的櫃子裡")
	require.NoError(t, err)
	assert.Equal(t, intent.SourceRemote, parsed.Source)

	var chunks []string
	outcome, err := a.Submit(ctx, parsed.Text, parsed.Actions, []llm.Message{llm.UserMessage("你好")}, func(s string) {
		chunks = append(chunks, s)
	})
	require.NoError(t, err)
	assert.Equal(t, "已记录到书房的柜子里～", outcome.Reply)
	assert.Equal(t, []string{"已记录到书房的柜子里～"}, chunks)

	require.Len(t, replyLLM.messages, 3)
	assert.Contains(t, replyLLM.messages[0].Content, "柜子(一次性内衣裤×1)")
	assert.Contains(t, replyLLM.messages[0].Content, "系统已自动完成操作")
	assert.Equal(t, "一次性内衣裤放到了书房的柜子里", replyLLM.messages[2].Content)
}

// TestAssistant_Dismissed 测试取消确认：不执行任何操作，回复提示不得声称已完成。
func TestAssistant_Dismissed(t *testing.T) {
	inv := newTestInventory(t)
	replyLLM := &scriptedLLM{reply: "好的，已取消。"}
	a := NewAssistant(&Config{}, &Services{Reply: replyLLM}, inv, nil)

	outcome, err := a.Submit(context.Background(), "算了", nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, outcome.Success)
	assert.Contains(t, replyLLM.messages[0].Content, "本次没有执行任何操作")
}
