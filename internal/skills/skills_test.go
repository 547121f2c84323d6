package skills

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhr613/Location-QA-Assistant/internal/capability"
	"github.com/dhr613/Location-QA-Assistant/internal/conv"
	"github.com/dhr613/Location-QA-Assistant/internal/llm"
)

type fakeModel struct {
	turns []*llm.Turn
	reqs  []llm.TurnRequest
}

func (f *fakeModel) Complete(_ context.Context, req llm.TurnRequest) (*llm.Turn, error) {
	f.reqs = append(f.reqs, req)
	if len(f.turns) == 0 {
		return &llm.Turn{Text: "unscripted"}, nil
	}
	t := f.turns[0]
	f.turns = f.turns[1:]
	return t, nil
}

func writeSkill(t *testing.T, dir, file string, s Skill) {
	t.Helper()
	data := "name: " + s.Name + "\ndescription: " + s.Description + "\ncontent: " + s.Content + "\n"
	if err := os.WriteFile(filepath.Join(dir, file), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestCatalog(t *testing.T) (*Catalog, string) {
	t.Helper()
	dir := t.TempDir()
	writeSkill(t, dir, "nearby.yaml", Skill{
		Name:        "周边搜索",
		Description: "查找某个位置附近的地点",
		Content:     "以坐标为中心搜索，按距离排序。",
	})
	writeSkill(t, dir, "route.yaml", Skill{
		Name:        "路线规划",
		Description: "规划两地之间的路线",
		Content:     "先确定起终点坐标再规划。",
	})

	c, err := LoadCatalog(dir)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	t.Cleanup(c.Close)
	return c, dir
}

func TestCatalog_LoadAndSummary(t *testing.T) {
	c, _ := newTestCatalog(t)

	s, ok := c.Get("周边搜索")
	if !ok {
		t.Fatal("skill 周边搜索 not loaded")
	}
	if !strings.Contains(s.Content, "按距离排序") {
		t.Errorf("content = %q", s.Content)
	}

	summary := c.Summary()
	for _, want := range []string{"周边搜索", "路线规划"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if strings.Contains(summary, "按距离排序") {
		t.Error("summary leaks skill content before load")
	}
}

func TestCatalog_Reload(t *testing.T) {
	c, dir := newTestCatalog(t)

	writeSkill(t, dir, "weather.yaml", Skill{Name: "天气查询", Description: "查天气", Content: "按 adcode 查。"})
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if _, ok := c.Get("天气查询"); !ok {
		t.Error("new skill not visible after reload")
	}

	os.Remove(filepath.Join(dir, "nearby.yaml"))
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if _, ok := c.Get("周边搜索"); ok {
		t.Error("removed skill still visible after reload")
	}
}

func TestCatalog_SkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(":::not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	writeSkill(t, dir, "ok.yaml", Skill{Name: "正常技能", Description: "d", Content: "c"})

	c, err := LoadCatalog(dir)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	defer c.Close()

	if len(c.List()) != 1 {
		t.Errorf("skills = %d, want 1 (malformed skipped)", len(c.List()))
	}
}

func TestLoadSkill_DisclosesContentAndSetsSkill(t *testing.T) {
	c, _ := newTestCatalog(t)

	result, err := LoadSkill(c).Invoke(context.Background(), json.RawMessage(`{"skill_name":"周边搜索"}`))
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !strings.Contains(result.Content, "按距离排序") {
		t.Errorf("content = %q", result.Content)
	}
	if result.Directive == nil || result.Directive.SetSkill != "周边搜索" {
		t.Errorf("directive = %+v", result.Directive)
	}
}

func TestLoadSkill_UnknownSkillErrors(t *testing.T) {
	c, _ := newTestCatalog(t)

	_, err := LoadSkill(c).Invoke(context.Background(), json.RawMessage(`{"skill_name":"不存在"}`))
	if err == nil {
		t.Error("Invoke(unknown skill): error = nil, want error")
	}
}

func TestController_SkillGatesCapabilities(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	search := capability.New(capability.Spec{Name: "around_search", Description: "search"},
		func(_ context.Context, _ json.RawMessage) (capability.Result, error) {
			return capability.Result{Content: "found"}, nil
		})

	model := &fakeModel{turns: []*llm.Turn{
		{Calls: []llm.CallRequest{{ID: "c1", Name: "load_skill", Input: json.RawMessage(`{"skill_name":"周边搜索"}`)}}},
		{Calls: []llm.CallRequest{{ID: "c2", Name: "around_search", Input: json.RawMessage(`{}`)}}},
		{Text: "answer"},
	}}
	ctrl := NewController(model, catalog, ControllerConfig{
		Instruction: "你是出行助手。",
		Bundles: map[string]*capability.Set{
			"周边搜索": capability.NewSet(search),
		},
	})

	state := conv.NewState()
	got, err := ctrl.Run(context.Background(), state, "附近有什么")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != "answer" {
		t.Errorf("Run() = %q", got)
	}
	if state.Skill != "周边搜索" {
		t.Errorf("state.Skill = %q", state.Skill)
	}

	// Before the load only load_skill is visible.
	if len(model.reqs[0].Tools) != 1 || model.reqs[0].Tools[0].OfTool.Name != "load_skill" {
		t.Errorf("pre-load tools = %d", len(model.reqs[0].Tools))
	}
	// After the load the bundle appears, and the instruction carries the
	// skill content.
	if len(model.reqs[1].Tools) != 2 {
		t.Errorf("post-load tools = %d, want 2", len(model.reqs[1].Tools))
	}
	if !strings.Contains(model.reqs[1].Instruction, "按距离排序") {
		t.Error("post-load instruction missing skill content")
	}
	if strings.Contains(model.reqs[0].Instruction, "按距离排序") {
		t.Error("pre-load instruction leaks skill content")
	}
}

func TestController_BundleCallBeforeLoadRejected(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	model := &fakeModel{turns: []*llm.Turn{
		{Calls: []llm.CallRequest{{ID: "c1", Name: "around_search", Input: json.RawMessage(`{}`)}}},
		{Text: "ok"},
	}}
	ctrl := NewController(model, catalog, ControllerConfig{Instruction: "i"})

	state := conv.NewState()
	if _, err := ctrl.Run(context.Background(), state, "q"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var rejected bool
	for _, m := range state.Messages {
		if m.ToolCallID == "c1" && m.IsError && strings.Contains(m.Content, "load_skill") {
			rejected = true
		}
	}
	if !rejected {
		t.Error("ungated call was not rejected with a load_skill hint")
	}
}
