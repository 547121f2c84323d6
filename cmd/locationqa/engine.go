package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/dhr613/Location-QA-Assistant/internal/amap"
	"github.com/dhr613/Location-QA-Assistant/internal/capability"
	"github.com/dhr613/Location-QA-Assistant/internal/config"
	"github.com/dhr613/Location-QA-Assistant/internal/conv"
	"github.com/dhr613/Location-QA-Assistant/internal/handoff"
	"github.com/dhr613/Location-QA-Assistant/internal/llm"
	"github.com/dhr613/Location-QA-Assistant/internal/progress"
	"github.com/dhr613/Location-QA-Assistant/internal/router"
	"github.com/dhr613/Location-QA-Assistant/internal/skills"
	"github.com/dhr613/Location-QA-Assistant/internal/worker"
	"github.com/dhr613/Location-QA-Assistant/pkg/models"
)

// engine assembles the model client, map capabilities, and controllers. One
// engine serves one process; controllers are built per request.
type engine struct {
	cfg     *config.Config
	model   *llm.Client
	catalog *worker.Catalog
}

func newEngine(cfg *config.Config) (*engine, error) {
	apiKey := ""
	if !cfg.Anthropic.UseBedrock {
		key, err := config.GetAnthropicKey(cfg)
		if err != nil {
			return nil, err
		}
		apiKey = key
	}

	model, err := llm.NewClient(llm.ClientConfig{
		Model:         anthropic.Model(cfg.Model.Name),
		APIKey:        apiKey,
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
		MaxTokens:     cfg.Model.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("create model client: %w", err)
	}

	amapKey, err := config.GetAmapKey(cfg)
	if err != nil {
		return nil, err
	}
	amapClient, err := amap.NewClient(amapKey)
	if err != nil {
		return nil, fmt.Errorf("create amap client: %w", err)
	}

	return &engine{
		cfg:     cfg,
		model:   model,
		catalog: worker.NewCatalog(amapClient),
	}, nil
}

// ask runs one request in the given mode and returns its progress stream.
// The channel closes after the terminal chunk.
func (e *engine) ask(ctx context.Context, st *conv.State, mode, query string) (<-chan string, error) {
	if mode == "" {
		mode = e.cfg.Defaults.Mode
	}
	switch mode {
	case "pipeline", "steps", "delegate", "graph", "skills":
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	events := make(chan progress.NodeEvent, 16)
	stream := progress.NewProjector().Stream(events)

	go func() {
		defer close(events)
		emit := func(ev progress.NodeEvent) { events <- ev }
		if err := e.run(ctx, st, mode, query, emit); err != nil {
			emit(progress.NodeEvent{Node: mode, Err: err})
		}
	}()

	return stream, nil
}

func (e *engine) run(ctx context.Context, st *conv.State, mode, query string, emit func(progress.NodeEvent)) error {
	switch mode {
	case "pipeline":
		pipeline := router.NewPipeline(
			router.NewClassifier(e.model),
			router.NewDispatcher(map[models.WorkerKind]router.WorkerRunner{
				models.WorkerPlace: worker.NewPlaceWorker(e.model, e.catalog),
				models.WorkerRoute: worker.NewRouteWorker(e.model, e.catalog),
			}),
			router.NewSynthesizer(e.model),
			emit,
		)
		_, err := pipeline.Run(ctx, st, query)
		return err

	case "steps":
		ctrl, err := handoff.NewStepsController(e.model, e.catalog, e.cfg.Defaults.MaxTurns, emit)
		if err != nil {
			return err
		}
		_, err = ctrl.Run(ctx, st, query)
		return err

	case "delegate":
		ctrl, err := handoff.NewDelegateController(e.model, e.catalog, e.cfg.Defaults.MaxTurns, emit)
		if err != nil {
			return err
		}
		_, err = ctrl.Run(ctx, st, query)
		return err

	case "graph":
		graph, err := handoff.NewTravelGraph(e.model, e.catalog, e.cfg.Defaults.MaxTurns, emit)
		if err != nil {
			return err
		}
		_, err = graph.Run(ctx, st, query)
		return err

	case "skills":
		catalog, err := e.loadSkills()
		if err != nil {
			return err
		}
		defer catalog.Close()
		ctrl := skills.NewController(e.model, catalog, skills.ControllerConfig{
			Instruction: "你是出行助手。根据问题先加载合适的技能，再用它的能力查询，最后给出回答。",
			Bundles:     e.skillBundles(),
			MaxTurns:    e.cfg.Defaults.MaxTurns,
			Emit:        emit,
		})
		_, err = ctrl.Run(ctx, st, query)
		return err
	}
	return fmt.Errorf("unknown mode %q", mode)
}

// usage summarizes the session's model spend, empty before the first call.
func (e *engine) usage() string {
	tr := e.model.Tracker()
	if tr.Calls() == 0 {
		return ""
	}
	in, out := tr.Total()
	return fmt.Sprintf("~%d tokens · $%.4f", in+out, tr.Cost())
}

func (e *engine) skillBundles() map[string]*capability.Set {
	return map[string]*capability.Set{
		"周边搜索": capability.NewSet(e.catalog.DistrictSearch(), e.catalog.AroundSearch(), e.catalog.PolygonSearch(), e.catalog.PlaceDetail()),
		"路线规划": capability.NewSet(e.catalog.DistrictSearch(), e.catalog.DrivingRoute(), e.catalog.WalkingRoute(), e.catalog.TransitRoute()),
		"位置解析": capability.NewSet(e.catalog.Geocode(), e.catalog.Regeocode()),
		"天气查询": capability.NewSet(e.catalog.Weather()),
		"距离计算": capability.NewSet(e.catalog.Distance()),
	}
}

func (e *engine) loadSkills() (*skills.Catalog, error) {
	dir := e.cfg.Skills.Dir
	if dir == "" {
		dir = config.DefaultSkillsDir()
	}
	if err := ensureDefaultSkills(dir); err != nil {
		return nil, err
	}
	return skills.LoadCatalog(dir)
}

var defaultSkills = map[string]string{
	"nearby.yaml": `name: 周边搜索
description: 查找某个城市或坐标附近的店铺、景点和设施
content: |
  先用 district_search 按城市和关键词定位目标区域，拿到坐标后用
  around_search 查找周边。结果按距离排序，回答时带上地址和评分。
`,
	"route.yaml": `name: 路线规划
description: 规划两地之间的驾车、步行或公交路线
content: |
  先用 district_search 确定起点和终点的准确坐标，再用 driving_route、
  walking_route 或 transit_route 规划。回答时给出距离、耗时和关键导航指引。
`,
	"locate.yaml": `name: 位置解析
description: 地址转坐标或坐标转地址
content: |
  地址转坐标用 geocode，地址越完整越准确；坐标转地址用 regeocode，
  传 经度,纬度 格式。
`,
	"weather.yaml": `name: 天气查询
description: 查询城市的实时天气或未来几天预报
content: |
  用 weather 查询，city 传 adcode 或城市名。出行建议要结合天气。
`,
	"distance.yaml": `name: 距离计算
description: 计算多个地点到同一目的地的直线距离
content: |
  用 calculate_distance，起点列表和终点都用 经度,纬度 格式。
`,
}

// ensureDefaultSkills seeds the skill directory on first run.
func ensureDefaultSkills(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create skills dir: %w", err)
	}
	for name, content := range defaultSkills {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			return fmt.Errorf("write default skill %s: %w", name, err)
		}
	}
	return nil
}
