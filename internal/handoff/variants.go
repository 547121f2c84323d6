package handoff

import (
	"github.com/dhr613/Location-QA-Assistant/internal/capability"
	"github.com/dhr613/Location-QA-Assistant/internal/progress"
	"github.com/dhr613/Location-QA-Assistant/internal/worker"
)

// Variant A stages: linear geocode entry, then routing and nearby search
// jumping between each other and back.
const (
	StageGeocode Stage = "geocode"
	StageRoute   Stage = "route"
	StageNearby  Stage = "nearby_search"
)

// Variant B stages: a main coordinator delegating to workers wrapped as
// capabilities.
const (
	StageMain         Stage = "main"
	StageNearbyWorker Stage = "nearby_worker"
	StageRouteWorker  Stage = "route_worker"
)

// Variant C sibling nodes.
const (
	NodeAround Stage = "around_node"
	NodePath   Stage = "path_node"
)

const geocodeInstruction = `你是出行助手，当前在地址解析阶段。先用 geocode 把用户提到的地点解析成坐标，成功后调用 proceed_to_route 进入路线规划阶段。
当前位置: {position}`

const routeStageInstruction = `你是出行助手，当前在路线规划阶段。用 driving_route 或 walking_route 规划路线。
如果需要重新解析地址，调用 back_to_geocode；如果用户还想了解目的地周边，调用 go_to_nearby。
当前位置: {position}`

const nearbyStageInstruction = `你是出行助手，当前在周边搜索阶段。以当前位置为中心用 around_search 查找周边地点。
需要重新规划路线时调用 back_to_route，需要重新解析地址时调用 back_to_geocode。
当前位置: {position}`

// NewStepsController builds the stage-jump controller: geocode, route, and
// nearby search with explicit back-jump capabilities. maxTurns bounds one
// Run call; zero keeps the controller default.
func NewStepsController(model Completer, caps *worker.Catalog, maxTurns int, emit func(progress.NodeEvent)) (*Controller, error) {
	return NewController(model, ControllerConfig{
		Entry:    StageGeocode,
		MaxTurns: maxTurns,
		Emit:     emit,
		Stages: map[Stage]StageConfig{
			StageGeocode: {
				Instruction: geocodeInstruction,
				Capabilities: capability.NewSet(
					caps.Geocode(),
					Transition("proceed_to_route", "地址解析完成后进入路线规划阶段", StageRoute),
				),
				Targets: []Stage{StageRoute},
			},
			StageRoute: {
				Instruction: routeStageInstruction,
				Capabilities: capability.NewSet(
					caps.DrivingRoute(),
					caps.WalkingRoute(),
					Transition("back_to_geocode", "回到地址解析阶段重新确定坐标", StageGeocode),
					Transition("go_to_nearby", "进入周边搜索阶段查找目的地附近的地点", StageNearby),
				),
				Targets: []Stage{StageGeocode, StageNearby},
			},
			StageNearby: {
				Instruction: nearbyStageInstruction,
				Capabilities: capability.NewSet(
					caps.AroundSearch(),
					Transition("back_to_route", "回到路线规划阶段", StageRoute),
					Transition("back_to_geocode", "回到地址解析阶段重新确定坐标", StageGeocode),
				),
				Targets: []Stage{StageRoute, StageGeocode},
			},
		},
	})
}

const mainStageInstruction = `你是出行助手总调度。根据用户的问题把子任务交给合适的助手：
查找地点用 jump_to_nearby，规划路线用 jump_to_route。助手返回结果后，整合信息回答用户。`

const nearbyWorkerInstruction = `你是出行助手，当前由周边搜索助手负责。可以继续用 jump_to_nearby 补充查询，或用 jump_to_route 转去规划路线，完成后用 back_to_main 交回总调度。`

const routeWorkerInstruction = `你是出行助手，当前由路线规划助手负责。可以继续用 jump_to_route 补充规划，或用 jump_to_nearby 转去查找地点，完成后用 back_to_main 交回总调度。`

// NewDelegateController builds the worker-delegation controller: each jump
// capability both runs a whole worker sub-conversation and switches the
// stage, so the next turn's capability set follows the delegation.
func NewDelegateController(model Completer, caps *worker.Catalog, maxTurns int, emit func(progress.NodeEvent)) (*Controller, error) {
	jumpNearby := worker.AsCapability("jump_to_nearby",
		"把地点查询子任务交给周边搜索助手处理，返回其汇总结果",
		string(StageNearbyWorker), worker.NewPlaceWorker(model, caps))
	jumpRoute := worker.AsCapability("jump_to_route",
		"把路线规划子任务交给路线助手处理，返回其汇总结果",
		string(StageRouteWorker), worker.NewRouteWorker(model, caps))
	backToMain := Transition("back_to_main", "子任务完成，交回总调度", StageMain)

	return NewController(model, ControllerConfig{
		Entry:    StageMain,
		MaxTurns: maxTurns,
		Emit:     emit,
		Stages: map[Stage]StageConfig{
			StageMain: {
				Instruction:  mainStageInstruction,
				Capabilities: capability.NewSet(jumpNearby, jumpRoute),
				Targets:      []Stage{StageNearbyWorker, StageRouteWorker},
			},
			StageNearbyWorker: {
				Instruction:  nearbyWorkerInstruction,
				Capabilities: capability.NewSet(jumpNearby, jumpRoute, backToMain),
				Targets:      []Stage{StageNearbyWorker, StageRouteWorker, StageMain},
			},
			StageRouteWorker: {
				Instruction:  routeWorkerInstruction,
				Capabilities: capability.NewSet(jumpRoute, jumpNearby, backToMain),
				Targets:      []Stage{StageRouteWorker, StageNearbyWorker, StageMain},
			},
		},
	})
}

const aroundNodeInstruction = `你是周边查询节点。用 district_search 和 around_search 查找用户需要的地点信息。
当问题涉及路线规划时，调用 transfer_to_path 把任务整体转交给路线节点。查询完成后直接给出回答。
当前位置: {position}`

const pathNodeInstruction = `你是路线规划节点。用 district_search 确定起终点坐标，再用 driving_route 或 walking_route 规划路线。
当问题还需要查找地点信息时，调用 transfer_to_around 把任务整体转交给周边查询节点。规划完成后直接给出回答。
当前位置: {position}`

// NewTravelGraph builds the sibling-node graph: an around-search node and a
// path-planning node that transfer whole-task control to each other.
func NewTravelGraph(model Completer, caps *worker.Catalog, maxPasses int, emit func(progress.NodeEvent)) (*Graph, error) {
	return NewGraph(model, GraphConfig{
		Entry:     NodeAround,
		MaxPasses: maxPasses,
		Emit:      emit,
		Nodes: []GraphNode{
			{
				Name: NodeAround,
				StageConfig: StageConfig{
					Instruction: aroundNodeInstruction,
					Capabilities: capability.NewSet(
						caps.DistrictSearch(),
						caps.AroundSearch(),
						Transfer("transfer_to_path", "把任务整体转交给路线规划节点", NodePath),
					),
					Targets: []Stage{NodePath},
				},
			},
			{
				Name: NodePath,
				StageConfig: StageConfig{
					Instruction: pathNodeInstruction,
					Capabilities: capability.NewSet(
						caps.DistrictSearch(),
						caps.DrivingRoute(),
						caps.WalkingRoute(),
						Transfer("transfer_to_around", "把任务整体转交给周边查询节点", NodeAround),
					),
					Targets: []Stage{NodeAround},
				},
			},
		},
	})
}
