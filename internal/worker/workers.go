package worker

import (
	"github.com/dhr613/Location-QA-Assistant/internal/capability"
)

const placeInstruction = `你是地点查询助手。根据用户的问题，使用地点搜索能力查找相关的店铺、景点或设施。
优先使用 district_search 按城市和关键词搜索；当已经有明确坐标时改用 around_search 查找周边。
回答时列出地点名称、地址、评分、人均消费等对用户有用的信息，不要编造搜索结果之外的内容。`

const routeInstruction = `你是路线规划助手。用户会描述起点和终点，你需要先用 district_search 查到两个地点的准确坐标，再用 driving_route 规划驾车路线。
回答时给出总距离、预计耗时和关键的导航指引。如果某个地点查不到，换用更完整的名称重试。`

const travelGuideInstruction = `你是旅行向导。面对包含多个地点或多个步骤的行程问题，先调用 guiding_deepthink 写下完整的规划思路，再按思路逐步使用搜索能力查询。
综合所有查询结果后给出一份连贯的行程建议，标注每一步的地点信息。`

// NewPlaceWorker builds the place-lookup worker: district and around search
// only.
func NewPlaceWorker(model Completer, caps *Catalog) *Runner {
	return NewRunner(model, Config{
		Name:        "place_worker",
		Instruction: placeInstruction,
		Capabilities: capability.NewSet(
			caps.DistrictSearch(),
			caps.AroundSearch(),
		),
	})
}

// NewRouteWorker builds the route-planning worker: district search to resolve
// endpoints, driving route to connect them.
func NewRouteWorker(model Completer, caps *Catalog) *Runner {
	return NewRunner(model, Config{
		Name:        "route_worker",
		Instruction: routeInstruction,
		Capabilities: capability.NewSet(
			caps.DistrictSearch(),
			caps.DrivingRoute(),
		),
	})
}

// NewTravelGuideWorker builds the multi-step itinerary worker. It plans out
// loud with guiding_deepthink before querying, and self-corrects on lookup
// failures instead of aborting.
func NewTravelGuideWorker(model Completer, caps *Catalog) *Runner {
	return NewRunner(model, Config{
		Name:        "travel_guide_worker",
		Instruction: travelGuideInstruction,
		Capabilities: capability.NewSet(
			GuidingDeepthink(),
			caps.DistrictSearch(),
			caps.AroundSearch(),
		),
		MaxTurns:    12,
		SelfCorrect: true,
	})
}
