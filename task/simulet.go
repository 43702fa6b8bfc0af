package task

import (
	"flag"

	"github.com/tsinghua-fib-lab/corridor-sim/entity/train"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 10, "心跳日志间隔步数")
)

// prepare 准备阶段，每步执行一次
// 算法说明：
// 1. 心跳日志
// 2. 记录所有列车本步位置，然后按位置升序稳定排序
func (ctx *Context) prepare() {
	if *heartBeatInterval > 0 && ctx.clock.InternalStep%int32(*heartBeatInterval) == 0 {
		log.Debugf("[%s] STEP: %d(%s)", ctx.mode, ctx.clock.InternalStep, ctx.clock)
	}
	ctx.trainManager.Prepare()
}

// inspect 检查阶段
// 功能：逐个检查相邻车对，间距小于跟随车安全距离时记录事件（监测模式）或交给速度建议（预防模式）
func (ctx *Context) inspect() {
	step := ctx.clock.InternalStep
	ctx.trainManager.ForEachPair(func(follower, lead *train.Train) {
		gap := lead.Position - follower.Position
		safeGap := ctx.safety.SafeGap(follower.Speed)
		if gap >= safeGap {
			return
		}
		if ctx.mode == Preventive {
			ctx.advise(step, follower, lead, gap)
			return
		}
		ctx.events = append(ctx.events, SafetyEvent{
			Step:             step,
			FollowerPosition: follower.Position,
			FollowerID:       follower.ID,
			LeadID:           lead.ID,
			Gap:              gap,
			SafeGap:          safeGap,
		})
	})
}

// advise 速度建议
// 功能：为不安全车对中的跟随车计算纠正速度，仅在降速时生效
// 算法说明：
// 1. 建议速度见SafetyModel.RecommendSpeed，不低于最低运行速度
// 2. 建议速度严格小于当前速度时修改跟随车速度并记录
// 3. 无论是否修改，总是为前车追加一条速度不变的记录
func (ctx *Context) advise(step int32, follower, lead *train.Train, gap float64) {
	recommended := ctx.safety.RecommendSpeed(gap)
	if recommended < follower.Speed {
		ctx.actions = append(ctx.actions, ActionRecord{
			Step:     step,
			TrainID:  follower.ID,
			OldSpeed: follower.Speed,
			NewSpeed: recommended,
			Position: follower.Position,
		})
		log.Tracef("[%s] step %d: train %d %.2f -> %.2f m/s", ctx.mode, step, follower.ID, follower.Speed, recommended)
		follower.Speed = recommended
	}
	ctx.actions = append(ctx.actions, ActionRecord{
		Step:     step,
		TrainID:  lead.ID,
		OldSpeed: lead.Speed,
		NewSpeed: lead.Speed,
		Position: lead.Position,
	})
}

// update 更新阶段：推进位置，时钟前进一步
func (ctx *Context) update() {
	ctx.trainManager.Update(ctx.clock.DT)
	ctx.clock.Tick()
}
