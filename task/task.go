package task

import (
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/corridor-sim/clock"
	"github.com/tsinghua-fib-lab/corridor-sim/entity"
	"github.com/tsinghua-fib-lab/corridor-sim/entity/train"
	"github.com/tsinghua-fib-lab/corridor-sim/utils/config"
)

var log = logrus.WithField("module", "task")

// Context 仿真任务上下文
// 功能：包含一次运行的所有变量和状态，三种模式各自持有一个Context，互不共享
type Context struct {
	mode Mode

	// 时钟
	clock *clock.Clock
	// 安全间距模型
	safety train.SafetyModel
	// 舰队管理器
	trainManager entity.ITrainManager

	// 输出
	events  []SafetyEvent
	actions []ActionRecord
}

// NewContext 创建新的仿真任务上下文
// 功能：克隆输入舰队并初始化时钟
// 参数：mode-运行模式，opts-运行参数，trains-初始舰队（不会被修改）
func NewContext(mode Mode, opts Options, trains []*train.Train) *Context {
	c := clock.New(config.ControlStep{
		Total:    opts.Steps,
		Interval: opts.Interval,
	})
	return &Context{
		mode:         mode,
		clock:        c,
		safety:       opts.Safety,
		trainManager: train.NewManager(trains, opts.Steps),
	}
}

// Run 运行到结束步并返回结果
func (ctx *Context) Run() *Result {
	ctx.clock.Init()
	for !ctx.clock.Done() {
		ctx.prepare()
		ctx.inspect()
		ctx.update()
	}
	res := &Result{
		Mode:         ctx.mode,
		Steps:        ctx.clock.END_STEP,
		History:      ctx.trainManager.History(),
		SpeedHistory: ctx.trainManager.SpeedHistory(),
		Events:       ctx.events,
		Actions:      ctx.actions,
	}
	if ctx.mode == Preventive {
		res.Summary = Summarize(ctx.actions)
	}
	log.Infof(
		"[%s] complete: trains=%d steps=%d events=%d actions=%d",
		ctx.mode, len(res.History), res.Steps, len(res.Events), len(res.Actions),
	)
	return res
}
