package task

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/corridor-sim/entity/train"
	"github.com/tsinghua-fib-lab/corridor-sim/utils/randengine"
)

// RunPassive 无AI模式：只检测并记录不安全间距
func RunPassive(opts Options, trains []*train.Train) *Result {
	return NewContext(Passive, opts, trains).Run()
}

// RunPredictive AI预测模式：与RunPassive语义相同，结果单独标注
func RunPredictive(opts Options, trains []*train.Train) *Result {
	return NewContext(Predictive, opts, trains).Run()
}

// RunPreventive AI预防模式：检测并纠正跟随车速度，结果包含原始动作日志与摘要
func RunPreventive(opts Options, trains []*train.Train) *Result {
	return NewContext(Preventive, opts, trains).Run()
}

// TrainSnapshot 列车初始状态
type TrainSnapshot struct {
	ID       int32   `json:"id"`
	Position float64 `json:"position"`
	Speed    float64 `json:"speed"`
}

// Report 同一初始舰队在三种模式下的运行结果
type Report struct {
	RunID      string          `json:"run_id"`
	Seed       *uint64         `json:"seed,omitempty"` // 随机生成舰队时的种子
	Initial    []TrainSnapshot `json:"initial_trains"`
	Passive    *Result         `json:"passive"`
	Predictive *Result         `json:"predictive"`
	Preventive *Result         `json:"preventive"`
}

// RunAll 以同一初始舰队并行运行三种模式
// 功能：每种模式各自克隆一份舰队，三个运行之间没有共享的可变状态
func RunAll(opts Options, trains []*train.Train) *Report {
	r := &Report{
		RunID: uuid.NewString(),
		Initial: lo.Map(trains, func(t *train.Train, _ int) TrainSnapshot {
			return TrainSnapshot{ID: t.ID, Position: t.Position, Speed: t.Speed}
		}),
	}
	var wg sync.WaitGroup
	for _, run := range []struct {
		f   func(Options, []*train.Train) *Result
		out **Result
	}{
		{RunPassive, &r.Passive},
		{RunPredictive, &r.Predictive},
		{RunPreventive, &r.Preventive},
	} {
		fleet := train.CloneFleet(trains)
		wg.Add(1)
		go func() {
			defer wg.Done()
			*run.out = run.f(opts, fleet)
		}()
	}
	wg.Wait()
	log.Infof("run %s complete with %d trains", r.RunID, len(trains))
	return r
}

// Simulate 生成随机舰队并运行三种模式
// 说明：随机数引擎只在生成舰队时消费一次，之后三种模式使用舰队的克隆
func Simulate(opts Options, e *randengine.Engine, n int) *Report {
	r := RunAll(opts, train.GenerateFleet(e, n))
	seed := e.Seed()
	r.Seed = &seed
	return r
}

// Digest 报告的文字摘要
func (r *Report) Digest() []string {
	lines := []string{
		fmt.Sprintf("run %s: %d trains, %d steps", r.RunID, len(r.Initial), r.Passive.Steps),
		fmt.Sprintf("[%s] %d unsafe gaps", r.Passive.Mode, len(r.Passive.Events)),
		fmt.Sprintf("[%s] %d predicted unsafe gaps", r.Predictive.Mode, len(r.Predictive.Events)),
		fmt.Sprintf(
			"[%s] %d actions, %d corrections",
			r.Preventive.Mode, len(r.Preventive.Actions),
			lo.CountBy(r.Preventive.Actions, func(a ActionRecord) bool { return a.IsCorrection() }),
		),
	}
	for _, a := range r.Preventive.Summary {
		lines = append(lines, "  "+FormatAction(a))
	}
	return lines
}
