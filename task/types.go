package task

import (
	"github.com/tsinghua-fib-lab/corridor-sim/entity/train"
	"github.com/tsinghua-fib-lab/corridor-sim/utils/config"
)

// Mode 运行模式
type Mode string

const (
	Passive    Mode = "passive"    // 无AI：只记录不安全间距
	Predictive Mode = "predictive" // AI预测：与Passive相同的检查，单独标注
	Preventive Mode = "preventive" // AI预防：对不安全的跟随车施加纠正速度
)

// Options 一次运行的参数
type Options struct {
	Steps    int32             // 总步数 MAX_STEPS
	Interval float64           // 步长 TIME_STEP（秒）
	Safety   train.SafetyModel // 安全间距模型
}

// DefaultOptions 默认运行参数：50步，步长1秒，默认安全模型
func DefaultOptions() Options {
	return Options{
		Steps:    config.DefaultTotalSteps,
		Interval: config.DefaultInterval,
		Safety:   train.DefaultSafetyModel(),
	}
}

// OptionsFromConfig 从运行时配置构造运行参数
func OptionsFromConfig(rc *config.RuntimeConfig) Options {
	return Options{
		Steps:    rc.C.Step.Total,
		Interval: rc.C.Step.Interval,
		Safety:   rc.Safety,
	}
}

// SafetyEvent 不安全间距事件
type SafetyEvent struct {
	Step             int32   `json:"step"`
	FollowerPosition float64 `json:"follower_position"`
	FollowerID       int32   `json:"follower_id"`
	LeadID           int32   `json:"lead_id"`
	Gap              float64 `json:"gap"`
	SafeGap          float64 `json:"safe_gap"`
}

// ActionRecord 预防模式下的一次决策记录
// 说明：前车的记录OldSpeed == NewSpeed，仅表示参与了该不安全车对
type ActionRecord struct {
	Step     int32   `json:"step"`
	TrainID  int32   `json:"train_id"`
	OldSpeed float64 `json:"old_speed"`
	NewSpeed float64 `json:"new_speed"`
	Position float64 `json:"position"`
}

// IsCorrection 是否真正修改了速度
func (a ActionRecord) IsCorrection() bool {
	return a.OldSpeed != a.NewSpeed
}

// Result 一次运行的输出
// 说明：调用方只读使用
type Result struct {
	Mode         Mode                `json:"mode"`
	Steps        int32               `json:"steps"`
	History      map[int32][]float64 `json:"history"`
	SpeedHistory map[int32][]float64 `json:"speed_history"`
	Events       []SafetyEvent       `json:"events,omitempty"`
	Actions      []ActionRecord      `json:"actions,omitempty"`
	Summary      []ActionRecord      `json:"summary,omitempty"`
}
