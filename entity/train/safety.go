package train

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

const (
	SafeDistance = 500.0 // 固定安全余量（米）
	ReactionTime = 5.0   // 反应时间（秒）
	Deceleration = 1.0   // 制动减速度（米/秒²）
	MinSpeedKmh  = 20.0  // 最低运行速度（千米/小时）
)

// KmhToMps 千米/小时转米/秒
func KmhToMps(v float64) float64 {
	return v * 1000 / 3600
}

// MpsToKmh 米/秒转千米/小时
func MpsToKmh(v float64) float64 {
	return v * 3600 / 1000
}

// SafetyModel 安全间距模型
// 功能：由跟随车速度计算最小安全跟驰距离，并在间距不足时给出建议速度
// 说明：制动距离 v²/(2D) + 反应距离 v·R + 固定余量 S
type SafetyModel struct {
	Deceleration float64 // D 制动减速度（米/秒²）
	ReactionTime float64 // R 反应时间（秒）
	SafeDistance float64 // S 固定安全余量（米）
	MinSpeed     float64 // 最低运行速度（米/秒），纠正后的速度不会低于该值
}

// DefaultSafetyModel 默认安全间距模型
func DefaultSafetyModel() SafetyModel {
	return SafetyModel{
		Deceleration: Deceleration,
		ReactionTime: ReactionTime,
		SafeDistance: SafeDistance,
		MinSpeed:     KmhToMps(MinSpeedKmh),
	}
}

// Validate 检查模型参数
func (m SafetyModel) Validate() error {
	switch {
	case m.Deceleration <= 0:
		return fmt.Errorf("deceleration must be positive, got %v", m.Deceleration)
	case m.ReactionTime < 0:
		return fmt.Errorf("reaction time must not be negative, got %v", m.ReactionTime)
	case m.SafeDistance <= 0:
		return fmt.Errorf("safe distance must be positive, got %v", m.SafeDistance)
	case m.MinSpeed < 0:
		return fmt.Errorf("min speed must not be negative, got %v", m.MinSpeed)
	}
	return nil
}

// SafeGap 最小安全跟驰距离（米）
// 参数：v-跟随车速度（米/秒）
// 说明：纯函数，对v>=0单调递增
func (m SafetyModel) SafeGap(v float64) float64 {
	braking := v * v / (2 * m.Deceleration)
	reaction := v * m.ReactionTime
	return braking + reaction + m.SafeDistance
}

// RecommendSpeed 建议速度
// 功能：计算跟随车在当前间距下能恰好在安全余量边界处刹停的速度
// 参数：gap-与前车的间距（米）
// 返回：建议速度（米/秒），不低于MinSpeed
// 算法说明：
// 1. 去掉固定余量后的可用距离 gapDiff = gap - S
// 2. gapDiff > 0 时 v = sqrt(2·D·gapDiff)，否则取MinSpeed
// 3. 结果下限钳制为MinSpeed
func (m SafetyModel) RecommendSpeed(gap float64) float64 {
	gapDiff := gap - m.SafeDistance
	recommended := m.MinSpeed
	if gapDiff > 0 {
		recommended = math.Sqrt(2 * m.Deceleration * gapDiff)
	}
	return lo.Max([]float64{m.MinSpeed, recommended})
}
