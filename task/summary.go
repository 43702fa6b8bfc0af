package task

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/corridor-sim/entity/train"
)

// Summarize 动作摘要
// 功能：把原始动作日志压缩为每列车至多三条的代表性记录，用于展示
// 算法说明：
// 1. 只保留真正修改了速度的记录（剔除前车的不变记录）
// 2. 按列车ID分组，组顺序为首次出现的顺序，组内保持时间顺序
// 3. 组大小为1时输出该记录，否则输出第一条、下标k/2的一条和最后一条
// 说明：有损投影，不能作为任何需要完整数据的计算的来源
func Summarize(actions []ActionRecord) []ActionRecord {
	corrections := lo.Filter(actions, func(a ActionRecord, _ int) bool {
		return a.IsCorrection()
	})
	groups := lo.GroupBy(corrections, func(a ActionRecord) int32 {
		return a.TrainID
	})
	order := lo.Uniq(lo.Map(corrections, func(a ActionRecord, _ int) int32 {
		return a.TrainID
	}))
	summary := make([]ActionRecord, 0, 3*len(order))
	for _, id := range order {
		g := groups[id]
		if len(g) == 1 {
			summary = append(summary, g[0])
			continue
		}
		summary = append(summary, g[0], g[len(g)/2], g[len(g)-1])
	}
	return summary
}

// FormatAction 动作的可读标签
func FormatAction(a ActionRecord) string {
	return fmt.Sprintf(
		"T%d: %.1f→%.1f km/h @ %.0f m (t=%d)",
		a.TrainID, train.MpsToKmh(a.OldSpeed), train.MpsToKmh(a.NewSpeed), a.Position, a.Step,
	)
}
