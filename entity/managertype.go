package entity

import "github.com/tsinghua-fib-lab/corridor-sim/entity/train"

// Manager依赖倒置

// entity/train/manager.go的依赖倒置
type ITrainManager interface {
	// 当前顺序下的列车列表
	Trains() []*train.Train
	// 依次访问相邻的(跟随车, 前车)对
	ForEachPair(f func(follower, lead *train.Train))

	Prepare()          // 准备阶段：记录历史并按位置排序
	Update(dt float64) // 更新阶段：推进位置

	History() map[int32][]float64      // 位置历史
	SpeedHistory() map[int32][]float64 // 速度历史
}
