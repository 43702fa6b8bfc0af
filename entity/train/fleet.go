package train

import (
	"strconv"
	"strings"

	"github.com/tsinghua-fib-lab/corridor-sim/utils/randengine"
)

const (
	DefaultFleetSize = 5 // 外部输入非法时使用的列车数量

	corridorLength = 5000. // 初始位置采样上界（米）
	minInitKmh     = 20.   // 初始速度采样下界（千米/小时）
	maxInitKmh     = 120.  // 初始速度采样上界（千米/小时）
)

// ParseFleetSize 解析外部传入的列车数量
// 功能：空值或非数字时回退到DefaultFleetSize，不向调用方返回解析错误
func ParseFleetSize(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		log.Warnf("invalid fleet size %q, fall back to %d", s, DefaultFleetSize)
		return DefaultFleetSize
	}
	return n
}

// GenerateFleet 随机生成舰队
// 功能：生成编号为1..n的列车，位置在[0, 5000)米内均匀分布，速度在[20, 120)千米/小时内均匀分布
// 参数：e-随机数引擎，n-列车数量
// 返回：列车列表
// 算法说明：
// 1. n为0时返回空舰队，n为负数时回退到DefaultFleetSize
// 2. 按编号顺序依次采样位置、速度，保证同一种子得到完全相同的舰队
func GenerateFleet(e *randengine.Engine, n int) []*Train {
	if n < 0 {
		log.Warnf("negative fleet size %d, fall back to %d", n, DefaultFleetSize)
		n = DefaultFleetSize
	}
	trains := make([]*Train, 0, n)
	for i := range n {
		position := e.Uniform(0, corridorLength)
		speed := KmhToMps(e.Uniform(minInitKmh, maxInitKmh))
		trains = append(trains, New(int32(i+1), position, speed))
	}
	log.Debugf("generated %d trains with seed %d", n, e.Seed())
	return trains
}
