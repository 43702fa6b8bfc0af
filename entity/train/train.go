package train

import (
	"fmt"

	"github.com/samber/lo"
)

// Train 列车实体
// 功能：记录单列列车的编号、位置、当前速度与初始速度
// 说明：一列Train只属于一次仿真运行，不同运行之间必须使用Clone得到的独立副本
type Train struct {
	ID       int32   // 列车编号，同一次运行中唯一
	Position float64 // 位置（米）
	Speed    float64 // 当前速度（米/秒）

	originalSpeed float64 // 创建时的速度，之后不再修改
}

// New 创建列车
// 功能：以给定速度同时作为当前速度与初始速度创建列车
func New(id int32, position, speed float64) *Train {
	return &Train{
		ID:            id,
		Position:      position,
		Speed:         speed,
		originalSpeed: speed,
	}
}

// OriginalSpeed 创建时的速度（米/秒）
func (t *Train) OriginalSpeed() float64 {
	return t.originalSpeed
}

// Clone 值拷贝出一个不共享任何可变状态的副本
func (t *Train) Clone() *Train {
	c := *t
	return &c
}

func (t *Train) String() string {
	return fmt.Sprintf("Train{ID:%d, Position:%.2f, Speed:%.2f}", t.ID, t.Position, t.Speed)
}

// CloneFleet 克隆整个舰队
// 说明：三种运行模式各自持有一份副本，任何一方的原地修改都不会影响其他模式
func CloneFleet(trains []*Train) []*Train {
	return lo.Map(trains, func(t *Train, _ int) *Train {
		return t.Clone()
	})
}
