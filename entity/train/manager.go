package train

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

// Manager 舰队管理器
// 功能：持有一次运行中的全部列车，负责历史记录、按位置排序与位置推进
// 说明：创建时克隆输入舰队，调用方的列车对象不会被修改
type Manager struct {
	trains []*Train // 当前顺序（每步Prepare后按位置升序）

	history      map[int32][]float64 // 列车ID -> 每步位置
	speedHistory map[int32][]float64 // 列车ID -> 每步速度
}

// NewManager 创建舰队管理器
// 参数：trains-初始舰队，steps-预计步数（用于预分配历史记录）
func NewManager(trains []*Train, steps int32) *Manager {
	steps = max(steps, 0)
	m := &Manager{
		trains:       CloneFleet(trains),
		history:      make(map[int32][]float64, len(trains)),
		speedHistory: make(map[int32][]float64, len(trains)),
	}
	for _, t := range m.trains {
		if _, ok := m.history[t.ID]; ok {
			log.Panicf("duplicated train id %d", t.ID)
		}
		m.history[t.ID] = make([]float64, 0, steps)
		m.speedHistory[t.ID] = make([]float64, 0, steps)
	}
	return m
}

// Trains 当前顺序下的列车列表
func (m *Manager) Trains() []*Train {
	return m.trains
}

// Get 根据ID获取列车，不存在时返回nil
func (m *Manager) Get(id int32) *Train {
	t, _ := lo.Find(m.trains, func(t *Train) bool { return t.ID == id })
	return t
}

// Prepare 准备阶段
// 功能：先记录本步所有列车的位置与速度，再按位置升序稳定排序
// 说明：位置相同的列车保持上一步的相对顺序
func (m *Manager) Prepare() {
	for _, t := range m.trains {
		m.history[t.ID] = append(m.history[t.ID], t.Position)
		m.speedHistory[t.ID] = append(m.speedHistory[t.ID], t.Speed)
	}
	slices.SortStableFunc(m.trains, func(a, b *Train) int {
		return cmp.Compare(a.Position, b.Position)
	})
}

// ForEachPair 依次访问相邻的(跟随车, 前车)对
func (m *Manager) ForEachPair(f func(follower, lead *Train)) {
	for i := 0; i+1 < len(m.trains); i++ {
		f(m.trains[i], m.trains[i+1])
	}
}

// Update 更新阶段：按当前速度推进位置
func (m *Manager) Update(dt float64) {
	for _, t := range m.trains {
		t.Position += t.Speed * dt
	}
}

// History 位置历史
func (m *Manager) History() map[int32][]float64 {
	return m.history
}

// SpeedHistory 速度历史
func (m *Manager) SpeedHistory() map[int32][]float64 {
	return m.speedHistory
}
