// 随机数引擎，包装了golang.org/x/exp/rand，提供了一些常用的随机数生成方法
package randengine

import (
	"sync"

	"golang.org/x/exp/rand"
)

// Engine 随机数引擎
// 功能：提供可复现的随机数生成功能，同一种子产生完全相同的序列
// 说明：基于golang.org/x/exp/rand库，作为显式句柄传递，不使用全局随机状态
type Engine struct {
	*rand.Rand            // 底层随机数生成器
	mtx        sync.Mutex // 互斥锁，用于线程安全操作
	seed       uint64     // 初始种子
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed)), seed: seed}
}

// Seed 返回创建引擎时使用的种子
func (e *Engine) Seed() uint64 {
	return e.seed
}

// Uniform 在[a, b)范围内均匀采样（非线程安全）
// 功能：生成a + (b-a)*U[0,1)
func (e *Engine) Uniform(a, b float64) float64 {
	return a + (b-a)*e.Float64()
}

// Uint64Safe 随机生成uint64（线程安全）
// 功能：服务端共享一个根引擎，每次请求从中派生新种子，保证请求之间互不干扰且结果可复现
func (e *Engine) Uint64Safe() uint64 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Uint64()
}
