package config

import (
	"github.com/pkg/errors"
	"github.com/tsinghua-fib-lab/corridor-sim/entity/train"
	"gopkg.in/yaml.v2"
)

const (
	DefaultTotalSteps = 50 // 默认总步数
	DefaultInterval   = 1. // 默认步长（秒）
	DefaultSeed       = 42 // 默认随机种子
)

// Parse 解析YAML配置
// 功能：严格模式解析，未知字段视为错误；空输入返回全默认配置
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, errors.Wrap(err, "config: invalid yaml")
	}
	return c, nil
}

// RuntimeConfig 运行时配置
// 功能：存储补全默认值、校验后的配置信息
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置

	Safety train.SafetyModel // 安全间距模型
	Seed   uint64            // 实际使用的随机种子
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，补全默认值并进行配置验证
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针，配置非法时返回错误
// 算法说明：
// 1. 步数、步长缺省时使用默认值，负值视为错误
// 2. 列车数量缺省时使用train.DefaultFleetSize
// 3. 安全模型参数逐项覆盖默认模型后统一校验
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	rc := &RuntimeConfig{}

	c := config.Control
	if c.Step.Total == 0 {
		c.Step.Total = DefaultTotalSteps
	}
	if c.Step.Total < 0 {
		return nil, errors.Errorf("config: control.step.total must be positive, got %d", c.Step.Total)
	}
	if c.Step.Interval == 0 {
		c.Step.Interval = DefaultInterval
	}
	if c.Step.Interval < 0 {
		return nil, errors.Errorf("config: control.step.interval must be positive, got %v", c.Step.Interval)
	}
	if c.Fleet.Size <= 0 {
		c.Fleet.Size = train.DefaultFleetSize
	}
	rc.Seed = DefaultSeed
	if c.Fleet.Seed != nil {
		rc.Seed = *c.Fleet.Seed
	}

	rc.Safety = train.DefaultSafetyModel()
	if v := c.Safety.Deceleration; v != 0 {
		rc.Safety.Deceleration = v
	}
	if v := c.Safety.ReactionTime; v != 0 {
		rc.Safety.ReactionTime = v
	}
	if v := c.Safety.SafeDistance; v != 0 {
		rc.Safety.SafeDistance = v
	}
	if v := c.Safety.MinSpeedKmh; v != 0 {
		rc.Safety.MinSpeed = train.KmhToMps(v)
	}
	if err := rc.Safety.Validate(); err != nil {
		return nil, errors.Wrap(err, "config: control.safety")
	}

	if config.Input.Fleet != nil && config.Input.Fleet.File == "" && config.Input.URI == "" {
		return nil, errors.New("config: input.fleet needs either file or input.uri")
	}

	rc.All = config
	rc.All.Control = c
	rc.C = c
	return rc, nil
}
