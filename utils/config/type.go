package config

// InputPath 指定输入数据来源的配置（MongoDB、文件系统）
// 功能：定义数据输入路径的配置结构，支持多种数据源
// 说明：File优先级高于MongoDB
type InputPath struct {
	DB   string `yaml:"db"`             // 数据库名
	Col  string `yaml:"col"`            // 集合名
	File string `yaml:"file,omitempty"` // 文件路径（优先级高于MongoDB）
}

// GetDb 获取数据库名
func (p InputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p InputPath) GetColl() string {
	return p.Col
}

// Input 指定模拟器所有输入数据的配置项
// 说明：Fleet为空时由随机舰队生成器产生初始列车
type Input struct {
	URI   string     `yaml:"uri"`             // MongoDB连接字符串
	Fleet *InputPath `yaml:"fleet,omitempty"` // 预定义舰队
}

// ControlStep 指定模拟器模拟步数和间隔的配置项
type ControlStep struct {
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔（秒）
}

// ControlFleet 随机舰队生成配置
type ControlFleet struct {
	Size int     `yaml:"size"`           // 列车数量
	Seed *uint64 `yaml:"seed,omitempty"` // 随机种子，未指定时使用默认种子
}

// ControlSafety 安全间距模型参数
// 说明：为0的字段取默认值
type ControlSafety struct {
	Deceleration float64 `yaml:"deceleration,omitempty"`  // 减速度（米/秒²）
	ReactionTime float64 `yaml:"reaction_time,omitempty"` // 反应时间（秒）
	SafeDistance float64 `yaml:"safe_distance,omitempty"` // 固定安全余量（米）
	MinSpeedKmh  float64 `yaml:"min_speed_kmh,omitempty"` // 最低运行速度（千米/小时）
}

// Control 模拟器控制配置
type Control struct {
	Step   ControlStep   `yaml:"step"`
	Fleet  ControlFleet  `yaml:"fleet"`
	Safety ControlSafety `yaml:"safety,omitempty"`
}

// Output 输出配置
type Output struct {
	SQLite string `yaml:"sqlite,omitempty"` // SQLite文件路径，为空则不落库
}

// Server 服务配置
type Server struct {
	Listen         string   `yaml:"listen,omitempty"`          // 监听地址，为空则单次运行后退出
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"` // CORS允许的来源
}

// Config YAML配置文件的根结构
type Config struct {
	Input   Input   `yaml:"input"`            // 输入
	Control Control `yaml:"control"`          // 模拟过程控制
	Output  Output  `yaml:"output,omitempty"` // 输出
	Server  Server  `yaml:"server,omitempty"` // 服务
}
