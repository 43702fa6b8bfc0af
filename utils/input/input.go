package input

import (
	"context"
	"math"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/corridor-sim/entity/train"
	"github.com/tsinghua-fib-lab/corridor-sim/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v2"
)

var log = logrus.WithField("module", "input")

// trainRecord 预定义列车的存储格式，速度单位为米/秒
type trainRecord struct {
	ID       int32   `yaml:"id" bson:"id"`
	Position float64 `yaml:"position" bson:"position"`
	Speed    float64 `yaml:"speed" bson:"speed"`
}

// fleetFile 舰队文件格式
type fleetFile struct {
	Trains []trainRecord `yaml:"trains"`
}

// LoadFleet 加载预定义舰队
// 功能：根据配置从文件或MongoDB加载初始舰队
// 参数：ctx-上下文，in-输入配置
// 返回：按存储顺序排列的列车列表
// 算法说明：
// 1. 配置了文件路径时从YAML文件加载（优先级高于MongoDB）
// 2. 否则连接input.uri，读取{db}.{col}中的全部文档，按id升序
// 3. 校验：id不可重复，位置与速度必须是有限值，速度不可为负
func LoadFleet(ctx context.Context, in config.Input) ([]*train.Train, error) {
	if in.Fleet == nil {
		return nil, errors.New("input: no fleet configured")
	}
	var (
		records []trainRecord
		err     error
	)
	if in.Fleet.File != "" {
		records, err = loadFile(in.Fleet.File)
	} else {
		records, err = loadMongo(ctx, in.URI, *in.Fleet)
	}
	if err != nil {
		return nil, err
	}
	if err := validate(records); err != nil {
		return nil, err
	}
	trains := make([]*train.Train, 0, len(records))
	for _, r := range records {
		trains = append(trains, train.New(r.ID, r.Position, r.Speed))
	}
	log.Infof("loaded %d trains", len(trains))
	return trains, nil
}

func loadFile(path string) ([]trainRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "input: read fleet file %s", path)
	}
	var f fleetFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, errors.Wrapf(err, "input: parse fleet file %s", path)
	}
	return f.Trains, nil
}

func loadMongo(ctx context.Context, uri string, path config.InputPath) ([]trainRecord, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "input: connect mongo")
	}
	defer client.Disconnect(context.Background())

	log.Infof("start fetching from %s.%s", path.GetDb(), path.GetColl())
	coll := client.Database(path.GetDb()).Collection(path.GetColl())
	cur, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrapf(err, "input: find in %s.%s", path.GetDb(), path.GetColl())
	}
	var records []trainRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, errors.Wrapf(err, "input: decode %s.%s", path.GetDb(), path.GetColl())
	}
	log.Infof("finish fetching from %s.%s", path.GetDb(), path.GetColl())
	return records, nil
}

func validate(records []trainRecord) error {
	ids := make(map[int32]struct{}, len(records))
	for _, r := range records {
		if _, ok := ids[r.ID]; ok {
			return errors.Errorf("input: duplicated train id %d", r.ID)
		}
		ids[r.ID] = struct{}{}
		if math.IsNaN(r.Position) || math.IsInf(r.Position, 0) {
			return errors.Errorf("input: train %d has invalid position %v", r.ID, r.Position)
		}
		if math.IsNaN(r.Speed) || math.IsInf(r.Speed, 0) || r.Speed < 0 {
			return errors.Errorf("input: train %d has invalid speed %v", r.ID, r.Speed)
		}
	}
	return nil
}
