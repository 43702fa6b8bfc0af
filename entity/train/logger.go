package train

import "github.com/sirupsen/logrus"

// log 列车模块的日志记录器
var log = logrus.WithField("module", "train")
