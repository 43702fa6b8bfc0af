package output

import (
	"context"
	"database/sql"
	_ "embed"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

var log = logrus.WithField("module", "output")

// schemaSQL 数据库表结构
//
//go:embed schema.sql
var schemaSQL string

// DB 运行结果库
// 功能：把每次运行的报告写入SQLite，供外部渲染、查询使用；模拟引擎本身从不读取
type DB struct {
	conn    *sql.DB
	writeMu sync.Mutex // SQLite同一时刻只允许一个写事务
}

// Connect 打开SQLite数据库并建表
func Connect(ctx context.Context, dbPath string) (*DB, error) {
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "output: open database")
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "output: ping database")
	}
	if _, err := conn.ExecContext(ctx, schemaSQL); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "output: ensure schema")
	}
	log.Infof("connected to SQLite database: %s", dbPath)
	return &DB{conn: conn}, nil
}

// Close 关闭数据库连接
func (db *DB) Close() error {
	return db.conn.Close()
}
