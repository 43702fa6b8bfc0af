package output

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/tsinghua-fib-lab/corridor-sim/task"
)

const (
	kindRaw     = "raw"
	kindSummary = "summary"
)

// SaveReport 写入一次运行的报告
// 功能：在一个事务中写入运行信息、初始舰队、两种监测模式的事件以及预防模式的原始动作和摘要
func (db *DB) SaveReport(ctx context.Context, r *task.Report) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "output: begin transaction")
	}
	defer tx.Rollback()

	var seed sql.NullInt64
	if r.Seed != nil {
		seed = sql.NullInt64{Int64: int64(*r.Seed), Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO runs (run_id, seed, created_at_utc, train_count, steps) VALUES (?, ?, ?, ?, ?)",
		r.RunID, seed, time.Now().UTC().Format(time.RFC3339), len(r.Initial), r.Passive.Steps,
	); err != nil {
		return errors.Wrapf(err, "output: insert run %s", r.RunID)
	}

	for _, t := range r.Initial {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO initial_trains (run_id, train_id, position, speed) VALUES (?, ?, ?, ?)",
			r.RunID, t.ID, t.Position, t.Speed,
		); err != nil {
			return errors.Wrapf(err, "output: insert train %d", t.ID)
		}
	}

	for _, res := range []*task.Result{r.Passive, r.Predictive} {
		if err := insertEvents(ctx, tx, r.RunID, res); err != nil {
			return err
		}
	}
	if err := insertActions(ctx, tx, r.RunID, kindRaw, r.Preventive.Actions); err != nil {
		return err
	}
	if err := insertActions(ctx, tx, r.RunID, kindSummary, r.Preventive.Summary); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "output: commit")
	}
	log.Debugf("saved run %s", r.RunID)
	return nil
}

func insertEvents(ctx context.Context, tx *sql.Tx, runID string, res *task.Result) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO safety_events
			(run_id, mode, seq, step, follower_id, lead_id, follower_position, gap, safe_gap)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "output: prepare events")
	}
	defer stmt.Close()
	for i, e := range res.Events {
		if _, err := stmt.ExecContext(ctx,
			runID, string(res.Mode), i, e.Step, e.FollowerID, e.LeadID, e.FollowerPosition, e.Gap, e.SafeGap,
		); err != nil {
			return errors.Wrapf(err, "output: insert %s event %d", res.Mode, i)
		}
	}
	return nil
}

func insertActions(ctx context.Context, tx *sql.Tx, runID, kind string, actions []task.ActionRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO actions
			(run_id, kind, seq, step, train_id, old_speed, new_speed, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "output: prepare actions")
	}
	defer stmt.Close()
	for i, a := range actions {
		if _, err := stmt.ExecContext(ctx,
			runID, kind, i, a.Step, a.TrainID, a.OldSpeed, a.NewSpeed, a.Position,
		); err != nil {
			return errors.Wrapf(err, "output: insert %s action %d", kind, i)
		}
	}
	return nil
}

// RunStats 已保存运行的统计信息
type RunStats struct {
	RunID       string
	Seed        *uint64
	TrainCount  int
	Steps       int32
	Events      map[task.Mode]int
	Actions     int
	Corrections int
	Summary     int
}

// GetRunStats 查询一次运行的统计信息
func (db *DB) GetRunStats(ctx context.Context, runID string) (*RunStats, error) {
	s := &RunStats{RunID: runID, Events: make(map[task.Mode]int)}
	var seed sql.NullInt64
	err := db.conn.QueryRowContext(ctx,
		"SELECT seed, train_count, steps FROM runs WHERE run_id = ?", runID,
	).Scan(&seed, &s.TrainCount, &s.Steps)
	if err != nil {
		return nil, errors.Wrapf(err, "output: query run %s", runID)
	}
	if seed.Valid {
		v := uint64(seed.Int64)
		s.Seed = &v
	}

	rows, err := db.conn.QueryContext(ctx,
		"SELECT mode, COUNT(*) FROM safety_events WHERE run_id = ? GROUP BY mode", runID)
	if err != nil {
		return nil, errors.Wrapf(err, "output: query events of %s", runID)
	}
	defer rows.Close()
	for rows.Next() {
		var mode string
		var n int
		if err := rows.Scan(&mode, &n); err != nil {
			return nil, errors.Wrap(err, "output: scan events")
		}
		s.Events[task.Mode(mode)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "output: iterate events")
	}

	err = db.conn.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(kind = 'raw'), 0),
			COALESCE(SUM(kind = 'raw' AND old_speed <> new_speed), 0),
			COALESCE(SUM(kind = 'summary'), 0)
		FROM actions WHERE run_id = ?`, runID,
	).Scan(&s.Actions, &s.Corrections, &s.Summary)
	if err != nil {
		return nil, errors.Wrapf(err, "output: query actions of %s", runID)
	}
	return s, nil
}
