package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/corridor-sim/entity/train"
	"github.com/tsinghua-fib-lab/corridor-sim/output"
	"github.com/tsinghua-fib-lab/corridor-sim/task"
	"github.com/tsinghua-fib-lab/corridor-sim/utils/randengine"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var log = logrus.WithField("module", "server")

const (
	// RunProcedure 运行一次三模式仿真的RPC路径
	RunProcedure = "/corridor.v1.SimulationService/Run"

	// MaxFleetSize 单次请求允许的最大列车数量，超过时按非法输入回退到默认值
	MaxFleetSize = 1000

	seedBits = 53 // 派生种子的位数，保证JSON数字可以无损表示
)

// Server 仿真服务
// 功能：通过connect RPC对外提供Run接口，请求体与响应体均为protobuf Struct
type Server struct {
	opts        task.Options
	defaultSize int
	root        *randengine.Engine // 根随机数引擎，未指定种子的请求从中派生种子
	store       *output.DB         // 可选，非空时保存每次运行的报告
}

// New 创建服务
func New(opts task.Options, defaultSize int, root *randengine.Engine, store *output.DB) *Server {
	return &Server{
		opts:        opts,
		defaultSize: defaultSize,
		root:        root,
		store:       store,
	}
}

// Run 运行一次仿真
// 请求字段：trains-列车数量（数字或字符串，非法或缺省时使用默认值），seed-随机种子（可选，非负整数）
// 返回：task.Report的JSON结构
func (s *Server) Run(ctx context.Context, in *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	fields := in.Msg.GetFields()
	n := s.defaultSize
	if v, ok := fields["trains"]; ok {
		n = fleetSize(v)
	}
	var seed uint64
	if v, ok := fields["seed"]; ok {
		f := v.GetNumberValue()
		if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum || f < 0 || f != math.Trunc(f) || f >= 1<<seedBits {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("seed must be a non-negative integer below 2^%d, got %v", seedBits, v.AsInterface()))
		}
		seed = uint64(f)
	} else {
		seed = s.root.Uint64Safe() >> (64 - seedBits)
	}

	report := task.Simulate(s.opts, randengine.New(seed), n)
	if s.store != nil {
		if err := s.store.SaveReport(ctx, report); err != nil {
			log.Errorf("save report %s: %v", report.RunID, err)
			return nil, connect.NewError(connect.CodeInternal, err)
		}
	}
	out, err := toStruct(report)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(out), nil
}

// fleetSize 解析请求中的列车数量，非法时回退到默认值
func fleetSize(v *structpb.Value) int {
	n := train.DefaultFleetSize
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		if f := k.NumberValue; f == math.Trunc(f) && math.Abs(f) <= MaxFleetSize {
			n = int(f)
		}
	case *structpb.Value_StringValue:
		n = train.ParseFleetSize(k.StringValue)
	}
	if n > MaxFleetSize {
		log.Warnf("fleet size %d exceeds %d, fall back to %d", n, MaxFleetSize, train.DefaultFleetSize)
		n = train.DefaultFleetSize
	}
	return n
}

func toStruct(r *task.Report) (*structpb.Struct, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	var out structpb.Struct
	if err := protojson.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("convert report: %w", err)
	}
	return &out, nil
}

// Handler 构造HTTP路由
// 说明：/healthz 健康检查，RunProcedure 为connect RPC
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle(RunProcedure, connect.NewUnaryHandler(RunProcedure, s.Run))
	return r
}

// Serve 启动HTTP服务，ctx取消时优雅退出
func (s *Server) Serve(ctx context.Context, addr string, allowedOrigins []string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(allowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Infof("server listening at %v", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}
