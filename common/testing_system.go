package common

import (
	"context"
	"os/signal"
	"satori/common/config"
	"satori/common/db"
	"satori/common/metrics"
	"satori/common/notify"
	"satori/lib/logger"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TestingSystem struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Metrics  *metrics.Collector
	Notifier notify.Notifier

	processes []func()
	defers    []func()

	panics     []any
	panicsLock sync.Mutex

	StopCtx  context.Context
	stopFunc context.CancelFunc
	stopWG   sync.WaitGroup
}

func InitTestingSystem(configPath string) *TestingSystem {
	return NewTestingSystem(config.ReadConfig(configPath))
}

// NewTestingSystem sets up shared components. Config must be already filled in
func NewTestingSystem(cfg *config.Config) *TestingSystem {
	ts := &TestingSystem{
		Config:  cfg,
		Metrics: metrics.NewCollector(),
	}
	logger.InitLogger(ts.Config)
	ts.StopCtx, ts.stopFunc = context.WithCancel(context.Background())

	ts.InitServer()

	var err error
	ts.DB, err = db.NewDB(ts.Config.DB)
	if err != nil {
		logger.Panic("Can not set up db connection, error: %s", err.Error())
	}

	ts.Notifier, err = notify.NewNotifier(ts.Config.Notifier)
	if err != nil {
		logger.Panic("Can not set up notifier, error: %s", err.Error())
	}
	ts.AddDefer(ts.Notifier.Close)

	return ts
}

func (ts *TestingSystem) AddProcess(f func()) {
	ts.processes = append(ts.processes, f)
}

func (ts *TestingSystem) AddDefer(f func()) {
	ts.defers = append(ts.defers, f)
}

// Stop cancels StopCtx, all processes and server should finish after it
func (ts *TestingSystem) Stop() {
	ts.stopFunc()
}

func (ts *TestingSystem) Run() {
	var cancel context.CancelFunc
	ts.StopCtx, cancel = signal.NotifyContext(ts.StopCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	for _, process := range ts.processes {
		ts.Go(process)
	}

	ts.runServer()

	ts.stopWG.Wait()

	for _, d := range ts.defers {
		d()
	}

	if len(ts.panics) > 0 {
		logger.Error("Testing system stopped after %d panics, first one: %v", len(ts.panics), ts.panics[0])
	}
	logger.Sync()
}

func (ts *TestingSystem) Go(f func()) {
	ts.stopWG.Add(1)
	go ts.runProcess(f)
}

func (ts *TestingSystem) runProcess(f func()) {
	defer func() {
		v := recover()
		if v != nil {
			ts.panicsLock.Lock()
			ts.panics = append(ts.panics, v)
			ts.panicsLock.Unlock()
			logger.Error("One process got panic %v, shutting down all processes gracefully", v)
			ts.stopFunc()
		}
		ts.stopWG.Done()
	}()

	f()
}
