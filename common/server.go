package common

import (
	"context"
	"errors"
	"net/http"
	"satori/lib/logger"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (ts *TestingSystem) recoverRequest(c *gin.Context, err any) {
	if err != nil {
		ts.panicsLock.Lock()
		defer ts.panicsLock.Unlock()
		ts.panics = append(ts.panics, err)

		ts.stopFunc()
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

func (ts *TestingSystem) InitServer() {
	gin.SetMode(gin.ReleaseMode)
	ts.Router = gin.New()

	if logger.GetLevel() <= logger.LogLevelTrace {
		ts.Router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
			Output: logger.CreateWriter(logger.LogLevelTrace, "Handler log:"),
		}))
	}
	ts.Router.Use(gin.CustomRecoveryWithWriter(
		logger.CreateWriter(logger.LogLevelError, "Panic in handler:"),
		ts.recoverRequest,
	))

	ts.Router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(ts.Metrics.Registry, promhttp.HandlerOpts{})))
}

func (ts *TestingSystem) runServer() {
	addr := ":" + strconv.Itoa(ts.Config.Port)
	if ts.Config.Host != nil {
		addr = *ts.Config.Host + addr
	}
	logger.Info("Starting server at " + addr)
	server := http.Server{
		Addr:    addr,
		Handler: ts.Router,
	}
	go func() {
		<-ts.StopCtx.Done()
		logger.Info("Shutting down server")
		server.Shutdown(context.Background())
	}()
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server stopped with error: %v", err)
		ts.stopFunc()
	}
}
