package checking

import (
	"errors"
	"net/http"
	"satori/checking/queue"
	"satori/checking/reporters"
	"satori/checking/storage"
	"satori/lib/connector"
	"satori/lib/logger"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (c *Checking) registerHandlers() {
	router := c.ts.Router.Group("/checking")

	router.POST("/judge/next", c.handleGetNext)
	router.POST("/judge/result", c.handleSetResult)
	router.GET("/status", c.handleStatus)

	router.POST("/submit", c.handleSubmit)
	router.PUT("/submit/:id/overrides", c.handleSetOverrides)
	router.POST("/test-suite", c.handleCreateTestSuite)
	router.GET("/suite-result/:id", c.handleGetSuiteResult)
	router.POST("/suite-result/:id/finalize", c.handleFinalize)
}

// respError maps checking errors to http codes
func respError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queue.ErrAlreadyReported), errors.Is(err, queue.ErrStaleClaim):
		connector.RespErr(c, http.StatusConflict, "%s", err.Error())
	case errors.Is(err, queue.ErrJudgeNotPermitted):
		connector.RespErr(c, http.StatusForbidden, "%s", err.Error())
	case errors.Is(err, storage.ErrTestResultNotFound),
		errors.Is(err, storage.ErrTestSuiteResultNotFound),
		errors.Is(err, storage.ErrTestSuiteNotFound),
		errors.Is(err, storage.ErrSubmitNotFound):
		connector.RespErr(c, http.StatusNotFound, "%s", err.Error())
	case errors.Is(err, reporters.ErrUnknownReporter):
		connector.RespErr(c, http.StatusUnprocessableEntity, "%s", err.Error())
	default:
		logger.Error("checking request %s failed, error: %v", c.FullPath(), err)
		connector.RespErr(c, http.StatusInternalServerError, "")
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		connector.RespErr(c, http.StatusBadRequest, "id is not uint")
		return 0, false
	}
	return uint(id), true
}
