package checking

import (
	"net/http"
	"satori/common/connectors/judgeconn"
	"satori/lib/connector"

	"github.com/gin-gonic/gin"
)

// @Summary Next task
// @Description Claims next pending test result. Returns no data if there is nothing to check
// @Tags Judge
// @Accept json
// @Produce json
// @Param request body judgeconn.NextRequest true "Judge identity"
// @Success 200 {object} judgeconn.Task
// @Failure 403 {object} string "Judge is not permitted"
// @Router /checking/judge/next [post]
func (c *Checking) handleGetNext(ctx *gin.Context) {
	request := new(judgeconn.NextRequest)
	if err := ctx.BindJSON(request); err != nil {
		connector.RespErr(ctx, http.StatusBadRequest, "Can not parse request, error: %s", err.Error())
		return
	}

	task, err := c.queue.GetNext(ctx, request.Judge)
	if err != nil {
		respError(ctx, err)
		return
	}
	if task == nil {
		connector.RespOK(ctx, nil)
		return
	}
	connector.RespOK(ctx, task)
}

// @Summary Set result
// @Description Stores result of claimed attempt
// @Tags Judge
// @Accept json
// @Produce json
// @Param request body judgeconn.ResultRequest true "Result"
// @Success 200
// @Failure 404 {object} string "Unknown test result"
// @Failure 409 {object} string "Stale attempt or already reported"
// @Router /checking/judge/result [post]
func (c *Checking) handleSetResult(ctx *gin.Context) {
	request := new(judgeconn.ResultRequest)
	if err := ctx.BindJSON(request); err != nil {
		connector.RespErr(ctx, http.StatusBadRequest, "Can not parse result, error: %s", err.Error())
		return
	}

	if err := c.queue.SetResult(ctx, request.TestResultID, request.Attempt, request.Result); err != nil {
		respError(ctx, err)
		return
	}
	connector.RespOK(ctx, nil)
}

// @Summary Queue status
// @Tags Judge
// @Produce json
// @Success 200 {object} judgeconn.QueueStatus
// @Router /checking/status [get]
func (c *Checking) handleStatus(ctx *gin.Context) {
	status, err := c.queue.Status(ctx)
	if err != nil {
		respError(ctx, err)
		return
	}
	connector.RespOK(ctx, status)
}
