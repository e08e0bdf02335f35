package checking

import (
	"net/http"
	"satori/common/db/models"
	"satori/lib/connector"

	"github.com/gin-gonic/gin"
)

type SubmitRequest struct {
	Data         models.OAMap `json:"Data"`
	Overrides    models.OAMap `json:"Overrides"`
	TestSuiteIDs []uint       `json:"TestSuiteIDs" binding:"required"`
}

type SubmitResponse struct {
	SubmitID uint `json:"SubmitID"`
}

type TestRequest struct {
	Name string       `json:"Name"`
	Data models.OAMap `json:"Data"`
}

type TestSuiteRequest struct {
	Name     string         `json:"Name" binding:"required"`
	Reporter string         `json:"Reporter"`
	Tests    []*TestRequest `json:"Tests"`
}

type TestSuiteResponse struct {
	TestSuiteID uint `json:"TestSuiteID"`
}

// @Summary Submit
// @Description Creates submit checked by given test suites
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body SubmitRequest true "Submit"
// @Success 200 {object} SubmitResponse
// @Failure 404 {object} string "Test suite not found"
// @Router /checking/submit [post]
func (c *Checking) handleSubmit(ctx *gin.Context) {
	request := new(SubmitRequest)
	if err := ctx.BindJSON(request); err != nil {
		connector.RespErr(ctx, http.StatusBadRequest, "Can not parse submit, error: %s", err.Error())
		return
	}

	submit, err := c.Submit(ctx, request.Data, request.Overrides, request.TestSuiteIDs)
	if err != nil {
		respError(ctx, err)
		return
	}
	connector.RespOK(ctx, &SubmitResponse{SubmitID: submit.ID})
}

// @Summary Set overrides
// @Description Replaces overrides of the submit. Finished results change only after finalization
// @Tags Admin
// @Accept json
// @Param id path uint true "Submit ID"
// @Param overrides body models.OAMap true "Overrides"
// @Success 200
// @Router /checking/submit/{id}/overrides [put]
func (c *Checking) handleSetOverrides(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	overrides := models.OAMap{}
	if err := ctx.BindJSON(&overrides); err != nil {
		connector.RespErr(ctx, http.StatusBadRequest, "Can not parse overrides, error: %s", err.Error())
		return
	}

	if err := c.storage.SetSubmitOverrides(ctx, id, overrides); err != nil {
		respError(ctx, err)
		return
	}
	connector.RespOK(ctx, nil)
}

// @Summary Create test suite
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body TestSuiteRequest true "Test suite"
// @Success 200 {object} TestSuiteResponse
// @Failure 422 {object} string "Unknown reporter"
// @Router /checking/test-suite [post]
func (c *Checking) handleCreateTestSuite(ctx *gin.Context) {
	request := new(TestSuiteRequest)
	if err := ctx.BindJSON(request); err != nil {
		connector.RespErr(ctx, http.StatusBadRequest, "Can not parse test suite, error: %s", err.Error())
		return
	}

	tests := make([]*models.Test, 0, len(request.Tests))
	for _, test := range request.Tests {
		tests = append(tests, &models.Test{Name: test.Name, Data: test.Data})
	}
	suite, err := c.storage.CreateTestSuite(ctx, request.Name, request.Reporter, tests)
	if err != nil {
		respError(ctx, err)
		return
	}
	connector.RespOK(ctx, &TestSuiteResponse{TestSuiteID: suite.ID})
}

// @Summary Test suite result
// @Tags Admin
// @Produce json
// @Param id path uint true "Test suite result ID"
// @Success 200 {object} models.TestSuiteResult
// @Failure 404 {object} string "Not found"
// @Router /checking/suite-result/{id} [get]
func (c *Checking) handleGetSuiteResult(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	result, err := c.storage.LoadTestSuiteResult(ctx, id)
	if err != nil {
		respError(ctx, err)
		return
	}
	connector.RespOK(ctx, result)
}

// @Summary Finalize test suite result
// @Description Forces final report, pending tests are ignored. Current overrides are applied
// @Tags Admin
// @Produce json
// @Param id path uint true "Test suite result ID"
// @Success 200 {object} models.TestSuiteResult
// @Failure 404 {object} string "Not found"
// @Router /checking/suite-result/{id}/finalize [post]
func (c *Checking) handleFinalize(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	result, err := c.sessions.Finalize(ctx, id)
	if err != nil {
		respError(ctx, err)
		return
	}
	connector.RespOK(ctx, result)
}
