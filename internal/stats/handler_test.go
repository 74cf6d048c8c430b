package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	summary *Summary
	err     error
}

func (f *fakeSource) Summarize(context.Context) (*Summary, error) { return f.summary, f.err }
func (f *fakeSource) ByBranch(context.Context) ([]BranchCount, error) {
	return []BranchCount{{Branch: "CSE", Count: 3}}, f.err
}
func (f *fakeSource) ByYear(context.Context) ([]YearCount, error) {
	return []YearCount{{YearOfStudy: "2nd", Count: 3}}, f.err
}
func (f *fakeSource) RecentDaily(context.Context, int) ([]DailyCount, error) {
	return []DailyCount{{Date: "2026-08-31", Count: 2}}, f.err
}

func serveStats(t *testing.T, src Source, serve func(*Handler, *gin.Context)) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	serve(NewHandler(src, nil), c)
	return w
}

func TestPublicIncludesDailyCount(t *testing.T) {
	src := &fakeSource{summary: &Summary{
		TotalRegistrations: 42,
		WorkshopYes:        30,
		WorkshopNo:         12,
		TodayRegistrations: 5,
	}}
	w := serveStats(t, src, (*Handler).Public)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.JSONEq(t, `42`, string(body.Data["totalRegistrations"]))
	assert.JSONEq(t, `5`, string(body.Data["todayRegistrations"]))
	assert.Contains(t, body.Data, "workshopAttendance")
	assert.Contains(t, body.Data, "branchDistribution")
	assert.Contains(t, body.Data, "yearDistribution")
	// Aggregates only, never registrant rows.
	assert.NotContains(t, body.Data, "registrations")
}

func TestPublicSourceFailure(t *testing.T) {
	src := &fakeSource{err: assert.AnError}
	w := serveStats(t, src, (*Handler).Public)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAdminBundle(t *testing.T) {
	src := &fakeSource{summary: &Summary{TotalRegistrations: 42, TodayRegistrations: 5}}
	w := serveStats(t, src, (*Handler).Admin)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Data, "basic")
	assert.Contains(t, body.Data, "recentRegistrations")
	assert.Contains(t, body.Data, "generatedAt")
}
