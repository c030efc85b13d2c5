package resputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/raids-lab/taskflow/pkg/board"
)

func respond(err error) (int, Response[any]) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	BoardError(c, err)

	var resp Response[any]
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w.Code, resp
}

func TestBoardError(t *testing.T) {
	Convey("Board errors map to HTTP status and code", t, func() {
		cases := []struct {
			err    error
			status int
			code   ErrorCode
		}{
			{board.ErrNotFound, http.StatusNotFound, NotFound},
			{board.ErrAccessDenied, http.StatusForbidden, UserNotAllowed},
			{board.ErrInvalidAssignee, http.StatusBadRequest, InvalidAssignee},
			{board.ErrInvalidInput, http.StatusBadRequest, InvalidRequest},
			{board.ErrInvalidState, http.StatusConflict, InvalidState},
			{board.ErrDuplicateMembership, http.StatusConflict, DuplicateMembership},
		}
		for _, tc := range cases {
			status, resp := respond(fmt.Errorf("wrapped: %w", tc.err))
			So(status, ShouldEqual, tc.status)
			So(resp.Code, ShouldEqual, tc.code)
			So(resp.Success, ShouldBeFalse)
			So(resp.Message, ShouldContainSubstring, "wrapped")
		}
	})

	Convey("Unknown errors are hidden behind a generic message", t, func() {
		status, resp := respond(errors.New("pq: connection refused"))
		So(status, ShouldEqual, http.StatusInternalServerError)
		So(resp.Code, ShouldEqual, NotSpecified)
		So(resp.Message, ShouldEqual, "internal server error")
	})
}

func TestSuccess(t *testing.T) {
	Convey("Success wraps data with code 0", t, func() {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		Success(c, map[string]int{"n": 1})

		var resp Response[map[string]int]
		So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
		So(w.Code, ShouldEqual, http.StatusOK)
		So(resp.Success, ShouldBeTrue)
		So(resp.Code, ShouldEqual, OK)
		So(resp.Data["n"], ShouldEqual, 1)
	})
}
