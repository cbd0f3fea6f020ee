package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"chatrelay/internal/locale"
	"chatrelay/internal/model"
	"chatrelay/internal/pkg/errcode"
	"chatrelay/internal/service"
)

type stubRelayer struct {
	out  *model.ChatOutput
	err  error
	req  *model.RelayRequest
	meta service.RequestMeta
}

func (s *stubRelayer) Relay(_ context.Context, req *model.RelayRequest, meta service.RequestMeta) (*model.ChatOutput, error) {
	s.req = req
	s.meta = meta
	return s.out, s.err
}

func newRelayEngine(h *RelayHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api", h.Relay)
	r.GET("/api", h.Deny)
	r.NoRoute(h.NotFound)
	return r
}

func TestRelayHandler(t *testing.T) {
	Convey("RelayHandler 转发接口", t, func() {
		stub := &stubRelayer{}
		h := NewRelayHandler(stub, locale.Chinese, 64)
		r := newRelayEngine(h)

		Convey("成功时返回 200 信封", func() {
			stub.out = &model.ChatOutput{
				Result:          []model.Turn{model.SystemTurn(""), model.UserTurn("hi"), model.AssistantTurn("hello")},
				CurrentResponse: "hello",
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(`{"user_content":"hi"}`))
			req.Header.Set("Authorization", "Bearer sk-header")
			r.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			var resp model.RelayResponse
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Code, ShouldEqual, 200)
			So(resp.Msg, ShouldEqual, "请求成功")
			So(resp.CurrentResponse, ShouldEqual, "hello")
			So(len(resp.Result), ShouldEqual, 3)

			So(*stub.req.UserContent, ShouldEqual, "hi")
			So(stub.meta.BearerToken, ShouldEqual, "sk-header")
		})

		Convey("服务返回的错误按类别转换", func() {
			stub.err = errcode.Unauthorized(errors.New("invalid_api_key"))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(`{"user_content":"hi"}`)))

			So(w.Code, ShouldEqual, http.StatusUnauthorized)
			var resp model.ErrorResponse
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("请求体过大", func() {
			w := httptest.NewRecorder()
			body := `{"user_content":"` + strings.Repeat("x", 100) + `"}`
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(body)))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, "request body too large")
			So(stub.req, ShouldBeNil)
		})

		Convey("GET 返回 403", func() {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api", nil))
			So(w.Code, ShouldEqual, http.StatusForbidden)
			So(w.Body.String(), ShouldContainSubstring, "拒绝访问")
		})

		Convey("未知路由返回 404", func() {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/nope", nil))
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldContainSubstring, "请求错误")
		})
	})
}

func TestRelayHandler_Binding(t *testing.T) {
	Convey("请求体按 binding 标签校验", t, func() {
		stub := &stubRelayer{out: &model.ChatOutput{}}
		h := NewRelayHandler(stub, locale.English, 1<<20)
		r := newRelayEngine(h)

		post := func(body string) (int, string) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(body)))
			return w.Code, w.Body.String()
		}

		Convey("非法请求返回 400 且不调用服务", func() {
			cases := []struct {
				body   string
				detail string
			}{
				{``, "empty request body"},
				{`{bad json`, "JSON object"},
				{`[]`, "JSON object"},
				{`null`, "missing user_content"},
				{`{}`, "missing user_content"},
				{`{"user_content":null,"api_key":"sk-1"}`, "missing user_content"},
				{`{"user_content":1}`, "invalid user_content"},
				{`{"user_content":"hi","max_tokens":"64"}`, "invalid max_tokens"},
				{`{"user_content":"hi","max_tokens":0}`, "max_tokens must be greater than 0"},
				{`{"user_content":"hi","continuous_dialogue":"none"}`, "invalid continuous_dialogue"},
				{`{"user_content":"hi","continuous_dialogue":[{"role":"tool","content":"x"}]}`, "continuous_dialogue[0].role must be one of"},
				{`{"user_content":"hi","continuous_dialogue":[{"content":"x"}]}`, "continuous_dialogue[0].role"},
			}
			for _, tc := range cases {
				code, body := post(tc.body)
				So(code, ShouldEqual, http.StatusBadRequest)
				So(body, ShouldContainSubstring, tc.detail)
			}
			So(stub.req, ShouldBeNil)
		})

		Convey("可选字段缺失时保持为空", func() {
			code, _ := post(`{"user_content":"","continuous_dialogue":[{"role":"user","content":"q"}]}`)
			So(code, ShouldEqual, http.StatusOK)
			So(*stub.req.UserContent, ShouldBeEmpty)
			So(stub.req.MaxTokens, ShouldBeNil)
			So(stub.req.ContinuousDialogue, ShouldResemble, []model.Turn{model.UserTurn("q")})
		})

		Convey("未知字段被忽略", func() {
			code, _ := post(`{"user_content":"hi","continuous":[],"max_tokens":100}`)
			So(code, ShouldEqual, http.StatusOK)
			So(*stub.req.MaxTokens, ShouldEqual, 100)
		})
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer sk-1", "sk-1"},
		{"bearer  sk-2 ", "sk-2"},
		{"Basic abc", ""},
		{"sk-3", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := bearerToken(tt.header); got != tt.want {
			t.Errorf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
