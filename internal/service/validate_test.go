package service

import (
	"encoding/json"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"chatrelay/internal/config"
	"chatrelay/internal/model"
	"chatrelay/internal/pkg/errcode"
)

func relayConfig() *config.RelayConfig {
	return &config.RelayConfig{DefaultModel: "gpt-3.5-turbo"}
}

// request 解码请求体，不经过 binding 校验
func request(body string) *model.RelayRequest {
	var req model.RelayRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		panic(err)
	}
	return &req
}

func kindOf(err error) errcode.Kind {
	var e *errcode.Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return -1
}

func TestParseRequest(t *testing.T) {
	Convey("ParseRequest 校验请求参数", t, func() {
		cfg := relayConfig()

		Convey("完整请求", func() {
			body := `{"system_content":"be brief","user_content":"hi","model":"gpt-4","api_key":"sk-1","max_tokens":100,
				"continuous_dialogue":[{"role":"system","content":"s"},{"role":"user","content":"u"},{"role":"assistant","content":"a"}]}`
			in, err := ParseRequest(request(body), "", cfg)

			So(err, ShouldBeNil)
			So(in.SystemContent, ShouldEqual, "be brief")
			So(in.UserContent, ShouldEqual, "hi")
			So(in.Model, ShouldEqual, "gpt-4")
			So(in.APIKey, ShouldEqual, "sk-1")
			So(in.MaxTokens, ShouldEqual, 100)
			So(len(in.ContinuousDialogue), ShouldEqual, 3)
			So(in.ContinuousDialogue[2].Role, ShouldEqual, model.RoleAssistant)
		})

		Convey("缺省字段使用默认值", func() {
			in, err := ParseRequest(request(`{"user_content":"hi","api_key":"sk-1"}`), "", cfg)

			So(err, ShouldBeNil)
			So(in.SystemContent, ShouldBeEmpty)
			So(in.Model, ShouldEqual, "gpt-3.5-turbo")
			So(in.MaxTokens, ShouldEqual, 64)
			So(in.ContinuousDialogue, ShouldBeEmpty)
		})

		Convey("配置的默认 max_tokens", func() {
			cfg.DefaultMaxTokens = 256
			in, err := ParseRequest(request(`{"user_content":"hi","api_key":"sk-1"}`), "", cfg)
			So(err, ShouldBeNil)
			So(in.MaxTokens, ShouldEqual, 256)
		})

		Convey("缺少 user_content 时总是参数错误", func() {
			bodies := []string{
				`{"api_key":"sk-1"}`,
				`{"api_key":"sk-1","model":"gpt-4","max_tokens":10}`,
				`{"user_content":null,"api_key":"sk-1"}`,
				`{}`,
			}
			for _, b := range bodies {
				_, err := ParseRequest(request(b), "", cfg)
				So(kindOf(err), ShouldEqual, errcode.KindParameter)
			}

			_, err := ParseRequest(nil, "", cfg)
			So(kindOf(err), ShouldEqual, errcode.KindParameter)

			cfg.APIKey = "sk-system"
			_, err = ParseRequest(request(`{"model":"gpt-4"}`), "", cfg)
			So(kindOf(err), ShouldEqual, errcode.KindParameter)
		})

		Convey("缺少 api_key 且没有系统默认 Key 时是参数错误", func() {
			_, err := ParseRequest(request(`{"user_content":"hi"}`), "", cfg)
			So(kindOf(err), ShouldEqual, errcode.KindParameter)
			So(err.Error(), ShouldContainSubstring, "api_key")
		})

		Convey("缺少 api_key 时使用系统默认 Key", func() {
			cfg.APIKey = "sk-system"
			in, err := ParseRequest(request(`{"user_content":"hi"}`), "", cfg)
			So(err, ShouldBeNil)
			So(in.APIKey, ShouldEqual, "sk-system")
		})

		Convey("请求体的 api_key 优先于 Bearer 和系统默认 Key", func() {
			cfg.APIKey = "sk-system"
			in, err := ParseRequest(request(`{"user_content":"hi","api_key":"sk-body"}`), "sk-bearer", cfg)
			So(err, ShouldBeNil)
			So(in.APIKey, ShouldEqual, "sk-body")

			in, err = ParseRequest(request(`{"user_content":"hi"}`), "sk-bearer", cfg)
			So(err, ShouldBeNil)
			So(in.APIKey, ShouldEqual, "sk-bearer")
		})

		Convey("max_tokens 必须为正数", func() {
			for _, b := range []string{
				`{"user_content":"hi","api_key":"sk-1","max_tokens":0}`,
				`{"user_content":"hi","api_key":"sk-1","max_tokens":-3}`,
			} {
				_, err := ParseRequest(request(b), "", cfg)
				So(kindOf(err), ShouldEqual, errcode.KindParameter)
			}
		})

		Convey("空字符串 api_key 视为缺失", func() {
			_, err := ParseRequest(request(`{"user_content":"hi","api_key":"  "}`), "", cfg)
			So(kindOf(err), ShouldEqual, errcode.KindParameter)
		})

		Convey("空字符串 user_content 是合法输入", func() {
			in, err := ParseRequest(request(`{"user_content":"","api_key":"sk-1"}`), "", cfg)
			So(err, ShouldBeNil)
			So(in.UserContent, ShouldBeEmpty)
		})

		Convey("限定模型列表时拒绝未知模型并返回支持的模型", func() {
			cfg.SupportedModels = []string{"gpt-3.5-turbo", "gpt-4"}

			_, err := ParseRequest(request(`{"user_content":"hi","api_key":"sk-1","model":"text-davinci-003"}`), "", cfg)
			var e *errcode.Error
			So(errors.As(err, &e), ShouldBeTrue)
			So(e.Kind, ShouldEqual, errcode.KindParameter)
			So(e.Models, ShouldResemble, []string{"gpt-3.5-turbo", "gpt-4"})

			in, err := ParseRequest(request(`{"user_content":"hi","api_key":"sk-1","model":"gpt-4"}`), "", cfg)
			So(err, ShouldBeNil)
			So(in.Model, ShouldEqual, "gpt-4")
		})
	})
}
