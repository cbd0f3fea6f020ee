package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	goopenai "github.com/meguminnnnnnnnn/go-openai"
	. "github.com/smartystreets/goconvey/convey"

	"chatrelay/internal/ai"
	"chatrelay/internal/model"
	"chatrelay/internal/pkg/credential"
	"chatrelay/internal/pkg/errcode"
)

type fakeCompleter struct {
	answer string
	err    error
	got    *ai.CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req *ai.CompletionRequest) (*ai.CompletionResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &ai.CompletionResponse{Content: f.answer, Usage: &model.TokenUsage{TotalTokens: 12}}, nil
}

type fakeLogWriter struct {
	mu      sync.Mutex
	entries []*model.RelayLog
	err     error
}

func (f *fakeLogWriter) Insert(_ context.Context, entry *model.RelayLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return f.err
}

func TestRelayService_Relay(t *testing.T) {
	Convey("Relay 转发请求", t, func() {
		ctx := context.Background()
		cfg := relayConfig()
		completer := &fakeCompleter{answer: "hello there"}
		meta := RequestMeta{RequestID: "req-1", ClientIP: "10.0.0.1"}

		Convey("成功时返回历史 + 用户消息 + 助手回复", func() {
			svc := NewRelayService(cfg, completer, nil, nil)
			body := `{"system_content":"sys","user_content":"hi","api_key":"sk-1",
				"continuous_dialogue":[{"role":"system","content":"sys"},{"role":"user","content":"q1"},{"role":"assistant","content":"a1"}]}`

			out, err := svc.Relay(ctx, request(body), meta)

			So(err, ShouldBeNil)
			So(out.CurrentResponse, ShouldEqual, "hello there")
			So(out.Result, ShouldResemble, []model.Turn{
				model.SystemTurn("sys"),
				model.UserTurn("q1"),
				model.AssistantTurn("a1"),
				model.UserTurn("hi"),
				model.AssistantTurn("hello there"),
			})

			So(completer.got.APIKey, ShouldEqual, "sk-1")
			So(completer.got.Model, ShouldEqual, "gpt-3.5-turbo")
			So(completer.got.MaxTokens, ShouldEqual, 64)
			So(completer.got.Messages[len(completer.got.Messages)-1], ShouldResemble, model.UserTurn("hi"))
		})

		Convey("参数错误不调用上游", func() {
			svc := NewRelayService(cfg, completer, nil, nil)
			_, err := svc.Relay(ctx, request(`{"api_key":"sk-1"}`), meta)

			So(kindOf(err), ShouldEqual, errcode.KindParameter)
			So(completer.got, ShouldBeNil)
		})

		Convey("上游鉴权失败映射为 401", func() {
			completer.err = &ai.UpstreamError{StatusCode: 401, Unauthorized: true, Err: errors.New("invalid_api_key")}
			svc := NewRelayService(cfg, completer, nil, nil)

			_, err := svc.Relay(ctx, request(`{"user_content":"hi","api_key":"sk-bad"}`), meta)
			So(kindOf(err), ShouldEqual, errcode.KindUnauthorized)
			So(errcode.From(err).Kind.Status(), ShouldEqual, http.StatusUnauthorized)
		})

		Convey("未经分类的 401 错误同样映射为 401", func() {
			completer.err = &goopenai.APIError{HTTPStatusCode: 401, Message: "Incorrect API key provided"}
			svc := NewRelayService(cfg, completer, nil, nil)

			_, err := svc.Relay(ctx, request(`{"user_content":"hi","api_key":"sk-bad"}`), meta)
			So(kindOf(err), ShouldEqual, errcode.KindUnauthorized)
		})

		Convey("其他上游错误映射为 500 并保留详情", func() {
			completer.err = errors.New("upstream timeout")
			svc := NewRelayService(cfg, completer, nil, nil)

			_, err := svc.Relay(ctx, request(`{"user_content":"hi","api_key":"sk-1"}`), meta)
			So(kindOf(err), ShouldEqual, errcode.KindServer)
			So(errcode.From(err).Detail, ShouldEqual, "upstream timeout")
		})

		Convey("开启 save_logs 时写入请求日志", func() {
			cfg.SaveLogs = true
			logs := &fakeLogWriter{}
			svc := NewRelayService(cfg, completer, logs, nil)

			_, err := svc.Relay(ctx, request(`{"user_content":"hi","api_key":"sk-secret-key"}`), meta)
			So(err, ShouldBeNil)
			So(len(logs.entries), ShouldEqual, 1)

			entry := logs.entries[0]
			So(entry.RequestID, ShouldEqual, "req-1")
			So(entry.ClientIP, ShouldEqual, "10.0.0.1")
			So(entry.StatusCode, ShouldEqual, http.StatusOK)
			So(entry.Answer, ShouldEqual, "hello there")
			So(entry.KeyFingerprint, ShouldEqual, credential.Fingerprint("sk-secret-key"))
			So(entry.Usage.TotalTokens, ShouldEqual, 12)
		})

		Convey("日志写入失败不影响响应", func() {
			cfg.SaveLogs = true
			logs := &fakeLogWriter{err: errors.New("mongo down")}
			completer.err = errors.New("boom")
			svc := NewRelayService(cfg, completer, logs, nil)

			_, err := svc.Relay(ctx, request(`{"user_content":"hi","api_key":"sk-1"}`), meta)
			So(kindOf(err), ShouldEqual, errcode.KindServer)
			So(len(logs.entries), ShouldEqual, 1)
			So(logs.entries[0].StatusCode, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("未开启 save_logs 时不写日志", func() {
			logs := &fakeLogWriter{}
			svc := NewRelayService(cfg, completer, logs, nil)

			_, err := svc.Relay(ctx, request(`{"user_content":"hi","api_key":"sk-1"}`), meta)
			So(err, ShouldBeNil)
			So(logs.entries, ShouldBeEmpty)
		})
	})
}
