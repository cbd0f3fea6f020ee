package ai

import (
	"errors"
	"net/http"
	"strings"

	goopenai "github.com/meguminnnnnnnnn/go-openai"
	arkmodel "github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"
)

// UpstreamError 上游接口调用失败
type UpstreamError struct {
	StatusCode   int  // 上游 HTTP 状态码，未知时为 0
	Unauthorized bool // 鉴权失败 (API Key 无效或过期)
	Err          error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUnauthorized 判断错误是否为上游鉴权失败
func IsUnauthorized(err error) bool {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Unauthorized
	}
	return classify(err).Unauthorized
}

// authMarkers 无法解析出状态码时，用于识别鉴权失败的错误文本
var authMarkers = []string{
	"invalid_api_key",
	"incorrect api key",
	"invalid api key",
	"authenticationerror",
	"status code: 401",
	"statuscode=401",
}

// classify 将 ChatModel 返回的错误归类
func classify(err error) *UpstreamError {
	if err == nil {
		return nil
	}

	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue
	}

	out := &UpstreamError{Err: err}

	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	var arkAPIErr *arkmodel.APIError
	var arkReqErr *arkmodel.RequestError

	switch {
	case errors.As(err, &apiErr):
		out.StatusCode = apiErr.HTTPStatusCode
		if apiErr.Type == "authentication_error" {
			out.Unauthorized = true
		}
		if code, ok := apiErr.Code.(string); ok && code == "invalid_api_key" {
			out.Unauthorized = true
		}
	case errors.As(err, &reqErr):
		out.StatusCode = reqErr.HTTPStatusCode
	case errors.As(err, &arkAPIErr):
		out.StatusCode = arkAPIErr.HTTPStatusCode
		if arkAPIErr.Code == "AuthenticationError" {
			out.Unauthorized = true
		}
	case errors.As(err, &arkReqErr):
		out.StatusCode = arkReqErr.HTTPStatusCode
	}

	if out.StatusCode == http.StatusUnauthorized {
		out.Unauthorized = true
	}

	if !out.Unauthorized && out.StatusCode == 0 {
		msg := strings.ToLower(err.Error())
		for _, marker := range authMarkers {
			if strings.Contains(msg, marker) {
				out.Unauthorized = true
				break
			}
		}
	}

	return out
}
