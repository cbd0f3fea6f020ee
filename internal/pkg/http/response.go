package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chatrelay/internal/locale"
	"chatrelay/internal/model"
	"chatrelay/internal/pkg/errcode"
)

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(lang locale.Language, out *model.ChatOutput) *model.RelayResponse {
	return &model.RelayResponse{
		Code:            http.StatusOK,
		Msg:             lang.Text(locale.Success),
		Result:          out.Result,
		CurrentResponse: out.CurrentResponse,
	}
}

// NewErrorResponse 根据错误类别创建本地化的错误响应
func NewErrorResponse(lang locale.Language, e *errcode.Error) *model.ErrorResponse {
	resp := &model.ErrorResponse{
		Code: e.Kind.Status(),
	}

	switch e.Kind {
	case errcode.KindParameter:
		if len(e.Models) > 0 {
			resp.Msg = lang.Format(locale.UnsupportedModel, strings.Join(e.Models, lang.Separator()))
			resp.SupportedModels = e.Models
		} else {
			resp.Msg = lang.WithDetail(locale.BadRequest, e.Detail)
		}
	case errcode.KindUnauthorized:
		resp.Msg = lang.Format(locale.Unauthorized, e.Detail)
	case errcode.KindAccessDenied:
		resp.Msg = lang.Text(locale.Forbidden)
	case errcode.KindNotFound:
		resp.Msg = lang.Text(locale.NotFound)
	case errcode.KindRateLimited:
		var c model.Ceilings
		if e.Ceilings != nil {
			c = *e.Ceilings
		}
		resp.Msg = lang.RateLimitMessage(c.Second, c.Minute, c.Hour)
		resp.Limits = e.Ceilings
	default:
		if e.Detail != "" {
			resp.Msg = lang.Format(locale.ServerErrorDetail, e.Detail)
		} else {
			resp.Msg = lang.Text(locale.ServerError)
		}
	}

	return resp
}

// Success 写入成功响应
func Success(c *gin.Context, lang locale.Language, out *model.ChatOutput) {
	c.JSON(http.StatusOK, NewSuccessResponse(lang, out))
}

// Error 写入错误响应并终止后续处理
func Error(c *gin.Context, lang locale.Language, err error) {
	e := errcode.From(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(e.Kind.Status(), NewErrorResponse(lang, e))
}
