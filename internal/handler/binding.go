package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"chatrelay/internal/pkg/errcode"
)

func init() {
	// 校验错误使用 json 字段名
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindError 将请求绑定错误转换为参数错误
func bindError(err error) *errcode.Error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errcode.Parameter("request body too large")
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fieldError(fe))
		}
		return errcode.Parameter(strings.Join(details, "; "))
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return errcode.Parameter("invalid " + typeErr.Field)
	}

	if errors.Is(err, io.EOF) {
		return errcode.Parameter("empty request body")
	}

	return errcode.Parameter("request body must be a JSON object")
}

// fieldError 单个字段的校验错误描述
func fieldError(fe validator.FieldError) string {
	// 去掉结构体名前缀，例如 RelayRequest.continuous_dialogue[0].role
	_, field, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		field = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return "missing " + field
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return "invalid " + field
	}
}
