package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	// 校验失败时以label标签内容提示
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		label := fld.Tag.Get("label")
		if label == "" {
			return fld.Name
		}
		return label
	})
}

type CustomValidator struct{}

func (v *CustomValidator) Validate(i interface{}) error {
	err := validate.Struct(i)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var msgs []string
	for _, e := range errs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s不能为空", e.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s长度不能超过%s", e.Field(), e.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s不能小于%s", e.Field(), e.Param()))
		case "gte", "lte":
			msgs = append(msgs, fmt.Sprintf("%s超出取值范围", e.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s取值无效", e.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s校验失败", e.Field()))
		}
	}
	return fmt.Errorf("%s", strings.Join(msgs, ";"))
}
