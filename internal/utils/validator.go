package utils

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/RecoveryAshes/SiteMapCrawl/internal/models"
)

const (
	// MaxHeaderValueLength HTTP头部值最大长度 (8KB)
	MaxHeaderValueLength = 8192
)

var (
	// ForbiddenHeaders 禁止用户配置的头部 (由HTTP客户端自己管理)
	ForbiddenHeaders = []string{
		"Host",
		"Content-Length",
		"Transfer-Encoding",
		"Connection",
	}
)

// HeaderValidator 验证HTTP头部是否符合RFC 7230规范
type HeaderValidator struct {
	// nameRegex 头部名称: 字母数字和连字符
	nameRegex *regexp.Regexp

	// valueRegex 头部值: 可打印ASCII加空格/制表符
	valueRegex *regexp.Regexp

	// forbiddenHeaders 禁止用户配置的头部 (小写)
	forbiddenHeaders map[string]bool
}

// NewHeaderValidator 创建验证器
func NewHeaderValidator() *HeaderValidator {
	forbidden := make(map[string]bool)
	for _, h := range ForbiddenHeaders {
		forbidden[strings.ToLower(h)] = true
	}

	return &HeaderValidator{
		nameRegex:        regexp.MustCompile(`^[A-Za-z0-9-]+$`),
		valueRegex:       regexp.MustCompile(`^[\x20-\x7E\t]*$`),
		forbiddenHeaders: forbidden,
	}
}

// ValidateName 验证头部名称
func (v *HeaderValidator) ValidateName(name string) error {
	if name == "" {
		return &models.ValidationError{
			Field:      "name",
			HeaderName: name,
			Reason:     "头部名称不能为空",
		}
	}

	if !v.nameRegex.MatchString(name) {
		return &models.ValidationError{
			Field:      "name",
			HeaderName: name,
			Reason:     "头部名称包含非法字符",
			Suggestion: "只允许字母、数字和连字符",
		}
	}

	if v.forbiddenHeaders[strings.ToLower(name)] {
		return &models.ValidationError{
			Field:      "name",
			HeaderName: name,
			Reason:     "该头部由HTTP客户端管理,不允许自定义",
		}
	}

	return nil
}

// ValidateValue 验证头部值
func (v *HeaderValidator) ValidateValue(name, value string) error {
	if len(value) > MaxHeaderValueLength {
		return &models.ValidationError{
			Field:      "value",
			HeaderName: name,
			Reason:     fmt.Sprintf("头部值过长: %d 字节 (最大 %d 字节)", len(value), MaxHeaderValueLength),
		}
	}

	if !v.valueRegex.MatchString(value) {
		return &models.ValidationError{
			Field:      "value",
			HeaderName: name,
			Reason:     "头部值包含不可打印字符",
			Suggestion: "只允许可打印ASCII、空格和制表符",
		}
	}

	return nil
}

// Validate 验证一组头部
func (v *HeaderValidator) Validate(headers http.Header) error {
	for name, values := range headers {
		if err := v.ValidateName(name); err != nil {
			return err
		}
		for _, value := range values {
			if err := v.ValidateValue(name, value); err != nil {
				return err
			}
		}
	}
	return nil
}
