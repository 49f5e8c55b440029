package utils

import (
	"net/http"
	"strings"
	"testing"
)

func TestHeaderValidator_ValidateName(t *testing.T) {
	validator := NewHeaderValidator()

	tests := []struct {
		name        string
		headerName  string
		expectError bool
	}{
		{"合法名称-字母", "User-Agent", false},
		{"合法名称-数字", "X-Request-ID-123", false},
		{"非法名称-空格", "User Agent", true},
		{"非法名称-下划线", "User_Agent", true},
		{"非法名称-特殊字符", "User@Agent", true},
		{"非法名称-空字符串", "", true},
		{"禁止头部-Host", "Host", true},
		{"禁止头部-大小写不敏感", "content-length", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateName(tt.headerName)
			if (err != nil) != tt.expectError {
				t.Errorf("期望错误=%v, 实际错误=%v", tt.expectError, err)
			}
		})
	}
}

func TestHeaderValidator_ValidateValue(t *testing.T) {
	validator := NewHeaderValidator()

	tests := []struct {
		name        string
		value       string
		expectError bool
	}{
		{"合法值-普通文本", "Mozilla/5.0 (X11; Linux)", false},
		{"合法值-空字符串", "", false},
		{"合法值-制表符", "a\tb", false},
		{"非法值-换行", "a\nb", true},
		{"非法值-非ASCII", "值", true},
		{"非法值-超长", strings.Repeat("x", MaxHeaderValueLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateValue("X-Test", tt.value)
			if (err != nil) != tt.expectError {
				t.Errorf("期望错误=%v, 实际错误=%v", tt.expectError, err)
			}
		})
	}
}

func TestHeaderValidator_Validate整组(t *testing.T) {
	validator := NewHeaderValidator()

	good := http.Header{"User-Agent": []string{"bot/1.0"}}
	if err := validator.Validate(good); err != nil {
		t.Errorf("合法头部不应报错: %v", err)
	}

	bad := http.Header{"Host": []string{"evil.com"}}
	if err := validator.Validate(bad); err == nil {
		t.Error("禁止头部必须报错")
	}
}

func TestHeaderRedactor(t *testing.T) {
	redactor := NewHeaderRedactor()

	tests := []struct {
		name     string
		header   string
		value    string
		expected string
	}{
		{"普通头部不脱敏", "User-Agent", "bot/1.0", "bot/1.0"},
		{"Bearer只留前缀", "Authorization", "Bearer abc123def456", "Bearer ***"},
		{"长密钥留首尾", "X-Api-Key", "aaaabbbbcccc", "aaaa***cccc"},
		{"短密钥全隐藏", "X-Token", "abc", "***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactor.RedactHeaderValue(tt.header, tt.value); got != tt.expected {
				t.Errorf("期望=%q, 实际=%q", tt.expected, got)
			}
		})
	}
}
