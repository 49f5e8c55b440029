package fetch

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"unicode"
)

// fallbackURL URL解析失败时用于生成文件名的占位URL
const fallbackURL = "http://example.com"

// NameRegistry 本次运行中已分配的文件名集合
// 被所有并发worker共享,一个运行一个实例,不跨运行持久化
type NameRegistry struct {
	mu   sync.Mutex
	used map[string]struct{}
}

// NewNameRegistry 创建文件名注册表
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{
		used: make(map[string]struct{}),
	}
}

// Claim 根据URL派生一个文件系统安全且不冲突的文件名并登记
//
// 基础名为 host+path,'/'替换为'_',
// 非字母数字且非'_' '-' '.'的字符替换为'_'
// 基础名已被占用时依次尝试 _2、_3…直到找到空闲名
//
// 检查与登记在同一个临界区内完成: 拆成两步的话
// 两个worker可能算出同一个名字,后写的文件会悄悄覆盖先写的
func (r *NameRegistry) Claim(rawURL string) string {
	base := baseName(rawURL)

	r.mu.Lock()
	defer r.mu.Unlock()

	name := base
	counter := 2
	for {
		if _, taken := r.used[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s_%d", base, counter)
		counter++
	}

	r.used[name] = struct{}{}
	return name
}

// baseName 从URL派生基础文件名
// 解析失败退回固定占位URL;解析成功但没有主机名时
// 主机部分记为"unknown",路径照常保留
func baseName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		parsed, _ = url.Parse(fallbackURL)
	}

	host := parsed.Hostname()
	if host == "" {
		host = "unknown"
	}

	name := host + parsed.Path
	name = strings.ReplaceAll(name, "/", "_")

	return strings.Map(func(c rune) rune {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '-' || c == '.' {
			return c
		}
		return '_'
	}, name)
}
