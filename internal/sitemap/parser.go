package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/RecoveryAshes/SiteMapCrawl/internal/utils"
	"golang.org/x/net/html/charset"
)

// sitemap标准定义的两种互斥文档形状:
//   <urlset><url><loc>…</loc></url>…</urlset>            页面列表
//   <sitemapindex><sitemap><loc>…</loc></sitemap>…</sitemapindex>  子sitemap索引
// 除loc以外的元素(lastmod、changefreq等)全部忽略

// locEntry 只提取loc字段,其余元素忽略
type locEntry struct {
	Loc string `xml:"loc"`
}

// urlSet <urlset>文档
type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	URLs    []locEntry `xml:"url"`
}

// sitemapIndex <sitemapindex>文档
type sitemapIndex struct {
	XMLName  xml.Name   `xml:"sitemapindex"`
	Sitemaps []locEntry `xml:"sitemap"`
}

// Resolver 把根sitemap展开为扁平的页面URL列表
type Resolver struct {
	fetcher *Fetcher
}

// NewResolver 创建sitemap解析器
func NewResolver(fetcher *Fetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// newDecoder 创建字符集感知的XML解码器
// 按XML声明中的encoding自动转码(非UTF-8的sitemap并不少见)
func newDecoder(content string) *xml.Decoder {
	decoder := xml.NewDecoder(strings.NewReader(content))
	decoder.CharsetReader = charset.NewReaderLabel
	return decoder
}

// rootElement 返回文档第一个起始元素的本地名称
// 在完整解码前先做轻量的结构判断,区分两种文档形状
func rootElement(content string) (string, error) {
	decoder := newDecoder(content)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return "", fmt.Errorf("XML文档中没有起始元素")
		}
		if err != nil {
			return "", fmt.Errorf("解析XML失败: %w", err)
		}
		if start, ok := token.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}

// ResolveAllPageURLs 获取并展开根sitemap,返回全部页面URL
//
// 算法:
//  1. 获取根文档,根据顶层元素判断形状
//  2. 索引文档: 逐个获取子sitemap并按url-set解析,
//     失败的子sitemap记录警告后跳过,不影响其余子sitemap
//  3. url-set文档: 直接返回其loc列表
//
// 页面按父文档中条目出现的顺序追加,不做去重
// (同一URL出现在两个sitemap中就会产生两条结果)
// 只展开一层: 索引里嵌套另一个索引的子项会解析失败并被跳过,
// 不做更深递归 -- 已知限制
func (r *Resolver) ResolveAllPageURLs(rootURL string) ([]string, error) {
	content, err := r.fetcher.Fetch(rootURL)
	if err != nil {
		return nil, err
	}

	root, err := rootElement(content)
	if err != nil {
		return nil, fmt.Errorf("解析sitemap失败 [%s]: %w", rootURL, err)
	}

	switch root {
	case "sitemapindex":
		var index sitemapIndex
		if err := newDecoder(content).Decode(&index); err != nil {
			return nil, fmt.Errorf("解析sitemap索引失败 [%s]: %w", rootURL, err)
		}

		utils.Infof("发现sitemap索引: %s (共%d个子sitemap)", rootURL, len(index.Sitemaps))

		allURLs := make([]string, 0)
		for _, entry := range index.Sitemaps {
			urls, err := r.resolveSingle(entry.Loc)
			if err != nil {
				// 子sitemap失败只影响自身,其余照常处理
				utils.Warnf("跳过子sitemap [%s]: %v", entry.Loc, err)
				continue
			}
			utils.Infof("从 %s 提取了 %d 个URL", entry.Loc, len(urls))
			allURLs = append(allURLs, urls...)
		}
		return allURLs, nil

	case "urlset":
		return parseURLSet(content)

	default:
		return nil, fmt.Errorf("无法识别的sitemap格式 [%s]: 顶层元素为 <%s>", rootURL, root)
	}
}

// resolveSingle 获取并解析一个子sitemap(必须是url-set形状)
func (r *Resolver) resolveSingle(sitemapURL string) ([]string, error) {
	content, err := r.fetcher.Fetch(sitemapURL)
	if err != nil {
		return nil, err
	}
	return parseURLSet(content)
}

// parseURLSet 把url-set文档解析为loc列表,保持文档顺序
func parseURLSet(content string) ([]string, error) {
	var set urlSet
	if err := newDecoder(content).Decode(&set); err != nil {
		return nil, fmt.Errorf("解析sitemap XML失败: %w", err)
	}

	urls := make([]string, 0, len(set.URLs))
	for _, entry := range set.URLs {
		urls = append(urls, entry.Loc)
	}
	return urls, nil
}
