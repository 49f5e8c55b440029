package fetch

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_结果按派发顺序(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 让先派发的任务更晚完成,验证结果顺序与完成顺序无关
		if r.URL.Path == "/slow" {
			time.Sleep(100 * time.Millisecond)
		}
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	urls := []string{
		server.URL + "/slow",
		server.URL + "/fast1",
		server.URL + "/fast2",
	}

	scheduler := NewScheduler(testClient(), 3, t.TempDir(), false, nil)
	results := scheduler.Run(urls)

	if len(results) != len(urls) {
		t.Fatalf("期望结果数=%d, 实际=%d", len(urls), len(results))
	}
	for i, result := range results {
		if result.URL != urls[i] {
			t.Errorf("results[%d]: 期望URL=%s, 实际=%s", i, urls[i], result.URL)
		}
	}
}

func TestScheduler_并发上限(t *testing.T) {
	const limit = 4
	const total = 32

	var inflight, maxInflight int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := atomic.AddInt64(&inflight, 1)
		defer atomic.AddInt64(&inflight, -1)

		// 记录观测到的最大并发
		for {
			max := atomic.LoadInt64(&maxInflight)
			if current <= max || atomic.CompareAndSwapInt64(&maxInflight, max, current) {
				break
			}
		}

		time.Sleep(20 * time.Millisecond)
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	urls := make([]string, total)
	for i := range urls {
		urls[i] = fmt.Sprintf("%s/p%d", server.URL, i)
	}

	scheduler := NewScheduler(testClient(), limit, t.TempDir(), false, nil)
	results := scheduler.Run(urls)

	if len(results) != total {
		t.Fatalf("期望结果数=%d, 实际=%d", total, len(results))
	}
	if observed := atomic.LoadInt64(&maxInflight); observed > limit {
		t.Errorf("并发超过上限: 观测到%d, 上限%d", observed, limit)
	}
}

func TestScheduler_失败不中断运行(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	deadServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := deadServer.URL
	deadServer.Close()

	urls := []string{
		server.URL + "/1",
		deadURL + "/2", // 必然传输失败
		server.URL + "/3",
	}

	scheduler := NewScheduler(testClient(), 2, t.TempDir(), false, nil)
	results := scheduler.Run(urls)

	succeeded, failed := 0, 0
	for i := range results {
		if results[i].Failed() {
			failed++
		} else {
			succeeded++
		}
	}

	if succeeded != 2 || failed != 1 {
		t.Errorf("期望成功=2失败=1, 实际成功=%d失败=%d", succeeded, failed)
	}
	if succeeded+failed != len(results) {
		t.Errorf("成功+失败必须等于总数: %d+%d != %d", succeeded, failed, len(results))
	}
	if !results[1].Failed() {
		t.Errorf("results[1]应为失败项")
	}
}
