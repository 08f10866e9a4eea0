package utils

import (
	"strings"
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals the plaintext")
	}
	if !CheckPasswordHash("correct horse battery staple", hash) {
		t.Error("matching password rejected")
	}
	if CheckPasswordHash("wrong password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestRenderMarkdown(t *testing.T) {
	html := string(RenderMarkdown("**bold** and *italic*"))
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("bold not rendered: %s", html)
	}
	if !strings.Contains(html, "<em>italic</em>") {
		t.Errorf("italic not rendered: %s", html)
	}

	// 脚本必须被消毒掉
	html = string(RenderMarkdown("hello <script>alert(1)</script> world"))
	if strings.Contains(html, "<script>") {
		t.Errorf("script tag survived sanitization: %s", html)
	}
	if !strings.Contains(html, "hello") || !strings.Contains(html, "world") {
		t.Errorf("surrounding text was lost: %s", html)
	}
}

func TestCacheTTL(t *testing.T) {
	c := GetCache()

	c.Set("k1", "v1", time.Minute)
	if got := c.Get("k1"); got != "v1" {
		t.Errorf("Get(k1) = %v, want v1", got)
	}

	// 过期条目按未命中处理
	c.Set("k2", "v2", -time.Second)
	if got := c.Get("k2"); got != nil {
		t.Errorf("expired entry returned %v", got)
	}

	c.Delete("k1")
	if got := c.Get("k1"); got != nil {
		t.Errorf("deleted entry returned %v", got)
	}
}

func TestRandStringBytesMaskImpr(t *testing.T) {
	s := RandStringBytesMaskImpr(8)
	if len(s) != 8 {
		t.Errorf("len = %d, want 8", len(s))
	}
	// 两次生成撞车的概率可以忽略
	if s == RandStringBytesMaskImpr(8) {
		t.Error("two generated ids collided")
	}
}
