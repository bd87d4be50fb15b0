package service

import (
	"testing"
)

func TestClassifyCategoryByTitle(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"대금 지급", "대금 지급 조건"},
		{"비밀 유지 의무", "비밀 유지"},
		{"지적재산권의 귀속", "지적재산권"},
		{"계약의 해지", "계약 해지"},
		{"납품 및 검수", "납품 및 검수"},
		{"분쟁 해결", "분쟁 해결"},
		{"계약의 목적", "계약 목적"},
	}

	for _, tt := range tests {
		got := ClassifyCategory(tt.title, "")
		if got != tt.expected {
			t.Errorf("ClassifyCategory(%q): expected %q, got %q", tt.title, tt.expected, got)
		}
	}
}

func TestClassifyCategoryTitleBeatsContent(t *testing.T) {
	// Title mentions payment, content mentions confidentiality; title wins
	got := ClassifyCategory("대금의 지급", "을은 업무상 알게 된 정보를 비밀로 유지한다")
	if got != "대금 지급 조건" {
		t.Errorf("Expected title rule to win, got %q", got)
	}
}

func TestClassifyCategoryByContent(t *testing.T) {
	got := ClassifyCategory("제5조", "검수를 완료한 날로부터 14일 이내에 지급한다")
	if got != "대금 지급 조건" {
		t.Errorf("Expected content rule match, got %q", got)
	}
}

func TestClassifyCategoryFallback(t *testing.T) {
	// Any input yields a category, including empty strings
	for _, pair := range [][2]string{
		{"", ""},
		{"알 수 없는 제목", "아무 규칙에도 맞지 않는 내용"},
	} {
		got := ClassifyCategory(pair[0], pair[1])
		if got != FallbackCategory {
			t.Errorf("ClassifyCategory(%q, %q): expected fallback, got %q", pair[0], pair[1], got)
		}
	}
}
