package service

import (
	"strings"
)

// categoryRule maps a keyword to a clause category. Rules are data so the
// fallback logic stays testable and extensible without code changes.
type categoryRule struct {
	Keyword  string
	Category string
}

// FallbackCategory is assigned when no rule matches. It doubles as the
// catch-all section of the KR structure.
const FallbackCategory = "기타 조항"

// Evaluated in order; title rules take priority over content rules.
var titleRules = []categoryRule{
	{"대금", "대금 지급 조건"},
	{"지급", "대금 지급 조건"},
	{"결제", "대금 지급 조건"},
	{"정산", "정산"},
	{"비밀", "비밀 유지"},
	{"기밀", "비밀 유지"},
	{"지적재산", "지적재산권"},
	{"저작권", "지적재산권"},
	{"특허", "지적재산권"},
	{"손해배상", "손해배상"},
	{"배상", "손해배상"},
	{"해지", "계약 해지"},
	{"해제", "계약 해지"},
	{"하자", "하자 보수"},
	{"보수", "하자 보수"},
	{"납품", "납품 및 검수"},
	{"검수", "납품 및 검수"},
	{"인도", "납품 및 검수"},
	{"분쟁", "분쟁 해결"},
	{"관할", "분쟁 해결"},
	{"중재", "분쟁 해결"},
	{"목적", "계약 목적"},
	{"범위", "용역 범위"},
}

var contentRules = []categoryRule{
	{"지급한다", "대금 지급 조건"},
	{"계좌로 입금", "대금 지급 조건"},
	{"누설하여서는", "비밀 유지"},
	{"비밀로 유지", "비밀 유지"},
	{"저작권은", "지적재산권"},
	{"손해를 배상", "손해배상"},
	{"계약을 해지할 수 있다", "계약 해지"},
	{"하자가 발견", "하자 보수"},
	{"검수를 완료", "납품 및 검수"},
	{"관할 법원", "분쟁 해결"},
}

// ClassifyCategory is the deterministic fallback used when no
// reviewer-assigned category exists. It is total: any title/content pair,
// including empty strings, yields a category from the fixed set.
func ClassifyCategory(title, content string) string {
	for _, rule := range titleRules {
		if strings.Contains(title, rule.Keyword) {
			return rule.Category
		}
	}
	for _, rule := range contentRules {
		if strings.Contains(content, rule.Keyword) {
			return rule.Category
		}
	}
	return FallbackCategory
}
