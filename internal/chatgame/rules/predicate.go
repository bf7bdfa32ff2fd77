// Package rules 는 캐릭터 응답이 승리 조건을 만족하는지 판정하는 술어를 제공한다.
// 판정은 문자열 패턴 기반이며 의미 해석은 하지 않는다.
package rules

import (
	"regexp"
	"strings"

	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
)

// Predicate: 캐릭터 응답 하나를 보고 승리 여부를 판정한다.
type Predicate func(reply string) bool

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`010-\d{3,4}-\d{4}`),
	regexp.MustCompile(`010\s?\d{3,4}\s?\d{4}`),
	regexp.MustCompile(`전화번호[는은]?\s?01\d[-\s]?\d{3,4}[-\s]?\d{4}`),
}

// PhoneNumber: 응답에 휴대전화 번호 형식이 있으면 승리
func PhoneNumber(reply string) bool {
	for _, p := range phonePatterns {
		if p.MatchString(reply) {
			return true
		}
	}
	return false
}

// Never: 항상 false. 판정 규칙이 없는 항목에 쓴다.
func Never(string) bool { return false }

// Keywords: include 중 하나를 포함하고 exclude 는 하나도 포함하지 않으면 승리
func Keywords(include []string, exclude []string) Predicate {
	return func(reply string) bool {
		for _, n := range exclude {
			if strings.Contains(reply, n) {
				return false
			}
		}
		for _, a := range include {
			if strings.Contains(reply, a) {
				return true
			}
		}
		return false
	}
}

// JobOffer: 면접 시나리오의 채용 제안 판정
var JobOffer = Keywords(
	[]string{"합격", "채용", "함께 일하", "입사", "오퍼"},
	[]string{"불합격", "채용하기 어렵", "함께 일하기 어렵", "아쉽지만"},
)

// Resolver: 카테고리 -> 술어 레지스트리. 카테고리가 없으면 승리 조건 키워드로, 그것도 없으면 Never.
type Resolver struct {
	byCategory map[string]Predicate
	byKeyword  []keywordRule
}

type keywordRule struct {
	keywords  []string
	predicate Predicate
}

// NewResolver: 기본 규칙이 등록된 Resolver
func NewResolver() *Resolver {
	r := &Resolver{byCategory: make(map[string]Predicate)}
	r.RegisterCategory("플러팅", PhoneNumber)
	r.RegisterCategory("비즈니스", JobOffer)
	r.RegisterKeywords(PhoneNumber, "전화번호", "번호", "phone")
	r.RegisterKeywords(JobOffer, "일자리", "채용", "합격")
	return r
}

// RegisterCategory: 카테고리 술어를 등록(덮어쓰기)한다.
func (r *Resolver) RegisterCategory(category string, p Predicate) {
	r.byCategory[strings.TrimSpace(category)] = p
}

// RegisterKeywords: 승리 조건 문구에 keywords 중 하나가 있으면 p 를 쓰도록 등록한다. 먼저 등록한 규칙이 우선한다.
func (r *Resolver) RegisterKeywords(p Predicate, keywords ...string) {
	r.byKeyword = append(r.byKeyword, keywordRule{keywords: keywords, predicate: p})
}

// Resolve: 세션에 적용할 술어를 고른다.
func (r *Resolver) Resolve(s *model.Session) Predicate {
	if p, ok := r.byCategory[strings.TrimSpace(s.Category)]; ok {
		return p
	}
	condition := strings.ToLower(s.WinCondition)
	for _, rule := range r.byKeyword {
		for _, kw := range rule.keywords {
			if strings.Contains(condition, strings.ToLower(kw)) {
				return rule.predicate
			}
		}
	}
	return Never
}
