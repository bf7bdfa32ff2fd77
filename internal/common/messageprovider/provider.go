// Package messageprovider 는 YAML 로 정의된 사용자 노출 문구를 점(.) 경로 키로 조회한다.
package messageprovider

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider: 문구 트리를 보관하고 템플릿 치환을 수행합니다.
type Provider struct {
	root map[string]any
}

// Param: "{key}" 자리표시자에 들어갈 값입니다.
type Param struct {
	Key   string
	Value any
}

// P: Param 생성 헬퍼입니다.
func P(key string, value any) Param {
	return Param{Key: key, Value: value}
}

// NewFromYAML: YAML 문자열에서 Provider 를 만듭니다. 빈 문서는 빈 Provider 가 됩니다.
func NewFromYAML(yamlContent string) (*Provider, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(yamlContent), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal yaml failed: %w", err)
	}
	if len(doc.Content) == 0 {
		return &Provider{root: map[string]any{}}, nil
	}

	top := doc.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("yaml root must be a mapping, got kind=%d", top.Kind)
	}

	var root map[string]any
	if err := top.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode yaml root failed: %w", err)
	}
	if root == nil {
		root = map[string]any{}
	}
	return &Provider{root: root}, nil
}

// Has: 키가 문자열 문구로 정의되어 있는지 확인합니다.
func (p *Provider) Has(key string) bool {
	if p == nil {
		return false
	}
	value, ok := lookup(p.root, key)
	if !ok {
		return false
	}
	_, isString := value.(string)
	return isString
}

// Get: 키에 해당하는 문구를 치환해서 돌려줍니다. 키가 없으면 키 자체를 반환합니다.
func (p *Provider) Get(key string, params ...Param) string {
	if p == nil || strings.TrimSpace(key) == "" {
		return key
	}

	value, ok := lookup(p.root, key)
	if !ok {
		return key
	}

	template, ok := value.(string)
	if !ok {
		return fmt.Sprint(value)
	}
	if len(params) == 0 {
		return template
	}

	pairs := make([]string, 0, len(params)*2)
	for _, param := range params {
		pairs = append(pairs, "{"+param.Key+"}", fmt.Sprint(param.Value))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func lookup(root map[string]any, key string) (any, bool) {
	var current any = root
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

// NewFromYAMLAtPath: rootPath 아래의 하위 트리만 사용하는 Provider 를 만듭니다.
func NewFromYAMLAtPath(yamlContent string, rootPath string) (*Provider, error) {
	p, err := NewFromYAML(yamlContent)
	if err != nil {
		return nil, err
	}
	if rootPath == "" {
		return p, nil
	}
	sub, ok := lookup(p.root, rootPath)
	if !ok {
		return nil, fmt.Errorf("yaml root path not found: %s", rootPath)
	}
	subMap, ok := sub.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("yaml root path is not a mapping: %s", rootPath)
	}
	return &Provider{root: subMap}, nil
}
