// Package lua 는 Valkey Lua 스크립트를 이름으로 등록하고 EVALSHA 경로로 실행한다.
package lua

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"
	"golang.org/x/sync/errgroup"
)

// Script: Registry 에 등록할 Lua 스크립트 정의입니다.
type Script struct {
	Name     string
	Source   string
	ReadOnly bool
}

// Registry 는 이름 -> valkey.Lua 매핑이다.
type Registry struct {
	scripts map[string]*valkey.Lua
	sources map[string]string
}

// NewRegistry: 스크립트 목록으로 Registry 를 만듭니다. 같은 이름은 뒤의 정의가 이깁니다.
func NewRegistry(scripts ...Script) *Registry {
	r := &Registry{
		scripts: make(map[string]*valkey.Lua, len(scripts)),
		sources: make(map[string]string, len(scripts)),
	}
	for _, s := range scripts {
		if s.ReadOnly {
			r.scripts[s.Name] = valkey.NewLuaScriptReadOnly(s.Source)
		} else {
			r.scripts[s.Name] = valkey.NewLuaScript(s.Source)
		}
		r.sources[s.Name] = s.Source
	}
	return r
}

// Exec: 등록된 스크립트를 실행합니다. 스크립트 자체의 Redis 오류는 반환된 결과의 Error() 로 확인합니다.
func (r *Registry) Exec(ctx context.Context, client valkey.Client, name string, keys []string, args []string) (valkey.ValkeyResult, error) {
	if r == nil {
		return valkey.ValkeyResult{}, fmt.Errorf("lua registry is nil")
	}
	if client == nil {
		return valkey.ValkeyResult{}, fmt.Errorf("valkey client is nil")
	}
	script, ok := r.scripts[name]
	if !ok {
		return valkey.ValkeyResult{}, fmt.Errorf("unknown lua script: %s", name)
	}
	return script.Exec(ctx, client, keys, args), nil
}

// Preload: 모든 스크립트를 노드마다 SCRIPT LOAD 합니다.
func (r *Registry) Preload(ctx context.Context, client valkey.Client) error {
	if r == nil {
		return fmt.Errorf("lua registry is nil")
	}
	if client == nil {
		return fmt.Errorf("valkey client is nil")
	}

	nodes := client.Nodes()
	if len(nodes) == 0 {
		nodes = map[string]valkey.Client{"default": client}
	}

	g, gctx := errgroup.WithContext(ctx)
	for name, source := range r.sources {
		for _, node := range nodes {
			g.Go(func() error {
				if err := node.Do(gctx, node.B().ScriptLoad().Script(source).Build()).Error(); err != nil {
					return fmt.Errorf("lua preload failed (%s): %w", name, err)
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("lua preload: %w", err)
	}
	return nil
}

// Len: 등록된 스크립트 수입니다.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.scripts)
}
