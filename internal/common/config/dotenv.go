package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotenvIfPresent: 주어진 경로(기본 .env)의 dotenv 파일을 순서대로 로드합니다.
// 파일이 없으면 건너뛰며, 이미 설정된 환경 변수는 덮어쓰지 않습니다.
func LoadDotenvIfPresent(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	loaded := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("stat dotenv file failed path=%s: %w", path, err)
		}
		loaded = append(loaded, path)
	}

	if len(loaded) == 0 {
		return nil
	}
	if err := godotenv.Load(loaded...); err != nil {
		return fmt.Errorf("load dotenv files failed paths=%v: %w", loaded, err)
	}
	return nil
}
