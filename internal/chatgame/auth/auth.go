// Package auth 는 관리자 로그인(bcrypt)과 HS256 토큰 발급/검증을 제공한다.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	cgconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/config"
	cgerr "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/errors"
)

const tokenIssuer = "chatgame"

// ErrDisabled 는 관리자 자격 증명이 설정되지 않았을 때 반환된다.
var ErrDisabled = errors.New("admin auth disabled")

// Service: 관리자 인증 서비스. 비활성 상태에서는 모든 요청을 거부한다.
type Service struct {
	enabled  bool
	username string
	hash     []byte
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewService: 설정으로 인증 서비스를 만든다. 평문 비밀번호만 주어지면 기동 시 bcrypt 로 해시한다.
func NewService(cfg cgconfig.AdminConfig) (*Service, error) {
	if !cfg.Enabled() {
		return &Service{now: time.Now}, nil
	}

	hash := []byte(cfg.PasswordHash)
	if len(hash) == 0 {
		generated, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password failed: %w", err)
		}
		hash = generated
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("invalid ADMIN_PASSWORD_HASH: %w", err)
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = cgconfig.DefaultAdminTokenTTLHours * time.Hour
	}
	return &Service{
		enabled:  true,
		username: cfg.Username,
		hash:     hash,
		secret:   []byte(cfg.JWTSecret),
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// Enabled: 관리자 API 사용 가능 여부
func (s *Service) Enabled() bool { return s.enabled }

// Login: 자격 증명을 확인하고 서명된 토큰과 만료 시각을 반환한다.
func (s *Service) Login(username string, password string) (string, time.Time, error) {
	if !s.enabled {
		return "", time.Time{}, ErrDisabled
	}
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.hash, []byte(password))
	if !userOK || passErr != nil {
		return "", time.Time{}, cgerr.AuthError{Reason: "invalid credentials"}
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   s.username,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token failed: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify: 토큰을 검증하고 subject 를 반환한다. 만료는 AuthError{Expired: true}.
func (s *Service) Verify(token string) (string, error) {
	if !s.enabled {
		return "", ErrDisabled
	}
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", cgerr.AuthError{Reason: "token expired", Expired: true}
	}
	if err != nil {
		return "", cgerr.AuthError{Reason: "invalid token"}
	}
	if claims.Subject != s.username {
		return "", cgerr.AuthError{Reason: "unknown subject"}
	}
	return claims.Subject, nil
}
