package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	cgconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/config"
	cgerr "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(cgconfig.AdminConfig{
		Username:  "admin",
		Password:  "admin1234",
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})
	if err != nil {
		t.Fatalf("new service failed: %v", err)
	}
	return svc
}

func TestService_LoginAndVerify(t *testing.T) {
	svc := newTestService(t)

	token, expiresAt, err := svc.Login("admin", "admin1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("unexpected token=%q expiresAt=%v", token, expiresAt)
	}

	sub, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if sub != "admin" {
		t.Errorf("expected subject admin, got %s", sub)
	}
}

func TestService_LoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t)

	tests := []struct{ user, pass string }{
		{"admin", "wrong"},
		{"root", "admin1234"},
		{"", ""},
	}
	for _, tt := range tests {
		if _, _, err := svc.Login(tt.user, tt.pass); !errors.As(err, new(cgerr.AuthError)) {
			t.Errorf("login(%q, %q): expected AuthError, got %v", tt.user, tt.pass, err)
		}
	}
}

func TestService_VerifyExpiredAndTampered(t *testing.T) {
	svc := newTestService(t)
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }
	token, _, err := svc.Login("admin", "admin1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	svc.now = time.Now

	var authErr cgerr.AuthError
	if _, err := svc.Verify(token); !errors.As(err, &authErr) || !authErr.Expired {
		t.Errorf("expected expired AuthError, got %v", err)
	}

	other, err := NewService(cgconfig.AdminConfig{Username: "admin", Password: "admin1234", JWTSecret: "other"})
	if err != nil {
		t.Fatalf("new service failed: %v", err)
	}
	fresh, _, _ := other.Login("admin", "admin1234")
	if _, err := svc.Verify(fresh); !errors.As(err, &authErr) || authErr.Expired {
		t.Errorf("expected invalid AuthError for foreign signature, got %v", err)
	}
	if _, err := svc.Verify("not-a-token"); err == nil {
		t.Error("expected error for garbage token")
	}
}

func TestService_PrehashedPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	svc, err := NewService(cgconfig.AdminConfig{Username: "admin", PasswordHash: string(hash), JWTSecret: "k"})
	if err != nil {
		t.Fatalf("new service failed: %v", err)
	}
	if _, _, err := svc.Login("admin", "s3cret"); err != nil {
		t.Errorf("login with prehashed password failed: %v", err)
	}

	if _, err := NewService(cgconfig.AdminConfig{PasswordHash: "plain", JWTSecret: "k"}); err == nil {
		t.Error("expected error for malformed hash")
	}
}

func TestService_Disabled(t *testing.T) {
	svc, err := NewService(cgconfig.AdminConfig{Username: "admin"})
	if err != nil {
		t.Fatalf("new service failed: %v", err)
	}
	if svc.Enabled() {
		t.Fatal("expected disabled service")
	}
	if _, _, err := svc.Login("admin", "admin1234"); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
	if _, err := svc.Verify("x"); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}

func TestLoginLimiter(t *testing.T) {
	l := NewLoginLimiter(60, 2)
	base := time.Now()
	l.now = func() time.Time { return base }

	if !l.Allow("1.1.1.1") || !l.Allow("1.1.1.1") {
		t.Fatal("burst should be allowed")
	}
	if l.Allow("1.1.1.1") {
		t.Error("third immediate attempt should be throttled")
	}
	if !l.Allow("2.2.2.2") {
		t.Error("other keys are independent")
	}

	l.now = func() time.Time { return base.Add(time.Second) }
	if !l.Allow("1.1.1.1") {
		t.Error("token should refill after one second")
	}

	l.now = func() time.Time { return base.Add(time.Hour) }
	if n := l.Prune(time.Minute); n != 2 {
		t.Errorf("expected 2 pruned, got %d", n)
	}
}
