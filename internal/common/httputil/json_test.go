package httputil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

func TestReadJSON_Success(t *testing.T) {
	body := `{"name":"test","value":123}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var out struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	if err := ReadJSON(req, &out, 1024); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Name != "test" || out.Value != 123 {
		t.Errorf("unexpected decode result: %+v", out)
	}
}

func TestReadJSON_EmptyBody(t *testing.T) {
	for _, body := range []string{"", "   \n"} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		var out struct{}
		if err := ReadJSON(req, &out, 1024); err != ErrEmptyBody {
			t.Errorf("body %q: expected ErrEmptyBody, got %v", body, err)
		}
	}
}

func TestReadJSON_TooLarge(t *testing.T) {
	body := `{"name":"` + strings.Repeat("x", 100) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var out struct{}
	if err := ReadJSON(req, &out, 16); err != ErrBodyTooLarge {
		t.Errorf("expected ErrBodyTooLarge, got %v", err)
	}
}

func TestReadJSON_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{invalid json}`))
	var out struct{}
	if err := ReadJSON(req, &out, 1024); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestWriteSuccess(t *testing.T) {
	rr := httptest.NewRecorder()
	if err := WriteSuccess(rr, http.StatusOK, map[string]any{"game_id": "g1"}, " 시작 "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get(HeaderContentType); ct != ContentTypeJSON {
		t.Errorf("unexpected content type %q", ct)
	}

	var env struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
		Message string            `json:"message"`
		Error   *string           `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !env.Success || env.Data["game_id"] != "g1" || env.Message != "시작" {
		t.Errorf("unexpected envelope: %+v", env)
	}
	if env.Error != nil {
		t.Errorf("error field should be omitted, got %q", *env.Error)
	}
}

func TestWriteFailure(t *testing.T) {
	rr := httptest.NewRecorder()
	if err := WriteFailure(rr, http.StatusBadRequest, "INVALID_REQUEST", "게임 ID가 필요합니다."); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `"success":false`) || !strings.Contains(body, "게임 ID가 필요합니다.") {
		t.Errorf("unexpected body: %s", body)
	}
	if strings.Contains(body, `"data"`) {
		t.Errorf("data should be omitted: %s", body)
	}
}
