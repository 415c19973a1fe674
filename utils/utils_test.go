package utils

import (
	"net/http/httptest"
	"testing"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/mileusna/useragent"
)

func TestExtractDaysParam(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"missing", "", 30},
		{"valid", "days=7", 7},
		{"not a number", "days=abc", 30},
		{"negative", "days=-5", 30},
		{"zero", "days=0", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/admin/analytics/activity?"+tt.query, nil)
			if got := ExtractDaysParam(r, 30); got != tt.want {
				t.Errorf("ExtractDaysParam() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetDeviceType(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1", "Mobile"},
		{"desktop chrome", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", "Desktop"},
		{"googlebot", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "Bot"},
		{"empty", "", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ua := useragent.Parse(tt.ua)
			if got := GetDeviceType(&ua); got != tt.want {
				t.Errorf("GetDeviceType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := CreateAccessToken("652f1a2b3c4d5e6f78901234", "admin", "admin@digitalmall.com")
	if err != nil {
		t.Fatalf("CreateAccessToken() error = %v", err)
	}

	parsed, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if !parsed.Valid {
		t.Fatal("token reported invalid")
	}

	claims := parsed.Claims.(jwt.MapClaims)
	if claims["userId"] != "652f1a2b3c4d5e6f78901234" {
		t.Errorf("userId claim = %v", claims["userId"])
	}
	if claims["role"] != "admin" {
		t.Errorf("role claim = %v", claims["role"])
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("expected an error for a malformed token")
	}
}
