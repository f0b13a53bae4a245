package templates

import (
	"strings"
	"testing"
	"time"

	"github.com/oksasatya/go-ddd-user-mediator/config"
)

func TestRender_KnownTemplates(t *testing.T) {
	cfg := &config.Config{AppName: "users", CompanyName: "Acme", ActivationTTL: time.Hour, ResetTTL: time.Hour}
	for _, kind := range []string{AccountActivation, PasswordReset} {
		t.Run(kind, func(t *testing.T) {
			data := NewData(cfg, kind, "Ann", "ann@x.com", "http://localhost/x?token=abc")
			subject, text, html, err := Render(kind, data)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if strings.TrimSpace(subject) == "" {
				t.Error("empty subject")
			}
			if !strings.Contains(text, "http://localhost/x?token=abc") {
				t.Errorf("text missing link:\n%s", text)
			}
			if !strings.Contains(html, "Ann") || !strings.Contains(html, "token=abc") {
				t.Errorf("html missing fields:\n%s", html)
			}
		})
	}
}

func TestRender_Unknown(t *testing.T) {
	if _, _, _, err := Render("nope", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestDefaultFn(t *testing.T) {
	if got := defaultFn("x", ""); got != "x" {
		t.Errorf("empty string: %v", got)
	}
	if got := defaultFn("x", "y"); got != "y" {
		t.Errorf("set string: %v", got)
	}
	if got := defaultFn("x", 0); got != "x" {
		t.Errorf("zero int: %v", got)
	}
}

func TestRender_SubjectIsSingleLine(t *testing.T) {
	cfg := &config.Config{AppName: "users"}
	subject, _, _, err := Render(AccountActivation, NewData(cfg, AccountActivation, "Ann", "ann@x.com", "http://x"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.ContainsAny(subject, "\r\n") {
		t.Errorf("subject = %q", subject)
	}
}
