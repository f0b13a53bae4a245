package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"io"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Template names match entity.NotificationKind values. Each name has a
// <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl file.
const (
	AccountActivation = "account_activation"
	PasswordReset     = "password_reset"
)

// EmailData is the payload every template renders against.
type EmailData struct {
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`

	CompanyName    string `json:"CompanyName"`
	CompanyAddress string `json:"CompanyAddress"`
	AppName        string `json:"AppName"`

	LogoURL        string `json:"LogoURL"`
	SupportURL     string `json:"SupportURL"`
	PrivacyURL     string `json:"PrivacyURL"`
	UnsubscribeURL string `json:"UnsubscribeURL"`

	// ActionURL is the activation or reset link carrying the signed token.
	ActionURL string `json:"ActionURL"`

	ExpiresAt     time.Time `json:"ExpiresAt"`
	ExpiresAtText string    `json:"ExpiresAtText"`
}

// ToMap flattens d into the map carried by a queued EmailJob.
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn backs {{ .Value | default "Fallback" }}.
func defaultFn(fallback any, value any) any {
	if s, ok := value.(string); ok {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.IsZero() {
		return fallback
	}
	return value
}

func funcs() map[string]any {
	return map[string]any{
		"now":        func() time.Time { return time.Now().UTC() },
		"formatTime": func(t time.Time, layout string) string { return t.Format(layout) },
		"upper":      strings.ToUpper,
		"default":    defaultFn,
	}
}

// The embedded set is parsed once; a broken template fails at init.
var (
	textSet = texttpl.Must(texttpl.New("text").Funcs(funcs()).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl"))
	htmlSet = htmpl.Must(htmpl.New("html").Funcs(funcs()).ParseFS(FS, "*.html.tmpl"))
)

type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

func execute(set executor, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %q: %w", name, err)
	}
	return buf.String(), nil
}

// Render produces the subject, plain-text and HTML bodies for name.
func Render(name string, data any) (subject, text, html string, err error) {
	if textSet.Lookup(name+".subject.tmpl") == nil {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	if subject, err = execute(textSet, name+".subject.tmpl", data); err != nil {
		return "", "", "", err
	}
	if text, err = execute(textSet, name+".text.tmpl", data); err != nil {
		return "", "", "", err
	}
	if html, err = execute(htmlSet, name+".html.tmpl", data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
