package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/go-ddd-user-mediator/config"
)

// Option pattern
type Option func(*EmailData)

func WithActionURL(url string) Option { return func(d *EmailData) { d.ActionURL = strings.TrimSpace(url) } }

func WithExpiresIn(dur time.Duration) Option {
	return func(d *EmailData) {
		if dur <= 0 {
			return
		}
		utc := time.Now().Add(dur).UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04")
	}
}

// NewBaseEmailData fills branding from cfg, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ string, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,

		LogoURL:        cfg.LogoURL,
		SupportURL:     cfg.SupportURL,
		PrivacyURL:     cfg.PrivacyURL,
		UnsubscribeURL: cfg.UnsubscribeURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewData builds template data for a notification kind, setting the link
// lifetime from the matching token TTL.
func NewData(cfg *config.Config, kind, name, email, link string) map[string]any {
	ttl := time.Duration(0)
	switch kind {
	case AccountActivation:
		ttl = cfg.ActivationTTL
	case PasswordReset:
		ttl = cfg.ResetTTL
	}
	return ToMap(NewBaseEmailData(cfg, kind, name, email, WithActionURL(link), WithExpiresIn(ttl)))
}
