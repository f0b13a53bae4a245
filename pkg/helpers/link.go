package helpers

import "net/url"

// LinkWithToken sets the token query parameter on base. An empty or
// unparsable base yields the bare token.
func LinkWithToken(base, token string) string {
	u, err := url.Parse(base)
	if err != nil || base == "" {
		return token
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
