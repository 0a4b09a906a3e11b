package commands

import "net/url"

// redactURL hides any password embedded in a backend URL or DSN.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
