package sanitizer

import (
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes an external link: forces https, lowercases the
// host, strips www and utm tracking parameters. Returns "" for anything that
// does not parse as a URL with a host.
func NormalizeURL(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	if !strings.HasPrefix(strings.ToLower(s), "http://") && !strings.HasPrefix(strings.ToLower(s), "https://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}

	u.Scheme = "https"
	u.Host = strings.ToLower(u.Host)
	if after, ok := strings.CutPrefix(u.Host, "www."); ok {
		u.Host = after
	}
	u.Path = strings.TrimSuffix(strings.TrimSpace(u.Path), "/")

	q := u.Query()
	qClean := url.Values{}
	for k, v := range q {
		key := strings.TrimSpace(strings.ToLower(k))
		if strings.HasPrefix(key, "utm_") {
			continue
		}
		for _, val := range v {
			if val = strings.TrimSpace(val); val != "" {
				qClean.Add(key, val)
			}
		}
	}
	u.RawQuery = qClean.Encode()

	return u.String()
}
