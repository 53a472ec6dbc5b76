package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc builds the Proxy callback for an http.Transport. With no
// explicit proxy URLs it defers to the standard environment variables.
// noProxy is a comma-separated list of hosts or domain suffixes that
// connect directly.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	var bypass []string
	for _, entry := range strings.Split(noProxy, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			bypass = append(bypass, strings.TrimPrefix(entry, "."))
		}
	}

	return func(req *http.Request) (*url.URL, error) {
		host := req.URL.Hostname()
		for _, suffix := range bypass {
			if host == suffix || strings.HasSuffix(host, "."+suffix) {
				return nil, nil
			}
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
