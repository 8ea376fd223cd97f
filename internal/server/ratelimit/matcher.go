package ratelimit

import (
	"strings"
)

// MatchEndpoint returns the configuration that governs method and path, or nil
// when the default limit applies. An exact path beats a prefix ("/drafts/"
// covers "/drafts/{id}"); among prefixes the longest wins. An empty Method in
// a configuration matches every method.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	var prefix *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != "" && c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			if prefix == nil || len(c.Path) > len(prefix.Path) {
				prefix = c
			}
		}
	}
	return prefix
}
