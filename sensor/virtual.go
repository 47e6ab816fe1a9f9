// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package sensor

import "regexp"

type (
	// VirtualConstructor computes the raw data of a virtual sensor on
	// demand. It receives the cache (so it may look up other sensors or
	// register associated ones via Add), the resolved sensor name, and the
	// identifier bindings captured from the name by the template pattern.
	VirtualConstructor func(
		c *Cache,
		name string,
		vars map[string]string,
	) (Series, error)

	// VirtualTemplate pairs a name pattern containing {identifier}
	// placeholders with the constructor invoked for matching names.
	VirtualTemplate struct {
		Pattern   string
		Construct VirtualConstructor
	}

	virtualTemplate struct {
		pattern string
		re      *regexp.Regexp
		build   VirtualConstructor
	}
)

var placeholder = regexp.MustCompile(`\{[a-zA-Z_]\w*\}`)

// compileTemplate expands each {identifier} placeholder into a named
// capture group matching anything up to the next name separator, and
// anchors the pattern so the whole sensor name must match.
func compileTemplate(pattern string) (*regexp.Regexp, error) {
	expanded := placeholder.ReplaceAllStringFunc(pattern, func(m string) string {
		return "(?P<" + m[1:len(m)-1] + ">[^/]+)"
	})
	return regexp.Compile("^(?:" + expanded + ")$")
}

// matchVirtual scans the registered templates in registration order and
// invokes the constructor of the first one whose pattern matches the name.
// The boolean result reports whether any template matched.
func (c *Cache) matchVirtual(name string) (Series, bool, error) {
	for _, t := range c.virtual {
		groups := t.re.FindStringSubmatch(name)
		if groups == nil {
			continue
		}
		vars := make(map[string]string)
		for i, sub := range t.re.SubexpNames() {
			if i > 0 && sub != "" {
				vars[sub] = groups[i]
			}
		}
		series, err := t.build(c, name, vars)
		return series, true, err
	}
	return nil, false, nil
}
