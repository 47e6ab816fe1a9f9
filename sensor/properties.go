// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package sensor

import (
	"sort"
	"strings"
)

// Properties govern how the data of one sensor is interpreted and
// interpolated. The recognized keys are "categorical" (bool; default is
// true unless the element type is floating-point), "interp_degree" (int,
// default 1) and "initial_value" (the filler for a sensor with no usable
// data). Any other keys are passed through to the categorical run builder.
type Properties map[string]any

// Categorical returns the explicit categorical flag, if set.
func (p Properties) Categorical() (value, ok bool) {
	b, ok := p["categorical"].(bool)
	return b, ok
}

// InterpDegree returns the polynomial degree for interpolation of numeric
// data (default 1).
func (p Properties) InterpDegree() int {
	if d, ok := p["interp_degree"].(int); ok {
		return d
	}
	return 1
}

// InitialValue returns the filler value for a sensor with no usable data,
// if set.
func (p Properties) InitialValue() (any, bool) {
	v, ok := p["initial_value"]
	return v, ok
}

// update merges o into p, overwriting existing keys.
func (p Properties) update(o Properties) {
	for k, v := range o {
		p[k] = v
	}
}

// classProperties are properties shared by every sensor whose name ends in
// the suffix.
type classProperties struct {
	suffix string
	props  Properties
}

// splitProperties separates a property table into per-class rules (keys of
// the form "*suffix") and exact-name entries. Class rules are ordered by
// suffix so that resolution is deterministic.
func splitProperties(
	table map[string]Properties,
) (class []classProperties, exact map[string]Properties) {
	exact = make(map[string]Properties, len(table))
	for key, props := range table {
		if strings.HasPrefix(key, "*") {
			class = append(class, classProperties{key[1:], props})
		} else {
			exact[key] = props
		}
	}
	sort.Slice(class, func(i, j int) bool {
		return class[i].suffix < class[j].suffix
	})
	return class, exact
}

// resolveProperties merges the property layers for one sensor name in fixed
// precedence order: class-pattern matches, then the exact-name entry, then
// call-site overrides. The merged result (including overrides) is cached
// under the name for reuse.
func (c *Cache) resolveProperties(name string, overrides Properties) Properties {
	props, ok := c.resolvedProps[name]
	if !ok {
		props = Properties{}
		for _, class := range c.classProps {
			if strings.HasSuffix(name, class.suffix) {
				props.update(class.props)
			}
		}
		props.update(c.exactProps[name])
		c.resolvedProps[name] = props
	}
	props.update(overrides)
	return props
}
