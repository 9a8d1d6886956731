package models

import "sort"

// VersionKey is the context field holding the version tag.
const VersionKey = "version"

// Context maps template field names to values for one lesson.
// Values are strings or *RichText.
type Context struct {
	version string
	fields  map[string]any
}

// NewContext creates a context holding only the version tag.
func NewContext(version string) *Context {
	c := &Context{version: version}
	c.Reset()
	return c
}

// Set stores a field value, replacing any previous value.
func (c *Context) Set(key string, value any) {
	c.fields[key] = value
}

// Keys returns the field names in sorted order.
func (c *Context) Keys() []string {
	keys := make([]string, 0, len(c.fields))
	for k := range c.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fields returns a copy of the mapping for the template renderer.
func (c *Context) Fields() map[string]any {
	out := make(map[string]any, len(c.fields))
	for k, v := range c.fields {
		out[k] = v
	}
	return out
}

// Reset drops every field except the version tag.
func (c *Context) Reset() {
	c.fields = map[string]any{VersionKey: c.version}
}

// BindSlots writes each slot as N{pos}/T{pos} fields.
// Header slots without a number only set the text field.
func (c *Context) BindSlots(slots []Slot) {
	for _, s := range slots {
		if s.Number != "" {
			c.Set(s.NumberKey(), s.Number)
		}
		c.Set(s.TextKey(), s.Text)
	}
}
