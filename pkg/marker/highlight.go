package marker

import (
	"regexp"
	"strings"
	"sync"
)

// DefaultDelimiters wrap highlighted text as ==text==.
var DefaultDelimiters = Delimiters{Open: "==", Close: "=="}

// Delimiters is the token pair that wraps highlighted node text.
type Delimiters struct {
	Open  string `json:"open" mapstructure:"open"`
	Close string `json:"close" mapstructure:"close"`
}

func (d Delimiters) orDefault() Delimiters {
	if d.Open == "" || d.Close == "" {
		return DefaultDelimiters
	}
	return d
}

// patterns caches the compiled highlight pattern per delimiter pair.
var patterns sync.Map

func (d Delimiters) pattern() *regexp.Regexp {
	d = d.orDefault()
	if p, ok := patterns.Load(d); ok {
		return p.(*regexp.Regexp)
	}
	p, _ := patterns.LoadOrStore(d, regexp.MustCompile(`^((?:TODO|DOING|NOW|LATER|DONE)\s+)?`+
		regexp.QuoteMeta(d.Open)+`(.+?)`+regexp.QuoteMeta(d.Close)))
	return p.(*regexp.Regexp)
}

// Highlighted reports whether text, after any leading marker, starts with a
// delimited body.
func (d Delimiters) Highlighted(text string) bool {
	return d.pattern().MatchString(text)
}

// Wrap surrounds the text after any leading marker with the delimiters.
// Highlighted or blank text is returned unchanged.
func (d Delimiters) Wrap(text string) string {
	if d.Highlighted(text) {
		return text
	}
	d = d.orDefault()
	m := Extract(text)
	body := Strip(text)
	if strings.TrimSpace(body) == "" {
		return text
	}
	return Apply(m, d.Open+body+d.Close)
}

// Unwrap removes the first delimiter pair, keeping the leading marker and any
// text after the closing delimiter.
func (d Delimiters) Unwrap(text string) string {
	p := d.pattern()
	loc := p.FindStringSubmatchIndex(text)
	if loc == nil {
		return text
	}
	prefix := ""
	if loc[2] >= 0 {
		prefix = text[loc[2]:loc[3]]
	}
	body := text[loc[4]:loc[5]]
	return prefix + body + text[loc[1]:]
}
