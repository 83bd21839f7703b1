package pkguid

import (
	"strconv"
	"strings"
)

// Prefixed renders numeric IDs as "<prefix><n>".
type Prefixed struct {
	prefix string
	gen    NumberID
}

// NewPrefixed returns a StringID that prefixes every number produced by gen.
func NewPrefixed(prefix string, gen NumberID) *Prefixed {
	return &Prefixed{prefix: prefix, gen: gen}
}

// Generate returns a new prefixed identifier.
func (p *Prefixed) Generate() string {
	return p.prefix + strconv.FormatInt(p.gen.Generate(), 10)
}

// Base36 renders numeric IDs as upper-case base-36 codes of a fixed width.
type Base36 struct {
	width int
	gen   NumberID
}

// NewBase36 returns a StringID producing codes of exactly width characters.
// Longer codes keep their least significant digits; shorter ones are zero padded.
func NewBase36(width int, gen NumberID) *Base36 {
	if width < 1 {
		width = 9
	}
	return &Base36{width: width, gen: gen}
}

// Generate returns a new code.
func (b *Base36) Generate() string {
	n := b.gen.Generate()
	if n < 0 {
		n = -n
	}

	code := strings.ToUpper(strconv.FormatInt(n, 36))
	if len(code) > b.width {
		return code[len(code)-b.width:]
	}

	return strings.Repeat("0", b.width-len(code)) + code
}
