package template

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/vvka-141/temporarily/pkg/temporarily"
)

const (
	digitAlphabet  = "0123456789"
	wordAlphabet   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	secureAlphabet = "0123456789abcdef"
)

var placeholderGroup = regexp.MustCompile(`\{([^}]+)\}`)

// Renderer expands placeholder groups. The zero value is not usable; call
// NewRenderer.
type Renderer struct {
	mu      sync.Mutex
	rnd     *mrand.Rand
	classes map[rune]func() byte
}

// NewRenderer returns a Renderer drawing digit and word characters from rnd.
// A nil rnd uses the process-wide source. Secure characters always come from
// crypto/rand.
func NewRenderer(rnd *mrand.Rand) *Renderer {
	r := &Renderer{rnd: rnd}
	r.classes = map[rune]func() byte{
		'd': func() byte { return r.pick(digitAlphabet) },
		'w': func() byte { return r.pick(wordAlphabet) },
		'x': func() byte { return securePick(secureAlphabet) },
	}
	return r
}

var defaultRenderer = NewRenderer(nil)

// Render expands pattern with the package default renderer.
func Render(pattern string) (string, error) {
	return defaultRenderer.Render(pattern)
}

// Validate reports whether pattern only uses known placeholder classes.
func Validate(pattern string) error {
	return defaultRenderer.Validate(pattern)
}

// HasPlaceholders reports whether rendering pattern can produce different results.
func HasPlaceholders(pattern string) bool {
	return placeholderGroup.MatchString(pattern)
}

// Render expands every placeholder group in pattern, left to right.
func (r *Renderer) Render(pattern string) (string, error) {
	matches := placeholderGroup.FindAllStringSubmatchIndex(pattern, -1)
	if matches == nil {
		return pattern, nil
	}

	var b strings.Builder
	b.Grow(len(pattern))

	last := 0
	for _, m := range matches {
		b.WriteString(pattern[last:m[0]])
		for _, c := range pattern[m[2]:m[3]] {
			gen, err := r.class(c)
			if err != nil {
				return "", err
			}
			b.WriteByte(gen())
		}
		last = m[1]
	}
	b.WriteString(pattern[last:])

	return b.String(), nil
}

// Validate checks every placeholder character without rendering.
func (r *Renderer) Validate(pattern string) error {
	for _, m := range placeholderGroup.FindAllStringSubmatch(pattern, -1) {
		for _, c := range m[1] {
			if _, err := r.class(c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) class(c rune) (func() byte, error) {
	gen, ok := r.classes[unicode.ToLower(c)]
	if !ok {
		return nil, &temporarily.InvalidTemplateError{Char: c, Valid: r.validClasses()}
	}
	return gen, nil
}

func (r *Renderer) validClasses() []string {
	valid := make([]string, 0, len(r.classes))
	for c := range r.classes {
		valid = append(valid, string(c))
	}
	sort.Strings(valid)
	return valid
}

func (r *Renderer) pick(alphabet string) byte {
	if r.rnd == nil {
		return alphabet[mrand.IntN(len(alphabet))]
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return alphabet[r.rnd.IntN(len(alphabet))]
}

func securePick(alphabet string) byte {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is unusable.
		panic(err)
	}
	return alphabet[n.Int64()]
}
