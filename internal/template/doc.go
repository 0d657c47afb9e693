// Package template renders name patterns into randomized path segments.
//
// A pattern is literal text with bracketed placeholder groups. Every
// character inside a group is replaced independently according to its class:
//
//   - d: a random decimal digit
//   - w: a random letter from a-z and A-Z
//   - x: a cryptographically random lowercase hex character
//
// Class characters are case-insensitive, so "{WWWWDDDD}" and "{wwwwdddd}"
// render the same shape. Text outside groups is copied unchanged.
package template
