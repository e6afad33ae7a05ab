// Package sanitizer provides input normalization functions for gallery data.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Functions handle invalid input gracefully,
// typically by returning empty strings rather than errors.
//
// Normalization includes:
//   - Strings: Collapse whitespace, trim leading/trailing spaces
//   - URLs: Enforce HTTPS, lowercase domains, strip www and tracking params
package sanitizer
