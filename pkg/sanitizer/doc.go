// Package sanitizer provides input normalization functions for fleet data.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Functions handle invalid input gracefully,
// typically by returning empty strings or empty slices rather than errors.
//
// The package is shared across services for consistent normalization
// before validation and storage.
//
// Normalization includes:
//   - Phone numbers: Convert to E.164 format (+[country][number])
//   - Names and locations: Collapse whitespace, trim leading/trailing spaces
//   - Plate numbers: Uppercase, strip separators - "ab-123-cd" becomes "AB123CD"
//   - Slices: Remove duplicates and empty values after normalization
//   - Numbers: Clamp to valid ranges
package sanitizer
