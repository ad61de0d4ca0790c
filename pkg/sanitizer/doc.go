// Package sanitizer turns free-form client text into identifiers that are safe
// to use as a single filesystem path component.
//
// Identifier normalizes to NFC, maps whitespace and filesystem-reserved
// characters to underscores, keeps only Unicode letters, digits, underscores
// and hyphens, and caps the result at a rune length:
//
//	sanitizer.Identifier("Order#7 / s01of05", sanitizer.MaxOrderIDLength) // "Order7_s01of05"
//
// OrderDirectory then drops the "_sNNofM" marker of multi-item orders so all
// items share one directory:
//
//	sanitizer.OrderDirectory("Order7_s01of05") // "Order7"
//	sanitizer.OrderDirectory("")               // "no_order"
//
// Neither function can fail; unusable input yields an empty identifier.
package sanitizer
