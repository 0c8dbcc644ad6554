// Package pagination turns the render command's window flags into a scroll
// offset and viewport height, describes the resulting page, and sorts records.
//
// Two modes are supported:
//   - Offset-based: --offset (rows) and --height (rows)
//   - Page-based: --page and --page-size (items)
//
// These modes are mutually exclusive.
package pagination
