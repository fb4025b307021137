// Package browserutil opens documentation pages in a web browser,
// guarding against opens from non-interactive sessions.
package browserutil
