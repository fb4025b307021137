// Package tokens analyzes text files: byte, line and model token counts.
package tokens
