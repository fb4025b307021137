// Package render formats command output as ASCII tables or JSON.
package render
