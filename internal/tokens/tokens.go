package tokens

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts text tokens for a model's encoding.
type Counter interface {
	Count(text string) (int, error)
}

// TiktokenCounter counts tokens with an OpenAI BPE encoding.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewCounter returns a counter for the named encoding, e.g. "cl100k_base".
func NewCounter(encodingName string) (*TiktokenCounter, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s: %w", encodingName, err)
	}

	return &TiktokenCounter{encoding: encoding}, nil
}

// Count implements Counter.
func (c *TiktokenCounter) Count(text string) (int, error) {
	return len(c.encoding.Encode(text, nil, nil)), nil
}

// Analysis describes one analyzed file.
type Analysis struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Bytes  int    `json:"bytes"`
	Lines  int    `json:"lines"`
	Tokens int    `json:"tokens"`
}

// AnalyzeFile reads the file and reports its size, line count
// and token count under the given counter.
func AnalyzeFile(path string, counter Counter) (*Analysis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	analysis, err := Analyze(string(content), counter)
	if err != nil {
		return nil, err
	}

	analysis.Name = path
	analysis.Type = FileType(path)

	return analysis, nil
}

// Analyze reports size, line count and token count for the text.
func Analyze(text string, counter Counter) (*Analysis, error) {
	count, err := counter.Count(text)
	if err != nil {
		return nil, fmt.Errorf("count tokens: %w", err)
	}

	return &Analysis{
		Type:   "text",
		Bytes:  len(text),
		Lines:  countLines(text),
		Tokens: count,
	}, nil
}

func countLines(text string) int {
	if text == "" {
		return 0
	}

	scanner := bufio.NewScanner(bytes.NewReader([]byte(text)))
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), len(text)+1)

	lines := 0
	for scanner.Scan() {
		lines++
	}

	return lines
}

// fileTypes maps well-known extensions to a human readable type.
var fileTypes = map[string]string{
	".go":   "Go source",
	".py":   "Python source",
	".sh":   "shell script",
	".md":   "Markdown text",
	".rst":  "reStructuredText",
	".txt":  "plain text",
	".json": "JSON data",
	".yaml": "YAML data",
	".yml":  "YAML data",
	".toml": "TOML data",
	".html": "HTML document",
	".css":  "CSS stylesheet",
	".js":   "JavaScript source",
	".ts":   "TypeScript source",
	".c":    "C source",
	".h":    "C header",
	".rs":   "Rust source",
	".sql":  "SQL script",
	".csv":  "CSV data",
}

// FileType classifies a file by its extension.
func FileType(path string) string {
	extension := strings.ToLower(filepath.Ext(path))
	if fileType, ok := fileTypes[extension]; ok {
		return fileType
	}

	return "text"
}
