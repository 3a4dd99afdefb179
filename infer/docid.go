package infer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DocumentID returns the identifier stored under key in doc, or a new random
// UUID when the document has none.
func DocumentID(doc map[string]any, key string) string {
	if v, ok := doc[key]; ok && v != nil {
		if s := fmt.Sprint(v); s != "" {
			return s
		}
	}
	return uuid.NewString()
}

// ParseFile picks a decoder from the file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func ParseFile(name string, b []byte) (map[string]any, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ParseYAMLBytes(b)
	}
	return ParseDocumentBytes(b)
}
