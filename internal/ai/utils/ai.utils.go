package utils

import (
	"encoding/base64"
	"strings"
)

// CleanJSONOutput strips the markdown fence models like to wrap JSON in.
func CleanJSONOutput(llmOutput string) string {
	cleaned := strings.TrimSpace(llmOutput)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// DataURL builds a data URL from already base64-encoded bytes.
func DataURL(mime, b64 string) string {
	return "data:" + mime + ";base64," + b64
}

// EncodeDataURL base64-encodes data into a data URL.
func EncodeDataURL(mime string, data []byte) string {
	return DataURL(mime, base64.StdEncoding.EncodeToString(data))
}

// DecodeDataURL returns the media type and payload of a base64 data URL.
// ok is false for anything else.
func DecodeDataURL(ref string) (mime string, data []byte, ok bool) {
	rest, found := strings.CutPrefix(ref, "data:")
	if !found {
		return "", nil, false
	}
	meta, payload, found := strings.Cut(rest, ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return "", nil, false
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, false
	}
	return strings.TrimSuffix(meta, ";base64"), data, true
}
