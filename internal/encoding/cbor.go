// Package encoding provides CBOR encoding for clients preferring a
// compact binary response body over JSON.
package encoding

import (
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// ContentTypeCBOR is the media type negotiated via the Accept header.
const ContentTypeCBOR = "application/cbor"

// MarshalCBOR encodes data to CBOR format.
func MarshalCBOR(v interface{}) ([]byte, error) {
	return cbor.Marshal(v)
}

// UnmarshalCBOR decodes CBOR data.
func UnmarshalCBOR(data []byte, v interface{}) error {
	return cbor.Unmarshal(data, v)
}

// AcceptsCBOR reports whether an Accept header asks for CBOR. JSON
// stays the default for absent or wildcard Accept values.
func AcceptsCBOR(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.TrimSpace(part)
		if i := strings.Index(mediaType, ";"); i >= 0 {
			mediaType = strings.TrimSpace(mediaType[:i])
		}
		if strings.EqualFold(mediaType, ContentTypeCBOR) {
			return true
		}
	}
	return false
}
