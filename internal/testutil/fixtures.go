package testutil

import (
	"encoding/json"
	"fmt"
)

// Sample JSON responses for data source testing

// SamplePageResponse is a small page of items as returned by the data source
const SamplePageResponse = `["1.2.3.4", "8.8.8.8", "203.0.113.7"]`

// SampleEmptyPageResponse is returned once the requested range is past the end
const SampleEmptyPageResponse = `[]`

// SampleObjectResponse is valid JSON but not an array of items
const SampleObjectResponse = `{"items": ["1.2.3.4"]}`

// SampleMixedResponse is an array whose elements are not all strings
const SampleMixedResponse = `["1.2.3.4", 42, null]`

// MakeItems returns n deterministic items starting at index offset
func MakeItems(offset, n int) []string {
	items := make([]string, n)
	for i := 0; i < n; i++ {
		items[i] = fmt.Sprintf("item-%d", offset+i)
	}
	return items
}

// MakePageResponse encodes MakeItems(offset, n) as a data source body
func MakePageResponse(offset, n int) []byte {
	// Marshalling a []string cannot fail
	body, _ := json.Marshal(MakeItems(offset, n))
	return body
}
