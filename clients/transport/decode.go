package transport

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// DecodeList decodes a list response into out. The APIs answer either with
// a bare JSON array or with an object holding the array under one of keys;
// the first non-empty array wins. A response with none leaves out untouched.
func DecodeList(body []byte, out interface{}, keys ...string) error {
	if !gjson.ValidBytes(body) {
		return fmt.Errorf("invalid JSON response")
	}

	res := gjson.ParseBytes(body)
	if res.IsArray() {
		return json.Unmarshal(body, out)
	}

	for _, key := range keys {
		if v := res.Get(key); v.IsArray() && len(v.Array()) > 0 {
			return json.Unmarshal([]byte(v.Raw), out)
		}
	}

	return nil
}

// String returns the first non-empty string value among paths.
func String(obj gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := obj.Get(p); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
