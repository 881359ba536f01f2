package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// maxBodySize bounds every request body.
const maxBodySize = 1 << 20

func decodeBody(r *http.Request, dest any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.UseNumber()

	err := dec.Decode(dest)
	if err != nil {
		return badRequest("Invalid JSON body: %v", err)
	}

	return nil
}

func decodeObject(r *http.Request) (map[string]any, error) {
	var obj map[string]any
	err := decodeBody(r, &obj)
	if err != nil {
		return nil, err
	}

	if obj == nil {
		return nil, badRequest("Request body must be a JSON object")
	}

	return obj, nil
}

// require fails on the first key missing from data.
func require(data map[string]any, keys ...string) error {
	for _, key := range keys {
		_, ok := data[key]
		if !ok {
			return badRequest("`%s` does not exist.", key)
		}
	}

	return nil
}

// pick keeps only the listed keys; missing ones are nil.
func pick(data map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, key := range keys {
		out[key] = data[key]
	}

	return out
}

// pickPresent keeps only the listed keys that data actually carries.
func pickPresent(data map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, key := range keys {
		v, ok := data[key]
		if ok {
			out[key] = v
		}
	}

	return out
}

func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, badRequest("Invalid id %q", raw)
	}

	return id, nil
}

// toInt64 reads an identifier out of a decoded JSON value.
func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case json.Number:
		return x.Int64()
	case string:
		return strconv.ParseInt(x, 10, 64)
	case int64:
		return x, nil
	case float64:
		if x == float64(int64(x)) {
			return int64(x), nil
		}
	}

	return 0, fmt.Errorf("%v is not an integer", v)
}

// truthy follows the frontend's notion of an empty field.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != "" && x != "0"
	case int64:
		return x != 0
	case uint64:
		return x != 0
	case float64:
		return x != 0
	case bool:
		return x
	}

	return true
}
