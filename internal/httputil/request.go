package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
)

// maxBodyBytes bounds request bodies; forms here are small
const maxBodyBytes = 1 << 20

// ParseForm reads a JSON object or a urlencoded form into url.Values.
// JSON arrays become repeated keys, null and absent keys are omitted.
func ParseForm(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form: %w", err)
		}
		return r.PostForm, nil
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return url.Values{}, nil
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	values := url.Values{}
	for key, raw := range body {
		switch v := raw.(type) {
		case nil:
		case []any:
			for _, item := range v {
				s, err := scalar(key, item)
				if err != nil {
					return nil, err
				}
				values.Add(key, s)
			}
		default:
			s, err := scalar(key, v)
			if err != nil {
				return nil, err
			}
			values.Set(key, s)
		}
	}
	return values, nil
}

// ParseJSON decodes JSON from the request body into dest
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// QueryInt reads an integer query parameter, returning def when absent
func QueryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

func scalar(key string, v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("invalid JSON: field %q must be a string or a list of strings", key)
	}
}
