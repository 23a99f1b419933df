package mcp

import (
	"fmt"
	"strconv"
	"strings"
)

func argString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing required argument: %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %s is not a string", key)
	}
	return s, nil
}

func optString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func argInt(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func argBool(args map[string]any, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

func argStringList(args map[string]any, key string) ([]string, error) {
	v, ok := args[key]
	if !ok {
		return nil, fmt.Errorf("missing required argument: %s", key)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("argument %s is not a list", key)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("argument %s contains a non-string item", key)
		}
		out = append(out, s)
	}
	return out, nil
}

func argByteList(args map[string]any, key string) ([]uint8, error) {
	v, ok := args[key]
	if !ok {
		return nil, fmt.Errorf("missing required argument: %s", key)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("argument %s is not a list", key)
	}
	out := make([]uint8, 0, len(list))
	for _, item := range list {
		n, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("argument %s contains a non-integer item", key)
		}
		out = append(out, uint8(int(n)&0xFF))
	}
	return out, nil
}

// parseAddress normalizes an address argument given as a native
// integer, a 0x-prefixed hex string or a decimal string.
func parseAddress(args map[string]any, key string) (uint32, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing required argument: %s", key)
	}
	switch a := v.(type) {
	case float64:
		if a < 0 {
			return 0, fmt.Errorf("negative address: %v", a)
		}
		return uint32(a), nil
	case int:
		if a < 0 {
			return 0, fmt.Errorf("negative address: %v", a)
		}
		return uint32(a), nil
	case string:
		// base 0 handles both 0x-prefixed hex and plain decimal
		n, err := strconv.ParseUint(strings.TrimSpace(a), 0, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid address %q", a)
		}
		return uint32(n), nil
	default:
		return 0, fmt.Errorf("invalid address type %T", v)
	}
}
