package flagx

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvOr returns the trimmed value of key or fallback when unset or blank.
func EnvOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// EnvString overwrites *dst with key's value when it is set.
func EnvString(dst *string, key string) {
	*dst = EnvOr(key, *dst)
}

// EnvDuration overwrites *dst with key's value parsed by time.ParseDuration.
func EnvDuration(dst *time.Duration, key string) error {
	v := EnvOr(key, "")
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

// EnvBool overwrites *dst with key's value parsed by strconv.ParseBool.
func EnvBool(dst *bool, key string) error {
	v := EnvOr(key, "")
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

// EnvInt overwrites *dst with key's value parsed as a base-10 integer.
func EnvInt(dst *int, key string) error {
	v := EnvOr(key, "")
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
