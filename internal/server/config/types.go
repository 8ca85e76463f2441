package config

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TeamList accepts a JSON array or a ';'-separated list.
type TeamList []string

func (t *TeamList) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		return nil
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		if len(list) > 0 {
			*t = list
		}
		return nil
	}

	list = list[:0]
	for _, part := range strings.Split(raw, ";") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	if len(list) > 0 {
		*t = list
	}
	return nil
}

// FolderMap maps team names to Drive folder ids. It accepts a JSON object or
// "team=id;team=id".
type FolderMap map[string]string

func (m *FolderMap) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		return nil
	}

	out := map[string]string{}
	if strings.HasPrefix(raw, "{") {
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return fmt.Errorf("team folder map: %w", err)
		}
		*m = out
		return nil
	}

	for _, pair := range strings.Split(raw, ";") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	*m = out
	return nil
}

var idSeparators = regexp.MustCompile(`[;,\s]+`)

// IDList holds chat ids. Entries that are not plain digits are skipped.
type IDList []int64

func (l *IDList) UnmarshalText(text []byte) error {
	var ids IDList
	for _, part := range idSeparators.Split(strings.TrimSpace(string(text)), -1) {
		if part == "" || strings.Trim(part, "0123456789") != "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, id)
	}
	*l = ids
	return nil
}

func (l IDList) Contains(id int64) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Switch is a boolean that reads 1, true, yes and on (any case) as true and
// anything else as false.
type Switch bool

func (s *Switch) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "1", "true", "yes", "on":
		*s = true
	default:
		*s = false
	}
	return nil
}
