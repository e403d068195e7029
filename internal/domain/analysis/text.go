package analysis

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Text accepts either a JSON string or a list and stores it as one string.
// Models are inconsistent about which shape they return for prose fields.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var list TextList
	if err := list.UnmarshalJSON(b); err != nil {
		return err
	}
	*t = Text(strings.Join(list, "\n"))
	return nil
}

// TextList accepts a JSON list (of strings or objects) or a single string.
type TextList []string

func (l *TextList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*l = TextList{}
			return nil
		}
		*l = TextList{s}
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		out := make(TextList, 0, len(raw))
		for _, item := range raw {
			out = append(out, stringify(item))
		}
		*l = out
	default:
		*l = TextList{stringify(b)}
	}
	return nil
}

func stringify(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
