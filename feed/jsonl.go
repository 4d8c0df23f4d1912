package feed

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"rainybook/domain/mbo"
)

// readJSONL decodes a JSON-lines event file, one event object per
// line. Blank lines are skipped.
func readJSONL(path string) ([]mbo.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var messages []mbo.Message
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var e event
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("jsonl line %d: %w", line, err)
		}
		msg, err := e.normalize()
		if err != nil {
			return nil, fmt.Errorf("jsonl line %d: %w", line, err)
		}
		messages = append(messages, msg)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}
