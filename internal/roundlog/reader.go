package roundlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// ReadAll loads every event from the rounds.jsonl file at path, in file order.
func ReadAll(path string) ([]RoundEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("roundlog: open %s: %w", path, err)
	}
	defer f.Close()

	var events []RoundEvent
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event RoundEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("roundlog: parse round event at %s line %d: %w", path, lineNum, err)
		}
		event.Line = lineNum
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("roundlog: scan %s: %w", path, err)
	}
	return events, nil
}
