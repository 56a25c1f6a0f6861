package api

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"resume-chat/internal/helper"
)

var ErrInvalidRating = errors.New("rating must be \"up\" or \"down\"")

// lineBreaks keeps one entry per line in the log; every other byte of the
// question is written as received.
var lineBreaks = strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\r`)

var ratingMarks = map[string]string{
	"up":   "👍",
	"down": "👎",
}

// FeedbackLog appends one line per rating to a flat file.
type FeedbackLog struct {
	mu   sync.Mutex
	path string
}

func NewFeedbackLog(path string) *FeedbackLog {
	return &FeedbackLog{path: path}
}

// Append records "<mark> <question>" for rating "up" or "down". Line breaks
// in the question are written as the two-character escapes \n and \r.
func (f *FeedbackLog) Append(rating, question string) error {
	mark, ok := ratingMarks[strings.ToLower(strings.TrimSpace(rating))]
	if !ok {
		return fmt.Errorf("%w: got %q", ErrInvalidRating, rating)
	}
	line := mark + " " + lineBreaks.Replace(question) + "\n"

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := helper.CreateParentFolder(f.path); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.WriteString(line); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
