package recipebuilder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Event names recorded in the recipe event log.
const (
	EventRecipeCreated    = "recipe.created"
	EventRecipeSaveFailed = "recipe.save_failed"
	EventRecipeDeleted    = "recipe.deleted"
)

// EventLogger is the interface for recording recipe book events.
type EventLogger interface {
	LogEvent(event RecipeEvent) error
}

// NewEventLogFilePath returns a file path based on a cleaned up session label so
// logs from different runs are easy to tell apart.
func NewEventLogFilePath(label string) string {
	return fmt.Sprintf(
		"./logs/%d.%s.json",
		time.Now().Unix(),
		strings.ReplaceAll(strings.ToLower(label), " ", "_"),
	)
}

// RecipeEvent represents a single change to the recipe book.
type RecipeEvent struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	RecipeID  string    `json:"recipe_id,omitempty"`
	Recipe    *Recipe   `json:"recipe,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// FileEventLogger accumulates events and writes them as one document on Flush.
type FileEventLogger struct {
	events []RecipeEvent
	writer io.Writer
}

// NewFileEventLogger creates a new file-based event logger
func NewFileEventLogger(writer io.Writer) *FileEventLogger {
	return &FileEventLogger{
		events: make([]RecipeEvent, 0),
		writer: writer,
	}
}

// LogEvent buffers the event (does not flush immediately)
func (l *FileEventLogger) LogEvent(event RecipeEvent) error {
	l.events = append(l.events, event)
	return nil
}

// Flush writes all accumulated events to the writer
func (l *FileEventLogger) Flush() error {
	if l.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"recipe_session": map[string]any{
			"timestamp": time.Now(),
			"events":    l.events,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal event log: %w", err)
	}

	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write event log: %w", err)
	}

	l.events = l.events[:0]
	return nil
}

// NoOpEventLogger discards all events.
type NoOpEventLogger struct{}

func NewNoOpEventLogger() *NoOpEventLogger {
	return &NoOpEventLogger{}
}

func (nop *NoOpEventLogger) LogEvent(event RecipeEvent) error {
	return nil
}

// StdoutEventLogger writes each event as a JSON line (for Lambda/CloudWatch).
type StdoutEventLogger struct {
	out io.Writer
}

// NewStdoutEventLogger creates a logger writing to os.Stdout.
func NewStdoutEventLogger() *StdoutEventLogger {
	return &StdoutEventLogger{out: os.Stdout}
}

// LogEvent writes the event as a single JSON line.
func (l *StdoutEventLogger) LogEvent(event RecipeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(l.out, string(data))
	return err
}
