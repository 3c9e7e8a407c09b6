package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pdxmph/tasks-tui/internal/task"
)

// DefaultKey is the key the task list is stored under
const DefaultKey = "tasks"

// taskListSchema describes the stored value: an array of task records
const taskListSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name", "dueDate", "priority", "completed"],
    "properties": {
      "id": {"type": "integer"},
      "name": {"type": "string"},
      "dueDate": {"type": "string"},
      "priority": {"enum": ["low", "medium", "high"]},
      "completed": {"type": "boolean"}
    }
  }
}`

var compiledTaskListSchema = jsonschema.MustCompileString("tasks.schema.json", taskListSchema)

// TaskList persists the full task list as a JSON array under one key
type TaskList struct {
	kv     KV
	key    string
	logger *log.Logger
}

// NewTaskList creates a task list stored in kv under key. An empty key
// uses DefaultKey.
func NewTaskList(kv KV, key string, logger *log.Logger) *TaskList {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.Default()
	}
	return &TaskList{kv: kv, key: key, logger: logger}
}

// Key returns the storage key
func (l *TaskList) Key() string {
	return l.key
}

// Load returns the stored tasks. A missing, unreadable or malformed value
// yields an empty list; the problem is logged, never returned.
func (l *TaskList) Load() []task.Task {
	raw, ok, err := l.kv.Get(l.key)
	if err != nil {
		l.logger.Error("Reading stored tasks", "key", l.key, "err", err)
		return []task.Task{}
	}
	if !ok {
		l.logger.Debug("No stored tasks", "key", l.key)
		return []task.Task{}
	}

	tasks, err := Decode(raw)
	if err != nil {
		l.logger.Warn("Ignoring malformed stored tasks", "key", l.key, "err", err)
		return []task.Task{}
	}

	l.logger.Debug("Loaded tasks", "key", l.key, "count", len(tasks))
	return tasks
}

// Save overwrites the stored value with tasks
func (l *TaskList) Save(tasks []task.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}

	if err := l.kv.Set(l.key, data); err != nil {
		return fmt.Errorf("writing %s: %w", l.key, err)
	}

	l.logger.Debug("Saved tasks", "key", l.key, "count", len(tasks))
	return nil
}

// Encode serializes tasks as a JSON array. A nil list encodes as [].
func Encode(tasks []task.Task) (string, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encoding tasks: %w", err)
	}
	return string(data), nil
}

// Decode parses and validates a stored task list
func Decode(raw string) ([]task.Task, error) {
	var doc interface{}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing tasks: %w", err)
	}

	if err := compiledTaskListSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validating tasks: %w", err)
	}

	var tasks []task.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("decoding tasks: %w", err)
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}
