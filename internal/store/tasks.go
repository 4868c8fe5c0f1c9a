package store

import (
	"strings"

	"github.com/tgienger/planboard/internal/models"
)

func taskID(t models.Task) int64       { return t.ID }
func subTaskID(s models.SubTask) int64 { return s.ID }

// AddTask appends a new task with no sub-tasks
func AddTask(tasks []models.Task, id int64, text, description string) ([]models.Task, models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return tasks, models.Task{}, required("task", "text")
	}
	task := models.Task{
		ID:          id,
		Text:        text,
		Description: strings.TrimSpace(description),
		SubTasks:    []models.SubTask{},
	}
	return appendItem(tasks, task), task, nil
}

// ToggleTask flips the completed flag of the matching task
func ToggleTask(tasks []models.Task, id int64) []models.Task {
	return replaceByID(tasks, id, taskID, func(t models.Task) models.Task {
		t.Completed = !t.Completed
		return t
	})
}

// EditTask replaces the task with the same id, keeping its position
func EditTask(tasks []models.Task, task models.Task) ([]models.Task, error) {
	task.Text = strings.TrimSpace(task.Text)
	if task.Text == "" {
		return tasks, required("task", "text")
	}
	if task.SubTasks == nil {
		task.SubTasks = []models.SubTask{}
	}
	return replaceByID(tasks, task.ID, taskID, func(models.Task) models.Task { return task }), nil
}

// RemoveTask deletes the task and, with it, all of its sub-tasks
func RemoveTask(tasks []models.Task, id int64) []models.Task {
	return removeByID(tasks, id, taskID)
}

// AddSubTask appends a sub-task to the parent task. A missing parent is
// rejected like any other invalid input.
func AddSubTask(tasks []models.Task, parentID, id int64, text, description string) ([]models.Task, models.SubTask, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return tasks, models.SubTask{}, required("sub-task", "text")
	}
	if !Contains(tasks, parentID, taskID) {
		return tasks, models.SubTask{}, invalid("sub-task", "parent", parentID)
	}
	sub := models.SubTask{ID: id, Text: text, Description: strings.TrimSpace(description)}
	return replaceByID(tasks, parentID, taskID, func(t models.Task) models.Task {
		t.SubTasks = appendItem(t.SubTasks, sub)
		return t
	}), sub, nil
}

// ToggleSubTask flips the completed flag of one sub-task
func ToggleSubTask(tasks []models.Task, parentID, id int64) []models.Task {
	return replaceByID(tasks, parentID, taskID, func(t models.Task) models.Task {
		t.SubTasks = replaceByID(t.SubTasks, id, subTaskID, func(s models.SubTask) models.SubTask {
			s.Completed = !s.Completed
			return s
		})
		return t
	})
}

// EditSubTask replaces the sub-task with the same id under the parent
func EditSubTask(tasks []models.Task, parentID int64, sub models.SubTask) ([]models.Task, error) {
	sub.Text = strings.TrimSpace(sub.Text)
	if sub.Text == "" {
		return tasks, required("sub-task", "text")
	}
	return replaceByID(tasks, parentID, taskID, func(t models.Task) models.Task {
		t.SubTasks = replaceByID(t.SubTasks, sub.ID, subTaskID, func(models.SubTask) models.SubTask { return sub })
		return t
	}), nil
}

// RemoveSubTask deletes one sub-task from its parent
func RemoveSubTask(tasks []models.Task, parentID, id int64) []models.Task {
	return replaceByID(tasks, parentID, taskID, func(t models.Task) models.Task {
		t.SubTasks = removeByID(t.SubTasks, id, subTaskID)
		return t
	})
}
