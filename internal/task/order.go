package task

// DisplayOrder returns the tasks with every active task ahead of every
// completed one. Relative order inside each partition is preserved.
func DisplayOrder(tasks []Task) []Task {
	active, completed := partition(tasks)
	return append(active, completed...)
}

// Reorder returns the list that results from setting the completion state of
// task id to completed. The task lands at the front of its new partition;
// every other task keeps its relative order and active tasks stay ahead of
// completed ones. The input is not modified.
func Reorder(tasks []Task, id string, completed bool) []Task {
	updated := SetCompleted(tasks, id, completed)
	active, done := partition(updated)

	if completed {
		moved, rest := extract(done, id)
		out := make([]Task, 0, len(updated))
		out = append(out, active...)
		out = append(out, moved...)
		return append(out, rest...)
	}

	moved, rest := extract(active, id)
	out := make([]Task, 0, len(updated))
	out = append(out, moved...)
	out = append(out, rest...)
	return append(out, done...)
}

// SetCompleted returns a copy of tasks with the completion state of task id
// replaced. Order is unchanged.
func SetCompleted(tasks []Task, id string, completed bool) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		if t.ID == id {
			t.Completed = completed
		}
		out[i] = t
	}
	return out
}

// Remove returns a copy of tasks without task id.
func Remove(tasks []Task, id string) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// Prepend returns a new list with t in front.
func Prepend(tasks []Task, t Task) []Task {
	out := make([]Task, 0, len(tasks)+1)
	out = append(out, t)
	return append(out, tasks...)
}

// IndexOf returns the position of task id, or -1.
func IndexOf(tasks []Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Find returns task id and whether it was present.
func Find(tasks []Task, id string) (Task, bool) {
	if i := IndexOf(tasks, id); i >= 0 {
		return tasks[i], true
	}
	return Task{}, false
}

// OpenCount returns the number of active tasks.
func OpenCount(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

func partition(tasks []Task) (active, completed []Task) {
	active = make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			active = append(active, t)
		}
	}
	return active, completed
}

// extract splits out task id from tasks and returns it (zero or one element)
// along with the remaining tasks in order.
func extract(tasks []Task, id string) (moved, rest []Task) {
	rest = make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == id {
			moved = append(moved, t)
			continue
		}
		rest = append(rest, t)
	}
	return moved, rest
}
