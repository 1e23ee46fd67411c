package tasks

var reasons = map[Priority][]string{
	PriorityHigh:   {"High impact on goals", "Urgent deadline approaching", "Critical for success"},
	PriorityMedium: {"Important for progress", "Moderate deadline pressure", "Good for momentum"},
	PriorityLow:    {"Nice to have completed", "Flexible timing", "Low impact activity"},
}

// Reason picks a short explanation for a task's priority. Unknown priorities
// borrow the medium reasons.
func Reason(p Priority, rng Rand) string {
	list, ok := reasons[p]
	if !ok {
		list = reasons[PriorityMedium]
	}
	return list[rng.IntN(len(list))]
}
