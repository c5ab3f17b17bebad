package views

// SelectedSource asks the app to show a source in the task pane
type SelectedSource struct {
	Source Source
}

// OpenProjects asks the app to show the project manager
type OpenProjects struct{}

// CloseProjects returns from the project manager
type CloseProjects struct{}

// StatusMsg shows a transient line in the status bar
type StatusMsg struct {
	Text string
}

func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// BackToSidebar moves focus from the task pane to the sidebar
type BackToSidebar struct{}
