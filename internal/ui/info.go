package ui

// Info is the content of the about panel.
type Info struct {
	Email   string
	Project string
	Author  string
}

// DefaultInfo credits the original tool.
var DefaultInfo = Info{
	Email:   "formationpython2024@gmail.com",
	Project: "https://github.com/XDarkSnake",
	Author:  "Matisse Briand",
}

// Lines renders the panel as plain text, one line per field.
func (i Info) Lines() []string {
	var lines []string
	if i.Email != "" {
		lines = append(lines, "Email: "+i.Email)
	}
	if i.Project != "" {
		lines = append(lines, "Github: "+i.Project)
	}
	if i.Author != "" {
		lines = append(lines, i.Author)
	}
	return lines
}
