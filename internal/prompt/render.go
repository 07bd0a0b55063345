package prompt

import (
	"fmt"
	"strings"
)

const (
	QuestionPlaceholder = "{{QUESTION}}"
	ResponsePlaceholder = "{{RESPONSE}}"
)

// TemplateError reports a template that does not carry each placeholder exactly once.
// It is raised at startup, never per item.
type TemplateError struct {
	Template    string
	Placeholder string
	Count       int
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("prompt template %q: placeholder %s appears %d times, want exactly 1", e.Template, e.Placeholder, e.Count)
}

// Template is a validated jury prompt. Rendering a Template cannot fail.
type Template struct {
	name string
	text string
}

func NewTemplate(name, text string) (*Template, error) {
	if err := check(name, text); err != nil {
		return nil, err
	}
	return &Template{name: name, text: text}, nil
}

func MustTemplate(name, text string) *Template {
	t, err := NewTemplate(name, text)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) Name() string {
	return t.name
}

func (t *Template) Text() string {
	return t.text
}

// Render substitutes the task prompt and candidate output verbatim.
// Inserted text is never scanned again, so a candidate containing "{{QUESTION}}" stays as written.
func (t *Template) Render(taskPrompt, candidateOutput string) string {
	r := strings.NewReplacer(
		QuestionPlaceholder, taskPrompt,
		ResponsePlaceholder, candidateOutput,
	)
	return r.Replace(t.text)
}

// Render validates template and renders it in one call.
func Render(template, taskPrompt, candidateOutput string) (string, error) {
	t, err := NewTemplate("inline", template)
	if err != nil {
		return "", err
	}
	return t.Render(taskPrompt, candidateOutput), nil
}

func check(name, text string) error {
	for _, placeholder := range []string{QuestionPlaceholder, ResponsePlaceholder} {
		if n := strings.Count(text, placeholder); n != 1 {
			return &TemplateError{Template: name, Placeholder: placeholder, Count: n}
		}
	}
	return nil
}
