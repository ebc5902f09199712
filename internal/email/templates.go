package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Шаблоны писем. Их два, поэтому держим их прямо в коде,
// без загрузки из директории.
var templates = template.Must(template.New("email").Parse(`
{{define "enrollment_confirmation"}}
<h2>Вы записаны на курс</h2>
<p>Поздравляем! Оплата прошла успешно, и вам открыт доступ к курсу <strong>{{.CourseTitle}}</strong>.</p>
<p>Курс уже ждет вас в личном кабинете.</p>
{{end}}

{{define "welcome"}}
<h2>Добро пожаловать!</h2>
<p>{{if .Name}}{{.Name}}, рады{{else}}Рады{{end}} видеть вас на Savage Movie.</p>
<p>Теперь вам доступны курсы и личный кабинет.</p>
{{end}}
`))

type templateData struct {
	Name        string
	CourseTitle string
}

func renderTemplate(name string, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", name, err)
	}
	return buf.String(), nil
}
