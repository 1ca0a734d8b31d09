package email

import (
	"fmt"
	"html/template"
	"strings"
)

const TemplateItemInterest = "item_interest"

var templates = template.Must(template.New(TemplateItemInterest).Parse(`<p>Hello {{.SellerName}},</p>
<p><b>{{.WisherName}}</b> ({{.WisherEmail}}) is interested in your item <b>{{.ItemTitle}}</b>.</p>
<p>Reply to this email to get in touch.</p>`))

// Render рендерит встроенный шаблон письма
func Render(name string, data TemplateData) (string, error) {
	var buf strings.Builder
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}
