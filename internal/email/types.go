package email

// Email - одно письмо
type Email struct {
	To       []string
	ReplyTo  string
	Subject  string
	Body     string
	HTMLBody string
}

type TemplateData map[string]interface{}
