package mail

import (
	htmltemplate "html/template"
	texttemplate "text/template"

	gomail "github.com/wneessen/go-mail"

	"github.com/custommatt/account-api/internal/core/ports"
)

const welcomeSubject = "Welcome to Our Store! Account Created Successfully"

var welcomeText = texttemplate.Must(texttemplate.New("welcome.txt").Parse(`Hello {{.FirstName}} {{.LastName}},

Welcome to Our Store! Your account has been created successfully.

Account Details:
- Email: {{.Email}}
- Username: {{.Username}}
- Account Type: {{.AccountType}}

If you have any questions, reply to this email.

Best regards,
Our Store
`))

var welcomeHTML = htmltemplate.Must(htmltemplate.New("welcome.html").Parse(`<h1>Hello {{.FirstName}} {{.LastName}} ({{.Username}})!</h1>
<h3>Welcome to Our Store! Your account has been created successfully.</h3>
<ul>
  <li><strong>Email:</strong> {{.Email}}</li>
  <li><strong>Username:</strong> {{.Username}}</li>
  <li><strong>Account Type:</strong> {{.AccountType}}</li>
</ul>
<p>If you have any questions, reply to this email.</p>
<p>Best regards,<br>Our Store</p>
`))

// newWelcomeMsg renders the welcome mail with a plain-text body and an HTML
// alternative.
func newWelcomeMsg(fromName, fromAddr string, w ports.WelcomeMessage) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.FromFormat(fromName, fromAddr); err != nil {
		return nil, err
	}
	if err := m.To(w.Email); err != nil {
		return nil, err
	}
	m.Subject(welcomeSubject)

	if err := m.SetBodyTextTemplate(welcomeText, w); err != nil {
		return nil, err
	}
	if err := m.AddAlternativeHTMLTemplate(welcomeHTML, w); err != nil {
		return nil, err
	}
	return m, nil
}
