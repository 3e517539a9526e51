package site

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/catdaemon/simplesite/pkg/record"
)

const maxMessageLength = 4000

// Message is a contact form submission.
type Message struct {
	record.Record
}

func (m *Message) Name() string  { return strings.TrimSpace(m.String("name")) }
func (m *Message) Email() string { return strings.TrimSpace(m.String("email")) }
func (m *Message) Body() string  { return strings.TrimSpace(m.String("body")) }

func (m *Message) CreatedAt() time.Time { return m.Time("created_at") }

// Validate returns one message per invalid field, nil when the submission
// can be stored.
func (m *Message) Validate() []string {
	var errs []string
	if m.Name() == "" {
		errs = append(errs, "Please tell us your name.")
	}
	if _, err := mail.ParseAddress(m.Email()); err != nil {
		errs = append(errs, "Please enter a valid email address.")
	}
	switch n := utf8.RuneCountInString(m.Body()); {
	case n == 0:
		errs = append(errs, "The message is empty.")
	case n > maxMessageLength:
		errs = append(errs, "The message is too long.")
	}
	return errs
}

// created_at is filled by the database.
var messageSchema = record.Schema{
	Table:   "messages",
	Columns: []string{"id", "name", "email", "body"},
}
