package telegram

import (
	"strings"

	"github.com/xavierca1/partners-miniapp/internal/presenter"
)

// skipAnswer keeps the pre-filled value, or leaves an optional field empty.
const skipAnswer = "-"

type step struct {
	field    string
	prompt   string
	required bool
}

var profileSteps = []step{
	{presenter.FieldFirstName, "Введите имя", true},
	{presenter.FieldLastName, "Введите фамилию", false},
	{presenter.FieldPhone, "Введите телефон", false},
	{presenter.FieldEmail, "Введите email", false},
}

var leadSteps = []step{
	{presenter.FieldClientName, "Имя клиента", true},
	{presenter.FieldClientPhone, "Телефон клиента", true},
	{presenter.FieldService, "Услуга", true},
	{presenter.FieldDescription, "Описание", false},
}

// Wizard collects one form field per chat message.
type Wizard struct {
	modal  presenter.Modal
	steps  []step
	index  int
	values map[string]string
}

// NewWizard starts a wizard for m. prefill holds the values the form opens
// with.
func NewWizard(m presenter.Modal, prefill map[string]string) *Wizard {
	steps := leadSteps
	if m == presenter.ModalProfile {
		steps = profileSteps
	}

	values := make(map[string]string, len(steps))
	for k, v := range prefill {
		values[k] = v
	}
	return &Wizard{modal: m, steps: steps, values: values}
}

func (w *Wizard) Modal() presenter.Modal {
	return w.modal
}

// Prompt is the question for the current field.
func (w *Wizard) Prompt() string {
	s := w.steps[w.index]

	var b strings.Builder
	b.WriteString(s.prompt)
	if current := w.values[s.field]; current != "" {
		b.WriteString(" (сейчас: " + current + ", «-» оставить)")
	} else if !s.required {
		b.WriteString(" («-» пропустить)")
	}
	b.WriteString(":")
	return b.String()
}

// Answer records text for the current field. It returns false when a
// required field is still empty.
func (w *Wizard) Answer(text string) bool {
	s := w.steps[w.index]
	text = strings.TrimSpace(text)

	if text == skipAnswer {
		text = w.values[s.field]
	}
	if s.required && text == "" {
		return false
	}

	w.values[s.field] = text
	w.index++
	return true
}

func (w *Wizard) Done() bool {
	return w.index >= len(w.steps)
}

func (w *Wizard) Values() map[string]string {
	out := make(map[string]string, len(w.values))
	for k, v := range w.values {
		out[k] = v
	}
	return out
}
