package types

// Signature kinds
const (
	SignatureTyped = "typed"
	SignatureDrawn = "drawn"
)

// Letter is a cover letter. It is rendered only by letter templates.
type Letter struct {
	ID         string    `json:"id,omitempty"`
	TemplateID string    `json:"template_id,omitempty"`
	Language   string    `json:"language,omitempty" validate:"omitempty,oneof=en fr"`
	Sender     Party     `json:"sender"`
	Recipient  Party     `json:"recipient"`
	Date       string    `json:"date,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	Salutation string    `json:"salutation,omitempty"`
	Paragraphs []string  `json:"paragraphs"`
	Closing    string    `json:"closing,omitempty"`
	Signature  Signature `json:"signature"`
}

// Party is the sender or the recipient of a letter.
type Party struct {
	Name    string `json:"name,omitempty"`
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
}

// Signature is either a typed name or a captured drawing (data URI image).
type Signature struct {
	Kind  string `json:"kind,omitempty" validate:"omitempty,oneof=typed drawn"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

// Kind reports KindLetter.
func (l *Letter) Kind() DocumentKind { return KindLetter }

// Lang returns the letter language, defaulting to English.
func (l *Letter) Lang() string {
	if l.Language == "" {
		return LangEnglish
	}
	return l.Language
}

// Normalize replaces nil lists with empty ones.
func (l *Letter) Normalize() {
	if l.Paragraphs == nil {
		l.Paragraphs = []string{}
	}
	if l.Signature.Kind == "" {
		if l.Signature.Image != "" {
			l.Signature.Kind = SignatureDrawn
		} else {
			l.Signature.Kind = SignatureTyped
		}
	}
}

// Clone returns a deep copy of l.
func (l Letter) Clone() Letter {
	out := l
	out.Paragraphs = append([]string{}, l.Paragraphs...)
	return out
}
