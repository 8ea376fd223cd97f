package templates

import (
	"github.com/jonathan/cv-builder/internal/layout"
	"github.com/jonathan/cv-builder/internal/types"
)

// BuildLetter maps a cover letter onto the sections def lists. Like BuildCV it
// is pure and omits empty sections.
func BuildLetter(def Definition, l types.Letter) []layout.Section {
	th := def.Theme
	lb := LabelsFor(l.Lang())
	out := make([]layout.Section, 0, len(def.Sections))

	for _, kind := range def.Sections {
		s := layout.Section{Kind: string(kind)}
		switch kind {
		case SectionSender:
			s.Content = party(th, l.Sender, th.SenderAlign, th.NameStyle)
		case SectionRecipient:
			s.Content = party(th, l.Recipient, th.RecipientAlign, th.Title)
		case SectionDate:
			s.Content = layout.Paragraph{Texts: []layout.Text{{Value: clean(l.Date), Style: th.Body, Align: th.DateAlign}}}
		case SectionSubject:
			subject := clean(l.Subject)
			if subject != "" {
				subject = lb.Subject + " " + subject
			}
			s.Content = layout.Paragraph{Texts: []layout.Text{{Value: subject, Style: th.Heading}}}
		case SectionSalutation:
			s.Content = layout.Paragraph{Texts: []layout.Text{{Value: clean(l.Salutation), Style: th.Body}}}
		case SectionBody:
			texts := make([]layout.Text, 0, len(l.Paragraphs))
			for _, p := range l.Paragraphs {
				texts = append(texts, layout.Text{Value: clean(p), Style: th.Body})
			}
			s.Content = layout.Paragraph{Texts: texts}
		case SectionClosing:
			s.Content = layout.Paragraph{Texts: []layout.Text{{Value: clean(l.Closing), Style: th.Body}}}
		case SectionSignature:
			s.Content = signature(th, l)
		default:
			continue
		}
		if s.IsEmpty() {
			continue
		}
		out = append(out, s)
	}
	return out
}

func party(th Theme, p types.Party, align layout.Align, nameStyle layout.Style) layout.Paragraph {
	return layout.Paragraph{Texts: []layout.Text{
		{Value: clean(p.Name), Style: nameStyle, Align: align},
		{Value: join(", ", p.Title, p.Company), Style: th.HeadlineStyle, Align: align},
		{Value: clean(p.Address), Style: th.ContactStyle, Align: align},
		{Value: clean(p.City), Style: th.ContactStyle, Align: align},
		{Value: join(th.Separator, p.Email, p.Phone), Style: th.ContactStyle, Align: align},
	}}
}

func signature(th Theme, l types.Letter) layout.Content {
	kind := l.Signature.Kind
	if kind == "" && l.Signature.Image != "" {
		kind = types.SignatureDrawn
	}

	if kind == types.SignatureDrawn {
		if img, err := types.DecodeImage(l.Signature.Image); err == nil {
			width := min(th.SignatureWidth, float64(img.Width))
			if width <= 0 {
				width = float64(img.Width)
			}
			return layout.Image{
				Source: l.Signature.Image,
				Width:  width,
				Height: width * float64(img.Height) / float64(img.Width),
				Align:  th.SenderAlign,
			}
		}
	}

	name := clean(l.Signature.Name)
	if name == "" {
		name = clean(l.Sender.Name)
	}
	st := th.Title
	st.Italic = true
	return layout.Paragraph{Texts: []layout.Text{{Value: name, Style: st, Align: th.SenderAlign}}}
}
