package layout

// Align positions a text line horizontally within its box.
type Align string

const (
	AlignLeft   Align = ""
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ContentKind names the variant held by a Section.
type ContentKind string

const (
	ContentParagraph ContentKind = "paragraph"
	ContentBullets   ContentKind = "bulletList"
	ContentEntries   ContentKind = "entryList"
	ContentImage     ContentKind = "image"
)

// Section is one titled part of a document. An empty Heading means the
// section is laid out without a heading block.
type Section struct {
	Kind    string
	Heading string
	Content Content
}

// Content is one of Paragraph, BulletList, EntryList or Image.
type Content interface {
	ContentKind() ContentKind
}

// Text is a run of text wrapped as a unit. Newlines force a line break.
type Text struct {
	Value string
	Style Style
	Align Align
}

// Paragraph is a sequence of texts stacked vertically. Lines fragment across
// pages individually unless the paragraph has an Aside image, in which case
// the paragraph is placed as one block with the image at its top right.
type Paragraph struct {
	Texts []Text
	Aside *Image
}

// BulletList is a list of items drawn with a bullet marker in the theme body style.
type BulletList struct {
	Items []string
}

// Entry is one record of an entry list: a header (title, dates, subtitle)
// followed by optional description text and bullets.
type Entry struct {
	Title       string
	Subtitle    string
	Dates       string
	Description string
	Bullets     []string
}

// IsEmpty reports whether the entry has no visible text.
func (e Entry) IsEmpty() bool {
	if hasText(e.Title) || hasText(e.Subtitle) || hasText(e.Dates) || hasText(e.Description) {
		return false
	}
	for _, b := range e.Bullets {
		if hasText(b) {
			return false
		}
	}
	return true
}

// EntryList holds entries that are kept whole on a page whenever they fit.
type EntryList struct {
	Entries []Entry
}

// Image is a standalone picture, such as a drawn signature. Source is a data URI.
type Image struct {
	Source string
	Width  float64
	Height float64
	Align  Align
}

func (Paragraph) ContentKind() ContentKind  { return ContentParagraph }
func (BulletList) ContentKind() ContentKind { return ContentBullets }
func (EntryList) ContentKind() ContentKind  { return ContentEntries }
func (Image) ContentKind() ContentKind      { return ContentImage }

// IsEmpty reports whether the section has nothing to lay out.
func (s Section) IsEmpty() bool {
	switch c := s.Content.(type) {
	case Paragraph:
		if c.Aside != nil {
			return false
		}
		for _, t := range c.Texts {
			if hasText(t.Value) {
				return false
			}
		}
		return true
	case BulletList:
		for _, item := range c.Items {
			if hasText(item) {
				return false
			}
		}
		return true
	case EntryList:
		for _, e := range c.Entries {
			if !e.IsEmpty() {
				return false
			}
		}
		return true
	case Image:
		return c.Source == ""
	default:
		return true
	}
}
