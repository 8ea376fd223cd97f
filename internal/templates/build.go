package templates

import (
	"fmt"
	"regexp"

	"github.com/jonathan/cv-builder/internal/layout"
	"github.com/jonathan/cv-builder/internal/types"
)

// BuildCV maps doc onto the sections def lists, in def order. It performs no
// I/O and never modifies doc. Sections with nothing to show are omitted.
func BuildCV(def Definition, doc types.Document) []layout.Section {
	lb := LabelsFor(doc.Lang())
	out := make([]layout.Section, 0, len(def.Sections))
	for _, kind := range def.Sections {
		s := layout.Section{Kind: string(kind), Heading: lb.Sections[kind]}
		switch kind {
		case SectionIdentity:
			s.Heading = ""
			s.Content = identity(def.Theme, doc.Personal)
		case SectionSummary:
			s.Content = layout.Paragraph{Texts: []layout.Text{{Value: clean(doc.Summary), Style: def.Theme.Body}}}
		case SectionExperience:
			s.Content = experience(doc.Experience, lb)
		case SectionEducation:
			s.Content = education(doc.Education, lb)
		case SectionSkills:
			items := make([]string, 0, len(doc.Skills))
			for _, sk := range doc.Skills {
				items = append(items, withLevel(sk.Name, sk.Level))
			}
			s.Content = list(def.Theme, items)
		case SectionLanguages:
			items := make([]string, 0, len(doc.Languages))
			for _, l := range doc.Languages {
				items = append(items, withLevel(l.Name, l.Level))
			}
			s.Content = list(def.Theme, items)
		case SectionReferences:
			s.Content = references(def.Theme, doc.References)
		case SectionInterests:
			s.Content = layout.Paragraph{Texts: []layout.Text{{Value: join(", ", doc.Interests...), Style: def.Theme.Body}}}
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

func identity(th Theme, p types.PersonalInfo) layout.Paragraph {
	align := th.HeaderAlign
	para := layout.Paragraph{Texts: []layout.Text{
		{Value: clean(p.FullName()), Style: th.NameStyle, Align: align},
		{Value: clean(p.Headline), Style: th.HeadlineStyle, Align: align},
		{Value: join(th.Separator, p.Email, p.Phone, join(", ", p.Address, p.City, p.Country)), Style: th.ContactStyle, Align: align},
		{Value: join(th.Separator, p.Website, p.LinkedIn), Style: th.ContactStyle, Align: align},
	}}

	if th.PhotoWidth > 0 && p.Photo != "" {
		// Validation rejects unusable photos; a photo that still fails to decode is left out.
		if img, err := types.DecodeImage(p.Photo); err == nil {
			para.Aside = &layout.Image{
				Source: p.Photo,
				Width:  th.PhotoWidth,
				Height: th.PhotoWidth * float64(img.Height) / float64(img.Width),
			}
		}
	}
	return para
}

func experience(items []types.Experience, lb Labels) layout.EntryList {
	entries := make([]layout.Entry, 0, len(items))
	for _, e := range items {
		bullets := make([]string, 0, len(e.Achievements))
		for _, a := range e.Achievements {
			if a = clean(a); a != "" {
				bullets = append(bullets, a)
			}
		}
		entries = appendEntry(entries, layout.Entry{
			Title:       clean(e.Position),
			Subtitle:    join(", ", e.Company, e.Location),
			Dates:       DateRange(e.StartDate, e.EndDate, e.Current, lb),
			Description: clean(e.Description),
			Bullets:     bullets,
		})
	}
	return layout.EntryList{Entries: entries}
}

func education(items []types.Education, lb Labels) layout.EntryList {
	entries := make([]layout.Entry, 0, len(items))
	for _, e := range items {
		entries = appendEntry(entries, layout.Entry{
			Title:       clean(e.Degree),
			Subtitle:    join(", ", e.Institution, e.Location),
			Dates:       DateRange(e.StartDate, e.EndDate, false, lb),
			Description: clean(e.Description),
		})
	}
	return layout.EntryList{Entries: entries}
}

func references(th Theme, items []types.Reference) layout.EntryList {
	entries := make([]layout.Entry, 0, len(items))
	for _, r := range items {
		entries = appendEntry(entries, layout.Entry{
			Title:       clean(r.Name),
			Subtitle:    join(", ", r.Position, r.Company),
			Description: join(th.Separator, r.Email, r.Phone),
		})
	}
	return layout.EntryList{Entries: entries}
}

// appendEntry drops entries whose fields are all blank.
func appendEntry(entries []layout.Entry, e layout.Entry) []layout.Entry {
	if e.IsEmpty() {
		return entries
	}
	return append(entries, e)
}

// list renders named items as bullets, or as one line when the theme inlines lists.
func list(th Theme, items []string) layout.Content {
	if th.InlineLists {
		return layout.Paragraph{Texts: []layout.Text{{Value: join(th.Separator, items...), Style: th.Body}}}
	}
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item = clean(item); item != "" {
			kept = append(kept, item)
		}
	}
	return layout.BulletList{Items: kept}
}

func withLevel(name, level string) string {
	name, level = clean(name), clean(level)
	if name == "" {
		return ""
	}
	if level == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, level)
}

var yearMonth = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// formatDate renders "2021-08" as "08/2021" and leaves anything else as typed.
func formatDate(d string) string {
	d = clean(d)
	if m := yearMonth.FindStringSubmatch(d); m != nil {
		return m[2] + "/" + m[1]
	}
	return d
}

// DateRange formats an entry period such as "08/2020 - Present".
func DateRange(start, end string, current bool, lb Labels) string {
	start, end = formatDate(start), formatDate(end)
	if current {
		end = lb.Present
	}
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start
	default:
		return start + " - " + end
	}
}
