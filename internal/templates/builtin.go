package templates

import (
	"slices"

	"github.com/jonathan/cv-builder/internal/layout"
	"github.com/jonathan/cv-builder/internal/types"
)

var cvSections = []SectionKind{
	SectionIdentity, SectionSummary, SectionExperience, SectionEducation,
	SectionSkills, SectionLanguages, SectionReferences, SectionInterests,
}

var letterSections = []SectionKind{
	SectionSender, SectionRecipient, SectionDate, SectionSubject,
	SectionSalutation, SectionBody, SectionClosing, SectionSignature,
}

func style(font string, size float64, color string) layout.Style {
	return layout.Style{Font: font, Size: size, Color: color}
}

func bold(s layout.Style) layout.Style {
	s.Bold = true
	return s
}

func italic(s layout.Style) layout.Style {
	s.Italic = true
	return s
}

// Builtin returns the templates shipped with the builder.
func Builtin() []Definition {
	return []Definition{classic(), modern(), compact(), executive(), letterClassic(), letterModern()}
}

func classic() Definition {
	const ink, muted = "#222222", "#555555"
	return Definition{
		ID:          "classic",
		Name:        "Classic",
		Description: "Serif typography with ruled, uppercase section headings.",
		Kind:        types.KindCV,
		Page:        layout.A4(48),
		Sections:    slices.Clone(cvSections),
		Theme: Theme{
			Theme: layout.Theme{
				Heading:           bold(style("Times", 12, ink)),
				Body:              style("Times", 10.5, ink),
				Title:             bold(style("Times", 11, ink)),
				Meta:              italic(style("Times", 10, muted)),
				Accent:            ink,
				HeadingRule:       true,
				UppercaseHeadings: true,
				SectionGap:        14,
				HeadingGap:        6,
				EntryGap:          8,
				ParagraphGap:      3,
				BulletGap:         1.5,
				BulletIndent:      12,
			},
			NameStyle:     bold(style("Times", 22, ink)),
			HeadlineStyle: italic(style("Times", 12, muted)),
			ContactStyle:  style("Times", 10, muted),
			HeaderAlign:   layout.AlignCenter,
			Separator:     " | ",
		},
	}
}

func modern() Definition {
	const ink, accent, muted = "#1f2937", "#2563eb", "#6b7280"
	return Definition{
		ID:          "modern",
		Name:        "Modern",
		Description: "Sans-serif layout with a blue accent and an optional photo.",
		Kind:        types.KindCV,
		Page:        layout.A4(42),
		Sections:    slices.Clone(cvSections),
		Theme: Theme{
			Theme: layout.Theme{
				Heading:      bold(style("Helvetica", 12.5, accent)),
				Body:         style("Helvetica", 10, ink),
				Title:        bold(style("Helvetica", 10.5, ink)),
				Meta:         style("Helvetica", 9, muted),
				Accent:       accent,
				SectionGap:   16,
				HeadingGap:   6,
				EntryGap:     9,
				ParagraphGap: 4,
				BulletGap:    2,
				BulletIndent: 12,
			},
			NameStyle:     bold(style("Helvetica", 24, ink)),
			HeadlineStyle: style("Helvetica", 12, accent),
			ContactStyle:  style("Helvetica", 9, muted),
			PhotoWidth:    72,
			Separator:     " · ",
		},
	}
}

func compact() Definition {
	const ink, muted = "#111111", "#4b5563"
	return Definition{
		ID:          "compact",
		Name:        "Compact",
		Description: "Dense single-column layout with inline skill lists.",
		Kind:        types.KindCV,
		Page:        layout.A4(32),
		Sections:    slices.Clone(cvSections),
		Theme: Theme{
			Theme: layout.Theme{
				Heading:      bold(style("Helvetica", 10.5, ink)),
				Body:         layout.Style{Font: "Helvetica", Size: 9, Color: ink, LineHeight: 1.2},
				Title:        bold(style("Helvetica", 9.5, ink)),
				Meta:         style("Helvetica", 8.5, muted),
				Accent:       ink,
				HeadingRule:  true,
				SectionGap:   10,
				HeadingGap:   4,
				EntryGap:     6,
				ParagraphGap: 2,
				BulletGap:    1,
				BulletIndent: 10,
			},
			NameStyle:     bold(style("Helvetica", 18, ink)),
			HeadlineStyle: style("Helvetica", 10, muted),
			ContactStyle:  style("Helvetica", 8.5, muted),
			Separator:     " | ",
			InlineLists:   true,
		},
	}
}

func executive() Definition {
	const ink, accent, muted = "#0f172a", "#7c2d12", "#475569"
	return Definition{
		ID:          "executive",
		Name:        "Executive",
		Description: "Centered header, skills ahead of education.",
		Kind:        types.KindCV,
		Page:        layout.A4(54),
		Sections: []SectionKind{
			SectionIdentity, SectionSummary, SectionExperience, SectionSkills,
			SectionEducation, SectionLanguages, SectionReferences, SectionInterests,
		},
		Theme: Theme{
			Theme: layout.Theme{
				Heading:           bold(style("Helvetica", 11.5, accent)),
				Body:              style("Times", 11, ink),
				Title:             bold(style("Times", 11.5, ink)),
				Meta:              italic(style("Times", 10, muted)),
				Accent:            accent,
				HeadingRule:       true,
				UppercaseHeadings: true,
				SectionGap:        16,
				HeadingGap:        7,
				EntryGap:          10,
				ParagraphGap:      4,
				BulletGap:         2,
				BulletIndent:      14,
			},
			NameStyle:     bold(style("Times", 26, ink)),
			HeadlineStyle: style("Helvetica", 11, accent),
			ContactStyle:  style("Helvetica", 9, muted),
			HeaderAlign:   layout.AlignCenter,
			Separator:     " · ",
		},
	}
}

func letterTheme(font string, accent string) Theme {
	const ink, muted = "#1f2937", "#4b5563"
	return Theme{
		Theme: layout.Theme{
			Heading:      bold(style(font, 11, accent)),
			Body:         layout.Style{Font: font, Size: 11, Color: ink, LineHeight: 1.4},
			Title:        bold(style(font, 11, ink)),
			Meta:         style(font, 10, muted),
			Accent:       accent,
			SectionGap:   18,
			ParagraphGap: 10,
			BulletGap:    2,
			BulletIndent: 12,
		},
		NameStyle:      bold(style(font, 12, ink)),
		HeadlineStyle:  style(font, 10.5, muted),
		ContactStyle:   style(font, 10, muted),
		SignatureWidth: 140,
	}
}

func letterClassic() Definition {
	theme := letterTheme("Times", "#111111")
	theme.RecipientAlign = layout.AlignRight
	theme.DateAlign = layout.AlignRight
	return Definition{
		ID:          "letter-classic",
		Name:        "Classic letter",
		Description: "Traditional block letter, recipient on the right.",
		Kind:        types.KindLetter,
		Page:        layout.A4(64),
		Sections:    slices.Clone(letterSections),
		Theme:       theme,
	}
}

func letterModern() Definition {
	theme := letterTheme("Helvetica", "#2563eb")
	theme.DateAlign = layout.AlignRight
	return Definition{
		ID:          "letter-modern",
		Name:        "Modern letter",
		Description: "Sans-serif letter with the subject in the accent color.",
		Kind:        types.KindLetter,
		Page:        layout.A4(56),
		Sections: []SectionKind{
			SectionSender, SectionDate, SectionRecipient, SectionSubject,
			SectionSalutation, SectionBody, SectionClosing, SectionSignature,
		},
		Theme: theme,
	}
}
