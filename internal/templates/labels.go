package templates

import "github.com/jonathan/cv-builder/internal/types"

// Labels are the fixed words a template prints in a given language.
type Labels struct {
	Sections map[SectionKind]string
	Present  string
	Subject  string
}

var labels = map[string]Labels{
	types.LangEnglish: {
		Sections: map[SectionKind]string{
			SectionSummary:    "Profile",
			SectionExperience: "Experience",
			SectionEducation:  "Education",
			SectionSkills:     "Skills",
			SectionLanguages:  "Languages",
			SectionReferences: "References",
			SectionInterests:  "Interests",
		},
		Present: "Present",
		Subject: "Subject:",
	},
	types.LangFrench: {
		Sections: map[SectionKind]string{
			SectionSummary:    "Profil",
			SectionExperience: "Expérience professionnelle",
			SectionEducation:  "Formation",
			SectionSkills:     "Compétences",
			SectionLanguages:  "Langues",
			SectionReferences: "Références",
			SectionInterests:  "Centres d'intérêt",
		},
		Present: "Présent",
		Subject: "Objet :",
	},
}

// LabelsFor returns the labels for lang, falling back to English.
func LabelsFor(lang string) Labels {
	if l, ok := labels[lang]; ok {
		return l
	}
	return labels[types.LangEnglish]
}
