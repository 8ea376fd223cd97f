package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_JSONUnmarshaling(t *testing.T) {
	jsonInput := `{
		"template_id": "classic",
		"language": "fr",
		"personal": {"first_name": "Marie", "last_name": "Curie", "phone": "+33 1 23 45 67 89"},
		"experience": [{"id": "e1", "position": "Researcher", "company": "Sorbonne", "current": true, "achievements": ["Two Nobel prizes"]}],
		"interests": ["Chemistry"]
	}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(jsonInput), &doc))
	assert.Equal(t, "classic", doc.TemplateID)
	assert.Equal(t, LangFrench, doc.Lang())
	assert.Equal(t, "Marie Curie", doc.Personal.FullName())
	require.Len(t, doc.Experience, 1)
	assert.True(t, doc.Experience[0].Current)
	assert.Equal(t, []string{"Two Nobel prizes"}, doc.Experience[0].Achievements)
	assert.Nil(t, doc.Education)
}

func TestDocument_LangDefaultsToEnglish(t *testing.T) {
	doc := Document{}
	assert.Equal(t, LangEnglish, doc.Lang())
	assert.Equal(t, KindCV, doc.Kind())
}

func TestPersonalInfo_FullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", PersonalInfo{FirstName: " Ada ", LastName: "Lovelace "}.FullName())
	assert.Equal(t, "Ada", PersonalInfo{FirstName: "Ada"}.FullName())
	assert.Equal(t, "", PersonalInfo{}.FullName())
}

func TestDocument_Normalize(t *testing.T) {
	doc := Document{Experience: []Experience{{ID: "e1", Position: "Dev"}}}
	doc.Normalize()

	assert.NotNil(t, doc.Experience[0].Achievements)
	assert.NotNil(t, doc.Education)
	assert.NotNil(t, doc.Skills)
	assert.NotNil(t, doc.Languages)
	assert.NotNil(t, doc.References)
	assert.NotNil(t, doc.Interests)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"education":[]`)
	assert.NotContains(t, string(data), `null`)
}

func TestDocument_CloneIsDeep(t *testing.T) {
	doc := sampleDocument()
	clone := doc.Clone()

	clone.Experience[0].Achievements[0] = "changed"
	clone.Experience[1].Position = "changed"
	clone.Skills[0].Name = "changed"

	assert.Equal(t, "Wrote notes", doc.Experience[0].Achievements[0])
	assert.Equal(t, "Translator", doc.Experience[1].Position)
	assert.Equal(t, "Mathematics", doc.Skills[0].Name)
}

func TestLetter_NormalizeSignatureKind(t *testing.T) {
	typed := Letter{Signature: Signature{Name: "Ada"}}
	typed.Normalize()
	assert.Equal(t, SignatureTyped, typed.Signature.Kind)
	assert.NotNil(t, typed.Paragraphs)

	drawn := Letter{Signature: Signature{Image: "data:image/png;base64,AAAA"}}
	drawn.Normalize()
	assert.Equal(t, SignatureDrawn, drawn.Signature.Kind)

	explicit := Letter{Signature: Signature{Kind: SignatureTyped, Image: "data:image/png;base64,AAAA"}}
	explicit.Normalize()
	assert.Equal(t, SignatureTyped, explicit.Signature.Kind)
}

func TestLetter_CloneIsDeep(t *testing.T) {
	letter := Letter{Paragraphs: []string{"one", "two"}}
	clone := letter.Clone()
	clone.Paragraphs[0] = "changed"
	assert.Equal(t, "one", letter.Paragraphs[0])
	assert.Equal(t, KindLetter, letter.Kind())
}
